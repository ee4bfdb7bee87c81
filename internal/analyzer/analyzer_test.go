package analyzer

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/storelens/internal/cleaner"
	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/storetype"
	"github.com/KaramelBytes/storelens/internal/table"
)

func ordersFixture(rows [][]string) *cleaner.Cleaned {
	tb := table.New("orders", []string{
		"order_id", "order_date", "customer_id", "product_name", "qty", "price", "category", "source",
	}, rows)
	m := schema.NewMapping()
	m.Set(schema.TransactionID, "order_id")
	m.Set(schema.OrderDate, "order_date")
	m.Set(schema.CustomerID, "customer_id")
	m.Set(schema.ProductName, "product_name")
	m.Set(schema.Quantity, "qty")
	m.Set(schema.UnitPrice, "price")
	m.Set(schema.ProductCategory, "category")
	m.Set(schema.TrafficSource, "source")
	return cleaner.Clean(tb, m)
}

func threeOrders() *cleaner.Cleaned {
	return ordersFixture([][]string{
		{"A1", "2024-01-01", "C1", "Shirt", "2", "10", "tops", "instagram"},
		{"A2", "2024-01-02", "C2", "Dress", "1", "50", "dresses", "google"},
		{"A3", "2024-02-05", "C1", "Shirt", "3", "10", "tops", "instagram"},
	})
}

func TestAnalyzeRevenueFromSynthesizedTotal(t *testing.T) {
	res := Analyze(threeOrders(), storetype.Fashion, DefaultOptions())

	sp := res.SalesPerformance
	assert.InDelta(t, 2*10+1*50+3*10, sp.TotalRevenue, 1e-9)
	assert.InDelta(t, 100.0/3, sp.AverageOrderValue, 1e-9)
	assert.InDelta(t, 6, sp.TotalQuantity, 1e-9)
	assert.InDelta(t, 1, sp.OrdersPerDay, 1e-9)

	p := res.StoreProfile
	assert.Equal(t, storetype.Fashion, p.StoreType)
	assert.Equal(t, 3, p.TotalOrders)
	assert.Equal(t, 3, p.ActiveDays)
	assert.Equal(t, 2, p.UniqueCustomers)
	require.NotNil(t, p.DateRange)
	assert.Equal(t, "2024-01-01", p.DateRange.Start)
	assert.Equal(t, "2024-02-05", p.DateRange.End)
	assert.Equal(t, 35, p.DateRange.Days)
}

func TestAnalyzeCustomersAndProducts(t *testing.T) {
	res := Analyze(threeOrders(), storetype.Fashion, DefaultOptions())

	ca := res.CustomerAnalysis
	assert.Equal(t, 2, ca.TotalCustomers)
	assert.Equal(t, 1, ca.RepeatCustomers)
	assert.InDelta(t, 50, ca.RepeatRate, 1e-9)
	assert.Equal(t, 2, ca.Segments.Total())

	pa := res.ProductAnalysis
	require.Len(t, pa.TopProducts, 2)
	assert.Equal(t, ProductSales{Product: "Shirt", Quantity: 5}, pa.TopProducts[0])
	assert.Equal(t, []ValueCount{{"tops", 2}, {"dresses", 1}}, pa.CategoryDistribution)
	assert.NotEmpty(t, pa.ProductRecommendations)

	assert.Equal(t, []ValueCount{{"instagram", 2}, {"google", 1}}, res.MarketingAnalysis.Channels)
}

func TestAnalyzeFinancials(t *testing.T) {
	res := Analyze(threeOrders(), storetype.Fashion, DefaultOptions())
	fa := res.FinancialAnalysis
	require.True(t, fa.Available)
	assert.InDelta(t, 0.35, fa.CostRatio, 1e-9)
	assert.InDelta(t, 35, fa.EstimatedCOGS, 1e-9)
	assert.InDelta(t, 65, fa.GrossProfit, 1e-9)
	assert.InDelta(t, 65, fa.GrossMargin, 1e-9)
	assert.InDelta(t, 45.5, fa.NetProfitEstimate, 1e-9)
	assert.InDelta(t, 4.5, res.InventoryAnalysis.TurnoverEstimate, 1e-9)
}

func TestAnalyzeSeasonality(t *testing.T) {
	res := Analyze(threeOrders(), storetype.Fashion, DefaultOptions())
	sa := res.SeasonalAnalysis
	assert.Equal(t, []MonthRevenue{
		{Month: 1, Name: "January", Revenue: 70},
		{Month: 2, Name: "February", Revenue: 30},
	}, sa.MonthlyTrends)
	assert.Equal(t, []int{1, 2}, sa.PeakPeriods)
	assert.Equal(t, []WeekdayRevenue{
		{Weekday: "Monday", Revenue: 50},
		{Weekday: "Tuesday", Revenue: 50},
	}, sa.WeeklyPatterns)
	require.Len(t, sa.DailyTrend, 3)
	assert.Equal(t, "2024-01-01", sa.DailyTrend[0].Date)
	assert.Equal(t, 1, sa.DailyTrend[0].Orders)
}

func TestAnalyzeEmptyTableIsZeroed(t *testing.T) {
	res := Analyze(ordersFixture(nil), storetype.Fashion, DefaultOptions())
	assert.Equal(t, 0, res.StoreProfile.TotalOrders)
	assert.Nil(t, res.StoreProfile.DateRange)
	assert.Zero(t, res.SalesPerformance.TotalRevenue)
	assert.Zero(t, res.SalesPerformance.AverageOrderValue)
	assert.Zero(t, res.SalesPerformance.OrdersPerDay)
	assert.Zero(t, res.CustomerAnalysis.RepeatRate)
	assert.Zero(t, res.FinancialAnalysis.GrossMargin)
	assert.Empty(t, res.ProductAnalysis.TopProducts)
	assert.Empty(t, res.SeasonalAnalysis.MonthlyTrends)
	assert.Zero(t, res.DataQuality.OverallScore)
	assert.Equal(t, "F", res.DataQuality.Grade)
}

func TestAnalyzeWithoutTotals(t *testing.T) {
	tb := table.New("o", []string{"order_id", "customer"}, [][]string{{"1", "a"}, {"2", "a"}})
	m := schema.NewMapping()
	m.Set(schema.TransactionID, "order_id")
	m.Set(schema.CustomerID, "customer")
	res := Analyze(cleaner.Clean(tb, m), storetype.General, DefaultOptions())
	assert.False(t, res.FinancialAnalysis.Available)
	assert.Zero(t, res.SalesPerformance.TotalRevenue)
	assert.Equal(t, 1, res.CustomerAnalysis.RepeatCustomers)
	assert.Zero(t, res.CustomerAnalysis.Segments.Total())
}

func TestAnalyzeFallsBackToGeneral(t *testing.T) {
	res := Analyze(threeOrders(), storetype.Category("spaceships"), DefaultOptions())
	assert.Equal(t, storetype.General, res.StoreProfile.StoreType)
	assert.Equal(t, storetype.General, res.Benchmarks.Category)

	res = Analyze(threeOrders(), storetype.Handmade, DefaultOptions())
	assert.Equal(t, storetype.General, res.Benchmarks.Category)
	assert.InDelta(t, 75.0, res.Benchmarks.AOV, 1e-9)
}

func TestAnalyzeLanguageAndDate(t *testing.T) {
	opt := DefaultOptions()
	opt.Language = "ar"
	opt.AnalysisDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res := Analyze(threeOrders(), storetype.Fashion, opt)
	assert.Equal(t, "ar", res.Language)
	assert.Equal(t, "2024-03-01", res.StoreProfile.AnalysisDate)
	assert.Equal(t, storetype.Fashion.DisplayName("ar"), res.StoreProfile.StoreTypeName)
	assert.NotEqual(t,
		Analyze(threeOrders(), storetype.Fashion, DefaultOptions()).Recommendations.Immediate,
		res.Recommendations.Immediate)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	c := threeOrders()
	assert.Equal(t, Analyze(c, storetype.Fashion, DefaultOptions()), Analyze(c, storetype.Fashion, DefaultOptions()))
}

func TestDataQuality(t *testing.T) {
	c := ordersFixture([][]string{
		{"A1", "2024-01-01", "C1", "Shirt", "2", "10", "tops", "instagram"},
		{"A1", "2024-01-01", "C1", "Shirt", "2", "10", "tops", "instagram"},
		{"A2", "someday", "C2", "", "1", "-5", "tops", "google"},
	})
	q := Analyze(c, storetype.Fashion, DefaultOptions()).DataQuality

	// 8 source columns; the derived total is not counted.
	require.Equal(t, "total_amount", c.DerivedTotal)
	assert.Equal(t, 24, q.TotalCells)
	assert.Equal(t, 2, q.MissingCells)
	assert.Equal(t, 1, q.DuplicateRows)
	assert.Equal(t, 1, q.NegativeAmounts)
	assert.InDelta(t, 100*22.0/24, q.CompletenessScore, 1e-9)
	assert.InDelta(t, 100*2.0/3, q.UniquenessScore, 1e-9)
	// Typed cells: order_date, qty, price on 3 rows; one date failed.
	assert.InDelta(t, 100*8.0/9, q.ConsistencyScore, 1e-9)
	assert.Len(t, q.Issues, 4)
	require.Len(t, q.Columns, 8)
	for _, col := range q.Columns {
		assert.NotEqual(t, c.DerivedTotal, col.Name)
	}
}

func TestAnalyzeHugeTotalsStayFinite(t *testing.T) {
	tb := table.New("orders", []string{"order_id", "total"}, [][]string{
		{"A1", "1e308"},
		{"A2", "1e308"},
		{"A3", "900000000000000"},
		{"A4", "900000000000000"},
	})
	m := schema.NewMapping()
	m.Set(schema.TransactionID, "order_id")
	m.Set(schema.TotalAmount, "total")
	res := Analyze(cleaner.Clean(tb, m), storetype.Fashion, DefaultOptions())

	fa := res.FinancialAnalysis
	assert.InDelta(t, 1.8e15, fa.TotalRevenue, 1)
	for _, v := range []float64{fa.TotalRevenue, fa.GrossProfit, fa.GrossMargin, fa.NetProfitEstimate} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "non-finite value %v", v)
	}
	assert.Contains(t, res.DataQuality.Issues, "2 numeric cells could not be parsed")

	_, err := json.Marshal(res)
	require.NoError(t, err)
}

func TestGrade(t *testing.T) {
	assert.Equal(t, "A", grade(95))
	assert.Equal(t, "B", grade(80))
	assert.Equal(t, "C", grade(75))
	assert.Equal(t, "D", grade(60))
	assert.Equal(t, "F", grade(10))
}

func TestSegmentBands(t *testing.T) {
	s := segment([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	assert.Equal(t, Segments{VIP: 1, HighValue: 2, MediumValue: 3, LowValue: 4}, s)
}
