package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/storelens/internal/analyzer"
	"github.com/KaramelBytes/storelens/internal/cleaner"
	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/storetype"
	"github.com/KaramelBytes/storelens/internal/table"
)

func result(t *testing.T) *analyzer.Result {
	t.Helper()
	tb := table.New("orders", []string{"id", "date", "customer", "product", "qty", "price"}, [][]string{
		{"A1", "2024-01-01", "C1", "Shirt", "2", "10"},
		{"A2", "2024-01-02", "C2", "Dress", "1", "50"},
		{"A3", "2024-03-04", "C1", "Shirt", "3", "10"},
	})
	m := schema.NewMapping()
	m.Set(schema.TransactionID, "id")
	m.Set(schema.OrderDate, "date")
	m.Set(schema.CustomerID, "customer")
	m.Set(schema.ProductName, "product")
	m.Set(schema.Quantity, "qty")
	m.Set(schema.UnitPrice, "price")
	return analyzer.Analyze(cleaner.Clean(tb, m), storetype.Fashion, analyzer.DefaultOptions())
}

func TestBuildEveryKind(t *testing.T) {
	res := result(t)
	all, err := BuildAll(res, "en")
	require.NoError(t, err)
	require.Len(t, all, len(Kinds()))
	for _, c := range all {
		assert.NotEmpty(t, c.Title, c.Kind)
		for _, s := range c.Series {
			assert.Len(t, s.Values, len(c.Labels), "%s/%s", c.Kind, s.Name)
		}
	}
}

func TestSalesTrendAndSeasonality(t *testing.T) {
	res := result(t)
	c, err := Build("sales_trend", res, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-03-04"}, c.Labels)
	assert.Equal(t, []float64{20, 50, 30}, c.Series[0].Values)

	c, err = Build(" Seasonality ", res, "en")
	require.NoError(t, err)
	require.Len(t, c.Labels, 12)
	assert.Equal(t, "March", c.Labels[2])
	assert.Equal(t, 70.0, c.Series[0].Values[0])
	assert.Equal(t, 0.0, c.Series[0].Values[1])
	assert.Equal(t, 30.0, c.Series[0].Values[2])
}

func TestTopProductsAndBenchmark(t *testing.T) {
	res := result(t)
	c, err := Build(KindTopProducts, res, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"Shirt", "Dress"}, c.Labels)

	c, err = Build(KindBenchmark, res, "ar")
	require.NoError(t, err)
	require.Len(t, c.Series, 2)
	assert.Equal(t, "متجرك", c.Series[0].Name)
	assert.Equal(t, 85.2, c.Series[1].Values[0])
}

func TestEmptyCharts(t *testing.T) {
	res := result(t)
	c, err := Build(KindCategoryDistribution, res, "en")
	require.NoError(t, err)
	assert.True(t, c.Empty)
	assert.NotNil(t, c.Labels)
}

func TestUnknownKind(t *testing.T) {
	_, err := Build("radar", result(t), "en")
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = Build(KindKPI, nil, "en")
	assert.Error(t, err)
}

func TestArabicLabels(t *testing.T) {
	c, err := Build(KindWeekly, result(t), "ar")
	require.NoError(t, err)
	assert.Equal(t, "الاثنين", c.Labels[0])
	assert.Equal(t, "المبيعات حسب أيام الأسبوع", c.Title)
}
