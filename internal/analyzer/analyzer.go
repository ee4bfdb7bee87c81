// Package analyzer computes the sales, customer, product, financial,
// seasonal and data-quality sections of a store analysis from a cleaned
// table. Analyze is a pure function of its inputs: every section degrades
// to zero values when the fields it needs are unmapped, and no division by
// zero ever reaches the result.
package analyzer

import (
	"sort"
	"time"

	"github.com/KaramelBytes/storelens/internal/cleaner"
	"github.com/KaramelBytes/storelens/internal/rules"
	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/storetype"
	"github.com/KaramelBytes/storelens/internal/table"
)

// Options tune an analysis.
type Options struct {
	// Rules supplies cost ratios, benchmarks and advice. Nil uses the defaults.
	Rules *rules.Rules
	// Language selects the advice and issue text ("en" or "ar").
	Language string
	// AnalysisDate is stamped on the store profile when set.
	AnalysisDate time.Time
	// DateFormat renders dates; defaults to 2006-01-02.
	DateFormat string
}

// DefaultOptions returns English output with the built-in rules.
func DefaultOptions() Options {
	return Options{Rules: rules.Default(), Language: "en", DateFormat: "2006-01-02"}
}

const (
	topProductsLimit = 10
	categoryLimit    = 10
	channelLimit     = 5
	peakMonths       = 3
)

// Analyze runs every section over c for the given store category. Unknown
// categories are treated as general.
func Analyze(c *cleaner.Cleaned, category storetype.Category, opt Options) *Result {
	if opt.Rules == nil {
		opt.Rules = rules.Default()
	}
	if opt.Language == "" {
		opt.Language = "en"
	}
	if opt.DateFormat == "" {
		opt.DateFormat = "2006-01-02"
	}
	if c == nil {
		c = cleaner.Clean(nil, schema.NewMapping())
	}
	a := &run{c: c, cat: category.OrGeneral(), opt: opt}
	a.prepare()

	res := &Result{Language: opt.Language}
	res.StoreProfile = a.storeProfile()
	res.SalesPerformance = a.salesPerformance(res.StoreProfile.ActiveDays)
	res.CustomerAnalysis = a.customers()
	res.ProductAnalysis = a.products()
	res.FinancialAnalysis = a.financials()
	res.MarketingAnalysis = a.marketing()
	res.InventoryAnalysis = a.inventory()
	res.SeasonalAnalysis = a.seasonality()
	res.Benchmarks = a.benchmarks()
	res.Recommendations = a.recommendations()
	res.DataQuality = a.dataQuality()
	return res
}

// run carries the inputs of one Analyze call and columns resolved once.
type run struct {
	c   *cleaner.Cleaned
	cat storetype.Category
	opt Options

	totals    []cleaner.Number
	hasTotals bool
	dates     []cleaner.Date
	hasDates  bool
}

func (a *run) prepare() {
	a.totals, a.hasTotals = a.c.Numbers(schema.TotalAmount)
	a.dates, a.hasDates = a.c.Dates()
}

func (a *run) storeProfile() StoreProfile {
	p := StoreProfile{
		StoreType:     a.cat,
		StoreTypeName: a.cat.DisplayName(a.opt.Language),
		TotalOrders:   a.c.Rows(),
	}
	if !a.opt.AnalysisDate.IsZero() {
		p.AnalysisDate = a.opt.AnalysisDate.Format(a.opt.DateFormat)
	}
	if a.hasDates {
		var lo, hi time.Time
		days := map[string]bool{}
		for _, d := range a.dates {
			if !d.Valid {
				continue
			}
			if lo.IsZero() || d.Value.Before(lo) {
				lo = d.Value
			}
			if hi.IsZero() || d.Value.After(hi) {
				hi = d.Value
			}
			days[d.Value.Format("2006-01-02")] = true
		}
		if len(days) > 0 {
			p.DateRange = &DateRange{
				Start: lo.Format(a.opt.DateFormat),
				End:   hi.Format(a.opt.DateFormat),
				Days:  int(hi.Sub(lo).Hours() / 24),
			}
			p.ActiveDays = len(days)
		}
	}
	if ids, ok := a.c.Text(schema.CustomerID); ok {
		p.UniqueCustomers = countDistinct(ids)
	}
	if ids, ok := a.c.Text(schema.ProductID); ok {
		p.UniqueProducts = countDistinct(ids)
	}
	return p
}

func (a *run) salesPerformance(activeDays int) SalesPerformance {
	s := SalesPerformance{}
	rows := a.c.Rows()
	if a.hasTotals {
		s.TotalRevenue = sumValid(a.totals)
		s.AverageOrderValue = safeDiv(s.TotalRevenue, float64(rows))
	}
	if a.hasDates && activeDays > 0 {
		s.OrdersPerDay = safeDiv(float64(rows), float64(activeDays))
		if a.hasTotals {
			s.RevenuePerDay = safeDiv(s.TotalRevenue, float64(activeDays))
		}
	}
	if q, ok := a.c.Numbers(schema.Quantity); ok {
		s.TotalQuantity = sumValid(q)
	}
	if d, ok := a.c.Numbers(schema.DiscountAmount); ok {
		s.TotalDiscount = sumValid(d)
	}
	return s
}

func (a *run) customers() CustomerAnalysis {
	out := CustomerAnalysis{}
	ids, ok := a.c.Text(schema.CustomerID)
	if !ok {
		return out
	}
	counts := map[string]int{}
	var order []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	out.TotalCustomers = len(order)
	for _, n := range counts {
		if n > 1 {
			out.RepeatCustomers++
		}
	}
	out.RepeatRate = safeDiv(float64(out.RepeatCustomers), float64(out.TotalCustomers)) * 100

	if !a.hasTotals || len(order) == 0 {
		return out
	}
	spend := map[string]float64{}
	for i, id := range ids {
		if id != "" && a.totals[i].Valid {
			spend[id] += a.totals[i].Value
		}
	}
	revenue := make([]float64, 0, len(order))
	for _, id := range order {
		revenue = append(revenue, spend[id])
	}
	out.Segments = segment(revenue)
	return out
}

// segment buckets per-customer revenue at the 0.9, 0.7 and 0.4 quantiles.
func segment(revenue []float64) Segments {
	sorted := append([]float64(nil), revenue...)
	sort.Float64s(sorted)
	q90 := table.Quantile(sorted, 0.9)
	q70 := table.Quantile(sorted, 0.7)
	q40 := table.Quantile(sorted, 0.4)
	var s Segments
	for _, v := range revenue {
		switch {
		case v >= q90:
			s.VIP++
		case v >= q70:
			s.HighValue++
		case v >= q40:
			s.MediumValue++
		default:
			s.LowValue++
		}
	}
	return s
}

func (a *run) products() ProductAnalysis {
	out := ProductAnalysis{
		TopProducts:            []ProductSales{},
		CategoryDistribution:   []ValueCount{},
		ProductRecommendations: a.opt.Rules.ProductAdvice(a.cat, a.opt.Language),
	}
	if ids, ok := a.c.Text(schema.ProductID); ok {
		out.TotalProducts = countDistinct(ids)
	}
	names, okN := a.c.Text(schema.ProductName)
	qty, okQ := a.c.Numbers(schema.Quantity)
	if okN && okQ {
		sums := map[string]float64{}
		for i, n := range names {
			if n == "" {
				continue
			}
			if _, seen := sums[n]; !seen {
				sums[n] = 0
			}
			if qty[i].Valid {
				sums[n] += qty[i].Value
			}
		}
		for n, q := range sums {
			out.TopProducts = append(out.TopProducts, ProductSales{Product: n, Quantity: q})
		}
		sort.Slice(out.TopProducts, func(i, j int) bool {
			pi, pj := out.TopProducts[i], out.TopProducts[j]
			if pi.Quantity == pj.Quantity {
				return pi.Product < pj.Product
			}
			return pi.Quantity > pj.Quantity
		})
		if len(out.TopProducts) > topProductsLimit {
			out.TopProducts = out.TopProducts[:topProductsLimit]
		}
	}
	if cats, ok := a.c.Text(schema.ProductCategory); ok {
		out.CategoryDistribution = valueCounts(cats, categoryLimit)
	}
	return out
}

func (a *run) financials() FinancialAnalysis {
	out := FinancialAnalysis{CostRatio: a.opt.Rules.CostRatio(a.cat)}
	if !a.hasTotals {
		return out
	}
	revenue := sumValid(a.totals)
	out.Available = true
	out.TotalRevenue = revenue
	out.EstimatedCOGS = revenue * out.CostRatio
	out.GrossProfit = revenue - out.EstimatedCOGS
	if revenue > 0 {
		out.GrossMargin = out.GrossProfit / revenue * 100
	}
	out.NetProfitEstimate = out.GrossProfit * (1 - a.opt.Rules.Finance.OpexRatio)
	return out
}

func (a *run) marketing() MarketingAnalysis {
	out := MarketingAnalysis{
		Channels:                 []ValueCount{},
		MarketingRecommendations: a.opt.Rules.MarketingAdvice(a.cat, a.opt.Language),
	}
	if src, ok := a.c.Text(schema.TrafficSource); ok {
		out.Channels = valueCounts(src, channelLimit)
	}
	return out
}

func (a *run) inventory() InventoryAnalysis {
	return InventoryAnalysis{
		TurnoverEstimate:         a.opt.Rules.Turnover(a.cat),
		InventoryRecommendations: a.opt.Rules.Recommendations.Inventory.For(a.opt.Language),
	}
}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

func (a *run) seasonality() SeasonalAnalysis {
	out := SeasonalAnalysis{
		MonthlyTrends:  []MonthRevenue{},
		WeeklyPatterns: []WeekdayRevenue{},
		PeakPeriods:    []int{},
		DailyTrend:     []DayRevenue{},
	}
	if !a.hasDates {
		return out
	}
	var monthly [13]float64
	var monthSeen [13]bool
	weekly := map[time.Weekday]float64{}
	daily := map[string]*DayRevenue{}
	for i, d := range a.dates {
		if !d.Valid {
			continue
		}
		key := d.Value.Format("2006-01-02")
		day, ok := daily[key]
		if !ok {
			day = &DayRevenue{Date: key}
			daily[key] = day
		}
		day.Orders++
		if !a.hasTotals || !a.totals[i].Valid {
			continue
		}
		v := a.totals[i].Value
		m := int(d.Value.Month())
		monthly[m] += v
		monthSeen[m] = true
		weekly[d.Value.Weekday()] += v
		day.Revenue += v
	}
	keys := make([]string, 0, len(daily))
	for k := range daily {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.DailyTrend = append(out.DailyTrend, *daily[k])
	}
	if !a.hasTotals {
		return out
	}
	for m := 1; m <= 12; m++ {
		if monthSeen[m] {
			out.MonthlyTrends = append(out.MonthlyTrends, MonthRevenue{Month: m, Name: time.Month(m).String(), Revenue: monthly[m]})
		}
	}
	for _, wd := range weekdayOrder {
		if v, ok := weekly[wd]; ok {
			out.WeeklyPatterns = append(out.WeeklyPatterns, WeekdayRevenue{Weekday: wd.String(), Revenue: v})
		}
	}
	peaks := append([]MonthRevenue(nil), out.MonthlyTrends...)
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].Revenue > peaks[j].Revenue })
	for i := 0; i < len(peaks) && i < peakMonths; i++ {
		out.PeakPeriods = append(out.PeakPeriods, peaks[i].Month)
	}
	return out
}

func (a *run) benchmarks() Benchmarks {
	b, used := a.opt.Rules.Benchmark(a.cat)
	return Benchmarks{
		Category:        used,
		AOV:             b.AOV,
		ConversionRate:  b.ConversionRate,
		RepeatRate:      b.RepeatRate,
		CartAbandonment: b.CartAbandonment,
	}
}

func (a *run) recommendations() Recommendations {
	rec := a.opt.Rules.Recommendations
	return Recommendations{
		Immediate: rec.Immediate.For(a.opt.Language),
		ShortTerm: rec.ShortTerm.For(a.opt.Language),
		LongTerm:  rec.LongTerm.For(a.opt.Language),
	}
}

func sumValid(ns []cleaner.Number) float64 {
	s := 0.0
	for _, n := range ns {
		if n.Valid {
			s += n.Value
		}
	}
	return s
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func countDistinct(vals []string) int {
	seen := map[string]struct{}{}
	for _, v := range vals {
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// valueCounts returns the most frequent non-empty values, ties by value.
func valueCounts(vals []string, limit int) []ValueCount {
	counts := map[string]int{}
	for _, v := range vals {
		if v != "" {
			counts[v]++
		}
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
