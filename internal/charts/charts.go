// Package charts turns an analysis result into plain chart data: labels and
// one or more value series per chart kind. Rendering is left to the caller.
package charts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/storelens/internal/analyzer"
)

// ErrUnknownKind is returned for an unsupported chart selector.
var ErrUnknownKind = errors.New("unknown chart kind")

// Chart kinds.
const (
	KindKPI                  = "kpi"
	KindSalesTrend           = "sales_trend"
	KindTopProducts          = "top_products"
	KindCustomerSegments     = "customer_segments"
	KindCategoryDistribution = "category_distribution"
	KindSeasonality          = "seasonality"
	KindWeekly               = "weekly"
	KindBenchmark            = "benchmark"
	KindDataQuality          = "data_quality"
)

var kinds = []string{
	KindKPI, KindSalesTrend, KindTopProducts, KindCustomerSegments, KindCategoryDistribution,
	KindSeasonality, KindWeekly, KindBenchmark, KindDataQuality,
}

// Kinds lists every supported selector.
func Kinds() []string {
	return append([]string(nil), kinds...)
}

// Series is one named run of values aligned with Chart.Labels.
type Series struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
}

// Chart is renderer-neutral chart data. Type hints at the intended visual:
// indicator, line, bar, pie, grouped_bar or gauge.
type Chart struct {
	Kind   string   `json:"kind" yaml:"kind"`
	Type   string   `json:"type" yaml:"type"`
	Title  string   `json:"title" yaml:"title"`
	Labels []string `json:"labels" yaml:"labels"`
	Series []Series `json:"series" yaml:"series"`
	// Empty is set when the result has no data for this chart.
	Empty bool `json:"empty" yaml:"empty"`
}

// Build returns the chart data for kind. The selector is case-insensitive.
func Build(kind string, res *analyzer.Result, lang string) (Chart, error) {
	if res == nil {
		return Chart{}, fmt.Errorf("build chart: nil result")
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	var c Chart
	switch kind {
	case KindKPI:
		c = kpi(res, lang)
	case KindSalesTrend:
		c = salesTrend(res, lang)
	case KindTopProducts:
		c = topProducts(res, lang)
	case KindCustomerSegments:
		c = customerSegments(res, lang)
	case KindCategoryDistribution:
		c = categoryDistribution(res, lang)
	case KindSeasonality:
		c = seasonality(res, lang)
	case KindWeekly:
		c = weekly(res, lang)
	case KindBenchmark:
		c = benchmark(res, lang)
	case KindDataQuality:
		c = dataQuality(res, lang)
	default:
		return Chart{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	c.Kind = kind
	c.Title = title(kind, lang)
	if c.Labels == nil {
		c.Labels = []string{}
	}
	if c.Series == nil {
		c.Series = []Series{}
	}
	c.Empty = len(c.Labels) == 0
	return c, nil
}

// BuildAll returns every chart, in Kinds order.
func BuildAll(res *analyzer.Result, lang string) ([]Chart, error) {
	out := make([]Chart, 0, len(kinds))
	for _, k := range kinds {
		c, err := Build(k, res, lang)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func kpi(res *analyzer.Result, lang string) Chart {
	return Chart{
		Type: "indicator",
		Labels: []string{
			text(lang, "revenue"), text(lang, "aov"), text(lang, "customers"), text(lang, "products"),
		},
		Series: []Series{{Name: text(lang, "value"), Values: []float64{
			res.SalesPerformance.TotalRevenue,
			res.SalesPerformance.AverageOrderValue,
			float64(res.CustomerAnalysis.TotalCustomers),
			float64(res.ProductAnalysis.TotalProducts),
		}}},
	}
}

func salesTrend(res *analyzer.Result, lang string) Chart {
	c := Chart{Type: "line"}
	vals := make([]float64, 0, len(res.SeasonalAnalysis.DailyTrend))
	for _, d := range res.SeasonalAnalysis.DailyTrend {
		c.Labels = append(c.Labels, d.Date)
		vals = append(vals, d.Revenue)
	}
	c.Series = []Series{{Name: text(lang, "revenue"), Values: vals}}
	return c
}

func topProducts(res *analyzer.Result, lang string) Chart {
	c := Chart{Type: "bar"}
	vals := make([]float64, 0, len(res.ProductAnalysis.TopProducts))
	for _, p := range res.ProductAnalysis.TopProducts {
		c.Labels = append(c.Labels, p.Product)
		vals = append(vals, p.Quantity)
	}
	c.Series = []Series{{Name: text(lang, "quantity"), Values: vals}}
	return c
}

func customerSegments(res *analyzer.Result, lang string) Chart {
	s := res.CustomerAnalysis.Segments
	if s.Total() == 0 {
		return Chart{Type: "pie"}
	}
	return Chart{
		Type:   "pie",
		Labels: []string{text(lang, "vip"), text(lang, "high_value"), text(lang, "medium_value"), text(lang, "low_value")},
		Series: []Series{{Name: text(lang, "customers"), Values: []float64{
			float64(s.VIP), float64(s.HighValue), float64(s.MediumValue), float64(s.LowValue),
		}}},
	}
}

const categoryBars = 8

func categoryDistribution(res *analyzer.Result, lang string) Chart {
	c := Chart{Type: "bar"}
	var vals []float64
	for i, v := range res.ProductAnalysis.CategoryDistribution {
		if i == categoryBars {
			break
		}
		c.Labels = append(c.Labels, v.Value)
		vals = append(vals, float64(v.Count))
	}
	c.Series = []Series{{Name: text(lang, "count"), Values: vals}}
	return c
}

// seasonality spans all twelve months, zero-filled, when any month has data.
func seasonality(res *analyzer.Result, lang string) Chart {
	c := Chart{Type: "line"}
	if len(res.SeasonalAnalysis.MonthlyTrends) == 0 {
		return c
	}
	vals := make([]float64, 12)
	for _, m := range res.SeasonalAnalysis.MonthlyTrends {
		if m.Month >= 1 && m.Month <= 12 {
			vals[m.Month-1] = m.Revenue
		}
	}
	c.Labels = monthLabels(lang)
	c.Series = []Series{{Name: text(lang, "revenue"), Values: vals}}
	return c
}

func weekly(res *analyzer.Result, lang string) Chart {
	c := Chart{Type: "bar"}
	vals := make([]float64, 0, 7)
	for _, w := range res.SeasonalAnalysis.WeeklyPatterns {
		c.Labels = append(c.Labels, weekdayLabel(w.Weekday, lang))
		vals = append(vals, w.Revenue)
	}
	c.Series = []Series{{Name: text(lang, "revenue"), Values: vals}}
	return c
}

// benchmark compares the store against its industry row. The store has no
// conversion data, so that value is 0.
func benchmark(res *analyzer.Result, lang string) Chart {
	b := res.Benchmarks
	return Chart{
		Type:   "grouped_bar",
		Labels: []string{text(lang, "aov"), text(lang, "conversion_rate"), text(lang, "repeat_rate")},
		Series: []Series{
			{Name: text(lang, "store"), Values: []float64{
				res.SalesPerformance.AverageOrderValue, 0, res.CustomerAnalysis.RepeatRate,
			}},
			{Name: text(lang, "industry"), Values: []float64{b.AOV, b.ConversionRate, b.RepeatRate}},
		},
	}
}

func dataQuality(res *analyzer.Result, lang string) Chart {
	q := res.DataQuality
	if q.TotalCells == 0 {
		return Chart{Type: "gauge"}
	}
	return Chart{
		Type: "gauge",
		Labels: []string{
			text(lang, "overall"), text(lang, "completeness"), text(lang, "uniqueness"), text(lang, "consistency"),
		},
		Series: []Series{{Name: q.Grade, Values: []float64{
			q.OverallScore, q.CompletenessScore, q.UniquenessScore, q.ConsistencyScore,
		}}},
	}
}
