// Package report renders an analysis result as a localized Markdown or
// plain-text document.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/storelens/internal/analyzer"
)

// ErrUnsupportedFormat is returned for formats other than md and txt.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Output formats.
const (
	FormatMarkdown = "md"
	FormatText     = "txt"
)

// Options control rendering.
type Options struct {
	Language string
	Currency string
	Format   string
}

// DefaultOptions renders English Markdown with SAR amounts.
func DefaultOptions() Options {
	return Options{Language: "en", Currency: "SAR", Format: FormatMarkdown}
}

// Render writes the full report for res. Sections without data are kept
// with a short note so the document layout is stable.
func Render(res *analyzer.Result, opt Options) (string, error) {
	if res == nil {
		return "", fmt.Errorf("render report: nil result")
	}
	if opt.Language == "" {
		opt.Language = "en"
	}
	if opt.Format == "" {
		opt.Format = FormatMarkdown
	}
	if opt.Format != FormatMarkdown && opt.Format != FormatText {
		return "", fmt.Errorf("render report: %w: %q", ErrUnsupportedFormat, opt.Format)
	}
	tag, err := language.Parse(opt.Language)
	if err != nil {
		tag = language.English
	}
	d := &doc{
		md:       opt.Format == FormatMarkdown,
		lang:     opt.Language,
		currency: opt.Currency,
		p:        message.NewPrinter(tag),
	}

	d.title(d.l("title"))
	d.summary(res)
	d.performance(res)
	d.customers(res)
	d.products(res)
	d.financial(res)
	d.marketing(res)
	d.seasonality(res)
	d.benchmarks(res)
	d.recommendations(res)
	d.appendix(res)
	return d.b.String(), nil
}

type doc struct {
	b        strings.Builder
	md       bool
	lang     string
	currency string
	p        *message.Printer
}

func (d *doc) l(key string) string { return label(d.lang, key) }

func (d *doc) money(v float64) string {
	s := d.p.Sprintf("%.2f", v)
	if d.currency == "" {
		return s
	}
	return s + " " + d.currency
}

func (d *doc) num(v float64) string { return d.p.Sprintf("%.2f", v) }
func (d *doc) count(n int) string { return d.p.Sprintf("%d", n) }
func (d *doc) pct(v float64) string { return d.p.Sprintf("%.1f%%", v) }
func (d *doc) ratio(v float64) string { return d.pct(v * 100) }

func (d *doc) title(s string) {
	if d.md {
		d.b.WriteString("# " + s + "\n\n")
		return
	}
	d.b.WriteString(s + "\n" + strings.Repeat("=", len([]rune(s))) + "\n\n")
}

func (d *doc) heading(s string) {
	if d.md {
		d.b.WriteString("## " + s + "\n\n")
		return
	}
	d.b.WriteString("[" + strings.ToUpper(s) + "]\n")
}

func (d *doc) subheading(s string) {
	if d.md {
		d.b.WriteString("### " + s + "\n\n")
		return
	}
	d.b.WriteString(s + ":\n")
}

func (d *doc) kv(key, val string) {
	if d.md {
		d.b.WriteString(fmt.Sprintf("- **%s**: %s\n", key, val))
		return
	}
	d.b.WriteString(fmt.Sprintf("- %s: %s\n", key, val))
}

func (d *doc) para(s string) {
	d.b.WriteString(s + "\n")
}

func (d *doc) end() { d.b.WriteString("\n") }

func (d *doc) bullets(items []string) {
	for _, it := range items {
		d.b.WriteString("- " + it + "\n")
	}
}

func (d *doc) table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		d.para(d.l("none"))
		return
	}
	if !d.md {
		for _, r := range rows {
			d.b.WriteString("- " + strings.Join(r, " | ") + "\n")
		}
		return
	}
	d.b.WriteString("| " + strings.Join(escapeCells(headers), " | ") + " |\n")
	d.b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, r := range rows {
		d.b.WriteString("| " + strings.Join(escapeCells(r), " | ") + " |\n")
	}
}

func escapeCells(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		s = strings.ReplaceAll(s, "|", "\\|")
		out[i] = strings.ReplaceAll(s, "\n", " ")
	}
	return out
}

func (d *doc) summary(res *analyzer.Result) {
	sp := res.StoreProfile
	d.heading(d.l("summary"))
	d.kv(d.l("store_type"), sp.StoreTypeName)
	if sp.AnalysisDate != "" {
		d.kv(d.l("analysis_date"), sp.AnalysisDate)
	}
	if sp.DateRange != nil {
		d.kv(d.l("period"), fmt.Sprintf("%s → %s (%s %s)", sp.DateRange.Start, sp.DateRange.End, d.count(sp.DateRange.Days), d.l("days")))
	}
	d.kv(d.l("orders"), d.count(sp.TotalOrders))
	d.kv(d.l("revenue"), d.money(res.SalesPerformance.TotalRevenue))
	d.kv(d.l("aov"), d.money(res.SalesPerformance.AverageOrderValue))
	d.kv(d.l("quality_grade"), fmt.Sprintf("%s (%s)", res.DataQuality.Grade, d.num(res.DataQuality.OverallScore)))
	d.end()
}

func (d *doc) performance(res *analyzer.Result) {
	s := res.SalesPerformance
	d.heading(d.l("performance"))
	d.kv(d.l("active_days"), d.count(res.StoreProfile.ActiveDays))
	d.kv(d.l("orders_per_day"), d.num(s.OrdersPerDay))
	d.kv(d.l("revenue_per_day"), d.money(s.RevenuePerDay))
	if s.TotalQuantity != 0 {
		d.kv(d.l("quantity"), d.num(s.TotalQuantity))
	}
	if s.TotalDiscount != 0 {
		d.kv(d.l("discount"), d.money(s.TotalDiscount))
	}
	d.end()
}

func (d *doc) customers(res *analyzer.Result) {
	c := res.CustomerAnalysis
	d.heading(d.l("customers"))
	d.kv(d.l("total_customers"), d.count(c.TotalCustomers))
	d.kv(d.l("repeat_customers"), d.count(c.RepeatCustomers))
	d.kv(d.l("repeat_rate"), fmt.Sprintf("%s (%s %s)", d.pct(c.RepeatRate), d.l("industry"), d.pct(res.Benchmarks.RepeatRate)))
	if c.Segments.Total() > 0 {
		d.end()
		d.subheading(d.l("segments"))
		d.table([]string{d.l("segments"), d.l("count")}, [][]string{
			{d.l("vip"), d.count(c.Segments.VIP)},
			{d.l("high_value"), d.count(c.Segments.HighValue)},
			{d.l("medium_value"), d.count(c.Segments.MediumValue)},
			{d.l("low_value"), d.count(c.Segments.LowValue)},
		})
	}
	d.end()
}

func (d *doc) products(res *analyzer.Result) {
	p := res.ProductAnalysis
	d.heading(d.l("products"))
	d.kv(d.l("total_products"), d.count(p.TotalProducts))
	d.end()
	d.subheading(d.l("top_products"))
	rows := make([][]string, 0, len(p.TopProducts))
	for _, ps := range p.TopProducts {
		rows = append(rows, []string{ps.Product, d.num(ps.Quantity)})
	}
	d.table([]string{d.l("product"), d.l("units")}, rows)
	if len(p.CategoryDistribution) > 0 {
		d.end()
		d.subheading(d.l("categories"))
		d.table([]string{d.l("category"), d.l("count")}, d.valueRows(p.CategoryDistribution))
	}
	d.end()
}

func (d *doc) valueRows(vc []analyzer.ValueCount) [][]string {
	rows := make([][]string, 0, len(vc))
	for _, v := range vc {
		rows = append(rows, []string{v.Value, d.count(v.Count)})
	}
	return rows
}

func (d *doc) financial(res *analyzer.Result) {
	f := res.FinancialAnalysis
	d.heading(d.l("financial"))
	if !f.Available {
		d.para(d.l("no_financial"))
		d.end()
		return
	}
	d.kv(d.l("revenue"), d.money(f.TotalRevenue))
	d.kv(d.l("cost_ratio"), d.ratio(f.CostRatio))
	d.kv(d.l("cogs"), d.money(f.EstimatedCOGS))
	d.kv(d.l("gross_profit"), d.money(f.GrossProfit))
	d.kv(d.l("gross_margin"), d.pct(f.GrossMargin))
	d.kv(d.l("net_profit"), d.money(f.NetProfitEstimate))
	d.end()
}

func (d *doc) marketing(res *analyzer.Result) {
	m := res.MarketingAnalysis
	if len(m.Channels) == 0 {
		return
	}
	d.heading(d.l("marketing"))
	d.subheading(d.l("channels"))
	d.table([]string{d.l("channels"), d.l("count")}, d.valueRows(m.Channels))
	d.end()
}

func (d *doc) seasonality(res *analyzer.Result) {
	s := res.SeasonalAnalysis
	if len(s.MonthlyTrends) == 0 {
		return
	}
	d.heading(d.l("seasonality"))
	rows := make([][]string, 0, len(s.MonthlyTrends))
	for _, m := range s.MonthlyTrends {
		rows = append(rows, []string{monthName(m.Month, d.lang), d.money(m.Revenue)})
	}
	d.table([]string{d.l("month"), d.l("revenue")}, rows)
	if len(s.PeakPeriods) > 0 {
		names := make([]string, len(s.PeakPeriods))
		for i, m := range s.PeakPeriods {
			names[i] = monthName(m, d.lang)
		}
		d.end()
		d.kv(d.l("peak_months"), strings.Join(names, ", "))
	}
	d.end()
}

var arabicMonths = [...]string{"", "يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو", "يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر"}

func monthName(m int, lang string) string {
	if m < 1 || m > 12 {
		return fmt.Sprint(m)
	}
	if lang == "ar" {
		return arabicMonths[m]
	}
	return time.Month(m).String()
}

func (d *doc) benchmarks(res *analyzer.Result) {
	b := res.Benchmarks
	d.heading(d.l("benchmarks"))
	d.kv(d.l("aov"), fmt.Sprintf("%s (%s %s)", d.money(res.SalesPerformance.AverageOrderValue), d.l("industry"), d.money(b.AOV)))
	d.kv(d.l("conversion_rate"), d.pct(b.ConversionRate))
	d.kv(d.l("cart_abandonment"), d.pct(b.CartAbandonment))
	d.kv(d.l("turnover"), d.num(res.InventoryAnalysis.TurnoverEstimate))
	d.end()
}

func (d *doc) recommendations(res *analyzer.Result) {
	d.heading(d.l("recommendations"))
	groups := []struct {
		key   string
		items []string
	}{
		{"rec_products", res.ProductAnalysis.ProductRecommendations},
		{"rec_marketing", res.MarketingAnalysis.MarketingRecommendations},
		{"rec_inventory", res.InventoryAnalysis.InventoryRecommendations},
		{"rec_immediate", res.Recommendations.Immediate},
		{"rec_short_term", res.Recommendations.ShortTerm},
		{"rec_long_term", res.Recommendations.LongTerm},
	}
	for _, g := range groups {
		if len(g.items) == 0 {
			continue
		}
		d.subheading(d.l(g.key))
		d.bullets(g.items)
		d.end()
	}
}

func (d *doc) appendix(res *analyzer.Result) {
	q := res.DataQuality
	d.heading(d.l("appendix"))
	d.kv(d.l("overall_score"), fmt.Sprintf("%s (%s)", d.num(q.OverallScore), q.Grade))
	d.kv(d.l("completeness"), d.pct(q.CompletenessScore))
	d.kv(d.l("uniqueness"), d.pct(q.UniquenessScore))
	d.kv(d.l("consistency"), d.pct(q.ConsistencyScore))
	d.end()
	d.subheading(d.l("issues"))
	if len(q.Issues) == 0 {
		d.para(d.l("no_issues"))
	} else {
		d.bullets(q.Issues)
	}
	if len(q.Columns) > 0 {
		d.end()
		d.subheading(d.l("columns"))
		rows := make([][]string, 0, len(q.Columns))
		for _, c := range q.Columns {
			rows = append(rows, []string{c.Name, c.Kind, d.count(c.Missing), d.count(c.Unique)})
		}
		d.table([]string{d.l("column"), d.l("kind"), d.l("missing"), d.l("unique")}, rows)
	}
}
