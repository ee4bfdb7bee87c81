package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/storelens/internal/analyzer"
	"github.com/KaramelBytes/storelens/internal/table"
)

// maxSheetName is the Excel limit on sheet name length.
const maxSheetName = 31

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func (w *sheetWriter) put(vals ...any) error {
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	return w.f.SetSheetRow(w.sheet, cell, &vals)
}

func newSheet(f *excelize.File, name string, first bool) (*sheetWriter, error) {
	if first {
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			return nil, err
		}
	} else if _, err := f.NewSheet(name); err != nil {
		return nil, err
	}
	return &sheetWriter{f: f, sheet: name}, nil
}

// analysisWorkbook lays the result out over four sheets: Summary, Products,
// Monthly and Data Quality.
func analysisWorkbook(res *analyzer.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sum, err := newSheet(f, "Summary", true)
	if err != nil {
		return nil, fmt.Errorf("xlsx summary sheet: %w", err)
	}
	sp, perf, fin := res.StoreProfile, res.SalesPerformance, res.FinancialAnalysis
	rows := [][]any{
		{"Metric", "Value"},
		{"Store type", string(sp.StoreType)},
		{"Total orders", sp.TotalOrders},
		{"Unique customers", sp.UniqueCustomers},
		{"Total revenue", perf.TotalRevenue},
		{"Average order value", perf.AverageOrderValue},
		{"Orders per day", perf.OrdersPerDay},
		{"Repeat rate (%)", res.CustomerAnalysis.RepeatRate},
		{"Gross profit", fin.GrossProfit},
		{"Gross margin (%)", fin.GrossMargin},
		{"Net profit estimate", fin.NetProfitEstimate},
		{"Data quality score", res.DataQuality.OverallScore},
		{"Data quality grade", res.DataQuality.Grade},
	}
	if sp.DateRange != nil {
		rows = append(rows, []any{"Start date", sp.DateRange.Start}, []any{"End date", sp.DateRange.End})
	}
	for _, r := range rows {
		if err := sum.put(r...); err != nil {
			return nil, fmt.Errorf("xlsx summary row: %w", err)
		}
	}

	prod, err := newSheet(f, "Products", false)
	if err != nil {
		return nil, fmt.Errorf("xlsx products sheet: %w", err)
	}
	if err := prod.put("Product", "Quantity"); err != nil {
		return nil, err
	}
	for _, p := range res.ProductAnalysis.TopProducts {
		if err := prod.put(p.Product, p.Quantity); err != nil {
			return nil, fmt.Errorf("xlsx products row: %w", err)
		}
	}

	mon, err := newSheet(f, "Monthly", false)
	if err != nil {
		return nil, fmt.Errorf("xlsx monthly sheet: %w", err)
	}
	if err := mon.put("Month", "Name", "Revenue"); err != nil {
		return nil, err
	}
	for _, m := range res.SeasonalAnalysis.MonthlyTrends {
		if err := mon.put(m.Month, m.Name, m.Revenue); err != nil {
			return nil, fmt.Errorf("xlsx monthly row: %w", err)
		}
	}

	dq, err := newSheet(f, "Data Quality", false)
	if err != nil {
		return nil, fmt.Errorf("xlsx quality sheet: %w", err)
	}
	if err := dq.put("Column", "Kind", "Non-null", "Missing", "Unique"); err != nil {
		return nil, err
	}
	for _, c := range res.DataQuality.Columns {
		if err := dq.put(c.Name, c.Kind, c.NonNull, c.Missing, c.Unique); err != nil {
			return nil, fmt.Errorf("xlsx quality row: %w", err)
		}
	}
	for _, issue := range res.DataQuality.Issues {
		if err := dq.put("", issue); err != nil {
			return nil, fmt.Errorf("xlsx quality row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func tableWorkbook(t *table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := t.Name
	if name == "" {
		name = "Data"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	sw, err := newSheet(f, sanitizeSheet(name), true)
	if err != nil {
		return nil, fmt.Errorf("xlsx data sheet: %w", err)
	}
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.put(header...); err != nil {
		return nil, fmt.Errorf("xlsx header: %w", err)
	}
	for _, row := range t.Rows {
		vals := make([]any, len(row))
		for i, v := range row {
			vals[i] = v
		}
		if err := sw.put(vals...); err != nil {
			return nil, fmt.Errorf("xlsx row: %w", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeSheet replaces characters Excel forbids in sheet names.
func sanitizeSheet(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			out[i] = '_'
		}
	}
	return string(out)
}
