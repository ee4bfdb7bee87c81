// Package cleaner coerces mapped columns to typed values and derives
// total_amount when only its operands are present.
package cleaner

import (
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/table"
)

// Number is a parsed numeric cell. Valid is false for missing or
// unparseable values.
type Number struct {
	Value float64
	Valid bool
}

// Date is a parsed date cell.
type Date struct {
	Value time.Time
	Valid bool
}

// Cleaned is a typed, owned view of a table. It is never mutated after
// Clean returns.
type Cleaned struct {
	// Table is a private copy of the input, extended with the derived total
	// column when one was synthesized.
	Table *table.Table
	// Mapping only holds fields whose columns exist, plus total_amount when
	// it was synthesized.
	Mapping schema.Mapping
	// DerivedTotal names the synthesized column, or is empty.
	DerivedTotal string

	numbers map[schema.Field][]Number
	dates   []Date
	// typed maps coerced column positions to their field.
	typed map[int]schema.Field
}

// Clean coerces t under m. Unparseable dates and numbers become invalid
// cells. When total_amount is unmapped but unit_price and quantity are
// mapped, a derived column unit_price × quantity is appended; a missing
// operand counts as 0, so every row gets a valid total. The input table and
// mapping are not modified.
func Clean(t *table.Table, m schema.Mapping) *Cleaned {
	if t == nil {
		t = table.New("", nil, nil)
	}
	own := table.New(t.Name, t.Columns, t.Rows)
	mapping := schema.NewMapping()
	for _, f := range m.Fields() {
		col, _ := m.Column(f)
		if f.Known() && own.HasColumn(col) {
			mapping.Set(f, col)
		}
	}
	c := &Cleaned{Table: own, Mapping: mapping, numbers: map[schema.Field][]Number{}}

	for _, f := range mapping.Fields() {
		if !f.IsNumeric() {
			continue
		}
		col, _ := mapping.Column(f)
		c.numbers[f] = parseNumbers(own.Column(col))
	}
	if col, ok := mapping.Column(schema.OrderDate); ok {
		c.dates = parseDates(own.Column(col))
	}

	if mapping.CanSynthesizeTotal() {
		c.synthesizeTotal()
	}
	c.typed = map[int]schema.Field{}
	for _, f := range c.Mapping.Fields() {
		if f != schema.OrderDate && !f.IsNumeric() {
			continue
		}
		col, _ := c.Mapping.Column(f)
		if j, ok := c.Table.ColumnIndex(col); ok {
			if _, taken := c.typed[j]; !taken {
				c.typed[j] = f
			}
		}
	}
	return c
}

func (c *Cleaned) synthesizeTotal() {
	price := c.numbers[schema.UnitPrice]
	qty := c.numbers[schema.Quantity]
	totals := make([]Number, len(price))
	cells := make([]string, len(price))
	for i := range price {
		v := operand(price[i]) * operand(qty[i])
		totals[i] = Number{Value: v, Valid: true}
		cells[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	name := c.Table.UniqueColumnName(string(schema.TotalAmount))
	extended, err := c.Table.WithColumn(name, cells)
	if err != nil {
		return
	}
	c.Table = extended
	c.DerivedTotal = name
	c.Mapping.Set(schema.TotalAmount, name)
	c.numbers[schema.TotalAmount] = totals
}

func operand(n Number) float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

func parseNumbers(col []string) []Number {
	out := make([]Number, len(col))
	for i, v := range col {
		if f, ok := table.ParseNumber(v); ok {
			out[i] = Number{Value: f, Valid: true}
		}
	}
	return out
}

func parseDates(col []string) []Date {
	out := make([]Date, len(col))
	for i, v := range col {
		if d, ok := table.ParseDate(v); ok {
			out[i] = Date{Value: d, Valid: true}
		}
	}
	return out
}

// Rows is the number of data rows.
func (c *Cleaned) Rows() int {
	return c.Table.NumRows()
}

// Has reports whether f is mapped.
func (c *Cleaned) Has(f schema.Field) bool {
	return c.Mapping.Has(f)
}

// Numbers returns the parsed values of a numeric field.
func (c *Cleaned) Numbers(f schema.Field) ([]Number, bool) {
	v, ok := c.numbers[f]
	return v, ok
}

// Dates returns the parsed order dates.
func (c *Cleaned) Dates() ([]Date, bool) {
	return c.dates, c.dates != nil
}

// Text returns the trimmed raw cells of a mapped field, with missing
// markers turned into empty strings.
func (c *Cleaned) Text(f schema.Field) ([]string, bool) {
	col, ok := c.Mapping.Column(f)
	if !ok {
		return nil, false
	}
	raw := c.Table.Column(col)
	for i, v := range raw {
		if table.IsMissing(v) {
			raw[i] = ""
			continue
		}
		raw[i] = strings.TrimSpace(v)
	}
	return raw, true
}

// Typed reports whether column j of the table was coerced, and whether the
// cell at row i parsed. Untyped columns report (false, false).
func (c *Cleaned) Typed(i, j int) (typed, ok bool) {
	f, mapped := c.typed[j]
	if !mapped {
		return false, false
	}
	if f == schema.OrderDate {
		return true, c.dates[i].Valid
	}
	return true, c.numbers[f][i].Valid
}
