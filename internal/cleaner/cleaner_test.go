package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/table"
)

func qtyPriceTable() (*table.Table, schema.Mapping) {
	tb := table.New("orders", []string{"order_id", "order_date", "qty", "price"}, [][]string{
		{"A1", "2024-01-01", "2", "10"},
		{"A2", "bad date", "", "15.5"},
		{"A3", "2024-01-03", "3", "n/a"},
		{"A4", "2024-01-04", "1.5", "2,5"},
	})
	m := schema.NewMapping()
	m.Set(schema.TransactionID, "order_id")
	m.Set(schema.OrderDate, "order_date")
	m.Set(schema.Quantity, "qty")
	m.Set(schema.UnitPrice, "price")
	m.SynthesizeTotal = true
	return tb, m
}

func TestCleanSynthesizesTotalWithMissingAsZero(t *testing.T) {
	tb, m := qtyPriceTable()
	c := Clean(tb, m)

	require.Equal(t, "total_amount", c.DerivedTotal)
	col, ok := c.Mapping.Column(schema.TotalAmount)
	require.True(t, ok)
	assert.Equal(t, "total_amount", col)

	totals, ok := c.Numbers(schema.TotalAmount)
	require.True(t, ok)
	want := []float64{20, 0, 0, 3.75}
	for i, w := range want {
		assert.True(t, totals[i].Valid)
		assert.InDelta(t, w, totals[i].Value, 1e-12, "row %d", i)
	}
	assert.Equal(t, []string{"20", "0", "0", "3.75"}, c.Table.Column("total_amount"))
}

func TestCleanDoesNotTouchInputs(t *testing.T) {
	tb, m := qtyPriceTable()
	before := tb.NumCols()
	_ = Clean(tb, m)
	assert.Equal(t, before, tb.NumCols())
	assert.False(t, m.Has(schema.TotalAmount))
	assert.False(t, tb.HasColumn("total_amount"))
}

func TestCleanIsPure(t *testing.T) {
	tb, m := qtyPriceTable()
	assert.Equal(t, Clean(tb, m), Clean(tb, m))
}

func TestCleanCoercesDatesAndNumbers(t *testing.T) {
	tb, m := qtyPriceTable()
	c := Clean(tb, m)
	dates, ok := c.Dates()
	require.True(t, ok)
	assert.True(t, dates[0].Valid)
	assert.False(t, dates[1].Valid)

	qty, _ := c.Numbers(schema.Quantity)
	assert.False(t, qty[1].Valid)
	assert.Equal(t, 1.5, qty[3].Value)

	typed, valid := c.Typed(1, 1)
	assert.True(t, typed)
	assert.False(t, valid)
	typed, _ = c.Typed(0, 0)
	assert.False(t, typed)
}

func TestCleanAvoidsColumnNameClash(t *testing.T) {
	tb := table.New("o", []string{"total_amount", "qty", "price"}, [][]string{{"note", "2", "3"}})
	m := schema.NewMapping()
	m.Set(schema.Quantity, "qty")
	m.Set(schema.UnitPrice, "price")
	c := Clean(tb, m)
	assert.Equal(t, "total_amount_2", c.DerivedTotal)
	totals, _ := c.Numbers(schema.TotalAmount)
	assert.Equal(t, 6.0, totals[0].Value)
}

func TestCleanKeepsMappedTotal(t *testing.T) {
	tb := table.New("o", []string{"total", "qty", "price"}, [][]string{{"$1,000", "2", "3"}})
	m := schema.NewMapping()
	m.Set(schema.TotalAmount, "total")
	m.Set(schema.Quantity, "qty")
	m.Set(schema.UnitPrice, "price")
	c := Clean(tb, m)
	assert.Empty(t, c.DerivedTotal)
	totals, _ := c.Numbers(schema.TotalAmount)
	assert.Equal(t, 1000.0, totals[0].Value)
}

func TestCleanDropsStaleColumns(t *testing.T) {
	tb := table.New("o", []string{"a", "b"}, [][]string{{"1", "2"}})
	m := schema.NewMapping()
	m.Set(schema.CustomerID, "gone")
	m.Set(schema.ProductName, "a")
	c := Clean(tb, m)
	assert.False(t, c.Has(schema.CustomerID))
	names, ok := c.Text(schema.ProductName)
	require.True(t, ok)
	assert.Equal(t, []string{"1"}, names)
}

func TestCleanNilTable(t *testing.T) {
	c := Clean(nil, schema.NewMapping())
	assert.Equal(t, 0, c.Rows())
}
