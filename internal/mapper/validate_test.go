package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/table"
)

func sampleTable() *table.Table {
	return table.New("orders", []string{"id", "date", "total", "note"}, [][]string{
		{"1", "2024-01-01", "10", "x"},
		{"2", "2024-01-02", "12", "y"},
	})
}

func baseMapping() schema.Mapping {
	m := schema.NewMapping()
	m.Set(schema.TransactionID, "id")
	m.Set(schema.OrderDate, "date")
	m.Set(schema.TotalAmount, "total")
	return m
}

func TestValidateMissingRequired(t *testing.T) {
	m := baseMapping()
	m.Set(schema.OrderDate, "")
	v := Validate(sampleTable(), m)
	assert.False(t, v.Valid)
	assert.Equal(t, []schema.Field{schema.OrderDate}, v.MissingRequired)
}

func TestValidateStaleColumn(t *testing.T) {
	m := baseMapping()
	m.Set(schema.CustomerID, "customer")
	v := Validate(sampleTable(), m)
	assert.False(t, v.Valid)
	require.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], `"customer"`)
}

func TestValidateSharedColumn(t *testing.T) {
	m := baseMapping()
	m.Set(schema.ProductName, "note")
	m.Set(schema.PaymentMethod, "note")
	v := Validate(sampleTable(), m)
	assert.False(t, v.Valid)
	assert.Contains(t, v.Errors[0], "several fields")
}

func TestValidateUnknownField(t *testing.T) {
	m := baseMapping()
	m.Set(schema.Field("shoe_size"), "note")
	v := Validate(sampleTable(), m)
	assert.False(t, v.Valid)
}

func TestValidateWarnsOnNonNumericTotal(t *testing.T) {
	m := baseMapping()
	m.Set(schema.TotalAmount, "note")
	v := Validate(sampleTable(), m)
	assert.True(t, v.Valid)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "numeric")
}

func TestValidateStructure(t *testing.T) {
	empty := table.New("e", []string{"id", "total"}, nil)
	v := Validate(empty, schema.NewMapping())
	assert.False(t, v.Valid)
	assert.Contains(t, v.Errors, "table is empty")

	narrow := table.New("n", []string{"id"}, [][]string{{"1"}})
	v = Validate(narrow, schema.NewMapping())
	assert.Contains(t, v.Errors, "table needs at least 2 columns")
}

func TestParseOverridesAndApply(t *testing.T) {
	ov, err := ParseOverrides([]string{"total_amount=note", "order_id = id", "order_date="})
	require.NoError(t, err)
	assert.Equal(t, "note", ov[schema.TotalAmount])
	assert.Equal(t, "id", ov[schema.TransactionID])

	base := baseMapping()
	got := Apply(base, ov)
	c, _ := got.Column(schema.TotalAmount)
	assert.Equal(t, "note", c)
	assert.False(t, got.Has(schema.OrderDate))
	assert.True(t, base.Has(schema.OrderDate), "base left untouched")

	_, err = ParseOverrides([]string{"total_amount"})
	assert.Error(t, err)
	_, err = ParseOverrides([]string{"shoe=size"})
	assert.Error(t, err)
}

func TestApplyRecomputesSynthesis(t *testing.T) {
	m := schema.NewMapping()
	m.Set(schema.UnitPrice, "price")
	m.Set(schema.Quantity, "qty")
	m.SynthesizeTotal = true
	got := Apply(m, map[schema.Field]string{schema.TotalAmount: "total"})
	assert.False(t, got.SynthesizeTotal)
	got = Apply(got, map[schema.Field]string{schema.TotalAmount: ""})
	assert.True(t, got.SynthesizeTotal)
}
