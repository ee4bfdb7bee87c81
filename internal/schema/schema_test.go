package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	f, err := ParseField(" Total_Amount ")
	require.NoError(t, err)
	assert.Equal(t, TotalAmount, f)

	f, err = ParseField("order_id")
	require.NoError(t, err)
	assert.Equal(t, TransactionID, f)

	_, err = ParseField("shoe_size")
	assert.Error(t, err)
}

func TestMappingFieldsOrderAndClone(t *testing.T) {
	m := NewMapping()
	m.Set(TotalAmount, "Total")
	m.Set(TransactionID, "Order")
	m.Set(Field("zzz"), "Extra")
	m.Set(OrderDate, "Date")
	m.Set(OrderDate, "")

	assert.Equal(t, []Field{TransactionID, TotalAmount, Field("zzz")}, m.Fields())
	assert.Equal(t, 3, m.Len())
	assert.False(t, m.Has(OrderDate))

	f, ok := m.FieldFor("Total")
	require.True(t, ok)
	assert.Equal(t, TotalAmount, f)

	c := m.Clone()
	c.Set(TotalAmount, "Other")
	col, _ := m.Column(TotalAmount)
	assert.Equal(t, "Total", col)
	assert.Equal(t, "transaction_id=Order, total_amount=Total, zzz=Extra", m.String())
}

func TestCanSynthesizeTotal(t *testing.T) {
	m := NewMapping()
	m.Set(UnitPrice, "price")
	assert.False(t, m.CanSynthesizeTotal())
	m.Set(Quantity, "qty")
	assert.True(t, m.CanSynthesizeTotal())
	m.Set(TotalAmount, "total")
	assert.False(t, m.CanSynthesizeTotal())
}

func TestSetOnZeroMapping(t *testing.T) {
	var m Mapping
	m.Set(Quantity, "qty")
	assert.True(t, m.Has(Quantity))
	assert.True(t, Quantity.IsNumeric())
	assert.False(t, ProductName.IsNumeric())
}
