// Package schema defines the canonical order fields that raw columns are
// mapped onto, and the column mapping itself.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Field is a canonical business field.
type Field string

const (
	TransactionID   Field = "transaction_id"
	OrderDate       Field = "order_date"
	CustomerID      Field = "customer_id"
	CustomerEmail   Field = "customer_email"
	ProductID       Field = "product_id"
	ProductName     Field = "product_name"
	Quantity        Field = "quantity"
	UnitPrice       Field = "unit_price"
	TotalAmount     Field = "total_amount"
	PaymentMethod   Field = "payment_method"
	ShippingAddress Field = "shipping_address"
	DiscountAmount  Field = "discount_amount"
	ProductCategory Field = "product_category"
	TrafficSource   Field = "traffic_source"
)

// vocabulary is ordered by importance; auto-mapping ties keep this order.
var vocabulary = []Field{
	TransactionID, OrderDate, CustomerID, CustomerEmail, ProductID, ProductName,
	Quantity, UnitPrice, TotalAmount, PaymentMethod, ShippingAddress,
	DiscountAmount, ProductCategory, TrafficSource,
}

// Fields returns the full vocabulary in importance order.
func Fields() []Field {
	out := make([]Field, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// Required lists the fields an analysis cannot do without.
func Required() []Field {
	return []Field{TransactionID, OrderDate, TotalAmount}
}

// IsNumeric reports whether the cleaner coerces f to a number.
func (f Field) IsNumeric() bool {
	switch f {
	case Quantity, UnitPrice, TotalAmount, DiscountAmount:
		return true
	}
	return false
}

// Known reports whether f is in the vocabulary.
func (f Field) Known() bool {
	return f.rank() >= 0
}

func (f Field) rank() int {
	for i, v := range vocabulary {
		if v == f {
			return i
		}
	}
	return -1
}

// ParseField accepts a field name case-insensitively. "order_id" is accepted
// as an alias of transaction_id.
func ParseField(s string) (Field, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "order_id" {
		return TransactionID, nil
	}
	f := Field(norm)
	if !f.Known() {
		return "", fmt.Errorf("unknown field %q", s)
	}
	return f, nil
}

// Mapping assigns canonical fields to raw column names. A valid mapping is
// injective: no column serves two fields.
type Mapping struct {
	Columns map[Field]string `json:"columns" yaml:"columns" toml:"columns"`
	// SynthesizeTotal asks the cleaner to derive total_amount from
	// unit_price × quantity.
	SynthesizeTotal bool `json:"synthesize_total,omitempty" yaml:"synthesize_total,omitempty" toml:"synthesize_total,omitempty"`
}

// NewMapping returns an empty mapping.
func NewMapping() Mapping {
	return Mapping{Columns: map[Field]string{}}
}

// Column returns the column mapped to f.
func (m Mapping) Column(f Field) (string, bool) {
	c, ok := m.Columns[f]
	return c, ok && c != ""
}

// Has reports whether f is mapped.
func (m Mapping) Has(f Field) bool {
	_, ok := m.Column(f)
	return ok
}

// Set maps f to col, or unmaps f when col is empty.
func (m *Mapping) Set(f Field, col string) {
	if m.Columns == nil {
		m.Columns = map[Field]string{}
	}
	if col == "" {
		delete(m.Columns, f)
		return
	}
	m.Columns[f] = col
}

// FieldFor returns the field mapped to col, if any. Known fields are
// searched in vocabulary order.
func (m Mapping) FieldFor(col string) (Field, bool) {
	for _, f := range m.Fields() {
		if m.Columns[f] == col {
			return f, true
		}
	}
	return "", false
}

// Fields returns the mapped fields, known ones in vocabulary order followed
// by unknown ones sorted by name.
func (m Mapping) Fields() []Field {
	out := make([]Field, 0, len(m.Columns))
	for f, c := range m.Columns {
		if c != "" {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].rank(), out[j].rank()
		switch {
		case ri >= 0 && rj >= 0:
			return ri < rj
		case ri >= 0:
			return true
		case rj >= 0:
			return false
		}
		return out[i] < out[j]
	})
	return out
}

// Len is the number of mapped fields.
func (m Mapping) Len() int {
	return len(m.Fields())
}

// Clone returns a deep copy.
func (m Mapping) Clone() Mapping {
	out := Mapping{Columns: make(map[Field]string, len(m.Columns)), SynthesizeTotal: m.SynthesizeTotal}
	for f, c := range m.Columns {
		out.Columns[f] = c
	}
	return out
}

// CanSynthesizeTotal reports whether total_amount is unmapped while both
// of its operands are mapped.
func (m Mapping) CanSynthesizeTotal() bool {
	return !m.Has(TotalAmount) && m.Has(UnitPrice) && m.Has(Quantity)
}

// String renders the mapping as "field=column" pairs in field order.
func (m Mapping) String() string {
	parts := make([]string, 0, len(m.Columns))
	for _, f := range m.Fields() {
		parts = append(parts, fmt.Sprintf("%s=%s", f, m.Columns[f]))
	}
	if m.SynthesizeTotal {
		parts = append(parts, fmt.Sprintf("%s=<unit_price×quantity>", TotalAmount))
	}
	return strings.Join(parts, ", ")
}
