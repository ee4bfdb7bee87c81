package mapper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/table"
)

// ValidationResult reports whether a mapping can drive an analysis.
// Errors make it invalid; warnings do not.
type ValidationResult struct {
	Valid           bool           `json:"valid" yaml:"valid"`
	Errors          []string       `json:"errors" yaml:"errors"`
	Warnings        []string       `json:"warnings" yaml:"warnings"`
	MissingRequired []schema.Field `json:"missing_required" yaml:"missing_required"`
}

func (v *ValidationResult) fail(format string, args ...any) {
	v.Valid = false
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *ValidationResult) warn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks m against t. It reports structural problems of the table,
// required fields that are missing, unknown fields, columns that do not
// exist, columns shared by several fields, and typed fields whose values
// mostly fail to parse. A synthesized total satisfies the total_amount
// requirement.
func Validate(t *table.Table, m schema.Mapping) ValidationResult {
	res := ValidationResult{Valid: true, Errors: []string{}, Warnings: []string{}, MissingRequired: []schema.Field{}}

	for _, issue := range table.CheckStructure(t) {
		res.fail("%s", issue)
	}

	for _, f := range schema.Required() {
		if m.Has(f) {
			continue
		}
		if f == schema.TotalAmount && m.CanSynthesizeTotal() {
			res.warn("total_amount will be derived from unit_price × quantity")
			continue
		}
		res.MissingRequired = append(res.MissingRequired, f)
		res.fail("required field %s is not mapped", f)
	}

	owners := map[string][]schema.Field{}
	for _, f := range m.Fields() {
		col, _ := m.Column(f)
		if !f.Known() {
			res.fail("unknown field %q", f)
			continue
		}
		if !t.HasColumn(col) {
			res.fail("column %q mapped to %s does not exist in the data", col, f)
			continue
		}
		owners[col] = append(owners[col], f)
	}
	cols := make([]string, 0, len(owners))
	for c := range owners {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	for _, c := range cols {
		if fs := owners[c]; len(fs) > 1 {
			names := make([]string, len(fs))
			for i, f := range fs {
				names[i] = string(f)
			}
			res.fail("column %q is mapped to several fields: %s", c, strings.Join(names, ", "))
		}
	}

	for _, f := range m.Fields() {
		col, _ := m.Column(f)
		if !t.HasColumn(col) {
			continue
		}
		switch {
		case f.IsNumeric():
			ratio, n := table.NumericRatio(t.Column(col))
			if n > 0 && ratio < 0.5 {
				res.warn("column %q (%s) may not contain numeric values (%.0f%% parse)", col, f, ratio*100)
			}
		case f == schema.OrderDate:
			ratio, n := table.DateRatio(t.Column(col), 10)
			if n > 0 && ratio < 0.5 {
				res.warn("column %q (%s) may not contain dates (%.0f%% of sample parse)", col, f, ratio*100)
			}
		}
	}
	return res
}

// ParseOverrides reads "field=column" pairs. An empty column unmaps the
// field. Field names are checked against the vocabulary.
func ParseOverrides(pairs []string) (map[schema.Field]string, error) {
	out := make(map[schema.Field]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid mapping %q: expected field=column", p)
		}
		f, err := schema.ParseField(k)
		if err != nil {
			return nil, fmt.Errorf("invalid mapping %q: %w", p, err)
		}
		out[f] = strings.TrimSpace(v)
	}
	return out, nil
}

// Apply returns base with overrides replacing its entries. The synthesize
// flag is recomputed for the result.
func Apply(base schema.Mapping, overrides map[schema.Field]string) schema.Mapping {
	out := base.Clone()
	for f, col := range overrides {
		out.Set(f, col)
	}
	out.SynthesizeTotal = out.CanSynthesizeTotal()
	return out
}
