// Package mapper assigns raw column names to canonical fields and validates
// user-confirmed mappings.
package mapper

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/KaramelBytes/storelens/internal/rules"
	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/table"
)

// Candidate is one scored (column, field) pairing.
type Candidate struct {
	Column string       `json:"column" yaml:"column"`
	Field  schema.Field `json:"field" yaml:"field"`
	Score  float64      `json:"score" yaml:"score"`
}

type fieldMatcher struct {
	field    schema.Field
	patterns []*regexp.Regexp
	keywords []string
	exclude  []string
	priority float64
}

// Mapper scores column names against compiled field rules. It holds no
// mutable state and is safe for concurrent use.
type Mapper struct {
	fields []fieldMatcher
	w      rules.MapperRules
}

// New compiles the field rules in r. Fields are kept in vocabulary order so
// that ties resolve by field importance.
func New(r *rules.Rules) (*Mapper, error) {
	m := &Mapper{w: r.Mapper}
	if m.w.DateSample <= 0 {
		m.w.DateSample = 10
	}
	for _, f := range schema.Fields() {
		src, ok := r.Mapper.Fields[f]
		if !ok {
			continue
		}
		fm := fieldMatcher{
			field:    f,
			keywords: lowerAll(src.Keywords),
			exclude:  lowerAll(src.Exclude),
			priority: src.Priority,
		}
		for _, p := range src.Patterns {
			re, err := rules.CompilePattern(p)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f, err)
			}
			fm.patterns = append(fm.patterns, re)
		}
		m.fields = append(m.fields, fm)
	}
	return m, nil
}

// Default returns a mapper built from the default rules.
func Default() *Mapper {
	m, err := New(rules.Default())
	if err != nil {
		panic(err)
	}
	return m
}

// score rates a column name against one field; zero means no match.
func (fm fieldMatcher) score(name string, w rules.MapperRules) float64 {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, ex := range fm.exclude {
		if ex != "" && strings.Contains(lower, ex) {
			return 0
		}
	}
	s := 0.0
	for _, re := range fm.patterns {
		if re.MatchString(lower) {
			s += w.Pattern
			break
		}
	}
	for _, kw := range fm.keywords {
		if kw != "" && strings.Contains(lower, kw) {
			s += w.Keyword
		}
	}
	if s > 0 {
		s += fm.priority
	}
	return s
}

// Candidates returns every positive (column, field) score, best first.
// Equal scores keep column order, then field importance order.
func (m *Mapper) Candidates(t *table.Table) []Candidate {
	var out []Candidate
	if t == nil {
		return out
	}
	for _, col := range t.Columns {
		for _, fm := range m.fields {
			if s := fm.score(col, m.w); s > 0 {
				out = append(out, Candidate{Column: col, Field: fm.field, Score: s})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// AutoMap proposes a mapping for t. The result is injective. When no column
// matches order_date by name, the first unassigned column whose leading
// values parse as dates is used. When total_amount stays unmapped but
// unit_price and quantity are present, SynthesizeTotal is set.
func (m *Mapper) AutoMap(t *table.Table) schema.Mapping {
	out := schema.NewMapping()
	usedCols := map[string]bool{}
	for _, c := range m.Candidates(t) {
		if usedCols[c.Column] || out.Has(c.Field) {
			continue
		}
		out.Set(c.Field, c.Column)
		usedCols[c.Column] = true
	}
	if !out.Has(schema.OrderDate) && t != nil {
		for _, col := range t.Columns {
			if usedCols[col] {
				continue
			}
			ratio, n := table.DateRatio(t.Column(col), m.w.DateSample)
			if n > 0 && ratio >= m.w.DateRatio {
				out.Set(schema.OrderDate, col)
				usedCols[col] = true
				break
			}
		}
	}
	out.SynthesizeTotal = out.CanSynthesizeTotal()
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
