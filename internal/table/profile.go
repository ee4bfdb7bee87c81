package table

import (
	"math"
	"sort"
)

// Column kinds inferred by Profile.
const (
	KindNumeric     = "numeric"
	KindDatetime    = "datetime"
	KindCategorical = "categorical"
	KindText        = "text"
	KindEmpty       = "empty"
)

// ColumnProfile captures inferred type and statistics per column.
type ColumnProfile struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Kind    string `json:"kind" yaml:"kind" toml:"kind"`
	NonNull int    `json:"non_null" yaml:"non_null" toml:"non_null"`
	Missing int    `json:"missing" yaml:"missing" toml:"missing"`
	Unique  int    `json:"unique" yaml:"unique" toml:"unique"`
	// Numeric stats
	Min  float64 `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max  float64 `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
	Mean float64 `json:"mean,omitempty" yaml:"mean,omitempty" toml:"mean,omitempty"`
	Std  float64 `json:"std,omitempty" yaml:"std,omitempty" toml:"std,omitempty"`
	// Categorical top values
	TopValues []CategoryCount `json:"top_values,omitempty" yaml:"top_values,omitempty" toml:"top_values,omitempty"`
}

// CategoryCount is one value and its frequency.
type CategoryCount struct {
	Value string `json:"value" yaml:"value" toml:"value"`
	Count int    `json:"count" yaml:"count" toml:"count"`
}

// IsText reports whether the column holds free-form or categorical strings.
func (p ColumnProfile) IsText() bool {
	return p.Kind == KindCategorical || p.Kind == KindText
}

// Profile infers a kind for every column by predominant parsed type and
// gathers basic statistics. It only reads the table.
func Profile(t *Table) []ColumnProfile {
	type colAcc struct {
		nonNil, miss          int
		n                     int
		mean, m2, min, max    float64
		numCnt, dtCnt, txtCnt int
		cats                  map[string]int
	}
	ncol := t.NumCols()
	cols := make([]*colAcc, ncol)
	for i := range cols {
		cols[i] = &colAcc{min: math.Inf(1), max: math.Inf(-1), cats: map[string]int{}}
	}
	for _, rec := range t.Rows {
		for j := 0; j < ncol; j++ {
			c := cols[j]
			v := rec[j]
			if IsMissing(v) {
				c.miss++
				continue
			}
			c.nonNil++
			if len(c.cats) <= 10000 {
				c.cats[v]++
			}
			if x, ok := ParseNumber(v); ok {
				c.numCnt++
				// Welford update
				c.n++
				if x < c.min {
					c.min = x
				}
				if x > c.max {
					c.max = x
				}
				delta := x - c.mean
				c.mean += delta / float64(c.n)
				c.m2 += delta * (x - c.mean)
				continue
			}
			if _, ok := ParseDate(v); ok {
				c.dtCnt++
				continue
			}
			c.txtCnt++
		}
	}

	out := make([]ColumnProfile, 0, ncol)
	for j, c := range cols {
		p := ColumnProfile{Name: t.Columns[j], NonNull: c.nonNil, Missing: c.miss, Unique: len(c.cats)}
		switch {
		case c.nonNil == 0:
			p.Kind = KindEmpty
		case c.numCnt >= c.dtCnt && c.numCnt >= c.txtCnt:
			p.Kind = KindNumeric
			p.Min, p.Max, p.Mean = c.min, c.max, c.mean
			if c.n > 1 {
				p.Std = math.Sqrt(c.m2 / float64(c.n-1))
			}
		case c.dtCnt >= c.txtCnt:
			p.Kind = KindDatetime
		default:
			p.Kind = KindText
			// Short repeated tokens read as categories.
			if len(c.cats) <= 50 || float64(len(c.cats)) <= 0.5*float64(c.nonNil) {
				p.Kind = KindCategorical
				p.TopValues = topValues(c.cats, 8)
			}
		}
		out = append(out, p)
	}
	return out
}

func topValues(cats map[string]int, n int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > n {
		tops = tops[:n]
	}
	return tops
}
