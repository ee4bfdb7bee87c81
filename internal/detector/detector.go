// Package detector infers a store's vertical from its order table.
//
// Evidence comes from three sources: signature keywords in column names,
// value patterns in a bounded sample of text cells, and category keywords
// among the values of the first category/type column. Each source adds a
// weighted score per category; the highest raw score wins and ties go to
// the category listed first in storetype.All.
package detector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KaramelBytes/storelens/internal/rules"
	"github.com/KaramelBytes/storelens/internal/storetype"
	"github.com/KaramelBytes/storelens/internal/table"
)

// Result is the outcome of a detection.
type Result struct {
	Category storetype.Category `json:"category" yaml:"category" toml:"category"`
	// Confidence holds each category's share of the total raw score, in
	// percent. It sums to 100, or is all zero when there was no evidence.
	Confidence map[storetype.Category]float64 `json:"confidence" yaml:"confidence" toml:"confidence"`
	// Scores are the raw, unnormalized scores.
	Scores map[storetype.Category]float64 `json:"scores" yaml:"scores" toml:"scores"`
}

// Ranked returns the categories ordered by confidence, best first. Ties keep
// priority order.
func (r Result) Ranked() []storetype.Category {
	cats := storetype.All()
	out := make([]storetype.Category, 0, len(cats))
	for len(cats) > 0 {
		best := 0
		for i := 1; i < len(cats); i++ {
			if r.Scores[cats[i]] > r.Scores[cats[best]] {
				best = i
			}
		}
		out = append(out, cats[best])
		cats = append(cats[:best], cats[best+1:]...)
	}
	return out
}

type signature struct {
	category         storetype.Category
	columnKeywords   []string
	valuePatterns    []*regexp.Regexp
	categoryKeywords []string
}

// Detector scores tables against compiled signatures. It holds no mutable
// state and is safe for concurrent use.
type Detector struct {
	sigs []signature
	w    rules.DetectorRules
}

// New compiles the detector signatures in r.
func New(r *rules.Rules) (*Detector, error) {
	d := &Detector{w: r.Detector}
	if d.w.SampleRows <= 0 {
		d.w.SampleRows = 20
	}
	for _, c := range storetype.Specific() {
		src, ok := r.Detector.Signatures[c]
		if !ok {
			continue
		}
		sig := signature{
			category:         c,
			columnKeywords:   lowerAll(src.ColumnKeywords),
			categoryKeywords: lowerAll(src.CategoryKeywords),
		}
		for _, p := range src.ValuePatterns {
			re, err := rules.CompilePattern(p)
			if err != nil {
				return nil, fmt.Errorf("signature %s: %w", c, err)
			}
			sig.valuePatterns = append(sig.valuePatterns, re)
		}
		d.sigs = append(d.sigs, sig)
	}
	return d, nil
}

// Default returns a detector built from the default rules.
func Default() *Detector {
	d, err := New(rules.Default())
	if err != nil {
		panic(err)
	}
	return d
}

// Detect scores t. It never fails: an empty or signal-free table yields
// General with an all-zero confidence map.
func (d *Detector) Detect(t *table.Table) Result {
	scores := make(map[storetype.Category]float64, len(d.sigs)+1)
	for _, c := range storetype.All() {
		scores[c] = 0
	}
	if t != nil && t.NumCols() > 0 {
		d.scoreColumnNames(t, scores)
		d.scoreValues(t, scores)
		d.scoreCategoryColumn(t, scores)
	}
	return finish(scores)
}

func (d *Detector) scoreColumnNames(t *table.Table, scores map[storetype.Category]float64) {
	names := lowerAll(t.Columns)
	for _, sig := range d.sigs {
		for _, kw := range sig.columnKeywords {
			if containsAny(names, kw) {
				scores[sig.category] += d.w.ColumnKeyword
			}
		}
	}
}

func (d *Detector) scoreValues(t *table.Table, scores map[storetype.Category]float64) {
	sample := t.Head(d.w.SampleRows)
	for j := range t.Columns {
		col := make([]string, len(t.Rows))
		for i, r := range t.Rows {
			col[i] = r[j]
		}
		if !isTextColumn(col) {
			continue
		}
		var cells []string
		for _, r := range sample.Rows {
			v := strings.TrimSpace(r[j])
			if !table.IsMissing(v) {
				cells = append(cells, strings.ToLower(v))
			}
		}
		for _, sig := range d.sigs {
			for _, re := range sig.valuePatterns {
				n := 0
				for _, v := range cells {
					if re.MatchString(v) {
						n++
					}
				}
				scores[sig.category] += float64(n) * d.w.ValueMatch
			}
		}
	}
}

func (d *Detector) scoreCategoryColumn(t *table.Table, scores map[storetype.Category]float64) {
	col := ""
	for _, c := range t.Columns {
		lc := strings.ToLower(c)
		if strings.Contains(lc, "categor") || strings.Contains(lc, "type") {
			col = c
			break
		}
	}
	if col == "" {
		return
	}
	seen := map[string]bool{}
	var uniques []string
	for _, v := range t.Column(col) {
		if table.IsMissing(v) {
			continue
		}
		lv := strings.ToLower(strings.TrimSpace(v))
		if !seen[lv] {
			seen[lv] = true
			uniques = append(uniques, lv)
		}
	}
	for _, sig := range d.sigs {
		for _, kw := range sig.categoryKeywords {
			if containsAny(uniques, kw) {
				scores[sig.category] += d.w.CategoryKeyword
			}
		}
	}
}

func finish(scores map[storetype.Category]float64) Result {
	res := Result{
		Category:   storetype.General,
		Confidence: make(map[storetype.Category]float64, len(scores)),
		Scores:     scores,
	}
	total := 0.0
	for _, c := range storetype.All() {
		total += scores[c]
		res.Confidence[c] = 0
	}
	if total <= 0 {
		return res
	}
	all := storetype.All()
	best := all[0]
	for _, c := range all {
		if scores[c] > scores[best] {
			best = c
		}
		res.Confidence[c] = scores[c] / total * 100
	}
	res.Category = best
	return res
}

// isTextColumn mirrors an object-typed column: it has values and at least
// one of them is not a number.
func isTextColumn(col []string) bool {
	ratio, n := table.NumericRatio(col)
	return n > 0 && ratio < 1
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func containsAny(haystack []string, needle string) bool {
	if needle == "" {
		return false
	}
	for _, h := range haystack {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}
