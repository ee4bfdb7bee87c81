// Package rules holds the tunable data behind detection, mapping and the
// financial estimates: keyword and pattern lists, score weights, cost
// ratios, industry benchmarks and recommendation catalogs.
//
// Defaults are built in. A YAML file can override any part of them; map
// entries are merged key by key and every other value is replaced.
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/storetype"
)

// Rules is the complete tunable rule set.
type Rules struct {
	Detector        DetectorRules                    `yaml:"detector"`
	Mapper          MapperRules                      `yaml:"mapper"`
	Finance         FinanceRules                     `yaml:"finance"`
	Benchmarks      map[storetype.Category]Benchmark `yaml:"benchmarks"`
	Recommendations RecommendationRules              `yaml:"recommendations"`
	Quality         QualityRules                     `yaml:"quality"`
}

// DetectorRules drive store-type detection.
type DetectorRules struct {
	// ColumnKeyword is added once per signature keyword found in any column name.
	ColumnKeyword float64 `yaml:"column_keyword"`
	// ValueMatch is added per sampled cell matching a value pattern.
	ValueMatch float64 `yaml:"value_match"`
	// CategoryKeyword is added per keyword found among the values of the
	// first category/type column.
	CategoryKeyword float64 `yaml:"category_keyword"`
	// SampleRows bounds the value sample.
	SampleRows int                              `yaml:"sample_rows"`
	Signatures map[storetype.Category]Signature `yaml:"signatures"`
}

// Signature is the evidence that points at one category.
type Signature struct {
	ColumnKeywords   []string `yaml:"column_keywords"`
	ValuePatterns    []string `yaml:"value_patterns"`
	CategoryKeywords []string `yaml:"category_keywords"`
}

// MapperRules drive column auto-mapping.
type MapperRules struct {
	// Pattern is added once when any of a field's patterns matches.
	Pattern float64 `yaml:"pattern"`
	// Keyword is added per keyword substring hit.
	Keyword float64 `yaml:"keyword"`
	// DateSample and DateRatio control the order_date fallback scan.
	DateSample int                        `yaml:"date_sample"`
	DateRatio  float64                    `yaml:"date_ratio"`
	Fields     map[schema.Field]FieldRule `yaml:"fields"`
}

// FieldRule describes how column names are recognized for one field.
type FieldRule struct {
	Patterns []string `yaml:"patterns"`
	Keywords []string `yaml:"keywords"`
	// Exclude vetoes the field for any column name containing one of these.
	Exclude  []string `yaml:"exclude,omitempty"`
	Priority float64  `yaml:"priority"`
}

// FinanceRules back the financial and inventory estimates.
type FinanceRules struct {
	CostRatios       map[storetype.Category]float64 `yaml:"cost_ratios"`
	DefaultCostRatio float64                        `yaml:"default_cost_ratio"`
	// OpexRatio is the share of gross profit assumed to go to operating expenses.
	OpexRatio       float64                        `yaml:"opex_ratio"`
	TurnoverRates   map[storetype.Category]float64 `yaml:"turnover_rates"`
	DefaultTurnover float64                        `yaml:"default_turnover"`
}

// Benchmark is a row of industry reference values. Rates are percentages.
type Benchmark struct {
	AOV             float64 `yaml:"aov" json:"aov" toml:"aov"`
	ConversionRate  float64 `yaml:"conversion_rate" json:"conversion_rate" toml:"conversion_rate"`
	RepeatRate      float64 `yaml:"repeat_rate" json:"repeat_rate" toml:"repeat_rate"`
	CartAbandonment float64 `yaml:"cart_abandonment" json:"cart_abandonment" toml:"cart_abandonment"`
}

// Localized is a list of messages per language.
type Localized map[string][]string

// For returns the messages for lang, falling back to English.
func (l Localized) For(lang string) []string {
	if v, ok := l[strings.ToLower(lang)]; ok && len(v) > 0 {
		return append([]string(nil), v...)
	}
	return append([]string(nil), l["en"]...)
}

// RecommendationRules are the static advice catalogs.
type RecommendationRules struct {
	Products  map[storetype.Category]Localized `yaml:"products"`
	Marketing map[storetype.Category]Localized `yaml:"marketing"`
	Inventory Localized                        `yaml:"inventory"`
	Immediate Localized                        `yaml:"immediate"`
	ShortTerm Localized                        `yaml:"short_term"`
	LongTerm  Localized                        `yaml:"long_term"`
}

// QualityRules tune the data-quality score.
type QualityRules struct {
	OutlierZ           float64 `yaml:"outlier_z"`
	CompletenessWeight float64 `yaml:"completeness_weight"`
	UniquenessWeight   float64 `yaml:"uniqueness_weight"`
	ConsistencyWeight  float64 `yaml:"consistency_weight"`
}

// CostRatio returns the COGS share for c, or the default.
func (r *Rules) CostRatio(c storetype.Category) float64 {
	if v, ok := r.Finance.CostRatios[c]; ok {
		return v
	}
	return r.Finance.DefaultCostRatio
}

// Turnover returns the inventory turnover estimate for c, or the default.
func (r *Rules) Turnover(c storetype.Category) float64 {
	if v, ok := r.Finance.TurnoverRates[c]; ok {
		return v
	}
	return r.Finance.DefaultTurnover
}

// Benchmark returns the benchmark row for c and the category whose row was
// used. Unknown categories use the general row.
func (r *Rules) Benchmark(c storetype.Category) (Benchmark, storetype.Category) {
	if b, ok := r.Benchmarks[c]; ok {
		return b, c
	}
	return r.Benchmarks[storetype.General], storetype.General
}

// ProductAdvice returns product recommendations for c in lang.
func (r *Rules) ProductAdvice(c storetype.Category, lang string) []string {
	return pick(r.Recommendations.Products, c, lang)
}

// MarketingAdvice returns marketing recommendations for c in lang.
func (r *Rules) MarketingAdvice(c storetype.Category, lang string) []string {
	return pick(r.Recommendations.Marketing, c, lang)
}

func pick(cat map[storetype.Category]Localized, c storetype.Category, lang string) []string {
	if l, ok := cat[c]; ok {
		return l.For(lang)
	}
	return cat[storetype.General].For(lang)
}

// Validate checks that patterns compile, weights are not negative and
// ratios are in range.
func (r *Rules) Validate() error {
	var errs []string
	weights := []struct {
		key string
		v   float64
	}{
		{"detector.column_keyword", r.Detector.ColumnKeyword},
		{"detector.value_match", r.Detector.ValueMatch},
		{"detector.category_keyword", r.Detector.CategoryKeyword},
		{"mapper.pattern", r.Mapper.Pattern},
		{"mapper.keyword", r.Mapper.Keyword},
	}
	for _, w := range weights {
		if w.v < 0 || math.IsNaN(w.v) || math.IsInf(w.v, 0) {
			errs = append(errs, fmt.Sprintf("%s: %v must be a finite non-negative weight", w.key, w.v))
		}
	}
	for c, sig := range r.Detector.Signatures {
		if !c.Valid() {
			errs = append(errs, fmt.Sprintf("detector.signatures: unknown store type %q", c))
		}
		for _, p := range sig.ValuePatterns {
			if _, err := CompilePattern(p); err != nil {
				errs = append(errs, fmt.Sprintf("detector.signatures.%s: %v", c, err))
			}
		}
	}
	for f, fr := range r.Mapper.Fields {
		if !f.Known() {
			errs = append(errs, fmt.Sprintf("mapper.fields: unknown field %q", f))
		}
		for _, p := range fr.Patterns {
			if _, err := CompilePattern(p); err != nil {
				errs = append(errs, fmt.Sprintf("mapper.fields.%s: %v", f, err))
			}
		}
	}
	for c, v := range r.Finance.CostRatios {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Sprintf("finance.cost_ratios.%s: %v not in [0,1]", c, v))
		}
	}
	if r.Finance.OpexRatio < 0 || r.Finance.OpexRatio > 1 {
		errs = append(errs, fmt.Sprintf("finance.opex_ratio: %v not in [0,1]", r.Finance.OpexRatio))
	}
	if r.Mapper.DateRatio <= 0 || r.Mapper.DateRatio > 1 {
		errs = append(errs, fmt.Sprintf("mapper.date_ratio: %v not in (0,1]", r.Mapper.DateRatio))
	}
	if _, ok := r.Benchmarks[storetype.General]; !ok {
		errs = append(errs, "benchmarks: general row is required")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid rules: %s", strings.Join(errs, "; "))
	}
	return nil
}

// CompilePattern compiles a case-insensitive pattern.
func CompilePattern(p string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + p)
}

// LoadFile reads a YAML override file on top of the defaults. An empty path
// returns the defaults.
func LoadFile(path string) (*Rules, error) {
	r := Default()
	if strings.TrimSpace(path) == "" {
		return r, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	if err := Overlay(r, b); err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return r, nil
}

// Overlay decodes YAML onto r and validates the result.
func Overlay(r *Rules, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(r); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse: %w", err)
	}
	return r.Validate()
}

// YAML renders r as a YAML document.
func (r *Rules) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
