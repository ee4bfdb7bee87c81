// Package session holds the state of one interactive analysis: the loaded
// table, its detected store type, the column mapping and the latest result.
// A Session is not safe for concurrent use; callers that share one must
// serialize access.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/storelens/internal/analyzer"
	"github.com/KaramelBytes/storelens/internal/charts"
	"github.com/KaramelBytes/storelens/internal/cleaner"
	"github.com/KaramelBytes/storelens/internal/config"
	"github.com/KaramelBytes/storelens/internal/detector"
	"github.com/KaramelBytes/storelens/internal/logging"
	"github.com/KaramelBytes/storelens/internal/mapper"
	"github.com/KaramelBytes/storelens/internal/report"
	"github.com/KaramelBytes/storelens/internal/rules"
	"github.com/KaramelBytes/storelens/internal/schema"
	"github.com/KaramelBytes/storelens/internal/storetype"
	"github.com/KaramelBytes/storelens/internal/table"
)

var (
	// ErrNoTable is returned by operations that need a loaded table.
	ErrNoTable = errors.New("no table loaded")
	// ErrNotAnalyzed is returned by operations that need an analysis result.
	ErrNotAnalyzed = errors.New("table not analyzed")
	// ErrInvalidMapping is wrapped by *ValidationError.
	ErrInvalidMapping = errors.New("invalid mapping")
)

// ValidationError carries the itemized validation that blocked an analysis.
type ValidationError struct {
	Result mapper.ValidationResult
}

func (e *ValidationError) Error() string {
	return "invalid mapping: " + strings.Join(e.Result.Errors, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidMapping }

// Options configure a session.
type Options struct {
	Rules    *rules.Rules
	Language string
	Currency string
	Load     table.Options
}

// OptionsFromConfig resolves rules and limits from the global config.
func OptionsFromConfig(cfg *config.Global) (Options, error) {
	opt := Options{Language: "en", Currency: "SAR", Load: table.DefaultOptions()}
	if cfg == nil {
		opt.Rules = rules.Default()
		return opt, nil
	}
	r, err := rules.LoadFile(cfg.RulesFile)
	if err != nil {
		return Options{}, err
	}
	if cfg.SampleRows > 0 {
		r.Detector.SampleRows = cfg.SampleRows
	}
	opt.Rules = r
	opt.Language = cfg.Language
	opt.Currency = cfg.Currency
	opt.Load.MaxRows = cfg.MaxRows
	if cfg.UploadMaxMB > 0 {
		opt.Load.MaxBytes = int64(cfg.UploadMaxMB) << 20
	}
	return opt, nil
}

// Session is one analysis workflow.
type Session struct {
	ID      string
	Created time.Time

	opt      Options
	detector *detector.Detector
	mapper   *mapper.Mapper

	source    string
	table     *table.Table
	detection detector.Result
	category  storetype.Category
	mapping   schema.Mapping
	cleaned   *cleaner.Cleaned
	result    *analyzer.Result
}

// New builds a session from the global config.
func New(cfg *config.Global) (*Session, error) {
	opt, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithOptions(opt)
}

// NewWithOptions builds a session from explicit options.
func NewWithOptions(opt Options) (*Session, error) {
	if opt.Rules == nil {
		opt.Rules = rules.Default()
	}
	if opt.Language == "" {
		opt.Language = "en"
	}
	d, err := detector.New(opt.Rules)
	if err != nil {
		return nil, fmt.Errorf("build detector: %w", err)
	}
	m, err := mapper.New(opt.Rules)
	if err != nil {
		return nil, fmt.Errorf("build mapper: %w", err)
	}
	return &Session{
		ID:       uuid.NewString(),
		Created:  time.Now().UTC(),
		opt:      opt,
		detector: d,
		mapper:   m,
		mapping:  schema.NewMapping(),
	}, nil
}

// Load reads a file, then detects the store type and auto-maps columns.
func (s *Session) Load(ctx context.Context, path string) error {
	t, err := table.LoadFile(path, s.opt.Load)
	if err != nil {
		return err
	}
	return s.SetTable(ctx, path, t)
}

// LoadReader is Load for an uploaded stream; name selects the format.
func (s *Session) LoadReader(ctx context.Context, name string, r io.Reader) error {
	t, err := table.LoadReader(name, r, s.opt.Load)
	if err != nil {
		return err
	}
	return s.SetTable(ctx, name, t)
}

// SetTable replaces the session table and reruns detection and mapping.
// Tables without data rows are rejected with table.ErrEmptyTable.
func (s *Session) SetTable(ctx context.Context, source string, t *table.Table) error {
	if t == nil || t.NumRows() == 0 {
		return fmt.Errorf("load %s: %w", source, table.ErrEmptyTable)
	}
	start := time.Now()
	s.Reset()
	s.source = source
	s.table = t
	s.detection = s.detector.Detect(t)
	s.category = s.detection.Category
	s.mapping = s.mapper.AutoMap(t)

	logging.WithFields(ctx, "session_id", s.ID).Info("table loaded",
		"source", source,
		"rows", t.NumRows(),
		"columns", t.NumCols(),
		"category", s.category,
		"mapped_fields", s.mapping.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Table returns the loaded table, or nil.
func (s *Session) Table() *table.Table { return s.table }

// Detection returns the detector output for the loaded table.
func (s *Session) Detection() detector.Result { return s.detection }

// Category is the store type used for analysis.
func (s *Session) Category() storetype.Category { return s.category }

// Mapping returns a copy of the current mapping.
func (s *Session) Mapping() schema.Mapping { return s.mapping.Clone() }

// Result returns the latest analysis, or nil.
func (s *Session) Result() *analyzer.Result { return s.result }

// Cleaned returns the cleaned table behind the latest analysis, or nil.
func (s *Session) Cleaned() *cleaner.Cleaned { return s.cleaned }

// Language is the session default output language.
func (s *Session) Language() string { return s.opt.Language }

// SetCategory overrides the detected store type.
func (s *Session) SetCategory(c storetype.Category) error {
	if !c.Valid() {
		return fmt.Errorf("unknown store type %q", c)
	}
	s.category = c
	s.invalidate()
	return nil
}

// Override replaces mapping entries; an empty column unmaps the field.
func (s *Session) Override(ctx context.Context, overrides map[schema.Field]string) error {
	if s.table == nil {
		return ErrNoTable
	}
	s.mapping = mapper.Apply(s.mapping, overrides)
	s.invalidate()
	logging.WithFields(ctx, "session_id", s.ID).Info("mapping overridden",
		"fields", len(overrides),
		"mapped_fields", s.mapping.Len(),
	)
	return nil
}

// Validate checks the current mapping against the table.
func (s *Session) Validate() (mapper.ValidationResult, error) {
	if s.table == nil {
		return mapper.ValidationResult{}, ErrNoTable
	}
	return mapper.Validate(s.table, s.mapping), nil
}

// Analyze validates, cleans and analyzes the table in the session
// language. An invalid mapping returns a *ValidationError.
func (s *Session) Analyze(ctx context.Context) (*analyzer.Result, error) {
	return s.AnalyzeIn(ctx, s.opt.Language)
}

// AnalyzeIn is Analyze with an explicit output language.
func (s *Session) AnalyzeIn(ctx context.Context, lang string) (*analyzer.Result, error) {
	v, err := s.Validate()
	if err != nil {
		return nil, err
	}
	if !v.Valid {
		return nil, &ValidationError{Result: v}
	}
	start := time.Now()
	if s.cleaned == nil {
		s.cleaned = cleaner.Clean(s.table, s.mapping)
	}
	s.result = analyzer.Analyze(s.cleaned, s.category, analyzer.Options{
		Rules:        s.opt.Rules,
		Language:     lang,
		AnalysisDate: time.Now(),
		DateFormat:   "2006-01-02",
	})
	logging.WithFields(ctx, "session_id", s.ID).Info("analysis complete",
		"rows", s.cleaned.Rows(),
		"category", s.category,
		"language", lang,
		"quality_grade", s.result.DataQuality.Grade,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.result, nil
}

// resultIn returns the latest result in lang, re-running the analyzer on
// the cached cleaned table when the language differs.
func (s *Session) resultIn(ctx context.Context, lang string) (*analyzer.Result, error) {
	if s.result == nil {
		return nil, ErrNotAnalyzed
	}
	if lang == "" || lang == s.result.Language {
		return s.result, nil
	}
	return s.AnalyzeIn(ctx, lang)
}

// Report renders the latest analysis. An empty lang keeps the result's
// language.
func (s *Session) Report(ctx context.Context, lang, format string) (string, error) {
	res, err := s.resultIn(ctx, lang)
	if err != nil {
		return "", err
	}
	return report.Render(res, report.Options{Language: res.Language, Currency: s.opt.Currency, Format: format})
}

// Chart builds chart data for kind from the latest analysis.
func (s *Session) Chart(ctx context.Context, kind, lang string) (charts.Chart, error) {
	res, err := s.resultIn(ctx, lang)
	if err != nil {
		return charts.Chart{}, err
	}
	return charts.Build(kind, res, res.Language)
}

// ReportOptions returns the rendering options exports should use.
func (s *Session) ReportOptions() report.Options {
	lang := s.opt.Language
	if s.result != nil {
		lang = s.result.Language
	}
	return report.Options{Language: lang, Currency: s.opt.Currency}
}

// Reset drops the table and everything derived from it.
func (s *Session) Reset() {
	s.source = ""
	s.table = nil
	s.detection = detector.Result{}
	s.category = ""
	s.mapping = schema.NewMapping()
	s.invalidate()
}

func (s *Session) invalidate() {
	s.cleaned = nil
	s.result = nil
}

// Info is a serializable summary of the session state.
type Info struct {
	ID              string                         `json:"id"`
	Created         time.Time                      `json:"created"`
	Source          string                         `json:"source,omitempty"`
	Rows            int                            `json:"rows"`
	Columns         []string                       `json:"columns"`
	StoreType       storetype.Category             `json:"store_type,omitempty"`
	Confidence      map[storetype.Category]float64 `json:"confidence,omitempty"`
	Mapping         map[schema.Field]string        `json:"mapping"`
	SynthesizeTotal bool                           `json:"synthesize_total"`
	Analyzed        bool                           `json:"analyzed"`
}

// Info summarizes the session.
func (s *Session) Info() Info {
	in := Info{
		ID:              s.ID,
		Created:         s.Created,
		Source:          s.source,
		Columns:         []string{},
		StoreType:       s.category,
		Confidence:      s.detection.Confidence,
		Mapping:         map[schema.Field]string{},
		SynthesizeTotal: s.mapping.SynthesizeTotal,
		Analyzed:        s.result != nil,
	}
	if s.table != nil {
		in.Rows = s.table.NumRows()
		in.Columns = append(in.Columns, s.table.Columns...)
	}
	for _, f := range s.mapping.Fields() {
		col, _ := s.mapping.Column(f)
		in.Mapping[f] = col
	}
	return in
}
