// Package export serializes analysis results and tables to files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/storelens/internal/analyzer"
	"github.com/KaramelBytes/storelens/internal/report"
	"github.com/KaramelBytes/storelens/internal/table"
)

// ErrUnsupportedFormat is returned for a format the target cannot be
// written in.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Supported formats.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatTOML     = "toml"
	FormatXLSX     = "xlsx"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatText     = "txt"
)

// AnalysisFormats lists the formats ExportAnalysis accepts.
func AnalysisFormats() []string {
	return []string{FormatJSON, FormatYAML, FormatTOML, FormatXLSX, FormatMarkdown, FormatText}
}

// TableFormats lists the formats ExportTable accepts.
func TableFormats() []string {
	return []string{FormatCSV, FormatJSON, FormatXLSX}
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch normalize(format) {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatTOML:
		return "application/toml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the canonical file extension for a format alias such
// as "yml" or "markdown".
func Extension(format string) string { return normalize(format) }

// Exporter writes files into Dir.
type Exporter struct {
	Dir    string
	Report report.Options
	// now is stubbed in tests.
	now func() time.Time
}

// New returns an Exporter writing to dir with the given report options.
func New(dir string, ropt report.Options) *Exporter {
	return &Exporter{Dir: dir, Report: ropt, now: time.Now}
}

// ExportAnalysis writes res in format and returns the file path.
func (e *Exporter) ExportAnalysis(res *analyzer.Result, format string) (string, error) {
	data, err := EncodeAnalysis(res, format, e.Report)
	if err != nil {
		return "", err
	}
	return e.write("analysis", format, data)
}

// ExportTable writes t in format and returns the file path.
func (e *Exporter) ExportTable(t *table.Table, format string) (string, error) {
	data, err := EncodeTable(t, format)
	if err != nil {
		return "", err
	}
	prefix := "data"
	if t.Name != "" {
		prefix = sanitize(t.Name)
	}
	return e.write(prefix, format, data)
}

func (e *Exporter) write(prefix, format string, data []byte) (string, error) {
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir export dir: %w", err)
	}
	now := time.Now
	if e.now != nil {
		now = e.now
	}
	name := fmt.Sprintf("storelens_%s_%s_%s.%s",
		prefix, now().Format("20060102_150405"), uuid.NewString()[:8], normalize(format))
	path := filepath.Join(dir, name)
	if err := SafeWriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// EncodeAnalysis serializes res without touching the filesystem.
func EncodeAnalysis(res *analyzer.Result, format string, ropt report.Options) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("export analysis: nil result")
	}
	switch f := normalize(format); f {
	case FormatJSON:
		return PrettyJSON(res)
	case FormatYAML:
		return marshalYAML(res)
	case FormatTOML:
		return marshalTOML(res)
	case FormatXLSX:
		return analysisWorkbook(res)
	case FormatMarkdown, FormatText:
		ropt.Format = f
		if ropt.Language == "" {
			ropt.Language = res.Language
		}
		s, err := report.Render(res, ropt)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("%w for analysis: %q", ErrUnsupportedFormat, format)
	}
}

// EncodeTable serializes t without touching the filesystem.
func EncodeTable(t *table.Table, format string) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("export table: nil table")
	}
	switch normalize(format) {
	case FormatCSV:
		return tableCSV(t)
	case FormatJSON:
		return tableJSON(t)
	case FormatXLSX:
		return tableWorkbook(t)
	default:
		return nil, fmt.Errorf("%w for table: %q", ErrUnsupportedFormat, format)
	}
}

func normalize(format string) string {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	switch f {
	case "yml":
		return FormatYAML
	case "markdown":
		return FormatMarkdown
	case "text":
		return FormatText
	}
	return f
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "data"
	}
	return b.String()
}
