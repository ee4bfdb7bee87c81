package table

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Options controls how files are ingested.
type Options struct {
	// Delimiter for CSV. If 0, sniffed from the header line.
	Delimiter rune
	// SheetName selects an XLSX sheet; SheetIndex (1-based) is used otherwise.
	SheetName  string
	SheetIndex int
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// MaxBytes rejects inputs larger than this; 0 means unlimited.
	MaxBytes int64
}

// DefaultOptions returns reasonable defaults for order exports.
func DefaultOptions() Options {
	return Options{
		SheetIndex: 1,
		MaxRows:    500000,
		MaxBytes:   100 << 20,
	}
}

// Loader reads one file format into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(name string, data []byte, opt Options) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// SupportedExtensions lists the file extensions accepted by the registered loaders.
func SupportedExtensions() []string {
	return []string{".csv", ".tsv", ".xlsx", ".xlsm", ".json"}
}

// LoadFile reads the file at path with the loader matching its extension.
func LoadFile(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	return LoadReader(filepath.Base(path), f, opt)
}

// LoadReader reads a named stream (for example an HTTP upload) with the loader
// matching the name's extension.
func LoadReader(name string, r io.Reader, opt Options) (*Table, error) {
	var l Loader
	for _, cand := range registry {
		if cand.CanLoad(name) {
			l = cand
			break
		}
	}
	if l == nil {
		return nil, fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedFormat, name, strings.Join(SupportedExtensions(), ", "))
	}
	src := r
	if opt.MaxBytes > 0 {
		src = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d MB", ErrFileTooLarge, name, opt.MaxBytes>>20)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	t, err := l.Load(name, data, opt)
	if err != nil {
		return nil, err
	}
	if opt.MaxRows > 0 && t.NumRows() > opt.MaxRows {
		t = t.Head(opt.MaxRows)
	}
	return t, nil
}

func hasExt(name string, exts ...string) bool {
	lower := strings.ToLower(name)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}

func baseName(name string) string {
	b := filepath.Base(name)
	return strings.TrimSuffix(b, filepath.Ext(b))
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(jsonLoader{})
}
