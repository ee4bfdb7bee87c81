// Package table holds the raw, untyped tabular data ingested from order
// exports, together with the loaders and parsing helpers shared by the
// detection, mapping and cleaning stages.
package table

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned when no loader accepts a file name.
	ErrUnsupportedFormat = errors.New("unsupported table format")
	// ErrFileTooLarge is returned when an input exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrNoHeader is returned when an input has no header row at all.
	ErrNoHeader = errors.New("no header row")
	// ErrEmptyTable is returned by callers that require at least one data row.
	ErrEmptyTable = errors.New("table is empty")
)

// Table is an ordered set of rows with named, untyped columns. Cells are kept
// exactly as read; an empty cell (after trimming) is a missing value.
//
// A Table is never mutated after construction. Stages that need a different
// shape build a new Table.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New builds a Table, copying the inputs. Rows shorter than the header are
// padded with missing cells and longer rows are truncated.
func New(name string, columns []string, rows [][]string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	out := make([][]string, len(rows))
	for i, r := range rows {
		row := make([]string, len(cols))
		copy(row, r)
		out[i] = row
	}
	t := &Table{Name: name, Columns: cols, Rows: out}
	t.buildIndex()
	return t
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// ColumnIndex returns the position of the named column (exact match).
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t == nil {
		return -1, false
	}
	if t.index == nil {
		for i, c := range t.Columns {
			if c == name {
				return i, true
			}
		}
		return -1, false
	}
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Column returns a copy of the named column's cells, or nil if absent.
func (t *Table) Column(name string) []string {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out
}

// Head returns a new table with at most n leading rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return New(t.Name, t.Columns, t.Rows[:n])
}

// WithColumn returns a new table with an extra column appended. values must
// have one entry per row.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	if t.HasColumn(name) {
		return nil, fmt.Errorf("column %q already exists", name)
	}
	cols := append(append([]string{}, t.Columns...), name)
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, len(cols))
		copy(row, r)
		row[len(cols)-1] = values[i]
		rows[i] = row
	}
	nt := &Table{Name: t.Name, Columns: cols, Rows: rows}
	nt.buildIndex()
	return nt, nil
}

// UniqueColumnName returns base, or base with a numeric suffix, such that the
// result does not collide with an existing column.
func (t *Table) UniqueColumnName(base string) string {
	if !t.HasColumn(base) {
		return base
	}
	for i := 2; ; i++ {
		cand := fmt.Sprintf("%s_%d", base, i)
		if !t.HasColumn(cand) {
			return cand
		}
	}
}

// IsMissing reports whether a raw cell should be treated as a missing value.
func IsMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "null", "none", "n/a", "#n/a", "na", "nat":
		return true
	}
	return false
}

// CheckStructure returns structural issues that make a table unusable for
// analysis. An empty result means the table is structurally sound.
func CheckStructure(t *Table) []string {
	var issues []string
	if t == nil || t.NumRows() == 0 {
		issues = append(issues, "table is empty")
	}
	if t.NumCols() < 2 {
		issues = append(issues, "table needs at least 2 columns")
	}
	if t != nil {
		for i, c := range t.Columns {
			if strings.TrimSpace(c) == "" {
				issues = append(issues, fmt.Sprintf("column %d has an empty name", i+1))
			}
		}
	}
	return issues
}
