package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type jsonLoader struct{}

func (jsonLoader) CanLoad(filename string) bool {
	return hasExt(filename, ".json")
}

// Load accepts either an array of flat objects (column order follows first
// appearance of each key) or an object of the form {"columns": [...], "rows": [[...]]}.
func (jsonLoader) Load(name string, data []byte, opt Options) (*Table, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHeader, name)
	}
	var (
		cols []string
		rows [][]string
		err  error
	)
	switch data[0] {
	case '[':
		cols, rows, err = decodeRecords(data, opt.MaxRows)
	case '{':
		cols, rows, err = decodeSplit(data, opt.MaxRows)
	default:
		err = fmt.Errorf("expected a JSON array or object")
	}
	if err != nil {
		return nil, fmt.Errorf("parse json %s: %w", name, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHeader, name)
	}
	return New(baseName(name), cols, rows), nil
}

func decodeRecords(data []byte, maxRows int) ([]string, [][]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	var cols []string
	index := map[string]int{}
	var recs []map[string]string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, nil, fmt.Errorf("record %d is not an object", len(recs)+1)
		}
		rec := map[string]string{}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, nil, err
			}
			key, _ := kt.(string)
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, nil, err
			}
			if _, seen := index[key]; !seen {
				index[key] = len(cols)
				cols = append(cols, key)
			}
			rec[key] = rawCell(raw)
		}
		if _, err := dec.Token(); err != nil {
			return nil, nil, err
		}
		recs = append(recs, rec)
		if maxRows > 0 && len(recs) >= maxRows {
			break
		}
	}
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		row := make([]string, len(cols))
		for k, v := range rec {
			row[index[k]] = v
		}
		rows[i] = row
	}
	return cols, rows, nil
}

func decodeSplit(data []byte, maxRows int) ([]string, [][]string, error) {
	var doc struct {
		Columns []string            `json:"columns"`
		Rows    [][]json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}
	rows := make([][]string, 0, len(doc.Rows))
	for _, r := range doc.Rows {
		row := make([]string, len(r))
		for j, c := range r {
			row[j] = rawCell(c)
		}
		rows = append(rows, row)
		if maxRows > 0 && len(rows) >= maxRows {
			break
		}
	}
	return doc.Columns, rows, nil
}

func rawCell(raw json.RawMessage) string {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return ""
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			return s
		}
	}
	return string(b)
}
