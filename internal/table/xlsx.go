package table

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return hasExt(filename, ".xlsx", ".xlsm")
}

// Load reads the selected sheet. The first non-blank row is the header.
// If SheetName is empty, SheetIndex (1-based) picks the sheet.
func (xlsxLoader) Load(name string, data []byte, opt Options) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	start := 0
	for start < len(rows) && isBlankRecord(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return nil, fmt.Errorf("%w: sheet %q in %s", ErrNoHeader, sheet, name)
	}
	header := make([]string, len(rows[start]))
	for i, h := range rows[start] {
		header[i] = strings.TrimSpace(h)
	}
	var body [][]string
	for _, r := range rows[start+1:] {
		if isBlankRecord(r) {
			continue
		}
		body = append(body, r)
		if opt.MaxRows > 0 && len(body) >= opt.MaxRows {
			break
		}
	}
	return New(baseName(name), header, body), nil
}

func pickSheet(sheets []string, name string, index int) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found; available sheets: %s", name, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", index, len(sheets))
	}
	return sheets[index-1], nil
}
