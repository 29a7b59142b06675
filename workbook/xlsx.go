package workbook

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// OpenXLSX decodes an OOXML workbook into bounded sheet grids carrying display
// values, raw values and formulas.
func OpenXLSX(data []byte, opts Options) (*Book, error) {
	opts.Init()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	book := &Book{Format: FormatXLSX}
	for i, name := range f.GetSheetList() {
		if i == opts.MaxSheets {
			break
		}
		sheet, err := readXLSXSheet(f, name, opts)
		if err != nil {
			return nil, err
		}
		book.Sheets = append(book.Sheets, *sheet)
	}
	return book, nil
}

func readXLSXSheet(f *excelize.File, name string, opts Options) (*SheetData, error) {
	display, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read raw values of sheet %q: %w", name, err)
	}
	if len(display) > opts.MaxRows {
		display = display[:opts.MaxRows]
	}
	sheet := &SheetData{Name: name, Rows: make([][]Cell, len(display))}
	for r, values := range display {
		width := len(values)
		if width > opts.MaxCols {
			width = opts.MaxCols
		}
		cells := make([]Cell, width)
		for c := 0; c < width; c++ {
			cells[c].Display = values[c]
			if r < len(raw) && c < len(raw[r]) {
				cells[c].Raw = raw[r][c]
			}
			formula, err := f.GetCellFormula(name, cellName(c+1, r+1))
			if err != nil {
				return nil, fmt.Errorf("failed to read formula %s!%s: %w", name, cellName(c+1, r+1), err)
			}
			cells[c].Formula = formula
		}
		sheet.Rows[r] = cells
	}
	return sheet, nil
}
