package workbook

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"
)

// OpenXLS decodes a legacy BIFF workbook. The codec does not expose formulas,
// so formula lineage is never recorded for these files.
func OpenXLS(data []byte, opts Options) (book *Book, err error) {
	opts.Init()
	defer func() {
		if r := recover(); r != nil {
			book, err = nil, fmt.Errorf("failed to decode xls: %v", r)
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	book = &Book{Format: FormatXLS}
	for i := 0; i < wb.GetNumberSheets() && i < opts.MaxSheets; i++ {
		sheet, err := wb.GetSheet(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %d: %w", i, err)
		}
		if sheet == nil {
			continue
		}
		data := SheetData{Name: sheet.GetName()}
		for r, row := range sheet.GetRows() {
			if r == opts.MaxRows {
				break
			}
			data.Rows = append(data.Rows, xlsCells(row.GetCols(), opts.MaxCols))
		}
		book.Sheets = append(book.Sheets, data)
	}
	return book, nil
}

func xlsCells(cols []structure.CellData, maxCols int) []Cell {
	if len(cols) > maxCols {
		cols = cols[:maxCols]
	}
	out := make([]Cell, 0, len(cols))
	for _, col := range cols {
		val := col.GetString()
		raw := val
		if val == "" {
			if num := col.GetFloat64(); num != 0 {
				raw = strconv.FormatFloat(num, 'f', -1, 64)
			} else if in := col.GetInt64(); in != 0 {
				raw = strconv.FormatInt(in, 10)
			}
			val = raw
		}
		out = append(out, Cell{Display: val, Raw: raw})
	}
	return out
}
