package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV decodes CSV bytes into the single implicit sheet. Records may have
// varying field counts.
func ReadCSV(data []byte) (*Book, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	sheet := SheetData{Name: CSVSheet}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		cells := make([]Cell, len(record))
		for i, v := range record {
			cells[i] = Cell{Display: v, Raw: v}
		}
		sheet.Rows = append(sheet.Rows, cells)
	}
	return &Book{Format: FormatCSV, Sheets: []SheetData{sheet}}, nil
}

// DetectCSV treats the first row as the header and returns one table spanning
// every header column, or none when there is no header or no data row.
func DetectCSV(sheet *SheetData, opts Options) []Table {
	opts.Init()
	endCol := headerWidth(sheet)
	if endCol == 0 {
		return nil
	}
	rowEnd := 1
	for row := 2; row <= len(sheet.Rows); row++ {
		if !rowEmpty(sheet, row, 1, endCol) {
			rowEnd = row
		}
	}
	if rowEnd == 1 {
		return nil
	}
	return []Table{buildTable(sheet, 1, 1, endCol, rowEnd, opts)}
}

// headerWidth returns the first row's width without trailing empty cells.
func headerWidth(sheet *SheetData) int {
	if len(sheet.Rows) == 0 {
		return 0
	}
	header := sheet.Rows[0]
	width := len(header)
	for width > 0 && header[width-1].Empty() {
		width--
	}
	return width
}
