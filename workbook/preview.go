package workbook

import "strings"

// TablePreview renders a table as a HEADERS line followed by its first data
// rows within the column span.
func TablePreview(sheet *SheetData, table *Table, opts Options) string {
	opts.Init()
	lines := []string{"HEADERS: " + strings.Join(table.Headers(), sampleRowSeparator)}
	last := table.RowEnd
	if bound := table.RowStart + opts.PreviewRows - 1; last > bound {
		last = bound
	}
	for row := table.RowStart; row <= last; row++ {
		if line := renderRow(sheet, row, table.StartCol, table.EndCol); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// CSVPreview renders the header row and the first data rows of a CSV sheet,
// limited to the leading columns. It does not require a detected table.
func CSVPreview(sheet *SheetData, opts Options) string {
	opts.Init()
	if len(sheet.Rows) == 0 {
		return ""
	}
	width := sheet.Width()
	if width > opts.CSVPreviewCols {
		width = opts.CSVPreviewCols
	}
	header := renderRowTrimmed(sheet, 1, 1, width)
	var lines []string
	if header != "" {
		lines = append(lines, "HEADERS: "+header)
	}
	last := len(sheet.Rows)
	if bound := 1 + opts.PreviewRows; last > bound {
		last = bound
	}
	for row := 2; row <= last; row++ {
		if line := renderRowTrimmed(sheet, row, 1, width); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// SheetPreview renders the first non-empty rows of a sheet where no table was
// detected so its text stays searchable.
func SheetPreview(sheet *SheetData, opts Options) string {
	opts.Init()
	width := sheet.Width()
	if width > opts.CSVPreviewCols {
		width = opts.CSVPreviewCols
	}
	var lines []string
	for row := 1; row <= len(sheet.Rows) && row <= opts.MaxRows && len(lines) < opts.PreviewRows; row++ {
		if line := renderRowTrimmed(sheet, row, 1, width); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "SHEET: " + sheet.Name + "\n" + strings.Join(lines, "\n")
}

// PreviewRange returns the A1 range a table preview was rendered from.
func PreviewRange(table *Table, opts Options) string {
	opts.Init()
	last := table.RowEnd
	if bound := table.RowStart + opts.PreviewRows - 1; last > bound {
		last = bound
	}
	return cellRange(table.StartCol, table.HeaderRow, table.EndCol, last)
}

// CSVRange returns the A1 range covered by a CSV preview.
func CSVRange(sheet *SheetData, opts Options) string {
	opts.Init()
	if len(sheet.Rows) == 0 {
		return ""
	}
	width := sheet.Width()
	if width > opts.CSVPreviewCols {
		width = opts.CSVPreviewCols
	}
	if width == 0 {
		return ""
	}
	last := len(sheet.Rows)
	if bound := 1 + opts.PreviewRows; last > bound {
		last = bound
	}
	return cellRange(1, 1, width, last)
}
