package workbook

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	minHeaderCells     = 3
	headerAlphaRatio   = 0.7
	emptyRowsEndTable  = 3
	sampleRowSeparator = " | "
)

var calcMarkers = []string{"summary", "calc", "results", "total", "savings", "payback", "cost"}

// cursor is the scan state threaded through Detect. Each step returns a new
// cursor; rows before next are never revisited, so a header row is consumed
// at most once.
type cursor struct {
	next   int
	tables []Table
}

// Detect scans a sheet top to bottom within the configured window and returns
// the detected tables in row order.
func Detect(sheet *SheetData, opts Options) []Table {
	opts.Init()
	lastRow := len(sheet.Rows)
	if lastRow > opts.MaxRows {
		lastRow = opts.MaxRows
	}
	c := cursor{next: 1}
	for c.next <= lastRow && len(c.tables) < opts.MaxTablesPerSheet {
		c = step(sheet, c, lastRow, opts)
	}
	return c.tables
}

func step(sheet *SheetData, c cursor, lastRow int, opts Options) cursor {
	row := c.next
	if !isHeaderCandidate(sheet, row, opts.MaxCols) {
		return cursor{next: row + 1, tables: c.tables}
	}
	startCol, endCol, ok := headerSpan(sheet, row, opts.MaxCols)
	if !ok {
		return cursor{next: row + 1, tables: c.tables}
	}
	rowEnd := scanBody(sheet, row+1, lastRow, startCol, endCol)
	if rowEnd <= row {
		return cursor{next: row + 1, tables: c.tables}
	}
	table := buildTable(sheet, row, startCol, endCol, rowEnd, opts)
	return cursor{next: rowEnd + 1, tables: append(c.tables, table)}
}

// isHeaderCandidate reports whether a row has at least three non-empty cells,
// mostly alphabetic, that do not all normalize to the same header.
func isHeaderCandidate(sheet *SheetData, row, maxCols int) bool {
	var values []string
	for col := 1; col <= maxCols; col++ {
		cell := sheet.Cell(row, col)
		if cell.Empty() {
			continue
		}
		values = append(values, cell.Text())
	}
	if len(values) < minHeaderCells {
		return false
	}
	alpha := 0
	distinct := map[string]bool{}
	for _, v := range values {
		if hasLetter(v) {
			alpha++
		}
		distinct[NormalizeKey(v)] = true
	}
	if float64(alpha) < headerAlphaRatio*float64(len(values)) {
		return false
	}
	need := minHeaderCells
	if len(values) < need {
		need = len(values)
	}
	return len(distinct) >= need
}

// headerSpan returns the first contiguous run of at least three non-empty
// header cells.
func headerSpan(sheet *SheetData, row, maxCols int) (int, int, bool) {
	for col := 1; col <= maxCols; {
		if sheet.Cell(row, col).Empty() {
			col++
			continue
		}
		start := col
		for col <= maxCols && !sheet.Cell(row, col).Empty() {
			col++
		}
		if end := col - 1; end-start+1 >= minHeaderCells {
			return start, end, true
		}
	}
	return 0, 0, false
}

// scanBody returns the last row with any value in the span before a run of
// three fully empty rows, or from-1 when there is no data row.
func scanBody(sheet *SheetData, from, lastRow, startCol, endCol int) int {
	rowEnd := from - 1
	empty := 0
	for row := from; row <= lastRow; row++ {
		if rowEmpty(sheet, row, startCol, endCol) {
			empty++
			if empty == emptyRowsEndTable {
				break
			}
			continue
		}
		empty = 0
		rowEnd = row
	}
	return rowEnd
}

func rowEmpty(sheet *SheetData, row, startCol, endCol int) bool {
	for col := startCol; col <= endCol; col++ {
		if !sheet.Cell(row, col).Empty() {
			return false
		}
	}
	return true
}

func buildTable(sheet *SheetData, headerRow, startCol, endCol, rowEnd int, opts Options) Table {
	table := Table{
		ID:        TableID(sheet.Name, headerRow, startCol, rowEnd, endCol),
		Sheet:     sheet.Name,
		HeaderRow: headerRow,
		StartCol:  startCol,
		EndCol:    endCol,
		RowStart:  headerRow + 1,
		RowEnd:    rowEnd,
	}
	table.Columns = buildColumns(sheet, headerRow, startCol, endCol)
	sampleFormulas(sheet, &table, opts.FormulaSampleRows)
	table.SampleRows = sampleRows(sheet, &table, opts)
	table.Role = classify(sheet.Name, table.Headers())
	return table
}

func buildColumns(sheet *SheetData, headerRow, startCol, endCol int) []Column {
	columns := make([]Column, 0, endCol-startCol+1)
	seen := map[string]int{}
	for col := startCol; col <= endCol; col++ {
		header := sheet.Cell(headerRow, col).Text()
		letter := columnLetter(col)
		key := NormalizeKey(header)
		if key == "" {
			key = "col_" + strings.ToLower(letter)
		}
		seen[key]++
		if n := seen[key]; n > 1 {
			key += "_" + strconv.Itoa(n)
		}
		columns = append(columns, Column{Key: key, Header: header, Col: col, ColLetter: letter})
	}
	return columns
}

func sampleFormulas(sheet *SheetData, table *Table, limit int) {
	last := table.RowEnd
	if bound := table.RowStart + limit - 1; last > bound {
		last = bound
	}
	for i := range table.Columns {
		column := &table.Columns[i]
		for row := table.RowStart; row <= last; row++ {
			formula := sheet.Cell(row, column.Col).Formula
			if formula == "" {
				continue
			}
			column.FormulaCellsSampled++
			if column.SampleFormula == "" {
				column.SampleFormula = formula
			}
		}
		column.HasFormula = column.FormulaCellsSampled > 0
	}
}

func sampleRows(sheet *SheetData, table *Table, opts Options) []string {
	endCol := table.EndCol
	if bound := table.StartCol + opts.SampleCells - 1; endCol > bound {
		endCol = bound
	}
	samples := []string{}
	for row := table.RowStart; row <= table.RowEnd && len(samples) < opts.SampleRows; row++ {
		if line := renderRow(sheet, row, table.StartCol, endCol); line != "" {
			samples = append(samples, line)
		}
	}
	return samples
}

// renderRow joins the trimmed cells of a row span; a row without values
// renders as the empty string.
func renderRow(sheet *SheetData, row, startCol, endCol int) string {
	values := make([]string, 0, endCol-startCol+1)
	blank := true
	for col := startCol; col <= endCol; col++ {
		v := sheet.Cell(row, col).Text()
		if v != "" {
			blank = false
		}
		values = append(values, v)
	}
	if blank {
		return ""
	}
	return strings.Join(values, sampleRowSeparator)
}

// renderRowTrimmed renders a row span without its trailing empty cells.
func renderRowTrimmed(sheet *SheetData, row, startCol, endCol int) string {
	for endCol >= startCol && sheet.Cell(row, endCol).Empty() {
		endCol--
	}
	if endCol < startCol {
		return ""
	}
	return renderRow(sheet, row, startCol, endCol)
}

func classify(name string, headers []string) Role {
	text := strings.ToLower(name + " " + strings.Join(headers, " "))
	for _, marker := range calcMarkers {
		if strings.Contains(text, marker) {
			return RoleCalc
		}
	}
	if len(headers) >= minHeaderCells {
		return RoleData
	}
	return RoleUnknown
}

// NormalizeKey lowercases a header, collapses whitespace and replaces every
// run of non-alphanumeric characters with a single underscore.
func NormalizeKey(header string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(header)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
