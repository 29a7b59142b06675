// Package workbook detects tabular regions in spreadsheets and indexes their
// columns and formula lineage.
package workbook

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Format identifies the spreadsheet container.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// CSVSheet is the name of the single implicit sheet of a CSV document.
const CSVSheet = "CSV"

// Cell is one spreadsheet cell as read through a codec adapter.
type Cell struct {
	Display string
	Raw     string
	Formula string
}

// Empty reports whether the cell has no visible value.
func (c Cell) Empty() bool {
	return strings.TrimSpace(c.Display) == ""
}

// Text returns the trimmed display value.
func (c Cell) Text() string {
	return strings.TrimSpace(c.Display)
}

// SheetData is the bounded cell grid of one sheet; Rows[0] is spreadsheet row 1
// and Rows[r][0] is column A.
type SheetData struct {
	Name string
	Rows [][]Cell
}

// Cell returns the cell at 1-based row and col, or an empty cell.
func (s *SheetData) Cell(row, col int) Cell {
	if row < 1 || row > len(s.Rows) {
		return Cell{}
	}
	cells := s.Rows[row-1]
	if col < 1 || col > len(cells) {
		return Cell{}
	}
	return cells[col-1]
}

// Width returns the number of columns of the widest row.
func (s *SheetData) Width() int {
	width := 0
	for _, row := range s.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Book is a decoded spreadsheet document.
type Book struct {
	Format Format
	Sheets []SheetData
}

// Role classifies a detected table.
type Role string

const (
	RoleCalc    Role = "calc"
	RoleData    Role = "data"
	RoleUnknown Role = "unknown"
)

// Column describes one header column of a table.
type Column struct {
	Key                 string `json:"key"`
	Header              string `json:"header"`
	Col                 int    `json:"col"`
	ColLetter           string `json:"colLetter"`
	HasFormula          bool   `json:"hasFormula"`
	SampleFormula       string `json:"sampleFormula,omitempty"`
	FormulaCellsSampled int    `json:"formulaCellsSampled"`
}

// Table is a detected header plus data block.
type Table struct {
	ID         string   `json:"tableId"`
	Sheet      string   `json:"sheet"`
	HeaderRow  int      `json:"headerRow"`
	StartCol   int      `json:"startCol"`
	EndCol     int      `json:"endCol"`
	RowStart   int      `json:"rowStart"`
	RowEnd     int      `json:"rowEnd"`
	Role       Role     `json:"role"`
	Columns    []Column `json:"columns"`
	SampleRows []string `json:"sampleRows"`
}

// TableID formats the stable identifier of a table region.
func TableID(sheet string, headerRow, startCol, lastRow, endCol int) string {
	return fmt.Sprintf("%s!R%dC%d:R%dC%d", sheet, headerRow, startCol, lastRow, endCol)
}

// CellRange returns the A1 range covering the header and data rows.
func (t *Table) CellRange() string {
	return cellRange(t.StartCol, t.HeaderRow, t.EndCol, t.RowEnd)
}

// Headers returns the display headers in column order.
func (t *Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Header
	}
	return out
}

// Keys returns the normalized column keys in column order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Key
	}
	return out
}

// Sheet is the indexed view of one spreadsheet sheet.
type Sheet struct {
	Name   string  `json:"name"`
	Tables []Table `json:"tables"`
}

// Index is the structural index of one spreadsheet document version.
type Index struct {
	FileID    string    `json:"fileId"`
	CreatedAt time.Time `json:"createdAt"`
	Sheets    []Sheet   `json:"sheets"`
}

// TableCount returns the number of tables across all sheets.
func (x *Index) TableCount() int {
	count := 0
	for _, s := range x.Sheets {
		count += len(s.Tables)
	}
	return count
}

// Table looks a table up by id.
func (x *Index) Table(id string) (*Table, bool) {
	for i := range x.Sheets {
		for j := range x.Sheets[i].Tables {
			if x.Sheets[i].Tables[j].ID == id {
				return &x.Sheets[i].Tables[j], true
			}
		}
	}
	return nil, false
}

func columnLetter(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return ""
	}
	return name
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	return name
}

func cellRange(startCol, startRow, endCol, endRow int) string {
	return cellName(startCol, startRow) + ":" + cellName(endCol, endRow)
}
