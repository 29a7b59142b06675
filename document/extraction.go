package document

import "sort"

// Discipline is an engineering category inferred from plan sheet text.
type Discipline string

const (
	DisciplineMechanical Discipline = "M"
	DisciplineElectrical Discipline = "E"
	DisciplineRCP        Discipline = "RCP"
	DisciplineUnknown    Discipline = "unknown"
)

// Label returns the human-facing tag for the discipline.
func (d Discipline) Label() string {
	switch d {
	case DisciplineMechanical:
		return "Mechanical"
	case DisciplineElectrical:
		return "Electrical"
	case DisciplineRCP:
		return "Reflected Ceiling Plan"
	}
	return ""
}

// SheetIndexEntry is one inferred drawing sheet of a PDF plan set.
type SheetIndexEntry struct {
	SheetID    string     `json:"sheetId,omitempty"`
	Title      string     `json:"title,omitempty"`
	Discipline Discipline `json:"discipline"`
	Confidence float64    `json:"confidence"`
}

// PDFMeta is the structural metadata of a PDF document.
type PDFMeta struct {
	PageCount  int               `json:"pageCount"`
	SheetIndex []SheetIndexEntry `json:"sheetIndex"`
}

// SheetSummary describes one scanned spreadsheet sheet.
type SheetSummary struct {
	Name       string `json:"name"`
	TableCount int    `json:"tableCount"`
	CalcTables int    `json:"calcTables,omitempty"`
}

// SpreadsheetMeta is the structural metadata of a spreadsheet document.
type SpreadsheetMeta struct {
	Format     string         `json:"format"`
	Sheets     []SheetSummary `json:"sheets"`
	TableCount int            `json:"tableCount"`
	// Columns lists CSV header keys; empty for workbooks.
	Columns []string `json:"columns,omitempty"`
}

// Extracted holds kind-specific structural metadata.
type Extracted struct {
	Note        string           `json:"note,omitempty"`
	PDF         *PDFMeta         `json:"pdf,omitempty"`
	Spreadsheet *SpreadsheetMeta `json:"spreadsheet,omitempty"`
}

// Extraction is the immutable result of extracting one document version.
type Extraction struct {
	Kind      Kind      `json:"kind"`
	Tags      []string  `json:"tags"`
	Extracted Extracted `json:"extracted"`
	Chunks    Chunks    `json:"chunks"`
}

// Tags is a set of short human-facing labels.
type Tags map[string]bool

// Add adds non-empty labels.
func (t Tags) Add(labels ...string) {
	for _, label := range labels {
		if label != "" {
			t[label] = true
		}
	}
}

// Sorted returns the labels in lexical order.
func (t Tags) Sorted() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
