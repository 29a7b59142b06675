package workbook

import "time"

// NewIndex detects tables on every sheet of book, up to the sheet cap.
func NewIndex(fileID string, createdAt time.Time, book *Book, opts Options) *Index {
	opts.Init()
	index := &Index{FileID: fileID, CreatedAt: createdAt, Sheets: []Sheet{}}
	for i := range book.Sheets {
		if i == opts.MaxSheets {
			break
		}
		sheet := &book.Sheets[i]
		var tables []Table
		if book.Format == FormatCSV {
			tables = DetectCSV(sheet, opts)
		} else {
			tables = Detect(sheet, opts)
		}
		if tables == nil {
			tables = []Table{}
		}
		index.Sheets = append(index.Sheets, Sheet{Name: sheet.Name, Tables: tables})
	}
	return index
}
