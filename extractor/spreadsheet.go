package extractor

import (
	"context"
	"fmt"

	"github.com/viant/docvault/chunker"
	"github.com/viant/docvault/classifier"
	"github.com/viant/docvault/document"
	"github.com/viant/docvault/workbook"
)

const (
	TagCSV      = "CSV"
	TagWorkbook = "Workbook"
	TagCalc     = "Calc"
)

// SpreadsheetExtractor indexes workbook tables and renders compact previews
// for retrieval.
type SpreadsheetExtractor struct {
	chunkSize int
	options   workbook.Options
}

// NewSpreadsheetExtractor creates a spreadsheet extractor.
func NewSpreadsheetExtractor(chunkSize int, options workbook.Options) *SpreadsheetExtractor {
	options.Init()
	return &SpreadsheetExtractor{chunkSize: chunkSize, options: options}
}

// FormatOf resolves the container format from the file name and content type.
func FormatOf(filename, contentType string) workbook.Format {
	switch {
	case classifier.IsCSV(filename, contentType):
		return workbook.FormatCSV
	case classifier.IsLegacyExcel(filename, contentType):
		return workbook.FormatXLS
	}
	return workbook.FormatXLSX
}

// Open decodes data with the codec for format.
func (e *SpreadsheetExtractor) Open(format workbook.Format, data []byte) (*workbook.Book, error) {
	var (
		book *workbook.Book
		err  error
	)
	switch format {
	case workbook.FormatCSV:
		book, err = workbook.ReadCSV(data)
	case workbook.FormatXLS:
		book, err = workbook.OpenXLS(data, e.options)
	default:
		book, err = workbook.OpenXLSX(data, e.options)
	}
	if err != nil {
		return nil, codecError(string(format), err)
	}
	return book, nil
}

func (e *SpreadsheetExtractor) Extract(ctx context.Context, input *Input) (*Result, error) {
	format := FormatOf(input.Filename, input.ContentType)
	book, err := e.Open(format, input.Data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("spreadsheet extraction interrupted: %w", err)
	}
	index := workbook.NewIndex(input.FileID, input.CreatedAt, book, e.options)
	meta := &document.SpreadsheetMeta{Format: string(format), Sheets: []document.SheetSummary{}}
	tags := document.Tags{}
	seq := chunker.NewSequence(e.chunkSize)

	if format == workbook.FormatCSV {
		tags.Add(TagCSV)
		sheet := &book.Sheets[0]
		seq.Add(workbook.CSVPreview(sheet, e.options), document.Provenance{
			Sheet:     workbook.CSVSheet,
			CellRange: workbook.CSVRange(sheet, e.options),
		})
		if tables := index.Sheets[0].Tables; len(tables) > 0 {
			meta.Columns = tables[0].Keys()
		}
	} else {
		tags.Add(TagWorkbook)
		for i := range index.Sheets {
			e.addSheetChunks(seq, &book.Sheets[i], &index.Sheets[i])
		}
	}

	for _, sheet := range index.Sheets {
		summary := document.SheetSummary{Name: sheet.Name, TableCount: len(sheet.Tables)}
		for _, table := range sheet.Tables {
			if table.Role == workbook.RoleCalc {
				summary.CalcTables++
				tags.Add(TagCalc)
			}
		}
		meta.Sheets = append(meta.Sheets, summary)
	}
	meta.TableCount = index.TableCount()
	return &Result{
		Extracted: document.Extracted{Spreadsheet: meta},
		Chunks:    seq.Chunks(),
		Tags:      tags.Sorted(),
		Workbook:  index,
	}, nil
}

func (e *SpreadsheetExtractor) addSheetChunks(seq *chunker.Sequence, data *workbook.SheetData, sheet *workbook.Sheet) {
	if len(sheet.Tables) == 0 {
		seq.Add(workbook.SheetPreview(data, e.options), document.Provenance{Sheet: sheet.Name})
		return
	}
	for i := range sheet.Tables {
		table := &sheet.Tables[i]
		seq.Add(workbook.TablePreview(data, table, e.options), document.Provenance{
			Sheet:     sheet.Name,
			CellRange: workbook.PreviewRange(table, e.options),
		})
	}
}
