// Package extractor turns raw document bytes into chunks and kind-specific
// structural metadata.
package extractor

import (
	"context"
	"time"

	"github.com/viant/docvault/document"
	"github.com/viant/docvault/workbook"
)

// Input is one document version to extract.
type Input struct {
	FileID      string
	Filename    string
	ContentType string
	Kind        document.Kind
	Data        []byte
	CreatedAt   time.Time
}

// Result is the output of a single extractor.
type Result struct {
	Extracted document.Extracted
	Chunks    document.Chunks
	Tags      []string
	Workbook  *workbook.Index
}

// Extractor extracts one document kind.
type Extractor interface {
	Extract(ctx context.Context, input *Input) (*Result, error)
}

// Factory selects an extractor for a document kind.
type Factory struct {
	fallback Extractor
	byKind   map[document.Kind]Extractor
}

// NewFactory creates a factory with the PDF and spreadsheet extractors
// registered; every other kind resolves to a note-only extraction.
func NewFactory(chunkSize int, pdfOptions PDFOptions, workbookOptions workbook.Options) *Factory {
	f := &Factory{
		fallback: NewUnsupported(NoteUnknown),
		byKind:   make(map[document.Kind]Extractor),
	}
	pdfExtractor := NewPDFExtractor(chunkSize, pdfOptions)
	for _, kind := range document.Kinds() {
		if kind.IsPDF() {
			f.Register(kind, pdfExtractor)
		}
	}
	f.Register(document.KindSpreadsheet, NewSpreadsheetExtractor(chunkSize, workbookOptions))
	f.Register(document.KindPhoto, NewUnsupported(NotePhoto))
	return f
}

// Register sets the extractor for a kind.
func (f *Factory) Register(kind document.Kind, extractor Extractor) {
	f.byKind[kind] = extractor
}

// Get returns the extractor for kind.
func (f *Factory) Get(kind document.Kind) Extractor {
	if extractor, ok := f.byKind[kind]; ok {
		return extractor
	}
	return f.fallback
}
