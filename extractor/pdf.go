package extractor

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/viant/docvault/chunker"
	"github.com/viant/docvault/document"
)

// PDFOptions bounds sheet index inference.
type PDFOptions struct {
	IndexPages    int `yaml:"indexPages,omitempty"`
	MaxIDsPerPage int `yaml:"maxIDsPerPage,omitempty"`
	MaxEntries    int `yaml:"maxEntries,omitempty"`
}

// Init fills unset fields with defaults.
func (o *PDFOptions) Init() {
	if o.IndexPages <= 0 {
		o.IndexPages = 10
	}
	if o.MaxIDsPerPage <= 0 {
		o.MaxIDsPerPage = 6
	}
	if o.MaxEntries <= 0 {
		o.MaxEntries = 200
	}
}

// PDFExtractor extracts page text and a sheet index from PDF documents.
type PDFExtractor struct {
	chunkSize int
	options   PDFOptions
}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor(chunkSize int, options PDFOptions) *PDFExtractor {
	options.Init()
	return &PDFExtractor{chunkSize: chunkSize, options: options}
}

// Extract reads every page; any codec failure fails the whole document.
func (e *PDFExtractor) Extract(ctx context.Context, input *Input) (*Result, error) {
	pages, err := ReadPages(ctx, input.Data)
	if err != nil {
		return nil, err
	}
	seq := chunker.NewSequence(e.chunkSize)
	for i, text := range pages {
		seq.Add(text, document.Provenance{Page: i + 1})
	}
	index := InferSheetIndex(pages, e.options)
	tags := document.Tags{}
	for _, entry := range index {
		tags.Add(entry.Discipline.Label())
	}
	return &Result{
		Extracted: document.Extracted{PDF: &document.PDFMeta{PageCount: len(pages), SheetIndex: index}},
		Chunks:    seq.Chunks(),
		Tags:      tags.Sorted(),
	}, nil
}

// ReadPages returns the text of every page in order. Text items on a page are
// joined with single spaces and whitespace is collapsed.
func ReadPages(ctx context.Context, data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, codecError(CodecPDF, fmt.Errorf("panic: %v", r))
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, codecError(CodecPDF, err)
	}
	count := reader.NumPage()
	pages = make([]string, 0, count)
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pdf extraction interrupted at page %d: %w", i, err)
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, chunker.Normalize(pageText(page.Content().Text)))
	}
	return pages, nil
}

// pageText joins the glyphs of a page into text. Glyphs that continue the
// previous one on the same baseline belong to one item; any jump in position
// starts a new item, separated by a space.
func pageText(glyphs []pdf.Text) string {
	var b strings.Builder
	for i, glyph := range glyphs {
		if i > 0 && !continues(glyphs[i-1], glyph) {
			b.WriteByte(' ')
		}
		b.WriteString(glyph.S)
	}
	return b.String()
}

func continues(prev, next pdf.Text) bool {
	size := math.Max(math.Abs(prev.FontSize), 1)
	if math.Abs(next.Y-prev.Y) > size/2 {
		return false
	}
	gap := next.X - (prev.X + prev.W)
	return math.Abs(gap) <= size/5
}
