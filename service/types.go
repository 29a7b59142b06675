package service

import (
	"github.com/viant/docvault/document"
	"github.com/viant/docvault/retrieval"
	"github.com/viant/docvault/workbook"
)

// ExtractRequest defines one document version to extract.
type ExtractRequest struct {
	// FileID identifies the document; defaults to the content digest.
	FileID      string
	Filename    string
	ContentType string
	// Kind overrides classification when set.
	Kind document.Kind
	Data []byte
}

// ExtractResult is the extraction of one document version.
type ExtractResult struct {
	FileID     string
	Filename   string
	Digest     string
	Extraction *document.Extraction
	Workbook   *workbook.Index
}

// BatchItem is the outcome of one request of a batch extraction.
type BatchItem struct {
	Result *ExtractResult
	Err    error
}

// SearchRequest defines a keyword search over stored or supplied chunks.
type SearchRequest struct {
	Query string
	// FileIDs scopes a store search; empty searches every stored document.
	FileIDs []string
	// Candidates, when set, are searched instead of the store.
	Candidates []retrieval.Candidate
	TopK       int
}

// IngestRequest defines a directory or bucket to ingest.
type IngestRequest struct {
	Location     string
	Include      []string
	Exclude      []string
	MaxSizeBytes int64
	// Force re-extracts documents whose digest is unchanged.
	Force    bool
	Logf     func(format string, args ...any)
	Progress func(current int, location string)
}

// IngestItem is the outcome for one ingested document.
type IngestItem struct {
	FileID  string
	Kind    document.Kind
	Chunks  int
	Skipped bool
	Err     error
}

// IngestResult summarizes an ingest run.
type IngestResult struct {
	Items   []IngestItem
	Stored  int
	Skipped int
	Failed  int
}
