package extractor

import (
	"context"

	"github.com/viant/docvault/document"
)

const (
	NotePhoto   = "photo stored without text extraction"
	NoteUnknown = "unsupported file type; no structured data extracted"
)

// Unsupported produces an empty extraction carrying an explanatory note.
type Unsupported struct {
	note string
}

// NewUnsupported creates a note-only extractor.
func NewUnsupported(note string) *Unsupported {
	return &Unsupported{note: note}
}

func (u *Unsupported) Extract(ctx context.Context, input *Input) (*Result, error) {
	return &Result{Extracted: document.Extracted{Note: u.note}, Chunks: document.Chunks{}}, nil
}
