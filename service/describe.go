package service

import (
	"context"
	"errors"

	"github.com/viant/docvault/document"
	"github.com/viant/docvault/extractor"
)

// Severity grades a user-facing outcome.
type Severity string

const (
	SeverityOK   Severity = "ok"
	SeveritySoft Severity = "soft"
	SeverityHard Severity = "hard"
)

// Message is a user-facing outcome of an extraction.
type Message struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// Describe maps an extraction outcome to a message suitable for end users.
// Unreadable files are hard failures; supported files that yielded nothing
// structured are soft.
func Describe(extraction *document.Extraction, err error) Message {
	switch {
	case err == nil:
	case errors.Is(err, extractor.ErrCodecFailure):
		return Message{Severity: SeverityHard, Text: "could not read this file; it may be corrupt or password protected"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Message{Severity: SeverityHard, Text: "processing was interrupted; try again"}
	default:
		return Message{Severity: SeverityHard, Text: "processing failed"}
	}
	if extraction == nil {
		return Message{Severity: SeverityHard, Text: "processing failed"}
	}
	if extraction.Extracted.Note != "" {
		return Message{Severity: SeveritySoft, Text: "no structured data extracted: " + extraction.Extracted.Note}
	}
	if meta := extraction.Extracted.Spreadsheet; meta != nil && meta.TableCount == 0 {
		return Message{Severity: SeveritySoft, Text: "no structured data extracted: no tables detected"}
	}
	if len(extraction.Chunks) == 0 {
		if !extraction.Kind.HasText() {
			return Message{Severity: SeveritySoft, Text: "no structured data extracted: file type carries no text"}
		}
		return Message{Severity: SeveritySoft, Text: "no structured data extracted: no text found"}
	}
	return Message{Severity: SeverityOK, Text: "processed"}
}
