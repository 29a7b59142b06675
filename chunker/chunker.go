// Package chunker splits extracted text into fixed-size, provenance-tagged chunks.
package chunker

import (
	"strings"
	"unicode"

	"github.com/viant/docvault/document"
)

// DefaultSize is the default maximum number of characters per chunk.
const DefaultSize = 1200

// Normalize collapses whitespace runs into single spaces and trims the result.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Split normalizes text and returns consecutive segments of at most size
// characters. Blank text yields no segments.
func Split(text string, size int) []string {
	if size <= 0 {
		size = DefaultSize
	}
	text = Normalize(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	out := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		start = end
	}
	return out
}

// Sequence assigns chunk indexes across all source units of one extraction.
// A Sequence is not safe for concurrent use; each extraction owns its own.
type Sequence struct {
	size   int
	chunks document.Chunks
}

// NewSequence creates a sequence producing chunks of at most size characters.
func NewSequence(size int) *Sequence {
	if size <= 0 {
		size = DefaultSize
	}
	return &Sequence{size: size}
}

// Add splits text of one source unit and appends the resulting chunks tagged
// with provenance. It returns the number of chunks added.
func (s *Sequence) Add(text string, provenance document.Provenance) int {
	segments := Split(text, s.size)
	for _, segment := range segments {
		s.chunks = append(s.chunks, document.Chunk{
			ChunkIndex: len(s.chunks),
			Text:       segment,
			Provenance: provenance,
		})
	}
	return len(segments)
}

// Len returns the number of chunks produced so far.
func (s *Sequence) Len() int {
	return len(s.chunks)
}

// Chunks returns the accumulated chunks in reading order.
func (s *Sequence) Chunks() document.Chunks {
	if len(s.chunks) == 0 {
		return document.Chunks{}
	}
	out := make(document.Chunks, len(s.chunks))
	copy(out, s.chunks)
	return out
}
