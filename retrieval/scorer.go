// Package retrieval ranks extracted chunks against a free-text query by
// keyword overlap.
package retrieval

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/viant/docvault/document"
)

const (
	minTokenLength = 3
	maxTokens      = 64
)

// Options controls ranking.
type Options struct {
	DefaultTopK            int     `yaml:"defaultTopK,omitempty"`
	MaxTopK                int     `yaml:"maxTopK,omitempty"`
	LengthBonusMax         float64 `yaml:"lengthBonusMax,omitempty"`
	LengthBonusDenominator float64 `yaml:"lengthBonusDenominator,omitempty"`
}

// DefaultOptions returns the standard ranking parameters.
func DefaultOptions() Options {
	return Options{
		DefaultTopK:            10,
		MaxTopK:                30,
		LengthBonusMax:         0.5,
		LengthBonusDenominator: 6000,
	}
}

// Init fills unset fields with defaults.
func (o *Options) Init() {
	def := DefaultOptions()
	if o.DefaultTopK <= 0 {
		o.DefaultTopK = def.DefaultTopK
	}
	if o.MaxTopK <= 0 {
		o.MaxTopK = def.MaxTopK
	}
	if o.LengthBonusMax <= 0 {
		o.LengthBonusMax = def.LengthBonusMax
	}
	if o.LengthBonusDenominator <= 0 {
		o.LengthBonusDenominator = def.LengthBonusDenominator
	}
}

// Candidate is a chunk owned by a document.
type Candidate struct {
	FileID string
	Chunk  document.Chunk
}

// Match is a ranked candidate.
type Match struct {
	FileID string         `json:"fileId"`
	Chunk  document.Chunk `json:"chunk"`
	Score  float64        `json:"score"`
}

// Tokenize lowercases query, splits it on non-alphanumeric runs and returns
// the distinct tokens of at least three characters in first-seen order.
func Tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var tokens []string
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenLength {
			continue
		}
		tokens = append(tokens, f)
		if len(tokens) == maxTokens {
			break
		}
	}
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Scorer ranks candidates by query token overlap.
type Scorer struct {
	options Options
}

// NewScorer creates a scorer; zero option fields take defaults.
func NewScorer(options Options) *Scorer {
	options.Init()
	return &Scorer{options: options}
}

// TopK clamps a requested result count to [1, MaxTopK]; zero means the default.
func (s *Scorer) TopK(requested int) int {
	if requested == 0 {
		requested = s.options.DefaultTopK
	}
	if requested > s.options.MaxTopK {
		requested = s.options.MaxTopK
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}

// Score returns the overlap score of text for tokens, or 0 when nothing matches.
func (s *Scorer) Score(tokens []string, text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			score++
		}
	}
	if score > 0 {
		score += s.lengthBonus(utf8.RuneCountInString(text))
	}
	return score
}

func (s *Scorer) lengthBonus(length int) float64 {
	ratio := float64(length) / s.options.LengthBonusDenominator
	if ratio > s.options.LengthBonusMax {
		ratio = s.options.LengthBonusMax
	}
	bonus := s.options.LengthBonusMax - ratio
	if bonus < 0 {
		return 0
	}
	return bonus
}

// Rank scores candidates against query and returns at most topK matches by
// descending score; equal scores keep their input order.
func (s *Scorer) Rank(query string, candidates []Candidate, topK int) []Match {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return []Match{}
	}
	matches := make([]Match, 0)
	for _, c := range candidates {
		score := s.Score(tokens, c.Chunk.Text)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{FileID: c.FileID, Chunk: c.Chunk, Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k := s.TopK(topK); len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// Candidates tags every chunk with its owning file id.
func Candidates(fileID string, chunks document.Chunks) []Candidate {
	out := make([]Candidate, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, Candidate{FileID: fileID, Chunk: c})
	}
	return out
}
