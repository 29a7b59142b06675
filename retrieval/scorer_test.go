package retrieval

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/viant/docvault/document"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "basic", query: "Battery Economics", expected: []string{"battery", "economics"}},
		{name: "short tokens dropped", query: "a kw of LED lighting", expected: []string{"led", "lighting"}},
		{name: "punctuation", query: "panel-schedule/E1.1", expected: []string{"panel", "schedule"}},
		{name: "dedupe", query: "cost COST cost savings", expected: []string{"cost", "savings"}},
		{name: "empty", query: " ?! ", expected: []string{}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.query)
		if len(got) == 0 && len(tt.expected) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.expected) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}

func TestTokenizeCap(t *testing.T) {
	var words []string
	for i := 0; i < 100; i++ {
		words = append(words, fmt.Sprintf("word%03d", i))
	}
	if got := len(Tokenize(strings.Join(words, " "))); got != 64 {
		t.Fatalf("expected 64 tokens, got %d", got)
	}
}

func TestRankBatteryEconomics(t *testing.T) {
	chunks := document.Chunks{
		{ChunkIndex: 0, Text: "Lighting retrofit schedule"},
		{ChunkIndex: 1, Text: "Battery storage sizing"},
		{ChunkIndex: 2, Text: "Tariff overview"},
	}
	scorer := NewScorer(Options{})
	matches := scorer.Rank("battery economics", Candidates("f1", chunks), 0)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.Chunk.ChunkIndex != 1 || m.FileID != "f1" {
		t.Fatalf("unexpected match %+v", m)
	}
	if m.Score < 1 || m.Score >= 2 {
		t.Fatalf("expected one token contribution, got score %v", m.Score)
	}
	expected := 1 + 0.5 - float64(len("Battery storage sizing"))/6000
	if math.Abs(m.Score-expected) > 1e-9 {
		t.Fatalf("expected score %v, got %v", expected, m.Score)
	}
}

func TestRankDegenerateQuery(t *testing.T) {
	chunks := document.Chunks{{ChunkIndex: 0, Text: "anything"}}
	matches := NewScorer(Options{}).Rank("a b", Candidates("f", chunks), 5)
	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty result, got %#v", matches)
	}
}

func TestRankOrderAndTopK(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 50; i++ {
		text := "cost"
		if i%3 == 0 {
			text = "cost savings"
		}
		candidates = append(candidates, Candidate{FileID: "f", Chunk: document.Chunk{ChunkIndex: i, Text: text}})
	}
	scorer := NewScorer(Options{})
	for _, topK := range []int{-1, 0, 1, 5, 30, 100} {
		matches := scorer.Rank("cost savings", candidates, topK)
		limit := scorer.TopK(topK)
		if len(matches) > limit || limit > 30 {
			t.Fatalf("topK %d: got %d matches, limit %d", topK, len(matches), limit)
		}
		for i := 1; i < len(matches); i++ {
			if matches[i].Score > matches[i-1].Score {
				t.Fatalf("topK %d: results not sorted at %d", topK, i)
			}
			if matches[i].Score == matches[i-1].Score && matches[i].Chunk.ChunkIndex < matches[i-1].Chunk.ChunkIndex {
				t.Fatalf("topK %d: tie order not stable at %d", topK, i)
			}
		}
	}
	clamps := []struct {
		requested int
		expected  int
	}{
		{requested: 0, expected: 10},
		{requested: -1, expected: 1},
		{requested: -50, expected: 1},
		{requested: 1, expected: 1},
		{requested: 30, expected: 30},
		{requested: 31, expected: 30},
	}
	for _, tc := range clamps {
		if got := scorer.TopK(tc.requested); got != tc.expected {
			t.Fatalf("TopK(%d) = %d, expected %d", tc.requested, got, tc.expected)
		}
	}
	if got := scorer.Rank("cost", candidates, -1); len(got) != 1 {
		t.Fatalf("expected negative topK to return one match, got %d", len(got))
	}
}

func TestLengthBonusFloorsAtZero(t *testing.T) {
	scorer := NewScorer(Options{})
	long := "battery " + strings.Repeat("x", 7000)
	if got := scorer.Score([]string{"battery"}, long); got != 1 {
		t.Fatalf("expected score 1 for long text, got %v", got)
	}
}
