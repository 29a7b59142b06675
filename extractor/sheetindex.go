package extractor

import (
	"math"
	"regexp"
	"strings"

	"github.com/viant/docvault/document"
)

var (
	sheetIDPattern = regexp.MustCompile(`\b[A-Z]{1,3}[- ]?\d{1,3}(?:\.\d{1,2})?\b`)
	titlePattern   = regexp.MustCompile(`(?i)\b(?:REFLECTED CEILING PLAN|ELECTRICAL PLAN|MECHANICAL PLAN|LIGHTING PLAN|POWER PLAN|PANEL SCHEDULE)\b`)
)

const (
	confidenceRCP        = 0.75
	confidenceDiscipline = 0.6
	confidenceUnknown    = 0.3
	confidenceIDBonus    = 0.2
	confidenceCap        = 0.9
)

// InferSheetIndex scans the leading pages for drawing sheet identifiers and
// title phrases and returns deduplicated entries in page order.
func InferSheetIndex(pages []string, opts PDFOptions) []document.SheetIndexEntry {
	opts.Init()
	entries := []document.SheetIndexEntry{}
	seen := map[string]bool{}
	add := func(entry document.SheetIndexEntry) {
		key := strings.ToLower(entry.SheetID) + "|" + strings.ToLower(entry.Title)
		if seen[key] || len(entries) >= opts.MaxEntries {
			return
		}
		seen[key] = true
		entries = append(entries, entry)
	}
	for i, text := range pages {
		if i == opts.IndexPages {
			break
		}
		ids := sheetIDPattern.FindAllString(text, opts.MaxIDsPerPage)
		title := titlePattern.FindString(text)
		if len(ids) == 0 {
			if title != "" {
				discipline, base := disciplineOf(title, text)
				add(document.SheetIndexEntry{Title: title, Discipline: discipline, Confidence: base})
			}
			continue
		}
		for _, id := range ids {
			discipline, base := disciplineOf(id+" "+title, text)
			add(document.SheetIndexEntry{
				SheetID:    id,
				Title:      title,
				Discipline: discipline,
				Confidence: round2(math.Min(base+confidenceIDBonus, confidenceCap)),
			})
		}
	}
	return entries
}

// disciplineOf classifies the identifier and title, falling back to the whole
// page text when they carry no discipline keyword.
func disciplineOf(label, page string) (document.Discipline, float64) {
	if d, c := detectDiscipline(label); d != document.DisciplineUnknown {
		return d, c
	}
	return detectDiscipline(page)
}

func detectDiscipline(text string) (document.Discipline, float64) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "rcp") || strings.Contains(lower, "reflected ceiling"):
		return document.DisciplineRCP, confidenceRCP
	case strings.Contains(lower, "electrical") || hasPrefixedID(text, 'E'):
		return document.DisciplineElectrical, confidenceDiscipline
	case strings.Contains(lower, "mechanical") || hasPrefixedID(text, 'M'):
		return document.DisciplineMechanical, confidenceDiscipline
	}
	return document.DisciplineUnknown, confidenceUnknown
}

func hasPrefixedID(text string, prefix byte) bool {
	for _, id := range sheetIDPattern.FindAllString(text, -1) {
		if id[0] == prefix {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
