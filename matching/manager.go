// Package matching decides which documents an ingest run picks up.
package matching

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/viant/afs/url"
	"github.com/viant/docvault/matching/option"
)

// Manager applies inclusion, exclusion and size rules to document locations.
type Manager struct {
	options *option.Options
}

// New creates a manager with the given options
func New(opts ...option.Option) *Manager {
	return &Manager{options: option.NewOptions(opts...)}
}

// IsExcluded reports whether the document at location should be skipped.
func (m *Manager) IsExcluded(location string, size int) bool {
	if m.options.MaxFileSize > 0 && size > m.options.MaxFileSize {
		return true
	}
	segments := splitPath(url.Path(location))
	if len(segments) == 0 {
		return true
	}
	if len(m.options.Inclusions) > 0 && !matchesAny(m.options.Inclusions, segments) {
		return true
	}
	return matchesAny(m.options.Exclusions, segments)
}

// IsExcludedDir reports whether a directory and everything under it should be
// skipped. Inclusion and size rules only apply to files.
func (m *Manager) IsExcludedDir(location string) bool {
	segments := splitPath(url.Path(location))
	if len(segments) == 0 {
		return false
	}
	return matchesAny(m.options.Exclusions, append(segments, ""))
}

func matchesAny(patterns []string, segments []string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		if matches(pattern, segments) {
			return true
		}
	}
	return false
}

// matches supports three pattern shapes: "dir/" matches any directory segment,
// a pattern with a slash matches a run of trailing segments (anchored at the
// root when it starts with "/"), and anything else matches the base name.
func matches(pattern string, segments []string) bool {
	base := segments[len(segments)-1]
	switch {
	case strings.HasSuffix(pattern, "/") && !strings.HasSuffix(pattern, "**/"):
		name := strings.TrimSuffix(pattern, "/")
		for _, dir := range segments[:len(segments)-1] {
			if globMatch(name, dir) {
				return true
			}
		}
		return false
	case strings.Contains(pattern, "/"):
		anchored := strings.HasPrefix(pattern, "/")
		parts := splitPath(pattern)
		if anchored {
			return matchSegments(parts, segments)
		}
		for i := range segments {
			if matchSegments(parts, segments[i:]) {
				return true
			}
		}
		return false
	}
	return globMatch(pattern, base)
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) == 0 {
		return len(segments) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(segments); i++ {
			if matchSegments(pattern[1:], segments[i:]) {
				return true
			}
		}
		return false
	}
	if len(segments) == 0 || !globMatch(pattern[0], segments[0]) {
		return false
	}
	return matchSegments(pattern[1:], segments[1:])
}

func globMatch(pattern, name string) bool {
	matched, err := path.Match(pattern, name)
	return err == nil && matched
}

func splitPath(location string) []string {
	location = filepath.ToSlash(location)
	var out []string
	for _, s := range strings.Split(location, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
