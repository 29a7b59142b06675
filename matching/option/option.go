package option

import (
	"bufio"
	"io"
	"strings"
)

// Options controls which documents an ingest run picks up.
type Options struct {
	// Exclusions contains patterns of files/directories to skip
	Exclusions []string

	// Inclusions contains patterns of files to accept; empty accepts all
	Inclusions []string

	// MaxFileSize is the maximum document size in bytes; zero disables the check
	MaxFileSize int
}

// NewOptions creates options; without explicit exclusions the defaults apply.
func NewOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	if options.Exclusions == nil {
		options.Exclusions = DefaultExclusions()
	}
	return options
}

// Option is a function that modifies Options
type Option func(*Options)

// WithExclusionPatterns adds exclusion patterns
func WithExclusionPatterns(patterns ...string) Option {
	return func(o *Options) {
		o.Exclusions = append(o.Exclusions, patterns...)
	}
}

// WithInclusionPatterns adds inclusion patterns
func WithInclusionPatterns(patterns ...string) Option {
	return func(o *Options) {
		o.Inclusions = append(o.Inclusions, patterns...)
	}
}

// WithMaxFileSize sets the maximum document size
func WithMaxFileSize(size int) Option {
	return func(o *Options) {
		o.MaxFileSize = size
	}
}

// WithIgnoreFile adds exclusion patterns read from an ignore file, one per line
func WithIgnoreFile(reader io.Reader) Option {
	return func(o *Options) {
		if patterns := parseIgnoreFile(reader); len(patterns) > 0 {
			o.Exclusions = append(o.Exclusions, patterns...)
		}
	}
}

// DefaultExclusions returns files that never hold project documents.
func DefaultExclusions() []string {
	return []string{
		".git/",
		"__MACOSX/",
		".DS_Store",
		"Thumbs.db",
		"desktop.ini",
		"~$*",
		"*.tmp",
		"*.bak",
		"*.lock",
	}
}

func parseIgnoreFile(reader io.Reader) []string {
	var patterns []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}
