package matching

import (
	"strings"
	"testing"

	"github.com/viant/docvault/matching/option"
)

func TestManager_IsExcluded(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		size     int
		options  []option.Option
		excluded bool
	}{
		{name: "default accepts pdf", path: "s3://bucket/project/plans.pdf", size: 1, excluded: false},
		{name: "default skips office lock file", path: "/tmp/project/~$budget.xlsx", size: 1, excluded: true},
		{name: "default skips git dir", path: "/tmp/project/.git/config", size: 1, excluded: true},
		{name: "default skips mac metadata", path: "gs://bkt/upload/__MACOSX/plans.pdf", size: 1, excluded: true},
		{
			name:     "inclusion by extension",
			path:     "s3://bucket/project/photo.heic",
			size:     1,
			options:  []option.Option{option.WithInclusionPatterns("*.pdf", "*.xlsx", "*.csv")},
			excluded: true,
		},
		{
			name:     "inclusion accepts csv",
			path:     "s3://bucket/project/meters.csv",
			size:     1,
			options:  []option.Option{option.WithInclusionPatterns("*.pdf", "*.xlsx", "*.csv")},
			excluded: false,
		},
		{
			name:     "double star directory",
			path:     "s3://bucket/app/archive/2019/old.pdf",
			size:     1,
			options:  []option.Option{option.WithExclusionPatterns("**/archive/**")},
			excluded: true,
		},
		{
			name:     "relative pattern matches nested",
			path:     "/data/site/drafts/a.pdf",
			size:     1,
			options:  []option.Option{option.WithExclusionPatterns("drafts/*.pdf")},
			excluded: true,
		},
		{
			name:     "anchored pattern does not match nested",
			path:     "/data/site/drafts/a.pdf",
			size:     1,
			options:  []option.Option{option.WithExclusionPatterns("/drafts/*.pdf")},
			excluded: false,
		},
		{
			name:     "directory pattern does not match file",
			path:     "/data/site/drafts.pdf",
			size:     1,
			options:  []option.Option{option.WithExclusionPatterns("drafts/")},
			excluded: false,
		},
		{
			name:     "max size excludes",
			path:     "/data/big.pdf",
			size:     101,
			options:  []option.Option{option.WithMaxFileSize(100)},
			excluded: true,
		},
		{
			name:     "max size allows smaller",
			path:     "/data/small.pdf",
			size:     100,
			options:  []option.Option{option.WithMaxFileSize(100)},
			excluded: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.options...)
			if got := m.IsExcluded(tt.path, tt.size); got != tt.excluded {
				t.Fatalf("IsExcluded(%q)=%v want %v", tt.path, got, tt.excluded)
			}
		})
	}
}

func TestManager_IgnoreFile(t *testing.T) {
	ignore := strings.NewReader(`
# scratch files
*.dwg
superseded/
`)
	m := New(option.WithIgnoreFile(ignore))
	cases := []struct {
		path     string
		excluded bool
	}{
		{path: "/p/a.dwg", excluded: true},
		{path: "/p/superseded/E1.1.pdf", excluded: true},
		{path: "/p/current/E1.1.pdf", excluded: false},
	}
	for _, tc := range cases {
		if got := m.IsExcluded(tc.path, 1); got != tc.excluded {
			t.Fatalf("IsExcluded(%q)=%v want %v", tc.path, got, tc.excluded)
		}
	}
}

func TestManager_IsExcludedDir(t *testing.T) {
	m := New(option.WithInclusionPatterns("*.pdf"))
	cases := []struct {
		path     string
		excluded bool
	}{
		{path: "/project/plans", excluded: false},
		{path: "/project/.git", excluded: true},
		{path: "/project/__MACOSX", excluded: true},
	}
	for _, tc := range cases {
		if got := m.IsExcludedDir(tc.path); got != tc.excluded {
			t.Fatalf("IsExcludedDir(%q)=%v want %v", tc.path, got, tc.excluded)
		}
	}
}
