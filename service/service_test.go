package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/viant/docvault/document"
	"github.com/viant/docvault/extractor"
	"github.com/viant/docvault/retrieval"
	"github.com/viant/docvault/store"
)

const metersCSV = "name,kw,kwh\nChiller,120,5400\nAHU-1,15,900\n"

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Store.DSN = filepath.Join(t.TempDir(), "vault.db")
	svc, err := NewService(WithConfig(cfg), WithClock(func() time.Time { return fixedTime }))
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestService_ExtractIdempotent(t *testing.T) {
	ctx := context.Background()
	req := &ExtractRequest{Filename: "meters.csv", Data: []byte(metersCSV)}
	first, err := newTestService(t).Extract(ctx, req)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	second, err := newTestService(t).Extract(ctx, req)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results:\n%+v\n%+v", first, second)
	}
	if first.FileID != first.Digest || len(first.Digest) != 16 {
		t.Fatalf("expected digest file id, got %q digest %q", first.FileID, first.Digest)
	}
}

func TestService_ExtractCSV(t *testing.T) {
	svc := newTestService(t)
	result, err := svc.Extract(context.Background(), &ExtractRequest{FileID: "meters", Filename: "meters.csv", Data: []byte(metersCSV)})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	extraction := result.Extraction
	if extraction.Kind != document.KindSpreadsheet {
		t.Fatalf("expected spreadsheet, got %s", extraction.Kind)
	}
	if !reflect.DeepEqual(extraction.Tags, []string{"CSV", "Spreadsheet"}) {
		t.Fatalf("unexpected tags %v", extraction.Tags)
	}
	if result.Workbook == nil || result.Workbook.TableCount() != 1 {
		t.Fatalf("expected one table, got %+v", result.Workbook)
	}
	table := result.Workbook.Sheets[0].Tables[0]
	if table.HeaderRow != 1 || table.RowStart != 2 || table.RowEnd != 3 {
		t.Fatalf("unexpected table bounds %+v", table)
	}
	if !result.Workbook.CreatedAt.Equal(fixedTime) {
		t.Fatalf("expected injected clock, got %v", result.Workbook.CreatedAt)
	}
}

func TestService_ExtractNotes(t *testing.T) {
	svc := newTestService(t)
	tests := []struct {
		name     string
		req      *ExtractRequest
		kind     document.Kind
		note     string
		hasLabel string
	}{
		{
			name:     "photo",
			req:      &ExtractRequest{Filename: "site.jpg", Data: []byte{0xff, 0xd8, 0xff}},
			kind:     document.KindPhoto,
			note:     extractor.NotePhoto,
			hasLabel: "Photo",
		},
		{
			name:     "unknown override",
			req:      &ExtractRequest{Filename: "meters.csv", Kind: document.KindUnknown, Data: []byte(metersCSV)},
			kind:     document.KindUnknown,
			note:     extractor.NoteUnknown,
			hasLabel: "Unsupported",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Extract(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if result.Extraction.Kind != tt.kind || result.Extraction.Extracted.Note != tt.note {
				t.Fatalf("unexpected extraction %+v", result.Extraction)
			}
			if len(result.Extraction.Chunks) != 0 {
				t.Fatalf("expected no chunks, got %d", len(result.Extraction.Chunks))
			}
			if !contains(result.Extraction.Tags, tt.hasLabel) {
				t.Fatalf("expected tag %q in %v", tt.hasLabel, result.Extraction.Tags)
			}
		})
	}
}

func TestService_ExtractInvalidKind(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Extract(context.Background(), &ExtractRequest{Filename: "a.csv", Kind: "drawing", Data: []byte(metersCSV)}); err == nil {
		t.Fatalf("expected error for invalid kind")
	}
}

func TestService_AddCodecFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, err := svc.Add(ctx, &ExtractRequest{FileID: "bad", Filename: "bad.pdf", Data: []byte("this is not a pdf")})
	if !errors.Is(err, extractor.ErrCodecFailure) {
		t.Fatalf("expected codec failure, got %v", err)
	}
	var codecErr *extractor.CodecError
	if !errors.As(err, &codecErr) || codecErr.Codec != extractor.CodecPDF {
		t.Fatalf("expected pdf codec error, got %v", err)
	}
	st, err := svc.Store(ctx)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := st.LoadExtraction(ctx, "bad"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected nothing stored, got %v", err)
	}
}

func TestService_ExtractAllKeepsOrder(t *testing.T) {
	svc := newTestService(t)
	reqs := []*ExtractRequest{
		{FileID: "a", Filename: "meters.csv", Data: []byte(metersCSV)},
		{FileID: "b", Filename: "bad.pdf", Data: []byte("garbage")},
		{FileID: "c", Filename: "site.png", Data: []byte{1, 2, 3}},
	}
	items, err := svc.ExtractAll(context.Background(), reqs)
	if err != nil {
		t.Fatalf("extract all: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Err != nil || items[0].Result.FileID != "a" {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if !errors.Is(items[1].Err, extractor.ErrCodecFailure) {
		t.Fatalf("expected codec failure for second item, got %v", items[1].Err)
	}
	if items[2].Err != nil || items[2].Result.Extraction.Kind != document.KindPhoto {
		t.Fatalf("unexpected third item %+v", items[2])
	}
}

func TestService_SearchStored(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	docs := map[string]string{
		"battery.csv": "item,capacity,savings\nbattery storage,500,12000\ninverter,50,300\n",
		"meters.csv":  metersCSV,
	}
	for name, data := range docs {
		if _, err := svc.Add(ctx, &ExtractRequest{FileID: name, Filename: name, Data: []byte(data)}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	matches, err := svc.Search(ctx, &SearchRequest{Query: "battery economics"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].FileID != "battery.csv" {
		t.Fatalf("unexpected matches %+v", matches)
	}
	scoped, err := svc.Search(ctx, &SearchRequest{Query: "battery", FileIDs: []string{"meters.csv"}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(scoped) != 0 {
		t.Fatalf("expected no scoped matches, got %+v", scoped)
	}
	empty, err := svc.Search(ctx, &SearchRequest{Query: "a b"})
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty result, got %v %v", empty, err)
	}
}

func TestService_SearchCandidates(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	candidates := []retrieval.Candidate{
		{FileID: "x", Chunk: document.Chunk{ChunkIndex: 0, Text: "chiller plant schedule"}},
		{FileID: "y", Chunk: document.Chunk{ChunkIndex: 0, Text: "lighting fixture schedule"}},
	}
	matches, err := svc.Search(context.Background(), &SearchRequest{Query: "chiller schedule", Candidates: candidates})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 2 || matches[0].FileID != "x" {
		t.Fatalf("unexpected matches %+v", matches)
	}
}

func TestService_NoStore(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	if _, err := svc.Add(context.Background(), &ExtractRequest{Filename: "meters.csv", Data: []byte(metersCSV)}); !errors.Is(err, ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
}

func TestService_Tables(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	if _, err := svc.Add(ctx, &ExtractRequest{FileID: "meters", Filename: "meters.csv", Data: []byte(metersCSV)}); err != nil {
		t.Fatalf("add: %v", err)
	}
	index, err := svc.Tables(ctx, "meters")
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	if index.TableCount() != 1 || !reflect.DeepEqual(index.Sheets[0].Tables[0].Headers(), []string{"name", "kw", "kwh"}) {
		t.Fatalf("unexpected index %+v", index)
	}
}

func TestService_Ingest(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "meters.csv"), metersCSV)
	writeFile(t, filepath.Join(dir, "scratch.tmp"), "ignored")
	writeFile(t, filepath.Join(dir, "loads", "panel.csv"), "circuit,load,phase\nL1,20,A\n")
	writeFile(t, filepath.Join(dir, ".git", "config.csv"), "a,b,c\n1,2,3\n")

	svc := newTestService(t)
	result, err := svc.Ingest(ctx, &IngestRequest{Location: dir})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Stored != 2 || result.Failed != 0 || len(result.Items) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	st, err := svc.Store(ctx)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := st.LoadChunks(ctx, filepath.Join(dir, "meters.csv")); err != nil {
		t.Fatalf("expected stored meters.csv: %v", err)
	}

	again, err := svc.Ingest(ctx, &IngestRequest{Location: dir})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if again.Skipped != 2 || again.Stored != 0 {
		t.Fatalf("expected unchanged documents skipped, got %+v", again)
	}

	forced, err := svc.Ingest(ctx, &IngestRequest{Location: dir, Force: true, Include: []string{"*.csv"}, Exclude: []string{"loads/"}})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if forced.Stored != 1 {
		t.Fatalf("expected one forced document, got %+v", forced)
	}
}

func TestService_IngestIgnoreFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, IgnoreFileName), "# superseded issues\ndrafts/\n*.xlsx\n")
	writeFile(t, filepath.Join(dir, "meters.csv"), metersCSV)
	writeFile(t, filepath.Join(dir, "drafts", "old.csv"), metersCSV)

	svc := newTestService(t)
	result, err := svc.Ingest(ctx, &IngestRequest{Location: dir})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Stored != 1 || len(result.Items) != 1 || result.Items[0].FileID != filepath.Join(dir, "meters.csv") {
		t.Fatalf("expected only meters.csv ingested, got %+v", result)
	}
}

func TestService_CloseClearsMemo(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Extract(context.Background(), &ExtractRequest{Filename: "meters.csv", Data: []byte(metersCSV)}); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if svc.memo.Size() != 1 {
		t.Fatalf("expected one memoized extraction, got %d", svc.memo.Size())
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if svc.memo.Size() != 0 {
		t.Fatalf("expected memo cleared, got %d", svc.memo.Size())
	}
}

func TestService_IngestReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.pdf"), "not a pdf")
	writeFile(t, filepath.Join(dir, "meters.csv"), metersCSV)

	svc := newTestService(t)
	var progress []string
	result, err := svc.Ingest(context.Background(), &IngestRequest{
		Location: dir,
		Progress: func(current int, location string) { progress = append(progress, filepath.Base(location)) },
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Failed != 1 || result.Stored != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if !reflect.DeepEqual(progress, []string{"bad.pdf", "meters.csv"}) {
		t.Fatalf("unexpected progress %v", progress)
	}
	if !errors.Is(result.Items[0].Err, extractor.ErrCodecFailure) {
		t.Fatalf("expected codec failure, got %v", result.Items[0].Err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docvault.yaml")
	writeFile(t, path, `chunk:
  size: 500
retrieval:
  defaultTopK: 5
store:
  dsn: /tmp/vault.db
ingest:
  exclude:
    - "archive/"
  maxSizeBytes: 1048576
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Chunk.Size != 500 || cfg.Retrieval.DefaultTopK != 5 || cfg.Retrieval.MaxTopK != 30 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.DSN != "/tmp/vault.db" || cfg.Workers != 4 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Workbook.PreviewRows != 25 || cfg.PDF.IndexPages != 10 {
		t.Fatalf("unexpected nested defaults %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Ingest.Exclude, []string{"archive/"}) || cfg.Ingest.MaxSizeBytes != 1048576 {
		t.Fatalf("unexpected ingest config %+v", cfg.Ingest)
	}
}

func TestExpandUserPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		input    string
		expected string
	}{
		{"~/vault.db", filepath.Join(home, "vault.db")},
		{"/abs/vault.db", "/abs/vault.db"},
		{"relative.db", "relative.db"},
	}
	for _, tt := range tests {
		got, err := expandUserPath(tt.input)
		if err != nil {
			t.Fatalf("expand %q: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Fatalf("expand %q = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
