package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/viant/afs"
	_ "github.com/viant/afsc/gs"
	_ "github.com/viant/afsc/s3"
	"github.com/viant/docvault/document"
	"github.com/viant/docvault/service"
)

func main() {
	startGops()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "extract":
		extractCmd(os.Args[2:])
	case "ingest":
		ingestCmd(os.Args[2:])
	case "search":
		searchCmd(os.Args[2:])
	case "tables":
		tablesCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: docvault <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  extract  Extract documents and print the result as JSON")
	fmt.Fprintln(os.Stderr, "  ingest   Extract and store every document under a folder or bucket")
	fmt.Fprintln(os.Stderr, "  search   Keyword search over stored chunks")
	fmt.Fprintln(os.Stderr, "  tables   Print the detected tables of a stored spreadsheet")
}

func extractCmd(args []string) {
	flags := flag.NewFlagSet("extract", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	dbPath := flags.String("db", "", "SQLite database path; when set results are stored")
	kind := flags.String("kind", "", "kind override: pdf_plan_set|pdf|spec_sheet|spreadsheet|photo|unknown")
	contentType := flags.String("content-type", "", "content type (optional)")
	flags.Parse(args)
	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	svc := newService(*configPath, *dbPath)
	defer func() { _ = svc.Close() }()

	kindOverride, err := parseKind(*kind)
	if err != nil {
		log.Fatalf("extract: %v", err)
	}
	fs := afs.New()
	var reqs []*service.ExtractRequest
	for _, location := range flags.Args() {
		data, err := fs.DownloadWithURL(ctx, location)
		if err != nil {
			log.Fatalf("read %s: %v", location, err)
		}
		reqs = append(reqs, &service.ExtractRequest{
			FileID:      location,
			Filename:    path.Base(location),
			ContentType: *contentType,
			Kind:        kindOverride,
			Data:        data,
		})
	}

	type output struct {
		FileID string               `json:"fileId"`
		Status service.Message      `json:"status"`
		Digest string               `json:"digest,omitempty"`
		Result *document.Extraction `json:"extraction,omitempty"`
	}
	items := make([]service.BatchItem, len(reqs))
	stored, err := storeConfigured(ctx, svc)
	if err != nil {
		log.Fatalf("extract: %v", err)
	}
	if stored {
		for i, req := range reqs {
			items[i].Result, items[i].Err = svc.Add(ctx, req)
		}
	} else if items, err = svc.ExtractAll(ctx, reqs); err != nil {
		log.Fatalf("extract: %v", err)
	}
	var outputs []output
	failed := false
	for i, item := range items {
		out := output{FileID: reqs[i].FileID}
		if item.Err != nil {
			failed = true
			log.Printf("extract %s: %v", reqs[i].FileID, item.Err)
			out.Status = service.Describe(nil, item.Err)
		} else {
			out.Status = service.Describe(item.Result.Extraction, nil)
			out.Digest = item.Result.Digest
			out.Result = item.Result.Extraction
		}
		outputs = append(outputs, out)
	}
	printJSON(outputs)
	if failed {
		os.Exit(1)
	}
}

func ingestCmd(args []string) {
	flags := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	dbPath := flags.String("db", "", "SQLite database path (required unless set in config)")
	location := flags.String("path", "", "folder or bucket URL to ingest (required)")
	include := flags.String("include", "", "comma-separated include patterns")
	exclude := flags.String("exclude", "", "comma-separated exclude patterns")
	maxSize := flags.Int64("max-size", 0, "max file size in bytes")
	force := flags.Bool("force", false, "re-extract unchanged documents")
	progress := flags.Bool("progress", false, "show ingest progress")
	flags.Parse(args)
	if *location == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	svc := newService(*configPath, *dbPath)
	defer func() { _ = svc.Close() }()

	req := &service.IngestRequest{
		Location:     *location,
		Include:      parseCSV(*include),
		Exclude:      parseCSV(*exclude),
		MaxSizeBytes: *maxSize,
		Force:        *force,
		Logf:         log.Printf,
	}
	if *progress {
		req.Progress = func(current int, location string) {
			fmt.Fprintf(os.Stderr, "ingest %d %s\n", current, location)
		}
	}
	result, err := svc.Ingest(ctx, req)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}
	fmt.Printf("stored=%d skipped=%d failed=%d\n", result.Stored, result.Skipped, result.Failed)
	for _, item := range result.Items {
		if item.Err != nil {
			fmt.Printf("failed %s: %s\n", item.FileID, service.Describe(nil, item.Err).Text)
		}
	}
	if result.Failed > 0 {
		os.Exit(1)
	}
}

func searchCmd(args []string) {
	flags := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	dbPath := flags.String("db", "", "SQLite database path (required unless set in config)")
	query := flags.String("query", "", "query text (required)")
	files := flags.String("files", "", "comma-separated file ids to search (optional)")
	limit := flags.Int("limit", 0, "max results (default from config)")
	flags.Parse(args)
	if *query == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	svc := newService(*configPath, *dbPath)
	defer func() { _ = svc.Close() }()

	matches, err := svc.Search(ctx, &service.SearchRequest{Query: *query, FileIDs: parseCSV(*files), TopK: *limit})
	if err != nil {
		log.Fatalf("search: %v", err)
	}
	for _, match := range matches {
		out := clip(match.Chunk.Text, 200)
		prov := match.Chunk.Provenance
		fmt.Printf("file=%s chunk=%d score=%.4f page=%d sheet=%s range=%s\n%s\n\n",
			match.FileID, match.Chunk.ChunkIndex, match.Score, prov.Page, prov.Sheet, prov.CellRange, out)
	}
}

func tablesCmd(args []string) {
	flags := flag.NewFlagSet("tables", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	dbPath := flags.String("db", "", "SQLite database path (required unless set in config)")
	fileID := flags.String("file", "", "stored file id (required)")
	flags.Parse(args)
	if *fileID == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	svc := newService(*configPath, *dbPath)
	defer func() { _ = svc.Close() }()

	index, err := svc.Tables(ctx, *fileID)
	if err != nil {
		log.Fatalf("tables: %v", err)
	}
	printJSON(index)
}

func newService(configPath, dbPath string) *service.Service {
	cfg := service.DefaultConfig()
	if configPath != "" {
		loaded, err := service.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}
	if dbPath != "" {
		cfg.Store.DSN = dbPath
	}
	svc, err := service.NewService(service.WithConfig(cfg), service.WithLogf(log.Printf))
	if err != nil {
		log.Fatalf("service init: %v", err)
	}
	return svc
}

// storeConfigured opens the configured store; a missing store is not an error.
func storeConfigured(ctx context.Context, svc *service.Service) (bool, error) {
	if _, err := svc.Store(ctx); err != nil {
		if errors.Is(err, service.ErrNoStore) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func parseKind(value string) (document.Kind, error) {
	if value == "" {
		return "", nil
	}
	kind := document.ParseKind(value)
	if string(kind) != value {
		return "", fmt.Errorf("unknown kind %q", value)
	}
	return kind, nil
}

// clip truncates text to limit runes.
func clip(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode: %v", err)
	}
	fmt.Println(string(data))
}

func parseCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func startGops() {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops: %v", err)
	}
}
