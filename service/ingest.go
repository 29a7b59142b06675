package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/docvault/cache"
	"github.com/viant/docvault/classifier"
	"github.com/viant/docvault/matching"
	"github.com/viant/docvault/matching/option"
)

// IgnoreFileName names an optional file at the ingest root listing extra
// exclusion patterns, one per line.
const IgnoreFileName = ".docvaultignore"

// Ingest walks a location, extracts every accepted document and stores it.
// Documents whose digest matches the stored version are skipped unless Force
// is set. A document that fails to extract is reported and nothing is stored
// for it; the run continues with the next document.
func (s *Service) Ingest(ctx context.Context, req *IngestRequest) (*IngestResult, error) {
	if strings.TrimSpace(req.Location) == "" {
		return nil, fmt.Errorf("ingest location is required")
	}
	if _, err := s.Store(ctx); err != nil {
		return nil, err
	}
	logf := req.Logf
	if logf == nil {
		logf = s.logf
	}
	location, err := normalizeLocation(req.Location)
	if err != nil {
		return nil, err
	}
	ignore, err := s.ignorePatterns(ctx, location)
	if err != nil {
		return nil, err
	}
	objects, err := s.walk(ctx, location, s.newMatcher(req, ignore))
	if err != nil {
		return nil, err
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].URL() < objects[j].URL() })

	result := &IngestResult{}
	for i, object := range objects {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		fileID := url.Path(object.URL())
		if req.Progress != nil {
			req.Progress(i+1, fileID)
		}
		item := s.ingestObject(ctx, object, fileID, req.Force)
		switch {
		case item.Err != nil:
			result.Failed++
			logf("ingest failed file=%s: %v", fileID, item.Err)
		case item.Skipped:
			result.Skipped++
		default:
			result.Stored++
			logf("ingest stored file=%s kind=%s chunks=%d", fileID, item.Kind, item.Chunks)
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

func (s *Service) ingestObject(ctx context.Context, object storage.Object, fileID string, force bool) IngestItem {
	item := IngestItem{FileID: fileID, Kind: classifier.Classify(object.Name(), "")}
	data, err := s.source.Download(ctx, object)
	if err != nil {
		item.Err = fmt.Errorf("failed to download %s: %w", fileID, err)
		return item
	}
	if !force {
		digest, err := cache.Digest(data)
		if err != nil {
			item.Err = err
			return item
		}
		st, err := s.Store(ctx)
		if err != nil {
			item.Err = err
			return item
		}
		stored, ok, err := st.Digest(ctx, fileID)
		if err != nil {
			item.Err = err
			return item
		}
		if ok && stored == digest {
			item.Skipped = true
			return item
		}
	}
	result, err := s.Add(ctx, &ExtractRequest{FileID: fileID, Filename: object.Name(), Data: data})
	if err != nil {
		item.Err = err
		return item
	}
	item.Chunks = len(result.Extraction.Chunks)
	return item
}

// walk lists files under location recursively, skipping excluded entries.
func (s *Service) walk(ctx context.Context, location string, matcher *matching.Manager) ([]storage.Object, error) {
	objects, err := s.source.List(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", location, err)
	}
	base := strings.TrimRight(url.Path(location), "/")
	var out []storage.Object
	for _, object := range objects {
		objectPath := url.Path(object.URL())
		if object.IsDir() {
			if strings.TrimRight(objectPath, "/") == base {
				continue
			}
			if matcher.IsExcludedDir(objectPath) {
				continue
			}
			nested, err := s.walk(ctx, url.Join(location, object.Name()), matcher)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		if matcher.IsExcluded(objectPath, int(object.Size())) {
			continue
		}
		out = append(out, object)
	}
	return out, nil
}

// ignorePatterns downloads the ignore file at the root of location, if any.
func (s *Service) ignorePatterns(ctx context.Context, location string) ([]byte, error) {
	objects, err := s.source.List(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", location, err)
	}
	for _, object := range objects {
		if object.IsDir() || object.Name() != IgnoreFileName {
			continue
		}
		data, err := s.source.Download(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
		}
		return data, nil
	}
	return nil, nil
}

func (s *Service) newMatcher(req *IngestRequest, ignore []byte) *matching.Manager {
	include := append(append([]string{}, s.config.Ingest.Include...), req.Include...)
	exclude := append(append(option.DefaultExclusions(), s.config.Ingest.Exclude...), req.Exclude...)
	exclude = append(exclude, IgnoreFileName)
	opts := []option.Option{option.WithExclusionPatterns(exclude...)}
	if len(ignore) > 0 {
		opts = append(opts, option.WithIgnoreFile(bytes.NewReader(ignore)))
	}
	if len(include) > 0 {
		opts = append(opts, option.WithInclusionPatterns(include...))
	}
	maxSize := req.MaxSizeBytes
	if maxSize <= 0 {
		maxSize = s.config.Ingest.MaxSizeBytes
	}
	if maxSize > 0 {
		opts = append(opts, option.WithMaxFileSize(int(maxSize)))
	}
	return matching.New(opts...)
}

// normalizeLocation turns relative and absolute OS paths into file URLs.
func normalizeLocation(location string) (string, error) {
	if url.Scheme(location, "") != "" {
		return location, nil
	}
	if url.IsRelative(location) {
		abs, err := filepath.Abs(location)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path for %s: %w", location, err)
		}
		location = abs
	}
	return url.ToFileURL(location), nil
}
