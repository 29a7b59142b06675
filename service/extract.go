package service

import (
	"context"
	"fmt"

	"github.com/viant/docvault/cache"
	"github.com/viant/docvault/classifier"
	"github.com/viant/docvault/document"
	"github.com/viant/docvault/extractor"
	"github.com/viant/docvault/store"
	"golang.org/x/sync/errgroup"
)

type memoKey struct {
	digest      string
	fileID      string
	filename    string
	contentType string
	kind        document.Kind
}

// Extract classifies and extracts one document version. Results are memoized
// per content digest, so repeated calls return the same extraction.
func (s *Service) Extract(ctx context.Context, req *ExtractRequest) (*ExtractResult, error) {
	kind := req.Kind
	if kind == "" {
		kind = classifier.Classify(req.Filename, req.ContentType)
	} else if !kind.Valid() {
		return nil, fmt.Errorf("service: invalid kind %q", kind)
	}
	digest, err := cache.Digest(req.Data)
	if err != nil {
		return nil, err
	}
	fileID := req.FileID
	if fileID == "" {
		fileID = digest
	}
	key := memoKey{digest: digest, fileID: fileID, filename: req.Filename, contentType: req.ContentType, kind: kind}
	if cached, ok := s.memo.Get(key); ok {
		return cached, nil
	}

	input := &extractor.Input{
		FileID:      fileID,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Kind:        kind,
		Data:        req.Data,
		CreatedAt:   s.clock(),
	}
	result, err := s.factory.Get(kind).Extract(ctx, input)
	if err != nil {
		s.logf("extract failed file=%s name=%s kind=%s: %v", fileID, req.Filename, kind, err)
		return nil, fmt.Errorf("failed to extract %s: %w", displayName(req.Filename, fileID), err)
	}
	tags := document.Tags{}
	tags.Add(kind.Label())
	tags.Add(result.Tags...)
	ret := &ExtractResult{
		FileID:   fileID,
		Filename: req.Filename,
		Digest:   digest,
		Extraction: &document.Extraction{
			Kind:      kind,
			Tags:      tags.Sorted(),
			Extracted: result.Extracted,
			Chunks:    result.Chunks,
		},
		Workbook: result.Workbook,
	}
	s.logf("extracted file=%s name=%s kind=%s chunks=%d", fileID, req.Filename, kind, len(ret.Extraction.Chunks))
	s.memo.Set(key, ret)
	return ret, nil
}

// ExtractAll extracts independent documents concurrently with the configured
// worker limit. Items keep request order; a failed document does not stop
// the others.
func (s *Service) ExtractAll(ctx context.Context, reqs []*ExtractRequest) ([]BatchItem, error) {
	items := make([]BatchItem, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Result, items[i].Err = s.Extract(gctx, req)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return items, err
	}
	return items, nil
}

// Add extracts a document and stores the new version, replacing any previous
// one. Nothing is stored when extraction fails.
func (s *Service) Add(ctx context.Context, req *ExtractRequest) (*ExtractResult, error) {
	st, err := s.Store(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.Extract(ctx, req)
	if err != nil {
		return nil, err
	}
	record := &store.Record{
		FileID:      result.FileID,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Digest:      result.Digest,
		Extraction:  result.Extraction,
		Workbook:    result.Workbook,
		StoredAt:    s.clock(),
	}
	if err := st.Save(ctx, record); err != nil {
		return nil, err
	}
	return result, nil
}

func displayName(filename, fileID string) string {
	if filename != "" {
		return filename
	}
	return fileID
}
