package service

import (
	"context"
	"fmt"

	"github.com/viant/docvault/retrieval"
	"github.com/viant/docvault/workbook"
)

// Search ranks chunks by keyword overlap with the query. A query without
// usable tokens returns an empty result.
func (s *Service) Search(ctx context.Context, req *SearchRequest) ([]retrieval.Match, error) {
	if len(retrieval.Tokenize(req.Query)) == 0 {
		return []retrieval.Match{}, nil
	}
	candidates := req.Candidates
	if candidates == nil {
		var err error
		if candidates, err = s.storedCandidates(ctx, req.FileIDs); err != nil {
			return nil, err
		}
	}
	return s.scorer.Rank(req.Query, candidates, req.TopK), nil
}

func (s *Service) storedCandidates(ctx context.Context, fileIDs []string) ([]retrieval.Candidate, error) {
	st, err := s.Store(ctx)
	if err != nil {
		return nil, err
	}
	if len(fileIDs) == 0 {
		items, err := st.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			fileIDs = append(fileIDs, item.FileID)
		}
	}
	var out []retrieval.Candidate
	for _, fileID := range fileIDs {
		chunks, err := st.LoadChunks(ctx, fileID)
		if err != nil {
			return nil, fmt.Errorf("failed to load chunks of %s: %w", fileID, err)
		}
		out = append(out, retrieval.Candidates(fileID, chunks)...)
	}
	return out, nil
}

// Tables returns the stored workbook index of a spreadsheet document.
func (s *Service) Tables(ctx context.Context, fileID string) (*workbook.Index, error) {
	st, err := s.Store(ctx)
	if err != nil {
		return nil, err
	}
	return st.LoadWorkbook(ctx, fileID)
}
