// Package service orchestrates classification, extraction, persistence and
// retrieval of project documents.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/viant/docvault/cache"
	"github.com/viant/docvault/extractor"
	"github.com/viant/docvault/retrieval"
	"github.com/viant/docvault/store"
)

// ErrNoStore is returned by operations that need a document store when none is configured.
var ErrNoStore = errors.New("service: document store not configured")

// Option configures the Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Service) { s.config = cfg }
}

// WithClock sets the clock used for workbook index timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLogf sets the logger.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Service) { s.logf = logf }
}

// WithStore sets an open document store; the caller keeps ownership.
func WithStore(st *store.Store) Option {
	return func(s *Service) { s.store = st }
}

// WithSource sets the source used to list and download documents for ingest.
func WithSource(source Source) Option {
	return func(s *Service) { s.source = source }
}

// Service exposes extraction, ingest and search operations.
type Service struct {
	config    *Config
	clock     func() time.Time
	logf      func(format string, args ...any)
	store     *store.Store
	ownsStore bool
	source    Source
	factory   *extractor.Factory
	scorer    *retrieval.Scorer
	memo      *cache.Map[memoKey, ExtractResult]
	mu        sync.Mutex
}

// NewService creates a new Service.
func NewService(opts ...Option) (*Service, error) {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	s.config.Init()
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.logf == nil {
		s.logf = func(string, ...any) {}
	}
	if s.source == nil {
		s.source = NewAFSSource()
	}
	s.factory = extractor.NewFactory(s.config.Chunk.Size, s.config.PDF, s.config.Workbook)
	s.scorer = retrieval.NewScorer(s.config.Retrieval)
	s.memo = cache.NewMap[memoKey, ExtractResult](s.config.MemoSize)
	return s, nil
}

// Close drops memoized extractions and releases a store opened by the service.
func (s *Service) Close() error {
	s.memo.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil && s.ownsStore {
		err := s.store.Close()
		s.store = nil
		return err
	}
	return nil
}

// Store returns the document store, opening it from config on first use.
func (s *Service) Store(ctx context.Context) (*store.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		return s.store, nil
	}
	if s.config.Store.DSN == "" {
		return nil, ErrNoStore
	}
	st, err := store.Open(ctx, s.config.Store.Driver, s.config.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}
	s.store = st
	s.ownsStore = true
	return st, nil
}
