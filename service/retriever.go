package service

import (
	"context"
	"fmt"

	"github.com/tieubaoca/consent-draft-be/database"
	"github.com/tieubaoca/consent-draft-be/types"
)

// RetrieveFunc runs one similarity search for a free-text query.
type RetrieveFunc func(ctx context.Context, query string) ([]types.ScoredChunk, error)

// RetrieverService builds similarity-search functions scoped to a set
// of document titles. Pure read path; safe for concurrent sessions.
type RetrieverService struct {
	index    database.VectorIndex
	embedder Embedder
	topK     int
}

func NewRetrieverService(index database.VectorIndex, embedder Embedder, topK int) *RetrieverService {
	if topK <= 0 {
		topK = 15
	}
	return &RetrieverService{
		index:    index,
		embedder: embedder,
		topK:     topK,
	}
}

// Scoped returns a retrieve function restricted to chunks from any of
// the given documents. An empty title set searches the whole index.
func (s *RetrieverService) Scoped(titles []string) RetrieveFunc {
	// Copy so later mutation of the caller's slice cannot change the scope.
	scope := append([]string(nil), titles...)
	return func(ctx context.Context, query string) ([]types.ScoredChunk, error) {
		vector, err := s.embedder.Embed(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to embed query: %w", err)
		}
		return s.index.SearchSimilar(ctx, vector, scope, s.topK)
	}
}

// Search is the direct read path used by the search endpoint.
func (s *RetrieverService) Search(ctx context.Context, query string, titles []string, limit int) ([]types.ScoredChunk, error) {
	if limit <= 0 || limit > s.topK {
		limit = s.topK
	}
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return s.index.SearchSimilar(ctx, vector, titles, limit)
}
