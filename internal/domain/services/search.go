package services

import (
	"context"
	"fmt"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/ports"
)

// SearchService maintains the full-text index over canonical entities and
// scene transcripts.
type SearchService struct {
	index ports.SearchIndex
}

// NewSearchService creates a SearchService.
func NewSearchService(index ports.SearchIndex) *SearchService {
	return &SearchService{index: index}
}

// Index adds or replaces a document in the index.
func (s *SearchService) Index(ctx context.Context, doc ports.SearchDoc) error {
	if err := s.index.Index(ctx, doc); err != nil {
		return dispatch.Backend("search", fmt.Errorf("indexing %s: %w", doc.ID, err))
	}
	return nil
}

// Query runs a full-text query.
func (s *SearchService) Query(ctx context.Context, query string, limit int) ([]ports.SearchHit, error) {
	if limit <= 0 {
		limit = 20
	}
	hits, err := s.index.Query(ctx, query, limit)
	if err != nil {
		return nil, dispatch.Backend("search", fmt.Errorf("querying: %w", err))
	}
	return hits, nil
}
