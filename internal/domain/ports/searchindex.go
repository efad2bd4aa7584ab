package ports

import (
	"context"

	"github.com/canonkeep/canonkeep/internal/health"
)

// SearchDoc is one indexable document.
type SearchDoc struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"` // entity, fact, scene
	Title    string `json:"title"`
	Body     string `json:"body"`
	Universe string `json:"universe,omitempty"`
}

// SearchHit is one full-text match.
type SearchHit struct {
	ID    string  `json:"id"`
	Kind  string  `json:"kind"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// SearchIndex is the full-text index over canonical entities and scene
// transcripts. Indexing is idempotent: re-indexing a document replaces it.
type SearchIndex interface {
	Close(ctx context.Context) error
	Health(ctx context.Context) health.Status

	Index(ctx context.Context, doc SearchDoc) error
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, query string, limit int) ([]SearchHit, error)
}
