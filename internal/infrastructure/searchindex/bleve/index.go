// Package bleve provides an embedded full-text index over canonical
// entities, facts, and scene transcripts.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"

	"github.com/canonkeep/canonkeep/internal/domain/ports"
	"github.com/canonkeep/canonkeep/internal/health"
	"github.com/canonkeep/canonkeep/internal/infrastructure/config"
)

// Index implements the SearchIndex interface on an on-disk bleve index.
type Index struct {
	idx  bleve.Index
	path string
}

// NewIndex opens the index at the configured path, creating it on first
// use.
func NewIndex(cfg config.BleveConfig) (*Index, error) {
	path := cfg.Path
	if path == "" {
		path = ".canonkeep/search.bleve"
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		mapping := bleve.NewIndexMapping()
		idx, err = bleve.New(path, mapping)
	}
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}

	return &Index{idx: idx, path: path}, nil
}

// Close releases the index files.
func (i *Index) Close(ctx context.Context) error {
	return i.idx.Close()
}

// Health verifies the index directory is still present and countable.
func (i *Index) Health(ctx context.Context) health.Status {
	if _, err := os.Stat(i.path); err != nil {
		return health.Unhealthy(err.Error())
	}
	if _, err := i.idx.DocCount(); err != nil {
		return health.Unhealthy(err.Error())
	}
	return health.Healthy("search index open")
}

// Index stores a document, replacing any prior version under the same ID.
func (i *Index) Index(ctx context.Context, doc ports.SearchDoc) error {
	if err := i.idx.Index(doc.ID, doc); err != nil {
		return fmt.Errorf("indexing document: %w", err)
	}
	return nil
}

// Delete removes a document by ID. Deleting an unknown ID is a no-op.
func (i *Index) Delete(ctx context.Context, id string) error {
	if err := i.idx.Delete(id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// Query runs a match query over all fields and returns scored hits.
func (i *Index) Query(ctx context.Context, query string, limit int) ([]ports.SearchHit, error) {
	match := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(match, limit, 0, false)
	req.Fields = []string{"kind", "title"}

	result, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	hits := make([]ports.SearchHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		h := ports.SearchHit{ID: hit.ID, Score: hit.Score}
		if kind, ok := hit.Fields["kind"].(string); ok {
			h.Kind = kind
		}
		if title, ok := hit.Fields["title"].(string); ok {
			h.Title = title
		}
		hits = append(hits, h)
	}
	return hits, nil
}
