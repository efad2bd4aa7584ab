package ops

import (
	"context"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/domain/ports"
	"github.com/canonkeep/canonkeep/internal/schema"
)

func registerSearch(r *dispatch.Registry, s Services) {
	r.MustRegister(dispatch.Operation{
		Name:        "search_index",
		Description: "Add or replace a document in the full-text index",
		Store:       "search",
		Shape: schema.NewShape(
			schema.String("id"),
			schema.Enum("kind", "entity", "fact", "scene"),
			schema.String("title"),
			schema.String("body"),
			schema.UUID("universe_id").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			doc := ports.SearchDoc{
				ID:       getString(p, "id"),
				Kind:     getString(p, "kind"),
				Title:    getString(p, "title"),
				Body:     getString(p, "body"),
				Universe: getString(p, "universe_id"),
			}
			if err := s.Search.Index(ctx, doc); err != nil {
				return nil, err
			}
			return map[string]any{"indexed": doc.ID}, nil
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "search_query",
		Description: "Run a full-text query",
		Store:       "search",
		Shape: schema.NewShape(
			schema.String("query"),
			schema.Integer("limit").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Search.Query(ctx, getString(p, "query"), getInt(p, "limit"))
		},
	})
}
