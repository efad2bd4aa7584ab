package ops

import (
	"context"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/schema"
)

func registerMemory(r *dispatch.Registry, s Services) {
	r.MustRegister(dispatch.Operation{
		Name:        "memory_store",
		Description: "Record a subjective character memory",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("owner_id"),
			schema.UUID("scene_id").Optional(),
			schema.String("content"),
			schema.List("tags", schema.String("")).Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Memories.Store(ctx, getString(p, "owner_id"), getString(p, "scene_id"), getString(p, "content"), getStringList(p, "tags"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "memory_recall",
		Description: "Recall memories similar to a query, scoped to an owner",
		Store:       "vector",
		Shape: schema.NewShape(
			schema.UUID("owner_id"),
			schema.String("query"),
			schema.Integer("limit").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Memories.Recall(ctx, getString(p, "owner_id"), getString(p, "query"), getInt(p, "limit"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "memory_list",
		Description: "List an owner's memories by recency",
		Store:       "document",
		Shape: schema.NewShape(
			schema.UUID("owner_id"),
			schema.Integer("limit").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Memories.List(ctx, getString(p, "owner_id"), getInt(p, "limit"))
		},
	})
}
