package ops

import (
	"context"
	"time"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/schema"
)

func registerObjects(r *dispatch.Registry, s Services) {
	r.MustRegister(dispatch.Operation{
		Name:        "object_upload",
		Description: "Store a narrative artifact (base64 content)",
		Store:       "object",
		Shape: schema.NewShape(
			schema.String("key"),
			schema.String("content"),
			schema.String("content_type").Optional(),
			schema.Any("metadata").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Archive.Upload(ctx, getString(p, "key"), getString(p, "content"), getString(p, "content_type"), getStringMap(p, "metadata"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "object_retrieve",
		Description: "Read an artifact back as base64",
		Store:       "object",
		Shape:       schema.NewShape(schema.String("key")),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			content, ref, err := s.Archive.Retrieve(ctx, getString(p, "key"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"content": content, "ref": ref}, nil
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "object_delete",
		Description: "Delete an artifact",
		Store:       "object",
		Shape:       schema.NewShape(schema.String("key")),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			if err := s.Archive.Delete(ctx, getString(p, "key")); err != nil {
				return nil, err
			}
			return map[string]any{"deleted": true}, nil
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "object_list",
		Description: "List artifacts under a key prefix",
		Store:       "object",
		Shape: schema.NewShape(
			schema.String("prefix").Optional(),
			schema.Integer("limit").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Archive.List(ctx, getString(p, "prefix"), getInt(p, "limit"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "object_presign",
		Description: "Issue a time-bounded read URL for an artifact",
		Store:       "object",
		Shape: schema.NewShape(
			schema.String("key"),
			schema.Integer("expiry_seconds").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			url, err := s.Archive.Presign(ctx, getString(p, "key"), time.Duration(getInt(p, "expiry_seconds"))*time.Second)
			if err != nil {
				return nil, err
			}
			return map[string]any{"url": url}, nil
		},
	})
}
