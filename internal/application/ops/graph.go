package ops

import (
	"context"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/domain/services"
	"github.com/canonkeep/canonkeep/internal/schema"
)

// relationTypeValues closes the relationship-type enum over the known set,
// keeping free-form strings out of the graph adapter's Cypher patterns.
var relationTypeValues = func() []string {
	out := make([]string, len(entities.RelationTypes))
	for i, t := range entities.RelationTypes {
		out[i] = string(t)
	}
	return out
}()

func registerGraph(r *dispatch.Registry, s Services) {
	r.MustRegister(dispatch.Operation{
		Name:        "graph_create_multiverse",
		Description: "Create a multiverse container",
		Store:       "graph",
		Shape:       schema.NewShape(schema.String("name")),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Canon.CreateMultiverse(ctx, getString(p, "name"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "graph_create_universe",
		Description: "Create a universe under a multiverse",
		Store:       "graph",
		Shape: schema.NewShape(
			schema.UUID("multiverse_id"),
			schema.String("name"),
			schema.String("description").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Canon.CreateUniverse(ctx, getString(p, "multiverse_id"), getString(p, "name"), getString(p, "description"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "graph_delete_universe",
		Description: "Delete a universe, cascading to descendants when forced",
		Store:       "graph",
		Shape: schema.NewShape(
			schema.UUID("universe_id"),
			schema.Boolean("force").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			deleted, err := s.Canon.DeleteUniverse(ctx, getString(p, "universe_id"), getBool(p, "force"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"nodes_deleted": deleted}, nil
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "graph_create_entity",
		Description: "Create an archetype or instance entity",
		Store:       "graph",
		Shape: schema.NewShape(
			schema.UUID("universe_id"),
			schema.String("name"),
			schema.Enum("kind", string(entities.EntityArchetype), string(entities.EntityInstance)),
			schema.UUID("archetype_id").Optional(),
			schema.Enum("canon_level", string(entities.CanonProposed), string(entities.CanonCanon), string(entities.CanonRetconned)).Optional(),
			schema.Enum("provenance", string(entities.ProvenanceSource), string(entities.ProvenanceGM), string(entities.ProvenancePlayer), string(entities.ProvenanceSystem)).Optional(),
			schema.Any("properties").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Canon.CreateEntity(ctx, services.EntityInput{
				UniverseID:  getString(p, "universe_id"),
				Name:        getString(p, "name"),
				Kind:        entities.EntityKind(getString(p, "kind")),
				ArchetypeID: getString(p, "archetype_id"),
				CanonLevel:  entities.CanonLevel(getString(p, "canon_level")),
				Provenance:  entities.Provenance(getString(p, "provenance")),
				Properties:  getMap(p, "properties"),
			})
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "graph_update_entity",
		Description: "Replace an entity's property bag; created_at is preserved",
		Store:       "graph",
		Shape: schema.NewShape(
			schema.UUID("entity_id"),
			schema.Enum("canon_level", string(entities.CanonProposed), string(entities.CanonCanon), string(entities.CanonRetconned)).Optional(),
			schema.Any("properties"),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Canon.UpdateEntity(ctx, getString(p, "entity_id"), entities.CanonLevel(getString(p, "canon_level")), getMap(p, "properties"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "graph_delete_entity",
		Description: "Delete an entity node",
		Store:       "graph",
		Shape:       schema.NewShape(schema.UUID("entity_id")),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			if err := s.Canon.DeleteEntity(ctx, getString(p, "entity_id")); err != nil {
				return nil, err
			}
			return map[string]any{"deleted": true}, nil
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "graph_create_fact",
		Description: "Record a canonical truth statement",
		Store:       "graph",
		Shape:       factShape(false),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Canon.CreateFact(ctx, factInput(p))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "graph_create_event",
		Description: "Record a time-stamped fact",
		Store:       "graph",
		Shape:       factShape(true),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Canon.CreateEvent(ctx, factInput(p))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "graph_create_relationship",
		Description: "Create a typed directed edge between two entities",
		Store:       "graph",
		Shape: schema.NewShape(
			schema.UUID("from_id"),
			schema.UUID("to_id"),
			schema.Enum("type", relationTypeValues...),
			schema.Any("properties").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Canon.CreateRelationship(ctx,
				getString(p, "from_id"), getString(p, "to_id"),
				entities.RelationType(getString(p, "type")), getMap(p, "properties"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "graph_canonize_proposal",
		Description: "Apply an approved proposed change to the canonical graph",
		Store:       "graph",
		Shape:       schema.NewShape(schema.UUID("proposal_id")),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Canon.CanonizeProposal(ctx, getString(p, "proposal_id"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "graph_get_entity",
		Description: "Load an entity by ID",
		Store:       "graph",
		Shape:       schema.NewShape(schema.UUID("entity_id")),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Canon.GetEntity(ctx, getString(p, "entity_id"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "graph_list_entities",
		Description: "List entities in a universe",
		Store:       "graph",
		Shape: schema.NewShape(
			schema.UUID("universe_id"),
			schema.Enum("kind", string(entities.EntityArchetype), string(entities.EntityInstance)).Optional(),
			schema.Integer("limit").Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Canon.ListEntities(ctx, getString(p, "universe_id"), entities.EntityKind(getString(p, "kind")), getInt(p, "limit"))
		},
	})

	r.MustRegister(dispatch.Operation{
		Name:        "graph_get_relationships",
		Description: "List edges touching an entity",
		Store:       "graph",
		Shape: schema.NewShape(
			schema.UUID("entity_id"),
			schema.Enum("type", relationTypeValues...).Optional(),
		),
		Handler: func(ctx context.Context, _ entities.AgentContext, p map[string]any) (any, error) {
			return s.Canon.GetRelationships(ctx, getString(p, "entity_id"), entities.RelationType(getString(p, "type")))
		},
	})
}

func factShape(event bool) schema.Shape {
	fields := []schema.Field{
		schema.UUID("universe_id"),
		schema.String("statement"),
		schema.UUID("subject_id").Optional(),
		schema.Enum("canon_level", string(entities.CanonProposed), string(entities.CanonCanon), string(entities.CanonRetconned)).Optional(),
		schema.Enum("provenance", string(entities.ProvenanceSource), string(entities.ProvenanceGM), string(entities.ProvenancePlayer), string(entities.ProvenanceSystem)).Optional(),
		schema.Any("properties").Optional(),
	}
	if event {
		fields = append(fields, schema.String("occurred_at"))
	}
	return schema.NewShape(fields...)
}

func factInput(p map[string]any) services.FactInput {
	return services.FactInput{
		UniverseID: getString(p, "universe_id"),
		Statement:  getString(p, "statement"),
		SubjectID:  getString(p, "subject_id"),
		CanonLevel: entities.CanonLevel(getString(p, "canon_level")),
		Provenance: entities.Provenance(getString(p, "provenance")),
		Properties: getMap(p, "properties"),
		OccurredAt: getString(p, "occurred_at"),
	}
}
