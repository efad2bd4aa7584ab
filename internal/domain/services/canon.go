// Package services implements the authority-critical write paths over the
// store ports. Services never check authority themselves; that happens in
// the dispatcher before any service method runs.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/domain/ports"
)

// CanonService owns every mutation of canonical truth. All writes are
// idempotent upserts keyed by stable UUIDs, so a timed-out call can be
// retried without duplicating nodes.
//
// The existence check before a relationship write and the write itself are
// two round-trips with no lock between them; a concurrent deletion can slip
// into that window. Idempotent MERGE semantics on the backend keep the race
// from corrupting the graph, at the cost of a possible dangling-edge reject
// on retry.
type CanonService struct {
	graph ports.GraphDB
	docs  ports.DocumentDB
	log   *slog.Logger
}

// NewCanonService creates a CanonService.
func NewCanonService(graph ports.GraphDB, docs ports.DocumentDB, log *slog.Logger) *CanonService {
	if log == nil {
		log = slog.Default()
	}
	return &CanonService{graph: graph, docs: docs, log: log}
}

// CreateMultiverse creates a multiverse container.
func (s *CanonService) CreateMultiverse(ctx context.Context, name string) (*entities.Multiverse, error) {
	m := entities.Multiverse{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.graph.UpsertMultiverse(ctx, m); err != nil {
		return nil, dispatch.Backend("graph", fmt.Errorf("creating multiverse: %w", err))
	}
	return &m, nil
}

// CreateUniverse creates a universe under an existing multiverse.
func (s *CanonService) CreateUniverse(ctx context.Context, multiverseID, name, description string) (*entities.Universe, error) {
	ok, err := s.graph.MultiverseExists(ctx, multiverseID)
	if err != nil {
		return nil, dispatch.Backend("graph", fmt.Errorf("checking multiverse: %w", err))
	}
	if !ok {
		return nil, dispatch.NotFound("multiverse", multiverseID)
	}

	u := entities.Universe{
		ID:           uuid.New().String(),
		MultiverseID: multiverseID,
		Name:         name,
		Description:  description,
		CreatedAt:    time.Now(),
	}
	if err := s.graph.UpsertUniverse(ctx, u); err != nil {
		return nil, dispatch.Backend("graph", fmt.Errorf("creating universe: %w", err))
	}
	return &u, nil
}

// DeleteUniverse removes a universe. Without force it fails with a conflict
// listing the dependent count; with force it cascades to every descendant.
// Cascade is the only destructive, irreversible transition in the system, so
// it is logged with full context.
func (s *CanonService) DeleteUniverse(ctx context.Context, id string, force bool) (int64, error) {
	existing, err := s.graph.GetUniverse(ctx, id)
	if err != nil {
		return 0, dispatch.Backend("graph", fmt.Errorf("loading universe: %w", err))
	}
	if existing == nil {
		return 0, dispatch.NotFound("universe", id)
	}

	dependents, err := s.graph.CountUniverseDependents(ctx, id)
	if err != nil {
		return 0, dispatch.Backend("graph", fmt.Errorf("counting dependents: %w", err))
	}
	if dependents > 0 && !force {
		return 0, dispatch.Conflict(
			fmt.Sprintf("universe %s has %d dependents; pass force to cascade", id, dependents),
			map[string]any{"universe_id": id, "dependents": dependents},
		)
	}

	deleted, err := s.graph.DeleteUniverse(ctx, id, force)
	if err != nil {
		return 0, dispatch.Backend("graph", fmt.Errorf("deleting universe: %w", err))
	}
	if force {
		s.log.WarnContext(ctx, "cascade delete",
			slog.String("universe_id", id),
			slog.String("universe_name", existing.Name),
			slog.Int64("dependents", dependents),
			slog.Int64("nodes_deleted", deleted),
		)
	}
	return deleted, nil
}

// EntityInput carries the caller-supplied fields of a new entity.
type EntityInput struct {
	UniverseID  string
	Name        string
	Kind        entities.EntityKind
	ArchetypeID string
	CanonLevel  entities.CanonLevel
	Provenance  entities.Provenance
	Properties  map[string]any
}

// CreateEntity creates an archetype or instance. An instance referencing an
// archetype requires that archetype to exist.
func (s *CanonService) CreateEntity(ctx context.Context, in EntityInput) (*entities.Entity, error) {
	if err := s.requireUniverse(ctx, in.UniverseID); err != nil {
		return nil, err
	}
	if in.ArchetypeID != "" {
		ok, err := s.graph.EntityExists(ctx, in.ArchetypeID)
		if err != nil {
			return nil, dispatch.Backend("graph", fmt.Errorf("checking archetype: %w", err))
		}
		if !ok {
			return nil, dispatch.NotFound("archetype", in.ArchetypeID)
		}
	}

	now := time.Now()
	e := entities.Entity{
		ID:          uuid.New().String(),
		UniverseID:  in.UniverseID,
		Name:        in.Name,
		Kind:        in.Kind,
		ArchetypeID: in.ArchetypeID,
		CanonLevel:  in.CanonLevel,
		Provenance:  in.Provenance,
		Properties:  in.Properties,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if e.CanonLevel == "" {
		e.CanonLevel = entities.CanonProposed
	}
	if err := s.graph.UpsertEntity(ctx, e); err != nil {
		return nil, dispatch.Backend("graph", fmt.Errorf("creating entity: %w", err))
	}
	return &e, nil
}

// UpdateEntity replaces an entity's property bag and mutable fields.
// created_at is always preserved verbatim from the original record.
func (s *CanonService) UpdateEntity(ctx context.Context, id string, canonLevel entities.CanonLevel, properties map[string]any) (*entities.Entity, error) {
	existing, err := s.graph.GetEntity(ctx, id)
	if err != nil {
		return nil, dispatch.Backend("graph", fmt.Errorf("loading entity: %w", err))
	}
	if existing == nil {
		return nil, dispatch.NotFound("entity", id)
	}

	updated := *existing
	updated.Properties = properties
	if canonLevel != "" {
		updated.CanonLevel = canonLevel
	}
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()

	if err := s.graph.UpsertEntity(ctx, updated); err != nil {
		return nil, dispatch.Backend("graph", fmt.Errorf("updating entity: %w", err))
	}
	return &updated, nil
}

// DeleteEntity removes an entity node.
func (s *CanonService) DeleteEntity(ctx context.Context, id string) error {
	ok, err := s.graph.EntityExists(ctx, id)
	if err != nil {
		return dispatch.Backend("graph", fmt.Errorf("checking entity: %w", err))
	}
	if !ok {
		return dispatch.NotFound("entity", id)
	}
	if err := s.graph.DeleteEntity(ctx, id); err != nil {
		return dispatch.Backend("graph", fmt.Errorf("deleting entity: %w", err))
	}
	return nil
}

// GetEntity loads an entity by ID.
func (s *CanonService) GetEntity(ctx context.Context, id string) (*entities.Entity, error) {
	e, err := s.graph.GetEntity(ctx, id)
	if err != nil {
		return nil, dispatch.Backend("graph", fmt.Errorf("loading entity: %w", err))
	}
	if e == nil {
		return nil, dispatch.NotFound("entity", id)
	}
	return e, nil
}

// ListEntities lists entities in a universe.
func (s *CanonService) ListEntities(ctx context.Context, universeID string, kind entities.EntityKind, limit int) ([]entities.Entity, error) {
	items, err := s.graph.ListEntities(ctx, universeID, kind, limit)
	if err != nil {
		return nil, dispatch.Backend("graph", fmt.Errorf("listing entities: %w", err))
	}
	return items, nil
}

// FactInput carries the caller-supplied fields of a new fact or event.
type FactInput struct {
	UniverseID string
	Statement  string
	SubjectID  string
	CanonLevel entities.CanonLevel
	Provenance entities.Provenance
	Properties map[string]any
	OccurredAt string // events only
}

// CreateFact records a canonical truth statement.
func (s *CanonService) CreateFact(ctx context.Context, in FactInput) (*entities.Fact, error) {
	f, err := s.buildFact(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.graph.UpsertFact(ctx, *f); err != nil {
		return nil, dispatch.Backend("graph", fmt.Errorf("creating fact: %w", err))
	}
	return f, nil
}

// CreateEvent records a time-stamped fact.
func (s *CanonService) CreateEvent(ctx context.Context, in FactInput) (*entities.Event, error) {
	f, err := s.buildFact(ctx, in)
	if err != nil {
		return nil, err
	}
	e := entities.Event{Fact: *f, OccurredAt: in.OccurredAt}
	if err := s.graph.UpsertEvent(ctx, e); err != nil {
		return nil, dispatch.Backend("graph", fmt.Errorf("creating event: %w", err))
	}
	return &e, nil
}

// requireUniverse guards canonical writes against a mistyped or deleted
// container ID. The graph adapter's MATCH-then-MERGE writes nothing when the
// container is absent, so the absence must be surfaced here.
func (s *CanonService) requireUniverse(ctx context.Context, universeID string) error {
	ok, err := s.graph.UniverseExists(ctx, universeID)
	if err != nil {
		return dispatch.Backend("graph", fmt.Errorf("checking universe: %w", err))
	}
	if !ok {
		return dispatch.NotFound("universe", universeID)
	}
	return nil
}

func (s *CanonService) buildFact(ctx context.Context, in FactInput) (*entities.Fact, error) {
	if err := s.requireUniverse(ctx, in.UniverseID); err != nil {
		return nil, err
	}
	if in.SubjectID != "" {
		ok, err := s.graph.EntityExists(ctx, in.SubjectID)
		if err != nil {
			return nil, dispatch.Backend("graph", fmt.Errorf("checking subject: %w", err))
		}
		if !ok {
			return nil, dispatch.NotFound("entity", in.SubjectID)
		}
	}
	now := time.Now()
	f := entities.Fact{
		ID:         uuid.New().String(),
		UniverseID: in.UniverseID,
		Statement:  in.Statement,
		SubjectID:  in.SubjectID,
		CanonLevel: in.CanonLevel,
		Provenance: in.Provenance,
		Properties: in.Properties,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if f.CanonLevel == "" {
		f.CanonLevel = entities.CanonProposed
	}
	return &f, nil
}

// CreateRelationship creates a typed, directed edge. Both endpoints must
// exist, and self-loops are rejected for relationship types that forbid
// them.
func (s *CanonService) CreateRelationship(ctx context.Context, fromID, toID string, relType entities.RelationType, properties map[string]any) (*entities.Relationship, error) {
	// Membership in the closed type set is checked here as well as at the
	// operation shape: the type string ends up inside a Cypher pattern.
	if _, err := entities.ParseRelationType(string(relType)); err != nil {
		return nil, dispatch.Validation(err.Error(), map[string]any{"type": string(relType)})
	}
	if fromID == toID && relType.ForbidsSelfLoop() {
		return nil, dispatch.Validation(
			fmt.Sprintf("relationship type %s forbids self-loops", relType),
			map[string]any{"type": string(relType), "entity_id": fromID},
		)
	}

	for _, endpoint := range []string{fromID, toID} {
		ok, err := s.graph.EntityExists(ctx, endpoint)
		if err != nil {
			return nil, dispatch.Backend("graph", fmt.Errorf("checking endpoint: %w", err))
		}
		if !ok {
			return nil, dispatch.NotFound("entity", endpoint)
		}
	}

	r := entities.Relationship{
		ID:         uuid.New().String(),
		FromID:     fromID,
		ToID:       toID,
		Type:       relType,
		Properties: properties,
		CreatedAt:  time.Now(),
	}
	if err := s.graph.UpsertRelationship(ctx, r); err != nil {
		return nil, dispatch.Backend("graph", fmt.Errorf("creating relationship: %w", err))
	}
	return &r, nil
}

// GetRelationships lists edges touching an entity, optionally filtered by
// type.
func (s *CanonService) GetRelationships(ctx context.Context, entityID string, relType entities.RelationType) ([]entities.Relationship, error) {
	rels, err := s.graph.GetRelationships(ctx, entityID, relType)
	if err != nil {
		return nil, dispatch.Backend("graph", fmt.Errorf("listing relationships: %w", err))
	}
	return rels, nil
}
