// Package ports defines the store adapter contracts. Services depend on
// these interfaces only; concrete drivers live under
// internal/infrastructure and are injected at startup.
package ports

import (
	"context"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/health"
)

// GraphDB is the canonical-truth store. Writes are idempotent upserts keyed
// by stable IDs, so a timed-out write is safely retriable.
type GraphDB interface {
	Close(ctx context.Context) error
	Health(ctx context.Context) health.Status

	// Container hierarchy.
	UpsertMultiverse(ctx context.Context, m entities.Multiverse) error
	MultiverseExists(ctx context.Context, id string) (bool, error)
	UpsertUniverse(ctx context.Context, u entities.Universe) error
	GetUniverse(ctx context.Context, id string) (*entities.Universe, error)
	UniverseExists(ctx context.Context, id string) (bool, error)
	// CountUniverseDependents returns the number of nodes that would be
	// orphaned by deleting the universe.
	CountUniverseDependents(ctx context.Context, id string) (int64, error)
	// DeleteUniverse removes the universe; with cascade it removes every
	// descendant node and returns the number of nodes deleted.
	DeleteUniverse(ctx context.Context, id string, cascade bool) (int64, error)

	// Entities and facts.
	UpsertEntity(ctx context.Context, e entities.Entity) error
	GetEntity(ctx context.Context, id string) (*entities.Entity, error)
	EntityExists(ctx context.Context, id string) (bool, error)
	DeleteEntity(ctx context.Context, id string) error
	ListEntities(ctx context.Context, universeID string, kind entities.EntityKind, limit int) ([]entities.Entity, error)
	UpsertFact(ctx context.Context, f entities.Fact) error
	UpsertEvent(ctx context.Context, e entities.Event) error

	// Relationships.
	UpsertRelationship(ctx context.Context, r entities.Relationship) error
	GetRelationships(ctx context.Context, entityID string, relType entities.RelationType) ([]entities.Relationship, error)
}
