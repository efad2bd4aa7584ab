package ports

import (
	"context"

	"github.com/canonkeep/canonkeep/internal/health"
)

// MemoryHit is one similarity-search result: a memory record ID with its
// cosine score.
type MemoryHit struct {
	MemoryID string  `json:"memory_id"`
	OwnerID  string  `json:"owner_id"`
	Score    float32 `json:"score"`
}

// VectorDB stores memory embeddings for similarity recall.
type VectorDB interface {
	Close(ctx context.Context) error
	Health(ctx context.Context) health.Status

	// EnsureCollection creates the collection if it doesn't exist.
	EnsureCollection(ctx context.Context, vectorSize uint64) error

	// UpsertMemory stores an embedding keyed by the memory record's ID.
	UpsertMemory(ctx context.Context, memoryID, ownerID string, embedding []float32) error

	// SearchMemories returns the closest memories, optionally scoped to one
	// owning entity.
	SearchMemories(ctx context.Context, embedding []float32, ownerID string, limit int) ([]MemoryHit, error)

	// DeleteMemory removes an embedding by memory record ID.
	DeleteMemory(ctx context.Context, memoryID string) error
}
