package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/domain/ports"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("embeds and upserts vector", func(t *testing.T) {
		docs := newMockDocumentDB()
		vectors := newMockVectorDB()
		svc := NewMemoryService(docs, vectors, &mockEmbedder{}, nil)

		m, err := svc.Store(ctx, "e1", "s1", "I saw the captain take the coin.", []string{"betrayal"})
		require.NoError(t, err)
		assert.True(t, m.Embedded)
		assert.Contains(t, docs.memories, m.ID)
		assert.Contains(t, vectors.upserted, m.ID)
	})

	t.Run("embedding failure stores record unembedded", func(t *testing.T) {
		docs := newMockDocumentDB()
		vectors := newMockVectorDB()
		svc := NewMemoryService(docs, vectors, &mockEmbedder{failWith: errStoreDown}, nil)

		m, err := svc.Store(ctx, "e1", "", "half-remembered dream", nil)
		require.NoError(t, err, "embedding failure never loses the record")
		assert.False(t, m.Embedded)
		assert.Contains(t, docs.memories, m.ID)
		assert.Empty(t, vectors.upserted)
	})

	t.Run("vector upsert failure downgrades embedded flag", func(t *testing.T) {
		docs := newMockDocumentDB()
		vectors := newMockVectorDB()
		vectors.upsertError = errStoreDown
		svc := NewMemoryService(docs, vectors, &mockEmbedder{}, nil)

		m, err := svc.Store(ctx, "e1", "", "the gate code was 4-7-1", nil)
		require.NoError(t, err)
		assert.False(t, m.Embedded)
		assert.Contains(t, docs.memories, m.ID)
	})

	t.Run("no embedder configured", func(t *testing.T) {
		docs := newMockDocumentDB()
		svc := NewMemoryService(docs, nil, nil, nil)

		m, err := svc.Store(ctx, "e1", "", "plain record", nil)
		require.NoError(t, err)
		assert.False(t, m.Embedded)
	})
}

func TestMemoryRecall(t *testing.T) {
	ctx := context.Background()

	t.Run("similarity recall joins hits with records", func(t *testing.T) {
		docs := newMockDocumentDB()
		docs.memories["m1"] = entities.CharacterMemory{ID: "m1", OwnerID: "e1", Content: "the captain took the coin"}
		docs.memories["m2"] = entities.CharacterMemory{ID: "m2", OwnerID: "e1", Content: "rain on the docks"}

		vectors := newMockVectorDB()
		vectors.hits = []ports.MemoryHit{
			{MemoryID: "m1", OwnerID: "e1", Score: 0.92},
			{MemoryID: "m2", OwnerID: "e1", Score: 0.41},
		}
		svc := NewMemoryService(docs, vectors, &mockEmbedder{}, nil)

		recalled, err := svc.Recall(ctx, "e1", "who was bribed?", 5)
		require.NoError(t, err)
		require.Len(t, recalled, 2)
		assert.Equal(t, "m1", recalled[0].Memory.ID)
		assert.InDelta(t, 0.92, recalled[0].Score, 0.001)
	})

	t.Run("orphaned vectors are skipped", func(t *testing.T) {
		docs := newMockDocumentDB()
		docs.memories["m1"] = entities.CharacterMemory{ID: "m1", OwnerID: "e1"}

		vectors := newMockVectorDB()
		vectors.hits = []ports.MemoryHit{
			{MemoryID: "m1", Score: 0.8},
			{MemoryID: "lost", Score: 0.7},
		}
		svc := NewMemoryService(docs, vectors, &mockEmbedder{}, nil)

		recalled, err := svc.Recall(ctx, "e1", "anything", 5)
		require.NoError(t, err)
		require.Len(t, recalled, 1)
		assert.Equal(t, "m1", recalled[0].Memory.ID)
	})

	t.Run("falls back to recency without embedder", func(t *testing.T) {
		docs := newMockDocumentDB()
		docs.memories["old"] = entities.CharacterMemory{ID: "old", OwnerID: "e1", CreatedAt: time.Now().Add(-time.Hour)}
		docs.memories["new"] = entities.CharacterMemory{ID: "new", OwnerID: "e1", CreatedAt: time.Now()}
		svc := NewMemoryService(docs, nil, nil, nil)

		recalled, err := svc.Recall(ctx, "e1", "ignored", 5)
		require.NoError(t, err)
		require.Len(t, recalled, 2)
		assert.Equal(t, "new", recalled[0].Memory.ID)
		assert.Zero(t, recalled[0].Score)
	})

	t.Run("no hits returns empty", func(t *testing.T) {
		svc := NewMemoryService(newMockDocumentDB(), newMockVectorDB(), &mockEmbedder{}, nil)
		recalled, err := svc.Recall(ctx, "e1", "nothing", 5)
		require.NoError(t, err)
		assert.Empty(t, recalled)
	})
}
