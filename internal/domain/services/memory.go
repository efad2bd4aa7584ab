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

// MemoryService stores subjective character memories. Records live in the
// document store; when an embedder is configured each record is paired with
// a vector in the vector store for similarity recall.
type MemoryService struct {
	docs     ports.DocumentDB
	vectors  ports.VectorDB
	embedder ports.Embedder
	log      *slog.Logger
}

// NewMemoryService creates a MemoryService. embedder and vectors may be nil
// together, in which case recall degrades to a recency list.
func NewMemoryService(docs ports.DocumentDB, vectors ports.VectorDB, embedder ports.Embedder, log *slog.Logger) *MemoryService {
	if log == nil {
		log = slog.Default()
	}
	return &MemoryService{docs: docs, vectors: vectors, embedder: embedder, log: log}
}

// RecalledMemory is one recall result with its similarity score. Score is
// zero when recall fell back to recency.
type RecalledMemory struct {
	Memory entities.CharacterMemory `json:"memory"`
	Score  float32                  `json:"score"`
}

// Store records a memory. The document write is the source of truth; the
// embedding upsert follows it, and an embedding failure downgrades the
// record to unembedded rather than losing it.
func (s *MemoryService) Store(ctx context.Context, ownerID, sceneID, content string, tags []string) (*entities.CharacterMemory, error) {
	m := entities.CharacterMemory{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		SceneID:   sceneID,
		Content:   content,
		Tags:      tags,
		CreatedAt: time.Now(),
	}

	if s.embedder != nil && s.vectors != nil {
		embedding, err := s.embedder.Embed(ctx, content)
		if err != nil {
			s.log.WarnContext(ctx, "embedding failed, storing memory without vector",
				slog.String("owner_id", ownerID), slog.String("error", err.Error()))
		} else {
			m.Embedding = embedding
			m.Embedded = true
		}
	}

	if err := s.docs.InsertMemory(ctx, m); err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("inserting memory: %w", err))
	}

	if m.Embedded {
		if err := s.vectors.UpsertMemory(ctx, m.ID, m.OwnerID, m.Embedding); err != nil {
			// The record exists; it is just not recallable by similarity.
			s.log.WarnContext(ctx, "vector upsert failed",
				slog.String("memory_id", m.ID), slog.String("error", err.Error()))
			m.Embedded = false
		}
	}
	return &m, nil
}

// Recall returns memories similar to the query, scoped to the owning
// entity. Without an embedder it falls back to the owner's most recent
// memories.
func (s *MemoryService) Recall(ctx context.Context, ownerID, query string, limit int) ([]RecalledMemory, error) {
	if limit <= 0 {
		limit = 10
	}

	if s.embedder == nil || s.vectors == nil {
		return s.recentFallback(ctx, ownerID, limit)
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, dispatch.Backend("embedder", fmt.Errorf("embedding query: %w", err))
	}
	hits, err := s.vectors.SearchMemories(ctx, embedding, ownerID, limit)
	if err != nil {
		return nil, dispatch.Backend("vector", fmt.Errorf("searching memories: %w", err))
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(hits))
	scores := make(map[string]float32, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.MemoryID)
		scores[hit.MemoryID] = hit.Score
	}
	records, err := s.docs.GetMemories(ctx, ids)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("loading memories: %w", err))
	}

	byID := make(map[string]entities.CharacterMemory, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	recalled := make([]RecalledMemory, 0, len(hits))
	for _, hit := range hits {
		record, ok := byID[hit.MemoryID]
		if !ok {
			continue // vector orphaned by a lost document write
		}
		recalled = append(recalled, RecalledMemory{Memory: record, Score: hit.Score})
	}
	return recalled, nil
}

// List returns the owner's memories by recency.
func (s *MemoryService) List(ctx context.Context, ownerID string, limit int) ([]entities.CharacterMemory, error) {
	if limit <= 0 {
		limit = 50
	}
	items, err := s.docs.ListMemories(ctx, ownerID, limit)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("listing memories: %w", err))
	}
	return items, nil
}

func (s *MemoryService) recentFallback(ctx context.Context, ownerID string, limit int) ([]RecalledMemory, error) {
	items, err := s.docs.ListMemories(ctx, ownerID, limit)
	if err != nil {
		return nil, dispatch.Backend("document", fmt.Errorf("listing memories: %w", err))
	}
	recalled := make([]RecalledMemory, 0, len(items))
	for _, m := range items {
		recalled = append(recalled, RecalledMemory{Memory: m})
	}
	return recalled, nil
}
