package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/infrastructure/config"
)

func newTestSink(t *testing.T) *Sink {
	t.Helper()

	path := filepath.Join(t.TempDir(), "audit.db")
	sink, err := NewSink(context.Background(), config.AuditConfig{SQLitePath: path})
	require.NoError(t, err)
	t.Cleanup(func() { sink.Close() })
	return sink
}

func record(operation, agentID string, success bool) entities.AuditRecord {
	rec := entities.AuditRecord{
		Operation: operation,
		AgentType: entities.AgentNarrator,
		AgentID:   agentID,
		Params:    map[string]any{"title": "The Vault"},
		Success:   success,
		ElapsedMS: 12,
		CreatedAt: time.Now().UTC(),
	}
	if !success {
		rec.Error = "store down"
	}
	return rec
}

func TestNewSinkRequiresPath(t *testing.T) {
	_, err := NewSink(context.Background(), config.AuditConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestAppendAndRecent(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	require.NoError(t, sink.Append(ctx, record("doc_create_scene", "narrator-1", true)))
	require.NoError(t, sink.Append(ctx, record("doc_add_turn", "narrator-1", true)))
	require.NoError(t, sink.Append(ctx, record("graph_create_entity", "lm-1", false)))

	records, err := sink.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first.
	assert.Equal(t, "graph_create_entity", records[0].Operation)
	assert.Equal(t, "doc_add_turn", records[1].Operation)
	assert.Equal(t, "doc_create_scene", records[2].Operation)

	assert.False(t, records[0].Success)
	assert.Equal(t, "store down", records[0].Error)
	assert.Equal(t, entities.AgentNarrator, records[0].AgentType)
	assert.Equal(t, map[string]any{"title": "The Vault"}, records[0].Params)
	assert.Equal(t, int64(12), records[0].ElapsedMS)
	assert.NotZero(t, records[0].ID)
}

func TestRecentHonorsLimit(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, sink.Append(ctx, record("memory_store", "p1", true)))
	}

	records, err := sink.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFindByOperation(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	require.NoError(t, sink.Append(ctx, record("memory_store", "p1", true)))
	require.NoError(t, sink.Append(ctx, record("memory_recall", "p1", true)))
	require.NoError(t, sink.Append(ctx, record("memory_store", "p2", true)))

	records, err := sink.FindByOperation(ctx, "memory_store", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "p2", records[0].AgentID)
	assert.Equal(t, "p1", records[1].AgentID)

	none, err := sink.FindByOperation(ctx, "memory_erase", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindByAgent(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	require.NoError(t, sink.Append(ctx, record("memory_store", "p1", true)))
	require.NoError(t, sink.Append(ctx, record("doc_add_turn", "narrator-1", true)))
	require.NoError(t, sink.Append(ctx, record("memory_recall", "p1", false)))

	records, err := sink.FindByAgent(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "memory_recall", records[0].Operation)
	assert.Equal(t, "memory_store", records[1].Operation)
}

func TestAppendNilParams(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	rec := record("doc_get_scene", "p1", true)
	rec.Params = nil
	require.NoError(t, sink.Append(ctx, rec))

	records, err := sink.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Params)
}
