package mcp

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonkeep/canonkeep/internal/application/ops"
	"github.com/canonkeep/canonkeep/internal/audit"
	"github.com/canonkeep/canonkeep/internal/authority"
	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/health"
)

func testServer(t *testing.T, agent entities.AgentContext) *Server {
	t.Helper()

	registry := dispatch.NewRegistry()
	ops.RegisterAll(registry, ops.Services{})

	matrix, err := authority.NewMatrix(authority.DefaultRules())
	require.NoError(t, err)

	logger := audit.NewLogger(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)), nil)
	dispatcher, err := dispatch.New(registry, matrix, logger)
	require.NoError(t, err)

	probe := func(context.Context) health.Report {
		return health.Aggregate("test", map[string]health.Status{
			"graph": health.Healthy("ok"),
		})
	}
	return NewServer(dispatcher, agent, probe, "test")
}

func TestListOperationsReportsPinnedIdentity(t *testing.T) {
	agent := entities.AgentContext{AgentID: "narrator-1", AgentType: entities.AgentNarrator}
	s := testServer(t, agent)

	_, out, err := s.handleListOperations(context.Background(), nil, ListOperationsInput{})
	require.NoError(t, err)

	assert.Equal(t, "narrator-1", out.Agent)
	assert.Equal(t, "narrator", out.AgentType)
	require.NotEmpty(t, out.Operations)

	byName := make(map[string]OperationOutput, len(out.Operations))
	for _, op := range out.Operations {
		byName[op.Name] = op
	}

	assert.Equal(t, []string{"loremaster"}, byName["graph_create_entity"].AllowedTo)
	assert.ElementsMatch(t,
		[]string{"loremaster", "narrator", "player", "indexer", "system"},
		byName["graph_get_entity"].AllowedTo)
	assert.Equal(t, "graph", byName["graph_get_entity"].Store)
}

func TestInvokeRunsAsThePinnedAgent(t *testing.T) {
	agent := entities.AgentContext{AgentID: "p1", AgentType: entities.AgentPlayer}
	s := testServer(t, agent)

	// A player asking for a canonical write is refused regardless of what
	// the request claims about itself.
	_, _, err := s.handleInvoke(context.Background(), nil, InvokeInput{
		Operation: "graph_create_entity",
		Params: map[string]any{
			"universe_id": "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			"name":        "Mira",
			"kind":        "instance",
		},
	})

	require.Error(t, err)
	assert.Equal(t, dispatch.KindForbidden, dispatch.KindOf(err))
}

func TestHealthToolAggregates(t *testing.T) {
	agent := entities.AgentContext{AgentID: "ix1", AgentType: entities.AgentIndexer}
	s := testServer(t, agent)

	_, out, err := s.handleHealth(context.Background(), nil, HealthInput{})
	require.NoError(t, err)

	assert.Equal(t, "healthy", out.State)
	assert.Equal(t, "test", out.Version)
	assert.Contains(t, out.Stores, "graph")
}
