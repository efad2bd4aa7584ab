package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonkeep/canonkeep/internal/authority"
	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/schema"
)

// buildRegistry mirrors startup wiring. Handlers close over nil services
// and are never invoked here.
func buildRegistry(t *testing.T) *dispatch.Registry {
	t.Helper()
	registry := dispatch.NewRegistry()
	RegisterAll(registry, Services{})
	return registry
}

func TestRegisterAllIsCoveredByDefaultRules(t *testing.T) {
	registry := buildRegistry(t)

	matrix, err := authority.NewMatrix(authority.DefaultRules())
	require.NoError(t, err)

	assert.NoError(t, matrix.VerifyRegistry(registry.Names(), entities.AgentLoremaster))
}

func TestRegisterAllDeclaresStores(t *testing.T) {
	registry := buildRegistry(t)

	stores := map[string]bool{
		"graph": true, "document": true, "vector": true, "object": true, "search": true,
	}
	for _, name := range registry.Names() {
		op, ok := registry.Get(name)
		require.True(t, ok)
		assert.True(t, stores[op.Store], "operation %s declares unknown store %q", name, op.Store)
		assert.NotEmpty(t, op.Description, "operation %s has no description", name)
	}
}

func TestCanonicalWritesStayOnTheGraph(t *testing.T) {
	registry := buildRegistry(t)

	for _, name := range registry.Names() {
		if !authority.IsCanonicalWrite(name) {
			continue
		}
		op, _ := registry.Get(name)
		assert.Equal(t, "graph", op.Store, "canonical write %s must target the graph store", name)
	}
}

func TestRelationshipTypeShapeIsClosed(t *testing.T) {
	registry := buildRegistry(t)
	op, ok := registry.Get("graph_create_relationship")
	require.True(t, ok)

	params := map[string]any{
		"from_id": "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		"to_id":   "0d4cbb9f-6a9e-4f0a-8f1a-6f2b9a6c1d2e",
		"type":    "KNOWS",
	}
	_, err := schema.Validate(op.Shape, params)
	assert.NoError(t, err)

	// The type lands inside a graph query pattern; anything outside the
	// known set must fail validation, query syntax included.
	for _, bad := range []string{
		"BLOOD_PACT",
		"KNOWS]->() MATCH (n) DETACH DELETE n //",
	} {
		params["type"] = bad
		_, err := schema.Validate(op.Shape, params)
		require.Error(t, err, "type %q must be rejected", bad)
	}
}

func TestGetParamHelpers(t *testing.T) {
	params := map[string]any{
		"name":  "Mira",
		"force": true,
		"limit": float64(7),
		"turn":  3,
		"props": map[string]any{"mood": "wary"},
		"ids":   []any{"a", "b"},
		"tags":  []string{"x"},
		"meta":  map[string]any{"scene": "s1", "n": 2},
	}

	assert.Equal(t, "Mira", getString(params, "name"))
	assert.Equal(t, "", getString(params, "missing"))
	assert.True(t, getBool(params, "force"))
	assert.False(t, getBool(params, "missing"))
	assert.Equal(t, 7, getInt(params, "limit"))
	assert.Equal(t, 3, getInt(params, "turn"))
	assert.Equal(t, 0, getInt(params, "missing"))
	assert.Equal(t, map[string]any{"mood": "wary"}, getMap(params, "props"))
	assert.Equal(t, []string{"a", "b"}, getStringList(params, "ids"))
	assert.Equal(t, []string{"x"}, getStringList(params, "tags"))
	assert.Nil(t, getStringList(params, "missing"))
	assert.Equal(t, map[string]string{"scene": "s1"}, getStringMap(params, "meta"))
}
