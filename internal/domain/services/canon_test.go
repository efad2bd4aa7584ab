package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

func TestCreateEntity(t *testing.T) {
	graph := newMockGraphDB()
	graph.universes["u1"] = entities.Universe{ID: "u1"}
	svc := NewCanonService(graph, newMockDocumentDB(), nil)
	ctx := context.Background()

	t.Run("creates archetype with default canon level", func(t *testing.T) {
		e, err := svc.CreateEntity(ctx, EntityInput{
			UniverseID: "u1",
			Name:       "Dragon",
			Kind:       entities.EntityArchetype,
			Provenance: entities.ProvenanceGM,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, entities.CanonProposed, e.CanonLevel)
		assert.Contains(t, graph.entities, e.ID)
	})

	t.Run("instance requires existing archetype", func(t *testing.T) {
		_, err := svc.CreateEntity(ctx, EntityInput{
			UniverseID:  "u1",
			Name:        "Smaug",
			Kind:        entities.EntityInstance,
			ArchetypeID: "missing-archetype",
		})
		require.Error(t, err)
		assert.Equal(t, dispatch.KindNotFound, dispatch.KindOf(err))
	})

	t.Run("instance links to existing archetype", func(t *testing.T) {
		arch, err := svc.CreateEntity(ctx, EntityInput{
			UniverseID: "u1",
			Name:       "Dragon",
			Kind:       entities.EntityArchetype,
		})
		require.NoError(t, err)

		inst, err := svc.CreateEntity(ctx, EntityInput{
			UniverseID:  "u1",
			Name:        "Smaug",
			Kind:        entities.EntityInstance,
			ArchetypeID: arch.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, arch.ID, inst.ArchetypeID)
	})
}

func TestUpdateEntityPreservesCreatedAt(t *testing.T) {
	graph := newMockGraphDB()
	svc := NewCanonService(graph, newMockDocumentDB(), nil)
	ctx := context.Background()

	created := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	graph.entities["e1"] = entities.Entity{
		ID:         "e1",
		UniverseID: "u1",
		Name:       "Elara",
		CanonLevel: entities.CanonCanon,
		Properties: map[string]any{"class": "wizard", "level": 4},
		CreatedAt:  created,
		UpdatedAt:  created,
	}

	updated, err := svc.UpdateEntity(ctx, "e1", "", map[string]any{"class": "wizard", "level": 5})
	require.NoError(t, err)

	assert.Equal(t, created, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created))
	assert.Equal(t, 5, updated.Properties["level"])
	assert.Equal(t, entities.CanonCanon, updated.CanonLevel, "canon level unchanged when not supplied")

	stored := graph.entities["e1"]
	assert.Equal(t, created, stored.CreatedAt)
}

func TestUpdateEntityReplacesPropertyBag(t *testing.T) {
	graph := newMockGraphDB()
	svc := NewCanonService(graph, newMockDocumentDB(), nil)

	graph.entities["e1"] = entities.Entity{
		ID:         "e1",
		Properties: map[string]any{"hp": 10, "mood": "grim"},
		CreatedAt:  time.Now(),
	}

	updated, err := svc.UpdateEntity(context.Background(), "e1", "", map[string]any{"hp": 12})
	require.NoError(t, err)

	assert.Equal(t, 12, updated.Properties["hp"])
	assert.NotContains(t, updated.Properties, "mood", "full replace, not merge")
}

func TestUpdateEntityNotFound(t *testing.T) {
	svc := NewCanonService(newMockGraphDB(), newMockDocumentDB(), nil)

	_, err := svc.UpdateEntity(context.Background(), "ghost", "", nil)
	require.Error(t, err)
	assert.Equal(t, dispatch.KindNotFound, dispatch.KindOf(err))
}

func TestDeleteUniverse(t *testing.T) {
	ctx := context.Background()

	t.Run("missing universe", func(t *testing.T) {
		svc := NewCanonService(newMockGraphDB(), newMockDocumentDB(), nil)
		_, err := svc.DeleteUniverse(ctx, "nope", false)
		require.Error(t, err)
		assert.Equal(t, dispatch.KindNotFound, dispatch.KindOf(err))
	})

	t.Run("dependents without force conflicts", func(t *testing.T) {
		graph := newMockGraphDB()
		graph.universes["u1"] = entities.Universe{ID: "u1", Name: "Aethel"}
		graph.dependents["u1"] = 3
		svc := NewCanonService(graph, newMockDocumentDB(), nil)

		_, err := svc.DeleteUniverse(ctx, "u1", false)
		require.Error(t, err)

		var de *dispatch.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, dispatch.KindConflict, de.Kind)
		assert.Equal(t, int64(3), de.Details["dependents"])
		assert.Contains(t, graph.universes, "u1", "nothing deleted on conflict")
	})

	t.Run("force cascades", func(t *testing.T) {
		graph := newMockGraphDB()
		graph.universes["u1"] = entities.Universe{ID: "u1", Name: "Aethel"}
		graph.dependents["u1"] = 3
		svc := NewCanonService(graph, newMockDocumentDB(), nil)

		deleted, err := svc.DeleteUniverse(ctx, "u1", true)
		require.NoError(t, err)
		assert.Equal(t, int64(4), deleted)
		assert.NotContains(t, graph.universes, "u1")
	})

	t.Run("empty universe deletes without force", func(t *testing.T) {
		graph := newMockGraphDB()
		graph.universes["u1"] = entities.Universe{ID: "u1"}
		svc := NewCanonService(graph, newMockDocumentDB(), nil)

		_, err := svc.DeleteUniverse(ctx, "u1", false)
		require.NoError(t, err)
	})
}

func TestWritesRequireExistingContainer(t *testing.T) {
	ctx := context.Background()

	t.Run("universe under unknown multiverse", func(t *testing.T) {
		graph := newMockGraphDB()
		svc := NewCanonService(graph, newMockDocumentDB(), nil)

		_, err := svc.CreateUniverse(ctx, "no-such-multiverse", "Aethel", "")
		require.Error(t, err)

		var de *dispatch.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, dispatch.KindNotFound, de.Kind)
		assert.Equal(t, "no-such-multiverse", de.Details["id"])
		assert.Empty(t, graph.universes, "nothing written for a missing container")
	})

	t.Run("entity under unknown universe", func(t *testing.T) {
		graph := newMockGraphDB()
		svc := NewCanonService(graph, newMockDocumentDB(), nil)

		_, err := svc.CreateEntity(ctx, EntityInput{UniverseID: "ghost-universe", Name: "Mira"})
		require.Error(t, err)
		assert.Equal(t, dispatch.KindNotFound, dispatch.KindOf(err))
		assert.Empty(t, graph.entities)
	})

	t.Run("fact under unknown universe", func(t *testing.T) {
		graph := newMockGraphDB()
		svc := NewCanonService(graph, newMockDocumentDB(), nil)

		_, err := svc.CreateFact(ctx, FactInput{UniverseID: "ghost-universe", Statement: "lost"})
		require.Error(t, err)
		assert.Equal(t, dispatch.KindNotFound, dispatch.KindOf(err))
		assert.Empty(t, graph.facts)
	})

	t.Run("event under unknown universe", func(t *testing.T) {
		graph := newMockGraphDB()
		svc := NewCanonService(graph, newMockDocumentDB(), nil)

		_, err := svc.CreateEvent(ctx, FactInput{UniverseID: "ghost-universe", Statement: "lost"})
		require.Error(t, err)
		assert.Equal(t, dispatch.KindNotFound, dispatch.KindOf(err))
		assert.Empty(t, graph.events)
	})

	t.Run("universe under existing multiverse", func(t *testing.T) {
		graph := newMockGraphDB()
		graph.multiverses["m1"] = entities.Multiverse{ID: "m1"}
		svc := NewCanonService(graph, newMockDocumentDB(), nil)

		u, err := svc.CreateUniverse(ctx, "m1", "Aethel", "first age")
		require.NoError(t, err)
		assert.Contains(t, graph.universes, u.ID)
	})
}

func TestCreateRelationship(t *testing.T) {
	ctx := context.Background()

	setup := func() (*mockGraphDB, *CanonService) {
		graph := newMockGraphDB()
		graph.entities["a"] = entities.Entity{ID: "a"}
		graph.entities["b"] = entities.Entity{ID: "b"}
		return graph, NewCanonService(graph, newMockDocumentDB(), nil)
	}

	t.Run("creates edge between existing entities", func(t *testing.T) {
		graph, svc := setup()
		r, err := svc.CreateRelationship(ctx, "a", "b", entities.RelationAllyOf, nil)
		require.NoError(t, err)
		assert.Contains(t, graph.relationships, r.ID)
	})

	t.Run("self-loop rejected for forbidding types", func(t *testing.T) {
		graph, svc := setup()
		_, err := svc.CreateRelationship(ctx, "a", "a", entities.RelationMarriedTo, nil)
		require.Error(t, err)
		assert.Equal(t, dispatch.KindValidation, dispatch.KindOf(err))
		assert.Empty(t, graph.relationships)
	})

	t.Run("self-loop allowed for recursive types", func(t *testing.T) {
		_, svc := setup()
		_, err := svc.CreateRelationship(ctx, "a", "a", entities.RelationContains, nil)
		require.NoError(t, err)
	})

	t.Run("unknown type rejected before any store call", func(t *testing.T) {
		graph, svc := setup()
		_, err := svc.CreateRelationship(ctx, "a", "b", entities.RelationType("BLOOD_PACT"), nil)
		require.Error(t, err)
		assert.Equal(t, dispatch.KindValidation, dispatch.KindOf(err))
		assert.Empty(t, graph.relationships)
	})

	t.Run("type resembling a cypher fragment rejected", func(t *testing.T) {
		// The type string is interpolated into the graph query, so the
		// closed set must catch anything shaped like query syntax.
		graph, svc := setup()
		_, err := svc.CreateRelationship(ctx, "a", "a",
			entities.RelationType("KNOWS]->() MATCH (n) DETACH DELETE n //"), nil)
		require.Error(t, err)
		assert.Equal(t, dispatch.KindValidation, dispatch.KindOf(err))
		assert.Empty(t, graph.relationships)
	})

	t.Run("missing endpoint rejected", func(t *testing.T) {
		graph, svc := setup()
		_, err := svc.CreateRelationship(ctx, "a", "ghost", entities.RelationKnows, nil)
		require.Error(t, err)

		var de *dispatch.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, dispatch.KindNotFound, de.Kind)
		assert.Equal(t, "ghost", de.Details["id"])
		assert.Empty(t, graph.relationships)
	})
}

func TestCreateFactChecksSubject(t *testing.T) {
	graph := newMockGraphDB()
	graph.universes["u1"] = entities.Universe{ID: "u1"}
	graph.entities["hero"] = entities.Entity{ID: "hero"}
	svc := NewCanonService(graph, newMockDocumentDB(), nil)
	ctx := context.Background()

	t.Run("known subject", func(t *testing.T) {
		f, err := svc.CreateFact(ctx, FactInput{
			UniverseID: "u1",
			Statement:  "The hero carries a cursed blade",
			SubjectID:  "hero",
		})
		require.NoError(t, err)
		assert.Equal(t, entities.CanonProposed, f.CanonLevel)
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, err := svc.CreateFact(ctx, FactInput{
			UniverseID: "u1",
			Statement:  "Nobody said this",
			SubjectID:  "ghost",
		})
		require.Error(t, err)
		assert.Equal(t, dispatch.KindNotFound, dispatch.KindOf(err))
	})

	t.Run("subjectless fact allowed", func(t *testing.T) {
		_, err := svc.CreateFact(ctx, FactInput{
			UniverseID: "u1",
			Statement:  "Magic is fading from the world",
		})
		require.NoError(t, err)
	})
}

func TestCreateEventCarriesTimestamp(t *testing.T) {
	graph := newMockGraphDB()
	graph.universes["u1"] = entities.Universe{ID: "u1"}
	svc := NewCanonService(graph, newMockDocumentDB(), nil)

	e, err := svc.CreateEvent(context.Background(), FactInput{
		UniverseID: "u1",
		Statement:  "The citadel fell",
		OccurredAt: "Third Age, year 412",
	})
	require.NoError(t, err)
	assert.Equal(t, "Third Age, year 412", e.OccurredAt)
	assert.Contains(t, graph.events, e.ID)
}

func TestBackendFailuresWrapAsBackendErrors(t *testing.T) {
	graph := newMockGraphDB()
	graph.failWith = errStoreDown
	svc := NewCanonService(graph, newMockDocumentDB(), nil)

	_, err := svc.CreateMultiverse(context.Background(), "everything")
	require.Error(t, err)
	assert.Equal(t, dispatch.KindBackend, dispatch.KindOf(err))
	assert.ErrorIs(t, err, errStoreDown)
}
