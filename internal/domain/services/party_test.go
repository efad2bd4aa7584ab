package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonkeep/canonkeep/internal/dispatch"
)

func TestPartySplitAndMerge(t *testing.T) {
	docs := newMockDocumentDB()
	svc := NewSceneService(docs, nil)
	ctx := context.Background()

	p, err := svc.CreateParty(ctx, "The Lantern Company", []string{"e1", "e2", "e3"})
	require.NoError(t, err)

	t.Run("split carves a sub-group", func(t *testing.T) {
		split, err := svc.SplitParty(ctx, p.ID, "scouts", []string{"e1", "e2"})
		require.NoError(t, err)
		require.Len(t, split.Splits, 1)
		assert.Equal(t, "scouts", split.Splits[0].Label)
		assert.ElementsMatch(t, []string{"e1", "e2"}, split.Splits[0].MemberIDs)
	})

	t.Run("split rejects non-members", func(t *testing.T) {
		_, err := svc.SplitParty(ctx, p.ID, "imposters", []string{"e1", "stranger"})
		require.Error(t, err)

		var de *dispatch.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, dispatch.KindValidation, de.Kind)
		assert.Equal(t, "stranger", de.Details["entity_id"])
	})

	t.Run("merge dissolves the split", func(t *testing.T) {
		current, err := svc.GetParty(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, current.Splits, 1)

		merged, err := svc.MergeParty(ctx, p.ID, current.Splits[0].ID)
		require.NoError(t, err)
		assert.Empty(t, merged.Splits)
	})

	t.Run("merging an unknown split", func(t *testing.T) {
		_, err := svc.MergeParty(ctx, p.ID, "no-such-split")
		require.Error(t, err)
		assert.Equal(t, dispatch.KindNotFound, dispatch.KindOf(err))
	})
}

func TestGetPartyNotFound(t *testing.T) {
	svc := NewSceneService(newMockDocumentDB(), nil)

	_, err := svc.GetParty(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, dispatch.KindNotFound, dispatch.KindOf(err))
}
