package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

// SetWorkingState replaces the scene-scoped snapshot, inserting it when
// absent.
func (c *Client) SetWorkingState(ctx context.Context, w entities.WorkingState) error {
	opts := options.Replace().SetUpsert(true)
	_, err := c.collection(colWorkingState).ReplaceOne(ctx, bson.M{"_id": w.ID}, w, opts)
	if err != nil {
		return fmt.Errorf("setting working state: %w", err)
	}
	return nil
}

// GetWorkingState loads the snapshot for one entity in one scene. A missing
// snapshot returns (nil, nil).
func (c *Client) GetWorkingState(ctx context.Context, sceneID, entityID string) (*entities.WorkingState, error) {
	var w entities.WorkingState
	err := c.collection(colWorkingState).
		FindOne(ctx, bson.M{"scene_id": sceneID, "entity_id": entityID}).
		Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading working state: %w", err)
	}
	return &w, nil
}

// DeleteWorkingStateForScene removes every snapshot bound to the scene and
// returns the number removed.
func (c *Client) DeleteWorkingStateForScene(ctx context.Context, sceneID string) (int64, error) {
	result, err := c.collection(colWorkingState).DeleteMany(ctx, bson.M{"scene_id": sceneID})
	if err != nil {
		return 0, fmt.Errorf("clearing working state: %w", err)
	}
	return result.DeletedCount, nil
}

// UpsertParty replaces the party document, inserting it when absent.
func (c *Client) UpsertParty(ctx context.Context, p entities.Party) error {
	opts := options.Replace().SetUpsert(true)
	_, err := c.collection(colParties).ReplaceOne(ctx, bson.M{"_id": p.ID}, p, opts)
	if err != nil {
		return fmt.Errorf("upserting party: %w", err)
	}
	return nil
}

// GetParty loads a party by ID. A missing party returns (nil, nil).
func (c *Client) GetParty(ctx context.Context, id string) (*entities.Party, error) {
	var p entities.Party
	err := c.collection(colParties).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading party: %w", err)
	}
	return &p, nil
}
