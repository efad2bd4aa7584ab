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

// UpsertScene replaces the scene document, inserting it when absent.
func (c *Client) UpsertScene(ctx context.Context, s entities.Scene) error {
	opts := options.Replace().SetUpsert(true)
	_, err := c.collection(colScenes).ReplaceOne(ctx, bson.M{"_id": s.ID}, s, opts)
	if err != nil {
		return fmt.Errorf("upserting scene: %w", err)
	}
	return nil
}

// GetScene loads a scene by ID. A missing scene returns (nil, nil).
func (c *Client) GetScene(ctx context.Context, id string) (*entities.Scene, error) {
	var s entities.Scene
	err := c.collection(colScenes).FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading scene: %w", err)
	}
	return &s, nil
}

// ListScenes returns scenes in a universe, newest first, optionally filtered
// by status.
func (c *Client) ListScenes(ctx context.Context, universeID string, status entities.SceneStatus, limit int) ([]entities.Scene, error) {
	filter := bson.M{"universe_id": universeID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := c.collection(colScenes).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing scenes: %w", err)
	}
	defer cursor.Close(ctx)

	var scenes []entities.Scene
	if err := cursor.All(ctx, &scenes); err != nil {
		return nil, fmt.Errorf("decoding scenes: %w", err)
	}
	return scenes, nil
}

// InsertTurn appends a turn document.
func (c *Client) InsertTurn(ctx context.Context, t entities.Turn) error {
	if _, err := c.collection(colTurns).InsertOne(ctx, t); err != nil {
		return fmt.Errorf("inserting turn: %w", err)
	}
	return nil
}

// NextTurnNumber returns 1 + the highest turn number in the scene. The
// read and the following insert are separate round-trips: two concurrent
// AddTurn calls on one scene can observe the same maximum. Turns within a
// scene are serialized by the narrator driving it.
func (c *Client) NextTurnNumber(ctx context.Context, sceneID string) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "number", Value: -1}})

	var last entities.Turn
	err := c.collection(colTurns).FindOne(ctx, bson.M{"scene_id": sceneID}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("finding last turn: %w", err)
	}
	return last.Number + 1, nil
}
