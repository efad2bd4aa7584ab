package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

// InsertMemory stores a memory record. The embedding itself goes to the
// vector store; only the embedded flag is persisted here.
func (c *Client) InsertMemory(ctx context.Context, m entities.CharacterMemory) error {
	if _, err := c.collection(colMemories).InsertOne(ctx, m); err != nil {
		return fmt.Errorf("inserting memory: %w", err)
	}
	return nil
}

// ListMemories returns an entity's memories, newest first.
func (c *Client) ListMemories(ctx context.Context, ownerID string, limit int) ([]entities.CharacterMemory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := c.collection(colMemories).Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing memories: %w", err)
	}
	defer cursor.Close(ctx)

	var memories []entities.CharacterMemory
	if err := cursor.All(ctx, &memories); err != nil {
		return nil, fmt.Errorf("decoding memories: %w", err)
	}
	return memories, nil
}

// GetMemories loads records for a set of IDs. IDs with no backing document
// are silently absent from the result.
func (c *Client) GetMemories(ctx context.Context, ids []string) ([]entities.CharacterMemory, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := c.collection(colMemories).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("loading memories: %w", err)
	}
	defer cursor.Close(ctx)

	var memories []entities.CharacterMemory
	if err := cursor.All(ctx, &memories); err != nil {
		return nil, fmt.Errorf("decoding memories: %w", err)
	}
	return memories, nil
}
