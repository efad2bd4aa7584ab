package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

// InsertProposal stores a new proposed change.
func (c *Client) InsertProposal(ctx context.Context, p entities.ProposedChange) error {
	if _, err := c.collection(colProposals).InsertOne(ctx, p); err != nil {
		return fmt.Errorf("inserting proposal: %w", err)
	}
	return nil
}

// GetProposal loads a proposed change by ID. A missing proposal returns
// (nil, nil).
func (c *Client) GetProposal(ctx context.Context, id string) (*entities.ProposedChange, error) {
	var p entities.ProposedChange
	err := c.collection(colProposals).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading proposal: %w", err)
	}
	return &p, nil
}

// ListProposals returns proposals in a universe, newest first, optionally
// filtered by status.
func (c *Client) ListProposals(ctx context.Context, universeID string, status entities.ProposalStatus, limit int) ([]entities.ProposedChange, error) {
	filter := bson.M{"universe_id": universeID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := c.collection(colProposals).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	defer cursor.Close(ctx)

	var proposals []entities.ProposedChange
	if err := cursor.All(ctx, &proposals); err != nil {
		return nil, fmt.Errorf("decoding proposals: %w", err)
	}
	return proposals, nil
}

// TransitionProposal moves a pending proposal to a terminal status in one
// conditional update. The status filter makes the check-and-set atomic: a
// proposal already reviewed matches nothing and the call reports false.
func (c *Client) TransitionProposal(ctx context.Context, id string, to entities.ProposalStatus, reviewedBy, note string, at time.Time) (bool, error) {
	filter := bson.M{"_id": id, "status": entities.ProposalPending}
	update := bson.M{"$set": bson.M{
		"status":      to,
		"reviewed_by": reviewedBy,
		"review_note": note,
		"reviewed_at": at,
	}}

	result, err := c.collection(colProposals).UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("transitioning proposal: %w", err)
	}
	return result.ModifiedCount == 1, nil
}
