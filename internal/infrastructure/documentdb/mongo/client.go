// Package mongo implements the document store on MongoDB. Scenes, turns,
// proposed changes, working state, parties, and memory records each live in
// their own collection; every write touches a single document so the store's
// per-document atomicity is the only transaction mechanism needed.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/canonkeep/canonkeep/internal/health"
	"github.com/canonkeep/canonkeep/internal/infrastructure/config"
)

const (
	colScenes       = "scenes"
	colTurns        = "turns"
	colProposals    = "proposals"
	colWorkingState = "working_state"
	colParties      = "parties"
	colMemories     = "memories"
)

// Client wraps a MongoDB database handle.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewClient connects and pings the server before returning.
func NewClient(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	name := cfg.Database
	if name == "" {
		name = "canonkeep"
	}
	return &Client{client: client, db: client.Database(name)}, nil
}

// Close disconnects from the server.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Health pings the primary with a short deadline.
func (c *Client) Health(ctx context.Context) health.Status {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return health.Unhealthy(err.Error())
	}
	return health.Healthy("mongo reachable")
}

func (c *Client) collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}
