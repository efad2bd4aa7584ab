// Package neo4j implements the GraphDB port against a Neo4j server.
// Property bags are stored as JSON text on the node, since Neo4j properties
// hold primitives only.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/canonkeep/canonkeep/internal/health"
	"github.com/canonkeep/canonkeep/internal/infrastructure/config"
)

// Client implements ports.GraphDB. Safe for concurrent use; the driver
// pools connections internally.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewClient connects to Neo4j and verifies connectivity. Configuration is
// validated first: a missing credential fails here, not on first query.
func NewClient(ctx context.Context, cfg config.Neo4jConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("connecting to neo4j: %w", err)
	}

	return &Client{driver: driver, database: cfg.Database}, nil
}

// Close releases the driver and its connection pool.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Health probes connectivity with a bounded timeout.
func (c *Client) Health(ctx context.Context) health.Status {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.driver.VerifyConnectivity(probeCtx); err != nil {
		return health.Unhealthy(fmt.Sprintf("neo4j: %v", err))
	}
	return health.Healthy("neo4j connected")
}

func (c *Client) session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
}

// write runs cypher in a managed write transaction and returns the result
// summary counters.
func (c *Client) write(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultSummary, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(neo4j.ResultSummary), nil
}

// read runs cypher in a managed read transaction and collects all records.
func (c *Client) read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*neo4j.Record), nil
}
