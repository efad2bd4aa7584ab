package neo4j

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

const timeLayout = time.RFC3339Nano

// UpsertMultiverse MERGEs a multiverse container by ID.
func (c *Client) UpsertMultiverse(ctx context.Context, m entities.Multiverse) error {
	_, err := c.write(ctx, `
		MERGE (m:Multiverse {id: $id})
		ON CREATE SET m.created_at = $created_at
		SET m.name = $name`,
		map[string]any{
			"id":         m.ID,
			"name":       m.Name,
			"created_at": m.CreatedAt.Format(timeLayout),
		})
	if err != nil {
		return fmt.Errorf("upserting multiverse: %w", err)
	}
	return nil
}

// MultiverseExists reports whether a multiverse node exists.
func (c *Client) MultiverseExists(ctx context.Context, id string) (bool, error) {
	records, err := c.read(ctx,
		`MATCH (m:Multiverse {id: $id}) RETURN count(m) AS n`,
		map[string]any{"id": id})
	if err != nil {
		return false, fmt.Errorf("checking multiverse: %w", err)
	}
	if len(records) == 0 {
		return false, nil
	}
	count, _ := records[0].Get("n")
	n, _ := count.(int64)
	return n > 0, nil
}

// UpsertUniverse MERGEs a universe and anchors it to its multiverse.
func (c *Client) UpsertUniverse(ctx context.Context, u entities.Universe) error {
	summary, err := c.write(ctx, `
		MATCH (m:Multiverse {id: $multiverse_id})
		MERGE (u:Universe {id: $id})
		ON CREATE SET u.created_at = $created_at
		SET u.name = $name, u.description = $description
		MERGE (u)-[:IN_MULTIVERSE]->(m)`,
		map[string]any{
			"id":            u.ID,
			"multiverse_id": u.MultiverseID,
			"name":          u.Name,
			"description":   u.Description,
			"created_at":    u.CreatedAt.Format(timeLayout),
		})
	if err != nil {
		return fmt.Errorf("upserting universe: %w", err)
	}
	// MATCH found no multiverse: every later clause ran zero times and the
	// write silently did nothing. Surface it.
	if summary.Counters().NodesCreated() == 0 && summary.Counters().PropertiesSet() == 0 {
		return fmt.Errorf("multiverse missing: %s", u.MultiverseID)
	}
	return nil
}

// GetUniverse loads a universe, or nil when absent.
func (c *Client) GetUniverse(ctx context.Context, id string) (*entities.Universe, error) {
	records, err := c.read(ctx, `
		MATCH (u:Universe {id: $id})-[:IN_MULTIVERSE]->(m:Multiverse)
		RETURN u, m.id AS multiverse_id`,
		map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("loading universe: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	node, _ := records[0].Get("u")
	props := node.(neo4j.Node).Props
	multiverseID, _ := records[0].Get("multiverse_id")

	u := &entities.Universe{
		ID:           id,
		MultiverseID: asString(multiverseID),
		Name:         asString(props["name"]),
		Description:  asString(props["description"]),
		CreatedAt:    parseTime(props["created_at"]),
	}
	return u, nil
}

// UniverseExists reports whether a universe node exists.
func (c *Client) UniverseExists(ctx context.Context, id string) (bool, error) {
	records, err := c.read(ctx,
		`MATCH (u:Universe {id: $id}) RETURN count(u) AS n`,
		map[string]any{"id": id})
	if err != nil {
		return false, fmt.Errorf("checking universe: %w", err)
	}
	if len(records) == 0 {
		return false, nil
	}
	count, _ := records[0].Get("n")
	n, _ := count.(int64)
	return n > 0, nil
}

// CountUniverseDependents counts nodes anchored to the universe.
func (c *Client) CountUniverseDependents(ctx context.Context, id string) (int64, error) {
	records, err := c.read(ctx, `
		MATCH (n)-[:IN_UNIVERSE]->(u:Universe {id: $id})
		RETURN count(n) AS dependents`,
		map[string]any{"id": id})
	if err != nil {
		return 0, fmt.Errorf("counting dependents: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}
	count, _ := records[0].Get("dependents")
	n, _ := count.(int64)
	return n, nil
}

// DeleteUniverse removes the universe node; with cascade it detach-deletes
// every anchored descendant and returns the number of nodes removed.
func (c *Client) DeleteUniverse(ctx context.Context, id string, cascade bool) (int64, error) {
	cypher := `MATCH (u:Universe {id: $id}) DETACH DELETE u`
	if cascade {
		cypher = `
			MATCH (u:Universe {id: $id})
			OPTIONAL MATCH (n)-[:IN_UNIVERSE]->(u)
			DETACH DELETE n, u`
	}
	summary, err := c.write(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return 0, fmt.Errorf("deleting universe: %w", err)
	}
	return int64(summary.Counters().NodesDeleted()), nil
}

// UpsertEntity MERGEs an entity by ID. created_at is set only on create, so
// the stored value survives every later upsert.
func (c *Client) UpsertEntity(ctx context.Context, e entities.Entity) error {
	props, err := json.Marshal(e.Properties)
	if err != nil {
		return fmt.Errorf("encoding properties: %w", err)
	}
	summary, err := c.write(ctx, `
		MATCH (u:Universe {id: $universe_id})
		MERGE (e:Entity {id: $id})
		ON CREATE SET e.created_at = $created_at
		SET e.name = $name,
		    e.kind = $kind,
		    e.archetype_id = $archetype_id,
		    e.canon_level = $canon_level,
		    e.provenance = $provenance,
		    e.properties = $properties,
		    e.updated_at = $updated_at
		MERGE (e)-[:IN_UNIVERSE]->(u)`,
		map[string]any{
			"id":           e.ID,
			"universe_id":  e.UniverseID,
			"name":         e.Name,
			"kind":         string(e.Kind),
			"archetype_id": e.ArchetypeID,
			"canon_level":  string(e.CanonLevel),
			"provenance":   string(e.Provenance),
			"properties":   string(props),
			"created_at":   e.CreatedAt.Format(timeLayout),
			"updated_at":   e.UpdatedAt.Format(timeLayout),
		})
	if err != nil {
		return fmt.Errorf("upserting entity: %w", err)
	}
	if summary.Counters().NodesCreated() == 0 && summary.Counters().PropertiesSet() == 0 {
		return fmt.Errorf("universe missing: %s", e.UniverseID)
	}
	return nil
}

// GetEntity loads an entity, or nil when absent.
func (c *Client) GetEntity(ctx context.Context, id string) (*entities.Entity, error) {
	records, err := c.read(ctx, `
		MATCH (e:Entity {id: $id})-[:IN_UNIVERSE]->(u:Universe)
		RETURN e, u.id AS universe_id`,
		map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("loading entity: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	node, _ := records[0].Get("e")
	universeID, _ := records[0].Get("universe_id")
	e := entityFromNode(node.(neo4j.Node), asString(universeID))
	return &e, nil
}

// EntityExists reports whether an entity node exists.
func (c *Client) EntityExists(ctx context.Context, id string) (bool, error) {
	records, err := c.read(ctx,
		`MATCH (e:Entity {id: $id}) RETURN count(e) AS n`,
		map[string]any{"id": id})
	if err != nil {
		return false, fmt.Errorf("checking entity: %w", err)
	}
	if len(records) == 0 {
		return false, nil
	}
	count, _ := records[0].Get("n")
	n, _ := count.(int64)
	return n > 0, nil
}

// DeleteEntity detach-deletes an entity node.
func (c *Client) DeleteEntity(ctx context.Context, id string) error {
	_, err := c.write(ctx,
		`MATCH (e:Entity {id: $id}) DETACH DELETE e`,
		map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("deleting entity: %w", err)
	}
	return nil
}

// ListEntities lists entities in a universe, optionally filtered by kind.
func (c *Client) ListEntities(ctx context.Context, universeID string, kind entities.EntityKind, limit int) ([]entities.Entity, error) {
	if limit <= 0 {
		limit = 100
	}
	cypher := `
		MATCH (e:Entity)-[:IN_UNIVERSE]->(u:Universe {id: $universe_id})
		WHERE $kind = '' OR e.kind = $kind
		RETURN e
		ORDER BY e.name
		LIMIT $limit`
	records, err := c.read(ctx, cypher, map[string]any{
		"universe_id": universeID,
		"kind":        string(kind),
		"limit":       limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}

	out := make([]entities.Entity, 0, len(records))
	for _, record := range records {
		node, _ := record.Get("e")
		out = append(out, entityFromNode(node.(neo4j.Node), universeID))
	}
	return out, nil
}

func entityFromNode(node neo4j.Node, universeID string) entities.Entity {
	props := node.Props
	e := entities.Entity{
		ID:          asString(props["id"]),
		UniverseID:  universeID,
		Name:        asString(props["name"]),
		Kind:        entities.EntityKind(asString(props["kind"])),
		ArchetypeID: asString(props["archetype_id"]),
		CanonLevel:  entities.CanonLevel(asString(props["canon_level"])),
		Provenance:  entities.Provenance(asString(props["provenance"])),
		CreatedAt:   parseTime(props["created_at"]),
		UpdatedAt:   parseTime(props["updated_at"]),
	}
	if raw := asString(props["properties"]); raw != "" {
		_ = json.Unmarshal([]byte(raw), &e.Properties)
	}
	return e
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func parseTime(v any) time.Time {
	t, _ := time.Parse(timeLayout, asString(v))
	return t
}
