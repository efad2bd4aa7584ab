package neo4j

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

// UpsertFact MERGEs a fact node by ID.
func (c *Client) UpsertFact(ctx context.Context, f entities.Fact) error {
	return c.upsertFactNode(ctx, "Fact", f, "")
}

// UpsertEvent MERGEs an event node by ID, carrying its in-world timestamp.
func (c *Client) UpsertEvent(ctx context.Context, e entities.Event) error {
	return c.upsertFactNode(ctx, "Event", e.Fact, e.OccurredAt)
}

func (c *Client) upsertFactNode(ctx context.Context, label string, f entities.Fact, occurredAt string) error {
	props, err := json.Marshal(f.Properties)
	if err != nil {
		return fmt.Errorf("encoding properties: %w", err)
	}
	cypher := fmt.Sprintf(`
		MATCH (u:Universe {id: $universe_id})
		MERGE (f:%s {id: $id})
		ON CREATE SET f.created_at = $created_at
		SET f.statement = $statement,
		    f.subject_id = $subject_id,
		    f.canon_level = $canon_level,
		    f.provenance = $provenance,
		    f.properties = $properties,
		    f.occurred_at = $occurred_at,
		    f.updated_at = $updated_at
		MERGE (f)-[:IN_UNIVERSE]->(u)`, label)

	summary, err := c.write(ctx, cypher, map[string]any{
		"id":          f.ID,
		"universe_id": f.UniverseID,
		"statement":   f.Statement,
		"subject_id":  f.SubjectID,
		"canon_level": string(f.CanonLevel),
		"provenance":  string(f.Provenance),
		"properties":  string(props),
		"occurred_at": occurredAt,
		"created_at":  f.CreatedAt.Format(timeLayout),
		"updated_at":  f.UpdatedAt.Format(timeLayout),
	})
	if err != nil {
		return fmt.Errorf("upserting %s: %w", label, err)
	}
	// MATCH found no universe: the MERGE never ran.
	if summary.Counters().NodesCreated() == 0 && summary.Counters().PropertiesSet() == 0 {
		return fmt.Errorf("universe missing: %s", f.UniverseID)
	}
	return nil
}

// UpsertRelationship MERGEs a typed edge between two existing entities.
// The relationship type is interpolated because Cypher cannot parameterize
// it, so only members of the closed RelationTypes set are accepted.
func (c *Client) UpsertRelationship(ctx context.Context, r entities.Relationship) error {
	if _, err := entities.ParseRelationType(string(r.Type)); err != nil {
		return err
	}
	props, err := json.Marshal(r.Properties)
	if err != nil {
		return fmt.Errorf("encoding properties: %w", err)
	}
	cypher := fmt.Sprintf(`
		MATCH (from:Entity {id: $from_id}), (to:Entity {id: $to_id})
		MERGE (from)-[r:%s {id: $id}]->(to)
		ON CREATE SET r.created_at = $created_at
		SET r.properties = $properties`, r.Type)

	summary, err := c.write(ctx, cypher, map[string]any{
		"id":         r.ID,
		"from_id":    r.FromID,
		"to_id":      r.ToID,
		"properties": string(props),
		"created_at": r.CreatedAt.Format(timeLayout),
	})
	if err != nil {
		return fmt.Errorf("upserting relationship: %w", err)
	}
	// MATCH found no endpoints: the MERGE never ran. Surface it rather
	// than silently writing nothing.
	if summary.Counters().RelationshipsCreated() == 0 && summary.Counters().PropertiesSet() == 0 {
		return fmt.Errorf("relationship endpoints missing: %s -> %s", r.FromID, r.ToID)
	}
	return nil
}

// GetRelationships lists edges touching an entity in either direction,
// optionally filtered by type.
func (c *Client) GetRelationships(ctx context.Context, entityID string, relType entities.RelationType) ([]entities.Relationship, error) {
	records, err := c.read(ctx, `
		MATCH (e:Entity {id: $id})-[r]-(other:Entity)
		WHERE $type = '' OR type(r) = $type
		RETURN r, startNode(r).id AS from_id, endNode(r).id AS to_id`,
		map[string]any{"id": entityID, "type": string(relType)})
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}

	out := make([]entities.Relationship, 0, len(records))
	for _, record := range records {
		rel, _ := record.Get("r")
		edge := rel.(neo4j.Relationship)
		fromID, _ := record.Get("from_id")
		toID, _ := record.Get("to_id")

		r := entities.Relationship{
			ID:        asString(edge.Props["id"]),
			FromID:    asString(fromID),
			ToID:      asString(toID),
			Type:      entities.RelationType(edge.Type),
			CreatedAt: parseTime(edge.Props["created_at"]),
		}
		if raw := asString(edge.Props["properties"]); raw != "" {
			_ = json.Unmarshal([]byte(raw), &r.Properties)
		}
		out = append(out, r)
	}
	return out, nil
}
