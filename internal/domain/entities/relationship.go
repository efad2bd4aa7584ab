package entities

import (
	"fmt"
	"time"
)

// RelationType defines the kind of relationship between two entities.
type RelationType string

const (
	RelationKnows     RelationType = "KNOWS"
	RelationAllyOf    RelationType = "ALLY_OF"
	RelationEnemyOf   RelationType = "ENEMY_OF"
	RelationSiblingOf RelationType = "SIBLING_OF"
	RelationMarriedTo RelationType = "MARRIED_TO"
	RelationMemberOf  RelationType = "MEMBER_OF"
	RelationLocatedIn RelationType = "LOCATED_IN"
	RelationOwns      RelationType = "OWNS"
	RelationContains  RelationType = "CONTAINS"
	RelationCreatedBy RelationType = "CREATED_BY"
)

// RelationTypes lists every known relationship type. The set is closed:
// the type becomes part of a Cypher pattern, so nothing outside this list
// may ever reach the graph adapter.
var RelationTypes = []RelationType{
	RelationKnows,
	RelationAllyOf,
	RelationEnemyOf,
	RelationSiblingOf,
	RelationMarriedTo,
	RelationMemberOf,
	RelationLocatedIn,
	RelationOwns,
	RelationContains,
	RelationCreatedBy,
}

// ParseRelationType converts a string to a RelationType, rejecting unknown
// values.
func ParseRelationType(s string) (RelationType, error) {
	for _, t := range RelationTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown relationship type: %q", s)
}

// noSelfLoop lists relationship types for which a self-referencing edge is
// meaningless. Recursive types such as CONTAINS and OWNS stay permitted.
var noSelfLoop = map[RelationType]struct{}{
	RelationKnows:     {},
	RelationAllyOf:    {},
	RelationEnemyOf:   {},
	RelationSiblingOf: {},
	RelationMarriedTo: {},
}

// ForbidsSelfLoop reports whether the relationship type rejects edges whose
// endpoints are the same entity.
func (t RelationType) ForbidsSelfLoop() bool {
	_, ok := noSelfLoop[t]
	return ok
}

// Relationship is a typed, directed edge between two entities.
type Relationship struct {
	ID         string         `json:"id"`
	FromID     string         `json:"from_id"`
	ToID       string         `json:"to_id"`
	Type       RelationType   `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
