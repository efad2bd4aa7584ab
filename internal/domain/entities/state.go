package entities

import "time"

// WorkingState is a scene-scoped, mutable snapshot of a character's
// resources (hit points, temporary buffs). It is distinct from canonical
// stats and is deleted when the owning scene closes.
type WorkingState struct {
	ID        string         `json:"id" bson:"_id"`
	SceneID   string         `json:"scene_id" bson:"scene_id"`
	EntityID  string         `json:"entity_id" bson:"entity_id"`
	Resources map[string]any `json:"resources" bson:"resources"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// Party groups player-controlled entities.
type Party struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	MemberIDs []string  `json:"member_ids" bson:"member_ids"`
	Splits    []Split   `json:"splits,omitempty" bson:"splits,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Split is a temporary sub-grouping while the party is divided.
type Split struct {
	ID        string    `json:"id" bson:"id"`
	Label     string    `json:"label" bson:"label"`
	MemberIDs []string  `json:"member_ids" bson:"member_ids"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
