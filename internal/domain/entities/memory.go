package entities

import "time"

// CharacterMemory is a subjective, entity-owned memory record. It carries no
// canonical weight: a character may remember things that never happened.
// When an embedder is configured the record is paired with a vector for
// similarity recall.
type CharacterMemory struct {
	ID        string    `json:"id" bson:"_id"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	SceneID   string    `json:"scene_id,omitempty" bson:"scene_id,omitempty"`
	Content   string    `json:"content" bson:"content"`
	Tags      []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	Embedded  bool      `json:"embedded" bson:"embedded"`
	Embedding []float32 `json:"-" bson:"-"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
