package entities

import "time"

// SceneStatus is the lifecycle state of a scene.
type SceneStatus string

const (
	SceneOpen   SceneStatus = "open"
	SceneClosed SceneStatus = "closed"
)

// Scene is a narrative episode. Scenes are mutable working documents and
// carry no canonical weight until their outcomes are promoted through a
// proposed change.
type Scene struct {
	ID           string         `json:"id" bson:"_id"`
	UniverseID   string         `json:"universe_id" bson:"universe_id"`
	Title        string         `json:"title" bson:"title"`
	Status       SceneStatus    `json:"status" bson:"status"`
	Location     string         `json:"location,omitempty" bson:"location,omitempty"`
	Participants []string       `json:"participants,omitempty" bson:"participants,omitempty"`
	Properties   map[string]any `json:"properties,omitempty" bson:"properties,omitempty"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updated_at"`
}

// Turn is a single exchange within a scene.
type Turn struct {
	ID        string    `json:"id" bson:"_id"`
	SceneID   string    `json:"scene_id" bson:"scene_id"`
	Number    int       `json:"number" bson:"number"`
	ActorID   string    `json:"actor_id" bson:"actor_id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
