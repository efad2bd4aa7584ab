package entities

import "time"

// Universe containers nest Omniverse -> Multiverse -> Universe. Every
// universe belongs to exactly one multiverse; deleting a container with
// dependents requires an explicit cascade.
type Multiverse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Universe is the canonical container all entities and facts live in.
type Universe struct {
	ID           string    `json:"id"`
	MultiverseID string    `json:"multiverse_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
