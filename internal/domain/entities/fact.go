package entities

import "time"

// Fact is a canonical truth statement about the world.
type Fact struct {
	ID         string         `json:"id"`
	UniverseID string         `json:"universe_id"`
	Statement  string         `json:"statement"`
	SubjectID  string         `json:"subject_id,omitempty"`
	CanonLevel CanonLevel     `json:"canon_level"`
	Provenance Provenance     `json:"provenance"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Event is a time-stamped fact: something that happened at a point in the
// world's chronology.
type Event struct {
	Fact
	OccurredAt string `json:"occurred_at"` // in-world date, free-form
}
