// Package entities contains the core domain data structures shared by the
// canonical graph, the document store, and the vector store.
package entities

import "time"

// CanonLevel is the truth status of a canonical record.
type CanonLevel string

const (
	CanonProposed  CanonLevel = "proposed"
	CanonCanon     CanonLevel = "canon"
	CanonRetconned CanonLevel = "retconned"
)

// IsValid reports whether the canon level is a known value.
func (c CanonLevel) IsValid() bool {
	switch c {
	case CanonProposed, CanonCanon, CanonRetconned:
		return true
	}
	return false
}

// Provenance records which kind of authority introduced a piece of data.
type Provenance string

const (
	ProvenanceSource Provenance = "source"
	ProvenanceGM     Provenance = "gm"
	ProvenancePlayer Provenance = "player"
	ProvenanceSystem Provenance = "system"
)

// IsValid reports whether the provenance tag is a known value.
func (p Provenance) IsValid() bool {
	switch p {
	case ProvenanceSource, ProvenanceGM, ProvenancePlayer, ProvenanceSystem:
		return true
	}
	return false
}

// EntityKind distinguishes archetype templates from concrete instances.
type EntityKind string

const (
	EntityArchetype EntityKind = "archetype"
	EntityInstance  EntityKind = "instance"
)

// Entity is a named thing in the world: a character, a location, an item.
// Archetypes are templates; instances reference zero or one archetype.
type Entity struct {
	ID          string         `json:"id"`
	UniverseID  string         `json:"universe_id"`
	Name        string         `json:"name"`
	Kind        EntityKind     `json:"kind"`
	ArchetypeID string         `json:"archetype_id,omitempty"`
	CanonLevel  CanonLevel     `json:"canon_level"`
	Provenance  Provenance     `json:"provenance"`
	Properties  map[string]any `json:"properties,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
