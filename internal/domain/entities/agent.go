package entities

import "fmt"

// AgentType identifies the role an agent plays in the simulation.
// Authority decisions key off this value, never off the agent ID.
type AgentType string

const (
	// AgentLoremaster is the single canon-authoritative role. Only it may
	// mutate the canonical graph or transition proposed changes.
	AgentLoremaster AgentType = "loremaster"
	// AgentNarrator drives scenes, turns, and working state.
	AgentNarrator AgentType = "narrator"
	// AgentPlayer controls a character and its subjective memories.
	AgentPlayer AgentType = "player"
	// AgentIndexer maintains the search index and object archive.
	AgentIndexer AgentType = "indexer"
	// AgentSystem is reserved for automated maintenance processes.
	AgentSystem AgentType = "system"
)

// AgentTypes lists every known agent type.
var AgentTypes = []AgentType{
	AgentLoremaster,
	AgentNarrator,
	AgentPlayer,
	AgentIndexer,
	AgentSystem,
}

// ParseAgentType converts a string to an AgentType, rejecting unknown values.
func ParseAgentType(s string) (AgentType, error) {
	for _, t := range AgentTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown agent type: %q", s)
}

// AgentContext identifies the caller of a dispatched operation.
type AgentContext struct {
	AgentID   string    `json:"agent_id"`
	AgentType AgentType `json:"agent_type"`
}
