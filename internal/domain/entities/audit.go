package entities

import "time"

// AuditRecord captures one dispatch attempt for forensic replay.
// Params are sanitized before the record is created.
type AuditRecord struct {
	ID        int64          `json:"id"`
	Operation string         `json:"operation"`
	AgentType AgentType      `json:"agent_type"`
	AgentID   string         `json:"agent_id"`
	Params    map[string]any `json:"params,omitempty"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	ElapsedMS int64          `json:"elapsed_ms"`
	CreatedAt time.Time      `json:"created_at"`
}
