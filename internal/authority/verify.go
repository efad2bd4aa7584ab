package authority

import (
	"fmt"
	"strings"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

// canonicalWriteFamilies identifies operations that mutate canonical truth.
// Deletion by prefix keeps this list in sync with operation naming rather
// than with the matrix itself.
var canonicalWriteFamilies = []string{
	"graph_create_",
	"graph_update_",
	"graph_delete_",
	"graph_canonize_",
}

// IsCanonicalWrite reports whether the operation belongs to the
// canonical-graph write family.
func IsCanonicalWrite(operation string) bool {
	for _, prefix := range canonicalWriteFamilies {
		if strings.HasPrefix(operation, prefix) {
			return true
		}
	}
	return false
}

// VerifyRegistry runs the load-time self-checks over the full operation
// registry:
//
//   - every registered operation has a matching pattern with a non-empty
//     allowed set (authority completeness);
//   - every canonical-write operation is allowed to exactly one agent type,
//     and that type is the canon authority (single-writer invariant).
//
// A failure here is a deployment error and aborts startup.
func (m *Matrix) VerifyRegistry(operations []string, canonRole entities.AgentType) error {
	for _, op := range operations {
		agents, ok := m.AllowedAgents(op)
		if !ok {
			return fmt.Errorf("operation %q has no authority rule", op)
		}
		if len(agents) == 0 {
			return fmt.Errorf("operation %q has an empty allowed set", op)
		}

		if !IsCanonicalWrite(op) {
			continue
		}
		if len(agents) != 1 {
			return fmt.Errorf("canonical write %q is allowed to %d agent types, want exactly 1", op, len(agents))
		}
		if agents[0] != canonRole {
			return fmt.Errorf("canonical write %q is allowed to %q, want %q", op, agents[0], canonRole)
		}
	}
	return nil
}
