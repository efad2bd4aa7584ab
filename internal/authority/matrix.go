// Package authority decides which agent types may invoke which operations.
// The matrix is a static table loaded at process start; absence of a matching
// pattern is a configuration error and always denies.
package authority

import (
	"fmt"
	"sort"
	"strings"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

// Wildcard in an allowed set grants every agent type. Used for reads.
const Wildcard = "*"

// Rule maps an operation-name pattern to the set of agent types allowed to
// invoke matching operations. Patterns are either exact names or a prefix
// followed by "*" ("graph_create_*").
type Rule struct {
	Pattern string   `yaml:"pattern"`
	Agents  []string `yaml:"agents"`
}

// Matrix is the compiled authority table. Exact patterns take precedence
// over wildcard patterns; among wildcard patterns the longest prefix wins.
type Matrix struct {
	exact    map[string]Rule
	prefixes []prefixRule
}

type prefixRule struct {
	prefix string
	rule   Rule
}

// NewMatrix compiles rules into a matrix, rejecting malformed patterns,
// empty allowed sets, and unknown agent types at load time.
func NewMatrix(rules []Rule) (*Matrix, error) {
	m := &Matrix{exact: make(map[string]Rule, len(rules))}

	for _, r := range rules {
		if strings.TrimSpace(r.Pattern) == "" {
			return nil, fmt.Errorf("authority rule with empty pattern")
		}
		if len(r.Agents) == 0 {
			return nil, fmt.Errorf("authority rule %q has an empty allowed set", r.Pattern)
		}
		for _, a := range r.Agents {
			if a == Wildcard {
				continue
			}
			if _, err := entities.ParseAgentType(a); err != nil {
				return nil, fmt.Errorf("authority rule %q: %w", r.Pattern, err)
			}
		}

		if strings.HasSuffix(r.Pattern, "*") {
			prefix := strings.TrimSuffix(r.Pattern, "*")
			if strings.Contains(prefix, "*") {
				return nil, fmt.Errorf("authority rule %q: wildcard is only valid as a trailing suffix", r.Pattern)
			}
			m.prefixes = append(m.prefixes, prefixRule{prefix: prefix, rule: r})
			continue
		}
		if strings.Contains(r.Pattern, "*") {
			return nil, fmt.Errorf("authority rule %q: wildcard is only valid as a trailing suffix", r.Pattern)
		}
		if _, dup := m.exact[r.Pattern]; dup {
			return nil, fmt.Errorf("duplicate authority rule for %q", r.Pattern)
		}
		m.exact[r.Pattern] = r
	}

	// Longest prefix first so the most specific wildcard wins.
	sort.SliceStable(m.prefixes, func(i, j int) bool {
		return len(m.prefixes[i].prefix) > len(m.prefixes[j].prefix)
	})

	return m, nil
}

// Match returns the most specific rule for the operation, or ok=false when
// no pattern matches.
func (m *Matrix) Match(operation string) (Rule, bool) {
	if r, ok := m.exact[operation]; ok {
		return r, true
	}
	for _, p := range m.prefixes {
		if strings.HasPrefix(operation, p.prefix) {
			return p.rule, true
		}
	}
	return Rule{}, false
}

// Allowed reports whether the agent type may invoke the operation.
// No matching pattern denies: the matrix fails closed.
func (m *Matrix) Allowed(operation string, agentType entities.AgentType) bool {
	rule, ok := m.Match(operation)
	if !ok {
		return false
	}
	for _, a := range rule.Agents {
		if a == Wildcard || a == string(agentType) {
			return true
		}
	}
	return false
}

// AllowedAgents returns the full set of agent types permitted to invoke the
// operation, and whether any pattern matched at all.
func (m *Matrix) AllowedAgents(operation string) ([]entities.AgentType, bool) {
	rule, ok := m.Match(operation)
	if !ok {
		return nil, false
	}
	for _, a := range rule.Agents {
		if a == Wildcard {
			return append([]entities.AgentType{}, entities.AgentTypes...), true
		}
	}
	agents := make([]entities.AgentType, 0, len(rule.Agents))
	for _, a := range rule.Agents {
		agents = append(agents, entities.AgentType(a))
	}
	return agents, true
}
