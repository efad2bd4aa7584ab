// Package dispatch is the single choke point through which every
// agent-initiated read or write flows. Agents never call store adapters
// directly; the registry maps each operation name to its declared input
// shape, target store, and handler, and the dispatcher enforces validation
// and authority in front of every handler.
package dispatch

import (
	"context"
	"fmt"
	"sort"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/schema"
)

// Handler executes one operation with already-validated params.
type Handler func(ctx context.Context, agent entities.AgentContext, params map[string]any) (any, error)

// Operation is one registered tool: name, declared input shape, the store
// it targets, and the handler that performs the work.
type Operation struct {
	Name        string
	Description string
	Store       string // graph, document, vector, object, search
	Shape       schema.Shape
	Handler     Handler
}

// Registry holds every operation. It is populated once at startup and
// read-only afterwards, so concurrent Invoke calls need no locking.
type Registry struct {
	ops map[string]Operation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

// Register adds an operation, rejecting duplicates and missing handlers.
func (r *Registry) Register(op Operation) error {
	if op.Name == "" {
		return fmt.Errorf("operation with empty name")
	}
	if op.Handler == nil {
		return fmt.Errorf("operation %q has no handler", op.Name)
	}
	if _, dup := r.ops[op.Name]; dup {
		return fmt.Errorf("operation %q registered twice", op.Name)
	}
	r.ops[op.Name] = op
	return nil
}

// MustRegister panics on registration failure. Registration happens at
// startup from static tables, so a failure is a programming error.
func (r *Registry) MustRegister(op Operation) {
	if err := r.Register(op); err != nil {
		panic(err)
	}
}

// Get looks up an operation by name.
func (r *Registry) Get(name string) (Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Names returns every registered operation name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
