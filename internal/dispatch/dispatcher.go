package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/canonkeep/canonkeep/internal/audit"
	"github.com/canonkeep/canonkeep/internal/authority"
	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/schema"
)

// Dispatcher runs the invoke pipeline: registry lookup, schema validation,
// authority check, handler execution, audit. It holds no per-call state and
// is safe for concurrent use.
type Dispatcher struct {
	registry *Registry
	matrix   *authority.Matrix
	audit    *audit.Logger
}

// New builds a dispatcher and runs the load-time self-checks: every
// registered operation must have an authority rule, and the canonical-write
// family must be allowed to exactly the loremaster.
func New(registry *Registry, matrix *authority.Matrix, auditLogger *audit.Logger) (*Dispatcher, error) {
	if err := matrix.VerifyRegistry(registry.Names(), entities.AgentLoremaster); err != nil {
		return nil, fmt.Errorf("authority matrix verification: %w", err)
	}
	return &Dispatcher{
		registry: registry,
		matrix:   matrix,
		audit:    auditLogger,
	}, nil
}

// Registry exposes the operation table for enumeration (CLI, MCP listing).
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Matrix exposes the compiled authority table.
func (d *Dispatcher) Matrix() *authority.Matrix {
	return d.matrix
}

// Invoke runs one operation. Validation failures are reported before
// authority failures so the caller always gets the most specific
// diagnosable error, and neither reaches a store. Every attempt is audited
// regardless of outcome.
func (d *Dispatcher) Invoke(ctx context.Context, operation string, agent entities.AgentContext, params map[string]any) (result any, err error) {
	start := time.Now()
	defer func() {
		d.audit.Record(ctx, agent, operation, params, time.Since(start), err)
	}()

	op, ok := d.registry.Get(operation)
	if !ok {
		return nil, NotFound("operation", operation)
	}

	validated, verr := schema.Validate(op.Shape, params)
	if verr != nil {
		var ve *schema.ValidationError
		if errors.As(verr, &ve) {
			return nil, Validation(ve.Error(), ve.Details())
		}
		return nil, Validation(verr.Error(), nil)
	}

	if _, matched := d.matrix.Match(operation); !matched {
		// Registered operation with no matrix entry: a deployment error
		// that the startup check should have caught. Fail closed.
		return nil, Forbidden(string(agent.AgentType), operation).
			Detail("config", "no authority rule matches this operation")
	}
	if !d.matrix.Allowed(operation, agent.AgentType) {
		return nil, Forbidden(string(agent.AgentType), operation)
	}

	result, err = d.run(ctx, op, agent, validated)
	return result, err
}

// run executes the handler, converting panics and non-dispatch errors into
// structured backend errors.
func (d *Dispatcher) run(ctx context.Context, op Operation, agent entities.AgentContext, params map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Backend(op.Store, fmt.Errorf("handler panic: %v", r))
		}
	}()

	result, err = d.run0(ctx, op, agent, params)
	if err != nil {
		var de *Error
		if errors.As(err, &de) {
			return nil, de
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, Backend("timeout", err)
		}
		return nil, Backend(op.Store, err)
	}
	return result, nil
}

func (d *Dispatcher) run0(ctx context.Context, op Operation, agent entities.AgentContext, params map[string]any) (any, error) {
	if ctx.Err() != nil {
		return nil, Backend("timeout", ctx.Err())
	}
	return op.Handler(ctx, agent, params)
}
