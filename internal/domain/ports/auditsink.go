package ports

import (
	"context"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
)

// AuditSink persists dispatch records for forensic replay. Appends are
// best-effort from the dispatcher's point of view: a sink failure never
// aborts the audited operation.
type AuditSink interface {
	Close() error

	Append(ctx context.Context, rec entities.AuditRecord) error
	Recent(ctx context.Context, limit int) ([]entities.AuditRecord, error)
	FindByOperation(ctx context.Context, operation string, limit int) ([]entities.AuditRecord, error)
	FindByAgent(ctx context.Context, agentID string, limit int) ([]entities.AuditRecord, error)
}
