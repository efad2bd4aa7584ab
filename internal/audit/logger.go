package audit

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/domain/ports"
)

// Logger emits one structured record per dispatch attempt. Records go to
// slog (one parseable line per call) and, when a sink is configured, to the
// persistent audit store. Neither destination failing ever aborts the
// underlying operation.
type Logger struct {
	log  *slog.Logger
	sink ports.AuditSink

	successes atomic.Int64
	failures  atomic.Int64
}

// NewLogger builds an audit logger. sink may be nil.
func NewLogger(log *slog.Logger, sink ports.AuditSink) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log, sink: sink}
}

// Record logs one dispatch attempt. Params are sanitized before anything is
// written.
func (l *Logger) Record(ctx context.Context, agent entities.AgentContext, operation string, params map[string]any, elapsed time.Duration, err error) {
	rec := entities.AuditRecord{
		Operation: operation,
		AgentType: agent.AgentType,
		AgentID:   agent.AgentID,
		Params:    Sanitize(params),
		Success:   err == nil,
		ElapsedMS: elapsed.Milliseconds(),
		CreatedAt: time.Now(),
	}
	if err != nil {
		rec.Error = err.Error()
		l.failures.Add(1)
	} else {
		l.successes.Add(1)
	}

	attrs := []any{
		slog.String("operation", rec.Operation),
		slog.String("agent_type", string(rec.AgentType)),
		slog.String("agent_id", rec.AgentID),
		slog.Bool("success", rec.Success),
		slog.Int64("elapsed_ms", rec.ElapsedMS),
		slog.Any("params", rec.Params),
	}
	if rec.Error != "" {
		attrs = append(attrs, slog.String("error", rec.Error))
	}
	l.log.InfoContext(ctx, "dispatch", attrs...)

	if l.sink == nil {
		return
	}
	if sinkErr := l.sink.Append(ctx, rec); sinkErr != nil {
		l.log.WarnContext(ctx, "audit sink append failed", slog.String("error", sinkErr.Error()))
	}
}

// Counters returns the running success and failure totals.
func (l *Logger) Counters() (successes, failures int64) {
	return l.successes.Load(), l.failures.Load()
}
