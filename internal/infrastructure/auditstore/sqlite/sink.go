// Package sqlite persists dispatch audit records for forensic replay.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/canonkeep/canonkeep/internal/domain/entities"
	"github.com/canonkeep/canonkeep/internal/infrastructure/config"
)

// Sink implements ports.AuditSink on a local SQLite file.
type Sink struct {
	db   *sql.DB
	path string
}

// NewSink opens the audit database and creates the schema on first use.
func NewSink(ctx context.Context, cfg config.AuditConfig) (*Sink, error) {
	if cfg.SQLitePath == "" {
		return nil, errors.New("audit sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &Sink{db: db, path: cfg.SQLitePath}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Sink) Close() error {
	return s.db.Close()
}

func (s *Sink) ensureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		operation TEXT NOT NULL,
		agent_type TEXT NOT NULL,
		agent_id TEXT NOT NULL,
		params TEXT,
		success INTEGER NOT NULL,
		error TEXT,
		elapsed_ms INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_operation ON audit_log(operation);
	CREATE INDEX IF NOT EXISTS idx_audit_log_agent ON audit_log(agent_id);
	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating audit schema: %w", err)
	}
	return nil
}

// Append stores one dispatch record. Params arrive already sanitized.
func (s *Sink) Append(ctx context.Context, rec entities.AuditRecord) error {
	var params sql.NullString
	if rec.Params != nil {
		data, err := json.Marshal(rec.Params)
		if err != nil {
			return fmt.Errorf("marshaling params: %w", err)
		}
		params = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO audit_log (operation, agent_type, agent_id, params, success, error, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.Operation,
		string(rec.AgentType),
		rec.AgentID,
		params,
		rec.Success,
		rec.Error,
		rec.ElapsedMS,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("appending audit record: %w", err)
	}
	return nil
}

// Recent returns the newest records.
func (s *Sink) Recent(ctx context.Context, limit int) ([]entities.AuditRecord, error) {
	query := `
		SELECT id, operation, agent_type, agent_id, params, success, error, elapsed_ms, created_at
		FROM audit_log
		ORDER BY id DESC
		LIMIT ?
	`
	return s.queryRecords(ctx, query, limit)
}

// FindByOperation returns the newest records for one operation name.
func (s *Sink) FindByOperation(ctx context.Context, operation string, limit int) ([]entities.AuditRecord, error) {
	query := `
		SELECT id, operation, agent_type, agent_id, params, success, error, elapsed_ms, created_at
		FROM audit_log
		WHERE operation = ?
		ORDER BY id DESC
		LIMIT ?
	`
	return s.queryRecords(ctx, query, operation, limit)
}

// FindByAgent returns the newest records for one agent.
func (s *Sink) FindByAgent(ctx context.Context, agentID string, limit int) ([]entities.AuditRecord, error) {
	query := `
		SELECT id, operation, agent_type, agent_id, params, success, error, elapsed_ms, created_at
		FROM audit_log
		WHERE agent_id = ?
		ORDER BY id DESC
		LIMIT ?
	`
	return s.queryRecords(ctx, query, agentID, limit)
}

func (s *Sink) queryRecords(ctx context.Context, query string, args ...any) ([]entities.AuditRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	records := make([]entities.AuditRecord, 0, 16)
	for rows.Next() {
		var rec entities.AuditRecord
		var agentType string
		var params, errMsg sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&rec.Operation,
			&agentType,
			&rec.AgentID,
			&params,
			&rec.Success,
			&errMsg,
			&rec.ElapsedMS,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit record: %w", err)
		}

		rec.AgentType = entities.AgentType(agentType)
		rec.Error = errMsg.String
		if params.Valid && params.String != "" {
			if err := json.Unmarshal([]byte(params.String), &rec.Params); err != nil {
				return nil, fmt.Errorf("unmarshaling params: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
