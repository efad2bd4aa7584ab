package ports

import (
	"context"
	"io"
	"time"

	"github.com/canonkeep/canonkeep/internal/health"
)

// ObjectRef identifies a stored blob.
type ObjectRef struct {
	Key         string            `json:"key"`
	ContentType string            `json:"content_type,omitempty"`
	Size        int64             `json:"size"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ObjectStore holds narrative artifacts: maps, handouts, recordings.
type ObjectStore interface {
	Close(ctx context.Context) error
	Health(ctx context.Context) health.Status

	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) (ObjectRef, error)
	Retrieve(ctx context.Context, key string) (io.ReadCloser, ObjectRef, error)
	Delete(ctx context.Context, key string) error
	ListByPrefix(ctx context.Context, prefix string, limit int) ([]ObjectRef, error)

	// PresignGet issues a time-bounded URL granting read access to the
	// object without further authorization.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
