package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/canonkeep/canonkeep/internal/dispatch"
	"github.com/canonkeep/canonkeep/internal/domain/ports"
)

// ArchiveService manages narrative artifacts in the object store.
type ArchiveService struct {
	objects ports.ObjectStore
}

// NewArchiveService creates an ArchiveService.
func NewArchiveService(objects ports.ObjectStore) *ArchiveService {
	return &ArchiveService{objects: objects}
}

// Upload decodes base64 content and stores it under key.
func (s *ArchiveService) Upload(ctx context.Context, key, contentB64, contentType string, metadata map[string]string) (ports.ObjectRef, error) {
	data, err := base64.StdEncoding.DecodeString(contentB64)
	if err != nil {
		return ports.ObjectRef{}, dispatch.Validation(
			"content is not valid base64",
			map[string]any{"field": "content"},
		)
	}
	ref, err := s.objects.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType, metadata)
	if err != nil {
		return ports.ObjectRef{}, dispatch.Backend("object", fmt.Errorf("uploading %s: %w", key, err))
	}
	return ref, nil
}

// Retrieve reads an object back as base64.
func (s *ArchiveService) Retrieve(ctx context.Context, key string) (string, ports.ObjectRef, error) {
	body, ref, err := s.objects.Retrieve(ctx, key)
	if err != nil {
		return "", ports.ObjectRef{}, dispatch.Backend("object", fmt.Errorf("retrieving %s: %w", key, err))
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", ports.ObjectRef{}, dispatch.Backend("object", fmt.Errorf("reading %s: %w", key, err))
	}
	return base64.StdEncoding.EncodeToString(data), ref, nil
}

// Delete removes an object.
func (s *ArchiveService) Delete(ctx context.Context, key string) error {
	if err := s.objects.Delete(ctx, key); err != nil {
		return dispatch.Backend("object", fmt.Errorf("deleting %s: %w", key, err))
	}
	return nil
}

// List enumerates objects under a prefix.
func (s *ArchiveService) List(ctx context.Context, prefix string, limit int) ([]ports.ObjectRef, error) {
	if limit <= 0 {
		limit = 100
	}
	refs, err := s.objects.ListByPrefix(ctx, prefix, limit)
	if err != nil {
		return nil, dispatch.Backend("object", fmt.Errorf("listing %s: %w", prefix, err))
	}
	return refs, nil
}

// Presign issues a time-bounded read URL for an object.
func (s *ArchiveService) Presign(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	url, err := s.objects.PresignGet(ctx, key, expiry)
	if err != nil {
		return "", dispatch.Backend("object", fmt.Errorf("presigning %s: %w", key, err))
	}
	return url, nil
}
