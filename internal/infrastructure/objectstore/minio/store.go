// Package minio stores narrative artifacts in an S3-compatible bucket.
package minio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/canonkeep/canonkeep/internal/domain/ports"
	"github.com/canonkeep/canonkeep/internal/health"
	"github.com/canonkeep/canonkeep/internal/infrastructure/config"
)

// Store implements the ObjectStore interface on one bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// NewStore connects and creates the bucket when it doesn't exist yet.
func NewStore(ctx context.Context, cfg config.MinioConfig) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket: %w", err)
		}
	}

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Close is a no-op: the underlying HTTP client needs no teardown.
func (s *Store) Close(ctx context.Context) error {
	return nil
}

// Health probes the bucket with a short deadline.
func (s *Store) Health(ctx context.Context) health.Status {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return health.Unhealthy(err.Error())
	}
	if !exists {
		return health.Unhealthy(fmt.Sprintf("bucket %q missing", s.bucket))
	}
	return health.Healthy("minio reachable")
}

// Upload writes a blob under the given key.
func (s *Store) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) (ports.ObjectRef, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return ports.ObjectRef{}, fmt.Errorf("uploading object: %w", err)
	}

	return ports.ObjectRef{
		Key:         key,
		ContentType: contentType,
		Size:        info.Size,
		Metadata:    metadata,
	}, nil
}

// Retrieve opens a blob for reading. The caller owns the returned reader.
func (s *Store) Retrieve(ctx context.Context, key string) (io.ReadCloser, ports.ObjectRef, error) {
	stat, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, ports.ObjectRef{}, fmt.Errorf("stating object: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ports.ObjectRef{}, fmt.Errorf("getting object: %w", err)
	}

	ref := ports.ObjectRef{
		Key:         key,
		ContentType: stat.ContentType,
		Size:        stat.Size,
		Metadata:    stat.UserMetadata,
	}
	return obj, ref, nil
}

// Delete removes a blob by key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}

// ListByPrefix returns object references under a key prefix.
func (s *Store) ListByPrefix(ctx context.Context, prefix string, limit int) ([]ports.ObjectRef, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var refs []ports.ObjectRef
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if info.Err != nil {
			return nil, fmt.Errorf("listing objects: %w", info.Err)
		}
		refs = append(refs, ports.ObjectRef{
			Key:         info.Key,
			ContentType: info.ContentType,
			Size:        info.Size,
		})
		if limit > 0 && len(refs) >= limit {
			break
		}
	}
	return refs, nil
}

// PresignGet issues a time-bounded read URL for the object.
func (s *Store) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presigning object: %w", err)
	}
	return u.String(), nil
}
