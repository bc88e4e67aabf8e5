package minio

import (
	"context"
	"io"
	"time"
)

// Store binds the package's MinIO operations to one bucket. It is the blob
// store the look service is injected with.
type Store struct {
	bucket string
}

func NewStore(bucket string) *Store {
	return &Store{bucket: bucket}
}

func (s *Store) Upload(ctx context.Context, path string, content io.Reader, size int64, contentType string) error {
	_, err := UploadImage(ctx, s.bucket, path, content, size, contentType)
	return err
}

func (s *Store) Remove(ctx context.Context, paths []string) error {
	return RemoveFiles(ctx, s.bucket, paths)
}

func (s *Store) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	return GetPresignedURL(ctx, s.bucket, path, ttl)
}

func (s *Store) SignedURLs(ctx context.Context, paths []string, ttl time.Duration) (map[string]string, error) {
	return GetPresignedURLs(ctx, s.bucket, paths, ttl)
}

func (s *Store) Bucket() string {
	return s.bucket
}
