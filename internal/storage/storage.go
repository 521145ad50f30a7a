// Package storage wraps the S3-compatible object store holding uploaded
// source videos.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"reeldocs/internal/config"
)

// Store provides object access against a single configured bucket.
type Store struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

// New builds a store from configuration. The bucket is created on first use
// if it does not exist.
func New(cfg config.Storage) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Store{
		client: client,
		bucket: cfg.Bucket,
		ttl:    time.Duration(cfg.SignedURLTTL) * time.Second,
	}, nil
}

// EnsureBucket creates the configured bucket when missing.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", s.bucket, err)
	}
	return nil
}

// Open returns a reader over the object at the given path. The caller closes
// it.
func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", path, err)
	}
	return object, nil
}

// SignedReadURL returns a presigned GET URL for the object, valid for the
// given TTL. A non-positive TTL uses the configured default.
func (s *Store) SignedReadURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	signed, err := s.client.PresignedGetObject(ctx, s.bucket, path, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %q: %w", path, err)
	}
	return signed.String(), nil
}

// SignedUploadURL returns a presigned PUT URL so browsers can stream uploads
// directly to the bucket.
func (s *Store) SignedUploadURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	signed, err := s.client.PresignedPutObject(ctx, s.bucket, path, ttl)
	if err != nil {
		return "", fmt.Errorf("presign upload %q: %w", path, err)
	}
	return signed.String(), nil
}
