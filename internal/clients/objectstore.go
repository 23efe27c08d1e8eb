package clients

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/prasetyo/school-engine/internal/config"
)

// ObjectStore wraps the minio client scoped to one bucket and key prefix.
type ObjectStore struct {
	raw    *minio.Client
	bucket string
	prefix string
}

func NewObjectStore(ctx context.Context, cfg config.ObjectStoreConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	store := &ObjectStore{
		raw:    client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q failed: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %q failed: %w", cfg.Bucket, err)
		}
	}

	return store, nil
}

// Put writes an object and returns its full key.
func (s *ObjectStore) Put(ctx context.Context, key, contentType string, reader io.Reader, size int64) (string, error) {
	fullKey := s.prefix + key

	_, err := s.raw.PutObject(ctx, s.bucket, fullKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %q failed: %w", fullKey, err)
	}

	return fullKey, nil
}

// Get opens an object for reading. The caller closes the returned reader.
func (s *ObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.raw.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q failed: %w", key, err)
	}
	return obj, nil
}

// Remove deletes an object.
func (s *ObjectStore) Remove(ctx context.Context, key string) error {
	if err := s.raw.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q failed: %w", key, err)
	}
	return nil
}

// Ping verifies the bucket is reachable, used by the readiness check.
func (s *ObjectStore) Ping(ctx context.Context) error {
	_, err := s.raw.BucketExists(ctx, s.bucket)
	return err
}
