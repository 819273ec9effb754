package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioStorage keeps attachment bytes in a MinIO (or any S3-compatible)
// bucket.
type MinioStorage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool, logger *zap.Logger) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
		}
		logger.Info("created bucket", zap.String("bucket", bucket))
	}

	return &MinioStorage{client: client, bucket: bucket, logger: logger}, nil
}

func (s *MinioStorage) Save(key string, content io.Reader) error {
	ctx := context.Background()

	// StatObject first: PutObject overwrites silently, but a generated key
	// must never replace an existing object.
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return ErrKeyExists
	}
	if resp := minio.ToErrorResponse(err); resp.Code != "NoSuchKey" {
		return fmt.Errorf("checking %s: %w", key, err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, content, -1, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}

	s.logger.Debug("stored object", zap.String("bucket", s.bucket), zap.String("key", key))
	return nil
}

func (s *MinioStorage) Open(key string) (io.ReadCloser, error) {
	ctx := context.Background()

	// GetObject is lazy; Stat to surface a missing object immediately.
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("checking %s: %w", key, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", key, err)
	}
	return obj, nil
}

func (s *MinioStorage) Delete(key string) error {
	ctx := context.Background()

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return ErrNotFound
		}
		return fmt.Errorf("checking %s: %w", key, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}
