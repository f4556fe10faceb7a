package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
)

// MinioConfig carries the S3-compatible backend settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type minioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	log     *logger.Logger
}

// NewMinioStore connects to the object store and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg MinioConfig, baseLog *logger.Logger) (ImageStore, error) {
	storeLog := baseLog.With("store", "MinioImageStore")
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	baseURL := fmt.Sprintf("%s://%s/%s/", scheme, cfg.Endpoint, cfg.Bucket)
	storeLog.Info("Connected to minio object store", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return &minioStore{client: client, bucket: cfg.Bucket, baseURL: baseURL, log: storeLog}, nil
}

func (s *minioStore) Save(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.baseURL + key, nil
}

func (s *minioStore) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, s.baseURL)
	if key == url {
		return fmt.Errorf("url %q does not belong to bucket %s", url, s.bucket)
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
