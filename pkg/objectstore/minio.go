package objectstore

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStore struct {
	client       *minio.Client
	bucket       string
	uploadExpiry time.Duration
}

type MinioConfig struct {
	Endpoint        string
	AccessKey       string
	SecretKey       string
	Bucket          string
	UseSSL          bool
	UploadExpiryMin int
}

func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	expiry := time.Duration(cfg.UploadExpiryMin) * time.Minute
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &MinioStore{
		client:       client,
		bucket:       cfg.Bucket,
		uploadExpiry: expiry,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *MinioStore) PresignedUpload(ctx context.Context, storageID string) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, storageID, s.uploadExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %s: %w", storageID, err)
	}
	return u.String(), nil
}

func (s *MinioStore) PresignedGet(ctx context.Context, storageID string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, storageID, s.uploadExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign download for %s: %w", storageID, err)
	}
	return u.String(), nil
}
