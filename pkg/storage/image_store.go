package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageStore provides access to the blob store holding school photos.
type ImageStore interface {
	// Put uploads an object and returns its public URL.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete removes an object. Used to compensate a failed insert.
	Delete(ctx context.Context, key string) error
}

// MinioStore implements ImageStore for MinIO/S3 compatible storage.
type MinioStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// MinioConfig holds credentials and addressing for the blob store.
// PublicBaseURL overrides the URL prefix stored on records, for setups
// where clients reach the bucket through a CDN or different host; when
// empty the endpoint itself is used.
type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	base := strings.TrimSuffix(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}
	return &MinioStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: base,
	}, nil
}

// Put uploads an object and returns the URL it is reachable at. The bucket
// is expected to allow anonymous reads; the URL is stored on the record and
// dereferenced straight from the browser.
func (m *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", m.publicBaseURL, m.bucket, key), nil
}

// Delete removes an object.
func (m *MinioStore) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
