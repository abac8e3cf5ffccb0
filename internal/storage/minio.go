package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"unihub/internal/config"
)

// MinioClient is the MinIO-backed Service.
type MinioClient struct {
	core      *minio.Client
	bucket    string
	publicURL string
}

var _ Service = (*MinioClient)(nil)

// NewMinio connects to MinIO and creates the bucket when missing.
func NewMinio(ctx context.Context, cfg config.StorageConfig) (*MinioClient, error) {
	core, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	if err := ensureBucket(ctx, core, cfg.Bucket, cfg.Region); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", cfg.Bucket, err)
	}

	return &MinioClient{core: core, bucket: cfg.Bucket, publicURL: cfg.PublicURL}, nil
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket, region string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region})
}

func (c *MinioClient) PutObject(ctx context.Context, in UploadInput) (string, error) {
	_, err := c.core.PutObject(ctx, c.bucket, in.Key, in.Body, in.Size, minio.PutObjectOptions{ContentType: in.ContentType})
	if err != nil {
		return "", err
	}
	return c.objectURL(in.Key), nil
}

func (c *MinioClient) DeleteObject(ctx context.Context, key string) error {
	return c.core.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}

func (c *MinioClient) KeyFromURL(url string) (string, bool) {
	return keyFromURL(c.baseURL(), url)
}

func (c *MinioClient) objectURL(key string) string {
	return c.baseURL() + "/" + strings.TrimLeft(key, "/")
}

func (c *MinioClient) baseURL() string {
	if c.publicURL != "" {
		return strings.TrimRight(c.publicURL, "/")
	}
	if endpoint := c.core.EndpointURL(); endpoint != nil {
		return fmt.Sprintf("%s/%s", strings.TrimRight(endpoint.String(), "/"), c.bucket)
	}
	return "/" + c.bucket
}

func keyFromURL(base, url string) (string, bool) {
	prefix := base + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key, key != ""
}
