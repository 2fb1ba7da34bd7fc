package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Secure    bool
}

// MinioContainer stores blobs in a bucket of a MinIO (or any S3 compatible) server.
type MinioContainer struct {
	client *minio.Client
	bucket string
	opts   options
	logger *zap.SugaredLogger
}

func NewMinioContainer(cfg MinioConfig, bucket string, opts ...Option) (*MinioContainer, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for %s: %w", cfg.Endpoint, err)
	}
	return NewMinioContainerWithClient(client, bucket, opts...), nil
}

func NewMinioContainerWithClient(client *minio.Client, bucket string, opts ...Option) *MinioContainer {
	return &MinioContainer{
		client: client,
		bucket: bucket,
		opts:   newOptions(opts),
		logger: zap.S().Named("minio").With("bucket", bucket),
	}
}

func (c *MinioContainer) Name() string {
	return c.bucket
}

func (c *MinioContainer) Upload(ctx context.Context, name string, data []byte) error {
	_, err := c.client.PutObject(ctx, c.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return newError("upload", c.bucket, name, err)
	}
	c.logger.Debugw("blob uploaded", "name", name, "size", len(data))
	return nil
}

func (c *MinioContainer) Download(ctx context.Context, name string) ([]byte, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, newError("download", c.bucket, name, err)
	}
	defer func() {
		_ = obj.Close()
	}()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, newError("download", c.bucket, name, err)
	}
	return data, nil
}

func (c *MinioContainer) List(ctx context.Context, prefix string) ([]Object, error) {
	var objects []Object
	for info := range c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return nil, newError("list", c.bucket, prefix, info.Err)
		}
		objects = append(objects, Object{
			Name:         info.Key,
			Size:         info.Size,
			LastModified: info.LastModified,
		})
	}
	return objects, nil
}

func (c *MinioContainer) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectsCh := c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Recursive: true})
	for rErr := range c.client.RemoveObjects(ctx, c.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rErr.Err != nil {
			return newError("delete", c.bucket, rErr.ObjectName, rErr.Err)
		}
	}
	return ctx.Err()
}

// AccessURL presigns a ListObjectsV2 request on the bucket.
func (c *MinioContainer) AccessURL(ctx context.Context, perm Permission) (string, error) {
	params := url.Values{}
	params.Set("list-type", "2")

	u, err := c.client.Presign(ctx, http.MethodGet, c.bucket, "", c.opts.expiry, params)
	if err != nil {
		return "", newError("presign", c.bucket, "", err)
	}
	c.logger.Debugw("access url issued", "permissions", perm.String(), "expiry", c.opts.expiry)
	return u.String(), nil
}
