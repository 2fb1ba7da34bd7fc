package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// deleteBatchSize is the maximum number of keys accepted by DeleteObjects.
const deleteBatchSize = 1000

// S3API is the subset of *s3.Client used by S3Container.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Presigner is the subset of *s3.PresignClient used by S3Container.
type S3Presigner interface {
	PresignHeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3Container struct {
	api     S3API
	presign S3Presigner
	bucket  string
	opts    options
	logger  *zap.SugaredLogger
}

func NewS3Container(client *s3.Client, bucket string, opts ...Option) *S3Container {
	return NewS3ContainerWithAPI(client, s3.NewPresignClient(client), bucket, opts...)
}

func NewS3ContainerWithAPI(api S3API, presigner S3Presigner, bucket string, opts ...Option) *S3Container {
	return &S3Container{
		api:     api,
		presign: presigner,
		bucket:  bucket,
		opts:    newOptions(opts),
		logger:  zap.S().Named("s3").With("bucket", bucket),
	}
}

func (c *S3Container) Name() string {
	return c.bucket
}

func (c *S3Container) Upload(ctx context.Context, name string, data []byte) error {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return newError("upload", c.bucket, name, err)
	}
	c.logger.Debugw("blob uploaded", "name", name, "size", len(data))
	return nil
}

func (c *S3Container) Download(ctx context.Context, name string) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return nil, newError("download", c.bucket, name, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, newError("download", c.bucket, name, err)
	}
	return data, nil
}

func (c *S3Container) List(ctx context.Context, prefix string) ([]Object, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(c.bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var objects []Object
	paginator := s3.NewListObjectsV2Paginator(c.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, newError("list", c.bucket, prefix, err)
		}
		for _, o := range page.Contents {
			objects = append(objects, Object{
				Name:         aws.ToString(o.Key),
				Size:         aws.ToInt64(o.Size),
				LastModified: aws.ToTime(o.LastModified),
			})
		}
	}
	return objects, nil
}

func (c *S3Container) DeleteAll(ctx context.Context) error {
	objects, err := c.List(ctx, "")
	if err != nil {
		return err
	}

	for start := 0; start < len(objects); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(objects))
		ids := make([]types.ObjectIdentifier, 0, end-start)
		for _, o := range objects[start:end] {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(o.Name)})
		}

		out, err := c.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(c.bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return newError("delete", c.bucket, "", err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return newError("delete", c.bucket, aws.ToString(first.Key),
				fmt.Errorf("%d objects not deleted: %s", len(out.Errors), aws.ToString(first.Message)))
		}
	}

	c.logger.Debugw("container emptied", "deleted", len(objects))
	return nil
}

// AccessURL presigns a request on the bucket itself. S3 has no container wide
// grant, so perm is only recorded and the caller's credentials decide the rights.
func (c *S3Container) AccessURL(ctx context.Context, perm Permission) (string, error) {
	req, err := c.presign.PresignHeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	}, s3.WithPresignExpires(c.opts.expiry))
	if err != nil {
		return "", newError("presign", c.bucket, "", err)
	}
	c.logger.Debugw("access url issued", "permissions", perm.String(), "expiry", c.opts.expiry)
	return req.URL, nil
}
