package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/kubev2v/spo-migrator/internal/config"
	"github.com/kubev2v/spo-migrator/internal/provision"
	"github.com/kubev2v/spo-migrator/internal/store"
	"github.com/kubev2v/spo-migrator/pkg/migrationapi"
	"github.com/kubev2v/spo-migrator/pkg/queue"
	"github.com/kubev2v/spo-migrator/pkg/storage"
)

func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	if a.cfg.Agent.DataFolder != "" {
		if err := os.MkdirAll(a.cfg.Agent.DataFolder, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data folder: %w", err)
		}
	}

	db, err := store.NewDB(a.cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	st := store.NewStore(db)
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to migrate run history: %w", err)
	}
	return st, nil
}

func (a *app) awsConfig(ctx context.Context, region string) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if a.cfg.Storage.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(a.cfg.Storage.AccessKey, a.cfg.Storage.SecretKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

// containers returns the source and manifest containers.
func (a *app) containers(ctx context.Context) (storage.Container, storage.Container, error) {
	sc := a.cfg.Storage
	expiry := storage.WithAccessURLExpiry(sc.AccessURLExpiry)

	if sc.Backend == config.StorageBackendMinio {
		mc := storage.MinioConfig{
			Endpoint:  sc.Endpoint,
			AccessKey: sc.AccessKey,
			SecretKey: sc.SecretKey,
			Region:    sc.Region,
			Secure:    sc.Secure,
		}
		source, err := storage.NewMinioContainer(mc, sc.SourceBucket, expiry)
		if err != nil {
			return nil, nil, err
		}
		manifest, err := storage.NewMinioContainer(mc, sc.ManifestBucket, expiry)
		if err != nil {
			return nil, nil, err
		}
		return source, manifest, nil
	}

	awsCfg, err := a.awsConfig(ctx, sc.Region)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load aws configuration: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if sc.Endpoint != "" {
			o.BaseEndpoint = aws.String(sc.Endpoint)
			o.UsePathStyle = true
		}
	})
	return storage.NewS3Container(client, sc.SourceBucket, expiry), storage.NewS3Container(client, sc.ManifestBucket, expiry), nil
}

func (a *app) reportQueue(ctx context.Context) (queue.Queue, error) {
	qc := a.cfg.Queue
	region := qc.Region
	if region == "" {
		region = a.cfg.Storage.Region
	}

	awsCfg, err := a.awsConfig(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws configuration: %w", err)
	}
	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if qc.Endpoint != "" {
			o.BaseEndpoint = aws.String(qc.Endpoint)
		}
	})

	return queue.NewSQSQueue(client, qc.URL,
		queue.WithWaitTime(qc.WaitTimeSeconds),
		queue.WithVisibilityTimeout(qc.VisibilityTimeout),
	), nil
}

func (a *app) apiClient() *migrationapi.Client {
	return migrationapi.NewClient(
		a.cfg.Target.SiteURL,
		a.cfg.Target.WebID,
		migrationapi.FileToken(a.cfg.MigrationAPI.TokenFile),
		migrationapi.WithHTTPClient(&http.Client{Timeout: a.cfg.MigrationAPI.Timeout}),
	)
}

// items returns the content to migrate: the workbook inventory when one is
// configured, generated files otherwise.
func (a *app) items(p *provision.Provisioner) ([]provision.Item, error) {
	if a.cfg.Provision.Workbook == "" {
		return p.Generate(a.cfg.Provision.Count), nil
	}

	f, err := os.Open(a.cfg.Provision.Workbook)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return p.ReadWorkbook(f)
}
