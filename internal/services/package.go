package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kubev2v/spo-migrator/internal/models"
	srvErrors "github.com/kubev2v/spo-migrator/pkg/errors"
	"github.com/kubev2v/spo-migrator/pkg/manifest"
	"github.com/kubev2v/spo-migrator/pkg/scheduler"
	"github.com/kubev2v/spo-migrator/pkg/storage"
)

// PackageService builds the migration package and uploads it to the manifest container.
type PackageService struct {
	container storage.Container
	scheduler *scheduler.Scheduler
	opts      []manifest.Option
	logger    *zap.SugaredLogger
}

func NewPackageService(c storage.Container, s *scheduler.Scheduler, opts ...manifest.Option) *PackageService {
	return &PackageService{
		container: c,
		scheduler: s,
		opts:      opts,
		logger:    zap.S().Named("package_service"),
	}
}

// Upload replaces the content of the manifest container with the package describing files.
func (p *PackageService) Upload(ctx context.Context, files []models.SourceFile, target models.Target) (*manifest.Package, error) {
	if len(files) == 0 {
		return nil, srvErrors.NewNoSourceFilesError()
	}

	pkg, err := manifest.NewPackage(files, target, p.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	if err := p.container.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clean manifest container %s: %w", p.container.Name(), err)
	}

	futures := make([]*scheduler.Future[scheduler.Result[any]], 0, len(pkg.Blobs))
	for _, blob := range pkg.Blobs {
		blob := blob
		futures = append(futures, p.scheduler.AddWork("upload "+blob.Name, func(wctx context.Context) (any, error) {
			return nil, p.container.Upload(wctx, blob.Name, blob.Contents)
		}))
	}

	if _, err := scheduler.Gather(ctx, futures...); err != nil {
		return nil, fmt.Errorf("failed to upload package: %w", err)
	}

	p.logger.Infow("package uploaded",
		"container", p.container.Name(),
		"blobs", len(pkg.Blobs),
		"size", pkg.TotalSize(),
		"files", len(files),
	)
	return pkg, nil
}
