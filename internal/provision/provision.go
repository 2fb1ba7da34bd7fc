// Package provision creates the test content migrated by a run.
package provision

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/spo-migrator/internal/models"
	"github.com/kubev2v/spo-migrator/pkg/scheduler"
	"github.com/kubev2v/spo-migrator/pkg/storage"
)

var (
	departments = []string{"Finance", "Legal", "Marketing", "Sales"}
	categories  = []string{"Report", "Contract", "Invoice"}
)

// Item is a file to provision together with its content.
type Item struct {
	File    models.SourceFile
	Content []byte
}

type Option func(*Provisioner)

func WithClock(now func() time.Time) Option {
	return func(p *Provisioner) {
		p.now = now
	}
}

// Provisioner uploads test content to the source container.
type Provisioner struct {
	container storage.Container
	scheduler *scheduler.Scheduler
	now       func() time.Time
	logger    *zap.SugaredLogger
}

func NewProvisioner(c storage.Container, s *scheduler.Scheduler, opts ...Option) *Provisioner {
	p := &Provisioner{
		container: c,
		scheduler: s,
		now:       time.Now,
		logger:    zap.S().Named("provision"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate returns count synthetic text files. Properties rotate over a fixed
// set of departments and categories.
func (p *Provisioner) Generate(count int) []Item {
	now := p.now().UTC().Truncate(time.Second)
	items := make([]Item, 0, count)
	for i := 0; i < count; i++ {
		n := i + 1
		title := fmt.Sprintf("Test file %d", n)
		content := []byte(fmt.Sprintf("%s\ngenerated at %s\n", title, now.Format(time.RFC3339)))
		items = append(items, Item{
			File: models.SourceFile{
				Filename:     fmt.Sprintf("testfile-%04d.txt", n),
				Title:        title,
				LastModified: now,
				Size:         int64(len(content)),
				Properties: map[string]string{
					"Department": departments[i%len(departments)],
					"Category":   categories[i%len(categories)],
				},
			},
			Content: content,
		})
	}
	return items
}

// Provision replaces the content of the source container with items and
// returns the files to describe in the manifest.
func (p *Provisioner) Provision(ctx context.Context, items []Item) ([]models.SourceFile, error) {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.File.Filename == "" {
			return nil, fmt.Errorf("source file with title %q has no filename", item.File.Title)
		}
		if _, ok := seen[item.File.Filename]; ok {
			return nil, fmt.Errorf("duplicate source filename %q", item.File.Filename)
		}
		seen[item.File.Filename] = struct{}{}
	}

	if err := p.container.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clean source container %s: %w", p.container.Name(), err)
	}

	futures := make([]*scheduler.Future[scheduler.Result[any]], 0, len(items))
	for _, item := range items {
		item := item
		futures = append(futures, p.scheduler.AddWork("provision "+item.File.Filename, func(wctx context.Context) (any, error) {
			if err := p.container.Upload(wctx, item.File.Filename, item.Content); err != nil {
				return nil, err
			}
			f := item.File
			f.Size = int64(len(item.Content))
			return f, nil
		}))
	}

	results, err := scheduler.Gather(ctx, futures...)
	if err != nil {
		return nil, fmt.Errorf("failed to provision source files: %w", err)
	}

	files := make([]models.SourceFile, 0, len(results))
	for _, r := range results {
		files = append(files, r.(models.SourceFile))
	}

	p.logger.Infow("source files provisioned", "container", p.container.Name(), "count", len(files))
	return files, nil
}
