package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/spo-migrator/internal/models"
	"github.com/kubev2v/spo-migrator/internal/provision"
	"github.com/kubev2v/spo-migrator/pkg/queue"
	"github.com/kubev2v/spo-migrator/pkg/storage"
)

const (
	SourceAccess   = storage.PermissionRead | storage.PermissionList
	ManifestAccess = storage.PermissionRead | storage.PermissionWrite | storage.PermissionList
	QueueAccess    = queue.PermissionRead | queue.PermissionAdd | queue.PermissionUpdate | queue.PermissionProcess
)

// JobStarter starts a remote migration job.
type JobStarter interface {
	StartJob(ctx context.Context, sourceURL, manifestURL, queueURL string) (uuid.UUID, error)
}

type Step int

const (
	StepProvision Step = iota + 1
	StepPackage
	StepStartJob
	StepMonitor
)

func (s Step) String() string {
	switch s {
	case StepProvision:
		return "provision"
	case StepPackage:
		return "package"
	case StepStartJob:
		return "start job"
	case StepMonitor:
		return "monitor"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// StepError reports the step a run failed at.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d/%d (%s) failed: %v", int(e.Step), int(StepMonitor), e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// RunReport summarises a migration run.
type RunReport struct {
	JobID       uuid.UUID
	Files       int
	Blobs       int
	PackageSize int64
	Status      models.JobStatus
	Duration    time.Duration
}

// Migration runs the four steps of a migration: provision the source content,
// upload the package, start the job and monitor it until it ends.
type Migration struct {
	source      storage.Container
	manifest    storage.Container
	queue       queue.Queue
	target      models.Target
	provisioner *provision.Provisioner
	packager    *PackageService
	starter     JobStarter
	monitor     *JobMonitor
	logger      *zap.SugaredLogger
}

func NewMigration(
	source, manifest storage.Container,
	q queue.Queue,
	target models.Target,
	provisioner *provision.Provisioner,
	packager *PackageService,
	starter JobStarter,
	monitor *JobMonitor,
) *Migration {
	return &Migration{
		source:      source,
		manifest:    manifest,
		queue:       q,
		target:      target,
		provisioner: provisioner,
		packager:    packager,
		starter:     starter,
		monitor:     monitor,
		logger:      zap.S().Named("migration"),
	}
}

// Run migrates items. The report is returned, partially filled, even when a step fails.
func (m *Migration) Run(ctx context.Context, items []provision.Item) (*RunReport, error) {
	start := time.Now()
	report := &RunReport{}
	defer func() { report.Duration = time.Since(start) }()

	m.step(StepProvision, "container", m.source.Name(), "items", len(items))
	files, err := m.provisioner.Provision(ctx, items)
	if err != nil {
		return report, &StepError{Step: StepProvision, Err: err}
	}
	report.Files = len(files)

	m.step(StepPackage, "container", m.manifest.Name(), "files", len(files))
	pkg, err := m.packager.Upload(ctx, files, m.target)
	if err != nil {
		return report, &StepError{Step: StepPackage, Err: err}
	}
	report.Blobs = len(pkg.Blobs)
	report.PackageSize = pkg.TotalSize()

	m.step(StepStartJob, "site", m.target.SiteName)
	jobID, err := m.startJob(ctx)
	if err != nil {
		return report, &StepError{Step: StepStartJob, Err: err}
	}
	report.JobID = jobID
	m.logger.Infow("migration job started", "job_id", jobID)

	m.step(StepMonitor, "job_id", jobID)
	status, err := m.monitor.Run(ctx, jobID)
	report.Status = status
	if err != nil {
		return report, &StepError{Step: StepMonitor, Err: err}
	}

	return report, nil
}

func (m *Migration) startJob(ctx context.Context) (uuid.UUID, error) {
	sourceURL, err := m.source.AccessURL(ctx, SourceAccess)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get source container url: %w", err)
	}
	manifestURL, err := m.manifest.AccessURL(ctx, ManifestAccess)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get manifest container url: %w", err)
	}
	queueURL, err := m.queue.AccessURL(ctx, QueueAccess)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get report queue url: %w", err)
	}

	return m.starter.StartJob(ctx, sourceURL, manifestURL, queueURL)
}

func (m *Migration) step(s Step, keysAndValues ...any) {
	m.logger.Infow(fmt.Sprintf("step %d/%d: %s", int(s), int(StepMonitor), s), keysAndValues...)
}
