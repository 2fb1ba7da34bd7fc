package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/spo-migrator/internal/models"
	"github.com/kubev2v/spo-migrator/internal/store"
	srvErrors "github.com/kubev2v/spo-migrator/pkg/errors"
	"github.com/kubev2v/spo-migrator/pkg/queue"
	"github.com/kubev2v/spo-migrator/pkg/storage"
)

const (
	DefaultInitialInterval = time.Second
	DefaultMaxInterval     = 30 * time.Second
	DefaultIdleTimeout     = time.Hour
)

var errQueueEmpty = errors.New("report queue is empty")

// LogPrefix returns the prefix of the report logs written by the job in the manifest container.
func LogPrefix(jobID uuid.UUID) string {
	return "Import-" + jobID.String()
}

type MonitorConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// IdleTimeout bounds the time spent waiting for the next report message.
	IdleTimeout time.Duration
	LogFolder   string
}

// JobMonitor follows a migration job through its report queue.
type JobMonitor struct {
	queue     queue.Queue
	container storage.Container
	store     *store.Store
	cfg       MonitorConfig
	now       func() time.Time
	mu        sync.Mutex
	running   map[uuid.UUID]struct{}
	logger    *zap.SugaredLogger
}

func NewJobMonitor(q queue.Queue, manifestContainer storage.Container, st *store.Store, cfg MonitorConfig) *JobMonitor {
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = DefaultInitialInterval
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		cfg.MaxInterval = max(DefaultMaxInterval, cfg.InitialInterval)
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	return &JobMonitor{
		queue:     q,
		container: manifestContainer,
		store:     st,
		cfg:       cfg,
		now:       time.Now,
		running:   make(map[uuid.UUID]struct{}),
		logger:    zap.S().Named("job_monitor"),
	}
}

// Run reads the report queue until the job ends, then downloads its report logs.
// It returns the last known status of the job together with any error.
func (m *JobMonitor) Run(ctx context.Context, jobID uuid.UUID) (models.JobStatus, error) {
	if err := m.acquire(jobID); err != nil {
		return models.JobStatus{}, err
	}
	defer m.release(jobID)

	status := models.NewJobStatus(jobID, m.now())
	if err := m.store.Job().Save(ctx, status); err != nil {
		return status, fmt.Errorf("failed to save job %s: %w", jobID, err)
	}

	m.logger.Infow("monitoring job", "job_id", jobID)

	for {
		msg, err := m.next(ctx)
		if err != nil {
			if errors.Is(err, errQueueEmpty) {
				err = srvErrors.NewMonitorTimeoutError(jobID, m.cfg.IdleTimeout)
			}
			m.logger.Errorw("monitoring stopped", "job_id", jobID, "state", status.State, "error", err)
			return status, err
		}

		if !msg.BelongsTo(jobID) {
			m.logger.Debugw("skipping report message of another job", "job_id", jobID, "message_job_id", msg.JobID)
			continue
		}

		ended, err := m.apply(ctx, &status, *msg)
		if err != nil {
			return status, err
		}
		if ended {
			break
		}
	}

	if err := m.downloadLogs(ctx, jobID); err != nil {
		return status, err
	}

	m.logger.Infow("job ended",
		"job_id", jobID,
		"files_created", status.FilesCreated,
		"total_errors", status.TotalErrors,
		"warnings", status.Warnings,
	)
	return status, nil
}

func (m *JobMonitor) acquire(jobID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.running[jobID]; ok {
		return srvErrors.NewMonitorInProgressError(jobID)
	}
	m.running[jobID] = struct{}{}
	return nil
}

func (m *JobMonitor) release(jobID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.running, jobID)
}

// next waits for the next report message. The wait grows exponentially while
// the queue stays empty and gives up with errQueueEmpty after the idle timeout.
func (m *JobMonitor) next(ctx context.Context) (*models.ReportMessage, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = m.cfg.InitialInterval
	b.MaxInterval = m.cfg.MaxInterval

	return backoff.Retry(ctx, func() (*models.ReportMessage, error) {
		msg, err := queue.Next[models.ReportMessage](ctx, m.queue)
		switch {
		case errors.Is(err, queue.ErrMalformedMessage):
			m.logger.Warnw("dropping malformed report message", "error", err)
			return nil, errQueueEmpty
		case err != nil:
			return nil, backoff.Permanent(fmt.Errorf("failed to read report queue: %w", err))
		case msg == nil:
			return nil, errQueueEmpty
		}
		return msg, nil
	},
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(m.cfg.IdleTimeout),
	)
}

func (m *JobMonitor) apply(ctx context.Context, status *models.JobStatus, msg models.ReportMessage) (bool, error) {
	now := m.now()

	switch msg.Event {
	case models.JobEventWarning:
		m.logger.Warnw("job warning", "job_id", status.JobID, "message", msg.Message)
	case models.JobEventError:
		m.logger.Errorw("job error", "job_id", status.JobID, "message", msg.Message, "total_errors", int64(msg.TotalErrors))
	case models.JobEventProgress:
		m.logger.Infow("job progress", "job_id", status.JobID, "files_created", int64(msg.FilesCreated), "total_errors", int64(msg.TotalErrors))
	default:
		if !msg.Event.Known() {
			m.logger.Warnw("unknown report event", "job_id", status.JobID, "event", msg.Event)
		} else {
			m.logger.Infow("job event", "job_id", status.JobID, "event", msg.Event)
		}
	}

	ended := status.Apply(msg, now)

	event := models.JobEventRecord{
		JobID:        status.JobID,
		Seq:          status.Events,
		Event:        msg.Event,
		FilesCreated: int64(msg.FilesCreated),
		TotalErrors:  int64(msg.TotalErrors),
		Message:      msg.Message,
		ReceivedAt:   now,
	}
	if err := m.store.Event().Append(ctx, event); err != nil {
		return ended, fmt.Errorf("failed to record event of job %s: %w", status.JobID, err)
	}
	if err := m.store.Job().Save(ctx, *status); err != nil {
		return ended, fmt.Errorf("failed to save job %s: %w", status.JobID, err)
	}

	return ended, nil
}

func (m *JobMonitor) downloadLogs(ctx context.Context, jobID uuid.UUID) error {
	objects, err := m.container.List(ctx, LogPrefix(jobID))
	if err != nil {
		return fmt.Errorf("failed to list report logs of job %s: %w", jobID, err)
	}
	if len(objects) == 0 {
		m.logger.Warnw("no report logs found", "job_id", jobID, "prefix", LogPrefix(jobID))
		return nil
	}

	if err := os.MkdirAll(m.cfg.LogFolder, 0o755); err != nil {
		return fmt.Errorf("failed to create log folder %s: %w", m.cfg.LogFolder, err)
	}

	for _, obj := range objects {
		data, err := m.container.Download(ctx, obj.Name)
		if err != nil {
			return fmt.Errorf("failed to download report log %s: %w", obj.Name, err)
		}

		name := path.Base(obj.Name)
		dest := filepath.Join(m.cfg.LogFolder, name)
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report log %s: %w", dest, err)
		}

		err = m.store.Log().Save(ctx, models.JobLog{
			JobID:        jobID,
			Name:         name,
			Path:         dest,
			Size:         int64(len(data)),
			DownloadedAt: m.now(),
		})
		if err != nil {
			return fmt.Errorf("failed to record report log %s: %w", name, err)
		}

		m.logger.Infow("report log downloaded", "job_id", jobID, "name", name, "path", dest, "size", len(data))
	}

	return nil
}
