package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/kubev2v/spo-migrator/internal/models"
	srvErrors "github.com/kubev2v/spo-migrator/pkg/errors"
)

var jobColumns = []string{
	"id",
	"state",
	"files_created",
	"total_errors",
	"warnings",
	"events",
	"last_message",
	"last_error",
	"created_at",
	"updated_at",
}

// JobStore persists the aggregated status of migration jobs.
type JobStore struct {
	db QueryInterceptor
}

func NewJobStore(db QueryInterceptor) *JobStore {
	return &JobStore{db: db}
}

// Save inserts or updates the job status. created_at is kept on update.
func (s *JobStore) Save(ctx context.Context, j models.JobStatus) error {
	_, err := s.db.ExecContext(ctx, queryUpsertJob,
		j.JobID.String(),
		string(j.State),
		j.FilesCreated,
		j.TotalErrors,
		j.Warnings,
		j.Events,
		j.LastMessage,
		j.LastError,
		j.CreatedAt.UTC(),
		j.UpdatedAt.UTC(),
	)
	return err
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*models.JobStatus, error) {
	query, args, err := sq.Select(jobColumns...).From("jobs").Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return nil, err
	}

	j, err := scanJob(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewJobNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (s *JobStore) List(ctx context.Context, opts ...ListOption) ([]models.JobStatus, error) {
	builder := sq.Select(jobColumns...).From("jobs")
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.JobStatus
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (s *JobStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("jobs")
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*models.JobStatus, error) {
	var (
		j     models.JobStatus
		id    string
		state string
	)
	err := row.Scan(
		&id,
		&state,
		&j.FilesCreated,
		&j.TotalErrors,
		&j.Warnings,
		&j.Events,
		&j.LastMessage,
		&j.LastError,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if j.JobID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if j.State, err = models.ParseJobState(state); err != nil {
		return nil, err
	}
	return &j, nil
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByStates(states ...models.JobState) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(states) == 0 {
			return b
		}
		values := make([]string, 0, len(states))
		for _, s := range states {
			values = append(values, string(s))
		}
		return b.Where(sq.Eq{"state": values})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

// WithDefaultSort lists the most recent jobs first.
func WithDefaultSort() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("created_at DESC", "id")
	}
}
