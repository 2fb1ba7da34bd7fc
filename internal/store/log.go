package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/kubev2v/spo-migrator/internal/models"
)

// LogStore records the report log files downloaded for a job.
type LogStore struct {
	db QueryInterceptor
}

func NewLogStore(db QueryInterceptor) *LogStore {
	return &LogStore{db: db}
}

func (s *LogStore) Save(ctx context.Context, l models.JobLog) error {
	_, err := s.db.ExecContext(ctx, queryUpsertJobLog, l.JobID.String(), l.Name, l.Path, l.Size, l.DownloadedAt.UTC())
	return err
}

func (s *LogStore) List(ctx context.Context, jobID uuid.UUID) ([]models.JobLog, error) {
	query, args, err := sq.Select("name", "path", "size", "downloaded_at").
		From("job_logs").
		Where(sq.Eq{"job_id": jobID.String()}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.JobLog
	for rows.Next() {
		l := models.JobLog{JobID: jobID}
		if err := rows.Scan(&l.Name, &l.Path, &l.Size, &l.DownloadedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
