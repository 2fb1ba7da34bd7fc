package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/kubev2v/spo-migrator/internal/models"
)

// EventStore keeps every report message received for a job.
type EventStore struct {
	db QueryInterceptor
}

func NewEventStore(db QueryInterceptor) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Append(ctx context.Context, e models.JobEventRecord) error {
	query, args, err := sq.Insert("job_events").
		Columns("job_id", "seq", "event", "files_created", "total_errors", "message", "received_at").
		Values(e.JobID.String(), e.Seq, string(e.Event), e.FilesCreated, e.TotalErrors, e.Message, e.ReceivedAt.UTC()).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// List returns the events of the job in arrival order.
func (s *EventStore) List(ctx context.Context, jobID uuid.UUID) ([]models.JobEventRecord, error) {
	query, args, err := sq.Select("seq", "event", "files_created", "total_errors", "message", "received_at").
		From("job_events").
		Where(sq.Eq{"job_id": jobID.String()}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.JobEventRecord
	for rows.Next() {
		e := models.JobEventRecord{JobID: jobID}
		var event string
		if err := rows.Scan(&e.Seq, &event, &e.FilesCreated, &e.TotalErrors, &e.Message, &e.ReceivedAt); err != nil {
			return nil, err
		}
		e.Event = models.JobEvent(event)
		events = append(events, e)
	}
	return events, rows.Err()
}
