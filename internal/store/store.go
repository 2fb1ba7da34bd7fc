package store

import (
	"context"
	"database/sql"

	"github.com/kubev2v/spo-migrator/internal/store/migrations"
)

// Store provides access to all storage repositories.
type Store struct {
	db     *sql.DB
	job    *JobStore
	events *EventStore
	logs   *LogStore
}

func NewStore(db *sql.DB) *Store {
	qi := newLoggingInterceptor(db)
	return &Store{
		db:     db,
		job:    NewJobStore(qi),
		events: NewEventStore(qi),
		logs:   NewLogStore(qi),
	}
}

// Migrate creates the run history tables.
func (s *Store) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, s.db)
}

func (s *Store) Job() *JobStore {
	return s.job
}

func (s *Store) Event() *EventStore {
	return s.events
}

func (s *Store) Log() *LogStore {
	return s.logs
}

func (s *Store) Close() error {
	return s.db.Close()
}
