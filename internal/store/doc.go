// Package store implements the run history of the spo-migrator.
//
// Every migration job started by the migrator is recorded in a local DuckDB
// database together with the report messages read from its queue and the log
// files downloaded once it ended. The history is read back by the status
// command and the HTTP status API.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────┬─────────────────────┬─────────────────────┤
//	│      JobStore       │     EventStore      │      LogStore       │
//	│         ▼           │         ▼           │         ▼           │
//	│        jobs         │     job_events      │      job_logs       │
//	├─────────────────────┴─────────────────────┴─────────────────────┤
//	│                QueryInterceptor (debug logging)                 │
//	│                             ▼                                   │
//	│                        *sql.DB (duckdb)                         │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
// All tables are created by LOCAL MIGRATIONS (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  jobs              │  Aggregated status, one row per job         │
//	│  job_events        │  Report messages in arrival order           │
//	│  job_logs          │  Report logs downloaded after JobEnd        │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	NewDB(path)
//	    └── ":memory:" or "" opens an in-memory database
//
//	NewStore(db)
//	    └── Initializes all sub-stores with QueryInterceptor
//
//	Store.Migrate(ctx)
//	    └── migrations.Run()  → Creates jobs, job_events, job_logs
//
// # JobStore
//
// Persists the models.JobStatus of each job. The monitor saves the status
// after every report message so an interrupted run still leaves the last
// known state behind.
//
// Methods:
//   - Save(ctx, status) → error (uses UPSERT, keeps created_at)
//   - Get(ctx, id) → *models.JobStatus or ResourceNotFoundError
//   - List(ctx, opts...) → []models.JobStatus
//   - Count(ctx, opts...) → int
//
// List Options:
//
//	jobs, err := store.Job().List(ctx,
//	    store.ByStates(models.JobStateEnded, models.JobStateError),
//	    store.WithDefaultSort(),
//	    store.WithLimit(20),
//	    store.WithOffset(0),
//	)
//
// Available options:
//
//   - ByStates(states ...models.JobState)
//     SQL: WHERE state IN (...)
//
//   - WithLimit(limit uint64), WithOffset(offset uint64)
//     SQL: LIMIT limit OFFSET offset
//
//   - WithDefaultSort()
//     Most recent job first, job id as tie-breaker.
//     SQL: ORDER BY created_at DESC, id
//
// # EventStore
//
// Append-only log of report messages keyed by (job_id, seq). seq is the
// position of the message in the stream as counted by JobStatus.Events.
//
// # LogStore
//
// One row per downloaded report log, keyed by (job_id, name). Downloading
// the same log twice overwrites the row.
//
// # QueryInterceptor
//
// All database operations are wrapped with a QueryInterceptor that provides
// debug logging for all queries.
//
// Logged operations:
//   - QueryRowContext
//   - QueryContext
//   - ExecContext
package store
