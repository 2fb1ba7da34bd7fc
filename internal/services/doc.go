// Package services implements the business logic layer of the spo-migrator.
//
// Services sit between the command line and HTTP handlers on one side and the
// collaborators (object storage, report queue, migration API, run history) on
// the other. They hold no global state: every collaborator is handed to the
// constructor.
//
// # Service Dependency Graph
//
//	cmd/spo-migrator (run, package, status, serve)
//	    │
//	    ▼
//	Services Layer
//	    ├── Migration ────────► Provisioner, PackageService, JobStarter, JobMonitor
//	    ├── PackageService ───► manifest.NewPackage, Container (manifest), Scheduler
//	    ├── JobMonitor ───────► Queue, Container (manifest), Store
//	    └── JobService ───────► Store
//
// # Migration
//
// Migration runs the four steps of a migration in order. A failing step stops
// the run and is reported as a StepError.
//
//	┌───────────┐    ┌─────────┐    ┌───────────┐    ┌─────────┐
//	│ Provision │───►│ Package │───►│ Start job │───►│ Monitor │
//	└───────────┘    └─────────┘    └───────────┘    └─────────┘
//	  source            manifest       migration        report
//	  container         container      API              queue
//
// Before the job is started, an access url is requested from each collaborator:
//
//	┌────────────────────┬──────────────────────────────────────┐
//	│  Collaborator      │  Rights                              │
//	├────────────────────┼──────────────────────────────────────┤
//	│  source container  │  Read, List                          │
//	│  manifest container│  Read, Write, List                   │
//	│  report queue      │  Read, Add, Update, Process          │
//	└────────────────────┴──────────────────────────────────────┘
//
// Usage:
//
//	migration := services.NewMigration(source, manifest, queue, target,
//	    provisioner, packager, apiClient, monitor)
//	report, err := migration.Run(ctx, provisioner.Generate(10))
//
// # PackageService
//
// Builds the package with manifest.NewPackage, empties the manifest container
// and uploads the eight blobs concurrently through the scheduler. The first
// failed upload cancels the others.
//
// Key behaviors:
//   - No source file: NoSourceFilesError, the container is not touched
//   - Invalid target: error before the container is emptied
//
// # JobMonitor
//
// JobMonitor reads the report queue of a job until the job ends.
//
// State Machine:
//
//	┌─────────┐   ┌────────┐   ┌─────────┐   ┌─────────┐   ┌───────┐   ┌───────┐
//	│ Pending │──►│ Queued │──►│ Started │──►│ Running │──►│ Error │──►│ Ended │
//	└─────────┘   └────────┘   └─────────┘   └─────────┘   └───────┘   └───────┘
//	                                             ▲   │                  (terminal)
//	                                             └───┘
//	                                          JobProgress
//
// The state only moves forward. A late JobQueued after JobStart is counted but
// does not change the state. Counters keep the highest value seen.
//
// Event handling:
//
//	┌──────────────┬───────────────────────────────────────────────┐
//	│  Event       │  Effect                                       │
//	├──────────────┼───────────────────────────────────────────────┤
//	│  JobQueued   │  state Queued                                 │
//	│  JobStart    │  state Started                                │
//	│  JobProgress │  state Running, counters updated              │
//	│  JobWarning  │  logged, warnings counter incremented         │
//	│  JobError    │  logged, state Error, polling continues       │
//	│  JobEnd      │  state Ended, report logs downloaded, return  │
//	│  other       │  logged as unknown and ignored                │
//	└──────────────┴───────────────────────────────────────────────┘
//
// Messages carrying another job id are skipped. Malformed messages are
// removed from the queue and skipped.
//
// Waiting:
//   - An empty queue is polled again with exponential backoff starting at
//     InitialInterval and capped at MaxInterval
//   - The backoff restarts after each message
//   - Waiting longer than IdleTimeout for a message fails with MonitorTimeoutError
//   - Queue failures are returned at once, never retried
//   - Context cancellation stops the wait
//
// Report logs:
//
// After JobEnd the blobs of the manifest container whose name starts with
// Import-{jobID} are listed once, downloaded and written under LogFolder with
// their base name. Each download is recorded in the store.
//
// Persistence:
//
// The job row is saved when monitoring starts and after every message. Each
// message is appended to job_events with its position in the stream.
//
// # JobService
//
// Read-only facade over the run history, used by the status command and the
// HTTP handlers.
//
// Usage:
//
//	jobService := services.NewJobService(store)
//	res, err := jobService.List(ctx, services.JobListParams{
//	    States: []models.JobState{models.JobStateEnded},
//	    Limit:  20,
//	})
//	events, err := jobService.Events(ctx, jobID)
//
// # Thread Safety
//
// JobMonitor:
//   - Running jobs tracked in a mutex protected set
//   - A second Run for a job being monitored fails with MonitorInProgressError
//
// Migration, PackageService and JobService:
//   - Stateless (only hold collaborator references)
package services
