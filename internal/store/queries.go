package store

// Job queries
const (
	queryUpsertJob = `
		INSERT INTO jobs (id, state, files_created, total_errors, warnings, events, last_message, last_error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			files_created = EXCLUDED.files_created,
			total_errors = EXCLUDED.total_errors,
			warnings = EXCLUDED.warnings,
			events = EXCLUDED.events,
			last_message = EXCLUDED.last_message,
			last_error = EXCLUDED.last_error,
			updated_at = EXCLUDED.updated_at`
)

// Log queries
const (
	queryUpsertJobLog = `
		INSERT INTO job_logs (job_id, name, path, size, downloaded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (job_id, name) DO UPDATE SET
			path = EXCLUDED.path,
			size = EXCLUDED.size,
			downloaded_at = EXCLUDED.downloaded_at`
)
