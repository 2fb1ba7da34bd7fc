package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// JobEvent is the kind of a message published on the report queue by the migration job.
type JobEvent string

const (
	JobEventQueued   JobEvent = "JobQueued"
	JobEventStart    JobEvent = "JobStart"
	JobEventProgress JobEvent = "JobProgress"
	JobEventEnd      JobEvent = "JobEnd"
	JobEventWarning  JobEvent = "JobWarning"
	JobEventError    JobEvent = "JobError"
)

func (e JobEvent) Known() bool {
	switch e {
	case JobEventQueued, JobEventStart, JobEventProgress, JobEventEnd, JobEventWarning, JobEventError:
		return true
	default:
		return false
	}
}

// JobState represents the last known state of a remote migration job.
type JobState string

const (
	// JobStatePending - job id issued, nothing received yet
	JobStatePending JobState = "pending"
	// JobStateQueued - job accepted by the migration service
	JobStateQueued JobState = "queued"
	// JobStateStarted - job started processing the package
	JobStateStarted JobState = "started"
	// JobStateRunning - at least one progress report received
	JobStateRunning JobState = "running"
	// JobStateError - the job reported an error, it may still end normally
	JobStateError JobState = "error"
	// JobStateEnded - terminal state
	JobStateEnded JobState = "ended"
)

var jobStateRank = map[JobState]int{
	JobStatePending: 0,
	JobStateQueued:  1,
	JobStateStarted: 2,
	JobStateRunning: 3,
	JobStateError:   4,
	JobStateEnded:   5,
}

func ParseJobState(s string) (JobState, error) {
	state := JobState(s)
	if _, ok := jobStateRank[state]; !ok {
		return "", fmt.Errorf("invalid job state: %s", s)
	}
	return state, nil
}

// Count is a counter from a report message. The service sends counters either as
// JSON numbers or as numeric strings.
type Count int64

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*c = 0
			return nil
		}
		data = []byte(s)
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid counter value %q: %w", string(data), err)
	}
	*c = Count(f)
	return nil
}

// ReportMessage is a single message read from the report queue.
type ReportMessage struct {
	Event        JobEvent `json:"Event"`
	JobID        string   `json:"JobId,omitempty"`
	Time         string   `json:"Time,omitempty"`
	FilesCreated Count    `json:"FilesCreated,omitempty"`
	TotalErrors  Count    `json:"TotalErrors,omitempty"`
	Message      string   `json:"Message,omitempty"`
}

// BelongsTo reports whether the message was published for the job.
// Messages without a job id are attributed to whichever job is being monitored.
func (m ReportMessage) BelongsTo(jobID uuid.UUID) bool {
	if m.JobID == "" {
		return true
	}
	id, err := uuid.Parse(m.JobID)
	if err != nil {
		return false
	}
	return id == jobID
}

// JobStatus is the aggregated view of all report messages received for a job.
type JobStatus struct {
	JobID        uuid.UUID
	State        JobState
	FilesCreated int64
	TotalErrors  int64
	Warnings     int
	Events       int
	LastMessage  string
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewJobStatus(jobID uuid.UUID, now time.Time) JobStatus {
	return JobStatus{
		JobID:     jobID,
		State:     JobStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply folds msg into the status and returns true once the job has ended.
// Messages may be duplicated or arrive out of order: the state never moves
// backwards and counters keep the highest value seen.
func (s *JobStatus) Apply(msg ReportMessage, at time.Time) bool {
	s.Events++
	s.UpdatedAt = at
	if msg.Message != "" {
		s.LastMessage = msg.Message
	}

	switch msg.Event {
	case JobEventQueued:
		s.advance(JobStateQueued)
	case JobEventStart:
		s.advance(JobStateStarted)
	case JobEventProgress:
		s.advance(JobStateRunning)
		s.updateCounters(msg)
	case JobEventWarning:
		s.Warnings++
	case JobEventError:
		s.advance(JobStateError)
		s.LastError = msg.Message
		s.updateCounters(msg)
	case JobEventEnd:
		s.advance(JobStateEnded)
		s.updateCounters(msg)
	}

	return s.Ended()
}

func (s *JobStatus) Ended() bool {
	return s.State == JobStateEnded
}

func (s *JobStatus) advance(to JobState) {
	if jobStateRank[to] > jobStateRank[s.State] {
		s.State = to
	}
}

func (s *JobStatus) updateCounters(msg ReportMessage) {
	s.FilesCreated = max(s.FilesCreated, int64(msg.FilesCreated))
	s.TotalErrors = max(s.TotalErrors, int64(msg.TotalErrors))
}

// JobEventRecord is a report message persisted in the run history.
type JobEventRecord struct {
	JobID        uuid.UUID
	Seq          int
	Event        JobEvent
	FilesCreated int64
	TotalErrors  int64
	Message      string
	ReceivedAt   time.Time
}

// JobLog is a report log file downloaded after the job ended.
type JobLog struct {
	JobID        uuid.UUID
	Name         string
	Path         string
	Size         int64
	DownloadedAt time.Time
}
