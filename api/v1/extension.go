package v1

import (
	"fmt"

	"github.com/kubev2v/spo-migrator/internal/models"
)

// NewJobFromModel converts a models.JobStatus to an API Job.
func NewJobFromModel(j models.JobStatus) Job {
	job := Job{
		Id:           j.JobID,
		State:        string(j.State),
		FilesCreated: j.FilesCreated,
		TotalErrors:  j.TotalErrors,
		Warnings:     j.Warnings,
		Events:       j.Events,
		CreatedAt:    j.CreatedAt.UTC(),
		UpdatedAt:    j.UpdatedAt.UTC(),
	}

	if j.LastMessage != "" {
		job.LastMessage = &j.LastMessage
	}
	if j.LastError != "" {
		job.LastError = &j.LastError
	}

	return job
}

func NewJobEventFromModel(e models.JobEventRecord) JobEvent {
	event := JobEvent{
		Seq:          e.Seq,
		Event:        string(e.Event),
		FilesCreated: e.FilesCreated,
		TotalErrors:  e.TotalErrors,
		ReceivedAt:   e.ReceivedAt.UTC(),
	}
	if e.Message != "" {
		event.Message = &e.Message
	}
	return event
}

func NewJobLogFromModel(l models.JobLog) JobLog {
	return JobLog{
		Name:         l.Name,
		Path:         l.Path,
		Size:         l.Size,
		DownloadedAt: l.DownloadedAt.UTC(),
	}
}

// ParseJobStates converts API state filters to job states.
func ParseJobStates(states []string) ([]models.JobState, error) {
	var result []models.JobState
	for _, s := range states {
		state, err := models.ParseJobState(s)
		if err != nil {
			return nil, fmt.Errorf("invalid state filter: %w", err)
		}
		result = append(result, state)
	}
	return result, nil
}
