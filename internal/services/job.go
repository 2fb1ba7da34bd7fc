package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/kubev2v/spo-migrator/internal/models"
	"github.com/kubev2v/spo-migrator/internal/store"
)

// JobService reads the run history.
type JobService struct {
	store *store.Store
}

func NewJobService(st *store.Store) *JobService {
	return &JobService{store: st}
}

type JobListParams struct {
	States []models.JobState
	Limit  uint64
	Offset uint64
}

type JobListResult struct {
	Jobs  []models.JobStatus
	Total int
}

func (s *JobService) List(ctx context.Context, params JobListParams) (*JobListResult, error) {
	opts := s.buildListOptions(params)
	opts = append(opts, store.WithDefaultSort())

	jobs, err := s.store.Job().List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// Get total count without pagination
	total, err := s.store.Job().Count(ctx, s.buildListOptions(JobListParams{States: params.States})...)
	if err != nil {
		return nil, err
	}

	return &JobListResult{
		Jobs:  jobs,
		Total: total,
	}, nil
}

func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*models.JobStatus, error) {
	return s.store.Job().Get(ctx, id)
}

// Events returns the report messages of the job. Unknown jobs yield a ResourceNotFoundError.
func (s *JobService) Events(ctx context.Context, id uuid.UUID) ([]models.JobEventRecord, error) {
	if _, err := s.store.Job().Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Event().List(ctx, id)
}

func (s *JobService) Logs(ctx context.Context, id uuid.UUID) ([]models.JobLog, error) {
	if _, err := s.store.Job().Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Log().List(ctx, id)
}

func (s *JobService) buildListOptions(params JobListParams) []store.ListOption {
	var opts []store.ListOption

	if len(params.States) > 0 {
		opts = append(opts, store.ByStates(params.States...))
	}
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	return opts
}
