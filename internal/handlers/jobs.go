package handlers

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/spo-migrator/api/v1"
	"github.com/kubev2v/spo-migrator/internal/services"
	srvErrors "github.com/kubev2v/spo-migrator/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = math.MaxInt32
)

// GetJobs returns the list of jobs, most recent first
// (GET /jobs)
func (h *Handler) GetJobs(c *gin.Context, params v1.GetJobsParams) {
	page := 1
	if params.Page != nil && *params.Page > 0 {
		page = *params.Page
	}
	if page > maxPage {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("page must not exceed %d", maxPage)})
		return
	}
	pageSize := defaultPageSize
	if params.PageSize != nil && *params.PageSize > 0 {
		pageSize = min(*params.PageSize, maxPageSize)
	}

	svcParams := services.JobListParams{
		Limit:  uint64(pageSize),
		Offset: uint64(page-1) * uint64(pageSize),
	}
	if params.State != nil {
		states, err := v1.ParseJobStates(*params.State)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		svcParams.States = states
	}

	result, err := h.jobSrv.List(c.Request.Context(), svcParams)
	if err != nil {
		zap.S().Named("job_handler").Errorw("failed to list jobs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}

	pageCount := (result.Total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	apiJobs := make([]v1.Job, 0, len(result.Jobs))
	for _, j := range result.Jobs {
		apiJobs = append(apiJobs, v1.NewJobFromModel(j))
	}

	c.JSON(http.StatusOK, v1.JobListResponse{
		Page:      page,
		PageCount: pageCount,
		Total:     result.Total,
		Jobs:      apiJobs,
	})
}

// GetJob returns the status of a job
// (GET /jobs/{id})
func (h *Handler) GetJob(c *gin.Context, id uuid.UUID) {
	job, err := h.jobSrv.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "failed to get job", id, err)
		return
	}
	c.JSON(http.StatusOK, v1.NewJobFromModel(*job))
}

// GetJobEvents returns the report messages of a job in arrival order
// (GET /jobs/{id}/events)
func (h *Handler) GetJobEvents(c *gin.Context, id uuid.UUID) {
	events, err := h.jobSrv.Events(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "failed to get job events", id, err)
		return
	}

	apiEvents := make([]v1.JobEvent, 0, len(events))
	for _, e := range events {
		apiEvents = append(apiEvents, v1.NewJobEventFromModel(e))
	}
	c.JSON(http.StatusOK, apiEvents)
}

// GetJobLogs returns the report logs downloaded for a job
// (GET /jobs/{id}/logs)
func (h *Handler) GetJobLogs(c *gin.Context, id uuid.UUID) {
	logs, err := h.jobSrv.Logs(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "failed to get job logs", id, err)
		return
	}

	apiLogs := make([]v1.JobLog, 0, len(logs))
	for _, l := range logs {
		apiLogs = append(apiLogs, v1.NewJobLogFromModel(l))
	}
	c.JSON(http.StatusOK, apiLogs)
}

func (h *Handler) fail(c *gin.Context, msg string, id uuid.UUID, err error) {
	if srvErrors.IsResourceNotFoundError(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	zap.S().Named("job_handler").Errorw(msg, "job_id", id, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
