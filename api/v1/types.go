package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Job is the status of a migration job.
type Job struct {
	Id           uuid.UUID `json:"id"`
	State        string    `json:"state"`
	FilesCreated int64     `json:"filesCreated"`
	TotalErrors  int64     `json:"totalErrors"`
	Warnings     int       `json:"warnings"`
	Events       int       `json:"events"`
	LastMessage  *string   `json:"lastMessage,omitempty"`
	LastError    *string   `json:"lastError,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type JobListResponse struct {
	Page      int   `json:"page"`
	PageCount int   `json:"pageCount"`
	Total     int   `json:"total"`
	Jobs      []Job `json:"jobs"`
}

type JobEvent struct {
	Seq          int       `json:"seq"`
	Event        string    `json:"event"`
	FilesCreated int64     `json:"filesCreated"`
	TotalErrors  int64     `json:"totalErrors"`
	Message      *string   `json:"message,omitempty"`
	ReceivedAt   time.Time `json:"receivedAt"`
}

type JobLog struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	DownloadedAt time.Time `json:"downloadedAt"`
}

type GetJobsParams struct {
	Page     *int
	PageSize *int
	State    *[]string
}

// ServerInterface is implemented by the handlers of the status API.
type ServerInterface interface {
	// (GET /jobs)
	GetJobs(c *gin.Context, params GetJobsParams)
	// (GET /jobs/{id})
	GetJob(c *gin.Context, id uuid.UUID)
	// (GET /jobs/{id}/events)
	GetJobEvents(c *gin.Context, id uuid.UUID)
	// (GET /jobs/{id}/logs)
	GetJobLogs(c *gin.Context, id uuid.UUID)
}

type wrapper struct {
	handler ServerInterface
}

// RegisterHandlers registers the status API routes on router.
func RegisterHandlers(router gin.IRoutes, si ServerInterface) {
	w := &wrapper{handler: si}
	router.GET("/jobs", w.GetJobs)
	router.GET("/jobs/:id", w.withID(si.GetJob))
	router.GET("/jobs/:id/events", w.withID(si.GetJobEvents))
	router.GET("/jobs/:id/logs", w.withID(si.GetJobLogs))
}

func (w *wrapper) GetJobs(c *gin.Context) {
	var params GetJobsParams

	for name, dest := range map[string]**int{"page": &params.Page, "pageSize": &params.PageSize} {
		raw, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid format for parameter " + name + ": " + err.Error()})
			return
		}
		*dest = &v
	}

	if states, ok := c.GetQueryArray("state"); ok {
		params.State = &states
	}

	w.handler.GetJobs(c, params)
}

func (w *wrapper) withID(fn func(*gin.Context, uuid.UUID)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid format for parameter id: " + err.Error()})
			return
		}
		fn(c, id)
	}
}
