package migrationapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const createMigrationJobPath = "/_api/site/CreateMigrationJob"

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// Client starts migration jobs on a SharePoint site.
type Client struct {
	siteURL    string
	webID      string
	token      TokenSource
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func NewClient(siteURL, webID string, token TokenSource, opts ...Option) *Client {
	c := &Client{
		siteURL:    strings.TrimRight(siteURL, "/"),
		webID:      webID,
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     zap.S().Named("migration_api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type createMigrationJobRequest struct {
	WebID                string `json:"gWebId"`
	SourceContainerURI   string `json:"azureContainerSourceUri"`
	ManifestContainerURI string `json:"azureContainerManifestUri"`
	ReportQueueURI       string `json:"azureQueueReportUri"`
}

// createMigrationJobResponse accepts both the nometadata and the verbose odata shapes.
type createMigrationJobResponse struct {
	Value string `json:"value"`
	D     struct {
		CreateMigrationJob string `json:"CreateMigrationJob"`
	} `json:"d"`
}

// StartJob submits the package and returns the id of the new migration job.
// POST {site}/_api/site/CreateMigrationJob
func (c *Client) StartJob(ctx context.Context, sourceURL, manifestURL, queueURL string) (uuid.UUID, error) {
	token, err := c.token(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	body, err := json.Marshal(createMigrationJobRequest{
		WebID:                c.webID,
		SourceContainerURI:   sourceURL,
		ManifestContainerURI: manifestURL,
		ReportQueueURI:       queueURL,
	})
	if err != nil {
		return uuid.Nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.siteURL+createMigrationJobPath, bytes.NewReader(body))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json;odata=nometadata")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to start migration job: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read migration job response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return uuid.Nil, &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(data))}
	}

	var out createMigrationJobResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return uuid.Nil, fmt.Errorf("invalid migration job response: %w", err)
	}
	raw := out.Value
	if raw == "" {
		raw = out.D.CreateMigrationJob
	}

	jobID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid migration job id %q: %w", raw, err)
	}

	c.logger.Infow("migration job created", "job_id", jobID, "site", c.siteURL)
	return jobID, nil
}
