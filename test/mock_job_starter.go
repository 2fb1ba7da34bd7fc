package test

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MockJobStarter records the urls a migration job was started with.
type MockJobStarter struct {
	JobID uuid.UUID
	Err   error

	mu    sync.Mutex
	calls []StartJobCall
}

type StartJobCall struct {
	SourceURL   string
	ManifestURL string
	QueueURL    string
}

// NewMockJobStarter creates a MockJobStarter returning a fresh job id.
func NewMockJobStarter() *MockJobStarter {
	return &MockJobStarter{JobID: uuid.New()}
}

func (m *MockJobStarter) StartJob(_ context.Context, sourceURL, manifestURL, queueURL string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, StartJobCall{SourceURL: sourceURL, ManifestURL: manifestURL, QueueURL: queueURL})
	if m.Err != nil {
		return uuid.Nil, m.Err
	}
	return m.JobID, nil
}

func (m *MockJobStarter) Calls() []StartJobCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StartJobCall(nil), m.calls...)
}
