package test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kubev2v/spo-migrator/pkg/queue"
)

// MockQueue is an in-memory queue.Queue. Messages are delivered in push order.
type MockQueue struct {
	ReceiveErr error

	mu       sync.Mutex
	messages []*queue.Message
	seq      int
	receives int
	deleted  int
	granted  []queue.Permission
	// OnEmpty is called, outside the lock, each time Receive finds the queue empty.
	OnEmpty func(q *MockQueue)
}

func NewMockQueue() *MockQueue {
	return &MockQueue{}
}

// Push appends a raw message body.
func (m *MockQueue) Push(body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("msg-%d", m.seq)
	m.messages = append(m.messages, &queue.Message{ID: id, Body: body, Receipt: id})
}

// PushJSON appends v encoded as JSON.
func (m *MockQueue) PushJSON(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.Push(body)
	return nil
}

func (m *MockQueue) Receive(ctx context.Context) (*queue.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.receives++
	if m.ReceiveErr != nil {
		err := m.ReceiveErr
		m.mu.Unlock()
		return nil, err
	}
	if len(m.messages) == 0 {
		onEmpty := m.OnEmpty
		m.mu.Unlock()
		if onEmpty != nil {
			onEmpty(m)
		}
		return nil, nil
	}
	msg := m.messages[0]
	m.mu.Unlock()
	return msg, nil
}

func (m *MockQueue) Delete(_ context.Context, msg *queue.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, candidate := range m.messages {
		if candidate.Receipt == msg.Receipt {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			m.deleted++
			return nil
		}
	}
	return fmt.Errorf("receipt %s not found", msg.Receipt)
}

func (m *MockQueue) AccessURL(_ context.Context, perm queue.Permission) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.granted = append(m.granted, perm)
	return "https://queue.local/reports?sp=" + perm.String(), nil
}

func (m *MockQueue) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func (m *MockQueue) Receives() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receives
}

func (m *MockQueue) Deleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleted
}

func (m *MockQueue) Granted() []queue.Permission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]queue.Permission(nil), m.granted...)
}

// Ensure MockQueue implements queue.Queue.
var _ queue.Queue = (*MockQueue)(nil)
