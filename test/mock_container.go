package test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kubev2v/spo-migrator/pkg/storage"
)

// MockContainer is an in-memory storage.Container.
type MockContainer struct {
	ContainerName string
	// UploadErr, when set, is returned by Upload for the named blob.
	UploadErr map[string]error
	ListErr   error

	mu          sync.Mutex
	blobs       map[string][]byte
	uploads     int
	deleteCalls int
	listCalls   map[string]int
	granted     []storage.Permission
}

// NewMockContainer creates an empty MockContainer.
func NewMockContainer(name string) *MockContainer {
	return &MockContainer{
		ContainerName: name,
		UploadErr:     make(map[string]error),
		blobs:         make(map[string][]byte),
		listCalls:     make(map[string]int),
	}
}

func (m *MockContainer) Name() string {
	return m.ContainerName
}

func (m *MockContainer) Upload(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.UploadErr[name]; err != nil {
		return err
	}
	m.blobs[name] = append([]byte(nil), data...)
	m.uploads++
	return nil
}

func (m *MockContainer) Download(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[name]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", name)
	}
	return append([]byte(nil), data...), nil
}

func (m *MockContainer) List(_ context.Context, prefix string) ([]storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls[prefix]++
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var objects []storage.Object
	for name, data := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			objects = append(objects, storage.Object{Name: name, Size: int64(len(data)), LastModified: time.Now()})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

func (m *MockContainer) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	m.blobs = make(map[string][]byte)
	return nil
}

func (m *MockContainer) AccessURL(_ context.Context, perm storage.Permission) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.granted = append(m.granted, perm)
	return fmt.Sprintf("https://storage.local/%s?sp=%s", m.ContainerName, perm), nil
}

// Put stores a blob without counting it as an upload.
func (m *MockContainer) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = data
}

// Names returns the stored blob names in order.
func (m *MockContainer) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.blobs))
	for name := range m.blobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *MockContainer) Uploads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads
}

func (m *MockContainer) DeleteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteCalls
}

// ListCalls returns how many times List was called with prefix.
func (m *MockContainer) ListCalls(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls[prefix]
}

// Granted returns the permissions requested through AccessURL.
func (m *MockContainer) Granted() []storage.Permission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]storage.Permission(nil), m.granted...)
}

// Ensure MockContainer implements storage.Container.
var _ storage.Container = (*MockContainer)(nil)
