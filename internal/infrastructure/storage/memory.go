package storage

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// MemoryStorage keeps objects in process memory. It serves local
// development without an object store and tests.
type MemoryStorage struct {
	// BaseURL prefixes the download links it hands out.
	BaseURL string

	mu      sync.RWMutex
	objects map[string]Object
}

// Object is a stored blob and its content type.
type Object struct {
	Data        []byte
	ContentType string
}

// NewMemoryStorage returns an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		BaseURL: "https://storage.example.com",
		objects: map[string]Object{},
	}
}

func (m *MemoryStorage) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

func (m *MemoryStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	expiresAt := time.Now().Add(expiresIn)
	return m.BaseURL + "/download/" + key + "?expires=" + url.QueryEscape(expiresAt.Format(time.RFC3339)), expiresAt, nil
}

func (m *MemoryStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return errKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errKeyRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

// Get returns the object stored under key.
func (m *MemoryStorage) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}
