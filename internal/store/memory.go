package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps documents in process memory. It backs tests and the
// --store=memory mode.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	failWrites bool
	failReads  bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get returns a copy of the document stored under key.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failReads {
		return nil, fmt.Errorf("%w: read %s", ErrUnavailable, key)
	}
	data, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), data...), nil
}

// Put stores a copy of data under key.
func (m *MemoryStore) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrites {
		return fmt.Errorf("%w: write %s", ErrUnavailable, key)
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes key.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrites {
		return fmt.Errorf("%w: delete %s", ErrUnavailable, key)
	}
	delete(m.data, key)
	return nil
}

// Len returns the number of stored documents.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// SetFailWrites makes Put and Delete fail with ErrUnavailable.
func (m *MemoryStore) SetFailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = fail
}

// SetFailReads makes Get fail with ErrUnavailable.
func (m *MemoryStore) SetFailReads(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failReads = fail
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
