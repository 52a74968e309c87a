package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
)

// MemoryStore is a RecordStore that keeps records in process memory. It
// backs the "memory" database driver and package tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte

	// FailPuts makes every PutAll fail, for exercising rollback paths.
	FailPuts error
}

var _ RecordStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

// Get implements RecordStore.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(value), nil
}

// PutAll implements RecordStore.
func (m *MemoryStore) PutAll(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailPuts != nil {
		return m.FailPuts
	}

	for _, r := range records {
		if r.Key == "" || !json.Valid(r.Value) {
			return fmt.Errorf("%w: %q", ErrInvalidRecord, r.Key)
		}
	}
	for _, r := range records {
		m.records[r.Key] = slices.Clone(r.Value)
	}
	return nil
}

// Set stores a raw value, bypassing validation.
func (m *MemoryStore) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = slices.Clone(value)
}

// Close implements RecordStore.
func (m *MemoryStore) Close() error {
	return nil
}
