package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryTaskStore tracks task status in process memory. Nothing survives a
// restart, so there is nothing to recover on startup.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]TaskRecord
}

var _ TaskStore = (*MemoryTaskStore)(nil)

// NewMemoryTaskStore creates an empty store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[uuid.UUID]TaskRecord)}
}

// SaveTask records task as pending.
func (s *MemoryTaskStore) SaveTask(_ context.Context, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID()] = TaskRecord{
		ID:     task.ID(),
		Type:   task.Type(),
		Status: TaskStatusPending,
	}
	return nil
}

// UpdateTaskStatus sets the status of a known task.
func (s *MemoryTaskStore) UpdateTaskStatus(_ context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	rec.Status = status
	rec.Error = errorMsg
	s.tasks[taskID] = rec
	return nil
}

// GetTask returns the tracked state of a task.
func (s *MemoryTaskStore) GetTask(_ context.Context, taskID uuid.UUID) (TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tasks[taskID]
	if !ok {
		return TaskRecord{}, ErrTaskNotFound
	}
	return rec, nil
}
