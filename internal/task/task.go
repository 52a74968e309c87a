package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeSmartSort asks the AI collaborator to sort default-folder cards.
	TaskTypeSmartSort = "smart_sort"
)

// ErrTaskNotFound is returned by a TaskStore for an unknown task id.
var ErrTaskNotFound = errors.New("task not found")

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
// allowing services to enqueue tasks for processing
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}

// TaskRecord is the tracked state of a submitted task.
type TaskRecord struct {
	ID     uuid.UUID
	Type   string
	Status TaskStatus
	Error  string
}

// TaskStore keeps track of submitted tasks and their status.
type TaskStore interface {
	// SaveTask records a newly submitted task as pending
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetTask returns the tracked state of a task, or ErrTaskNotFound
	GetTask(ctx context.Context, taskID uuid.UUID) (TaskRecord, error)
}
