package task

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// stubTask is a minimal Task for runner and queue tests.
type stubTask struct {
	id        uuid.UUID
	executeFn func(ctx context.Context) error
}

func newStubTask(fn func(ctx context.Context) error) *stubTask {
	if fn == nil {
		fn = func(context.Context) error { return nil }
	}
	return &stubTask{id: uuid.New(), executeFn: fn}
}

func (t *stubTask) ID() uuid.UUID { return t.id }
func (t *stubTask) Type() string { return "stub" }
func (t *stubTask) Payload() []byte { return nil }
func (t *stubTask) Status() TaskStatus { return TaskStatusPending }
func (t *stubTask) Execute(ctx context.Context) error { return t.executeFn(ctx) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
