package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/events"
	"github.com/lusolearn/lusolearn-api/internal/store"
)

// Library owns the application state. Reads see a consistent snapshot;
// writes are applied to a copy, persisted, and only then made visible, so a
// failed write leaves both memory and storage unchanged.
type Library struct {
	mu       sync.RWMutex
	records  store.RecordStore
	snapshot *store.Snapshot
	notices  []store.Notice
	now      func() time.Time
	emitter  events.EventEmitter
	logger   *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithClock overrides the time source.
func WithClock(now func() time.Time) LibraryOption {
	return func(l *Library) {
		l.now = now
	}
}

// WithEventEmitter sets where service events are sent.
func WithEventEmitter(emitter events.EventEmitter) LibraryOption {
	return func(l *Library) {
		l.emitter = emitter
	}
}

// NewLibrary loads the stored state. Corrupt records are replaced by defaults
// and reported by Notices.
func NewLibrary(ctx context.Context, records store.RecordStore, logger *slog.Logger, opts ...LibraryOption) (*Library, error) {
	if records == nil {
		panic("record store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &Library{
		records: records,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "library")),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.emitter == nil {
		l.emitter = events.NewInMemoryEventEmitter(logger)
	}

	snapshot, notices, err := store.LoadSnapshot(ctx, records, l.now())
	if err != nil {
		return nil, NewServiceError("load library", "failed to read stored data", err)
	}
	l.snapshot = snapshot
	l.notices = notices

	l.logger.InfoContext(ctx, "library loaded",
		slog.Int("card_count", len(snapshot.Cards)),
		slog.Int("folder_count", len(snapshot.Folders)),
		slog.Int("notice_count", len(notices)))

	return l, nil
}

// Now returns the current time from the library clock.
func (l *Library) Now() time.Time {
	return l.now()
}

// Snapshot returns a deep copy of the current state.
func (l *Library) Snapshot() *store.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot.Clone()
}

// Notices returns the data repairs made while loading.
func (l *Library) Notices() []store.Notice {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.notices)
}

// Update applies fn to a copy of the state and persists the result. If fn
// or the write fails, the state is left untouched and the error is returned.
func (l *Library) Update(ctx context.Context, fn func(s *store.Snapshot) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.snapshot.Clone()
	if err := fn(next); err != nil {
		return err
	}

	if err := store.SaveSnapshot(ctx, l.records, next); err != nil {
		l.logger.ErrorContext(ctx, "failed to persist library", slog.String("error", err.Error()))
		return err
	}

	l.snapshot = next
	return nil
}

// Emit sends an event. Delivery failures are logged and never fail the
// operation that produced the event.
func (l *Library) Emit(ctx context.Context, eventType string, payload any) {
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	if err := l.emitter.EmitEvent(ctx, event); err != nil {
		l.logger.WarnContext(ctx, "event delivery failed",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}
