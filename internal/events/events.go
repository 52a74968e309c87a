package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeSessionStarted = "session.started"
	TypeReviewRecorded = "review.recorded"
	TypeCardsCreated   = "cards.created"
	TypeSortFinished   = "sort.finished"
)

// Event is a notification emitted by a service.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event with the given type and JSON-encoded payload.
func NewEvent(eventType string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SessionStartedPayload accompanies TypeSessionStarted.
type SessionStartedPayload struct {
	Mode    string `json:"mode"`
	Focused bool   `json:"focused"`
}

// ReviewRecordedPayload accompanies TypeReviewRecorded.
type ReviewRecordedPayload struct {
	CardID   string `json:"card_id"`
	Mode     string `json:"mode"`
	Success  bool   `json:"success"`
	Interval int    `json:"interval"`
}

// CardsCreatedPayload accompanies TypeCardsCreated.
type CardsCreatedPayload struct {
	Count int `json:"count"`
}

// SortFinishedPayload accompanies TypeSortFinished.
type SortFinishedPayload struct {
	JobID       string `json:"job_id"`
	Outcome     string `json:"outcome"`
	Suggestions int    `json:"suggestions"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}
