package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHandler struct {
	mock.Mock
}

func (m *mockHandler) HandleEvent(ctx context.Context, event *Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	event, err := NewEvent(TypeReviewRecorded, ReviewRecordedPayload{CardID: "c1", Success: true, Interval: 6})
	require.NoError(t, err)

	assert.Equal(t, TypeReviewRecorded, event.Type)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())

	var payload ReviewRecordedPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, "c1", payload.CardID)
	assert.Equal(t, 6, payload.Interval)

	_, err = NewEvent("bad", make(chan int))
	assert.Error(t, err)
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	event, err := NewEvent(TypeCardsCreated, CardsCreatedPayload{Count: 2})
	require.NoError(t, err)

	t.Run("no handlers", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, NewInMemoryEventEmitter(nil).EmitEvent(ctx, event))
	})

	t.Run("all handlers receive the event despite failures", func(t *testing.T) {
		t.Parallel()

		emitter := NewInMemoryEventEmitter(nil)
		failing := &mockHandler{}
		succeeding := &mockHandler{}
		failure := errors.New("handler broke")

		failing.On("HandleEvent", ctx, event).Return(failure).Once()
		succeeding.On("HandleEvent", ctx, event).Return(nil).Once()

		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(succeeding)

		err := emitter.EmitEvent(ctx, event)
		assert.ErrorIs(t, err, failure)
		failing.AssertExpectations(t)
		succeeding.AssertExpectations(t)
	})

	t.Run("handler func", func(t *testing.T) {
		t.Parallel()

		var seen string
		emitter := NewInMemoryEventEmitter(nil)
		emitter.RegisterHandler(EventHandlerFunc(func(_ context.Context, e *Event) error {
			seen = e.Type
			return nil
		}))

		require.NoError(t, emitter.EmitEvent(ctx, event))
		assert.Equal(t, TypeCardsCreated, seen)
	})
}
