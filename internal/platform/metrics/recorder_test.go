package metrics

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lusolearn/lusolearn-api/internal/events"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emit(t *testing.T, r *Recorder, eventType string, payload any) {
	t.Helper()
	event, err := events.NewEvent(eventType, payload)
	require.NoError(t, err)
	require.NoError(t, r.HandleEvent(context.Background(), event))
}

func TestRecorderCountsEvents(t *testing.T) {
	t.Parallel()

	r := NewRecorder()

	emit(t, r, events.TypeSessionStarted, events.SessionStartedPayload{Mode: "srs"})
	emit(t, r, events.TypeReviewRecorded, events.ReviewRecordedPayload{Mode: "srs", Success: true})
	emit(t, r, events.TypeReviewRecorded, events.ReviewRecordedPayload{Mode: "srs", Success: true})
	emit(t, r, events.TypeReviewRecorded, events.ReviewRecordedPayload{Mode: "frequency", Success: false})
	emit(t, r, events.TypeCardsCreated, events.CardsCreatedPayload{Count: 3})
	emit(t, r, events.TypeSortFinished, events.SortFinishedPayload{Outcome: "empty"})
	emit(t, r, "something.else", map[string]string{})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.sessionsStarted.WithLabelValues("srs", "false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.reviews.WithLabelValues("srs", "pass")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reviews.WithLabelValues("frequency", "fail")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.cardsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sortJobs.WithLabelValues("empty")))
}

func TestRecorderRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	err := r.HandleEvent(context.Background(), &events.Event{
		Type:    events.TypeCardsCreated,
		Payload: json.RawMessage(`"not an object"`),
	})
	assert.Error(t, err)
}

func TestRecorderHandler(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	emit(t, r, events.TypeCardsCreated, events.CardsCreatedPayload{Count: 1})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "lusolearn_cards_created_total 1")
}
