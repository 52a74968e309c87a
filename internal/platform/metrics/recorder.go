// Package metrics exposes application counters in Prometheus format. The
// Recorder subscribes to service events and is served at /metrics.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lusolearn/lusolearn-api/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lusolearn"

// Recorder owns a Prometheus registry and the application counters.
type Recorder struct {
	registry        *prometheus.Registry
	sessionsStarted *prometheus.CounterVec
	reviews         *prometheus.CounterVec
	cardsCreated    prometheus.Counter
	sortJobs        *prometheus.CounterVec
}

var _ events.EventHandler = (*Recorder)(nil)

// NewRecorder creates a Recorder with its own registry, including the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Study sessions started, by mode.",
		}, []string{"mode", "focused"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "Reviews recorded, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		cardsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_created_total",
			Help:      "Cards added to the collection.",
		}),
		sortJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sort_jobs_total",
			Help:      "Smart sort jobs finished, by outcome.",
		}, []string{"outcome"}),
	}

	r.registry.MustRegister(
		r.sessionsStarted,
		r.reviews,
		r.cardsCreated,
		r.sortJobs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// HandleEvent implements events.EventHandler. Unknown event types are ignored.
func (r *Recorder) HandleEvent(_ context.Context, event *events.Event) error {
	switch event.Type {
	case events.TypeSessionStarted:
		var p events.SessionStartedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		r.sessionsStarted.WithLabelValues(p.Mode, strconv.FormatBool(p.Focused)).Inc()

	case events.TypeReviewRecorded:
		var p events.ReviewRecordedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		outcome := "fail"
		if p.Success {
			outcome = "pass"
		}
		r.reviews.WithLabelValues(p.Mode, outcome).Inc()

	case events.TypeCardsCreated:
		var p events.CardsCreatedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		r.cardsCreated.Add(float64(p.Count))

	case events.TypeSortFinished:
		var p events.SortFinishedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		r.sortJobs.WithLabelValues(p.Outcome).Inc()
	}

	return nil
}
