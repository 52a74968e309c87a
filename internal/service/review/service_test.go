package review

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/domain/frequency"
	"github.com/lusolearn/lusolearn-api/internal/domain/srs"
	"github.com/lusolearn/lusolearn-api/internal/events"
	"github.com/lusolearn/lusolearn-api/internal/service"
	"github.com/lusolearn/lusolearn-api/internal/store"
	"github.com/lusolearn/lusolearn-api/internal/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

func card(id, frequencyLabel string, due time.Time, folders ...string) *domain.Card {
	if len(folders) == 0 {
		folders = []string{domain.DefaultFolderID}
	}
	return &domain.Card{
		ID:             id,
		OriginalTerm:   "term-" + id,
		Frequency:      frequencyLabel,
		FolderIDs:      domain.NewFolderSet(folders...),
		EaseFactor:     domain.InitialEaseFactor,
		NextReviewDate: due.UnixMilli(),
		CreatedAt:      testNow.UnixMilli(),
	}
}

type fixture struct {
	library *service.Library
	svc     Service
	events  []string
}

func newFixture(t *testing.T, cards []*domain.Card, folders ...domain.Folder) *fixture {
	t.Helper()

	snap := store.NewSnapshot(testNow)
	snap.Cards = cards
	snap.Folders = append(snap.Folders, folders...)
	records, err := store.EncodeSnapshot(snap)
	require.NoError(t, err)
	rs := store.NewMemoryStore()
	require.NoError(t, rs.PutAll(context.Background(), records))

	f := &fixture{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.EventHandlerFunc(func(_ context.Context, e *events.Event) error {
		f.events = append(f.events, e.Type)
		return nil
	}))

	f.library, err = service.NewLibrary(context.Background(), rs, logger,
		service.WithClock(func() time.Time { return testNow }),
		service.WithEventEmitter(emitter))
	require.NoError(t, err)

	f.svc = NewService(f.library, srs.NewDefaultService(), logger,
		WithSeedSource(func() study.Seed { return 42 }))
	return f
}

func TestNextRequiresSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []*domain.Card{card("a", "", testNow)})

	_, err := f.svc.Next(context.Background())
	assert.ErrorIs(t, err, ErrSessionIdle)
	_, err = f.svc.Answer(context.Background(), true, "")
	assert.ErrorIs(t, err, ErrSessionIdle)

	assert.Equal(t, study.StateIdle, f.svc.Session(context.Background()).State)
}

func TestIntervalSessionFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []*domain.Card{
		card("due", "", testNow.Add(-day)),
		card("overdue", "", testNow.Add(-3*day)),
	})
	ctx := context.Background()

	view, err := f.svc.Start(ctx, StartOptions{Mode: study.ModeInterval, Buckets: frequency.AllSet()})
	require.NoError(t, err)
	assert.Equal(t, study.StateActive, view.State)
	assert.Equal(t, 2, view.Remaining)
	assert.Equal(t, domain.DefaultFolderID, view.FolderID)

	next, err := f.svc.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, next.Card)
	assert.Equal(t, "overdue", next.Card.ID)

	_, err = f.svc.Answer(ctx, true, "due")
	assert.ErrorIs(t, err, ErrStaleAnswer)

	res, err := f.svc.Answer(ctx, true, "overdue")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Card.Interval)
	assert.Equal(t, testNow.Add(day).UnixMilli(), res.Card.NextReviewDate)
	assert.Equal(t, domain.XPPerSuccessfulReview, res.Profile.XP)
	assert.Equal(t, 1, res.Profile.LearningHistory["2024-06-01"])
	assert.Equal(t, 1, res.Session.Remaining)

	res, err = f.svc.Answer(ctx, false, "")
	require.NoError(t, err)
	assert.Equal(t, "due", res.Card.ID)
	assert.Equal(t, 0, res.Card.Interval)
	assert.InDelta(t, 2.3, res.Card.EaseFactor, 1e-9)
	assert.Equal(t, testNow.Add(time.Minute).UnixMilli(), res.Card.NextReviewDate)
	assert.Equal(t, domain.XPPerSuccessfulReview+domain.XPPerFailedReview, res.Profile.XP)
	assert.Equal(t, study.StateExhausted, res.Session.State)

	next, err = f.svc.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, next.Card)
	assert.Equal(t, study.StateExhausted, next.Session.State)

	_, err = f.svc.Answer(ctx, true, "")
	assert.ErrorIs(t, err, ErrNoCardDue)

	stored, _ := domain.FindCard(f.library.Snapshot().Cards, "overdue")
	assert.Equal(t, 1, stored.Interval)

	assert.Equal(t, []string{
		events.TypeSessionStarted,
		events.TypeReviewRecorded,
		events.TypeReviewRecorded,
	}, f.events)
}

func TestFrequencySessionFlow(t *testing.T) {
	t.Parallel()

	future := testNow.Add(30 * day)
	f := newFixture(t, []*domain.Card{
		card("rare", "10000+", future),
		card("common", "Top 500", future),
		card("mid", "Top 3000", future),
	})
	ctx := context.Background()

	_, err := f.svc.Start(ctx, StartOptions{
		Mode:    study.ModeFrequency,
		Buckets: frequency.NewSet(frequency.Top500, frequency.Beyond10000),
	})
	require.NoError(t, err)

	var order []string
	for {
		next, err := f.svc.Next(ctx)
		require.NoError(t, err)
		if next.Card == nil {
			break
		}
		order = append(order, next.Card.ID)
		_, err = f.svc.Answer(ctx, len(order)%2 == 0, next.Card.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"common", "rare"}, order)
}

func TestFocusSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []*domain.Card{
		card("a", "", testNow.Add(-day)),
		card("b", "", testNow.Add(10*day)),
	})
	ctx := context.Background()

	_, err := f.svc.Focus(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCardNotFound)

	view, err := f.svc.Focus(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", view.FocusedCardID)
	assert.Equal(t, 1, view.Remaining)

	res, err := f.svc.Answer(ctx, true, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", res.Card.ID)
	assert.Equal(t, study.StateIdle, res.Session.State)
	assert.Empty(t, res.Session.FocusedCardID)
}

func TestSessionSettings(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		[]*domain.Card{card("a", "", testNow), card("b", "", testNow, "home")},
		domain.Folder{ID: "home", Name: "Дом"})
	ctx := context.Background()

	view := f.svc.SetShuffle(ctx, true)
	assert.True(t, view.Shuffle)
	assert.Equal(t, "42", view.Seed)

	view = f.svc.SetShuffle(ctx, false)
	assert.False(t, view.Shuffle)
	assert.Empty(t, view.Seed)

	_, err := f.svc.SetFolder(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrFolderNotFound)

	view, err = f.svc.SetFolder(ctx, domain.AllFoldersID)
	require.NoError(t, err)
	assert.Equal(t, domain.AllFoldersID, view.FolderID)

	view, err = f.svc.Start(ctx, StartOptions{Mode: study.ModeInterval, Buckets: frequency.AllSet(), FolderID: "home"})
	require.NoError(t, err)
	assert.Equal(t, "home", view.FolderID)
	assert.Equal(t, 1, view.Remaining)

	_, err = f.svc.Answer(ctx, true, "b")
	require.NoError(t, err)

	view = f.svc.Stop(ctx)
	assert.Equal(t, study.StateIdle, view.State)
	assert.Zero(t, view.Reviewed)
	assert.Equal(t, "home", view.FolderID)

	_, err = f.svc.Start(ctx, StartOptions{Mode: study.ModeInterval, FolderID: "nope"})
	assert.ErrorIs(t, err, domain.ErrFolderNotFound)
}
