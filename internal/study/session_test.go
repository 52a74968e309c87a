package study

import (
	"testing"

	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/domain/frequency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	cards := []*domain.Card{card("a", 1, ""), card("b", 2, "")}

	s := NewSession()
	assert.Equal(t, StateIdle, s.Status(cards))
	assert.Equal(t, domain.DefaultFolderID, s.FolderFilter())

	s = s.Start(ModeInterval, frequency.AllSet())
	assert.Equal(t, StateActive, s.Status(cards))
	require.Equal(t, []string{"a", "b"}, ids(s.Queue(cards)))

	s = s.Advance("a")
	assert.Equal(t, []string{"b"}, ids(s.Queue(cards)))
	assert.True(t, s.WasReviewed("a"))

	s = s.Advance("b")
	assert.Equal(t, StateExhausted, s.Status(cards))

	s = s.Reset()
	assert.Equal(t, StateIdle, s.Status(cards))
	assert.Equal(t, 0, s.ReviewedCount())
}

func TestSessionTransitionsAreImmutable(t *testing.T) {
	t.Parallel()

	started := NewSession().Start(ModeInterval, frequency.AllSet())
	advanced := started.Advance("a")

	assert.False(t, started.WasReviewed("a"))
	assert.True(t, advanced.WasReviewed("a"))
}

func TestSessionStartClearsPreviousState(t *testing.T) {
	t.Parallel()

	s := NewSession().Start(ModeInterval, frequency.AllSet()).Advance("a").Focus("b")
	s = s.Start(ModeFrequency, frequency.NewSet(frequency.Top500))

	assert.Equal(t, 0, s.ReviewedCount())
	assert.Empty(t, s.FocusedCardID())
	assert.Equal(t, ModeFrequency, s.Mode())
	assert.True(t, s.Buckets().Has(frequency.Top500))
}

func TestSessionFocus(t *testing.T) {
	t.Parallel()

	cards := []*domain.Card{card("a", 1, ""), card("b", 2, "", "other")}

	s := NewSession().Start(ModeInterval, frequency.AllSet()).Advance("b")
	require.True(t, s.WasReviewed("b"))

	s = s.Focus("b")
	assert.False(t, s.WasReviewed("b"), "focus removes the card from reviewed")
	assert.Equal(t, []string{"b"}, ids(s.Queue(cards)))
	assert.Equal(t, StateActive, s.Status(cards))

	s = s.Advance("b")
	assert.Equal(t, StateIdle, s.Status(cards))
	assert.Empty(t, s.FocusedCardID())
	assert.False(t, s.WasReviewed("b"), "focused reviews do not mark the card")
}

func TestSessionFocusOnMissingCardIsExhausted(t *testing.T) {
	t.Parallel()

	s := NewSession().Focus("ghost")
	assert.Equal(t, StateExhausted, s.Status([]*domain.Card{card("a", 1, "")}))
}

func TestSessionShuffle(t *testing.T) {
	t.Parallel()

	s := NewSession().WithShuffle(true, 11)
	assert.True(t, s.Shuffle())
	assert.Equal(t, Seed(11), s.Seed())

	// enabling again keeps the seed
	s = s.WithShuffle(true, 12)
	assert.Equal(t, Seed(11), s.Seed())

	// toggling off and on draws the new seed
	s = s.WithShuffle(false, 0).WithShuffle(true, 13)
	assert.Equal(t, Seed(13), s.Seed())
	assert.True(t, s.Query().Shuffle)
}

func TestSessionFolderFilterSurvivesReset(t *testing.T) {
	t.Parallel()

	s := NewSession().WithFolderFilter("travel").Start(ModeInterval, frequency.AllSet()).Reset()
	assert.Equal(t, "travel", s.FolderFilter())
	assert.Equal(t, "travel", s.Query().FolderFilter)
}
