package study

import (
	"testing"

	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/domain/frequency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(id string, due int64, freq string, folders ...string) *domain.Card {
	if len(folders) == 0 {
		folders = []string{domain.DefaultFolderID}
	}
	return &domain.Card{
		ID:             id,
		OriginalTerm:   "term-" + id,
		Frequency:      freq,
		FolderIDs:      domain.NewFolderSet(folders...),
		EaseFactor:     domain.InitialEaseFactor,
		NextReviewDate: due,
	}
}

func ids(cards []*domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestSelectQueueIntervalMode(t *testing.T) {
	t.Parallel()

	cards := []*domain.Card{
		card("b", 200, ""),
		card("a", 200, ""),
		card("c", 100, ""),
		card("d", 50, "", "other"),
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{
			name:  "ordered by due date then id",
			query: Query{Mode: ModeInterval, FolderFilter: domain.DefaultFolderID},
			want:  []string{"c", "a", "b"},
		},
		{
			name:  "all folders",
			query: Query{Mode: ModeInterval, FolderFilter: domain.AllFoldersID},
			want:  []string{"d", "c", "a", "b"},
		},
		{
			name:  "empty filter means all",
			query: Query{Mode: ModeInterval},
			want:  []string{"d", "c", "a", "b"},
		},
		{
			name: "reviewed excluded",
			query: Query{
				Mode:         ModeInterval,
				FolderFilter: domain.AllFoldersID,
				ReviewedIDs:  IDSet{"c": {}, "d": {}},
			},
			want: []string{"a", "b"},
		},
		{
			name:  "unknown folder yields nothing",
			query: Query{Mode: ModeInterval, FolderFilter: "missing"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ids(SelectQueue(cards, tt.query)))
		})
	}
}

func TestSelectQueueDoesNotReorderInput(t *testing.T) {
	t.Parallel()

	cards := []*domain.Card{card("z", 3, ""), card("y", 2, ""), card("x", 1, "")}
	_ = SelectQueue(cards, Query{Mode: ModeInterval})
	assert.Equal(t, []string{"z", "y", "x"}, ids(cards))
}

func TestSelectQueueFrequencyMode(t *testing.T) {
	t.Parallel()

	cards := []*domain.Card{
		card("1", 0, "Low"),
		card("2", 0, "Top 500"),
		card("3", 0, "High"),
		card("4", 0, ""),
		card("5", 0, "Top 500"),
		card("6", 0, "Top 5000", "travel"),
	}

	t.Run("rank ascending stable", func(t *testing.T) {
		t.Parallel()

		got := SelectQueue(cards, Query{
			Mode:         ModeFrequency,
			FolderFilter: domain.AllFoldersID,
			Buckets:      frequency.AllSet(),
		})
		assert.Equal(t, []string{"2", "5", "3", "6", "1", "4"}, ids(got))
	})

	t.Run("bucket filter with legacy and missing labels", func(t *testing.T) {
		t.Parallel()

		got := SelectQueue(cards, Query{
			Mode:         ModeFrequency,
			FolderFilter: domain.DefaultFolderID,
			Buckets:      frequency.NewSet(frequency.Beyond10000, frequency.Top1000),
		})
		assert.Equal(t, []string{"3", "1", "4"}, ids(got))
	})

	t.Run("empty bucket set", func(t *testing.T) {
		t.Parallel()

		got := SelectQueue(cards, Query{Mode: ModeFrequency, FolderFilter: domain.AllFoldersID})
		assert.Empty(t, got)
	})

	t.Run("reviewed excluded", func(t *testing.T) {
		t.Parallel()

		got := SelectQueue(cards, Query{
			Mode:         ModeFrequency,
			FolderFilter: domain.AllFoldersID,
			Buckets:      frequency.NewSet(frequency.Top500),
			ReviewedIDs:  IDSet{"2": {}},
		})
		assert.Equal(t, []string{"5"}, ids(got))
	})
}

func TestSelectQueueFocusedCard(t *testing.T) {
	t.Parallel()

	cards := []*domain.Card{card("a", 1, ""), card("b", 2, "", "elsewhere")}

	got := SelectQueue(cards, Query{
		Mode:          ModeFrequency,
		FolderFilter:  domain.DefaultFolderID,
		ReviewedIDs:   IDSet{"b": {}},
		FocusedCardID: "b",
	})
	assert.Equal(t, []string{"b"}, ids(got))

	got = SelectQueue(cards, Query{FocusedCardID: "gone"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSelectQueueShuffle(t *testing.T) {
	t.Parallel()

	var cards []*domain.Card
	for _, id := range []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"} {
		cards = append(cards, card(id, 0, ""))
	}

	query := Query{Mode: ModeInterval, Shuffle: true, Seed: 42}
	first := SelectQueue(cards, query)
	second := SelectQueue(cards, query)
	require.Len(t, first, len(cards))
	assert.Equal(t, ids(first), ids(second))

	for i := 1; i < len(first); i++ {
		assert.LessOrEqual(t, OrderKey(first[i-1].ID, 42), OrderKey(first[i].ID, 42))
	}

	// the set of cards is preserved
	assert.ElementsMatch(t, ids(cards), ids(first))
}

func TestSelectQueueShuffleDependsOnSeed(t *testing.T) {
	t.Parallel()

	var cards []*domain.Card
	for _, id := range []string{"alpha", "beta", "gamma", "delta", "epsilon"} {
		cards = append(cards, card(id, 0, ""))
	}

	// Seeds that differ only in their last digit mostly rotate the keys
	// without reordering, so these differ in length.
	seven := ids(SelectQueue(cards, Query{Mode: ModeInterval, Shuffle: true, Seed: 7}))
	fortyTwo := ids(SelectQueue(cards, Query{Mode: ModeInterval, Shuffle: true, Seed: 42}))

	assert.Equal(t, []string{"alpha", "delta", "gamma", "epsilon", "beta"}, seven)
	assert.Equal(t, []string{"beta", "alpha", "gamma", "delta", "epsilon"}, fortyTwo)
	assert.NotEqual(t, seven, fortyTwo)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	mode, err := ParseMode("frequency")
	require.NoError(t, err)
	assert.Equal(t, ModeFrequency, mode)

	mode, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeInterval, mode)

	mode, err = ParseMode("interval")
	require.NoError(t, err)
	assert.Equal(t, ModeInterval, mode)

	_, err = ParseMode("random")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
