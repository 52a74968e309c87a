// Package study decides which card a learner sees next. SelectQueue is a pure
// function of the collection and a Query; Session is the immutable state of a
// study session that produces those queries.
package study

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/domain/frequency"
)

// ErrUnknownMode is returned when a study mode name is not recognized.
var ErrUnknownMode = errors.New("unknown study mode")

// Mode selects how the queue is ordered.
type Mode string

const (
	// ModeInterval orders cards by due date, or by shuffle key when shuffling.
	ModeInterval Mode = "srs"

	// ModeFrequency orders cards from the most to the least common bucket.
	ModeFrequency Mode = "frequency"
)

// ParseMode converts a mode name. "interval" is accepted as an alias of "srs".
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(ModeInterval), "interval":
		return ModeInterval, nil
	case string(ModeFrequency):
		return ModeFrequency, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// IDSet is a set of card ids.
type IDSet map[string]struct{}

// Has reports whether id is in the set. A nil set is empty.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Query is everything SelectQueue needs besides the cards themselves.
type Query struct {
	Mode          Mode
	FolderFilter  string
	ReviewedIDs   IDSet
	Buckets       frequency.Set
	Shuffle       bool
	Seed          Seed
	FocusedCardID string
}

// SelectQueue returns the cards to study, head first.
//
// A focused card overrides every other rule and yields a queue of at most one
// card. Otherwise cards already reviewed in this session and cards outside the
// folder filter are dropped, then the mode decides filtering and order. The
// returned slice is new; cards is never reordered.
func SelectQueue(cards []*domain.Card, q Query) []*domain.Card {
	if q.FocusedCardID != "" {
		if card, ok := domain.FindCard(cards, q.FocusedCardID); ok {
			return []*domain.Card{card}
		}
		return []*domain.Card{}
	}

	folder := q.FolderFilter
	if folder == "" {
		folder = domain.AllFoldersID
	}

	pool := make([]*domain.Card, 0, len(cards))
	for _, card := range cards {
		if q.ReviewedIDs.Has(card.ID) || !card.InFolder(folder) {
			continue
		}
		if q.Mode == ModeFrequency && !q.Buckets.Has(frequency.Normalize(card.Frequency)) {
			continue
		}
		pool = append(pool, card)
	}

	switch {
	case q.Mode == ModeFrequency:
		sort.SliceStable(pool, func(i, j int) bool {
			return frequency.Rank(pool[i].Frequency) < frequency.Rank(pool[j].Frequency)
		})
	case q.Shuffle:
		sort.SliceStable(pool, func(i, j int) bool {
			return OrderKey(pool[i].ID, q.Seed) < OrderKey(pool[j].ID, q.Seed)
		})
	default:
		sort.SliceStable(pool, func(i, j int) bool {
			if pool[i].NextReviewDate != pool[j].NextReviewDate {
				return pool[i].NextReviewDate < pool[j].NextReviewDate
			}
			return pool[i].ID < pool[j].ID
		})
	}

	return pool
}
