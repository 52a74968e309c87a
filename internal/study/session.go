package study

import (
	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/domain/frequency"
)

// State is the lifecycle phase of a study session.
type State string

const (
	StateIdle      State = "idle"
	StateActive    State = "active"
	StateExhausted State = "exhausted"
)

// Session holds the state that survives between reviews. It is a value type:
// every transition returns a new Session and leaves the receiver unchanged.
//
// Exhausted is not stored; Status derives it from the current collection.
type Session struct {
	active        bool
	mode          Mode
	buckets       frequency.Set
	folderFilter  string
	reviewed      IDSet
	focusedCardID string
	shuffle       bool
	seed          Seed
}

// NewSession returns an idle session filtered to the default folder, matching
// what the dashboard shows first.
func NewSession() Session {
	return Session{
		mode:         ModeInterval,
		buckets:      frequency.AllSet(),
		folderFilter: domain.DefaultFolderID,
		reviewed:     IDSet{},
	}
}

// Start begins a session in the given mode. Previously reviewed and focused
// cards are forgotten.
func (s Session) Start(mode Mode, buckets frequency.Set) Session {
	s.active = true
	s.mode = mode
	s.buckets = buckets
	s.reviewed = IDSet{}
	s.focusedCardID = ""
	return s
}

// Focus starts a single-card session for cardID. The card is removed from
// the reviewed set so that it can be reviewed again afterwards.
func (s Session) Focus(cardID string) Session {
	reviewed := s.reviewed.Clone()
	delete(reviewed, cardID)

	s.active = true
	s.reviewed = reviewed
	s.focusedCardID = cardID
	return s
}

// Advance records that cardID, the head of the queue, has been answered. A
// focused session ends and returns to idle; otherwise the card is excluded
// from the rest of the session.
func (s Session) Advance(cardID string) Session {
	if s.focusedCardID != "" {
		s.focusedCardID = ""
		s.active = false
		return s
	}

	reviewed := s.reviewed.Clone()
	reviewed[cardID] = struct{}{}
	s.reviewed = reviewed
	return s
}

// Reset returns to the dashboard: idle, nothing reviewed, nothing focused.
// Folder filter and shuffle settings are kept.
func (s Session) Reset() Session {
	s.active = false
	s.reviewed = IDSet{}
	s.focusedCardID = ""
	return s
}

// WithShuffle enables or disables shuffling. Seed is only used when enabling.
func (s Session) WithShuffle(enabled bool, seed Seed) Session {
	if enabled && !s.shuffle {
		s.seed = seed
	}
	s.shuffle = enabled
	return s
}

// WithFolderFilter changes the folder the queue is drawn from.
func (s Session) WithFolderFilter(folderID string) Session {
	s.folderFilter = folderID
	return s
}

// Query returns the selector input for the session.
func (s Session) Query() Query {
	return Query{
		Mode:          s.mode,
		FolderFilter:  s.folderFilter,
		ReviewedIDs:   s.reviewed,
		Buckets:       s.buckets,
		Shuffle:       s.shuffle,
		Seed:          s.seed,
		FocusedCardID: s.focusedCardID,
	}
}

// Queue recomputes the queue against the current collection.
func (s Session) Queue(cards []*domain.Card) []*domain.Card {
	return SelectQueue(cards, s.Query())
}

// Status reports the session state for the current collection.
func (s Session) Status(cards []*domain.Card) State {
	if !s.active {
		return StateIdle
	}
	if len(s.Queue(cards)) == 0 {
		return StateExhausted
	}
	return StateActive
}

// Snapshot accessors.

func (s Session) Active() bool { return s.active }
func (s Session) Mode() Mode { return s.mode }
func (s Session) Buckets() frequency.Set { return s.buckets }
func (s Session) FolderFilter() string { return s.folderFilter }
func (s Session) FocusedCardID() string { return s.focusedCardID }
func (s Session) Shuffle() bool { return s.shuffle }
func (s Session) Seed() Seed { return s.seed }
func (s Session) ReviewedCount() int { return len(s.reviewed) }
func (s Session) WasReviewed(id string) bool { return s.reviewed.Has(id) }
