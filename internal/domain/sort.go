package domain

import (
	"errors"
	"fmt"
	"strings"
)

// SortAction tells whether a suggestion targets an existing folder or a new one.
type SortAction string

const (
	SortActionAssign SortAction = "assign"
	SortActionCreate SortAction = "create"
)

// SortOutcome is the terminal state of a smart sort job.
type SortOutcome string

const (
	SortOutcomePending   SortOutcome = "pending"
	SortOutcomeSucceeded SortOutcome = "succeeded"
	SortOutcomeEmpty     SortOutcome = "empty"
	SortOutcomeFailed    SortOutcome = "failed"
)

// ErrInvalidSuggestion is returned for a suggestion that cannot be applied.
var ErrInvalidSuggestion = errors.New("invalid sort suggestion")

// SortSuggestion proposes moving a group of cards into one folder.
type SortSuggestion struct {
	Action              SortAction `json:"action"`
	TargetFolderID      string     `json:"targetFolderId,omitempty"`
	SuggestedFolderName string     `json:"suggestedFolderName,omitempty"`
	CardIDs             []string   `json:"cardIds"`
}

// Validate checks that the suggestion names a destination and at least one card.
func (s SortSuggestion) Validate() error {
	switch s.Action {
	case SortActionAssign:
		if s.TargetFolderID == "" {
			return fmt.Errorf("%w: assign without target folder", ErrInvalidSuggestion)
		}
	case SortActionCreate:
		if strings.TrimSpace(s.SuggestedFolderName) == "" {
			return fmt.Errorf("%w: create without folder name", ErrInvalidSuggestion)
		}
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidSuggestion, s.Action)
	}

	if len(s.CardIDs) == 0 {
		return fmt.Errorf("%w: no cards", ErrInvalidSuggestion)
	}

	return nil
}

// RestrictTo returns a copy of the suggestion holding only card ids in
// allowed, each at most once.
func (s SortSuggestion) RestrictTo(allowed map[string]bool) SortSuggestion {
	out := s
	out.CardIDs = nil
	seen := make(map[string]bool, len(s.CardIDs))
	for _, id := range s.CardIDs {
		if allowed[id] && !seen[id] {
			seen[id] = true
			out.CardIDs = append(out.CardIDs, id)
		}
	}
	return out
}
