package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/lusolearn/lusolearn-api/internal/domain"
)

// Suggester proposes folders for a batch of cards.
type Suggester interface {
	Suggest(ctx context.Context, cards []*domain.Card, folders []domain.Folder) ([]domain.SortSuggestion, error)
}

// SortResult is what a smart sort task hands back when it finishes.
type SortResult struct {
	Outcome     domain.SortOutcome
	Suggestions []domain.SortSuggestion
	Err         error
}

// SortResultSink receives the result of a finished smart sort task.
type SortResultSink interface {
	FinishSort(ctx context.Context, jobID uuid.UUID, result SortResult)
}

// SmartSortPayload is the serialized input of a smart sort task.
type SmartSortPayload struct {
	JobID   uuid.UUID `json:"job_id"`
	CardIDs []string  `json:"card_ids"`
}

// ErrSuggesterFailed wraps errors returned by the Suggester.
var ErrSuggesterFailed = errors.New("folder suggester failed")

// SmartSortTask asks a Suggester to distribute cards over folders. The
// suggestions are cleaned before they reach the sink: card ids outside the
// input batch are dropped, each card is claimed by its first suggestion, and
// assignments to unknown folders are discarded.
type SmartSortTask struct {
	id        uuid.UUID
	cards     []*domain.Card
	folders   []domain.Folder
	suggester Suggester
	sink      SortResultSink
	logger    *slog.Logger

	mu     sync.RWMutex
	status TaskStatus
}

var _ Task = (*SmartSortTask)(nil)

// NewSmartSortTask creates a task for the job jobID. The task id equals the job id.
func NewSmartSortTask(
	jobID uuid.UUID,
	cards []*domain.Card,
	folders []domain.Folder,
	suggester Suggester,
	sink SortResultSink,
	logger *slog.Logger,
) (*SmartSortTask, error) {
	if suggester == nil {
		return nil, errors.New("suggester cannot be nil")
	}
	if sink == nil {
		return nil, errors.New("result sink cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SmartSortTask{
		id:        jobID,
		cards:     cards,
		folders:   folders,
		suggester: suggester,
		sink:      sink,
		logger:    logger.With(slog.String("component", "smart_sort_task"), slog.String("job_id", jobID.String())),
		status:    TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *SmartSortTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *SmartSortTask) Type() string {
	return TaskTypeSmartSort
}

// Payload returns the job id and the ids of the cards being sorted.
func (t *SmartSortTask) Payload() []byte {
	ids := make([]string, 0, len(t.cards))
	for _, c := range t.cards {
		ids = append(ids, c.ID)
	}
	data, _ := json.Marshal(SmartSortPayload{JobID: t.id, CardIDs: ids})
	return data
}

// Status returns the current task status
func (t *SmartSortTask) Status() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func (t *SmartSortTask) setStatus(status TaskStatus) {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}

// Execute calls the suggester once and reports the outcome to the sink.
func (t *SmartSortTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing)

	if len(t.cards) == 0 {
		t.logger.InfoContext(ctx, "no cards to sort")
		t.sink.FinishSort(ctx, t.id, SortResult{Outcome: domain.SortOutcomeEmpty})
		t.setStatus(TaskStatusCompleted)
		return nil
	}

	raw, err := t.suggester.Suggest(ctx, t.cards, t.folders)
	if err != nil {
		wrapped := fmt.Errorf("%w: %w", ErrSuggesterFailed, err)
		t.sink.FinishSort(ctx, t.id, SortResult{Outcome: domain.SortOutcomeFailed, Err: wrapped})
		t.setStatus(TaskStatusFailed)
		return wrapped
	}

	suggestions := t.clean(ctx, raw)
	if len(suggestions) == 0 {
		t.logger.InfoContext(ctx, "suggester returned nothing usable", slog.Int("raw_count", len(raw)))
		t.sink.FinishSort(ctx, t.id, SortResult{Outcome: domain.SortOutcomeEmpty})
		t.setStatus(TaskStatusCompleted)
		return nil
	}

	t.logger.InfoContext(ctx, "smart sort finished", slog.Int("suggestion_count", len(suggestions)))
	t.sink.FinishSort(ctx, t.id, SortResult{Outcome: domain.SortOutcomeSucceeded, Suggestions: suggestions})
	t.setStatus(TaskStatusCompleted)
	return nil
}

func (t *SmartSortTask) clean(ctx context.Context, raw []domain.SortSuggestion) []domain.SortSuggestion {
	unclaimed := make(map[string]bool, len(t.cards))
	for _, c := range t.cards {
		unclaimed[c.ID] = true
	}

	var out []domain.SortSuggestion
	for _, s := range raw {
		if s.Action == domain.SortActionAssign {
			if _, ok := domain.FindFolder(t.folders, s.TargetFolderID); !ok {
				t.logger.DebugContext(ctx, "dropping suggestion for unknown folder",
					slog.String("folder_id", s.TargetFolderID))
				continue
			}
		}

		s = s.RestrictTo(unclaimed)
		if err := s.Validate(); err != nil {
			t.logger.DebugContext(ctx, "dropping suggestion", slog.String("error", err.Error()))
			continue
		}
		for _, id := range s.CardIDs {
			delete(unclaimed, id)
		}
		out = append(out, s)
	}
	return out
}
