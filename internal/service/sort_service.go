package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/events"
	"github.com/lusolearn/lusolearn-api/internal/store"
	"github.com/lusolearn/lusolearn-api/internal/task"
)

// maxRetainedSortJobs bounds the number of finished jobs kept for polling.
const maxRetainedSortJobs = 32

// FolderSuggester proposes folders for cards.
type FolderSuggester interface {
	Suggest(ctx context.Context, cards []*domain.Card, folders []domain.Folder) ([]domain.SortSuggestion, error)
}

// TaskSubmitter queues background tasks.
type TaskSubmitter interface {
	Submit(ctx context.Context, t task.Task) error
}

// TaskTracker reports the progress of submitted tasks. When the runner
// implements it, pending jobs show whether their task is queued or running.
type TaskTracker interface {
	Lookup(ctx context.Context, taskID uuid.UUID) (task.TaskRecord, error)
}

// SortJob is the state of one smart sort request.
type SortJob struct {
	ID          uuid.UUID               `json:"id"`
	Outcome     domain.SortOutcome      `json:"outcome"`
	Stage       task.TaskStatus         `json:"stage,omitempty"`
	Suggestions []domain.SortSuggestion `json:"suggestions"`
	Error       string                  `json:"error,omitempty"`
	Applied     bool                    `json:"applied"`
	CreatedAt   time.Time               `json:"created_at"`
	FinishedAt  *time.Time              `json:"finished_at,omitempty"`
}

func (j *SortJob) clone() *SortJob {
	out := *j
	out.Suggestions = make([]domain.SortSuggestion, len(j.Suggestions))
	for i, s := range j.Suggestions {
		s.CardIDs = append([]string(nil), s.CardIDs...)
		out.Suggestions[i] = s
	}
	return &out
}

// ApplyResult reports what an applied sort job changed.
type ApplyResult struct {
	Moved          int `json:"moved"`
	FoldersCreated int `json:"folders_created"`
}

// SortService runs smart sort jobs over the cards of the default folder.
type SortService interface {
	// Available reports whether a suggester is configured.
	Available() bool

	// Request starts a job. It returns ErrSmartSortUnavailable without a suggester.
	Request(ctx context.Context) (*SortJob, error)

	// Job returns the current state of a job.
	Job(ctx context.Context, jobID uuid.UUID) (*SortJob, error)

	// Apply moves the confirmed cards of a succeeded job into their
	// suggested folders, creating folders as needed.
	Apply(ctx context.Context, jobID uuid.UUID, confirmedCardIDs []string) (ApplyResult, error)
}

type sortServiceImpl struct {
	library   *Library
	suggester FolderSuggester
	runner    TaskSubmitter
	logger    *slog.Logger

	mu    sync.Mutex
	jobs  map[uuid.UUID]*SortJob
	order []uuid.UUID
}

var (
	_ SortService         = (*sortServiceImpl)(nil)
	_ task.SortResultSink = (*sortServiceImpl)(nil)
	_ TaskTracker         = (*task.TaskRunner)(nil)
)

// NewSortService creates a SortService. A nil suggester disables smart sort.
func NewSortService(library *Library, suggester FolderSuggester, runner TaskSubmitter, logger *slog.Logger) SortService {
	if library == nil {
		panic("library cannot be nil")
	}
	if runner == nil {
		panic("task runner cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &sortServiceImpl{
		library:   library,
		suggester: suggester,
		runner:    runner,
		logger:    logger.With(slog.String("component", "sort_service")),
		jobs:      make(map[uuid.UUID]*SortJob),
	}
}

func (s *sortServiceImpl) Available() bool {
	return s.suggester != nil
}

func (s *sortServiceImpl) Request(ctx context.Context) (*SortJob, error) {
	if s.suggester == nil {
		return nil, NewServiceError("request sort", "no suggester configured", ErrSmartSortUnavailable)
	}

	snap := s.library.Snapshot()
	var cards []*domain.Card
	for _, c := range snap.Cards {
		if c.FolderIDs.Has(domain.DefaultFolderID) {
			cards = append(cards, c)
		}
	}

	job := &SortJob{
		ID:        uuid.New(),
		Outcome:   domain.SortOutcomePending,
		CreatedAt: s.library.Now(),
	}
	s.storeJob(job)

	t, err := task.NewSmartSortTask(job.ID, cards, snap.Folders, s.suggester, s, s.logger)
	if err != nil {
		s.dropJob(job.ID)
		return nil, NewServiceError("request sort", "failed to create task", err)
	}
	if err := s.runner.Submit(ctx, t); err != nil {
		s.dropJob(job.ID)
		return nil, NewServiceError("request sort", "failed to queue task", err)
	}

	s.logger.InfoContext(ctx, "sort job queued",
		slog.String("job_id", job.ID.String()),
		slog.Int("card_count", len(cards)))

	return s.Job(ctx, job.ID)
}

func (s *sortServiceImpl) Job(ctx context.Context, jobID uuid.UUID) (*SortJob, error) {
	s.mu.Lock()
	job, ok := s.jobs[jobID]
	if ok {
		job = job.clone()
	}
	s.mu.Unlock()

	if !ok {
		return nil, NewServiceError("get sort job", "unknown job", ErrSortJobNotFound)
	}

	if tracker, isTracker := s.runner.(TaskTracker); isTracker && job.Outcome == domain.SortOutcomePending {
		rec, err := tracker.Lookup(ctx, jobID)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to look up sort task",
				slog.String("job_id", jobID.String()),
				slog.String("error", err.Error()))
		} else {
			job.Stage = rec.Status
		}
	}

	return job, nil
}

// FinishSort implements task.SortResultSink.
func (s *sortServiceImpl) FinishSort(ctx context.Context, jobID uuid.UUID, result task.SortResult) {
	now := s.library.Now()

	s.mu.Lock()
	job, ok := s.jobs[jobID]
	if ok {
		job.Outcome = result.Outcome
		job.Suggestions = result.Suggestions
		if result.Err != nil {
			job.Error = result.Err.Error()
		}
		job.FinishedAt = &now
	}
	s.mu.Unlock()

	if !ok {
		s.logger.WarnContext(ctx, "result for unknown sort job", slog.String("job_id", jobID.String()))
		return
	}

	s.library.Emit(ctx, events.TypeSortFinished, events.SortFinishedPayload{
		JobID:       jobID.String(),
		Outcome:     string(result.Outcome),
		Suggestions: len(result.Suggestions),
	})
}

func (s *sortServiceImpl) Apply(ctx context.Context, jobID uuid.UUID, confirmedCardIDs []string) (ApplyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return ApplyResult{}, NewServiceError("apply sort", "unknown job", ErrSortJobNotFound)
	}
	if job.Applied {
		return ApplyResult{}, NewServiceError("apply sort", "job already applied", ErrSortJobApplied)
	}
	if job.Outcome != domain.SortOutcomeSucceeded {
		return ApplyResult{}, NewServiceError("apply sort", "job has no suggestions", ErrSortJobNotReady)
	}

	confirmed := make(map[string]bool, len(confirmedCardIDs))
	for _, id := range confirmedCardIDs {
		confirmed[id] = true
	}

	var result ApplyResult
	err := s.library.Update(ctx, func(snap *store.Snapshot) error {
		result = ApplyResult{}
		present := make(map[string]bool, len(snap.Cards))
		for _, c := range snap.Cards {
			present[c.ID] = true
		}

		targets := make(map[string]string)
		for _, sg := range job.Suggestions {
			var ids []string
			for _, id := range sg.CardIDs {
				if confirmed[id] && present[id] {
					ids = append(ids, id)
				}
			}
			if len(ids) == 0 {
				continue
			}

			target, err := s.resolveTarget(snap, sg, &result)
			if err != nil {
				return err
			}
			if target == "" {
				continue
			}
			for _, id := range ids {
				targets[id] = target
			}
		}

		for _, c := range snap.Cards {
			if target, ok := targets[c.ID]; ok {
				c.FolderIDs = domain.NewFolderSet(target)
				result.Moved++
			}
		}
		return nil
	})
	if err != nil {
		return ApplyResult{}, NewServiceError("apply sort", "failed to move cards", err)
	}

	job.Applied = true
	s.logger.InfoContext(ctx, "sort job applied",
		slog.String("job_id", jobID.String()),
		slog.Int("moved", result.Moved),
		slog.Int("folders_created", result.FoldersCreated))

	return result, nil
}

// resolveTarget returns the folder a suggestion moves cards into, creating
// it when needed. New folders reuse an existing or already created folder of
// the same name. An empty id means the suggestion no longer applies.
func (s *sortServiceImpl) resolveTarget(snap *store.Snapshot, sg domain.SortSuggestion, result *ApplyResult) (string, error) {
	if sg.Action == domain.SortActionAssign {
		if _, ok := domain.FindFolder(snap.Folders, sg.TargetFolderID); ok {
			return sg.TargetFolderID, nil
		}
		return "", nil
	}

	if existing, ok := domain.FindFolderByName(snap.Folders, strings.TrimSpace(sg.SuggestedFolderName)); ok {
		return existing.ID, nil
	}
	folder, err := domain.NewFolder(sg.SuggestedFolderName)
	if err != nil {
		return "", err
	}
	snap.Folders = append(snap.Folders, folder)
	result.FoldersCreated++
	return folder.ID, nil
}

func (s *sortServiceImpl) storeJob(job *SortJob) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)

	for len(s.order) > maxRetainedSortJobs {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.jobs, oldest)
	}
}

func (s *sortServiceImpl) dropJob(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.jobs, id)
	for i, jobID := range s.order {
		if jobID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
