package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/events"
	"github.com/lusolearn/lusolearn-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSuggester struct {
	mock.Mock
}

func (m *mockSuggester) Suggest(ctx context.Context, cards []*domain.Card, folders []domain.Folder) ([]domain.SortSuggestion, error) {
	args := m.Called(ctx, cards, folders)
	suggestions, _ := args.Get(0).([]domain.SortSuggestion)
	return suggestions, args.Error(1)
}

// inlineRunner executes tasks during Submit.
type inlineRunner struct {
	submitErr error
}

func (r inlineRunner) Submit(ctx context.Context, t task.Task) error {
	if r.submitErr != nil {
		return r.submitErr
	}
	_ = t.Execute(ctx)
	return nil
}

// heldRunner keeps tasks until run is called.
type heldRunner struct {
	tasks []task.Task
}

func (r *heldRunner) Submit(_ context.Context, t task.Task) error {
	r.tasks = append(r.tasks, t)
	return nil
}

func sortLibrary(t *testing.T, opts ...LibraryOption) *Library {
	t.Helper()
	return newTestLibrary(t, seededStore(t,
		[]*domain.Card{
			testCard("bread", "pão"),
			testCard("milk", "leite"),
			testCard("run", "correr"),
			testCard("sorted", "casa", "home"),
		},
		domain.Folder{ID: "food", Name: "Еда"},
		domain.Folder{ID: "home", Name: "Дом"},
	), opts...)
}

func TestSortServiceUnavailable(t *testing.T) {
	t.Parallel()

	svc := NewSortService(sortLibrary(t), nil, inlineRunner{}, testLogger())
	assert.False(t, svc.Available())

	_, err := svc.Request(context.Background())
	assert.ErrorIs(t, err, ErrSmartSortUnavailable)
}

func TestSortServiceRequestAndApply(t *testing.T) {
	t.Parallel()

	recorder := &eventRecorder{}
	lib := sortLibrary(t, WithEventEmitter(recorder))

	suggester := &mockSuggester{}
	suggester.On("Suggest", mock.Anything, mock.MatchedBy(func(cards []*domain.Card) bool {
		return len(cards) == 3
	}), mock.Anything).Return([]domain.SortSuggestion{
		{Action: domain.SortActionAssign, TargetFolderID: "food", CardIDs: []string{"bread", "milk"}},
		{Action: domain.SortActionCreate, SuggestedFolderName: "Глаголы", CardIDs: []string{"run"}},
	}, nil).Once()

	svc := NewSortService(lib, suggester, inlineRunner{}, testLogger())
	require.True(t, svc.Available())

	job, err := svc.Request(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SortOutcomeSucceeded, job.Outcome)
	require.Len(t, job.Suggestions, 2)
	assert.NotNil(t, job.FinishedAt)

	result, err := svc.Apply(context.Background(), job.ID, []string{"bread", "run", "ghost"})
	require.NoError(t, err)
	assert.Equal(t, ApplyResult{Moved: 2, FoldersCreated: 1}, result)

	snap := lib.Snapshot()
	bread, _ := domain.FindCard(snap.Cards, "bread")
	milk, _ := domain.FindCard(snap.Cards, "milk")
	run, _ := domain.FindCard(snap.Cards, "run")
	verbs, ok := domain.FindFolderByName(snap.Folders, "Глаголы")
	require.True(t, ok)

	assert.Equal(t, domain.FolderSet{"food"}, bread.FolderIDs)
	assert.Equal(t, domain.FolderSet{domain.DefaultFolderID}, milk.FolderIDs, "unconfirmed cards stay put")
	assert.Equal(t, domain.FolderSet{verbs.ID}, run.FolderIDs)

	_, err = svc.Apply(context.Background(), job.ID, []string{"milk"})
	assert.ErrorIs(t, err, ErrSortJobApplied)

	assert.Contains(t, recorder.types(), events.TypeSortFinished)
	suggester.AssertExpectations(t)
}

func TestSortServiceApplyReusesFolderNames(t *testing.T) {
	t.Parallel()

	lib := sortLibrary(t)
	suggester := &mockSuggester{}
	suggester.On("Suggest", mock.Anything, mock.Anything, mock.Anything).Return([]domain.SortSuggestion{
		{Action: domain.SortActionCreate, SuggestedFolderName: "Еда", CardIDs: []string{"bread"}},
		{Action: domain.SortActionCreate, SuggestedFolderName: "Напитки", CardIDs: []string{"milk"}},
		{Action: domain.SortActionCreate, SuggestedFolderName: "Напитки", CardIDs: []string{"run"}},
	}, nil)

	svc := NewSortService(lib, suggester, inlineRunner{}, testLogger())
	job, err := svc.Request(context.Background())
	require.NoError(t, err)

	result, err := svc.Apply(context.Background(), job.ID, []string{"bread", "milk", "run"})
	require.NoError(t, err)
	assert.Equal(t, ApplyResult{Moved: 3, FoldersCreated: 1}, result)

	snap := lib.Snapshot()
	assert.Len(t, snap.Folders, 4)
	bread, _ := domain.FindCard(snap.Cards, "bread")
	milk, _ := domain.FindCard(snap.Cards, "milk")
	run, _ := domain.FindCard(snap.Cards, "run")
	assert.Equal(t, domain.FolderSet{"food"}, bread.FolderIDs)
	assert.Equal(t, milk.FolderIDs, run.FolderIDs)
}

func TestSortServiceOutcomes(t *testing.T) {
	t.Parallel()

	t.Run("failed", func(t *testing.T) {
		t.Parallel()

		suggester := &mockSuggester{}
		suggester.On("Suggest", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("offline"))

		lib := sortLibrary(t)
		before := lib.Snapshot()
		svc := NewSortService(lib, suggester, inlineRunner{}, testLogger())

		job, err := svc.Request(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.SortOutcomeFailed, job.Outcome)
		assert.Contains(t, job.Error, "offline")
		assert.Equal(t, before, lib.Snapshot())

		_, err = svc.Apply(context.Background(), job.ID, []string{"bread"})
		assert.ErrorIs(t, err, ErrSortJobNotReady)
	})

	t.Run("empty default folder", func(t *testing.T) {
		t.Parallel()

		suggester := &mockSuggester{}
		lib := newTestLibrary(t, seededStore(t, []*domain.Card{testCard("a", "casa", "home")},
			domain.Folder{ID: "home", Name: "Дом"}))
		svc := NewSortService(lib, suggester, inlineRunner{}, testLogger())

		job, err := svc.Request(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.SortOutcomeEmpty, job.Outcome)
		suggester.AssertNotCalled(t, "Suggest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("pending until the task runs", func(t *testing.T) {
		t.Parallel()

		suggester := &mockSuggester{}
		suggester.On("Suggest", mock.Anything, mock.Anything, mock.Anything).Return([]domain.SortSuggestion{
			{Action: domain.SortActionAssign, TargetFolderID: "food", CardIDs: []string{"bread"}},
		}, nil)
		runner := &heldRunner{}
		svc := NewSortService(sortLibrary(t), suggester, runner, testLogger())

		job, err := svc.Request(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.SortOutcomePending, job.Outcome)

		_, err = svc.Apply(context.Background(), job.ID, []string{"bread"})
		assert.ErrorIs(t, err, ErrSortJobNotReady)

		require.Len(t, runner.tasks, 1)
		require.NoError(t, runner.tasks[0].Execute(context.Background()))

		job, err = svc.Job(context.Background(), job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SortOutcomeSucceeded, job.Outcome)
	})

	t.Run("queue rejected", func(t *testing.T) {
		t.Parallel()

		svc := NewSortService(sortLibrary(t), &mockSuggester{}, inlineRunner{submitErr: task.ErrQueueFull}, testLogger())
		_, err := svc.Request(context.Background())
		assert.ErrorIs(t, err, task.ErrQueueFull)
	})

	t.Run("unknown job", func(t *testing.T) {
		t.Parallel()

		svc := NewSortService(sortLibrary(t), &mockSuggester{}, inlineRunner{}, testLogger())
		_, err := svc.Job(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrSortJobNotFound)
		_, err = svc.Apply(context.Background(), uuid.New(), nil)
		assert.ErrorIs(t, err, ErrSortJobNotFound)
	})
}

func TestSortServiceJobReportsTaskStage(t *testing.T) {
	t.Parallel()

	suggester := &mockSuggester{}
	suggester.On("Suggest", mock.Anything, mock.Anything, mock.Anything).Return([]domain.SortSuggestion{
		{Action: domain.SortActionAssign, TargetFolderID: "food", CardIDs: []string{"bread"}},
	}, nil).Once()

	runner := task.NewTaskRunner(task.NewMemoryTaskStore(), task.TaskRunnerConfig{WorkerCount: 1, QueueSize: 2}, testLogger())
	svc := NewSortService(sortLibrary(t), suggester, runner, testLogger())

	job, err := svc.Request(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SortOutcomePending, job.Outcome)
	assert.Equal(t, task.TaskStatusPending, job.Stage)

	runner.Start()
	require.NoError(t, runner.Stop(context.Background()))

	job, err = svc.Job(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SortOutcomeSucceeded, job.Outcome)
	assert.Empty(t, job.Stage)
	suggester.AssertExpectations(t)
}
