package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/domain/srs"
	"github.com/lusolearn/lusolearn-api/internal/service"
	"github.com/lusolearn/lusolearn-api/internal/service/review"
	"github.com/lusolearn/lusolearn-api/internal/store"
	"github.com/lusolearn/lusolearn-api/internal/study"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockSortService struct {
	mock.Mock
}

func (m *mockSortService) Available() bool {
	return m.Called().Bool(0)
}

func (m *mockSortService) Request(ctx context.Context) (*service.SortJob, error) {
	args := m.Called(ctx)
	job, _ := args.Get(0).(*service.SortJob)
	return job, args.Error(1)
}

func (m *mockSortService) Job(ctx context.Context, id uuid.UUID) (*service.SortJob, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*service.SortJob)
	return job, args.Error(1)
}

func (m *mockSortService) Apply(ctx context.Context, id uuid.UUID, cardIDs []string) (service.ApplyResult, error) {
	args := m.Called(ctx, id, cardIDs)
	return args.Get(0).(service.ApplyResult), args.Error(1)
}

// testEnv is the API mounted over real services and an in-memory store.
type testEnv struct {
	router  http.Handler
	library *service.Library
	sorts   *mockSortService
}

func newTestEnv(t *testing.T, cards ...*domain.Card) *testEnv {
	t.Helper()

	snap := store.NewSnapshot(testNow)
	snap.Cards = append(snap.Cards, cards...)
	records, err := store.EncodeSnapshot(snap)
	require.NoError(t, err)
	rs := store.NewMemoryStore()
	require.NoError(t, rs.PutAll(context.Background(), records))

	logger := testLogger()
	clock := func() time.Time { return testNow }
	library, err := service.NewLibrary(context.Background(), rs, logger, service.WithClock(clock))
	require.NoError(t, err)

	cardService := service.NewCardService(library, logger)
	sorts := &mockSortService{}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, Handlers{
			Cards:   NewCardHandler(cardService, logger),
			Folders: NewFolderHandler(service.NewFolderService(library, logger), cardService, logger),
			Library: NewLibraryHandler(cardService, library, logger),
			Study: NewStudyHandler(review.NewService(library, srs.NewDefaultService(), logger,
				review.WithSeedSource(func() study.Seed { return 7 })), logger),
			Backup: NewBackupHandler(service.NewSyncService(library, logger), clock, logger),
			Sort:   NewSortHandler(sorts, logger),
		})
	})

	return &testEnv{router: r, library: library, sorts: sorts}
}

// do sends a request with an optional JSON body and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func testCard(id, term string, due time.Time, folders ...string) *domain.Card {
	if len(folders) == 0 {
		folders = []string{domain.DefaultFolderID}
	}
	return &domain.Card{
		ID:             id,
		OriginalTerm:   term,
		Translation:    "tr-" + term,
		FolderIDs:      domain.NewFolderSet(folders...),
		EaseFactor:     domain.InitialEaseFactor,
		NextReviewDate: due.UnixMilli(),
		CreatedAt:      testNow.Add(-48 * time.Hour).UnixMilli(),
	}
}

