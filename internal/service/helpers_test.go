package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/store"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCard(id, term string, folders ...string) *domain.Card {
	if len(folders) == 0 {
		folders = []string{domain.DefaultFolderID}
	}
	return &domain.Card{
		ID:             id,
		OriginalTerm:   term,
		Translation:    term + "-ru",
		FolderIDs:      domain.NewFolderSet(folders...),
		EaseFactor:     domain.InitialEaseFactor,
		NextReviewDate: testNow.UnixMilli(),
		CreatedAt:      testNow.UnixMilli(),
	}
}

// seededStore returns a MemoryStore holding cards and folders plus the
// default folder.
func seededStore(t *testing.T, cards []*domain.Card, folders ...domain.Folder) *store.MemoryStore {
	t.Helper()

	snap := store.NewSnapshot(testNow)
	snap.Cards = cards
	snap.Folders = append(snap.Folders, folders...)

	records, err := store.EncodeSnapshot(snap)
	require.NoError(t, err)

	rs := store.NewMemoryStore()
	require.NoError(t, rs.PutAll(context.Background(), records))
	return rs
}

func newTestLibrary(t *testing.T, rs store.RecordStore, opts ...LibraryOption) *Library {
	t.Helper()

	opts = append([]LibraryOption{WithClock(func() time.Time { return testNow })}, opts...)
	lib, err := NewLibrary(context.Background(), rs, testLogger(), opts...)
	require.NoError(t, err)
	return lib
}
