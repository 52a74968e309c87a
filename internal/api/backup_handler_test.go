package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lusolearn/lusolearn-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportBackup(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testCard("a", "casa", testNow))

	w := env.do(t, http.MethodGet, "/api/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "lusolearn_backup_2024-06-01.json")

	doc, err := service.DecodeBackup(w.Body, service.BackupFormatJSON)
	require.NoError(t, err)
	require.Len(t, doc.Cards, 1)
	assert.Equal(t, "casa", doc.Cards[0].OriginalTerm)
	assert.Equal(t, service.BackupVersion, doc.Version)

	w = env.do(t, http.MethodGet, "/api/backup?format=yaml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "originalTerm: casa")

	w = env.do(t, http.MethodGet, "/api/backup?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportBackup(t *testing.T) {
	t.Parallel()

	source := newTestEnv(t, testCard("a", "casa", testNow), testCard("b", "mesa", testNow))
	exported := source.do(t, http.MethodGet, "/api/backup?format=yaml", nil)
	require.Equal(t, http.StatusOK, exported.Code)

	target := newTestEnv(t, testCard("z", "zebra", testNow))
	req := httptest.NewRequest(http.MethodPost, "/api/backup", bytes.NewReader(exported.Body.Bytes()))
	req.Header.Set("Content-Type", "application/yaml; charset=utf-8")
	w := httptest.NewRecorder()
	target.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ImportResponse{Cards: 2, Folders: 1}, decode[ImportResponse](t, w))

	w = target.do(t, http.MethodGet, "/api/cards?folder=all", nil)
	cards := decode[[]CardResponse](t, w)
	require.Len(t, cards, 2)
	assert.Equal(t, "a", cards[0].ID)
}

func TestImportBackupRejectsBadDocuments(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testCard("a", "casa", testNow))

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"cards":`},
		{"missing user", `{"cards":[],"folders":[{"id":"default","name":"Общее"}]}`},
		{"missing folders", `{"cards":[{"id":"x","originalTerm":"mar"}],"user":{"xp":0}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := env.do(t, http.MethodPost, "/api/backup", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	w := env.do(t, http.MethodGet, "/api/cards?folder=all", nil)
	cards := decode[[]CardResponse](t, w)
	require.Len(t, cards, 1)
	assert.True(t, strings.EqualFold("casa", cards[0].OriginalTerm))
}
