package api

import (
	"net/http"
	"testing"

	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testCard("c1", "casa", testNow), testCard("c2", "mesa", testNow))

	w := env.do(t, http.MethodGet, "/api/folders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	folders := decode[[]FolderResponse](t, w)
	require.Len(t, folders, 1)
	assert.Equal(t, domain.DefaultFolderID, folders[0].ID)
	assert.True(t, folders[0].IsDefault)
	assert.Equal(t, 2, folders[0].CardCount)

	w = env.do(t, http.MethodPost, "/api/folders", FolderRequest{Name: " Дом "})
	require.Equal(t, http.StatusCreated, w.Code)
	home := decode[FolderResponse](t, w)
	assert.Equal(t, "Дом", home.Name)

	w = env.do(t, http.MethodPost, "/api/folders", FolderRequest{Name: "Дом"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, home.ID, decode[FolderResponse](t, w).ID)

	w = env.do(t, http.MethodPut, "/api/folders/"+home.ID, FolderRequest{Name: "Квартира"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Квартира", decode[FolderResponse](t, w).Name)

	w = env.do(t, http.MethodPost, "/api/cards/c1/folders/"+home.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/cards/c1/folders/"+domain.DefaultFolderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{home.ID}, decode[CardResponse](t, w).FolderIDs)

	w = env.do(t, http.MethodDelete, "/api/folders/"+home.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/cards?folder="+domain.DefaultFolderID, nil)
	assert.Len(t, decode[[]CardResponse](t, w), 2)
}

func TestFolderErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"blank name", http.MethodPost, "/api/folders", FolderRequest{Name: "   "}, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/api/folders", FolderRequest{}, http.StatusBadRequest},
		{"rename unknown", http.MethodPut, "/api/folders/nope", FolderRequest{Name: "x"}, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/api/folders/nope", nil, http.StatusNotFound},
		{"delete default", http.MethodDelete, "/api/folders/" + domain.DefaultFolderID, nil, http.StatusConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := env.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}
