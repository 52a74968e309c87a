package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryStore()

	_, err := m.Get(ctx, KeyCards)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.PutAll(ctx, []Record{
		{Key: KeyCards, Value: []byte(`[]`)},
		{Key: KeyUser, Value: []byte(`{"xp":1}`)},
	}))

	value, err := m.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.JSONEq(t, `{"xp":1}`, string(value))

	// invalid records abort the whole batch
	err = m.PutAll(ctx, []Record{
		{Key: KeyUser, Value: []byte(`{"xp":2}`)},
		{Key: KeyFolders, Value: []byte(`{broken`)},
	})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	value, err = m.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.JSONEq(t, `{"xp":1}`, string(value))

	assert.NoError(t, m.Close())
}
