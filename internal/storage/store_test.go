package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_getMissing(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.GetDescription("no-such-hash")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSQLiteStore_setAndGet(t *testing.T) {
	store := newTestStore(t)

	err := store.SetDescription("hash-1", &CachedDescription{
		Description: "A sturdy oak chair.",
		Model:       "gpt-5.2",
	})
	require.NoError(t, err)

	entry, err := store.GetDescription("hash-1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "A sturdy oak chair.", entry.Description)
	assert.Equal(t, "gpt-5.2", entry.Model)
}

func TestSQLiteStore_upsert(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetDescription("hash-1", &CachedDescription{Description: "first"}))
	require.NoError(t, store.SetDescription("hash-1", &CachedDescription{Description: "second", Model: "m2"}))

	entry, err := store.GetDescription("hash-1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "second", entry.Description)
	assert.Equal(t, "m2", entry.Model)
}

func TestSQLiteStore_reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SetDescription("hash-1", &CachedDescription{Description: "persisted"}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	entry, err := reopened.GetDescription("hash-1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "persisted", entry.Description)
}
