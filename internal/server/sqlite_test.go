// ABOUTME: Tests for the SQLite document store
// ABOUTME: Covers CRUD, not-found, collection listing, and on-disk persistence

package server

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castline/castline/internal/document"
)

func TestSQLiteStore_PutGetDelete(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := t.Context()

	doc := document.Document{
		"id":        "p-1",
		"name":      "Overpass",
		"updatedAt": int64(1700000000000),
	}
	require.NoError(t, store.Put(ctx, "projects", "p-1", doc))

	got, err := store.Get(ctx, "projects", "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Overpass", got["name"])
	assert.Equal(t, float64(1700000000000), got["updatedAt"], "JSON round-trip yields float64")

	// Put replaces the whole document.
	require.NoError(t, store.Put(ctx, "projects", "p-1", document.Document{"id": "p-1", "status": "done"}))
	got, err = store.Get(ctx, "projects", "p-1")
	require.NoError(t, err)
	_, ok := got["name"]
	assert.False(t, ok, "Put is whole-document, merge is the server's job")

	require.NoError(t, store.Delete(ctx, "projects", "p-1"))
	_, err = store.Get(ctx, "projects", "p-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an unknown id is a no-op.
	require.NoError(t, store.Delete(ctx, "projects", "ghost"))
}

func TestSQLiteStore_ListOrdersByID(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := t.Context()

	require.NoError(t, store.Put(ctx, "projects", "p-2", document.Document{"id": "p-2"}))
	require.NoError(t, store.Put(ctx, "projects", "p-1", document.Document{"id": "p-1"}))
	require.NoError(t, store.Put(ctx, "contacts", "c-1", document.Document{"id": "c-1"}))

	docs, err := store.List(ctx, "projects")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p-1", docs[0]["id"])
	assert.Equal(t, "p-2", docs[1]["id"])

	empty, err := store.List(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteStore_Collections(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := t.Context()

	require.NoError(t, store.Put(ctx, "strandLibrary", "s-1", document.Document{"id": "s-1"}))
	require.NoError(t, store.Put(ctx, "projects", "p-1", document.Document{"id": "p-1"}))

	names, err := store.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"projects", "strandLibrary"}, names)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "castline.db")
	ctx := t.Context()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "projects", "p-1", document.Document{"id": "p-1", "name": "A"}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "projects", "p-1")
	require.NoError(t, err)
	assert.Equal(t, "A", got["name"])
}
