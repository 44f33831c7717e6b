// ABOUTME: Tests for the local badger key-value store and calculation history
// ABOUTME: Uses in-memory badger, with one on-disk reopen check

package persist

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PutGetDelete(t *testing.T) {
	s := openStore(t)

	type prefs struct {
		DefaultBed string `json:"defaultBed"`
		UseMetric  bool   `json:"useMetric"`
	}

	require.NoError(t, s.Put("prefs", prefs{DefaultBed: "3", UseMetric: false}))

	var got prefs
	require.NoError(t, s.Get("prefs", &got))
	assert.Equal(t, "3", got.DefaultBed)

	require.NoError(t, s.Delete("prefs"))
	err := s.Get("prefs", &got)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting a missing key is a no-op.
	require.NoError(t, s.Delete("prefs"))
}

func TestStore_HistoryPrependsAndCaps(t *testing.T) {
	s := openStore(t)

	// Empty store has empty history, not an error.
	recs, err := s.History()
	require.NoError(t, err)
	assert.Empty(t, recs)

	for i := 0; i < maxHistoryEntries+10; i++ {
		require.NoError(t, s.AppendHistory(CalcRecord{
			Calculator: "pull-force",
			Label:      fmt.Sprintf("run %d", i),
			Result:     float64(i),
		}))
	}

	recs, err = s.History()
	require.NoError(t, err)
	require.Len(t, recs, maxHistoryEntries, "history is capped")
	assert.Equal(t, fmt.Sprintf("run %d", maxHistoryEntries+9), recs[0].Label,
		"newest entry first")

	require.NoError(t, s.ClearHistory())
	recs, err = s.History()
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badger")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.AppendHistory(CalcRecord{Calculator: "camber", Label: "girder 12"}))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	recs, err := reopened.History()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "girder 12", recs[0].Label)
}
