// ABOUTME: Integration tests for the HTTP remote store client
// ABOUTME: Runs against an in-process castline-server over httptest

package client

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castline/castline/internal/document"
	"github.com/castline/castline/internal/remote"
	"github.com/castline/castline/internal/server"
)

func newServerAndClient(t *testing.T) *Remote {
	t.Helper()
	store, err := server.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := server.New(store, server.Options{HeartbeatInterval: 50 * time.Millisecond})
	t.Cleanup(srv.Close)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	r := New(ts.URL, Options{})
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRemote_SetFetchDeleteRoundTrip(t *testing.T) {
	r := newServerAndClient(t)
	ctx := t.Context()

	require.NoError(t, r.Set(ctx, "projects", "p-1", document.Document{"name": "Overpass"}))
	require.NoError(t, r.Set(ctx, "projects", "p-2", document.Document{"name": "Culvert"}))

	docs, err := r.FetchAll(ctx, "projects")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p-1", docs[0][document.FieldID])
	assert.Equal(t, "Overpass", docs[0]["name"])
	assert.NotNil(t, docs[0][document.FieldUpdatedAt], "server stamps updatedAt")

	// Set is a merge patch.
	require.NoError(t, r.Set(ctx, "projects", "p-1", document.Document{"status": "active"}))
	docs, err = r.FetchAll(ctx, "projects")
	require.NoError(t, err)
	assert.Equal(t, "Overpass", docs[0]["name"])
	assert.Equal(t, "active", docs[0]["status"])

	require.NoError(t, r.Delete(ctx, "projects", "p-1"))
	docs, err = r.FetchAll(ctx, "projects")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "p-2", docs[0][document.FieldID])
}

func TestRemote_Collections(t *testing.T) {
	r := newServerAndClient(t)
	ctx := t.Context()

	require.NoError(t, r.Set(ctx, "strandLibrary", "s-1", document.Document{"name": "A"}))
	require.NoError(t, r.Set(ctx, "projects", "p-1", document.Document{"name": "B"}))

	names, err := r.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"projects", "strandLibrary"}, names)
}

func TestRemote_SubscribeDeliversInitialThenLive(t *testing.T) {
	r := newServerAndClient(t)
	ctx := t.Context()

	require.NoError(t, r.Set(ctx, "projects", "p-1", document.Document{"name": "A"}))

	ch := make(chan []document.Document, 8)
	cancel, err := r.Subscribe("projects", func(docs []document.Document) {
		ch <- docs
	})
	require.NoError(t, err)
	defer cancel()

	select {
	case snap := <-ch:
		require.Len(t, snap, 1)
		assert.Equal(t, "p-1", snap[0][document.FieldID])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	require.NoError(t, r.Set(ctx, "projects", "p-2", document.Document{"name": "B"}))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if len(snap) == 2 {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for live snapshot")
		}
	}
}

func TestRemote_SubscribeCancelStopsDelivery(t *testing.T) {
	r := newServerAndClient(t)
	ctx := t.Context()

	ch := make(chan []document.Document, 8)
	cancel, err := r.Subscribe("projects", func(docs []document.Document) {
		ch <- docs
	})
	require.NoError(t, err)
	<-ch

	cancel()
	cancel() // idempotent

	// Give the feed goroutine a moment to wind down, then mutate.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, r.Set(ctx, "projects", "p-1", document.Document{"name": "A"}))

	select {
	case <-ch:
		t.Fatal("received snapshot after cancel")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRemote_UnreachableServerIsTransportError(t *testing.T) {
	r := New("http://127.0.0.1:1", Options{})
	defer r.Close()
	ctx := t.Context()

	_, err := r.FetchAll(ctx, "projects")
	require.Error(t, err)
	assert.True(t, remote.IsTransport(err))

	err = r.Set(ctx, "projects", "p-1", document.Document{"name": "A"})
	require.Error(t, err)
	assert.True(t, remote.IsTransport(err))

	err = r.Delete(ctx, "projects", "p-1")
	require.Error(t, err)
	assert.True(t, remote.IsTransport(err))

	_, err = r.Subscribe("projects", func([]document.Document) {})
	require.Error(t, err)
	assert.True(t, remote.IsTransport(err))
}
