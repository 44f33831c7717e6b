// ABOUTME: Tests for the snapshot fan-out broadcaster
// ABOUTME: Covers seeded delivery, conflation, unsubscribe, close, and panic recovery

package remote

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castline/castline/internal/document"
)

func snapshotOf(ids ...string) []document.Document {
	out := make([]document.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, document.Document{document.FieldID: id})
	}
	return out
}

func collectSnapshots(ch chan []document.Document) func([]document.Document) {
	return func(snap []document.Document) {
		ch <- snap
	}
}

func TestBroadcaster_SubscriberReceivesInitialSnapshot(t *testing.T) {
	b := NewSnapshotBroadcaster(nil)
	defer b.Close()

	ch := make(chan []document.Document, 8)
	cancel := b.Subscribe("projects", snapshotOf("p-1", "p-2"), collectSnapshots(ch))
	defer cancel()

	select {
	case snap := <-ch:
		require.Len(t, snap, 2)
		assert.Equal(t, "p-1", snap[0][document.FieldID])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}
}

func TestBroadcaster_PublishReachesAllSubscribers(t *testing.T) {
	b := NewSnapshotBroadcaster(nil)
	defer b.Close()

	ch1 := make(chan []document.Document, 8)
	ch2 := make(chan []document.Document, 8)
	defer b.Subscribe("projects", nil, collectSnapshots(ch1))()
	defer b.Subscribe("projects", nil, collectSnapshots(ch2))()

	// Drain the seeded nil snapshots first.
	<-ch1
	<-ch2

	b.Publish("projects", snapshotOf("p-1"))

	for _, ch := range []chan []document.Document{ch1, ch2} {
		select {
		case snap := <-ch:
			require.Len(t, snap, 1)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for published snapshot")
		}
	}
}

func TestBroadcaster_PublishIsScopedToCollection(t *testing.T) {
	b := NewSnapshotBroadcaster(nil)
	defer b.Close()

	ch := make(chan []document.Document, 8)
	defer b.Subscribe("projects", nil, collectSnapshots(ch))()
	<-ch

	b.Publish("strandLibrary", snapshotOf("s-1"))

	select {
	case <-ch:
		t.Fatal("received snapshot for a different collection")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcaster_SlowSubscriberSkipsToLatest(t *testing.T) {
	b := NewSnapshotBroadcaster(nil)
	defer b.Close()

	release := make(chan struct{})
	var mu sync.Mutex
	var seen [][]document.Document

	cancel := b.Subscribe("projects", nil, func(snap []document.Document) {
		<-release
		mu.Lock()
		seen = append(seen, snap)
		mu.Unlock()
	})
	defer cancel()

	// While the subscriber is blocked on the seeded snapshot, publish several
	// newer ones. Conflation means only the newest survives in the mailbox.
	b.Publish("projects", snapshotOf("p-1"))
	b.Publish("projects", snapshotOf("p-1", "p-2"))
	b.Publish("projects", snapshotOf("p-1", "p-2", "p-3"))
	close(release)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		if len(seen) == 0 {
			return false
		}
		last := seen[len(seen)-1]
		return len(last) == 3
	}, time.Second, 10*time.Millisecond, "latest snapshot should arrive")

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, len(seen), 3, "intermediate snapshots should be conflated")
}

func TestBroadcaster_CancelStopsDelivery(t *testing.T) {
	b := NewSnapshotBroadcaster(nil)
	defer b.Close()

	ch := make(chan []document.Document, 8)
	cancel := b.Subscribe("projects", nil, collectSnapshots(ch))
	<-ch

	cancel()
	assert.Equal(t, 0, b.SubscriberCount("projects"))

	b.Publish("projects", snapshotOf("p-1"))
	select {
	case <-ch:
		t.Fatal("received snapshot after cancel")
	case <-time.After(100 * time.Millisecond):
	}

	// Cancel is idempotent.
	cancel()
}

func TestBroadcaster_CloseRemovesEverything(t *testing.T) {
	b := NewSnapshotBroadcaster(nil)

	ch := make(chan []document.Document, 8)
	b.Subscribe("projects", nil, collectSnapshots(ch))
	b.Subscribe("contacts", nil, collectSnapshots(ch))

	b.Close()
	assert.Equal(t, 0, b.SubscriberCount("projects"))
	assert.Equal(t, 0, b.SubscriberCount("contacts"))

	// Subscribing after close is a no-op that still returns a usable cancel.
	cancel := b.Subscribe("projects", nil, collectSnapshots(ch))
	cancel()
	assert.Equal(t, 0, b.SubscriberCount("projects"))
}

func TestBroadcaster_CallbackPanicDoesNotKillFeed(t *testing.T) {
	b := NewSnapshotBroadcaster(nil)
	defer b.Close()

	var calls atomic.Int32
	done := make(chan struct{})
	cancel := b.Subscribe("projects", nil, func(snap []document.Document) {
		if calls.Add(1) == 1 {
			panic("bad callback")
		}
		close(done)
	})
	defer cancel()

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	b.Publish("projects", snapshotOf("p-1"))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("delivery stopped after a callback panic")
	}
}
