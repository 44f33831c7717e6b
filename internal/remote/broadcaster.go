// ABOUTME: In-memory fan-out broadcaster for collection snapshot feeds
// ABOUTME: Delivers full snapshots to subscribers with latest-wins conflation per subscriber

package remote

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/castline/castline/internal/document"
)

// SnapshotBroadcaster provides in-memory pub/sub for collection snapshots.
// Subscribers register for a collection name and receive the complete current
// collection state after every change. Because deliveries are full snapshots,
// only the newest one matters: a slow subscriber skips intermediate states
// rather than queueing them.
type SnapshotBroadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]*subscriber // collection -> subID -> subscriber
	closed      bool
	logger      *slog.Logger
}

type subscriber struct {
	mailbox chan []document.Document
	done    chan struct{}
}

// NewSnapshotBroadcaster creates a broadcaster. Pass nil logger for default.
func NewSnapshotBroadcaster(logger *slog.Logger) *SnapshotBroadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotBroadcaster{
		subscribers: make(map[string]map[string]*subscriber),
		logger:      logger.With("component", "broadcaster"),
	}
}

// Subscribe registers fn for snapshots of the given collection and seeds the
// subscription with initial, which is delivered first. fn is invoked from a
// dedicated goroutine, one snapshot at a time. The returned cancel function
// removes the subscription and is safe to call more than once. A panic inside
// fn is logged and does not take down the feed.
//
// Callers must serialize Subscribe and Publish for a collection (the stores
// publish under their own lock); per-subscriber delivery order then matches
// publish order, so a subscriber can never observe a stale snapshot after a
// newer one.
func (b *SnapshotBroadcaster) Subscribe(collection string, initial []document.Document, fn func([]document.Document)) func() {
	sub := &subscriber{
		mailbox: make(chan []document.Document, 1),
		done:    make(chan struct{}),
	}
	subID := uuid.NewString()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.done)
		return func() {}
	}
	if _, ok := b.subscribers[collection]; !ok {
		b.subscribers[collection] = make(map[string]*subscriber)
	}
	b.subscribers[collection][subID] = sub
	b.mu.Unlock()

	sub.mailbox <- initial
	go b.deliver(collection, sub, fn)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.unsubscribe(collection, subID)
		})
	}
}

// deliver drains a subscriber's mailbox, invoking the callback outside any lock.
func (b *SnapshotBroadcaster) deliver(collection string, sub *subscriber, fn func([]document.Document)) {
	for {
		select {
		case <-sub.done:
			return
		case snapshot := <-sub.mailbox:
			b.invoke(collection, fn, snapshot)
		}
	}
}

func (b *SnapshotBroadcaster) invoke(collection string, fn func([]document.Document), snapshot []document.Document) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("feed callback panicked",
				"collection", collection,
				"panic", r)
		}
	}()
	fn(snapshot)
}

// Publish delivers a snapshot to every subscriber of the collection. The
// snapshot slice must not be mutated by the caller afterwards. Non-blocking:
// if a subscriber has not consumed the previous snapshot yet, it is replaced
// by the newer one.
func (b *SnapshotBroadcaster) Publish(collection string, snapshot []document.Document) {
	b.mu.RLock()
	subs := b.subscribers[collection]
	targets := make([]*subscriber, 0, len(subs))
	for _, sub := range subs {
		targets = append(targets, sub)
	}
	b.mu.RUnlock()

	for _, sub := range targets {
		for {
			select {
			case sub.mailbox <- snapshot:
			default:
				// Mailbox full: discard the stale snapshot and retry with
				// the newer one.
				select {
				case <-sub.mailbox:
				default:
				}
				continue
			}
			break
		}
	}
}

// SubscriberCount returns the number of active subscriptions for a collection.
func (b *SnapshotBroadcaster) SubscriberCount(collection string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[collection])
}

func (b *SnapshotBroadcaster) unsubscribe(collection, subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.subscribers[collection]
	if !ok {
		return
	}
	sub, ok := subs[subID]
	if !ok {
		return
	}
	delete(subs, subID)
	if len(subs) == 0 {
		delete(b.subscribers, collection)
	}
	close(sub.done)
}

// Close tears down every subscription. Publish becomes a no-op afterwards.
func (b *SnapshotBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for collection, subs := range b.subscribers {
		for _, sub := range subs {
			close(sub.done)
		}
		delete(b.subscribers, collection)
	}
}
