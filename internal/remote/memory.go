// ABOUTME: In-memory Store implementation with live snapshot fan-out
// ABOUTME: Used by tests and by single-process deployments without a server

package remote

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/castline/castline/internal/document"
)

// MemoryStore is an in-memory Store implementation. It applies the same
// merge-upsert and server-stamped updatedAt semantics as castline-server, so
// code exercised against it behaves identically against the real thing.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]document.Document
	broadcaster *SnapshotBroadcaster
	closed      bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]document.Document),
		broadcaster: NewSnapshotBroadcaster(slog.Default()),
	}
}

// FetchAll returns a copy of every document in the collection, ordered by id.
func (m *MemoryStore) FetchAll(ctx context.Context, collection string) ([]document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewTransportError("fetch_all", collection, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked(collection), nil
}

// Set merge-upserts a document and stamps an authoritative updatedAt, then
// broadcasts the collection's new snapshot.
func (m *MemoryStore) Set(ctx context.Context, collection, id string, doc document.Document) error {
	if err := ctx.Err(); err != nil {
		return NewTransportError("set", collection, err)
	}

	m.mu.Lock()
	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string]document.Document)
		m.collections[collection] = docs
	}
	base := docs[id]
	if base == nil {
		base = document.Document{}
	}
	merged := document.Merge(base, doc)
	merged[document.FieldID] = id
	merged[document.FieldUpdatedAt] = document.NowMillis()
	docs[id] = merged
	// Publish while holding the lock: publishes are cheap (conflating
	// mailboxes, no callbacks run here) and holding the lock keeps snapshot
	// delivery in write order.
	m.broadcaster.Publish(collection, m.snapshotLocked(collection))
	m.mu.Unlock()
	return nil
}

// Delete removes a document and broadcasts the collection's new snapshot.
// Deleting an unknown id is a no-op.
func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return NewTransportError("delete", collection, err)
	}

	m.mu.Lock()
	docs, ok := m.collections[collection]
	if ok {
		delete(docs, id)
	}
	m.broadcaster.Publish(collection, m.snapshotLocked(collection))
	m.mu.Unlock()
	return nil
}

// Subscribe registers a live feed callback. The current snapshot is delivered
// immediately, then again after every change. Registration happens under the
// store lock so the initial snapshot and subsequent pushes arrive in order.
func (m *MemoryStore) Subscribe(collection string, fn func([]document.Document)) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, NewTransportError("subscribe", collection, ErrStoreClosed)
	}
	cancel := m.broadcaster.Subscribe(collection, m.snapshotLocked(collection), fn)
	return cancel, nil
}

// Collections returns the names of all non-empty collections, sorted.
func (m *MemoryStore) Collections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.collections))
	for name, docs := range m.collections {
		if len(docs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Close tears down all subscriptions. Safe to call more than once.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.broadcaster.Close()
	return nil
}

// snapshotLocked copies the collection's documents, ordered by id for
// deterministic delivery. Caller must hold at least a read lock.
func (m *MemoryStore) snapshotLocked(collection string) []document.Document {
	docs := m.collections[collection]
	out := make([]document.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, document.Clone(doc))
	}
	sort.Slice(out, func(i, j int) bool {
		iid, _ := out[i][document.FieldID].(string)
		jid, _ := out[j][document.FieldID].(string)
		return iid < jid
	})
	return out
}
