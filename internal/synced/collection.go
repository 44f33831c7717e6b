// ABOUTME: Typed synced-collection primitive wrapping one remote collection
// ABOUTME: Handles bulk fetch, live feed subscription, sanitizing upserts, and deletes

package synced

import (
	"context"
	"log/slog"
	"sync"

	"github.com/castline/castline/internal/document"
	"github.com/castline/castline/internal/remote"
)

// Collection is the only component that talks to the remote store for a given
// collection name. It translates between typed entities and wire documents,
// strips absent values before transmission, and owns the collection's live
// feed subscription handle.
type Collection[T any] struct {
	store  remote.Store
	name   string
	logger *slog.Logger

	mu     sync.Mutex
	cancel func() // active subscription teardown, nil when not subscribed
	gen    uint64 // identifies the active subscription
}

// New creates a Collection over the named remote collection. Pass nil logger
// for default.
func New[T any](store remote.Store, name string, logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T]{
		store:  store,
		name:   name,
		logger: logger.With("component", "synced", "collection", name),
	}
}

// Name returns the remote collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// FetchAll retrieves every entity currently in the collection. Documents that
// fail to decode are logged and skipped: one poison document must not take
// down the whole collection. The error, when non-nil, is a transport failure;
// callers treat it as "empty, try again later" rather than fatal.
func (c *Collection[T]) FetchAll(ctx context.Context) ([]T, error) {
	docs, err := c.store.FetchAll(ctx, c.name)
	if err != nil {
		return nil, err
	}
	return c.decodeAll(docs), nil
}

// Set merge-upserts a document. Absent-valued fields are stripped recursively
// before transmission; the remote store rejects them. No internal retries —
// retry policy belongs to the caller.
func (c *Collection[T]) Set(ctx context.Context, id string, doc document.Document) error {
	clean := document.Sanitize(doc)
	clean[document.FieldID] = id
	return c.store.Set(ctx, c.name, id, clean)
}

// Delete removes a document from the remote collection.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

// Subscribe registers a live feed callback, invoked once immediately with the
// current collection state and again after every remote change. Deliveries
// are always full snapshots. The returned teardown function is single-use and
// idempotent. Subscribing again replaces any previous subscription.
func (c *Collection[T]) Subscribe(fn func([]T)) (func(), error) {
	cancel, err := c.store.Subscribe(c.name, func(docs []document.Document) {
		fn(c.decodeAll(docs))
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.teardown(gen, cancel)
		})
	}, nil
}

// Cleanup disposes the active subscription, if any. Safe to call repeatedly.
func (c *Collection[T]) Cleanup() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// teardown cancels a specific subscription and clears the handle if it is
// still the active one.
func (c *Collection[T]) teardown(gen uint64, cancel func()) {
	c.mu.Lock()
	if c.gen == gen {
		c.cancel = nil
	}
	c.mu.Unlock()
	cancel()
}

// decodeAll converts wire documents into entities, skipping any that do not
// decode.
func (c *Collection[T]) decodeAll(docs []document.Document) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		entity, err := document.Decode[T](doc)
		if err != nil {
			c.logger.Warn("skipping undecodable document",
				"id", doc[document.FieldID],
				"error", err)
			continue
		}
		out = append(out, entity)
	}
	return out
}
