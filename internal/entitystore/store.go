// ABOUTME: Generic optimistic local-first entity store, one instance per data domain
// ABOUTME: Initialize-once cache, optimistic mutation with rollback, feed-supremacy snapshots

package entitystore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/castline/castline/internal/document"
	"github.com/castline/castline/internal/remote"
	"github.com/castline/castline/internal/synced"
)

// ErrNotFound is returned when an operation that must produce an entity
// targets an id absent from the cache.
var ErrNotFound = errors.New("entity not found")

// ErrDuplicateID is returned when Add is given an entity whose id is already
// present in the cache.
var ErrDuplicateID = errors.New("entity id already exists")

// Config parameterizes a Store for one data domain. Collection is required;
// every other field has a sensible default built on Name.
type Config[T Entity] struct {
	// Collection is the remote collection name.
	Collection string

	// Name returns the entity's display name. Required: it feeds the default
	// sort key, the default search text, and Duplicate's "(Copy)" marker.
	Name func(T) string

	// NameField is the document field holding the display name. Defaults to
	// "name".
	NameField string

	// SortKey orders GetAll and Search results. Defaults to Name,
	// case-insensitively.
	SortKey func(T) string

	// SearchText returns the field values Search matches against. Defaults
	// to the display name only.
	SearchText func(T) []string

	// Complete is the domain's completeness predicate, used purely for UI
	// signaling. Defaults to "display name is non-empty".
	Complete func(T) bool

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Store is the generic per-domain entity store. It maintains a local cache of
// the remote collection, applies mutations optimistically with rollback on
// transport failure, and replaces the cache wholesale on every live feed
// delivery (feed supremacy).
//
// Reads never touch the network. Mutating calls update the cache before the
// remote round-trip, so the change is visible to other readers immediately;
// on failure the pre-mutation value is restored and the error re-raised.
type Store[T Entity] struct {
	cfg  Config[T]
	coll *synced.Collection[T]
	log  *slog.Logger

	mu          sync.RWMutex
	cache       map[string]T
	loading     bool
	initialized bool
	unsubscribe func()
}

// New creates a Store for one domain over the given remote store. The store
// is inert until Initialize is called.
func New[T Entity](rs remote.Store, cfg Config[T]) *Store[T] {
	if cfg.Collection == "" {
		panic("entitystore: Config.Collection is required")
	}
	if cfg.Name == nil {
		panic("entitystore: Config.Name is required")
	}
	if cfg.NameField == "" {
		cfg.NameField = "name"
	}
	if cfg.SortKey == nil {
		cfg.SortKey = cfg.Name
	}
	if cfg.SearchText == nil {
		name := cfg.Name
		cfg.SearchText = func(e T) []string { return []string{name(e)} }
	}
	if cfg.Complete == nil {
		name := cfg.Name
		cfg.Complete = func(e T) bool { return strings.TrimSpace(name(e)) != "" }
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	log := cfg.Logger.With("component", "entitystore", "collection", cfg.Collection)
	return &Store[T]{
		cfg:   cfg,
		coll:  synced.New[T](rs, cfg.Collection, cfg.Logger),
		log:   log,
		cache: make(map[string]T),
	}
}

// Initialize performs the one-time bulk fetch and opens the live feed
// subscription. Calling it again while loading or after success is a no-op;
// UI components may call it from multiple mount points. On fetch failure the
// store stays uninitialized so a later call can retry.
func (s *Store[T]) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized || s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	items, err := s.coll.FetchAll(ctx)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return fmt.Errorf("initializing %s: %w", s.cfg.Collection, err)
	}

	s.mu.Lock()
	s.cache = make(map[string]T, len(items))
	for _, item := range items {
		s.cache[item.EntityID()] = item
	}
	s.initialized = true
	s.loading = false
	s.mu.Unlock()

	unsub, err := s.coll.Subscribe(s.applySnapshot)
	if err != nil {
		// The cache is populated; the store is usable without a feed. Log
		// and carry on rather than failing initialization.
		s.log.Warn("live feed unavailable", "error", err)
		return nil
	}
	s.mu.Lock()
	s.unsubscribe = unsub
	s.mu.Unlock()
	return nil
}

// applySnapshot replaces the entire cache with a feed-delivered snapshot.
// The feed is always authoritative over whatever the cache holds at delivery
// time, including entries the snapshot no longer contains.
func (s *Store[T]) applySnapshot(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = make(map[string]T, len(items))
	for _, item := range items {
		s.cache[item.EntityID()] = item
	}
}

// Add stamps identity and timestamps, inserts the entity into the cache, then
// writes it to the remote store. On transport failure the id is removed again
// (the id did not exist before, so rollback is deletion) and the error
// returned. The stored entity, with id and stamps applied, is returned.
func (s *Store[T]) Add(ctx context.Context, entity T) (T, error) {
	var zero T

	doc, err := document.Encode(entity)
	if err != nil {
		return zero, err
	}
	id := entity.EntityID()
	if id == "" {
		id = uuid.NewString()
	}
	now := document.NowMillis()
	doc[document.FieldID] = id
	doc[document.FieldCreatedAt] = now
	doc[document.FieldUpdatedAt] = now

	stored, err := document.Decode[T](doc)
	if err != nil {
		return zero, err
	}

	s.mu.Lock()
	if _, exists := s.cache[id]; exists {
		s.mu.Unlock()
		return zero, fmt.Errorf("adding to %s: %w", s.cfg.Collection, ErrDuplicateID)
	}
	s.cache[id] = stored
	s.mu.Unlock()

	if err := s.coll.Set(ctx, id, doc); err != nil {
		s.mu.Lock()
		delete(s.cache, id)
		s.mu.Unlock()
		return zero, err
	}
	return stored, nil
}

// Update applies a partial document to an existing entity: optimistic local
// merge with a fresh updatedAt, then a remote merge upsert of the patch. If
// the id is not cached the call is a silent no-op (the UI should not have
// offered the action). On transport failure the captured pre-mutation value
// is restored verbatim and the error returned.
func (s *Store[T]) Update(ctx context.Context, id string, patch document.Document) error {
	patch = document.Clone(patch)
	delete(patch, document.FieldID)
	delete(patch, document.FieldCreatedAt)
	patch[document.FieldUpdatedAt] = document.NowMillis()

	s.mu.Lock()
	prev, ok := s.cache[id]
	if !ok {
		s.mu.Unlock()
		s.log.Debug("update on unknown id ignored", "id", id)
		return nil
	}
	base, err := document.Encode(prev)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next, err := document.Decode[T](document.Merge(base, patch))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.cache[id] = next
	s.mu.Unlock()

	if err := s.coll.Set(ctx, id, patch); err != nil {
		s.mu.Lock()
		s.cache[id] = prev
		s.mu.Unlock()
		return err
	}
	return nil
}

// Delete removes the entity from the cache, then from the remote store. An
// unknown id is a silent no-op. On transport failure the captured value is
// re-inserted and the error returned.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	prev, ok := s.cache[id]
	if !ok {
		s.mu.Unlock()
		s.log.Debug("delete on unknown id ignored", "id", id)
		return nil
	}
	delete(s.cache, id)
	s.mu.Unlock()

	if err := s.coll.Delete(ctx, id); err != nil {
		s.mu.Lock()
		s.cache[id] = prev
		s.mu.Unlock()
		return err
	}
	return nil
}

// Get returns the cached entity for id. Pure cache read, no I/O.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.cache[id]
	return e, ok
}

// GetAll returns every cached entity sorted by the domain sort key,
// case-insensitively.
func (s *Store[T]) GetAll() []T {
	s.mu.RLock()
	out := make([]T, 0, len(s.cache))
	for _, e := range s.cache {
		out = append(out, e)
	}
	s.mu.RUnlock()

	s.sortByKey(out)
	return out
}

// Search returns the entities where at least one searchable field contains
// query, case-insensitively. An empty or whitespace query returns the full
// sorted list.
func (s *Store[T]) Search(query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.GetAll()
	}

	s.mu.RLock()
	out := make([]T, 0)
	for _, e := range s.cache {
		for _, field := range s.cfg.SearchText(e) {
			if strings.Contains(strings.ToLower(field), q) {
				out = append(out, e)
				break
			}
		}
	}
	s.mu.RUnlock()

	s.sortByKey(out)
	return out
}

// IsComplete reports whether the entity satisfies the domain's completeness
// predicate. Unknown ids are incomplete. Used purely for UI badges; has no
// effect on persistence.
func (s *Store[T]) IsComplete(id string) bool {
	e, ok := s.Get(id)
	if !ok {
		return false
	}
	return s.cfg.Complete(e)
}

// ToggleFavorite flips the entity's favorite flag with the same optimistic
// and rollback discipline as Update.
func (s *Store[T]) ToggleFavorite(ctx context.Context, id string) error {
	e, ok := s.Get(id)
	if !ok {
		return nil
	}
	return s.Update(ctx, id, document.Document{
		document.FieldIsFavorite: !e.EntityMeta().IsFavorite,
	})
}

// TrackAccess stamps the entity's last-accessed time. Failures are logged,
// not returned: losing a "last viewed" timestamp is not user-visible-critical.
func (s *Store[T]) TrackAccess(ctx context.Context, id string) {
	err := s.Update(ctx, id, document.Document{
		document.FieldLastAccessedAt: document.NowMillis(),
	})
	if err != nil {
		s.log.Warn("access tracking failed", "id", id, "error", err)
	}
}

// Favorites returns the cached entities flagged favorite, in sort-key order.
func (s *Store[T]) Favorites() []T {
	s.mu.RLock()
	out := make([]T, 0)
	for _, e := range s.cache {
		if e.EntityMeta().IsFavorite {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	s.sortByKey(out)
	return out
}

// RecentlyUsed returns up to limit entities that have a last-accessed stamp,
// most recent first. A negative limit returns all of them.
func (s *Store[T]) RecentlyUsed(limit int) []T {
	s.mu.RLock()
	out := make([]T, 0)
	for _, e := range s.cache {
		if e.EntityMeta().LastAccessedAt > 0 {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].EntityMeta().LastAccessedAt > out[j].EntityMeta().LastAccessedAt
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Duplicate copies an existing entity under a new identity: fresh id, reset
// timestamps, favorite and access markers cleared, and " (Copy)" appended to
// the display name. The copy routes through Add, so it carries the same
// optimistic-rollback guarantee as any other creation.
func (s *Store[T]) Duplicate(ctx context.Context, id string) (T, error) {
	var zero T

	src, ok := s.Get(id)
	if !ok {
		return zero, fmt.Errorf("duplicating in %s: %w", s.cfg.Collection, ErrNotFound)
	}
	doc, err := document.Encode(src)
	if err != nil {
		return zero, err
	}
	doc[document.FieldID] = uuid.NewString()
	doc[s.cfg.NameField] = s.cfg.Name(src) + " (Copy)"
	delete(doc, document.FieldCreatedAt)
	delete(doc, document.FieldUpdatedAt)
	delete(doc, document.FieldIsFavorite)
	delete(doc, document.FieldLastAccessedAt)

	copyEntity, err := document.Decode[T](doc)
	if err != nil {
		return zero, err
	}
	return s.Add(ctx, copyEntity)
}

// Loading reports whether the initial fetch is in flight.
func (s *Store[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Initialized reports whether the initial fetch has completed.
func (s *Store[T]) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Len returns the number of cached entities.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// Cleanup tears down the live feed subscription and resets the store to its
// pre-initialize state so a later Initialize starts fresh. Safe to call more
// than once. In-flight mutations are not cancelled.
func (s *Store[T]) Cleanup() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.initialized = false
	s.loading = false
	s.cache = make(map[string]T)
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	s.coll.Cleanup()
}

// sortByKey orders entities by the domain sort key, case-insensitively, with
// id as the tie-breaker for deterministic output.
func (s *Store[T]) sortByKey(items []T) {
	sort.Slice(items, func(i, j int) bool {
		a := strings.ToLower(s.cfg.SortKey(items[i]))
		b := strings.ToLower(s.cfg.SortKey(items[j]))
		if a != b {
			return a < b
		}
		return items[i].EntityID() < items[j].EntityID()
	})
}
