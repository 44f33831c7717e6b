// Package entitystore provides the generic per-domain entity store built on
// the synced-collection primitive. One Store instance backs one data domain.
//
// # Lifecycle
//
// A Store starts inert. Initialize performs the one-time bulk fetch, marks
// the store initialized, and opens the live feed; repeated calls are no-ops,
// so UI components may initialize from multiple mount points. Cleanup tears
// the feed down and resets the store.
//
// # Optimistic mutation
//
// Every mutating operation follows the same discipline:
//
//  1. Capture the pre-mutation cache value.
//  2. Apply the change to the cache synchronously — readers see it at once.
//  3. Perform the remote call.
//  4. On transport failure, restore the captured value verbatim and return
//     the error so the UI can surface it. Nothing is retried automatically.
//
// Mutations targeting an id absent from the cache are silent no-ops: the UI
// should not have offered the action, and it is not an error state.
//
// # Feed supremacy
//
// Every live feed delivery replaces the entire cache with the pushed
// snapshot, including removing cached entries the snapshot no longer
// contains. This is the system's concurrency resolution rule: a push
// delivered after an optimistic write is presumed newer and wins. Two known
// inconsistency windows follow from it and are accepted rather than solved:
// a rollback may restore a value staler than a snapshot the feed delivered
// while the mutation was in flight, and two concurrent mutations of the same
// id may stomp each other's rollback snapshots.
//
// # Derived queries
//
// GetAll, Search, Favorites, RecentlyUsed, IsComplete and Duplicate are
// parameterized per domain through Config: a display-name accessor, sort key,
// searchable fields, and a completeness predicate. The predicates drive UI
// badges only and never affect persistence.
package entitystore
