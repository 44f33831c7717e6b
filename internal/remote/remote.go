// ABOUTME: Remote durable store contract consumed by the sync core
// ABOUTME: Defines the Store interface over per-collection documents and live snapshot feeds

package remote

import (
	"context"

	"github.com/castline/castline/internal/document"
)

// Store is the contract every remote durable store implementation satisfies.
// A Store holds named collections of documents keyed by id and pushes full
// collection snapshots to subscribers on every change.
//
// Implementations: MemoryStore (in-process, used by tests and single-process
// deployments) and client.Remote (HTTP + SSE against castline-server).
type Store interface {
	// FetchAll returns every document currently in the collection. A failure
	// reaching the store surfaces as *TransportError.
	FetchAll(ctx context.Context, collection string) ([]document.Document, error)

	// Set merge-upserts a single document. Fields present in doc overwrite
	// the stored document's fields; fields not present are preserved. The
	// store stamps an authoritative updatedAt as part of the write.
	Set(ctx context.Context, collection, id string, doc document.Document) error

	// Delete removes a document. Deleting an id that does not exist is not
	// an error.
	Delete(ctx context.Context, collection, id string) error

	// Subscribe registers a live feed callback for a collection. The callback
	// is invoked once immediately with the current full snapshot, then again
	// with the complete collection state after every change. The returned
	// cancel function tears the subscription down and is safe to call more
	// than once.
	Subscribe(collection string, fn func([]document.Document)) (cancel func(), err error)

	// Close releases the store and tears down all subscriptions.
	Close() error
}
