// ABOUTME: Server-side document store interface and shared errors
// ABOUTME: Persistence contract behind the castline-server HTTP API

package server

import (
	"context"
	"errors"

	"github.com/castline/castline/internal/document"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the persistence contract behind the server API. It stores
// whole documents; merge semantics are applied by the server before Put.
type DocumentStore interface {
	// List returns every document in the collection, ordered by id.
	List(ctx context.Context, collection string) ([]document.Document, error)

	// Get returns a single document, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (document.Document, error)

	// Put inserts or replaces a whole document.
	Put(ctx context.Context, collection, id string, doc document.Document) error

	// Delete removes a document. Unknown ids are a no-op.
	Delete(ctx context.Context, collection, id string) error

	// Collections returns the names of all collections holding documents.
	Collections(ctx context.Context) ([]string, error)

	Close() error
}
