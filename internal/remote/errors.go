// ABOUTME: Transport error type for remote store failures
// ABOUTME: Wraps network/server errors so callers can trigger rollback uniformly

package remote

import (
	"errors"
	"fmt"
)

// ErrStoreClosed is returned when an operation targets a store that has
// already been closed.
var ErrStoreClosed = errors.New("remote store is closed")

// TransportError reports a failure reaching the remote store. It is the
// recoverable error class: callers roll back optimistic state and surface the
// failure to the user, they do not treat it as fatal.
type TransportError struct {
	Op         string // "fetch_all", "set", "delete", "subscribe"
	Collection string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote %s on %q: %v", e.Op, e.Collection, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err as a TransportError for the given operation.
func NewTransportError(op, collection string, err error) *TransportError {
	return &TransportError{Op: op, Collection: collection, Err: err}
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
