// ABOUTME: On-device key-value persistence over BadgerDB
// ABOUTME: Serializes calculation history and UI prefs for offline continuity

package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	badger "github.com/dgraph-io/badger/v4"
)

// ErrKeyNotFound is returned when a requested key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// Store is an on-device key-value store with JSON values. It holds the state
// that must survive process restarts without the remote store: calculation
// history, UI preferences. It is orthogonal to the sync core and carries none
// of its guarantees.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open creates or opens a store at the given directory.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating persistence directory: %w", err)
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening persistence store: %w", err)
	}
	return &Store{db: db, logger: slog.Default().With("component", "persist")}, nil
}

// OpenInMemory opens a store backed by memory only. Used by tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening in-memory persistence store: %w", err)
	}
	return &Store{db: db, logger: slog.Default().With("component", "persist")}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores v under key as JSON.
func (s *Store) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("storing %q: %w", key, err)
	}
	return nil
}

// Get loads the JSON value under key into v. Returns ErrKeyNotFound when the
// key does not exist.
func (s *Store) Get(key string, v any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("loading %q: %w", key, err)
	}
	return err
}

// Delete removes a key. Unknown keys are a no-op.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}
