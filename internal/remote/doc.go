// Package remote defines the contract for the remote durable store and ships
// two building blocks shared by its implementations.
//
// # Store contract
//
// A Store holds named collections of JSON-like documents keyed by id and
// provides exactly the operations the sync core consumes:
//
//   - FetchAll: full collection read
//   - Set: per-document merge upsert with a store-stamped updatedAt
//   - Delete: per-document removal
//   - Subscribe: push-based full-snapshot live feed
//
// The live feed always re-delivers the entire collection state, never deltas.
// Consumers treat every delivery as authoritative and replace local state
// wholesale.
//
// # Error model
//
// Any failure reaching the store surfaces as *TransportError, which wraps the
// underlying cause. TransportError is the recoverable class: callers roll
// back optimistic state and retry later, they do not crash.
//
// # Implementations
//
// MemoryStore (this package) keeps collections in process memory with the
// same merge and stamping semantics as castline-server; it backs tests and
// single-process deployments. client.Remote implements the same contract over
// HTTP and SSE against a running castline-server.
//
// SnapshotBroadcaster is the fan-out primitive both the MemoryStore and the
// server feed are built on: per-subscriber conflating mailboxes deliver the
// newest snapshot and skip intermediate ones for slow consumers.
package remote
