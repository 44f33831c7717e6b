// Package server implements the reference remote document store behind the
// sync core: a per-collection JSON CRUD API with merge-upsert semantics and
// server-stamped update times, plus a live feed that streams the complete
// collection state over Server-Sent Events after every change.
//
// # API
//
//	GET    /v1/collections            list collection names
//	GET    /v1/c/{collection}         full collection read
//	GET    /v1/c/{collection}/{id}    single document
//	PUT    /v1/c/{collection}/{id}    merge-upsert a partial document
//	DELETE /v1/c/{collection}/{id}    remove a document
//	GET    /v1/c/{collection}/feed    SSE live feed (event: snapshot)
//	GET    /healthz                   health check
//
// The feed delivers full snapshots, never deltas: every event carries the
// entire collection as a JSON array. Writes and feed registrations are
// serialized so subscribers observe snapshots in write order; slow
// subscribers skip intermediate snapshots rather than queueing them.
//
// Persistence is behind the DocumentStore interface; SQLiteStore is the
// shipped implementation (use ":memory:" in tests).
package server
