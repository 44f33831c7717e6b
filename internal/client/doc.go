// ABOUTME: Package documentation for the HTTP remote store client
// ABOUTME: Explains the transport mapping and the feed reconnect behavior

// Package client implements remote.Store over the castline-server HTTP API.
//
// Collection reads and merge-upserts map to plain JSON requests:
//
//	FetchAll  GET    /v1/c/{collection}
//	Set       PUT    /v1/c/{collection}/{id}
//	Delete    DELETE /v1/c/{collection}/{id}
//
// Subscribe opens the server-sent events stream at
// GET /v1/c/{collection}/feed. Every "snapshot" event carries the full
// collection, so a dropped connection loses nothing that the next snapshot
// does not restore; the client reconnects with exponential backoff and
// delivers an initial fetch synchronously before the stream attaches.
//
// All transport failures are wrapped in remote.TransportError so callers can
// distinguish them from local errors.
package client
