// Package synced provides the typed synced-collection primitive: one
// Collection per remote collection, handling the initial bulk fetch, the
// full-snapshot live feed subscription, sanitizing merge upserts, deletes,
// and idempotent subscription teardown. It is stateless with respect to the
// UI and owns only its subscription handle; local caching and optimistic
// mutation live one layer up in package entitystore.
package synced
