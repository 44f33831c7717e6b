// Package document defines the wire-level document model shared by the sync
// core and the remote store: the Document map type, the Absent sentinel and
// its recursive sanitization, merge-upsert semantics, and the JSON codec
// between typed entities and documents.
package document
