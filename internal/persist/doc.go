// Package persist provides the on-device key-value persistence layer used
// for offline continuity outside the sync core: calculation history and
// similar state is serialized to BadgerDB at write time and rehydrated at
// process start. Nothing here syncs to the remote store.
package persist
