// ABOUTME: Embedded entity metadata maintained by the store layer
// ABOUTME: Identity, create/update stamps, favorite flag, and last-access time

package entitystore

// Meta carries the fields every synced entity has: a unique string id, the
// create/update timestamps (integer epoch milliseconds), and the favorite and
// last-accessed markers driving the derived queries. Domain types embed Meta;
// the store maintains these fields, callers never write them directly.
type Meta struct {
	ID             string `json:"id"`
	CreatedAt      int64  `json:"createdAt"`
	UpdatedAt      int64  `json:"updatedAt"`
	IsFavorite     bool   `json:"isFavorite,omitempty"`
	LastAccessedAt int64  `json:"lastAccessedAt,omitempty"`
}

// EntityID returns the entity's unique identifier.
func (m Meta) EntityID() string { return m.ID }

// EntityMeta returns a copy of the store-maintained metadata.
func (m Meta) EntityMeta() Meta { return m }

// Entity is the constraint every domain type satisfies by embedding Meta.
type Entity interface {
	EntityID() string
	EntityMeta() Meta
}
