// ABOUTME: Aggregate material domain: fine and coarse aggregates for mix designs
// ABOUTME: Fine aggregates additionally require a fineness modulus to be complete

package domain

import (
	"log/slog"

	"github.com/castline/castline/internal/entitystore"
	"github.com/castline/castline/internal/remote"
)

// CollectionAggregates is the remote collection name for aggregates.
const CollectionAggregates = "aggregates"

// AggregateType distinguishes fine from coarse aggregate.
type AggregateType string

const (
	AggregateFine   AggregateType = "Fine"
	AggregateCoarse AggregateType = "Coarse"
)

// Aggregate is one aggregate material in the plant's library.
type Aggregate struct {
	entitystore.Meta
	Name            string        `json:"name"`
	Type            AggregateType `json:"type,omitempty"`
	Source          string        `json:"source,omitempty"`
	SpecificGravity float64       `json:"specificGravity,omitempty"`
	Absorption      float64       `json:"absorption,omitempty"` // percent
	FinenessModulus float64       `json:"finenessModulus,omitempty"`
	UnitWeight      float64       `json:"unitWeight,omitempty"` // lb/ft3
	MaxSize         string        `json:"maxSize,omitempty"`    // e.g. "3/4 in"
	Notes           string        `json:"notes,omitempty"`
}

// aggregateComplete requires name, type, specific gravity and absorption; a
// fine aggregate additionally requires its fineness modulus.
func aggregateComplete(a Aggregate) bool {
	if a.Name == "" || a.Type == "" || a.SpecificGravity <= 0 || a.Absorption <= 0 {
		return false
	}
	if a.Type == AggregateFine && a.FinenessModulus <= 0 {
		return false
	}
	return true
}

// NewAggregateStore creates the aggregate library store.
func NewAggregateStore(rs remote.Store, logger *slog.Logger) *entitystore.Store[Aggregate] {
	return entitystore.New(rs, entitystore.Config[Aggregate]{
		Collection: CollectionAggregates,
		Name:       func(a Aggregate) string { return a.Name },
		SearchText: func(a Aggregate) []string {
			return []string{a.Name, string(a.Type), a.Source}
		},
		Complete: aggregateComplete,
		Logger:   logger,
	})
}
