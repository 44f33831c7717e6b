// ABOUTME: Strand library domain: prestressing strand definitions

package domain

import (
	"log/slog"

	"github.com/castline/castline/internal/entitystore"
	"github.com/castline/castline/internal/remote"
)

// CollectionStrands is the remote collection name for the strand library.
const CollectionStrands = "strandLibrary"

// Strand is one prestressing strand definition, e.g. 1/2" 270K low-relaxation.
type Strand struct {
	entitystore.Meta
	Name                 string  `json:"name"`
	DiameterIn           float64 `json:"diameterIn,omitempty"`
	Grade                float64 `json:"grade,omitempty"` // ksi, e.g. 270
	AreaSqIn             float64 `json:"areaSqIn,omitempty"`
	UltimateStrengthKips float64 `json:"ultimateStrengthKips,omitempty"`
	LowRelaxation        bool    `json:"lowRelaxation,omitempty"`
	Notes                string  `json:"notes,omitempty"`
}

func strandComplete(s Strand) bool {
	return s.Name != "" && s.DiameterIn > 0 && s.Grade > 0 && s.AreaSqIn > 0
}

// NewStrandStore creates the strand library store.
func NewStrandStore(rs remote.Store, logger *slog.Logger) *entitystore.Store[Strand] {
	return entitystore.New(rs, entitystore.Config[Strand]{
		Collection: CollectionStrands,
		Name:       func(s Strand) string { return s.Name },
		Complete:   strandComplete,
		Logger:     logger,
	})
}
