// ABOUTME: Mix design domain: concrete mixes referencing library materials
// ABOUTME: Complete mixes need strength, w/c ratio, and at least one aggregate

package domain

import (
	"log/slog"

	"github.com/castline/castline/internal/entitystore"
	"github.com/castline/castline/internal/remote"
)

// CollectionMixDesigns is the remote collection name for mix designs.
const CollectionMixDesigns = "mixDesigns"

// AdmixtureDose pairs an admixture with its dosage in a mix.
type AdmixtureDose struct {
	AdmixtureID string  `json:"admixtureId"`
	Dosage      float64 `json:"dosage"` // fl oz per cwt cement
}

// MixDesign is one concrete mix design.
type MixDesign struct {
	entitystore.Meta
	Name               string          `json:"name"`
	DesignStrengthPSI  float64         `json:"designStrengthPsi,omitempty"`
	ReleaseStrengthPSI float64         `json:"releaseStrengthPsi,omitempty"`
	WaterCementRatio   float64         `json:"waterCementRatio,omitempty"`
	CementContent      float64         `json:"cementContent,omitempty"` // lb/yd3
	CementID           string          `json:"cementId,omitempty"`
	AirContent         float64         `json:"airContent,omitempty"` // percent
	AggregateIDs       []string        `json:"aggregateIds,omitempty"`
	Admixtures         []AdmixtureDose `json:"admixtures,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

func mixDesignComplete(m MixDesign) bool {
	return m.Name != "" && m.DesignStrengthPSI > 0 && m.WaterCementRatio > 0 &&
		len(m.AggregateIDs) > 0
}

// NewMixDesignStore creates the mix design store.
func NewMixDesignStore(rs remote.Store, logger *slog.Logger) *entitystore.Store[MixDesign] {
	return entitystore.New(rs, entitystore.Config[MixDesign]{
		Collection: CollectionMixDesigns,
		Name:       func(m MixDesign) string { return m.Name },
		Complete:   mixDesignComplete,
		Logger:     logger,
	})
}
