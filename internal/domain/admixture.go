// ABOUTME: Admixture domain: chemical admixtures with dosage ranges
// ABOUTME: Searchable by name, manufacturer, and admixture type

package domain

import (
	"log/slog"

	"github.com/castline/castline/internal/entitystore"
	"github.com/castline/castline/internal/remote"
)

// CollectionAdmixtures is the remote collection name for admixtures.
const CollectionAdmixtures = "admixtures"

// AdmixtureType classifies a chemical admixture.
type AdmixtureType string

const (
	AdmixtureAirEntrainer     AdmixtureType = "Air Entrainer"
	AdmixtureWaterReducer     AdmixtureType = "Water Reducer"
	AdmixtureHighRangeReducer AdmixtureType = "High-Range Water Reducer"
	AdmixtureAccelerator      AdmixtureType = "Accelerator"
	AdmixtureRetarder         AdmixtureType = "Retarder"
	AdmixtureCorrosionInhib   AdmixtureType = "Corrosion Inhibitor"
)

// Admixture is one chemical admixture in the plant's library.
type Admixture struct {
	entitystore.Meta
	Name         string        `json:"name"`
	Manufacturer string        `json:"manufacturer,omitempty"`
	Type         AdmixtureType `json:"type,omitempty"`
	DosageMin    float64       `json:"dosageMin,omitempty"` // fl oz per cwt cement
	DosageMax    float64       `json:"dosageMax,omitempty"`
	Notes        string        `json:"notes,omitempty"`
}

func admixtureComplete(a Admixture) bool {
	return a.Name != "" && a.Manufacturer != "" && a.Type != "" &&
		a.DosageMin > 0 && a.DosageMax >= a.DosageMin
}

// NewAdmixtureStore creates the admixture library store.
func NewAdmixtureStore(rs remote.Store, logger *slog.Logger) *entitystore.Store[Admixture] {
	return entitystore.New(rs, entitystore.Config[Admixture]{
		Collection: CollectionAdmixtures,
		Name:       func(a Admixture) string { return a.Name },
		SearchText: func(a Admixture) []string {
			return []string{a.Name, a.Manufacturer, string(a.Type)}
		},
		Complete: admixtureComplete,
		Logger:   logger,
	})
}
