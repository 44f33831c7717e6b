// ABOUTME: Quality log domain: batch test records tied to pours and products
// ABOUTME: Entries are identified by batch id; search covers batch ids too

package domain

import (
	"log/slog"

	"github.com/castline/castline/internal/entitystore"
	"github.com/castline/castline/internal/remote"
)

// CollectionQualityLog is the remote collection name for the quality log.
const CollectionQualityLog = "qualityLog"

// CylinderBreak is one compressive strength test result.
type CylinderBreak struct {
	AgeDays int     `json:"ageDays"`
	PSI     float64 `json:"psi"`
}

// QualityEntry is one batch test record.
type QualityEntry struct {
	entitystore.Meta
	BatchID       string          `json:"batchId"`
	ProductID     string          `json:"productId,omitempty"`
	PourEntryID   string          `json:"pourEntryId,omitempty"`
	TestDate      int64           `json:"testDate,omitempty"` // epoch millis
	SlumpIn       float64         `json:"slumpIn,omitempty"`
	AirPercent    float64         `json:"airPercent,omitempty"`
	UnitWeightPCF float64         `json:"unitWeightPcf,omitempty"`
	ConcreteTempF float64         `json:"concreteTempF,omitempty"`
	Breaks        []CylinderBreak `json:"breaks,omitempty"`
	Technician    string          `json:"technician,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// qualityEntryComplete requires a product, a test date, and at least one
// measured value.
func qualityEntryComplete(e QualityEntry) bool {
	if e.ProductID == "" || e.TestDate <= 0 {
		return false
	}
	return e.SlumpIn > 0 || e.AirPercent > 0 || e.UnitWeightPCF > 0 ||
		e.ConcreteTempF > 0 || len(e.Breaks) > 0
}

// NewQualityLogStore creates the quality log store. Entries are displayed and
// duplicated by batch id.
func NewQualityLogStore(rs remote.Store, logger *slog.Logger) *entitystore.Store[QualityEntry] {
	return entitystore.New(rs, entitystore.Config[QualityEntry]{
		Collection: CollectionQualityLog,
		Name:       func(e QualityEntry) string { return e.BatchID },
		NameField:  "batchId",
		SearchText: func(e QualityEntry) []string {
			return []string{e.BatchID, e.Technician}
		},
		Complete: qualityEntryComplete,
		Logger:   logger,
	})
}
