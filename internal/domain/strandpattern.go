// ABOUTME: Strand pattern domain: row-by-row strand layouts for product sections

package domain

import (
	"log/slog"

	"github.com/castline/castline/internal/entitystore"
	"github.com/castline/castline/internal/remote"
)

// CollectionStrandPatterns is the remote collection name for strand patterns.
const CollectionStrandPatterns = "strandPatterns"

// StrandRow is one horizontal row of strands within a pattern.
type StrandRow struct {
	HeightIn float64 `json:"heightIn"` // from section bottom
	Count    int     `json:"count"`
	Debonded int     `json:"debonded,omitempty"`
}

// StrandPattern is one reusable strand layout.
type StrandPattern struct {
	entitystore.Meta
	Name          string      `json:"name"`
	StrandID      string      `json:"strandId,omitempty"` // strand library reference
	StrandCount   int         `json:"strandCount,omitempty"`
	Rows          []StrandRow `json:"rows,omitempty"`
	PullForceKips float64     `json:"pullForceKips,omitempty"`
	Notes         string      `json:"notes,omitempty"`
}

func strandPatternComplete(p StrandPattern) bool {
	return p.Name != "" && p.StrandCount > 0 && len(p.Rows) > 0
}

// NewStrandPatternStore creates the strand pattern store.
func NewStrandPatternStore(rs remote.Store, logger *slog.Logger) *entitystore.Store[StrandPattern] {
	return entitystore.New(rs, entitystore.Config[StrandPattern]{
		Collection: CollectionStrandPatterns,
		Name:       func(p StrandPattern) string { return p.Name },
		Complete:   strandPatternComplete,
		Logger:     logger,
	})
}
