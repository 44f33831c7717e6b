// ABOUTME: Cement type domain: cements by ASTM C150/C595 designation

package domain

import (
	"log/slog"

	"github.com/castline/castline/internal/entitystore"
	"github.com/castline/castline/internal/remote"
)

// CollectionCements is the remote collection name for cement types.
const CollectionCements = "cementTypes"

// Cement is one cement in the plant's library.
type Cement struct {
	entitystore.Meta
	Name            string  `json:"name"`
	ASTMDesignation string  `json:"astmDesignation,omitempty"` // e.g. "Type III"
	Mill            string  `json:"mill,omitempty"`
	Blaine          float64 `json:"blaine,omitempty"` // m2/kg
	Notes           string  `json:"notes,omitempty"`
}

// NewCementStore creates the cement library store.
func NewCementStore(rs remote.Store, logger *slog.Logger) *entitystore.Store[Cement] {
	return entitystore.New(rs, entitystore.Config[Cement]{
		Collection: CollectionCements,
		Name:       func(c Cement) string { return c.Name },
		SearchText: func(c Cement) []string {
			return []string{c.Name, c.ASTMDesignation, c.Mill}
		},
		Complete: func(c Cement) bool {
			return c.Name != "" && c.ASTMDesignation != ""
		},
		Logger: logger,
	})
}
