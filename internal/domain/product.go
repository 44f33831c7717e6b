// ABOUTME: Product domain: precast/prestressed product cross-sections

package domain

import (
	"log/slog"

	"github.com/castline/castline/internal/entitystore"
	"github.com/castline/castline/internal/remote"
)

// CollectionProducts is the remote collection name for products.
const CollectionProducts = "products"

// ProductType classifies a precast product cross-section.
type ProductType string

const (
	ProductDoubleTee  ProductType = "Double Tee"
	ProductHollowCore ProductType = "Hollow Core"
	ProductBeam       ProductType = "Beam"
	ProductColumn     ProductType = "Column"
	ProductWallPanel  ProductType = "Wall Panel"
	ProductPile       ProductType = "Pile"
)

// Product is one product definition in the plant's catalog.
type Product struct {
	entitystore.Meta
	Name            string      `json:"name"`
	Type            ProductType `json:"type,omitempty"`
	WidthIn         float64     `json:"widthIn,omitempty"`
	DepthIn         float64     `json:"depthIn,omitempty"`
	FlangeIn        float64     `json:"flangeIn,omitempty"`
	SelfWeightPLF   float64     `json:"selfWeightPlf,omitempty"` // lb per linear ft
	StrandPatternID string      `json:"strandPatternId,omitempty"`
	MixDesignID     string      `json:"mixDesignId,omitempty"`
	Notes           string      `json:"notes,omitempty"`
}

func productComplete(p Product) bool {
	return p.Name != "" && p.Type != "" && p.WidthIn > 0 && p.DepthIn > 0
}

// NewProductStore creates the product catalog store.
func NewProductStore(rs remote.Store, logger *slog.Logger) *entitystore.Store[Product] {
	return entitystore.New(rs, entitystore.Config[Product]{
		Collection: CollectionProducts,
		Name:       func(p Product) string { return p.Name },
		SearchText: func(p Product) []string {
			return []string{p.Name, string(p.Type)}
		},
		Complete: productComplete,
		Logger:   logger,
	})
}
