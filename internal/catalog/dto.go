package catalog

import (
	"github.com/google/uuid"

	"github.com/quickcartlabs/quickcart-backend/pkg/db/models"
	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
	"github.com/quickcartlabs/quickcart-backend/pkg/money"
)

// ProductDTO is the catalog read model served to clients and consumed by the
// cart layer when a line is created.
type ProductDTO struct {
	ID            uuid.UUID             `json:"id"`
	SKU           string                `json:"sku"`
	Name          string                `json:"name"`
	AltName       *string               `json:"altName,omitempty"`
	Brand         string                `json:"brand"`
	Category      enums.ProductCategory `json:"category"`
	Unit          string                `json:"unit"`
	PriceCents    int64                 `json:"priceCents"`
	OriginalCents *int64                `json:"originalPriceCents,omitempty"`
	MaxPerOrder   int                   `json:"maxPerOrder"`
	InStock       bool                  `json:"inStock"`
	StockQty      int                   `json:"stockQty"`
	ImageURL      *string               `json:"imageUrl,omitempty"`
}

// UnitPrice returns the listing price in minor units.
func (p ProductDTO) UnitPrice() money.Cents {
	return money.Cents(p.PriceCents)
}

// OriginalPrice returns the strike-through price, zero when absent.
func (p ProductDTO) OriginalPrice() money.Cents {
	if p.OriginalCents == nil {
		return 0
	}
	return money.Cents(*p.OriginalCents)
}

func toDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:            product.ID,
		SKU:           product.SKU,
		Name:          product.Name,
		AltName:       product.AltName,
		Brand:         product.Brand,
		Category:      product.Category,
		Unit:          product.Unit,
		PriceCents:    product.PriceCents,
		OriginalCents: product.OriginalPriceCents,
		MaxPerOrder:   product.MaxPerOrder,
		InStock:       product.StockQty > 0,
		StockQty:      product.StockQty,
		ImageURL:      product.ImageURL,
	}
}
