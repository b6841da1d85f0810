package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
)

// Product is a storefront listing. Prices are snapshots in minor units;
// OriginalPriceCents, when higher than PriceCents, is the strike-through
// reference used to compute savings.
type Product struct {
	ID                 uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU                string                `gorm:"column:sku;not null;uniqueIndex"`
	Name               string                `gorm:"column:name;not null"`
	AltName            *string               `gorm:"column:alt_name"`
	Brand              string                `gorm:"column:brand;not null"`
	Category           enums.ProductCategory `gorm:"column:category;not null"`
	Unit               string                `gorm:"column:unit;not null"`
	Keywords           pq.StringArray        `gorm:"column:keywords;type:text[];not null;default:ARRAY[]::text[]"`
	PriceCents         int64                 `gorm:"column:price_cents;not null"`
	OriginalPriceCents *int64                `gorm:"column:original_price_cents"`
	MaxPerOrder        int                   `gorm:"column:max_per_order;not null;default:10"`
	StockQty           int                   `gorm:"column:stock_qty;not null;default:0"`
	// no default tag: gorm omits zero-value fields that carry one on Create
	IsActive           bool                  `gorm:"column:is_active;not null"`
	ImageURL           *string               `gorm:"column:image_url"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
