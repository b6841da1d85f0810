package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one product line within a CartRecord. Prices are snapshots
// taken when the line was added; catalog price changes do not rewrite them.
type CartItem struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID             uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_product"`
	ProductID          uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_product"`
	Quantity           int       `gorm:"column:quantity;not null"`
	UnitPriceCents     int64     `gorm:"column:unit_price_cents;not null"`
	OriginalPriceCents *int64    `gorm:"column:original_price_cents"`
	MaxPerOrder        int       `gorm:"column:max_per_order;not null;default:10"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
