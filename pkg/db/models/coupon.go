package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
)

// Coupon is a named discount rule. Codes are stored uppercase and matched
// case-insensitively. Value is a percentage for percentage coupons and a
// major-unit amount for fixed-amount coupons; free-delivery coupons ignore it.
type Coupon struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string           `gorm:"column:code;not null;uniqueIndex"`
	Kind             enums.CouponKind `gorm:"column:kind;not null"`
	Value            decimal.Decimal  `gorm:"column:value;type:numeric(10,2);not null"`
	MaxDiscountCents *int64           `gorm:"column:max_discount_cents"`
	MinSubtotalCents int64            `gorm:"column:min_subtotal_cents;not null;default:0"`
	// no default tag: gorm omits zero-value fields that carry one on Create
	IsActive         bool             `gorm:"column:is_active;not null"`
	StartsAt         *time.Time       `gorm:"column:starts_at"`
	ExpiresAt        *time.Time       `gorm:"column:expires_at"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
