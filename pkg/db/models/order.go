package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
)

// Order captures a completed checkout with its priced totals frozen at
// placement time.
type Order struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Reference           string              `gorm:"column:reference;not null;uniqueIndex"`
	UserID              uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	SessionID           string              `gorm:"column:session_id;not null"`
	Status              enums.OrderStatus   `gorm:"column:status;not null;default:'confirmed'"`
	PaymentMethod       enums.PaymentMethod `gorm:"column:payment_method;not null"`
	SubtotalCents       int64               `gorm:"column:subtotal_cents;not null"`
	SavingsCents        int64               `gorm:"column:savings_cents;not null;default:0"`
	DeliveryFeeCents    int64               `gorm:"column:delivery_fee_cents;not null;default:0"`
	TaxCents            int64               `gorm:"column:tax_cents;not null;default:0"`
	CouponCode          *string             `gorm:"column:coupon_code"`
	CouponDiscountCents int64               `gorm:"column:coupon_discount_cents;not null;default:0"`
	TotalCents          int64               `gorm:"column:total_cents;not null"`
	Timeline            OrderTimeline       `gorm:"column:timeline;type:jsonb;serializer:json"`
	LineItems           []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt            time.Time           `gorm:"column:placed_at;not null"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
