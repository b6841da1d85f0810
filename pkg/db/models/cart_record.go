package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
)

// CartRecord is the persisted snapshot of a session's cart. Totals are not
// stored; they are recomputed from the items on every read so the pricing
// engine stays the single source of arithmetic.
type CartRecord struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID  string           `gorm:"column:session_id;not null;index"`
	UserID     *uuid.UUID       `gorm:"column:user_id;type:uuid"`
	Status     enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	CouponCode *string          `gorm:"column:coupon_code"`
	Items      []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
