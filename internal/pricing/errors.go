package pricing

import (
	"errors"
	"fmt"

	"github.com/quickcartlabs/quickcart-backend/pkg/money"
)

// ErrInvalidQuantity is returned when an add requests a non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// ErrUnknownCoupon is returned when a coupon code has no matching rule.
var ErrUnknownCoupon = errors.New("coupon code not recognized")

// QuantityLimitError rejects a SetQuantity above the per-line cap. The cart
// is left unchanged; AddLine clamps instead of rejecting, but both honor the
// same limit.
type QuantityLimitError struct {
	ProductID string
	Requested int
	Limit     int
}

func (e *QuantityLimitError) Error() string {
	return fmt.Sprintf("quantity %d for product %s exceeds limit %d", e.Requested, e.ProductID, e.Limit)
}

// CouponMinimumError rejects a coupon whose minimum subtotal is not met.
// Shortfall is the amount the shopper must add for the coupon to apply.
type CouponMinimumError struct {
	Code        string
	MinSubtotal money.Cents
	Subtotal    money.Cents
	Shortfall   money.Cents
}

func (e *CouponMinimumError) Error() string {
	return fmt.Sprintf("coupon %s requires a subtotal of %s, short by %s",
		e.Code, e.MinSubtotal.Decimal(), e.Shortfall.Decimal())
}
