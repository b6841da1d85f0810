package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
	"github.com/quickcartlabs/quickcart-backend/pkg/money"
)

// Coupon is a discount rule. Value is a percentage for percentage coupons and
// a major-unit amount for fixed-amount coupons; free-delivery coupons ignore
// it. MaxDiscount of zero means uncapped.
type Coupon struct {
	Code        string
	Kind        enums.CouponKind
	Value       decimal.Decimal
	MaxDiscount money.Cents
	MinSubtotal money.Cents
}

// Discount computes the coupon's discount for the given subtotal and the
// delivery fee that would otherwise be charged. The minimum-subtotal gate is
// checked first; a shortfall is reported via CouponMinimumError so callers
// can render "add X more".
func (cp Coupon) Discount(subtotal, deliveryFee money.Cents) (money.Cents, error) {
	if subtotal < cp.MinSubtotal {
		return 0, &CouponMinimumError{
			Code:        cp.Code,
			MinSubtotal: cp.MinSubtotal,
			Subtotal:    subtotal,
			Shortfall:   cp.MinSubtotal - subtotal,
		}
	}

	switch cp.Kind {
	case enums.CouponKindPercentage:
		discount := subtotal.ApplyRate(money.PercentRate(cp.Value))
		if cp.MaxDiscount > 0 {
			discount = money.Min(discount, cp.MaxDiscount)
		}
		return discount, nil

	case enums.CouponKindFixedAmount:
		// the discount never exceeds the subtotal it applies to
		return money.Min(money.FromDecimal(cp.Value), subtotal), nil

	case enums.CouponKindFreeDelivery:
		return deliveryFee, nil

	default:
		return 0, ErrUnknownCoupon
	}
}
