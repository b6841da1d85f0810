package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/quickcartlabs/quickcart-backend/pkg/money"
)

// Params are store-wide pricing inputs. TaxRate is a multiplier (e.g. 0.05);
// a zero rate means a tax-free deployment.
type Params struct {
	FreeDeliveryThreshold money.Cents
	FlatDeliveryFee       money.Cents
	TaxRate               decimal.Decimal
}

// PricingResult is the derived pricing breakdown for a cart. It always
// satisfies total = max(0, subtotal - couponDiscount) + deliveryFee + tax.
type PricingResult struct {
	Subtotal       money.Cents
	Savings        money.Cents
	DeliveryFee    money.Cents
	Tax            money.Cents
	CouponDiscount money.Cents
	Total          money.Cents
	ItemCount      int
}

// DeliveryFee is zero for an empty cart and for subtotals at or above the
// free-delivery threshold, else the flat fee.
func DeliveryFee(subtotal money.Cents, empty bool, params Params) money.Cents {
	if empty || subtotal >= params.FreeDeliveryThreshold {
		return 0
	}
	return params.FlatDeliveryFee
}

// Tax applies the configured rate to the subtotal, rounding half-up at the
// minor unit.
func Tax(subtotal money.Cents, rate decimal.Decimal) money.Cents {
	if rate.IsZero() {
		return 0
	}
	return subtotal.ApplyRate(rate)
}

// Quote computes the full pricing breakdown for a cart and an optional
// coupon. Pure function of its inputs; calling it twice with the same values
// yields identical results.
func Quote(cart Cart, coupon *Coupon, params Params) (PricingResult, error) {
	subtotal := cart.Subtotal()
	deliveryFee := DeliveryFee(subtotal, cart.IsEmpty(), params)

	var couponDiscount money.Cents
	if coupon != nil {
		discount, err := coupon.Discount(subtotal, deliveryFee)
		if err != nil {
			return PricingResult{}, err
		}
		couponDiscount = discount
	}

	tax := Tax(subtotal, params.TaxRate)
	total := money.ClampNonNegative(subtotal-couponDiscount) + deliveryFee + tax

	return PricingResult{
		Subtotal:       subtotal,
		Savings:        cart.Savings(),
		DeliveryFee:    deliveryFee,
		Tax:            tax,
		CouponDiscount: couponDiscount,
		Total:          total,
		ItemCount:      cart.ItemCount(),
	}, nil
}
