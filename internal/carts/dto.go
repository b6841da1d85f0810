package carts

import (
	"github.com/google/uuid"

	"github.com/quickcartlabs/quickcart-backend/internal/pricing"
)

// Warning is a non-fatal condition attached to an otherwise successful cart
// response, e.g. a quantity clamp or a failed snapshot write.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ItemView is one cart line as served to clients.
type ItemView struct {
	ProductID          uuid.UUID `json:"productId"`
	Name               string    `json:"name"`
	Unit               string    `json:"unit"`
	ImageURL           *string   `json:"imageUrl,omitempty"`
	Quantity           int       `json:"quantity"`
	UnitPriceCents     int64     `json:"unitPriceCents"`
	OriginalPriceCents *int64    `json:"originalPriceCents,omitempty"`
	LineTotalCents     int64     `json:"lineTotalCents"`
	MaxPerOrder        int       `json:"maxPerOrder"`
}

// PricingView is the cart's computed breakdown in minor units.
type PricingView struct {
	SubtotalCents       int64 `json:"subtotalCents"`
	SavingsCents        int64 `json:"savingsCents"`
	DeliveryFeeCents    int64 `json:"deliveryFeeCents"`
	TaxCents            int64 `json:"taxCents"`
	CouponDiscountCents int64 `json:"couponDiscountCents"`
	TotalCents          int64 `json:"totalCents"`
	ItemCount           int   `json:"itemCount"`
}

// CartView is the full cart response: lines, applied coupon, pricing, and
// any warnings gathered during the operation.
type CartView struct {
	SessionID  string      `json:"sessionId"`
	Items      []ItemView  `json:"items"`
	CouponCode *string     `json:"couponCode,omitempty"`
	Pricing    PricingView `json:"pricing"`
	Warnings   []Warning   `json:"warnings,omitempty"`
}

func toPricingView(result pricing.PricingResult) PricingView {
	return PricingView{
		SubtotalCents:       int64(result.Subtotal),
		SavingsCents:        int64(result.Savings),
		DeliveryFeeCents:    int64(result.DeliveryFee),
		TaxCents:            int64(result.Tax),
		CouponDiscountCents: int64(result.CouponDiscount),
		TotalCents:          int64(result.Total),
		ItemCount:           result.ItemCount,
	}
}
