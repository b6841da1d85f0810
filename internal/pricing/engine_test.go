package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
	"github.com/quickcartlabs/quickcart-backend/pkg/money"
)

var storeParams = Params{
	FreeDeliveryThreshold: 19900,
	FlatDeliveryFee:       2900,
}

func save20() *Coupon {
	return &Coupon{
		Code:        "SAVE20",
		Kind:        enums.CouponKindPercentage,
		Value:       decimal.NewFromInt(20),
		MaxDiscount: 10000,
		MinSubtotal: 29900,
	}
}

func cartWithSubtotal(t *testing.T, unitPrice money.Cents, qty int) Cart {
	t.Helper()
	cart, _, err := Cart{}.AddLine("p1", unitPrice, 0, qty, 100)
	if err != nil {
		t.Fatalf("build cart: %v", err)
	}
	return cart
}

func TestQuoteEmptyCartIsAllZeros(t *testing.T) {
	result, err := Quote(Cart{}, nil, storeParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != (PricingResult{}) {
		t.Fatalf("expected zero result, got %+v", result)
	}
}

func TestQuoteDeliveryFeeThreshold(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice money.Cents
		wantFee   money.Cents
		wantTotal money.Cents
	}{
		{"at threshold is free", 19900, 0, 19900},
		{"below threshold pays flat fee", 15000, 2900, 17900},
		{"above threshold is free", 25000, 0, 25000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cart := cartWithSubtotal(t, tc.unitPrice, 1)
			result, err := Quote(cart, nil, storeParams)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.DeliveryFee != tc.wantFee {
				t.Fatalf("expected fee %d, got %d", tc.wantFee, result.DeliveryFee)
			}
			if result.Total != tc.wantTotal {
				t.Fatalf("expected total %d, got %d", tc.wantTotal, result.Total)
			}
		})
	}
}

func TestQuotePercentageCouponWithCap(t *testing.T) {
	// subtotal 500.00: 20% is 100.00, exactly at the cap
	cart := cartWithSubtotal(t, 50000, 1)
	result, err := Quote(cart, save20(), storeParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CouponDiscount != 10000 {
		t.Fatalf("expected discount 10000, got %d", result.CouponDiscount)
	}
	if result.Total != 40000 {
		t.Fatalf("expected total 40000, got %d", result.Total)
	}

	// a much larger subtotal still discounts at most the cap
	cart = cartWithSubtotal(t, 50000, 10)
	result, err = Quote(cart, save20(), storeParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CouponDiscount != 10000 {
		t.Fatalf("expected capped discount 10000, got %d", result.CouponDiscount)
	}
}

func TestQuoteCouponMinimumShortfall(t *testing.T) {
	cart := cartWithSubtotal(t, 10000, 1)
	_, err := Quote(cart, save20(), storeParams)

	var minErr *CouponMinimumError
	if !errors.As(err, &minErr) {
		t.Fatalf("expected CouponMinimumError, got %v", err)
	}
	if minErr.Shortfall != 19900 {
		t.Fatalf("expected shortfall 19900, got %d", minErr.Shortfall)
	}
}

func TestQuoteFixedAmountCouponNeverExceedsSubtotal(t *testing.T) {
	coupon := &Coupon{
		Code:  "FLASH50",
		Kind:  enums.CouponKindFixedAmount,
		Value: decimal.NewFromInt(50),
	}

	cart := cartWithSubtotal(t, 40000, 1)
	result, err := Quote(cart, coupon, storeParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CouponDiscount != 5000 {
		t.Fatalf("expected discount 5000, got %d", result.CouponDiscount)
	}

	cart = cartWithSubtotal(t, 3000, 1)
	result, err = Quote(cart, coupon, storeParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CouponDiscount != 3000 {
		t.Fatalf("expected discount limited to subtotal 3000, got %d", result.CouponDiscount)
	}
	if result.Total < 0 {
		t.Fatalf("total went negative: %d", result.Total)
	}
}

func TestQuoteFreeDeliveryCouponOffsetsFee(t *testing.T) {
	coupon := &Coupon{Code: "FREEDEL", Kind: enums.CouponKindFreeDelivery}

	// below the threshold the discount equals the fee, so the total matches
	// the subtotal
	cart := cartWithSubtotal(t, 15000, 1)
	result, err := Quote(cart, coupon, storeParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CouponDiscount != 2900 {
		t.Fatalf("expected discount 2900, got %d", result.CouponDiscount)
	}
	if result.Total != 15000 {
		t.Fatalf("expected total 15000, got %d", result.Total)
	}

	// already free: the coupon discounts nothing
	cart = cartWithSubtotal(t, 25000, 1)
	result, err = Quote(cart, coupon, storeParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CouponDiscount != 0 {
		t.Fatalf("expected zero discount, got %d", result.CouponDiscount)
	}
}

func TestQuoteTaxAppliedToSubtotal(t *testing.T) {
	params := storeParams
	params.TaxRate = money.BasisPointsRate(500) // 5%

	cart := cartWithSubtotal(t, 20000, 1)
	result, err := Quote(cart, nil, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tax != 1000 {
		t.Fatalf("expected tax 1000, got %d", result.Tax)
	}
	if result.Total != 21000 {
		t.Fatalf("expected total 21000, got %d", result.Total)
	}
}

func TestQuoteIsIdempotent(t *testing.T) {
	cart := cartWithSubtotal(t, 50000, 2)
	first, err := Quote(cart, save20(), storeParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Quote(cart, save20(), storeParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("quotes differ: %+v vs %+v", first, second)
	}
}

func TestQuoteInvariantHolds(t *testing.T) {
	coupons := []*Coupon{
		nil,
		{Code: "P", Kind: enums.CouponKindPercentage, Value: decimal.NewFromInt(50)},
		{Code: "F", Kind: enums.CouponKindFixedAmount, Value: decimal.NewFromInt(500)},
		{Code: "D", Kind: enums.CouponKindFreeDelivery},
	}
	subtotals := []money.Cents{0, 100, 2900, 15000, 19900, 100000}

	for _, coupon := range coupons {
		for _, subtotal := range subtotals {
			cart := Cart{}
			if subtotal > 0 {
				cart, _, _ = cart.AddLine("p1", subtotal, 0, 1, 100)
			}
			result, err := Quote(cart, coupon, storeParams)
			if err != nil {
				t.Fatalf("unexpected error at subtotal %d: %v", subtotal, err)
			}
			want := money.ClampNonNegative(result.Subtotal-result.CouponDiscount) + result.DeliveryFee + result.Tax
			if result.Total != want {
				t.Fatalf("invariant broken at subtotal %d: total %d want %d", subtotal, result.Total, want)
			}
			if result.Total < 0 {
				t.Fatalf("negative total at subtotal %d: %d", subtotal, result.Total)
			}
		}
	}
}

func TestDeliveryFeeThresholdMonotonicity(t *testing.T) {
	// for fixed cart contents, raising the threshold never lowers the fee
	subtotal := money.Cents(15000)
	prev := money.Cents(-1)
	for _, threshold := range []money.Cents{0, 10000, 15000, 15001, 50000} {
		params := Params{FreeDeliveryThreshold: threshold, FlatDeliveryFee: 2900}
		fee := DeliveryFee(subtotal, false, params)
		if fee < prev {
			t.Fatalf("fee decreased from %d to %d at threshold %d", prev, fee, threshold)
		}
		prev = fee
	}
}

func TestClampAndRejectShareOneLimit(t *testing.T) {
	const limit = 10

	cart := Cart{}
	cart, clamped, err := cart.AddLine("p1", 4800, 0, limit+5, limit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !clamped {
		t.Fatal("expected add to clamp")
	}
	line, _ := cart.Line("p1")
	if line.Quantity != limit {
		t.Fatalf("expected add clamped to %d, got %d", limit, line.Quantity)
	}

	// setting to the same excess value must reject, and setting to the
	// clamp's own result must succeed
	if _, err := cart.SetQuantity("p1", limit+5, limit); err == nil {
		t.Fatal("expected rejection above limit")
	}
	if _, err := cart.SetQuantity("p1", limit, limit); err != nil {
		t.Fatalf("set to limit should succeed: %v", err)
	}
}

func TestCouponDiscountUnknownKind(t *testing.T) {
	coupon := Coupon{Code: "X", Kind: "mystery"}
	if _, err := coupon.Discount(50000, 0); !errors.Is(err, ErrUnknownCoupon) {
		t.Fatalf("expected ErrUnknownCoupon, got %v", err)
	}
}
