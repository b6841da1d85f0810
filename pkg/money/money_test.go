package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFromDecimalRoundsHalfUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Cents
	}{
		{"199", 19900},
		{"1.005", 101},
		{"1.004", 100},
		{"0", 0},
		{"29.99", 2999},
	}

	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		if got := FromDecimal(d); got != tt.want {
			t.Fatalf("FromDecimal(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestApplyRate(t *testing.T) {
	t.Parallel()

	// 20% of 500.00 is 100.00 exactly.
	if got := Cents(50000).ApplyRate(PercentRate(decimal.NewFromInt(20))); got != 10000 {
		t.Fatalf("expected 10000, got %d", got)
	}

	// 18% tax on 1.50 is 0.27.
	if got := Cents(150).ApplyRate(BasisPointsRate(1800)); got != 27 {
		t.Fatalf("expected 27, got %d", got)
	}

	// Half-up at the boundary: 5% of 0.50 = 0.025 -> 0.03.
	if got := Cents(50).ApplyRate(BasisPointsRate(500)); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestClampAndMin(t *testing.T) {
	t.Parallel()

	if got := ClampNonNegative(-1); got != 0 {
		t.Fatalf("expected clamp to zero, got %d", got)
	}
	if got := ClampNonNegative(42); got != 42 {
		t.Fatalf("expected passthrough, got %d", got)
	}
	if got := Min(10, 7); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	t.Parallel()

	if got := Cents(19900).Decimal().String(); got != "199" {
		t.Fatalf("expected 199, got %s", got)
	}
	if got := Cents(2950).Decimal().String(); got != "29.5" {
		t.Fatalf("expected 29.5, got %s", got)
	}
}
