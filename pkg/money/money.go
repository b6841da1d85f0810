package money

import "github.com/shopspring/decimal"

// Cents is a monetary amount in the currency's minor unit. All cart
// arithmetic runs on Cents so repeated additions stay exact; decimals only
// appear at rate multiplications and display boundaries.
type Cents int64

// Zero is the additive identity.
const Zero Cents = 0

// FromDecimal converts a major-unit decimal amount into Cents, rounding
// half-up at the minor unit.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Shift(2).Round(0).IntPart())
}

// Decimal returns the amount in major units, e.g. 19900 -> 199.00.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Shift(-2)
}

// MulInt multiplies the amount by an integer quantity.
func (c Cents) MulInt(qty int) Cents {
	return c * Cents(qty)
}

// ApplyRate multiplies the amount by a decimal rate and rounds half-up to
// the minor unit. Used for percentage discounts and tax.
func (c Cents) ApplyRate(rate decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(c)).Mul(rate).Round(0).IntPart())
}

// Min returns the smaller of the two amounts.
func Min(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}

// ClampNonNegative floors the amount at zero.
func ClampNonNegative(c Cents) Cents {
	if c < 0 {
		return 0
	}
	return c
}

// BasisPointsRate converts basis points into a multiplier, e.g. 1800 -> 0.18.
func BasisPointsRate(bps int) decimal.Decimal {
	return decimal.New(int64(bps), -4)
}

// PercentRate converts a percentage value into a multiplier, e.g. 20 -> 0.20.
func PercentRate(percent decimal.Decimal) decimal.Decimal {
	return percent.Shift(-2)
}
