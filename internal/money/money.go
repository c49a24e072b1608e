// Package money centralises monetary arithmetic. Every discount and tax
// computation in the pricing pipeline routes through these helpers so the
// rounding convention (two decimal places, half-up) is applied exactly once
// and binary-float drift never enters persisted totals.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvariant reports a monetary invariant violation such as a discount
// exceeding its base or a negative total. Callers treat it as a hard
// failure rather than clamping past the floor.
var ErrInvariant = errors.New("money: arithmetic invariant violated")

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// Round2 rounds to two decimal places using half-up rounding.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// ClampNonNegative returns v, or zero when v is negative.
func ClampNonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// Percent returns base * pct / 100, rounded to two places.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(pct).Div(decimal.NewFromInt(100)))
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Rate returns part/whole, or zero when whole is zero. Used to derive the
// blended tax rate of a quote's lines.
func Rate(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole)
}

// FromCents builds an amount from an integer number of minor units.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
