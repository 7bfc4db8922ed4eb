package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money values travel through the system as int64 minor units
// (centavos). The decimal boundary exists only to parse and render
// the two-decimal string representation the API uses; no float64
// ever touches an amount.

var minorUnitScale = decimal.NewFromInt(100)

// ParseAmount converts a decimal string such as "1250.75" into minor
// units. It rejects non-numeric input, zero, negative values, and
// anything with more than 2 fractional digits.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("ParseAmount: %q: %w", s, ErrInvalidAmount)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("ParseAmount: %q is not positive: %w", s, ErrInvalidAmount)
	}

	minor := d.Mul(minorUnitScale)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("ParseAmount: %q has more than 2 decimal places: %w", s, ErrInvalidAmount)
	}
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("ParseAmount: %q out of range: %w", s, ErrInvalidAmount)
	}
	return minor.IntPart(), nil
}

// FormatAmount renders minor units as a two-decimal string, e.g.
// 125075 -> "1250.75".
func FormatAmount(minor int64) string {
	return decimal.NewFromInt(minor).Div(minorUnitScale).StringFixed(2)
}
