package domain

import "github.com/shopspring/decimal"

// Amounts are unbounded integers carried as decimals. Fractional values are
// rejected at the edge of every operation.

// IsWhole reports whether d has no fractional part.
func IsWhole(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// ValidCreditAmount reports whether d is a strictly positive whole number.
func ValidCreditAmount(d decimal.Decimal) bool {
	return d.IsPositive() && IsWhole(d)
}

// ValidHydrogenAmount reports whether d is a non-negative whole number.
func ValidHydrogenAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && IsWhole(d)
}

// NormalizeAmount strips a zero fractional part so equal amounts render and
// hash identically.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(0)
}

// ParseAmount parses a decimal string into a normalized whole amount.
// ok is false when s is not a number or has a fractional part.
func ParseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || !IsWhole(d) {
		return decimal.Zero, false
	}
	return NormalizeAmount(d), true
}
