package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cent is the smallest amount difference treated as significant.
var Cent = decimal.New(1, -2)

// ParseAmount parses a trimmed amount string. A leading '+' is accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount string '%s': %w", s, err)
	}
	return d, nil
}

// ParseAmountOrZero parses s and returns zero when it is blank or malformed.
func ParseAmountOrZero(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// AbsDiff returns |a - b|.
func AbsDiff(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b).Abs()
}

// WithinCent reports whether a and b differ by less than one cent.
func WithinCent(a, b decimal.Decimal) bool {
	return AbsDiff(a, b).LessThan(Cent)
}

// MaxDecimal returns the larger of a and b.
func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// FormatAmount renders an amount with two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
