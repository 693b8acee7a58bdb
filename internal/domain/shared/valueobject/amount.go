package valueobject

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places kept for billed amounts
const CurrencyPlaces = 2

var hundred = decimal.NewFromInt(100)

// SafeDecimal converts a float to a decimal, coercing NaN and infinities to zero
func SafeDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// ParseAmount parses a user or storage supplied amount.
// Thousands separators are ignored; anything unparseable yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundCurrency rounds an amount half away from zero to CurrencyPlaces
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// NonNegative returns d, or zero when d is negative
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ClampPercent limits a percentage to the closed range [0, 100]
func ClampPercent(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}

// PercentOf returns base * percent / 100 without rounding
func PercentOf(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred)
}
