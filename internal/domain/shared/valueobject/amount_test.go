package valueobject

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSafeDecimal(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected decimal.Decimal
	}{
		{"finite value is kept", 1250.75, decimal.NewFromFloat(1250.75)},
		{"NaN becomes zero", math.NaN(), decimal.Zero},
		{"positive infinity becomes zero", math.Inf(1), decimal.Zero},
		{"negative infinity becomes zero", math.Inf(-1), decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, SafeDecimal(tt.input).Equal(tt.expected))
		})
	}
}

func TestParseAmount(t *testing.T) {
	assert.True(t, ParseAmount("1,500.25").Equal(decimal.RequireFromString("1500.25")))
	assert.True(t, ParseAmount(" 300 ").Equal(decimal.NewFromInt(300)))
	assert.True(t, ParseAmount("").IsZero())
	assert.True(t, ParseAmount("abc").IsZero())
}

func TestClampPercent(t *testing.T) {
	t.Run("values inside range are unchanged", func(t *testing.T) {
		assert.True(t, ClampPercent(decimal.NewFromInt(35)).Equal(decimal.NewFromInt(35)))
		assert.True(t, ClampPercent(decimal.Zero).IsZero())
		assert.True(t, ClampPercent(decimal.NewFromInt(100)).Equal(decimal.NewFromInt(100)))
	})

	t.Run("out of range values hit the boundary", func(t *testing.T) {
		assert.True(t, ClampPercent(decimal.NewFromInt(-5)).IsZero())
		assert.True(t, ClampPercent(decimal.NewFromInt(250)).Equal(decimal.NewFromInt(100)))
	})

	t.Run("clamp is idempotent", func(t *testing.T) {
		for _, v := range []int64{-40, 0, 50, 100, 180} {
			once := ClampPercent(decimal.NewFromInt(v))
			assert.True(t, ClampPercent(once).Equal(once))
		}
	})
}

func TestRoundCurrencyAndNonNegative(t *testing.T) {
	assert.True(t, RoundCurrency(decimal.RequireFromString("10.005")).Equal(decimal.RequireFromString("10.01")))
	assert.True(t, RoundCurrency(decimal.RequireFromString("10.004")).Equal(decimal.RequireFromString("10.00")))
	assert.True(t, NonNegative(decimal.NewFromInt(-1)).IsZero())
	assert.True(t, NonNegative(decimal.NewFromInt(7)).Equal(decimal.NewFromInt(7)))
	assert.True(t, PercentOf(decimal.NewFromInt(2000), decimal.NewFromInt(15)).Equal(decimal.NewFromInt(300)))
}
