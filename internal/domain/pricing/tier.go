package pricing

import (
	"github.com/adboard/backend/internal/domain/shared/strategy"
	"github.com/adboard/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DailyKeyDuration is the duration stored on daily price rows; a daily row
// holds the price of one day regardless of the requested number of days.
const DailyKeyDuration = 1

// Tier is one layer of the price fallback chain
type Tier interface {
	strategy.Strategy
	// Mode returns the pricing mode the tier answers for
	Mode() Mode
	// Resolve returns the price for q, or false when the tier has no opinion
	Resolve(q Query) (decimal.Decimal, bool)
}

// LookupTier answers from a single price table
type LookupTier struct {
	strategy.BaseStrategy
	mode   Mode
	source Source
}

// NewMonthlyLookupTier creates a tier that looks up the package price for
// the exact requested number of months
func NewMonthlyLookupTier(name, description string, source Source) *LookupTier {
	return &LookupTier{
		BaseStrategy: strategy.NewBaseStrategy(name, strategy.StrategyTypePricingTier, description),
		mode:         ModeMonths,
		source:       source,
	}
}

// NewDailyLookupTier creates a tier that looks up the per-day price
func NewDailyLookupTier(name, description string, source Source) *LookupTier {
	return &LookupTier{
		BaseStrategy: strategy.NewBaseStrategy(name, strategy.StrategyTypePricingTier, description),
		mode:         ModeDays,
		source:       source,
	}
}

// Mode returns the pricing mode of the tier
func (t *LookupTier) Mode() Mode {
	return t.mode
}

// Resolve looks the query up in the underlying table
func (t *LookupTier) Resolve(q Query) (decimal.Decimal, bool) {
	if t.source == nil {
		return decimal.Zero, false
	}
	key := q.Key()
	if t.mode == ModeDays {
		key = key.WithDuration(DailyKeyDuration)
	}
	return t.source.Lookup(key)
}

// DerivedDailyTier derives a daily price from the one-month package price.
// Sources are consulted in order and the first hit is divided by DaysPerMonth.
type DerivedDailyTier struct {
	strategy.BaseStrategy
	sources []Source
}

// NewDerivedDailyTier creates a derived daily tier over the given monthly sources
func NewDerivedDailyTier(sources ...Source) *DerivedDailyTier {
	return &DerivedDailyTier{
		BaseStrategy: strategy.NewBaseStrategy(
			TierDerivedDaily,
			strategy.StrategyTypePricingTier,
			"Daily price derived from the one-month price divided by 30",
		),
		sources: sources,
	}
}

// Mode returns ModeDays
func (t *DerivedDailyTier) Mode() Mode {
	return ModeDays
}

// Resolve divides the first known one-month price by DaysPerMonth
func (t *DerivedDailyTier) Resolve(q Query) (decimal.Decimal, bool) {
	key := q.Key().WithDuration(1)
	for _, src := range t.sources {
		if src == nil {
			continue
		}
		if monthly, ok := src.Lookup(key); ok {
			daily := monthly.Div(decimal.NewFromInt(DaysPerMonth))
			return valueobject.RoundCurrency(daily), true
		}
	}
	return decimal.Zero, false
}

// ZeroTier is the terminal daily tier: it always answers zero
type ZeroTier struct {
	strategy.BaseStrategy
}

// NewZeroTier creates the terminal daily tier
func NewZeroTier() *ZeroTier {
	return &ZeroTier{
		BaseStrategy: strategy.NewBaseStrategy(
			TierZeroDaily,
			strategy.StrategyTypePricingTier,
			"Terminal daily tier, prices unknown combinations at zero",
		),
	}
}

// Mode returns ModeDays
func (t *ZeroTier) Mode() Mode {
	return ModeDays
}

// Resolve always returns zero
func (t *ZeroTier) Resolve(Query) (decimal.Decimal, bool) {
	return decimal.Zero, true
}

// Tier names used by DefaultTiers
const (
	TierCustomMonthly = "custom_monthly"
	TierStaticMonthly = "static_monthly"
	TierCustomDaily   = "custom_daily"
	TierStaticDaily   = "static_daily"
	TierDerivedDaily  = "derived_daily"
	TierZeroDaily     = "zero_daily"
)

// DefaultTiers builds the standard fallback chain:
//
//	months: custom -> static
//	days:   custom daily -> static daily -> derived from 1 month (custom, static) -> zero
func DefaultTiers(customMonthly, customDaily Source) []Tier {
	staticMonthly := StaticMonthlyTable()
	return []Tier{
		NewMonthlyLookupTier(TierCustomMonthly, "Persisted custom package prices", customMonthly),
		NewMonthlyLookupTier(TierStaticMonthly, "Compiled-in reference package prices", staticMonthly),
		NewDailyLookupTier(TierCustomDaily, "Persisted custom daily prices", customDaily),
		NewDailyLookupTier(TierStaticDaily, "Compiled-in reference daily prices", StaticDailyTable()),
		NewDerivedDailyTier(customMonthly, staticMonthly),
		NewZeroTier(),
	}
}

var (
	_ Tier = (*LookupTier)(nil)
	_ Tier = (*DerivedDailyTier)(nil)
	_ Tier = (*ZeroTier)(nil)
)
