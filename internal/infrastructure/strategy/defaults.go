package strategy

import (
	"github.com/adboard/backend/internal/domain/collection"
	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/adboard/backend/internal/domain/shared/strategy"
)

// NewRegistryWithDefaults creates a registry holding the standard pricing
// fallback chain over the given custom sources and the FIFO installment
// allocation strategy as default.
func NewRegistryWithDefaults(customMonthly, customDaily pricing.Source) (*StrategyRegistry, error) {
	r := NewStrategyRegistry()

	// Register pricing tiers in resolution order
	for _, tier := range pricing.DefaultTiers(customMonthly, customDaily) {
		if err := r.RegisterPricingTier(tier); err != nil {
			return nil, err
		}
	}

	// Register allocation strategies
	fifo := collection.NewFIFOInstallmentStrategy()
	if err := r.RegisterAllocationStrategy(fifo); err != nil {
		return nil, err
	}

	if err := r.SetDefault(strategy.StrategyTypeAllocation, fifo.Name()); err != nil {
		return nil, err
	}

	return r, nil
}
