package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/adboard/backend/internal/domain/collection"
	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/adboard/backend/internal/domain/shared/strategy"
)

// StrategyRegistry manages strategy registrations.
// Pricing tiers keep their registration order, which is the resolution order.
type StrategyRegistry struct {
	mu                   sync.RWMutex
	pricingTiers         []pricing.Tier
	allocationStrategies map[string]collection.AllocationStrategy
	defaults             map[strategy.StrategyType]string
}

// StrategyInfo describes a registered strategy
type StrategyInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Mode        string `json:"mode,omitempty"`
	Position    int    `json:"position,omitempty"`
	IsDefault   bool   `json:"is_default,omitempty"`
}

// NewStrategyRegistry creates a new strategy registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		pricingTiers:         make([]pricing.Tier, 0),
		allocationStrategies: make(map[string]collection.AllocationStrategy),
		defaults:             make(map[strategy.StrategyType]string),
	}
}

// RegisterPricingTier appends a tier to the end of its mode's chain
func (r *StrategyRegistry) RegisterPricingTier(t pricing.Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	for _, existing := range r.pricingTiers {
		if existing.Name() == name {
			return fmt.Errorf("%w: pricing tier '%s' already registered", shared.ErrAlreadyExists, name)
		}
	}
	r.pricingTiers = append(r.pricingTiers, t)
	return nil
}

// GetPricingTier returns a pricing tier by name
func (r *StrategyRegistry) GetPricingTier(name string) (pricing.Tier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.pricingTiers {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: pricing tier '%s' not found", shared.ErrNotFound, name)
}

// PricingTiers returns all pricing tiers in resolution order
func (r *StrategyRegistry) PricingTiers() []pricing.Tier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tiers := make([]pricing.Tier, len(r.pricingTiers))
	copy(tiers, r.pricingTiers)
	return tiers
}

// ListPricingTiers returns the tier names of a mode in resolution order
func (r *StrategyRegistry) ListPricingTiers(mode pricing.Mode) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.pricingTiers))
	for _, t := range r.pricingTiers {
		if t.Mode() == mode {
			names = append(names, t.Name())
		}
	}
	return names
}

// UnregisterPricingTier removes a pricing tier
func (r *StrategyRegistry) UnregisterPricingTier(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.pricingTiers {
		if t.Name() == name {
			r.pricingTiers = append(r.pricingTiers[:i], r.pricingTiers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: pricing tier '%s' not found", shared.ErrNotFound, name)
}

// Resolver builds a price resolver over the currently registered tiers
func (r *StrategyRegistry) Resolver() *pricing.Resolver {
	return pricing.NewResolver(r.PricingTiers()...)
}

// RegisterAllocationStrategy registers an installment allocation strategy
func (r *StrategyRegistry) RegisterAllocationStrategy(s collection.AllocationStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.allocationStrategies[name]; exists {
		return fmt.Errorf("%w: allocation strategy '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.allocationStrategies[name] = s
	return nil
}

// GetAllocationStrategy returns an allocation strategy by name, or the default if name is empty
func (r *StrategyRegistry) GetAllocationStrategy(name string) (collection.AllocationStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaults[strategy.StrategyTypeAllocation]
		if name == "" {
			return nil, fmt.Errorf("%w: no default allocation strategy set", shared.ErrNotFound)
		}
	}

	s, exists := r.allocationStrategies[name]
	if !exists {
		return nil, fmt.Errorf("%w: allocation strategy '%s' not found", shared.ErrNotFound, name)
	}
	return s, nil
}

// GetAllocationStrategyOrDefault returns an allocation strategy by name, or the default if not found
func (r *StrategyRegistry) GetAllocationStrategyOrDefault(name string) collection.AllocationStrategy {
	s, err := r.GetAllocationStrategy(name)
	if err != nil {
		s, _ = r.GetAllocationStrategy("")
	}
	return s
}

// ListAllocationStrategies returns all registered allocation strategy names
func (r *StrategyRegistry) ListAllocationStrategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.allocationStrategies))
	for name := range r.allocationStrategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnregisterAllocationStrategy removes an allocation strategy
func (r *StrategyRegistry) UnregisterAllocationStrategy(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.allocationStrategies[name]; !exists {
		return fmt.Errorf("%w: allocation strategy '%s' not found", shared.ErrNotFound, name)
	}
	delete(r.allocationStrategies, name)

	// Clear default if it was this strategy
	if r.defaults[strategy.StrategyTypeAllocation] == name {
		delete(r.defaults, strategy.StrategyTypeAllocation)
	}
	return nil
}

// SetDefault sets the default allocation strategy.
// Pricing tiers have no default; every tier of a mode is consulted in order.
func (r *StrategyRegistry) SetDefault(strategyType strategy.StrategyType, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strategyType != strategy.StrategyTypeAllocation {
		return fmt.Errorf("%w: strategy type '%s' has no default", shared.ErrInvalidInput, strategyType)
	}
	if _, exists := r.allocationStrategies[name]; !exists {
		return fmt.Errorf("%w: allocation strategy '%s' not found", shared.ErrNotFound, name)
	}
	r.defaults[strategyType] = name
	return nil
}

// GetDefault returns the default strategy name for a type
func (r *StrategyRegistry) GetDefault(strategyType strategy.StrategyType) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults[strategyType]
}

// Describe lists every registered strategy: pricing tiers in resolution order
// per mode, then allocation strategies by name
func (r *StrategyRegistry) Describe() []StrategyInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]StrategyInfo, 0, len(r.pricingTiers)+len(r.allocationStrategies))
	positions := make(map[pricing.Mode]int)
	for _, t := range r.pricingTiers {
		positions[t.Mode()]++
		infos = append(infos, StrategyInfo{
			Name:        t.Name(),
			Type:        string(t.Type()),
			Description: t.Description(),
			Mode:        t.Mode().String(),
			Position:    positions[t.Mode()],
		})
	}

	names := make([]string, 0, len(r.allocationStrategies))
	for name := range r.allocationStrategies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := r.allocationStrategies[name]
		infos = append(infos, StrategyInfo{
			Name:        s.Name(),
			Type:        string(s.Type()),
			Description: s.Description(),
			IsDefault:   r.defaults[strategy.StrategyTypeAllocation] == name,
		})
	}
	return infos
}
