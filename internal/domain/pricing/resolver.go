package pricing

import (
	"github.com/shopspring/decimal"
)

// Resolution is the outcome of a price lookup
type Resolution struct {
	Price decimal.Decimal
	// Tier is the name of the tier that answered, empty on a miss
	Tier  string
	Found bool
}

// Resolver walks an ordered list of tiers per mode.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	tiers map[Mode][]Tier
}

// NewResolver creates a resolver. Tiers keep their relative order within a mode.
func NewResolver(tiers ...Tier) *Resolver {
	byMode := make(map[Mode][]Tier)
	for _, t := range tiers {
		if t == nil {
			continue
		}
		byMode[t.Mode()] = append(byMode[t.Mode()], t)
	}
	return &Resolver{tiers: byMode}
}

// NewDefaultResolver creates a resolver over DefaultTiers
func NewDefaultResolver(customMonthly, customDaily Source) *Resolver {
	return NewResolver(DefaultTiers(customMonthly, customDaily)...)
}

// Tiers returns the tiers consulted for mode, in order
func (r *Resolver) Tiers(mode Mode) []Tier {
	result := make([]Tier, len(r.tiers[mode]))
	copy(result, r.tiers[mode])
	return result
}

// Resolve returns the first tier answer for q
func (r *Resolver) Resolve(q Query) Resolution {
	for _, t := range r.tiers[q.Mode] {
		if price, ok := t.Resolve(q); ok {
			return Resolution{Price: price, Tier: t.Name(), Found: true}
		}
	}
	return Resolution{Price: decimal.Zero}
}

// ResolvePrice returns the resolved price for q.
// In months mode a miss returns false and the caller applies its own fallback.
// In days mode the default chain ends with a zero tier, so a price is always found.
func (r *Resolver) ResolvePrice(q Query) (decimal.Decimal, bool) {
	res := r.Resolve(q)
	return res.Price, res.Found
}
