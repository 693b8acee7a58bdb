package contract

import "github.com/shopspring/decimal"

// EditSession carries the state of one contract editing session.
// Once the user types a rent cost by hand, the computed estimate stops
// overwriting it for the rest of the session.
type EditSession struct {
	RentCostEdited bool
}

// MarkRentCostEdited records a manual rent cost edit. The flag never resets.
func (s *EditSession) MarkRentCostEdited() {
	s.RentCostEdited = true
}

// SyncRentCost returns the rent cost to show after a recomputation
func (s EditSession) SyncRentCost(computed, current decimal.Decimal) decimal.Decimal {
	if s.RentCostEdited {
		return current
	}
	return computed
}
