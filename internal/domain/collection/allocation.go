package collection

import (
	"time"

	"github.com/adboard/backend/internal/domain/shared/strategy"
	"github.com/adboard/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AllocationTarget is an installment that is due for allocation
type AllocationTarget struct {
	Installment Installment
	DaysOverdue int
}

// AllocationLine is the allocation result for one target
type AllocationLine struct {
	Installment Installment
	DaysOverdue int
	Allocated   decimal.Decimal
	Overdue     decimal.Decimal
}

// AllocationOutcome is the result of applying a payment pool to targets
type AllocationOutcome struct {
	Lines          []AllocationLine
	TotalAllocated decimal.Decimal
	Remaining      decimal.Decimal
}

// AllocationStrategy applies a contract's payment pool to its overdue installments
type AllocationStrategy interface {
	strategy.Strategy
	// Allocate distributes pool across targets. Targets arrive sorted by due date.
	Allocate(pool decimal.Decimal, targets []AllocationTarget) AllocationOutcome
}

// FIFOInstallmentStrategy pays the earliest due installment first.
// Each installment takes min(amount, remaining pool); the walk is sequential,
// not a globally optimal assignment.
type FIFOInstallmentStrategy struct {
	strategy.BaseStrategy
}

// FIFOInstallmentStrategyName is the registry name of FIFOInstallmentStrategy
const FIFOInstallmentStrategyName = "fifo_installments"

// NewFIFOInstallmentStrategy creates a new FIFO installment allocation strategy
func NewFIFOInstallmentStrategy() *FIFOInstallmentStrategy {
	return &FIFOInstallmentStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			FIFOInstallmentStrategyName,
			strategy.StrategyTypeAllocation,
			"Applies cumulative contract payments to overdue installments, earliest due date first",
		),
	}
}

// Allocate walks targets in order and applies the pool
func (s *FIFOInstallmentStrategy) Allocate(pool decimal.Decimal, targets []AllocationTarget) AllocationOutcome {
	remaining := pool
	totalAllocated := decimal.Zero
	lines := make([]AllocationLine, 0, len(targets))

	for _, target := range targets {
		amount := target.Installment.Amount
		allocated := decimal.Min(amount, valueobject.NonNegative(remaining))
		if allocated.IsNegative() {
			allocated = decimal.Zero
		}
		overdue := valueobject.NonNegative(amount.Sub(allocated))
		remaining = remaining.Sub(allocated)
		totalAllocated = totalAllocated.Add(allocated)

		lines = append(lines, AllocationLine{
			Installment: target.Installment,
			DaysOverdue: target.DaysOverdue,
			Allocated:   allocated,
			Overdue:     overdue,
		})
	}

	return AllocationOutcome{
		Lines:          lines,
		TotalAllocated: totalAllocated,
		Remaining:      remaining,
	}
}

// DaysOverdue returns the number of calendar days from dueDate to now in loc.
// Zero or negative means the installment is not overdue.
func DaysOverdue(dueDate, now time.Time, loc *time.Location) int {
	return valueobject.CalendarDaysBetween(dueDate, now, loc)
}

var _ AllocationStrategy = (*FIFOInstallmentStrategy)(nil)
