package collection

import (
	"fmt"
	"time"

	"github.com/adboard/backend/internal/domain/contract"
)

// SkippedContract records a contract left out of a reconciliation run
type SkippedContract struct {
	ContractNumber string
	Err            error
}

// ReconcileReport is the result of a reconciliation run
type ReconcileReport struct {
	Overdue []OverdueInstallment
	Skipped []SkippedContract
}

// Reconciler computes overdue installments from schedules and payments.
// It is stateless apart from its configuration and safe for concurrent use.
type Reconciler struct {
	loc      *time.Location
	strategy AllocationStrategy
}

// ReconcilerOption configures a Reconciler
type ReconcilerOption func(*Reconciler)

// WithLocation sets the time zone used for due dates and day counts
func WithLocation(loc *time.Location) ReconcilerOption {
	return func(r *Reconciler) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithAllocationStrategy replaces the FIFO allocation strategy
func WithAllocationStrategy(s AllocationStrategy) ReconcilerOption {
	return func(r *Reconciler) {
		if s != nil {
			r.strategy = s
		}
	}
}

// NewReconciler creates a reconciler using FIFO allocation in UTC by default
func NewReconciler(opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		loc:      time.UTC,
		strategy: NewFIFOInstallmentStrategy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Location returns the reconciler's time zone
func (r *Reconciler) Location() *time.Location {
	return r.loc
}

// Strategy returns the allocation strategy in use
func (r *Reconciler) Strategy() AllocationStrategy {
	return r.strategy
}

// Reconcile returns the overdue installments of all contracts as of now.
// Contracts whose schedule cannot be decoded contribute nothing.
func (r *Reconciler) Reconcile(contracts []contract.Contract, paymentsByContract map[string][]Payment, now time.Time) []OverdueInstallment {
	return r.ReconcileWithReport(contracts, paymentsByContract, now).Overdue
}

// ReconcileWithReport is Reconcile that also reports the skipped contracts
func (r *Reconciler) ReconcileWithReport(contracts []contract.Contract, paymentsByContract map[string][]Payment, now time.Time) ReconcileReport {
	report := ReconcileReport{Overdue: []OverdueInstallment{}}
	for _, c := range contracts {
		records, err := r.ReconcileContract(c, paymentsByContract[c.ContractNumber], now)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedContract{ContractNumber: c.ContractNumber, Err: err})
			continue
		}
		report.Overdue = append(report.Overdue, records...)
	}
	return report
}

// ReconcileContract returns the overdue installments of one contract
func (r *Reconciler) ReconcileContract(c contract.Contract, payments []Payment, now time.Time) ([]OverdueInstallment, error) {
	outcome, err := r.Allocate(c, payments, now)
	if err != nil {
		return nil, err
	}

	records := make([]OverdueInstallment, 0)
	for _, line := range outcome.Lines {
		if !line.Overdue.IsPositive() {
			continue
		}
		records = append(records, OverdueInstallment{
			ContractNumber:    c.ContractNumber,
			CustomerName:      c.CustomerName,
			CustomerID:        c.CustomerID,
			InstallmentAmount: line.Overdue,
			DueDate:           line.Installment.DueDate,
			Description:       line.Installment.Description,
			DaysOverdue:       line.DaysOverdue,
		})
	}
	return records, nil
}

// Allocate applies a contract's payments to its overdue installments and
// returns every allocation line, including fully paid ones
func (r *Reconciler) Allocate(c contract.Contract, payments []Payment, now time.Time) (AllocationOutcome, error) {
	installments, err := ParseSchedule(c.InstallmentsSchedule, r.loc)
	if err != nil {
		return AllocationOutcome{}, fmt.Errorf("contract %s: %w", c.ContractNumber, err)
	}

	targets := make([]AllocationTarget, 0, len(installments))
	for _, inst := range installments {
		days := DaysOverdue(inst.DueDate, now, r.loc)
		if days <= 0 {
			continue
		}
		targets = append(targets, AllocationTarget{Installment: inst, DaysOverdue: days})
	}

	return r.strategy.Allocate(SumPayments(payments), targets), nil
}
