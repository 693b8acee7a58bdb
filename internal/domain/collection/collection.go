// Package collection reconciles cumulative contract payments against
// installment schedules and derives overdue records and customer rollups.
//
// Payments are never tied to a specific installment. A contract's payments are
// summed into one pool which is applied to overdue installments in due date
// order (FIFO). Installments that are not yet due neither emit records nor
// consume the pool.
package collection

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment is one scheduled partial payment of a contract
type Installment struct {
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"dueDate"`
	Description string          `json:"description"`
}

// Payment is an append-only ledger row for a contract
type Payment struct {
	ID             string
	ContractNumber string
	Amount         decimal.Decimal
	PaidAt         time.Time
}

// SumPayments returns the total amount of the given payments
func SumPayments(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// GroupPaymentsByContract indexes payments by contract number
func GroupPaymentsByContract(payments []Payment) map[string][]Payment {
	grouped := make(map[string][]Payment)
	for _, p := range payments {
		grouped[p.ContractNumber] = append(grouped[p.ContractNumber], p)
	}
	return grouped
}

// OverdueInstallment is the unpaid part of an installment whose due date has passed
type OverdueInstallment struct {
	ContractNumber    string          `json:"contract_number"`
	CustomerName      string          `json:"customer_name"`
	CustomerID        string          `json:"customer_id"`
	// InstallmentAmount is the overdue remainder, not the scheduled amount
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	DueDate           time.Time       `json:"due_date"`
	Description       string          `json:"description"`
	DaysOverdue       int             `json:"days_overdue"`
}
