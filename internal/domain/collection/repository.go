package collection

import "context"

// PaymentRepository loads payment ledger rows
type PaymentRepository interface {
	FindByContractNumbers(ctx context.Context, contractNumbers []string) ([]Payment, error)
}

// PaymentRecorder appends rows to the payment ledger
type PaymentRecorder interface {
	// Create stores the payment and raises the contract's TotalPaid by its
	// amount atomically; shared.ErrNotFound when the contract does not exist
	Create(ctx context.Context, p Payment) error
}
