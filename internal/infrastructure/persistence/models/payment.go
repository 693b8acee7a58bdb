package models

import (
	"time"

	"github.com/adboard/backend/internal/domain/collection"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is one row of the payment ledger
type PaymentModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ContractNumber string          `gorm:"type:varchar(64);not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PaidAt         time.Time       `gorm:"not null"`
	CreatedAt      time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model to the domain payment
func (m *PaymentModel) ToDomain() collection.Payment {
	return collection.Payment{
		ID:             m.ID.String(),
		ContractNumber: m.ContractNumber,
		Amount:         m.Amount,
		PaidAt:         m.PaidAt,
	}
}

// PaymentModelFromDomain converts a domain payment to its model.
// A missing or unparsable ID gets a fresh UUID.
func PaymentModelFromDomain(p collection.Payment) *PaymentModel {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		id = uuid.New()
	}
	return &PaymentModel{
		ID:             id,
		ContractNumber: p.ContractNumber,
		Amount:         p.Amount,
		PaidAt:         p.PaidAt,
	}
}
