package persistence

import (
	"context"

	"github.com/adboard/backend/internal/domain/collection"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/adboard/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements collection.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByContractNumbers returns the payments of the given contracts, oldest first
func (r *GormPaymentRepository) FindByContractNumbers(ctx context.Context, contractNumbers []string) ([]collection.Payment, error) {
	if len(contractNumbers) == 0 {
		return []collection.Payment{}, nil
	}
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("contract_number IN ?", contractNumbers).
		Order("paid_at, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]collection.Payment, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Create appends a payment and adds its amount to the contract's total_paid
// in one transaction. An unknown contract yields shared.ErrNotFound and
// nothing is written.
func (r *GormPaymentRepository) Create(ctx context.Context, p collection.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ContractModel{}).
			Where("contract_number = ?", p.ContractNumber).
			Update("total_paid", gorm.Expr("total_paid + ?", p.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Create(models.PaymentModelFromDomain(p)).Error
	})
}

var (
	_ collection.PaymentRepository = (*GormPaymentRepository)(nil)
	_ collection.PaymentRecorder   = (*GormPaymentRepository)(nil)
)
