package persistence

import (
	"context"
	"errors"

	"github.com/adboard/backend/internal/domain/contract"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/adboard/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContractRepository implements contract.ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByNumber finds a contract by its contract number
func (r *GormContractRepository) FindByNumber(ctx context.Context, contractNumber string) (*contract.Contract, error) {
	var m models.ContractModel
	if err := r.db.WithContext(ctx).First(&m, "contract_number = ?", contractNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	c := m.ToDomain()
	return &c, nil
}

// FindByCustomer returns the customer's contracts ordered by contract number
func (r *GormContractRepository) FindByCustomer(ctx context.Context, customerID string) ([]contract.Contract, error) {
	var rows []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("contract_number").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toContracts(rows), nil
}

// FindAll returns every contract ordered by contract number
func (r *GormContractRepository) FindAll(ctx context.Context) ([]contract.Contract, error) {
	var rows []models.ContractModel
	if err := r.db.WithContext(ctx).Order("contract_number").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toContracts(rows), nil
}

func toContracts(rows []models.ContractModel) []contract.Contract {
	out := make([]contract.Contract, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ contract.ContractRepository = (*GormContractRepository)(nil)
