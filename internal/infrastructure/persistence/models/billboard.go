package models

import (
	"time"

	"github.com/adboard/backend/internal/domain/contract"
	"github.com/shopspring/decimal"
)

// BillboardModel is the persistence model for a billboard
type BillboardModel struct {
	ID                string          `gorm:"type:varchar(64);primaryKey"`
	Name              string          `gorm:"type:varchar(200);not null;default:''"`
	Size              string          `gorm:"type:varchar(32);not null"`
	Level             string          `gorm:"type:varchar(16);not null"`
	MonthlyPrice      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Municipality      string          `gorm:"type:varchar(120);not null;default:''"`
	ContractNumber    string          `gorm:"type:varchar(64);not null;default:'';index"`
	StartDate         *time.Time
	EndDate           *time.Time
	Status            string `gorm:"type:varchar(64);not null;default:''"`
	MaintenanceStatus string `gorm:"type:varchar(64);not null;default:''"`
	MaintenanceType   string `gorm:"type:varchar(64);not null;default:''"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name for GORM
func (BillboardModel) TableName() string {
	return "billboards"
}

// ToDomain converts the model to the domain billboard
func (m *BillboardModel) ToDomain() contract.Billboard {
	return contract.Billboard{
		ID:                m.ID,
		Name:              m.Name,
		Size:              m.Size,
		Level:             m.Level,
		MonthlyPrice:      m.MonthlyPrice,
		Municipality:      m.Municipality,
		ContractNumber:    m.ContractNumber,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		Status:            m.Status,
		MaintenanceStatus: m.MaintenanceStatus,
		MaintenanceType:   m.MaintenanceType,
	}
}

// BillboardModelFromDomain converts a domain billboard to its model
func BillboardModelFromDomain(b contract.Billboard) *BillboardModel {
	return &BillboardModel{
		ID:                b.ID,
		Name:              b.Name,
		Size:              b.Size,
		Level:             b.Level,
		MonthlyPrice:      b.MonthlyPrice,
		Municipality:      b.Municipality,
		ContractNumber:    b.ContractNumber,
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
		Status:            b.Status,
		MaintenanceStatus: b.MaintenanceStatus,
		MaintenanceType:   b.MaintenanceType,
	}
}
