package models

import (
	"time"

	"github.com/adboard/backend/internal/domain/contract"
	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// ContractModel is the persistence model for a rental contract.
// The installment schedule is kept as the raw stored JSON.
type ContractModel struct {
	ContractNumber       string          `gorm:"type:varchar(64);primaryKey"`
	CustomerID           string          `gorm:"type:varchar(64);not null;index"`
	CustomerName         string          `gorm:"type:varchar(200);not null;default:''"`
	BillboardIDs         []string        `gorm:"column:billboard_ids;type:jsonb;serializer:json"`
	PricingMode          string          `gorm:"type:varchar(16);not null;default:'months'"`
	DurationMonths       int             `gorm:"not null;default:0"`
	DurationDays         int             `gorm:"not null;default:0"`
	PricingCategory      string          `gorm:"type:varchar(64);not null;default:''"`
	RentCost             decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	DiscountType         string          `gorm:"type:varchar(16);not null;default:'fixed'"`
	DiscountValue        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	InstallationCost     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	InstallationEnabled  bool            `gorm:"not null;default:false"`
	OperatingFeeRate     decimal.Decimal `gorm:"type:decimal(6,3);not null;default:0"`
	InstallmentsSchedule []byte          `gorm:"type:jsonb"`
	Total                decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalPaid            decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	StartDate            *time.Time
	EndDate              *time.Time `gorm:"index"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the model to the domain contract
func (m *ContractModel) ToDomain() contract.Contract {
	ids := m.BillboardIDs
	if ids == nil {
		ids = []string{}
	}
	return contract.Contract{
		ContractNumber:       m.ContractNumber,
		CustomerID:           m.CustomerID,
		CustomerName:         m.CustomerName,
		BillboardIDs:         ids,
		PricingMode:          pricing.Mode(m.PricingMode),
		DurationMonths:       m.DurationMonths,
		DurationDays:         m.DurationDays,
		PricingCategory:      m.PricingCategory,
		RentCost:             m.RentCost,
		DiscountType:         contract.DiscountType(m.DiscountType),
		DiscountValue:        m.DiscountValue,
		InstallationCost:     m.InstallationCost,
		InstallationEnabled:  m.InstallationEnabled,
		OperatingFeeRate:     m.OperatingFeeRate,
		InstallmentsSchedule: m.InstallmentsSchedule,
		Total:                m.Total,
		TotalPaid:            m.TotalPaid,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
	}
}

// ContractModelFromDomain converts a domain contract to its model
func ContractModelFromDomain(c contract.Contract) *ContractModel {
	discountType := string(c.DiscountType)
	if discountType == "" {
		discountType = string(contract.DiscountTypeFixed)
	}
	return &ContractModel{
		ContractNumber:       c.ContractNumber,
		CustomerID:           c.CustomerID,
		CustomerName:         c.CustomerName,
		BillboardIDs:         c.BillboardIDs,
		PricingMode:          c.Mode().String(),
		DurationMonths:       c.DurationMonths,
		DurationDays:         c.DurationDays,
		PricingCategory:      c.PricingCategory,
		RentCost:             c.RentCost,
		DiscountType:         discountType,
		DiscountValue:        c.DiscountValue,
		InstallationCost:     c.InstallationCost,
		InstallationEnabled:  c.InstallationEnabled,
		OperatingFeeRate:     c.OperatingFeeRate,
		InstallmentsSchedule: c.InstallmentsSchedule,
		Total:                c.Total,
		TotalPaid:            c.TotalPaid,
		StartDate:            c.StartDate,
		EndDate:              c.EndDate,
	}
}
