package models

import (
	"time"

	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// MonthlyPriceModel is a custom package price for a number of months
type MonthlyPriceModel struct {
	ID        uint            `gorm:"primaryKey"`
	Size      string          `gorm:"type:varchar(32);not null;uniqueIndex:uq_pricing_monthly_key"`
	Level     string          `gorm:"type:varchar(16);not null;uniqueIndex:uq_pricing_monthly_key"`
	Category  string          `gorm:"type:varchar(64);not null;uniqueIndex:uq_pricing_monthly_key"`
	Duration  int             `gorm:"not null;uniqueIndex:uq_pricing_monthly_key"`
	Price     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (MonthlyPriceModel) TableName() string {
	return "pricing_monthly"
}

// ToDomain converts the row to a price table entry
func (m *MonthlyPriceModel) ToDomain() pricing.Entry {
	return pricing.Entry{
		Size:     m.Size,
		Level:    m.Level,
		Category: m.Category,
		Duration: m.Duration,
		Price:    m.Price,
	}
}

// DailyPriceModel is a custom per-day price
type DailyPriceModel struct {
	ID        uint            `gorm:"primaryKey"`
	Size      string          `gorm:"type:varchar(32);not null;uniqueIndex:uq_pricing_daily_key"`
	Level     string          `gorm:"type:varchar(16);not null;uniqueIndex:uq_pricing_daily_key"`
	Category  string          `gorm:"type:varchar(64);not null;uniqueIndex:uq_pricing_daily_key"`
	Price     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DailyPriceModel) TableName() string {
	return "pricing_daily"
}

// ToDomain converts the row to a price table entry keyed by the daily duration
func (m *DailyPriceModel) ToDomain() pricing.Entry {
	return pricing.Entry{
		Size:     m.Size,
		Level:    m.Level,
		Category: m.Category,
		Duration: pricing.DailyKeyDuration,
		Price:    m.Price,
	}
}

// AllModels lists every billing model, in dependency order
func AllModels() []any {
	return []any{
		&BillboardModel{},
		&ContractModel{},
		&PaymentModel{},
		&MonthlyPriceModel{},
		&DailyPriceModel{},
	}
}
