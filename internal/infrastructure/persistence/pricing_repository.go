package persistence

import (
	"context"

	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/adboard/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPricingRepository implements pricing.Repository using GORM
type GormPricingRepository struct {
	db *gorm.DB
}

// NewGormPricingRepository creates a new GormPricingRepository
func NewGormPricingRepository(db *gorm.DB) *GormPricingRepository {
	return &GormPricingRepository{db: db}
}

// ListMonthly returns every custom package price
func (r *GormPricingRepository) ListMonthly(ctx context.Context) ([]pricing.Entry, error) {
	var rows []models.MonthlyPriceModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]pricing.Entry, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// ListDaily returns every custom per-day price
func (r *GormPricingRepository) ListDaily(ctx context.Context) ([]pricing.Entry, error) {
	var rows []models.DailyPriceModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]pricing.Entry, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// UpsertMonthly stores a package price, replacing the price of an existing key
func (r *GormPricingRepository) UpsertMonthly(ctx context.Context, e pricing.Entry) error {
	k := e.Key()
	row := models.MonthlyPriceModel{Size: k.Size, Level: k.Level, Category: k.Category, Duration: k.Duration, Price: e.Price}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "size"}, {Name: "level"}, {Name: "category"}, {Name: "duration"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
	}).Create(&row).Error
}

// UpsertDaily stores a per-day price, replacing the price of an existing key
func (r *GormPricingRepository) UpsertDaily(ctx context.Context, e pricing.Entry) error {
	k := e.Key()
	row := models.DailyPriceModel{Size: k.Size, Level: k.Level, Category: k.Category, Price: e.Price}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "size"}, {Name: "level"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
	}).Create(&row).Error
}

var (
	_ pricing.Repository = (*GormPricingRepository)(nil)
	_ pricing.Writer     = (*GormPricingRepository)(nil)
)
