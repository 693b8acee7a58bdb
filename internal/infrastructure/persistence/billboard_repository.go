package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adboard/backend/internal/domain/contract"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/adboard/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBillboardRepository implements contract.BillboardRepository using GORM
type GormBillboardRepository struct {
	db *gorm.DB
}

// NewGormBillboardRepository creates a new GormBillboardRepository
func NewGormBillboardRepository(db *gorm.DB) *GormBillboardRepository {
	return &GormBillboardRepository{db: db}
}

// FindByID finds a billboard by its ID
func (r *GormBillboardRepository) FindByID(ctx context.Context, id string) (*contract.Billboard, error) {
	var m models.BillboardModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	b := m.ToDomain()
	return &b, nil
}

// FindByIDs finds the billboards with the given IDs; unknown IDs are ignored
func (r *GormBillboardRepository) FindByIDs(ctx context.Context, ids []string) ([]contract.Billboard, error) {
	if len(ids) == 0 {
		return []contract.Billboard{}, nil
	}
	var rows []models.BillboardModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toBillboards(rows), nil
}

// FindAll returns every billboard ordered by ID
func (r *GormBillboardRepository) FindAll(ctx context.Context) ([]contract.Billboard, error) {
	var rows []models.BillboardModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toBillboards(rows), nil
}

// List returns one page of billboards. Search matches ID, name or municipality;
// Filters may narrow on size, level and municipality.
func (r *GormBillboardRepository) List(ctx context.Context, filter shared.Filter) ([]contract.Billboard, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BillboardModel{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(id) LIKE ? OR LOWER(name) LIKE ? OR LOWER(municipality) LIKE ?", like, like, like)
	}
	for _, column := range []string{"size", "level", "municipality"} {
		if v, ok := filter.Filters[column]; ok && v != "" {
			query = query.Where(column+" = ?", v)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}
	orderBy := ValidateSortField(filter.OrderBy, BillboardSortFields, "id")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var rows []models.BillboardModel
	err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return toBillboards(rows), total, nil
}

func toBillboards(rows []models.BillboardModel) []contract.Billboard {
	out := make([]contract.Billboard, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ contract.BillboardRepository = (*GormBillboardRepository)(nil)
