package contract

import (
	"context"

	"github.com/adboard/backend/internal/domain/shared"
)

// BillboardRepository loads billboards
type BillboardRepository interface {
	// FindByID returns shared.ErrNotFound when the billboard does not exist
	FindByID(ctx context.Context, id string) (*Billboard, error)
	FindByIDs(ctx context.Context, ids []string) ([]Billboard, error)
	FindAll(ctx context.Context) ([]Billboard, error)
	// List returns one page of billboards matching filter and the total match count
	List(ctx context.Context, filter shared.Filter) ([]Billboard, int64, error)
}

// ContractRepository loads contracts
type ContractRepository interface {
	// FindByNumber returns shared.ErrNotFound when the contract does not exist
	FindByNumber(ctx context.Context, contractNumber string) (*Contract, error)
	FindByCustomer(ctx context.Context, customerID string) ([]Contract, error)
	FindAll(ctx context.Context) ([]Contract, error)
}
