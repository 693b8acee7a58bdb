package billing

import (
	"context"
	"time"
	_ "time/tzdata"

	"github.com/adboard/backend/internal/domain/collection"
	"github.com/adboard/backend/internal/domain/contract"
	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockBillboardRepository is a mock implementation of contract.BillboardRepository
type MockBillboardRepository struct {
	mock.Mock
}

func (m *MockBillboardRepository) FindByID(ctx context.Context, id string) (*contract.Billboard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.Billboard), args.Error(1)
}

func (m *MockBillboardRepository) FindByIDs(ctx context.Context, ids []string) ([]contract.Billboard, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]contract.Billboard), args.Error(1)
}

func (m *MockBillboardRepository) FindAll(ctx context.Context) ([]contract.Billboard, error) {
	args := m.Called(ctx)
	return args.Get(0).([]contract.Billboard), args.Error(1)
}

func (m *MockBillboardRepository) List(ctx context.Context, filter shared.Filter) ([]contract.Billboard, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]contract.Billboard), args.Get(1).(int64), args.Error(2)
}

// MockContractRepository is a mock implementation of contract.ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByNumber(ctx context.Context, contractNumber string) (*contract.Contract, error) {
	args := m.Called(ctx, contractNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByCustomer(ctx context.Context, customerID string) ([]contract.Contract, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]contract.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context) ([]contract.Contract, error) {
	args := m.Called(ctx)
	return args.Get(0).([]contract.Contract), args.Error(1)
}

// MockPaymentRepository is a mock payment ledger
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByContractNumbers(ctx context.Context, contractNumbers []string) ([]collection.Payment, error) {
	args := m.Called(ctx, contractNumbers)
	return args.Get(0).([]collection.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, p collection.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockPriceWriter is a mock implementation of pricing.Writer
type MockPriceWriter struct {
	mock.Mock
}

func (m *MockPriceWriter) UpsertMonthly(ctx context.Context, e pricing.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockPriceWriter) UpsertDaily(ctx context.Context, e pricing.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// MockPricingTables is a mock implementation of PricingTables
type MockPricingTables struct {
	mock.Mock
}

func (m *MockPricingTables) Ensure(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPricingTables) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

var tripoli = mustLoadLocation("Africa/Tripoli")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, tripoli)
	return &t
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func billboard(id, size, level string) contract.Billboard {
	return contract.Billboard{
		ID:           id,
		Name:         "Board " + id,
		Size:         size,
		Level:        level,
		MonthlyPrice: dec("1000"),
		Municipality: "Tripoli",
	}
}
