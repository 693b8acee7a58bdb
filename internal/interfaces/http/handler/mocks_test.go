package handler

import (
	"context"
	"errors"

	"github.com/adboard/backend/internal/application/billing"
	"github.com/adboard/backend/internal/domain/collection"
	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/adboard/backend/internal/infrastructure/cache"
	"github.com/adboard/backend/internal/infrastructure/strategy"
	"github.com/stretchr/testify/mock"
)

// MockPricingService is a mock implementation of PricingService
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) Estimate(ctx context.Context, req billing.EstimateRequest) (*billing.EstimateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.EstimateResponse), args.Error(1)
}

func (m *MockPricingService) Resolve(ctx context.Context, req billing.ResolvePriceRequest) (*billing.ResolvePriceResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ResolvePriceResponse), args.Error(1)
}

func (m *MockPricingService) UpsertCustomPrice(ctx context.Context, req billing.UpsertCustomPriceRequest) (*pricing.Entry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Entry), args.Error(1)
}

// MockCollectionService is a mock implementation of CollectionService
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) CustomerOverdue(ctx context.Context, customerID string) (*billing.CustomerOverdueResponse, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CustomerOverdueResponse), args.Error(1)
}

func (m *MockCollectionService) OverdueSummaries(ctx context.Context) (*billing.OverdueSummariesResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.OverdueSummariesResponse), args.Error(1)
}

func (m *MockCollectionService) FleetTopOverdue(ctx context.Context, n int) ([]collection.FleetOverdueContract, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]collection.FleetOverdueContract), args.Error(1)
}

func (m *MockCollectionService) ContractStatement(ctx context.Context, contractNumber string) (*billing.ContractStatementResponse, error) {
	args := m.Called(ctx, contractNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ContractStatementResponse), args.Error(1)
}

func (m *MockCollectionService) RecordPayment(ctx context.Context, req billing.RecordPaymentRequest) (*billing.PaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentResponse), args.Error(1)
}

func (m *MockCollectionService) PreviewSchedule(ctx context.Context, contractNumber string, req billing.SchedulePreviewRequest) (*billing.SchedulePreviewResponse, error) {
	args := m.Called(ctx, contractNumber, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SchedulePreviewResponse), args.Error(1)
}

// MockAvailabilityService is a mock implementation of AvailabilityService
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) Availability(ctx context.Context, billboardID string) (*billing.BillboardAvailability, error) {
	args := m.Called(ctx, billboardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillboardAvailability), args.Error(1)
}

func (m *MockAvailabilityService) ListAvailable(ctx context.Context) ([]billing.BillboardAvailability, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.BillboardAvailability), args.Error(1)
}

func (m *MockAvailabilityService) ListBillboards(ctx context.Context, filter shared.Filter) ([]billing.BillboardAvailability, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billing.BillboardAvailability), args.Get(1).(int64), args.Error(2)
}

func (m *MockAvailabilityService) ContractStatus(ctx context.Context, contractNumber string) (*billing.ContractStatusResponse, error) {
	args := m.Called(ctx, contractNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ContractStatusResponse), args.Error(1)
}

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakeCacheStats struct {
	stats cache.CacheStats
}

func (f fakeCacheStats) Stats() cache.CacheStats { return f.stats }

type fakeStrategies struct {
	infos []strategy.StrategyInfo
}

func (f fakeStrategies) Describe() []strategy.StrategyInfo { return f.infos }

var errDatabaseDown = errors.New("connection refused")
