package billing

import (
	"context"
	"testing"
	"time"

	"github.com/adboard/backend/internal/domain/contract"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var availabilityNow = time.Date(2024, time.June, 10, 9, 30, 0, 0, tripoli)

func newAvailabilityService(billboards *MockBillboardRepository, contracts *MockContractRepository) *AvailabilityService {
	return NewAvailabilityService(billboards, contracts, contract.NewClassifier(tripoli, 30), fixedClock(availabilityNow))
}

func TestAvailabilityService_Availability(t *testing.T) {
	booked := func(end *time.Time) contract.Billboard {
		b := billboard("B1", "12x4", "A")
		b.ContractNumber = "C-1"
		b.EndDate = end
		return b
	}
	repair := billboard("B1", "12x4", "A")
	repair.MaintenanceStatus = " Under_Maintenance "

	tests := []struct {
		name          string
		board         contract.Billboard
		wantAvailable bool
		wantReason    string
		wantDays      *int
	}{
		{name: "no contract", board: billboard("B1", "12x4", "A"), wantAvailable: true, wantReason: ReasonFree},
		{name: "contract ended yesterday", board: booked(date(2024, time.June, 9)), wantAvailable: true, wantReason: ReasonContractEnded},
		{name: "contract ends today", board: booked(date(2024, time.June, 10)), wantAvailable: false, wantReason: ReasonUnderContract, wantDays: intPtr(1)},
		{name: "contract ends next week", board: booked(date(2024, time.June, 17)), wantAvailable: false, wantReason: ReasonUnderContract, wantDays: intPtr(8)},
		{name: "open ended contract", board: booked(nil), wantAvailable: false, wantReason: ReasonOpenEnded},
		{name: "maintenance overrides free", board: repair, wantAvailable: false, wantReason: ReasonMaintenance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			billboards := new(MockBillboardRepository)
			board := tt.board
			billboards.On("FindByID", mock.Anything, "B1").Return(&board, nil)

			got, err := newAvailabilityService(billboards, new(MockContractRepository)).Availability(context.Background(), "B1")
			require.NoError(t, err)

			assert.Equal(t, tt.wantAvailable, got.Available)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, tt.wantDays, got.DaysUntilExpiry)
			assert.Equal(t, "Board B1", got.Name)
		})
	}

	t.Run("unknown billboard", func(t *testing.T) {
		billboards := new(MockBillboardRepository)
		billboards.On("FindByID", mock.Anything, "B404").Return(nil, shared.ErrNotFound)

		_, err := newAvailabilityService(billboards, new(MockContractRepository)).Availability(context.Background(), "B404")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestAvailabilityService_ListAvailable(t *testing.T) {
	free := billboard("B1", "12x4", "A")
	taken := billboard("B2", "12x4", "A")
	taken.ContractNumber = "C-2"
	taken.EndDate = date(2024, time.December, 31)
	released := billboard("B3", "8x3", "B")
	released.ContractNumber = "C-3"
	released.EndDate = date(2024, time.May, 31)
	broken := billboard("B4", "8x3", "B")
	broken.Status = "damaged"

	billboards := new(MockBillboardRepository)
	billboards.On("FindAll", mock.Anything).Return([]contract.Billboard{free, taken, released, broken}, nil)

	got, err := newAvailabilityService(billboards, new(MockContractRepository)).ListAvailable(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "B1", got[0].BillboardID)
	assert.Equal(t, "B3", got[1].BillboardID)
}

func TestAvailabilityService_ListBillboards(t *testing.T) {
	taken := billboard("B2", "12x4", "A")
	taken.ContractNumber = "C-2"
	taken.EndDate = date(2024, time.June, 30)

	filter := shared.Filter{Page: 2, PageSize: 2, Search: "12x4"}
	billboards := new(MockBillboardRepository)
	billboards.On("List", mock.Anything, filter).Return([]contract.Billboard{billboard("B1", "12x4", "A"), taken}, int64(4), nil)

	items, total, err := newAvailabilityService(billboards, new(MockContractRepository)).ListBillboards(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, int64(4), total)
	require.Len(t, items, 2)
	assert.True(t, items[0].Available)
	assert.False(t, items[1].Available)
	assert.Equal(t, "C-2", items[1].ContractNumber)
	assert.Equal(t, intPtr(21), items[1].DaysUntilExpiry)
}

func TestAvailabilityService_ContractStatus(t *testing.T) {
	tests := []struct {
		name       string
		start, end *time.Time
		wantStatus contract.Status
		wantDays   *int
	}{
		{name: "active", start: date(2024, time.January, 1), end: date(2024, time.December, 31), wantStatus: contract.StatusActive, wantDays: intPtr(205)},
		{name: "expiring soon", start: date(2024, time.January, 1), end: date(2024, time.June, 20), wantStatus: contract.StatusExpiringSoon, wantDays: intPtr(11)},
		{name: "upcoming", start: date(2024, time.July, 1), end: date(2024, time.December, 31), wantStatus: contract.StatusUpcoming, wantDays: intPtr(205)},
		{name: "expired", start: date(2024, time.January, 1), end: date(2024, time.June, 9), wantStatus: contract.StatusExpired},
		{name: "no end date", start: date(2024, time.January, 1), wantStatus: contract.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contracts := new(MockContractRepository)
			contracts.On("FindByNumber", mock.Anything, "C-1").
				Return(&contract.Contract{ContractNumber: "C-1", StartDate: tt.start, EndDate: tt.end}, nil)

			got, err := newAvailabilityService(new(MockBillboardRepository), contracts).ContractStatus(context.Background(), "C-1")
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantDays, got.DaysUntilExpiry)
		})
	}
}

func intPtr(v int) *int {
	return &v
}
