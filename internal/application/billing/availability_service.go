package billing

import (
	"context"
	"time"

	"github.com/adboard/backend/internal/domain/contract"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/adboard/backend/internal/infrastructure/telemetry"
)

// AvailabilityService answers booking questions about billboards and contract periods
type AvailabilityService struct {
	billboards contract.BillboardRepository
	contracts  contract.ContractRepository
	classifier *contract.Classifier
	clock      Clock
}

// NewAvailabilityService creates a new AvailabilityService. A nil clock means time.Now.
func NewAvailabilityService(
	billboards contract.BillboardRepository,
	contracts contract.ContractRepository,
	classifier *contract.Classifier,
	clock Clock,
) *AvailabilityService {
	if clock == nil {
		clock = time.Now
	}
	return &AvailabilityService{
		billboards: billboards,
		contracts:  contracts,
		classifier: classifier,
		clock:      clock,
	}
}

// Availability returns the booking state of one billboard
func (s *AvailabilityService) Availability(ctx context.Context, billboardID string) (*BillboardAvailability, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "availability", "billboard")
	defer span.End()

	b, err := s.billboards.FindByID(ctx, billboardID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	a := s.describe(*b, s.clock())
	telemetry.SetOK(span)
	return &a, nil
}

// ListAvailable returns every billboard that can be booked now
func (s *AvailabilityService) ListAvailable(ctx context.Context) ([]BillboardAvailability, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "availability", "list_available")
	defer span.End()

	all, err := s.billboards.FindAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.clock()
	available := make([]BillboardAvailability, 0, len(all))
	for _, b := range all {
		if a := s.describe(b, now); a.Available {
			available = append(available, a)
		}
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrBillboardCount, len(available))
	telemetry.SetOK(span)
	return available, nil
}

// ListBillboards returns one page of billboards with their booking state
func (s *AvailabilityService) ListBillboards(ctx context.Context, filter shared.Filter) ([]BillboardAvailability, int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "availability", "list_billboards")
	defer span.End()

	page, total, err := s.billboards.List(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, err
	}

	now := s.clock()
	items := make([]BillboardAvailability, len(page))
	for i, b := range page {
		items[i] = s.describe(b, now)
	}
	telemetry.SetOK(span)
	return items, total, nil
}

// ContractStatus classifies a stored contract's period relative to now
func (s *AvailabilityService) ContractStatus(ctx context.Context, contractNumber string) (*ContractStatusResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "availability", "contract_status")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrContractNumber, contractNumber)

	c, err := s.contracts.FindByNumber(ctx, contractNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.clock()
	resp := &ContractStatusResponse{
		ContractNumber: c.ContractNumber,
		Status:         s.classifier.ContractStatus(c.StartDate, c.EndDate, now),
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
	}
	if c.EndDate != nil && resp.Status != contract.StatusExpired {
		days := s.classifier.DaysUntilExpiry(*c.EndDate, now)
		resp.DaysUntilExpiry = &days
	}
	telemetry.SetOK(span)
	return resp, nil
}

func (s *AvailabilityService) describe(b contract.Billboard, now time.Time) BillboardAvailability {
	a := BillboardAvailability{
		BillboardID:    b.ID,
		Name:           b.Name,
		Size:           b.Size,
		Level:          b.Level,
		Municipality:   b.Municipality,
		MonthlyPrice:   b.MonthlyPrice,
		Available:      s.classifier.IsBillboardAvailable(b, now),
		ContractNumber: b.ContractNumber,
		EndDate:        b.EndDate,
	}

	switch {
	case contract.IsMaintenanceStatus(b.Status) || contract.IsMaintenanceStatus(b.MaintenanceStatus) || contract.IsMaintenanceStatus(b.MaintenanceType):
		a.Reason = ReasonMaintenance
	case !b.HasContract():
		a.Reason = ReasonFree
	case b.EndDate == nil:
		a.Reason = ReasonOpenEnded
	case a.Available:
		a.Reason = ReasonContractEnded
	default:
		a.Reason = ReasonUnderContract
		days := s.classifier.DaysUntilExpiry(*b.EndDate, now)
		a.DaysUntilExpiry = &days
	}
	return a
}
