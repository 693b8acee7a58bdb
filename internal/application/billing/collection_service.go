package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adboard/backend/internal/domain/collection"
	"github.com/adboard/backend/internal/domain/contract"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/adboard/backend/internal/infrastructure/logger"
	"github.com/adboard/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Clock returns the current time
type Clock func() time.Time

// CollectionService reconciles payments against installment schedules
type CollectionService struct {
	contracts  contract.ContractRepository
	payments   collection.PaymentRepository
	recorder   collection.PaymentRecorder
	reconciler *collection.Reconciler
	classifier *contract.Classifier
	clock      Clock
	fleetTopN  int
	metrics    *telemetry.BillingMetrics
}

// CollectionServiceOption configures a CollectionService
type CollectionServiceOption func(*CollectionService)

// WithCollectionClock replaces the wall clock
func WithCollectionClock(clock Clock) CollectionServiceOption {
	return func(s *CollectionService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithFleetTopN sets the default size of the fleet overdue view
func WithFleetTopN(n int) CollectionServiceOption {
	return func(s *CollectionService) {
		s.fleetTopN = n
	}
}

// WithCollectionMetrics records reconciliations on the given instruments
func WithCollectionMetrics(m *telemetry.BillingMetrics) CollectionServiceOption {
	return func(s *CollectionService) {
		s.metrics = m
	}
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(
	contracts contract.ContractRepository,
	payments collection.PaymentRepository,
	recorder collection.PaymentRecorder,
	reconciler *collection.Reconciler,
	classifier *contract.Classifier,
	opts ...CollectionServiceOption,
) *CollectionService {
	s := &CollectionService{
		contracts:  contracts,
		payments:   payments,
		recorder:   recorder,
		reconciler: reconciler,
		classifier: classifier,
		clock:      time.Now,
		fleetTopN:  10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CustomerOverdue returns the overdue installments of one customer and their rollup
func (s *CollectionService) CustomerOverdue(ctx context.Context, customerID string) (*CustomerOverdueResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "customer_overdue")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCustomerID, customerID)

	if strings.TrimSpace(customerID) == "" {
		err := shared.NewDomainError("INVALID_INPUT", "Customer ID is required")
		telemetry.RecordError(span, err)
		return nil, err
	}

	contracts, err := s.contracts.FindByCustomer(ctx, customerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	report, err := s.reconcile(ctx, contracts)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	summary := collection.Summarize(report.Overdue)
	if summary.CustomerID == "" {
		summary.CustomerID = customerID
		if len(contracts) > 0 {
			summary.CustomerName = contracts[0].CustomerName
		}
	}

	telemetry.SetOK(span)
	return &CustomerOverdueResponse{
		CustomerID:       customerID,
		Summary:          summary,
		Installments:     report.Overdue,
		SkippedContracts: skippedNumbers(report.Skipped),
	}, nil
}

// OverdueSummaries returns the per-customer rollups over all contracts,
// largest overdue amount first
func (s *CollectionService) OverdueSummaries(ctx context.Context) (*OverdueSummariesResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "overdue_summaries")
	defer span.End()

	contracts, err := s.contracts.FindAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	report, err := s.reconcile(ctx, contracts)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	summaries := collection.SortedSummaries(collection.SummarizeByCustomer(report.Overdue))
	total := decimal.Zero
	for _, summary := range summaries {
		total = total.Add(summary.TotalOverdueAmount)
	}

	telemetry.SetOK(span)
	return &OverdueSummariesResponse{
		Summaries:        summaries,
		TotalOverdue:     total,
		SkippedContracts: skippedNumbers(report.Skipped),
	}, nil
}

// FleetTopOverdue returns the coarse fleet view: ended contracts with an
// outstanding balance, largest first. A non-positive n uses the configured default.
func (s *CollectionService) FleetTopOverdue(ctx context.Context, n int) ([]collection.FleetOverdueContract, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "fleet_top_overdue")
	defer span.End()

	if n <= 0 {
		n = s.fleetTopN
	}
	contracts, err := s.contracts.FindAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	rows := collection.TopOverdueContracts(contracts, s.classifier, s.clock(), n)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrContractCount, len(contracts),
		telemetry.SpanAttrOverdueCount, len(rows),
	)
	telemetry.SetOK(span)
	return rows, nil
}

// ContractStatement shows how a contract's payments cover each installment
func (s *CollectionService) ContractStatement(ctx context.Context, contractNumber string) (*ContractStatementResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "contract_statement")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrContractNumber, contractNumber)

	c, err := s.contracts.FindByNumber(ctx, contractNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	payments, err := s.payments.FindByContractNumbers(ctx, []string{c.ContractNumber})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.clock()
	installments, err := collection.ParseSchedule(c.InstallmentsSchedule, s.reconciler.Location())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewDomainError("MALFORMED_PAYLOAD", err.Error())
	}
	outcome, err := s.reconciler.Allocate(*c, payments, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewDomainError("MALFORMED_PAYLOAD", err.Error())
	}

	// allocation lines cover the due installments in schedule order
	statuses := make([]InstallmentStatus, 0, len(installments))
	lineIdx := 0
	totalOverdue := decimal.Zero
	for _, inst := range installments {
		status := InstallmentStatus{
			Amount:      inst.Amount,
			DueDate:     inst.DueDate,
			Description: inst.Description,
			Allocated:   decimal.Zero,
			Overdue:     decimal.Zero,
		}
		if lineIdx < len(outcome.Lines) && collection.DaysOverdue(inst.DueDate, now, s.reconciler.Location()) > 0 {
			line := outcome.Lines[lineIdx]
			lineIdx++
			status.Due = true
			status.Allocated = line.Allocated
			status.Overdue = line.Overdue
			status.DaysOverdue = line.DaysOverdue
			totalOverdue = totalOverdue.Add(line.Overdue)
		}
		statuses = append(statuses, status)
	}

	telemetry.SetOK(span)
	return &ContractStatementResponse{
		ContractNumber: c.ContractNumber,
		CustomerID:     c.CustomerID,
		TotalPaid:      collection.SumPayments(payments),
		Unapplied:      outcome.Remaining,
		TotalOverdue:   totalOverdue,
		Installments:   statuses,
	}, nil
}

// RecordPayment appends a payment to a contract's ledger
func (s *CollectionService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "record_payment")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrContractNumber, req.ContractNumber,
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	if !req.Amount.IsPositive() {
		err := shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
		telemetry.RecordError(span, err)
		return nil, err
	}
	c, err := s.contracts.FindByNumber(ctx, req.ContractNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	paidAt := s.clock()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	payment := collection.Payment{
		ID:             uuid.New().String(),
		ContractNumber: c.ContractNumber,
		Amount:         req.Amount,
		PaidAt:         paidAt,
	}
	if err := s.recorder.Create(ctx, payment); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	logger.L(ctx).Info("Payment recorded",
		logger.ContractNumber(c.ContractNumber),
		zap.String("payment_id", payment.ID),
		zap.String("amount", payment.Amount.String()))
	telemetry.SetOK(span)
	return &PaymentResponse{
		ID:             payment.ID,
		ContractNumber: payment.ContractNumber,
		Amount:         payment.Amount,
		PaidAt:         payment.PaidAt,
	}, nil
}

// PreviewSchedule generates an installment schedule for a stored contract
// without saving it
func (s *CollectionService) PreviewSchedule(ctx context.Context, contractNumber string, req SchedulePreviewRequest) (*SchedulePreviewResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "preview_schedule")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrContractNumber, contractNumber)

	c, err := s.contracts.FindByNumber(ctx, contractNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	start := c.StartDate
	if req.StartDate != nil {
		start = req.StartDate
	}
	if start == nil {
		err := shared.NewDomainError("INVALID_INPUT", "Contract has no start date; provide start_date")
		telemetry.RecordError(span, err)
		return nil, err
	}
	count := req.Count
	if count == 0 && len(req.Formulas) == 0 {
		count = 1
	}

	installments, err := collection.GenerateSchedule(collection.SchedulePlan{
		Total:          c.Total,
		Discount:       c.DiscountValue,
		Rent:           c.RentCost,
		Installation:   c.InstallationCost,
		Count:          count,
		Formulas:       req.Formulas,
		StartDate:      *start,
		IntervalMonths: req.IntervalMonths,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	scheduled := decimal.Zero
	for _, inst := range installments {
		scheduled = scheduled.Add(inst.Amount)
	}
	telemetry.SetOK(span)
	return &SchedulePreviewResponse{
		ContractNumber: c.ContractNumber,
		Total:          c.Total,
		ScheduledTotal: scheduled,
		Installments:   installments,
	}, nil
}

// reconcile loads the payments of contracts and runs the reconciler. Contracts
// with a malformed schedule are logged and left out.
func (s *CollectionService) reconcile(ctx context.Context, contracts []contract.Contract) (collection.ReconcileReport, error) {
	numbers := make([]string, len(contracts))
	for i, c := range contracts {
		numbers[i] = c.ContractNumber
	}
	payments, err := s.payments.FindByContractNumbers(ctx, numbers)
	if err != nil {
		return collection.ReconcileReport{}, err
	}

	report := s.reconciler.ReconcileWithReport(contracts, collection.GroupPaymentsByContract(payments), s.clock())
	for _, skipped := range report.Skipped {
		logger.L(ctx).Warn("Skipping contract with malformed installment schedule",
			logger.ContractNumber(skipped.ContractNumber),
			zap.Error(skipped.Err))
	}

	overdueAmount := decimal.Zero
	for _, rec := range report.Overdue {
		overdueAmount = overdueAmount.Add(rec.InstallmentAmount)
	}
	s.metrics.RecordReconciliation(ctx, len(report.Overdue), overdueAmount, len(report.Skipped))
	return report, nil
}

func skippedNumbers(skipped []collection.SkippedContract) []string {
	if len(skipped) == 0 {
		return nil
	}
	numbers := make([]string, len(skipped))
	for i, sk := range skipped {
		numbers[i] = sk.ContractNumber
	}
	return numbers
}
