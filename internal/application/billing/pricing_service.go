// Package billing holds the application services of the billing engine. They
// load contracts, billboards, payments and pricing tables through repositories
// and hand them to the pure domain calculators.
package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adboard/backend/internal/domain/contract"
	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/adboard/backend/internal/infrastructure/logger"
	"github.com/adboard/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricingTables keeps the custom pricing tables behind the resolver current
type PricingTables interface {
	Ensure(ctx context.Context) error
	Invalidate(ctx context.Context) error
}

// PricingService prices contracts and maintains the custom pricing tables
type PricingService struct {
	billboards     contract.BillboardRepository
	contracts      contract.ContractRepository
	prices         pricing.Writer
	tables         PricingTables
	resolver       contract.PriceResolver
	aggregator     *contract.CostAggregator
	defaultFeeRate decimal.Decimal
	metrics        *telemetry.BillingMetrics
}

// PricingServiceOption configures a PricingService
type PricingServiceOption func(*PricingService)

// WithDefaultOperatingFeeRate sets the fee rate applied to draft contracts that carry none
func WithDefaultOperatingFeeRate(rate decimal.Decimal) PricingServiceOption {
	return func(s *PricingService) {
		s.defaultFeeRate = rate
	}
}

// WithPricingMetrics records estimates on the given instruments
func WithPricingMetrics(m *telemetry.BillingMetrics) PricingServiceOption {
	return func(s *PricingService) {
		s.metrics = m
	}
}

// NewPricingService creates a new PricingService
func NewPricingService(
	billboards contract.BillboardRepository,
	contracts contract.ContractRepository,
	prices pricing.Writer,
	tables PricingTables,
	resolver contract.PriceResolver,
	opts ...PricingServiceOption,
) *PricingService {
	s := &PricingService{
		billboards:     billboards,
		contracts:      contracts,
		prices:         prices,
		tables:         tables,
		resolver:       resolver,
		aggregator:     contract.NewCostAggregator(resolver),
		defaultFeeRate: decimal.Zero,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Estimate runs the cost pipeline for a stored or draft contract
func (s *PricingService) Estimate(ctx context.Context, req EstimateRequest) (*EstimateResponse, error) {
	started := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing", "estimate")
	defer span.End()

	c, err := s.contractFor(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrContractNumber, c.ContractNumber,
		telemetry.SpanAttrPricingMode, c.Mode().String(),
		telemetry.SpanAttrBillboardCount, len(c.BillboardIDs),
	)

	if err := s.tables.Ensure(ctx); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load pricing tables: %w", err)
	}

	found, err := s.billboards.FindByIDs(ctx, c.BillboardIDs)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	selected := c.SelectBillboards(found)
	missing := missingBillboards(c.BillboardIDs, selected)
	if len(missing) > 0 {
		logger.L(ctx).Warn("Estimating without unknown billboards",
			logger.ContractNumber(c.ContractNumber),
			zap.Strings("billboard_ids", missing))
	}

	session := contract.EditSession{RentCostEdited: req.RentCostEdited}
	breakdown := s.aggregator.CalculateBreakdown(c, selected, session)

	resp := &EstimateResponse{
		ContractNumber:         c.ContractNumber,
		PricingMode:            c.Mode().String(),
		Duration:               durationOf(c),
		Lines:                  make([]EstimateLine, len(breakdown.Lines)),
		MissingBillboardIDs:    missing,
		EstimatedRental:        breakdown.EstimatedRental,
		RentCost:               breakdown.RentalBeforeDiscount,
		DiscountAmount:         breakdown.DiscountAmount,
		RentalCostOnly:         breakdown.RentalCostOnly,
		ActualInstallationCost: breakdown.ActualInstallationCost,
		FinalTotal:             breakdown.FinalTotal,
		OperatingFee:           breakdown.OperatingFee,
	}
	sources := make([]string, len(breakdown.Lines))
	for i, line := range breakdown.Lines {
		resp.Lines[i] = EstimateLine{
			BillboardID: line.BillboardID,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
			Source:      line.Source,
		}
		sources[i] = line.Source
	}

	s.metrics.RecordEstimate(ctx, resp.PricingMode, sources, time.Since(started))
	telemetry.SetAttributes(span, telemetry.SpanAttrAmount, resp.FinalTotal.String())
	telemetry.SetOK(span)
	return resp, nil
}

// Resolve looks up one price through the tier chain
func (s *PricingService) Resolve(ctx context.Context, req ResolvePriceRequest) (*ResolvePriceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing", "resolve")
	defer span.End()

	mode := pricing.ModeMonths
	if req.Mode != "" {
		mode = pricing.Mode(req.Mode)
	}
	if !mode.IsValid() {
		err := shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported pricing mode %q", req.Mode))
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.tables.Ensure(ctx); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load pricing tables: %w", err)
	}

	res := s.resolver.Resolve(pricing.Query{
		Size:     req.Size,
		Level:    req.Level,
		Category: req.Category,
		Duration: req.Duration,
		Mode:     mode,
	})
	telemetry.SetAttributes(span, telemetry.SpanAttrPricingMode, mode.String(), "tier", res.Tier)
	telemetry.SetOK(span)
	return &ResolvePriceResponse{Price: res.Price, Tier: res.Tier, Found: res.Found}, nil
}

// UpsertCustomPrice stores a custom pricing row and invalidates the cached tables
func (s *PricingService) UpsertCustomPrice(ctx context.Context, req UpsertCustomPriceRequest) (*pricing.Entry, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing", "upsert_custom_price")
	defer span.End()

	entry, err := customPriceEntry(req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if pricing.Mode(req.Mode) == pricing.ModeDays {
		err = s.prices.UpsertDaily(ctx, entry)
	} else {
		err = s.prices.UpsertMonthly(ctx, entry)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to store custom price: %w", err)
	}

	if err := s.tables.Invalidate(ctx); err != nil {
		logger.L(ctx).Warn("Failed to invalidate pricing tables", zap.Error(err))
	}

	logger.L(ctx).Info("Custom price stored",
		zap.String("mode", req.Mode),
		zap.String("size", entry.Size),
		zap.String("level", entry.Level),
		zap.String("category", entry.Category),
		zap.Int("duration", entry.Duration),
		zap.String("price", entry.Price.String()))
	telemetry.SetOK(span)
	return &entry, nil
}

func (s *PricingService) contractFor(ctx context.Context, req EstimateRequest) (contract.Contract, error) {
	if number := strings.TrimSpace(req.ContractNumber); number != "" {
		stored, err := s.contracts.FindByNumber(ctx, number)
		if err != nil {
			return contract.Contract{}, err
		}
		return *stored, nil
	}

	if len(req.BillboardIDs) == 0 {
		return contract.Contract{}, shared.NewDomainError("INVALID_INPUT", "At least one billboard is required")
	}
	mode := pricing.ModeMonths
	if req.PricingMode != "" {
		mode = pricing.Mode(req.PricingMode)
	}
	if !mode.IsValid() {
		return contract.Contract{}, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported pricing mode %q", req.PricingMode))
	}
	discountType := contract.DiscountTypeFixed
	if req.DiscountType != "" {
		discountType = contract.DiscountType(req.DiscountType)
	}
	feeRate := s.defaultFeeRate
	if req.OperatingFeeRate != nil {
		feeRate = *req.OperatingFeeRate
	}

	return contract.Contract{
		BillboardIDs:        req.BillboardIDs,
		PricingMode:         mode,
		DurationMonths:      req.DurationMonths,
		DurationDays:        req.DurationDays,
		PricingCategory:     req.PricingCategory,
		RentCost:            req.RentCost,
		DiscountType:        discountType,
		DiscountValue:       req.DiscountValue,
		InstallationCost:    req.InstallationCost,
		InstallationEnabled: req.InstallationEnabled,
		OperatingFeeRate:    feeRate,
	}, nil
}

func customPriceEntry(req UpsertCustomPriceRequest) (pricing.Entry, error) {
	mode := pricing.Mode(req.Mode)
	if !mode.IsValid() {
		return pricing.Entry{}, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported pricing mode %q", req.Mode))
	}
	if req.Price.IsNegative() {
		return pricing.Entry{}, shared.NewDomainError("INVALID_INPUT", "Price cannot be negative")
	}
	entry := pricing.Entry{
		Size:     strings.TrimSpace(req.Size),
		Level:    strings.TrimSpace(req.Level),
		Category: strings.TrimSpace(req.Category),
		Duration: req.Duration,
		Price:    req.Price,
	}
	if entry.Size == "" || entry.Level == "" || entry.Category == "" {
		return pricing.Entry{}, shared.NewDomainError("INVALID_INPUT", "Size, level and category are required")
	}
	if mode == pricing.ModeDays {
		entry.Duration = pricing.DailyKeyDuration
		return entry, nil
	}
	if entry.Duration < 1 {
		return pricing.Entry{}, shared.NewDomainError("INVALID_INPUT", "Monthly prices need a duration of at least one month")
	}
	return entry, nil
}

func durationOf(c contract.Contract) int {
	if c.Mode() == pricing.ModeDays {
		return c.DurationDays
	}
	return c.DurationMonths
}

func missingBillboards(ids []string, selected []contract.Billboard) []string {
	present := make(map[string]struct{}, len(selected))
	for _, b := range selected {
		present[b.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
