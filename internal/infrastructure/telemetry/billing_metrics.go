package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// BillingMetrics records pricing and collection activity.
type BillingMetrics struct {
	estimates          *Counter
	priceLines         *Counter
	estimateDuration   *Histogram
	reconciliations    *Counter
	overdueInstallment *Counter
	overdueAmount      *AmountCounter
	skippedContracts   *Counter
	cacheRefreshes     *Counter
}

// NewBillingMetrics creates the billing instruments on meter.
func NewBillingMetrics(meter metric.Meter) (*BillingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	in := NewInstruments(meter)
	bm := &BillingMetrics{
		estimates:          in.Counter("billing_estimates_total", "Contract cost estimates computed", "{estimate}"),
		priceLines:         in.Counter("billing_price_lines_total", "Billboard price lines resolved, by price source", "{line}"),
		estimateDuration:   in.Histogram("billing_estimate_duration_seconds", "Time spent computing a contract estimate", "s", DurationBuckets),
		reconciliations:    in.Counter("billing_reconciliations_total", "Overdue reconciliation runs", "{run}"),
		overdueInstallment: in.Counter("billing_overdue_installments_total", "Overdue installments reported", "{installment}"),
		overdueAmount:      in.AmountCounter("billing_overdue_amount_total", "Sum of overdue installment amounts reported", "{currency}"),
		skippedContracts:   in.Counter("billing_skipped_contracts_total", "Contracts skipped because their schedule could not be decoded", "{contract}"),
		cacheRefreshes:     in.Counter("billing_pricing_cache_refreshes_total", "Custom price table reloads", "{refresh}"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordEstimate records one estimate; sources holds the price source of each line.
func (m *BillingMetrics) RecordEstimate(ctx context.Context, mode string, sources []string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.estimates.Inc(ctx, AttrPricingMode.String(mode))
	for _, s := range sources {
		m.priceLines.Inc(ctx, AttrPriceSource.String(s))
	}
	m.estimateDuration.RecordDuration(ctx, elapsed, AttrPricingMode.String(mode))
}

// RecordReconciliation records one reconciliation run and its findings.
func (m *BillingMetrics) RecordReconciliation(ctx context.Context, overdueCount int, overdueAmount decimal.Decimal, skipped int) {
	if m == nil {
		return
	}
	m.reconciliations.Inc(ctx)
	m.overdueInstallment.Add(ctx, int64(overdueCount))
	m.overdueAmount.Add(ctx, overdueAmount.InexactFloat64())
	m.skippedContracts.Add(ctx, int64(skipped))
}

// RecordCacheRefresh records a reload of the custom price tables.
func (m *BillingMetrics) RecordCacheRefresh(ctx context.Context, backend string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.cacheRefreshes.Inc(ctx, AttrCacheBackend.String(backend), AttrOutcome.String(outcome))
}
