package contract

import (
	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/adboard/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PriceResolver resolves a price for one billboard.
// *pricing.Resolver satisfies it.
type PriceResolver interface {
	Resolve(q pricing.Query) pricing.Resolution
}

// LineSourceFallback marks a line priced from the billboard's own monthly price
const LineSourceFallback = "billboard_monthly_price"

// LineItem is the rental contribution of one billboard
type LineItem struct {
	BillboardID string
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
	// Source is the resolving tier name, or LineSourceFallback
	Source string
}

// Estimate is the rental estimate for a set of billboards
type Estimate struct {
	Lines []LineItem
	Total decimal.Decimal
}

// CostBreakdown is the full cost pipeline result for a contract
type CostBreakdown struct {
	EstimatedRental        decimal.Decimal
	RentalBeforeDiscount   decimal.Decimal
	DiscountAmount         decimal.Decimal
	RentalCostOnly         decimal.Decimal
	ActualInstallationCost decimal.Decimal
	FinalTotal             decimal.Decimal
	OperatingFee           decimal.Decimal
	Lines                  []LineItem
}

// CostAggregator sums resolved prices across a contract's billboards
type CostAggregator struct {
	resolver PriceResolver
}

// NewCostAggregator creates a new CostAggregator
func NewCostAggregator(resolver PriceResolver) *CostAggregator {
	return &CostAggregator{resolver: resolver}
}

// EstimateTotal returns the rental estimate of the given billboards for the
// contract's duration, mode and pricing category
func (a *CostAggregator) EstimateTotal(c Contract, billboards []Billboard) decimal.Decimal {
	return a.Estimate(c, billboards).Total
}

// Estimate returns the per-billboard rental lines and their total.
// A non-positive duration yields an empty zero estimate.
func (a *CostAggregator) Estimate(c Contract, billboards []Billboard) Estimate {
	switch c.Mode() {
	case pricing.ModeMonths:
		if c.DurationMonths <= 0 {
			return Estimate{Total: decimal.Zero}
		}
		return a.estimateMonths(c, billboards)
	case pricing.ModeDays:
		if c.DurationDays <= 0 {
			return Estimate{Total: decimal.Zero}
		}
		return a.estimateDays(c, billboards)
	default:
		return Estimate{Total: decimal.Zero}
	}
}

func (a *CostAggregator) estimateMonths(c Contract, billboards []Billboard) Estimate {
	months := decimal.NewFromInt(int64(c.DurationMonths))
	lines := make([]LineItem, 0, len(billboards))
	total := decimal.Zero

	for _, b := range billboards {
		q := pricing.Query{
			Size:     b.Size,
			Level:    b.Level,
			Category: c.PricingCategory,
			Duration: c.DurationMonths,
			Mode:     pricing.ModeMonths,
		}
		line := LineItem{BillboardID: b.ID}
		if res := a.resolve(q); res.Found {
			line.Amount = res.Price
			line.UnitPrice = valueobject.RoundCurrency(res.Price.Div(months))
			line.Source = res.Tier
		} else {
			line.UnitPrice = b.MonthlyPrice
			line.Amount = b.MonthlyPrice.Mul(months)
			line.Source = LineSourceFallback
		}
		lines = append(lines, line)
		total = total.Add(line.Amount)
	}
	return Estimate{Lines: lines, Total: total}
}

func (a *CostAggregator) estimateDays(c Contract, billboards []Billboard) Estimate {
	days := decimal.NewFromInt(int64(c.DurationDays))
	lines := make([]LineItem, 0, len(billboards))
	total := decimal.Zero

	for _, b := range billboards {
		q := pricing.Query{
			Size:     b.Size,
			Level:    b.Level,
			Category: c.PricingCategory,
			Duration: c.DurationDays,
			Mode:     pricing.ModeDays,
		}
		res := a.resolve(q)
		line := LineItem{
			BillboardID: b.ID,
			UnitPrice:   res.Price,
			Amount:      res.Price.Mul(days),
			Source:      res.Tier,
		}
		lines = append(lines, line)
		total = total.Add(line.Amount)
	}
	return Estimate{Lines: lines, Total: total}
}

func (a *CostAggregator) resolve(q pricing.Query) pricing.Resolution {
	if a.resolver == nil {
		return pricing.Resolution{Price: decimal.Zero}
	}
	res := a.resolver.Resolve(q)
	res.Price = valueobject.NonNegative(res.Price)
	return res
}

// CalculateBreakdown runs the whole cost pipeline for a contract.
// The rental before discount is the estimate unless the session has a manual
// rent cost edit, in which case the contract's RentCost is kept.
func (a *CostAggregator) CalculateBreakdown(c Contract, billboards []Billboard, session EditSession) CostBreakdown {
	est := a.Estimate(c, billboards)

	rental := valueobject.NonNegative(session.SyncRentCost(est.Total, c.RentCost))
	discount := ComputeDiscount(rental, c.DiscountType, c.DiscountValue)
	rentalOnly := RentalCostOnly(rental, discount)

	installation := decimal.Zero
	if c.InstallationEnabled {
		installation = valueobject.NonNegative(c.InstallationCost)
	}
	finalTotal := rentalOnly.Add(installation)

	return CostBreakdown{
		EstimatedRental:        est.Total,
		RentalBeforeDiscount:   rental,
		DiscountAmount:         discount,
		RentalCostOnly:         rentalOnly,
		ActualInstallationCost: installation,
		FinalTotal:             finalTotal,
		OperatingFee:           ComputeOperatingFee(rentalOnly, finalTotal, c.InstallationEnabled, c.OperatingFeeRate),
		Lines:                  est.Lines,
	}
}
