package contract

import (
	"github.com/adboard/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ComputeOperatingFee derives the operating fee, rounded to 2 places.
// With installation enabled the fee is charged on the rental only; otherwise
// on the total after discount. Negative rates are treated as zero.
func ComputeOperatingFee(rentalCostOnly, totalAfterDiscount decimal.Decimal, installationEnabled bool, feeRatePercent decimal.Decimal) decimal.Decimal {
	base := totalAfterDiscount
	if installationEnabled {
		base = rentalCostOnly
	}
	fee := valueobject.PercentOf(base, valueobject.NonNegative(feeRatePercent))
	return valueobject.RoundCurrency(fee)
}
