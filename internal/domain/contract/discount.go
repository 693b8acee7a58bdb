package contract

import (
	"github.com/adboard/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ComputeDiscount converts a discount into an amount taken off the rental.
// Percent values are clamped to [0, 100] and fixed values to >= 0; an unknown
// type yields no discount. Installation is never discounted.
func ComputeDiscount(rentalBeforeDiscount decimal.Decimal, discountType DiscountType, value decimal.Decimal) decimal.Decimal {
	switch discountType {
	case DiscountTypePercent:
		return valueobject.PercentOf(rentalBeforeDiscount, valueobject.ClampPercent(value))
	case DiscountTypeFixed:
		return valueobject.NonNegative(value)
	default:
		return decimal.Zero
	}
}

// RentalCostOnly returns the rental after discount, never below zero
func RentalCostOnly(rentalBeforeDiscount, discountAmount decimal.Decimal) decimal.Decimal {
	return valueobject.NonNegative(rentalBeforeDiscount.Sub(discountAmount))
}
