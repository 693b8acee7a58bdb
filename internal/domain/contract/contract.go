// Package contract holds billboard rental contracts, their cost pipeline and
// the date-based lifecycle classification of contracts and billboards.
package contract

import (
	"time"

	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// DiscountType selects how DiscountValue is interpreted
type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeFixed   DiscountType = "fixed"
)

// IsValid returns true if the discount type is supported
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercent || t == DiscountTypeFixed
}

// Billboard is the pricing and availability view of a billboard
type Billboard struct {
	ID                string
	Name              string
	Size              string
	Level             string
	MonthlyPrice      decimal.Decimal
	Municipality      string
	ContractNumber    string
	StartDate         *time.Time
	EndDate           *time.Time
	Status            string
	MaintenanceStatus string
	MaintenanceType   string
}

// HasContract returns true if the billboard is tied to a contract number
func (b Billboard) HasContract() bool {
	return b.ContractNumber != ""
}

// Contract is a rental contract over one or more billboards
type Contract struct {
	ContractNumber       string
	CustomerID           string
	CustomerName         string
	BillboardIDs         []string
	PricingMode          pricing.Mode
	DurationMonths       int
	DurationDays         int
	PricingCategory      string
	RentCost             decimal.Decimal
	DiscountType         DiscountType
	DiscountValue        decimal.Decimal
	InstallationCost     decimal.Decimal
	InstallationEnabled  bool
	OperatingFeeRate     decimal.Decimal
	// InstallmentsSchedule is the schedule exactly as stored, decoded by the collection domain
	InstallmentsSchedule []byte
	Total                decimal.Decimal
	TotalPaid            decimal.Decimal
	StartDate            *time.Time
	EndDate              *time.Time
}

// Mode returns the effective pricing mode; an unset mode means months
func (c Contract) Mode() pricing.Mode {
	if c.PricingMode == "" {
		return pricing.ModeMonths
	}
	return c.PricingMode
}

// Outstanding returns Total - TotalPaid
func (c Contract) Outstanding() decimal.Decimal {
	return c.Total.Sub(c.TotalPaid)
}

// SelectBillboards returns the billboards listed on the contract, in contract order.
// Unknown IDs are skipped.
func (c Contract) SelectBillboards(all []Billboard) []Billboard {
	byID := make(map[string]Billboard, len(all))
	for _, b := range all {
		byID[b.ID] = b
	}
	selected := make([]Billboard, 0, len(c.BillboardIDs))
	for _, id := range c.BillboardIDs {
		if b, ok := byID[id]; ok {
			selected = append(selected, b)
		}
	}
	return selected
}
