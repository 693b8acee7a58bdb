package billing

import (
	"time"

	"github.com/adboard/backend/internal/domain/collection"
	"github.com/adboard/backend/internal/domain/contract"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Pricing DTOs
// =============================================================================

// EstimateRequest asks for the cost breakdown of a contract.
// With ContractNumber set the stored contract is priced and only
// RentCostEdited is taken from the request; otherwise the inline fields
// describe a draft contract.
type EstimateRequest struct {
	ContractNumber      string           `json:"contract_number" binding:"omitempty,max=64"`
	BillboardIDs        []string         `json:"billboard_ids" binding:"required_without=ContractNumber,dive,min=1,max=64"`
	PricingMode         string           `json:"pricing_mode" binding:"omitempty,oneof=months days"`
	DurationMonths      int              `json:"duration_months" binding:"omitempty,min=0,max=120"`
	DurationDays        int              `json:"duration_days" binding:"omitempty,min=0,max=3650"`
	PricingCategory     string           `json:"pricing_category" binding:"max=64"`
	RentCost            decimal.Decimal  `json:"rent_cost"`
	RentCostEdited      bool             `json:"rent_cost_edited"`
	DiscountType        string           `json:"discount_type" binding:"omitempty,oneof=percent fixed"`
	DiscountValue       decimal.Decimal  `json:"discount_value"`
	InstallationCost    decimal.Decimal  `json:"installation_cost"`
	InstallationEnabled bool             `json:"installation_enabled"`
	OperatingFeeRate    *decimal.Decimal `json:"operating_fee_rate"`
}

// EstimateLine is the priced contribution of one billboard
type EstimateLine struct {
	BillboardID string          `json:"billboard_id"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
}

// EstimateResponse is the cost breakdown of a contract
type EstimateResponse struct {
	ContractNumber         string          `json:"contract_number,omitempty"`
	PricingMode            string          `json:"pricing_mode"`
	Duration               int             `json:"duration"`
	Lines                  []EstimateLine  `json:"lines"`
	MissingBillboardIDs    []string        `json:"missing_billboard_ids,omitempty"`
	EstimatedRental        decimal.Decimal `json:"estimated_rental"`
	RentCost               decimal.Decimal `json:"rent_cost"`
	DiscountAmount         decimal.Decimal `json:"discount_amount"`
	RentalCostOnly         decimal.Decimal `json:"rental_cost_only"`
	ActualInstallationCost decimal.Decimal `json:"actual_installation_cost"`
	FinalTotal             decimal.Decimal `json:"final_total"`
	OperatingFee           decimal.Decimal `json:"operating_fee"`
}

// ResolvePriceRequest is a single price lookup
type ResolvePriceRequest struct {
	Size     string `form:"size" json:"size" binding:"required,max=32"`
	Level    string `form:"level" json:"level" binding:"required,max=16"`
	Category string `form:"category" json:"category" binding:"max=64"`
	Duration int    `form:"duration" json:"duration" binding:"required,min=1"`
	Mode     string `form:"mode" json:"mode" binding:"omitempty,oneof=months days"`
}

// ResolvePriceResponse is the outcome of a price lookup
type ResolvePriceResponse struct {
	Price decimal.Decimal `json:"price"`
	Tier  string          `json:"tier,omitempty"`
	Found bool            `json:"found"`
}

// UpsertCustomPriceRequest stores one custom pricing row.
// Duration is the number of months for monthly rows and ignored for daily rows.
type UpsertCustomPriceRequest struct {
	Mode     string          `json:"mode" binding:"required,oneof=months days"`
	Size     string          `json:"size" binding:"required,max=32"`
	Level    string          `json:"level" binding:"required,max=16"`
	Category string          `json:"category" binding:"required,max=64"`
	Duration int             `json:"duration" binding:"omitempty,min=0,max=120"`
	Price    decimal.Decimal `json:"price"`
}

// =============================================================================
// Collection DTOs
// =============================================================================

// CustomerOverdueResponse lists a customer's overdue installments and their rollup
type CustomerOverdueResponse struct {
	CustomerID       string                          `json:"customer_id"`
	Summary          collection.OverdueSummary       `json:"summary"`
	Installments     []collection.OverdueInstallment `json:"installments"`
	SkippedContracts []string                        `json:"skipped_contracts,omitempty"`
}

// OverdueSummariesResponse holds the per-customer rollups of all contracts
type OverdueSummariesResponse struct {
	Summaries        []collection.OverdueSummary `json:"summaries"`
	TotalOverdue     decimal.Decimal             `json:"total_overdue"`
	SkippedContracts []string                    `json:"skipped_contracts,omitempty"`
}

// RecordPaymentRequest appends a payment to a contract's ledger
type RecordPaymentRequest struct {
	ContractNumber string          `json:"-"`
	Amount         decimal.Decimal `json:"amount"`
	PaidAt         *time.Time      `json:"paid_at"`
}

// PaymentResponse is a recorded payment
type PaymentResponse struct {
	ID             string          `json:"id"`
	ContractNumber string          `json:"contract_number"`
	Amount         decimal.Decimal `json:"amount"`
	PaidAt         time.Time       `json:"paid_at"`
}

// InstallmentStatus is one installment of a contract with its allocation state
type InstallmentStatus struct {
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	Description string          `json:"description"`
	Due         bool            `json:"due"`
	Allocated   decimal.Decimal `json:"allocated"`
	Overdue     decimal.Decimal `json:"overdue"`
	DaysOverdue int             `json:"days_overdue"`
}

// ContractStatementResponse shows how a contract's payments cover its schedule
type ContractStatementResponse struct {
	ContractNumber string              `json:"contract_number"`
	CustomerID     string              `json:"customer_id"`
	TotalPaid      decimal.Decimal     `json:"total_paid"`
	Unapplied      decimal.Decimal     `json:"unapplied"`
	TotalOverdue   decimal.Decimal     `json:"total_overdue"`
	Installments   []InstallmentStatus `json:"installments"`
}

// SchedulePreviewRequest describes an installment plan for a stored contract
type SchedulePreviewRequest struct {
	Count          int        `json:"count" binding:"omitempty,min=1,max=120"`
	Formulas       []string   `json:"formulas" binding:"omitempty,max=120,dive,min=1,max=200"`
	StartDate      *time.Time `json:"start_date"`
	IntervalMonths int        `json:"interval_months" binding:"omitempty,min=1,max=12"`
}

// SchedulePreviewResponse is a generated installment schedule
type SchedulePreviewResponse struct {
	ContractNumber string                   `json:"contract_number"`
	Total          decimal.Decimal          `json:"total"`
	ScheduledTotal decimal.Decimal          `json:"scheduled_total"`
	Installments   []collection.Installment `json:"installments"`
}

// =============================================================================
// Availability DTOs
// =============================================================================

// Availability reasons
const (
	ReasonFree          = "free"
	ReasonContractEnded = "contract_ended"
	ReasonUnderContract = "under_contract"
	ReasonOpenEnded     = "open_ended_contract"
	ReasonMaintenance   = "maintenance"
)

// BillboardAvailability is the booking state of one billboard
type BillboardAvailability struct {
	BillboardID     string          `json:"billboard_id"`
	Name            string          `json:"name"`
	Size            string          `json:"size"`
	Level           string          `json:"level"`
	Municipality    string          `json:"municipality"`
	MonthlyPrice    decimal.Decimal `json:"monthly_price"`
	Available       bool            `json:"available"`
	Reason          string          `json:"reason"`
	ContractNumber  string          `json:"contract_number,omitempty"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	DaysUntilExpiry *int            `json:"days_until_expiry,omitempty"`
}

// ContractStatusResponse is the date-derived state of a contract
type ContractStatusResponse struct {
	ContractNumber  string          `json:"contract_number"`
	Status          contract.Status `json:"status"`
	StartDate       *time.Time      `json:"start_date,omitempty"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	DaysUntilExpiry *int            `json:"days_until_expiry,omitempty"`
}
