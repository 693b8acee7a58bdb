package collection

import (
	"fmt"
	"strings"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/adboard/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MaxInstallments bounds the size of a generated schedule
const MaxInstallments = 120

// Formula parameter names available to installment formulas
const (
	FormulaParamTotal        = "total"
	FormulaParamDiscount     = "discount"
	FormulaParamRent         = "rent"
	FormulaParamInstallation = "installation"
)

// SchedulePlan describes how a contract total is split into installments.
// With Formulas set, each formula yields one installment; otherwise Total is
// split evenly into Count installments with the rounding remainder on the last.
type SchedulePlan struct {
	Total        decimal.Decimal
	Discount     decimal.Decimal
	Rent         decimal.Decimal
	Installation decimal.Decimal
	Count        int
	Formulas     []string
	StartDate    time.Time
	// IntervalMonths between due dates, 1 when unset
	IntervalMonths int
}

// GenerateSchedule builds installments from a plan. The first installment is
// due on the start date and the next ones every IntervalMonths after it.
func GenerateSchedule(plan SchedulePlan) ([]Installment, error) {
	if plan.StartDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Schedule start date is required")
	}
	interval := plan.IntervalMonths
	if interval <= 0 {
		interval = 1
	}

	var amounts []decimal.Decimal
	var err error
	if len(plan.Formulas) > 0 {
		amounts, err = formulaAmounts(plan)
	} else {
		amounts, err = evenAmounts(plan.Total, plan.Count)
	}
	if err != nil {
		return nil, err
	}

	installments := make([]Installment, len(amounts))
	for i, amount := range amounts {
		installments[i] = Installment{
			Amount:      amount,
			DueDate:     addMonths(plan.StartDate, i*interval),
			Description: fmt.Sprintf("Installment %d of %d", i+1, len(amounts)),
		}
	}
	return installments, nil
}

func evenAmounts(total decimal.Decimal, count int) ([]decimal.Decimal, error) {
	if count <= 0 || count > MaxInstallments {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", fmt.Sprintf("Installment count must be between 1 and %d", MaxInstallments))
	}
	total = valueobject.RoundCurrency(valueobject.NonNegative(total))
	share := total.Div(decimal.NewFromInt(int64(count))).RoundDown(valueobject.CurrencyPlaces)

	amounts := make([]decimal.Decimal, count)
	allocated := decimal.Zero
	for i := 0; i < count-1; i++ {
		amounts[i] = share
		allocated = allocated.Add(share)
	}
	amounts[count-1] = total.Sub(allocated)
	return amounts, nil
}

func formulaAmounts(plan SchedulePlan) ([]decimal.Decimal, error) {
	if len(plan.Formulas) > MaxInstallments {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", fmt.Sprintf("At most %d installment formulas are allowed", MaxInstallments))
	}

	parameters := map[string]interface{}{
		FormulaParamTotal:        plan.Total.InexactFloat64(),
		FormulaParamDiscount:     plan.Discount.InexactFloat64(),
		FormulaParamRent:         plan.Rent.InexactFloat64(),
		FormulaParamInstallation: plan.Installation.InexactFloat64(),
	}

	amounts := make([]decimal.Decimal, 0, len(plan.Formulas))
	for i, formula := range plan.Formulas {
		formula = strings.TrimSpace(formula)
		expression, err := govaluate.NewEvaluableExpression(formula)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_FORMULA", fmt.Sprintf("Installment %d: invalid formula %q: %v", i+1, formula, err))
		}
		result, err := expression.Evaluate(parameters)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_FORMULA", fmt.Sprintf("Installment %d: cannot evaluate %q: %v", i+1, formula, err))
		}
		value, ok := result.(float64)
		if !ok {
			return nil, shared.NewDomainError("INVALID_FORMULA", fmt.Sprintf("Installment %d: formula %q is not numeric", i+1, formula))
		}
		amounts = append(amounts, valueobject.RoundCurrency(valueobject.NonNegative(valueobject.SafeDecimal(value))))
	}
	return amounts, nil
}

// addMonths adds months to t, clamping the day to the target month's length
func addMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return first.AddDate(0, 0, day-1)
}
