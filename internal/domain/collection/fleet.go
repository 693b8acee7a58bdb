package collection

import (
	"sort"
	"time"

	"github.com/adboard/backend/internal/domain/contract"
	"github.com/shopspring/decimal"
)

// FleetOverdueContract is a row of the coarse fleet overdue view
type FleetOverdueContract struct {
	ContractNumber string          `json:"contract_number"`
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	EndDate        time.Time       `json:"end_date"`
	Total          decimal.Decimal `json:"total"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	Outstanding    decimal.Decimal `json:"outstanding"`
}

// TopOverdueContracts returns up to n ended contracts with Total - TotalPaid > 0,
// largest outstanding first. It ignores installment schedules entirely, so its
// numbers can differ from Reconcile; both views are kept on purpose.
// A non-positive n returns all matches.
func TopOverdueContracts(contracts []contract.Contract, classifier *contract.Classifier, now time.Time, n int) []FleetOverdueContract {
	rows := make([]FleetOverdueContract, 0)
	for _, c := range contracts {
		if c.EndDate == nil || !classifier.IsExpired(*c.EndDate, now) {
			continue
		}
		outstanding := c.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}
		rows = append(rows, FleetOverdueContract{
			ContractNumber: c.ContractNumber,
			CustomerID:     c.CustomerID,
			CustomerName:   c.CustomerName,
			EndDate:        *c.EndDate,
			Total:          c.Total,
			TotalPaid:      c.TotalPaid,
			Outstanding:    outstanding,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Outstanding.GreaterThan(rows[j].Outstanding)
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
