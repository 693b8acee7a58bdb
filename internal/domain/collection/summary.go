package collection

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// OverdueSummary is the per-customer rollup of overdue records
type OverdueSummary struct {
	CustomerID         string          `json:"customer_id"`
	CustomerName       string          `json:"customer_name"`
	HasOverdue         bool            `json:"has_overdue"`
	OldestDueDate      *time.Time      `json:"oldest_due_date,omitempty"`
	OldestDaysOverdue  int             `json:"oldest_days_overdue"`
	TotalOverdueAmount decimal.Decimal `json:"total_overdue_amount"`
	OverdueCount       int             `json:"overdue_count"`
}

// Summarize rolls up records that all belong to one customer
func Summarize(records []OverdueInstallment) OverdueSummary {
	summary := OverdueSummary{TotalOverdueAmount: decimal.Zero}
	for _, rec := range records {
		if summary.CustomerID == "" {
			summary.CustomerID = rec.CustomerID
			summary.CustomerName = rec.CustomerName
		}
		summary.HasOverdue = true
		summary.OverdueCount++
		summary.TotalOverdueAmount = summary.TotalOverdueAmount.Add(rec.InstallmentAmount)
		if summary.OldestDueDate == nil || rec.DaysOverdue > summary.OldestDaysOverdue {
			due := rec.DueDate
			summary.OldestDueDate = &due
			summary.OldestDaysOverdue = rec.DaysOverdue
		}
	}
	return summary
}

// SummarizeByCustomer groups records by customer ID and rolls each group up
func SummarizeByCustomer(records []OverdueInstallment) map[string]OverdueSummary {
	grouped := make(map[string][]OverdueInstallment)
	for _, rec := range records {
		grouped[rec.CustomerID] = append(grouped[rec.CustomerID], rec)
	}

	summaries := make(map[string]OverdueSummary, len(grouped))
	for customerID, group := range grouped {
		summaries[customerID] = Summarize(group)
	}
	return summaries
}

// SortedSummaries returns summaries ordered by total overdue amount, largest first.
// Ties are broken by customer ID.
func SortedSummaries(summaries map[string]OverdueSummary) []OverdueSummary {
	result := make([]OverdueSummary, 0, len(summaries))
	for _, s := range summaries {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		if cmp := result[i].TotalOverdueAmount.Cmp(result[j].TotalOverdueAmount); cmp != 0 {
			return cmp > 0
		}
		return result[i].CustomerID < result[j].CustomerID
	})
	return result
}
