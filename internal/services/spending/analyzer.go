package spending

import (
	"sort"

	"PreApprove/internal/domain/models"
)

// Analyze derives categorized spending aggregates from a snapshot. Pure and
// deterministic: identical snapshot content yields an identical profile no
// matter how the transactions are ordered. Categories without spending are
// omitted entirely.
func Analyze(snapshot *models.UserFinancialSnapshot) models.SpendingProfile {
	categories := make(map[string]models.CategoryAggregate)
	var totalSpending float64
	nsfEvents := 0

	// Running balance walked backwards from the current balance; points where
	// the estimate dips below zero count as NSF events. Transactions are
	// replayed in timestamp order so the count does not depend on input order.
	ordered := make([]models.Transaction, len(snapshot.Transactions))
	copy(ordered, snapshot.Transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Timestamp.Equal(ordered[j].Timestamp) {
			return ordered[i].Timestamp.Before(ordered[j].Timestamp)
		}
		return ordered[i].ID < ordered[j].ID
	})
	balance := snapshot.CurrentBalance
	for i := len(ordered) - 1; i >= 0; i-- {
		balance -= ordered[i].Amount
		if balance < 0 {
			nsfEvents++
		}
	}

	for _, tx := range snapshot.Transactions {
		if tx.Amount >= 0 {
			continue // spending only
		}
		amount := -tx.Amount
		agg := categories[tx.Category]
		agg.Total += amount
		agg.Count++
		categories[tx.Category] = agg
		totalSpending += amount
	}

	if totalSpending > 0 {
		for label, agg := range categories {
			agg.Percent = agg.Total / totalSpending * 100
			categories[label] = agg
		}
	}

	var totalIncome float64
	for _, dep := range snapshot.IncomeDeposits {
		totalIncome += dep.Amount
	}
	monthlyIncome := 0.0
	if months := depositMonths(snapshot.IncomeDeposits); months > 0 {
		monthlyIncome = totalIncome / float64(months)
	}

	return models.SpendingProfile{
		Categories:    categories,
		TotalSpending: totalSpending,
		MonthlyIncome: monthlyIncome,
		DepositCount:  len(snapshot.IncomeDeposits),
		NSFEvents:     nsfEvents,
	}
}

// depositMonths counts distinct calendar months covered by the deposits.
func depositMonths(deposits []models.Transaction) int {
	seen := make(map[string]struct{})
	for _, dep := range deposits {
		seen[dep.Timestamp.Format("2006-01")] = struct{}{}
	}
	return len(seen)
}
