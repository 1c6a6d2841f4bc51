package models

// CategoryAggregate summarizes spending inside one merchant category.
type CategoryAggregate struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// SpendingProfile maps category label to its aggregate. Categories with no
// transactions are absent, never zero-valued.
type SpendingProfile struct {
	Categories    map[string]CategoryAggregate `json:"categories"`
	TotalSpending float64                      `json:"total_spending"`
	MonthlyIncome float64                      `json:"monthly_income"`
	DepositCount  int                          `json:"deposit_count"`
	NSFEvents     int                          `json:"nsf_events"`
}

// TopCategories returns up to n category labels ordered by total spend
// descending, ties broken alphabetically for determinism.
func (p *SpendingProfile) TopCategories(n int) []string {
	type kv struct {
		label string
		total float64
	}
	ranked := make([]kv, 0, len(p.Categories))
	for label, agg := range p.Categories {
		ranked = append(ranked, kv{label, agg.Total})
	}
	for i := 0; i < len(ranked); i++ {
		for j := i + 1; j < len(ranked); j++ {
			if ranked[j].total > ranked[i].total ||
				(ranked[j].total == ranked[i].total && ranked[j].label < ranked[i].label) {
				ranked[i], ranked[j] = ranked[j], ranked[i]
			}
		}
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, 0, n)
	for _, r := range ranked[:n] {
		out = append(out, r.label)
	}
	return out
}
