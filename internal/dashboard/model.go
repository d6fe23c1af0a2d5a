package dashboard

// Totals holds aggregated amounts for one period
type Totals struct {
	TotalPaid         float64 `json:"total_paid"`
	TotalSaved        float64 `json:"total_saved"`
	SavingsPercentage float64 `json:"savings_percentage"`
}

// FinancialDashboard is the caller's financial overview
type FinancialDashboard struct {
	CurrentMonth  Totals `json:"current_month"`
	Lifetime      Totals `json:"lifetime"`
	Subscriptions int    `json:"subscriptions"`
}

// memberSubscription is the cost slice of a subscription the caller belongs to
type memberSubscription struct {
	TotalPrice     float64
	CurrentMembers int
}
