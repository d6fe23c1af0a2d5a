package dashboard

import "context"

// Service handles dashboard business logic
type Service struct {
	repo Repository
}

// NewService creates a new dashboard service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetFinancial builds the caller's financial overview. The current month is
// computed from live subscription memberships; lifetime totals come from the
// accumulated monthly summaries.
func (s *Service) GetFinancial(ctx context.Context, userID int64) (*FinancialDashboard, error) {
	subs, err := s.repo.ListMemberSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}

	dash := &FinancialDashboard{Subscriptions: len(subs)}
	for _, sub := range subs {
		share := sub.TotalPrice
		if sub.CurrentMembers > 0 {
			share = sub.TotalPrice / float64(sub.CurrentMembers)
		}
		dash.CurrentMonth.TotalPaid += share
		dash.CurrentMonth.TotalSaved += sub.TotalPrice - share
	}
	dash.CurrentMonth.SavingsPercentage = savingsPercentage(dash.CurrentMonth.TotalPaid, dash.CurrentMonth.TotalSaved)

	paid, saved, err := s.repo.LifetimeTotals(ctx, userID)
	if err != nil {
		return nil, err
	}
	dash.Lifetime = Totals{
		TotalPaid:         paid,
		TotalSaved:        saved,
		SavingsPercentage: savingsPercentage(paid, saved),
	}

	return dash, nil
}

func savingsPercentage(paid, saved float64) float64 {
	total := paid + saved
	if total == 0 {
		return 0
	}
	return saved / total * 100
}
