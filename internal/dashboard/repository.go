package dashboard

import "context"

// Repository reads the rows the dashboard aggregates
type Repository interface {
	ListMemberSubscriptions(ctx context.Context, userID int64) ([]*memberSubscription, error)
	LifetimeTotals(ctx context.Context, userID int64) (paid, saved float64, err error)
}
