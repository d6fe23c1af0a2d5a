package payment

import "context"

// Repository handles payment persistence. Completing a payment also
// updates the payer's monthly financial summary, so the summary upsert
// lives here and runs inside Transaction with the status change.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, p *Payment) (*Payment, error)
	GetByID(ctx context.Context, id int64) (*Payment, error)
	ListByUserID(ctx context.Context, userID int64, filter *Filter) ([]*Payment, error)
	MarkPaid(ctx context.Context, id int64) (*Payment, error)
	UpsertFinancialSummary(ctx context.Context, userID int64, year, month int, paidDelta, savedDelta float64) error

	GetSubscription(ctx context.Context, id int64) (*subscriptionInfo, error)
	IsSubscriptionMember(ctx context.Context, subscriptionID, userID int64) (bool, error)
}
