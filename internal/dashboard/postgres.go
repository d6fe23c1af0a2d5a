package dashboard

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepository struct {
	db *sql.DB
}

// NewRepository creates a postgres-backed dashboard repository
func NewRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListMemberSubscriptions(ctx context.Context, userID int64) ([]*memberSubscription, error) {
	query := `
		SELECT s.total_price, s.current_members
		FROM subscriptions s
		JOIN subscription_members sm ON s.id = sm.subscription_id
		WHERE sm.user_id = $1 AND s.is_active = TRUE
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*memberSubscription
	for rows.Next() {
		s := &memberSubscription{}
		if err := rows.Scan(&s.TotalPrice, &s.CurrentMembers); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, s)
	}

	return subs, nil
}

func (r *postgresRepository) LifetimeTotals(ctx context.Context, userID int64) (float64, float64, error) {
	query := `
		SELECT COALESCE(SUM(total_paid), 0), COALESCE(SUM(total_saved), 0)
		FROM financial_summaries
		WHERE user_id = $1
	`

	var paid, saved float64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&paid, &saved); err != nil {
		return 0, 0, fmt.Errorf("failed to sum financial summaries: %w", err)
	}

	return paid, saved, nil
}
