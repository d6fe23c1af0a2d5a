package payment

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type postgresRepository struct {
	db *sql.DB
	q  querier
}

// NewRepository creates a postgres-backed payment repository
func NewRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db, q: db}
}

func (r *postgresRepository) Transaction(ctx context.Context, fn func(Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&postgresRepository{db: r.db, q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const paymentColumns = "id, user_id, subscription_id, amount, status, type, billing_period_start, billing_period_end, paid_at, created_at"

func scanPayment(row interface{ Scan(...interface{}) error }) (*Payment, error) {
	p := &Payment{}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.SubscriptionID,
		&p.Amount,
		&p.Status,
		&p.Type,
		&p.BillingPeriodStart,
		&p.BillingPeriodEnd,
		&p.PaidAt,
		&p.CreatedAt,
	)
	return p, err
}

func (r *postgresRepository) Create(ctx context.Context, p *Payment) (*Payment, error) {
	query := `
		INSERT INTO payments (user_id, subscription_id, amount, type, billing_period_start, billing_period_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + paymentColumns

	created, err := scanPayment(r.q.QueryRowContext(ctx, query,
		p.UserID, p.SubscriptionID, p.Amount, p.Type, p.BillingPeriodStart, p.BillingPeriodEnd,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) ListByUserID(ctx context.Context, userID int64, filter *Filter) ([]*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.SubscriptionID != nil {
		args = append(args, *filter.SubscriptionID)
		query += " AND subscription_id = $" + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += " AND status = $" + strconv.Itoa(len(args))
	}

	args = append(args, filter.Limit)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args))

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, nil
}

func (r *postgresRepository) MarkPaid(ctx context.Context, id int64) (*Payment, error) {
	// Conditional on the current status so two concurrent completions
	// cannot both succeed; the loser sees no row.
	query := `
		UPDATE payments
		SET status = 'paid', paid_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + paymentColumns

	p, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark payment paid: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) UpsertFinancialSummary(ctx context.Context, userID int64, year, month int, paidDelta, savedDelta float64) error {
	query := `
		INSERT INTO financial_summaries (user_id, year, month, total_paid, total_saved)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, year, month)
		DO UPDATE SET total_paid = financial_summaries.total_paid + EXCLUDED.total_paid,
		              total_saved = financial_summaries.total_saved + EXCLUDED.total_saved
	`
	if _, err := r.q.ExecContext(ctx, query, userID, year, month, paidDelta, savedDelta); err != nil {
		return fmt.Errorf("failed to upsert financial summary: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetSubscription(ctx context.Context, id int64) (*subscriptionInfo, error) {
	query := `SELECT id, owner_id, total_price, current_members FROM subscriptions WHERE id = $1`

	info := &subscriptionInfo{}
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&info.ID,
		&info.OwnerID,
		&info.TotalPrice,
		&info.CurrentMembers,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return info, nil
}

func (r *postgresRepository) IsSubscriptionMember(ctx context.Context, subscriptionID, userID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM subscription_members
			WHERE subscription_id = $1 AND user_id = $2
		)
	`
	if err := r.q.QueryRowContext(ctx, query, subscriptionID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}
