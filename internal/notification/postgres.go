package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type postgresRepository struct {
	db *sql.DB
}

// NewRepository creates a postgres-backed notification repository
func NewRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const notificationColumns = "id, user_id, title, message, type, related_entity_id, related_entity_type, is_read, read_at, created_at"

func scanNotification(row interface{ Scan(...interface{}) error }) (*Notification, error) {
	n := &Notification{}
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.RelatedEntityID,
		&n.RelatedEntityType,
		&n.IsRead,
		&n.ReadAt,
		&n.CreatedAt,
	)
	return n, err
}

func (r *postgresRepository) Create(ctx context.Context, n *Notification) (*Notification, error) {
	query := `
		INSERT INTO notifications (user_id, title, message, type, related_entity_id, related_entity_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + notificationColumns

	created, err := scanNotification(r.db.QueryRowContext(ctx, query,
		n.UserID, n.Title, n.Message, n.Type, n.RelatedEntityID, n.RelatedEntityType,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) ListByUserID(ctx context.Context, userID int64, unreadOnly bool, ntype string, limit int) ([]*Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		  AND ($2 = FALSE OR is_read = FALSE)
		  AND ($3 = '' OR type = $3)
		ORDER BY created_at DESC
		LIMIT $4
	`

	rows, err := r.db.QueryContext(ctx, query, userID, unreadOnly, ntype, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

func (r *postgresRepository) MarkRead(ctx context.Context, id int64) (*Notification, error) {
	// read_at is stamped once; re-marking keeps the original timestamp
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = COALESCE(read_at, now())
		WHERE id = $1
		RETURNING ` + notificationColumns

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) HasRecent(ctx context.Context, userID int64, ntype string, entityID int64, since time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND type = $2 AND related_entity_id = $3 AND created_at >= $4
		)
	`
	if err := r.db.QueryRowContext(ctx, query, userID, ntype, entityID, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recent notifications: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ListOverduePendingPayments(ctx context.Context, createdBefore time.Time) ([]*paymentReminderTarget, error) {
	query := `
		SELECT p.id, p.user_id, s.name, p.amount
		FROM payments p
		JOIN subscriptions s ON p.subscription_id = s.id
		WHERE p.status = 'pending' AND p.created_at < $1
	`

	rows, err := r.db.QueryContext(ctx, query, createdBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue payments: %w", err)
	}
	defer rows.Close()

	var targets []*paymentReminderTarget
	for rows.Next() {
		t := &paymentReminderTarget{}
		if err := rows.Scan(&t.PaymentID, &t.UserID, &t.SubscriptionName, &t.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan overdue payment: %w", err)
		}
		targets = append(targets, t)
	}

	return targets, nil
}

func (r *postgresRepository) ListUpcomingRenewals(ctx context.Context, until time.Time) ([]*renewalAlertTarget, error) {
	query := `
		SELECT s.id, sm.user_id, s.name, s.renews_at
		FROM subscriptions s
		JOIN subscription_members sm ON s.id = sm.subscription_id
		WHERE s.is_active = TRUE AND s.renews_at IS NOT NULL AND s.renews_at BETWEEN now() AND $1
	`

	rows, err := r.db.QueryContext(ctx, query, until)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming renewals: %w", err)
	}
	defer rows.Close()

	var targets []*renewalAlertTarget
	for rows.Next() {
		t := &renewalAlertTarget{}
		if err := rows.Scan(&t.SubscriptionID, &t.UserID, &t.SubscriptionName, &t.RenewsAt); err != nil {
			return nil, fmt.Errorf("failed to scan upcoming renewal: %w", err)
		}
		targets = append(targets, t)
	}

	return targets, nil
}
