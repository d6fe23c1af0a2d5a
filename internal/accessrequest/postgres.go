package accessrequest

import (
	"context"
	"database/sql"
	"fmt"
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

// NewRepository creates a postgres-backed access request repository
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

const requestColumns = "id, user_id, subscription_id, status, message, admin_response, responded_by, responded_at, created_at"

func (r *postgresRepository) Create(ctx context.Context, userID, subscriptionID int64, message *string) (*AccessRequest, error) {
	query := `
		INSERT INTO access_requests (user_id, subscription_id, message)
		VALUES ($1, $2, $3)
		RETURNING ` + requestColumns

	req := &AccessRequest{}
	err := r.q.QueryRowContext(ctx, query, userID, subscriptionID, message).Scan(
		&req.ID,
		&req.UserID,
		&req.SubscriptionID,
		&req.Status,
		&req.Message,
		&req.AdminResponse,
		&req.RespondedBy,
		&req.RespondedAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create access request: %w", err)
	}

	return req, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*AccessRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM access_requests WHERE id = $1`

	req := &AccessRequest{}
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.UserID,
		&req.SubscriptionID,
		&req.Status,
		&req.Message,
		&req.AdminResponse,
		&req.RespondedBy,
		&req.RespondedAt,
		&req.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get access request: %w", err)
	}

	return req, nil
}

func (r *postgresRepository) HasPending(ctx context.Context, userID, subscriptionID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM access_requests
			WHERE user_id = $1 AND subscription_id = $2 AND status = 'pending'
		)
	`
	if err := r.q.QueryRowContext(ctx, query, userID, subscriptionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID int64, status Status) ([]*AccessRequest, error) {
	query := `
		SELECT ar.id, ar.user_id, ar.subscription_id, ar.status, ar.message, ar.admin_response,
		       ar.responded_by, ar.responded_at, ar.created_at, s.name, u.username
		FROM access_requests ar
		JOIN subscriptions s ON ar.subscription_id = s.id
		JOIN users u ON ar.user_id = u.id
		WHERE s.owner_id = $1 AND ($2 = '' OR ar.status = $2)
		ORDER BY ar.created_at DESC
	`
	return r.list(ctx, query, ownerID, string(status))
}

func (r *postgresRepository) ListByRequester(ctx context.Context, userID int64, status Status) ([]*AccessRequest, error) {
	query := `
		SELECT ar.id, ar.user_id, ar.subscription_id, ar.status, ar.message, ar.admin_response,
		       ar.responded_by, ar.responded_at, ar.created_at, s.name, u.username
		FROM access_requests ar
		JOIN subscriptions s ON ar.subscription_id = s.id
		JOIN users u ON ar.user_id = u.id
		WHERE ar.user_id = $1 AND ($2 = '' OR ar.status = $2)
		ORDER BY ar.created_at DESC
	`
	return r.list(ctx, query, userID, string(status))
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]*AccessRequest, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list access requests: %w", err)
	}
	defer rows.Close()

	var requests []*AccessRequest
	for rows.Next() {
		req := &AccessRequest{}
		if err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.SubscriptionID,
			&req.Status,
			&req.Message,
			&req.AdminResponse,
			&req.RespondedBy,
			&req.RespondedAt,
			&req.CreatedAt,
			&req.SubscriptionName,
			&req.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan access request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id int64, status Status, adminResponse *string, respondedBy int64) (*AccessRequest, error) {
	query := `
		UPDATE access_requests
		SET status = $2, admin_response = $3, responded_by = $4, responded_at = now()
		WHERE id = $1
		RETURNING ` + requestColumns

	req := &AccessRequest{}
	err := r.q.QueryRowContext(ctx, query, id, status, adminResponse, respondedBy).Scan(
		&req.ID,
		&req.UserID,
		&req.SubscriptionID,
		&req.Status,
		&req.Message,
		&req.AdminResponse,
		&req.RespondedBy,
		&req.RespondedAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update access request: %w", err)
	}

	return req, nil
}

const subscriptionInfoColumns = "id, name, owner_id, max_members, current_members, is_public, is_active"

func (r *postgresRepository) GetSubscription(ctx context.Context, id int64) (*subscriptionInfo, error) {
	query := `SELECT ` + subscriptionInfoColumns + ` FROM subscriptions WHERE id = $1`
	return r.scanSubscription(r.q.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) GetSubscriptionForUpdate(ctx context.Context, id int64) (*subscriptionInfo, error) {
	query := `SELECT ` + subscriptionInfoColumns + ` FROM subscriptions WHERE id = $1 FOR UPDATE`
	return r.scanSubscription(r.q.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) scanSubscription(row *sql.Row) (*subscriptionInfo, error) {
	info := &subscriptionInfo{}
	err := row.Scan(
		&info.ID,
		&info.Name,
		&info.OwnerID,
		&info.MaxMembers,
		&info.CurrentMembers,
		&info.IsPublic,
		&info.IsActive,
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

func (r *postgresRepository) AddSubscriptionMember(ctx context.Context, subscriptionID, userID int64) error {
	query := `
		INSERT INTO subscription_members (subscription_id, user_id, role)
		VALUES ($1, $2, 'member')
	`
	if _, err := r.q.ExecContext(ctx, query, subscriptionID, userID); err != nil {
		return fmt.Errorf("failed to add subscription member: %w", err)
	}
	return nil
}

func (r *postgresRepository) IncrementCurrentMembers(ctx context.Context, subscriptionID int64) error {
	query := `UPDATE subscriptions SET current_members = current_members + 1 WHERE id = $1`
	if _, err := r.q.ExecContext(ctx, query, subscriptionID); err != nil {
		return fmt.Errorf("failed to update member count: %w", err)
	}
	return nil
}
