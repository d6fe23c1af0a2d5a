package subscription

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
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

// NewRepository creates a postgres-backed subscription repository
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

const subscriptionColumns = "id, name, service_name, description, owner_id, group_id, total_price, max_members, current_members, is_public, is_active, credential_id, renews_at, created_at"

func scanSubscription(row interface{ Scan(...interface{}) error }) (*Subscription, error) {
	s := &Subscription{}
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.ServiceName,
		&s.Description,
		&s.OwnerID,
		&s.GroupID,
		&s.TotalPrice,
		&s.MaxMembers,
		&s.CurrentMembers,
		&s.IsPublic,
		&s.IsActive,
		&s.CredentialID,
		&s.RenewsAt,
		&s.CreatedAt,
	)
	return s, err
}

func (r *postgresRepository) Create(ctx context.Context, s *Subscription) (*Subscription, error) {
	query := `
		INSERT INTO subscriptions (name, service_name, description, owner_id, group_id, total_price, max_members, current_members, is_public, renews_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + subscriptionColumns

	created, err := scanSubscription(r.q.QueryRowContext(ctx, query,
		s.Name, s.ServiceName, s.Description, s.OwnerID, s.GroupID,
		s.TotalPrice, s.MaxMembers, s.CurrentMembers, s.IsPublic, s.RenewsAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	s, err := scanSubscription(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id int64) (*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 FOR UPDATE`
	s, err := scanSubscription(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) Update(ctx context.Context, id int64, req *UpdateSubscriptionRequest) (*Subscription, error) {
	query := `
		UPDATE subscriptions
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    total_price = COALESCE($4, total_price),
		    is_public = COALESCE($5, is_public),
		    is_active = COALESCE($6, is_active),
		    renews_at = COALESCE($7, renews_at)
		WHERE id = $1
		RETURNING ` + subscriptionColumns

	s, err := scanSubscription(r.q.QueryRowContext(ctx, query, id,
		req.Name, req.Description, req.TotalPrice, req.IsPublic, req.IsActive, req.RenewsAt,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) ListByUserID(ctx context.Context, userID int64) ([]*SubscriptionWithRole, error) {
	query := `
		SELECT s.id, s.name, s.service_name, s.description, s.owner_id, s.group_id, s.total_price,
		       s.max_members, s.current_members, s.is_public, s.is_active, s.credential_id, s.renews_at,
		       s.created_at, sm.role
		FROM subscriptions s
		JOIN subscription_members sm ON s.id = sm.subscription_id
		WHERE sm.user_id = $1
		ORDER BY s.created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*SubscriptionWithRole
	for rows.Next() {
		s := &SubscriptionWithRole{}
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.ServiceName,
			&s.Description,
			&s.OwnerID,
			&s.GroupID,
			&s.TotalPrice,
			&s.MaxMembers,
			&s.CurrentMembers,
			&s.IsPublic,
			&s.IsActive,
			&s.CredentialID,
			&s.RenewsAt,
			&s.CreatedAt,
			&s.Role,
		); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, s)
	}

	return subs, nil
}

func (r *postgresRepository) SearchPublic(ctx context.Context, filter *PublicFilter) ([]*Subscription, int, error) {
	conditions := []string{"is_public = TRUE", "is_active = TRUE"}
	args := []interface{}{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		conditions = append(conditions, "(name ILIKE $"+n+" OR description ILIKE $"+n+")")
	}
	if filter.Service != "" {
		args = append(args, "%"+filter.Service+"%")
		conditions = append(conditions, "service_name ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, "total_price <= $"+strconv.Itoa(len(args)))
	}
	if filter.AvailableSpots {
		conditions = append(conditions, "current_members < max_members")
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM subscriptions WHERE " + where
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := "SELECT " + subscriptionColumns + " FROM subscriptions WHERE " + where +
		" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, s)
	}

	return subs, total, nil
}

func (r *postgresRepository) SetCredentialID(ctx context.Context, id int64, credentialID string) error {
	query := `UPDATE subscriptions SET credential_id = $2 WHERE id = $1`
	if _, err := r.q.ExecContext(ctx, query, id, credentialID); err != nil {
		return fmt.Errorf("failed to set credential id: %w", err)
	}
	return nil
}

func (r *postgresRepository) AddMember(ctx context.Context, subscriptionID, userID int64, role MemberRole) (*SubscriptionMember, error) {
	query := `
		INSERT INTO subscription_members (subscription_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, subscription_id, user_id, role, joined_at
	`

	member := &SubscriptionMember{}
	err := r.q.QueryRowContext(ctx, query, subscriptionID, userID, role).Scan(
		&member.ID,
		&member.SubscriptionID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

func (r *postgresRepository) GetMember(ctx context.Context, subscriptionID, userID int64) (*SubscriptionMember, error) {
	query := `
		SELECT sm.id, sm.subscription_id, sm.user_id, sm.role, sm.joined_at, u.username, u.email
		FROM subscription_members sm
		JOIN users u ON sm.user_id = u.id
		WHERE sm.subscription_id = $1 AND sm.user_id = $2
	`

	member := &SubscriptionMember{}
	err := r.q.QueryRowContext(ctx, query, subscriptionID, userID).Scan(
		&member.ID,
		&member.SubscriptionID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
		&member.Username,
		&member.Email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

func (r *postgresRepository) GetMembers(ctx context.Context, subscriptionID int64) ([]*SubscriptionMember, error) {
	query := `
		SELECT sm.id, sm.subscription_id, sm.user_id, sm.role, sm.joined_at, u.username, u.email
		FROM subscription_members sm
		JOIN users u ON sm.user_id = u.id
		WHERE sm.subscription_id = $1
		ORDER BY sm.joined_at
	`

	rows, err := r.q.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*SubscriptionMember
	for rows.Next() {
		member := &SubscriptionMember{}
		if err := rows.Scan(
			&member.ID,
			&member.SubscriptionID,
			&member.UserID,
			&member.Role,
			&member.JoinedAt,
			&member.Username,
			&member.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, nil
}

func (r *postgresRepository) UpdateMemberRole(ctx context.Context, subscriptionID, userID int64, role MemberRole) (*SubscriptionMember, error) {
	query := `
		UPDATE subscription_members
		SET role = $3
		WHERE subscription_id = $1 AND user_id = $2
		RETURNING id, subscription_id, user_id, role, joined_at
	`

	member := &SubscriptionMember{}
	err := r.q.QueryRowContext(ctx, query, subscriptionID, userID, role).Scan(
		&member.ID,
		&member.SubscriptionID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return member, nil
}

func (r *postgresRepository) RemoveMember(ctx context.Context, subscriptionID, userID int64) error {
	query := `DELETE FROM subscription_members WHERE subscription_id = $1 AND user_id = $2`

	result, err := r.q.ExecContext(ctx, query, subscriptionID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

func (r *postgresRepository) IncrementCurrentMembers(ctx context.Context, subscriptionID int64, delta int) error {
	query := `UPDATE subscriptions SET current_members = current_members + $2 WHERE id = $1`
	if _, err := r.q.ExecContext(ctx, query, subscriptionID, delta); err != nil {
		return fmt.Errorf("failed to update member count: %w", err)
	}
	return nil
}
