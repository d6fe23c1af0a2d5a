package group

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

// NewRepository creates a postgres-backed group repository
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

const groupColumns = "id, name, description, owner_id, max_members, invite_code, is_active, created_at"

func (r *postgresRepository) Create(ctx context.Context, g *Group) (*Group, error) {
	query := `
		INSERT INTO groups (name, description, owner_id, max_members, invite_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + groupColumns

	created := &Group{}
	err := r.q.QueryRowContext(ctx, query, g.Name, g.Description, g.OwnerID, g.MaxMembers, g.InviteCode).Scan(
		&created.ID,
		&created.Name,
		&created.Description,
		&created.OwnerID,
		&created.MaxMembers,
		&created.InviteCode,
		&created.IsActive,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	return r.scanGroup(r.q.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id int64) (*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1 FOR UPDATE`
	return r.scanGroup(r.q.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) scanGroup(row *sql.Row) (*Group, error) {
	g := &Group{}
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.OwnerID,
		&g.MaxMembers,
		&g.InviteCode,
		&g.IsActive,
		&g.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

func (r *postgresRepository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(DISTINCT g.id)
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
	`
	if err := r.q.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT g.id, g.name, g.description, g.owner_id, g.max_members, g.invite_code, g.is_active, g.created_at
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.q.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g := &Group{}
		if err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.Description,
			&g.OwnerID,
			&g.MaxMembers,
			&g.InviteCode,
			&g.IsActive,
			&g.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, total, nil
}

func (r *postgresRepository) InviteCodeTaken(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM groups WHERE invite_code = $1)`
	if err := r.q.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check invite code: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) AddMember(ctx context.Context, groupID, userID int64, role MemberRole, status MemberStatus) (*GroupMember, error) {
	query := `
		INSERT INTO group_members (group_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, user_id, role, status, joined_at
	`

	member := &GroupMember{}
	err := r.q.QueryRowContext(ctx, query, groupID, userID, role, status).Scan(
		&member.ID,
		&member.GroupID,
		&member.UserID,
		&member.Role,
		&member.Status,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

func (r *postgresRepository) GetMember(ctx context.Context, groupID, userID int64) (*GroupMember, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.role, gm.status, gm.joined_at, u.username, u.email
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1 AND gm.user_id = $2
	`

	member := &GroupMember{}
	err := r.q.QueryRowContext(ctx, query, groupID, userID).Scan(
		&member.ID,
		&member.GroupID,
		&member.UserID,
		&member.Role,
		&member.Status,
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

func (r *postgresRepository) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.role, gm.status, gm.joined_at, u.username, u.email
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at
	`

	rows, err := r.q.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*GroupMember
	for rows.Next() {
		member := &GroupMember{}
		if err := rows.Scan(
			&member.ID,
			&member.GroupID,
			&member.UserID,
			&member.Role,
			&member.Status,
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

func (r *postgresRepository) CountMembers(ctx context.Context, groupID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM group_members WHERE group_id = $1`
	if err := r.q.QueryRowContext(ctx, query, groupID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) UpdateMemberRole(ctx context.Context, groupID, userID int64, role MemberRole) (*GroupMember, error) {
	query := `
		UPDATE group_members
		SET role = $3
		WHERE group_id = $1 AND user_id = $2
		RETURNING id, group_id, user_id, role, status, joined_at
	`
	return r.scanMemberUpdate(r.q.QueryRowContext(ctx, query, groupID, userID, role))
}

func (r *postgresRepository) UpdateMemberStatus(ctx context.Context, groupID, userID int64, status MemberStatus) (*GroupMember, error) {
	query := `
		UPDATE group_members
		SET status = $3, joined_at = now()
		WHERE group_id = $1 AND user_id = $2
		RETURNING id, group_id, user_id, role, status, joined_at
	`
	return r.scanMemberUpdate(r.q.QueryRowContext(ctx, query, groupID, userID, status))
}

func (r *postgresRepository) scanMemberUpdate(row *sql.Row) (*GroupMember, error) {
	member := &GroupMember{}
	err := row.Scan(
		&member.ID,
		&member.GroupID,
		&member.UserID,
		&member.Role,
		&member.Status,
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

func (r *postgresRepository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`

	result, err := r.q.ExecContext(ctx, query, groupID, userID)
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
