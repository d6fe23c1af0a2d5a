package group

import "context"

// Repository handles group data persistence. Transaction runs fn against a
// transaction-scoped repository; the writes commit together or not at all.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, g *Group) (*Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	// GetByIDForUpdate locks the group row for the duration of the
	// enclosing transaction so capacity checks cannot race.
	GetByIDForUpdate(ctx context.Context, id int64) (*Group, error)
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Group, int, error)
	InviteCodeTaken(ctx context.Context, code string) (bool, error)

	AddMember(ctx context.Context, groupID, userID int64, role MemberRole, status MemberStatus) (*GroupMember, error)
	GetMember(ctx context.Context, groupID, userID int64) (*GroupMember, error)
	GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error)
	CountMembers(ctx context.Context, groupID int64) (int, error)
	UpdateMemberRole(ctx context.Context, groupID, userID int64, role MemberRole) (*GroupMember, error)
	UpdateMemberStatus(ctx context.Context, groupID, userID int64, status MemberStatus) (*GroupMember, error)
	RemoveMember(ctx context.Context, groupID, userID int64) error
}
