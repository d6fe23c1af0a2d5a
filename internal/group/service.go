package group

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/dividee/dividee/internal/user"
)

const (
	inviteCodeLength   = 8
	inviteCodeCharset  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteCodeAttempts = 10
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrMemberAlreadyExists = errors.New("user is already a member")
	ErrGroupFull           = errors.New("group is full")
	ErrInvalidInviteCode   = errors.New("invalid invite code")
	ErrNotAuthorized       = errors.New("not authorized to perform this action")
	ErrCannotModifyOwner   = errors.New("cannot modify the group owner")
)

// UserFinder resolves invitees by email
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Notifier delivers in-app notifications
type Notifier interface {
	Notify(ctx context.Context, userID int64, title, message, ntype string, entityID int64, entityType string) error
}

// Service handles group business logic
type Service struct {
	repo     Repository
	users    UserFinder
	notifier Notifier
}

// NewService creates a new group service
func NewService(repo Repository, users UserFinder, notifier Notifier) *Service {
	return &Service{repo: repo, users: users, notifier: notifier}
}

// Create creates a new group and adds the creator as its owner
func (s *Service) Create(ctx context.Context, ownerID int64, req *CreateGroupRequest) (*Group, error) {
	var created *Group
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		code, err := generateUniqueInviteCode(ctx, tx)
		if err != nil {
			return err
		}

		g, err := tx.Create(ctx, &Group{
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
			OwnerID:     ownerID,
			MaxMembers:  req.MaxMembers,
			InviteCode:  code,
		})
		if err != nil {
			return err
		}

		if _, err := tx.AddMember(ctx, g.ID, ownerID, MemberRoleOwner, MemberStatusJoined); err != nil {
			return err
		}

		created = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetByIDWithMembers retrieves a group with its members; only members may view it
func (s *Service) GetByIDWithMembers(ctx context.Context, groupID, callerID int64) (*Group, []*GroupMember, error) {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, ErrGroupNotFound
	}

	caller, err := s.repo.GetMember(ctx, groupID, callerID)
	if err != nil {
		return nil, nil, err
	}
	if caller == nil {
		return nil, nil, ErrNotAuthorized
	}

	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	return g, members, nil
}

// ListByUserID retrieves all groups the user belongs to
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// Invite invites a user by email. Only the owner or an admin may invite;
// the capacity check and the membership insert run in one transaction.
func (s *Service) Invite(ctx context.Context, groupID, callerID int64, req *InviteMemberRequest) (*GroupMember, error) {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	caller, err := s.repo.GetMember(ctx, groupID, callerID)
	if err != nil {
		return nil, err
	}
	if !canManageMembers(caller) {
		return nil, ErrNotAuthorized
	}

	invitee, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if invitee == nil {
		return nil, ErrUserNotFound
	}

	role := req.Role
	if role == "" {
		role = MemberRoleMember
	}

	var member *GroupMember
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		locked, err := tx.GetByIDForUpdate(ctx, groupID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrGroupNotFound
		}

		existing, err := tx.GetMember(ctx, groupID, invitee.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrMemberAlreadyExists
		}

		count, err := tx.CountMembers(ctx, groupID)
		if err != nil {
			return err
		}
		if count >= locked.MaxMembers {
			return ErrGroupFull
		}

		member, err = tx.AddMember(ctx, groupID, invitee.ID, role, MemberStatusInvited)
		return err
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("You have been invited to join the group %q", g.Name)
	if req.Message != "" {
		message = fmt.Sprintf("%s: %s", message, req.Message)
	}
	if err := s.notifier.Notify(ctx, invitee.ID, "Group invitation", message, "group_invite", g.ID, "group"); err != nil {
		return nil, err
	}

	return member, nil
}

// Join adds the caller to a group by invite code. A previously invited user
// is marked joined; anyone else is admitted if the code matches and there
// is capacity left, with the check and insert in one transaction.
func (s *Service) Join(ctx context.Context, groupID, callerID int64, req *JoinGroupRequest) (*GroupMember, error) {
	var member *GroupMember
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		g, err := tx.GetByIDForUpdate(ctx, groupID)
		if err != nil {
			return err
		}
		if g == nil || !g.IsActive {
			return ErrGroupNotFound
		}

		// Exact match only; the stored code is never echoed back on mismatch.
		if req.InviteCode != g.InviteCode {
			return ErrInvalidInviteCode
		}

		existing, err := tx.GetMember(ctx, groupID, callerID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Status == MemberStatusInvited {
				member, err = tx.UpdateMemberStatus(ctx, groupID, callerID, MemberStatusJoined)
				return err
			}
			return ErrMemberAlreadyExists
		}

		count, err := tx.CountMembers(ctx, groupID)
		if err != nil {
			return err
		}
		if count >= g.MaxMembers {
			return ErrGroupFull
		}

		member, err = tx.AddMember(ctx, groupID, callerID, MemberRoleMember, MemberStatusJoined)
		return err
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// UpdateMemberRole changes a member's role. Owners may manage everyone but
// themselves; admins may only manage ordinary members.
func (s *Service) UpdateMemberRole(ctx context.Context, groupID, callerID, targetID int64, role MemberRole) (*GroupMember, error) {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	caller, err := s.repo.GetMember(ctx, groupID, callerID)
	if err != nil {
		return nil, err
	}
	if !canManageMembers(caller) {
		return nil, ErrNotAuthorized
	}

	target, err := s.repo.GetMember(ctx, groupID, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrMemberNotFound
	}
	if target.Role == MemberRoleOwner {
		return nil, ErrCannotModifyOwner
	}
	if caller.Role == MemberRoleAdmin && target.Role == MemberRoleAdmin {
		return nil, ErrNotAuthorized
	}

	return s.repo.UpdateMemberRole(ctx, groupID, targetID, role)
}

// RemoveMember removes a member. A member may remove themselves; the owner
// and admins may remove ordinary members; the owner cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, groupID, callerID, targetID int64) error {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrGroupNotFound
	}

	target, err := s.repo.GetMember(ctx, groupID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrMemberNotFound
	}
	if target.Role == MemberRoleOwner {
		return ErrCannotModifyOwner
	}

	if callerID != targetID {
		caller, err := s.repo.GetMember(ctx, groupID, callerID)
		if err != nil {
			return err
		}
		if !canManageMembers(caller) {
			return ErrNotAuthorized
		}
		if caller.Role == MemberRoleAdmin && target.Role == MemberRoleAdmin {
			return ErrNotAuthorized
		}
	}

	return s.repo.RemoveMember(ctx, groupID, targetID)
}

func canManageMembers(m *GroupMember) bool {
	return m != nil && (m.Role == MemberRoleOwner || m.Role == MemberRoleAdmin)
}

func generateUniqueInviteCode(ctx context.Context, repo Repository) (string, error) {
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := randomCode(inviteCodeLength)
		if err != nil {
			return "", err
		}

		taken, err := repo.InviteCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("invite code generation failed")
}

func randomCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeCharset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		code[i] = inviteCodeCharset[n.Int64()]
	}
	return string(code), nil
}
