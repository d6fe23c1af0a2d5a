package subscription

import (
	"context"
	"errors"
	"strings"

	"github.com/dividee/dividee/internal/group"
)

// Common errors
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrSubscriptionFull     = errors.New("subscription is full")
	ErrMemberNotFound       = errors.New("member not found")
	ErrMemberAlreadyExists  = errors.New("user is already a member")
	ErrNotAuthorized        = errors.New("not authorized to perform this action")
	ErrNotGroupMember       = errors.New("not a member of the linked group")
	ErrCannotRemoveOwner    = errors.New("cannot remove the subscription owner")
)

// GroupMembers checks group membership when a subscription is linked to a group
type GroupMembers interface {
	GetMember(ctx context.Context, groupID, userID int64) (*group.GroupMember, error)
}

// Service handles subscription business logic
type Service struct {
	repo   Repository
	groups GroupMembers
}

// NewService creates a new subscription service
func NewService(repo Repository, groups GroupMembers) *Service {
	return &Service{repo: repo, groups: groups}
}

// Create creates a subscription and adds the creator as its admin member
func (s *Service) Create(ctx context.Context, ownerID int64, req *CreateSubscriptionRequest) (*Subscription, error) {
	if req.GroupID != nil {
		member, err := s.groups.GetMember(ctx, *req.GroupID, ownerID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, ErrNotGroupMember
		}
	}

	var created *Subscription
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		sub, err := tx.Create(ctx, &Subscription{
			Name:           strings.TrimSpace(req.Name),
			ServiceName:    strings.TrimSpace(req.ServiceName),
			Description:    req.Description,
			OwnerID:        ownerID,
			GroupID:        req.GroupID,
			TotalPrice:     req.TotalPrice,
			MaxMembers:     req.MaxMembers,
			CurrentMembers: 1,
			IsPublic:       req.IsPublic,
			RenewsAt:       req.RenewsAt,
		})
		if err != nil {
			return err
		}

		if _, err := tx.AddMember(ctx, sub.ID, ownerID, MemberRoleAdmin); err != nil {
			return err
		}

		created = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetByID retrieves a subscription. Members see the member list; everyone
// else only sees public subscriptions, without members.
func (s *Service) GetByID(ctx context.Context, subscriptionID, callerID int64) (*Subscription, []*SubscriptionMember, error) {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return nil, nil, ErrSubscriptionNotFound
	}

	member, err := s.repo.GetMember(ctx, subscriptionID, callerID)
	if err != nil {
		return nil, nil, err
	}
	if member == nil {
		if !sub.IsPublic {
			return nil, nil, ErrNotAuthorized
		}
		return sub, nil, nil
	}

	members, err := s.repo.GetMembers(ctx, subscriptionID)
	if err != nil {
		return nil, nil, err
	}

	return sub, members, nil
}

// ListByUserID retrieves the caller's subscriptions with their role
func (s *Service) ListByUserID(ctx context.Context, userID int64) ([]*SubscriptionWithRole, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// SearchPublic browses public, active subscriptions
func (s *Service) SearchPublic(ctx context.Context, filter *PublicFilter) ([]*Subscription, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.SearchPublic(ctx, filter)
}

// Update modifies a subscription; only the owner may do so
func (s *Service) Update(ctx context.Context, subscriptionID, callerID int64, req *UpdateSubscriptionRequest) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	if sub.OwnerID != callerID {
		return nil, ErrNotAuthorized
	}

	return s.repo.Update(ctx, subscriptionID, req)
}

// AddMember adds a user directly. Only the owner or an admin member may add;
// the capacity check, the insert and the counter update run in one
// transaction so current_members never exceeds max_members.
func (s *Service) AddMember(ctx context.Context, subscriptionID, callerID int64, req *AddMemberRequest) (*SubscriptionMember, error) {
	if err := s.authorizeAdmin(ctx, subscriptionID, callerID); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = MemberRoleMember
	}

	var member *SubscriptionMember
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		sub, err := tx.GetByIDForUpdate(ctx, subscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return ErrSubscriptionNotFound
		}

		existing, err := tx.GetMember(ctx, subscriptionID, req.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrMemberAlreadyExists
		}

		if sub.CurrentMembers >= sub.MaxMembers {
			return ErrSubscriptionFull
		}

		member, err = tx.AddMember(ctx, subscriptionID, req.UserID, role)
		if err != nil {
			return err
		}

		return tx.IncrementCurrentMembers(ctx, subscriptionID, 1)
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// RemoveMember removes a member. A member may remove themselves; the owner
// and admin members may remove others. The owner cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, subscriptionID, callerID, targetID int64) error {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	if targetID == sub.OwnerID {
		return ErrCannotRemoveOwner
	}

	if callerID != targetID {
		if err := s.authorizeAdmin(ctx, subscriptionID, callerID); err != nil {
			return err
		}
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetByIDForUpdate(ctx, subscriptionID); err != nil {
			return err
		}

		target, err := tx.GetMember(ctx, subscriptionID, targetID)
		if err != nil {
			return err
		}
		if target == nil {
			return ErrMemberNotFound
		}

		if err := tx.RemoveMember(ctx, subscriptionID, targetID); err != nil {
			return err
		}

		return tx.IncrementCurrentMembers(ctx, subscriptionID, -1)
	})
}

// UpdateMemberRole changes a member's role; only the owner may do so
func (s *Service) UpdateMemberRole(ctx context.Context, subscriptionID, callerID, targetID int64, role MemberRole) (*SubscriptionMember, error) {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	if sub.OwnerID != callerID {
		return nil, ErrNotAuthorized
	}

	member, err := s.repo.UpdateMemberRole(ctx, subscriptionID, targetID, role)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// authorizeAdmin allows the subscription owner or an admin-role member
func (s *Service) authorizeAdmin(ctx context.Context, subscriptionID, callerID int64) error {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	if sub.OwnerID == callerID {
		return nil
	}

	member, err := s.repo.GetMember(ctx, subscriptionID, callerID)
	if err != nil {
		return err
	}
	if member == nil || member.Role != MemberRoleAdmin {
		return ErrNotAuthorized
	}
	return nil
}
