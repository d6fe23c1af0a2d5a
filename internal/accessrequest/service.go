package accessrequest

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrRequestNotFound          = errors.New("access request not found")
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrSubscriptionNotAvailable = errors.New("subscription is not open for requests")
	ErrSubscriptionFull         = errors.New("subscription is full")
	ErrAlreadyProcessed         = errors.New("request already processed")
	ErrAlreadyMember            = errors.New("user is already a member")
	ErrAlreadyRequested         = errors.New("a pending request already exists")
	ErrOwnSubscription          = errors.New("cannot request access to your own subscription")
	ErrNotAuthorized            = errors.New("not authorized to perform this action")
)

// Notifier delivers in-app notifications
type Notifier interface {
	Notify(ctx context.Context, userID int64, title, message, ntype string, entityID int64, entityType string) error
}

// Service handles the access request workflow
type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService creates a new access request service
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create files a pending request against a public, active subscription
func (s *Service) Create(ctx context.Context, callerID int64, req *CreateRequest) (*AccessRequest, error) {
	sub, err := s.repo.GetSubscription(ctx, req.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	if !sub.IsPublic || !sub.IsActive {
		return nil, ErrSubscriptionNotAvailable
	}
	if sub.OwnerID == callerID {
		return nil, ErrOwnSubscription
	}

	isMember, err := s.repo.IsSubscriptionMember(ctx, req.SubscriptionID, callerID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, ErrAlreadyMember
	}

	pending, err := s.repo.HasPending(ctx, callerID, req.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrAlreadyRequested
	}

	created, err := s.repo.Create(ctx, callerID, req.SubscriptionID, req.Message)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("A user requested access to %q", sub.Name)
	if err := s.notifier.Notify(ctx, sub.OwnerID, "New access request", message, "access_request", created.ID, "access_request"); err != nil {
		return nil, err
	}

	return created, nil
}

// List retrieves requests either for subscriptions the caller owns or the
// caller's own requests, optionally filtered by status
func (s *Service) List(ctx context.Context, callerID int64, asOwner bool, status Status) ([]*AccessRequest, error) {
	if asOwner {
		return s.repo.ListByOwner(ctx, callerID, status)
	}
	return s.repo.ListByRequester(ctx, callerID, status)
}

// Approve grants a pending request. Preconditions are checked in order:
// the request exists, the caller owns the subscription, the request is
// still pending, and the subscription has a free spot. The status change,
// the membership insert and the counter update run in one transaction;
// the capacity is re-checked against the locked row so concurrent
// approvals cannot overbook the subscription.
func (s *Service) Approve(ctx context.Context, requestID, callerID int64, req *RespondRequest) (*AccessRequest, error) {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	sub, err := s.repo.GetSubscription(ctx, request.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	if sub.OwnerID != callerID {
		return nil, ErrNotAuthorized
	}
	if request.Status != StatusPending {
		return nil, ErrAlreadyProcessed
	}
	if sub.CurrentMembers >= sub.MaxMembers {
		return nil, ErrSubscriptionFull
	}

	var approved *AccessRequest
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		locked, err := tx.GetSubscriptionForUpdate(ctx, request.SubscriptionID)
		if err != nil {
			return err
		}
		if locked.CurrentMembers >= locked.MaxMembers {
			return ErrSubscriptionFull
		}

		current, err := tx.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if current.Status != StatusPending {
			return ErrAlreadyProcessed
		}

		approved, err = tx.UpdateStatus(ctx, requestID, StatusApproved, req.AdminResponse, callerID)
		if err != nil {
			return err
		}

		if err := tx.AddSubscriptionMember(ctx, request.SubscriptionID, request.UserID); err != nil {
			return err
		}

		return tx.IncrementCurrentMembers(ctx, request.SubscriptionID)
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your request to join %q was approved", sub.Name)
	if err := s.notifier.Notify(ctx, request.UserID, "Request approved", message, "request_approved", sub.ID, "subscription"); err != nil {
		return nil, err
	}

	return approved, nil
}

// Reject declines a pending request. Same preconditions as Approve minus
// the capacity check; the effect is a single status update.
func (s *Service) Reject(ctx context.Context, requestID, callerID int64, req *RespondRequest) (*AccessRequest, error) {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	sub, err := s.repo.GetSubscription(ctx, request.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	if sub.OwnerID != callerID {
		return nil, ErrNotAuthorized
	}
	if request.Status != StatusPending {
		return nil, ErrAlreadyProcessed
	}

	rejected, err := s.repo.UpdateStatus(ctx, requestID, StatusRejected, req.AdminResponse, callerID)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your request to join %q was rejected", sub.Name)
	if err := s.notifier.Notify(ctx, request.UserID, "Request rejected", message, "request_rejected", sub.ID, "subscription"); err != nil {
		return nil, err
	}

	return rejected, nil
}
