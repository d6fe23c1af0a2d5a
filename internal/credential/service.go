package credential

import (
	"context"
	"errors"
	"strings"

	"github.com/dividee/dividee/internal/secrets"
	"github.com/dividee/dividee/internal/subscription"
)

// Common errors
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNotAuthorized        = errors.New("not authorized to perform this action")
)

// Subscriptions is the slice of the subscription repository the credential
// service needs for authorization and for attaching credential IDs.
type Subscriptions interface {
	GetByID(ctx context.Context, id int64) (*subscription.Subscription, error)
	GetMember(ctx context.Context, subscriptionID, userID int64) (*subscription.SubscriptionMember, error)
	SetCredentialID(ctx context.Context, id int64, credentialID string) error
}

// Service handles credential business logic
type Service struct {
	subs    Subscriptions
	manager secrets.Manager
}

// NewService creates a new credential service
func NewService(subs Subscriptions, manager secrets.Manager) *Service {
	return &Service{subs: subs, manager: manager}
}

// Store hands the credential material to the secrets manager and records the
// returned opaque ID on the subscription. Only the subscription owner or an
// admin member may store credentials.
func (s *Service) Store(ctx context.Context, callerID int64, req *StoreCredentialRequest) (*StoreCredentialResponse, error) {
	sub, err := s.subs.GetByID(ctx, req.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}

	if sub.OwnerID != callerID {
		member, err := s.subs.GetMember(ctx, req.SubscriptionID, callerID)
		if err != nil {
			return nil, err
		}
		if member == nil || member.Role != subscription.MemberRoleAdmin {
			return nil, ErrNotAuthorized
		}
	}

	credentialID, err := s.manager.CreateSecret(ctx, &secrets.Secret{
		Name:     strings.TrimSpace(req.Name),
		Username: req.Username,
		Password: req.Password,
		URI:      req.URI,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.subs.SetCredentialID(ctx, req.SubscriptionID, credentialID); err != nil {
		return nil, err
	}

	return &StoreCredentialResponse{
		CredentialID:   credentialID,
		SubscriptionID: req.SubscriptionID,
	}, nil
}

// GeneratePassword returns a random password without persisting anything
func (s *Service) GeneratePassword(req *GeneratePasswordRequest) (*GeneratePasswordResponse, error) {
	password, err := s.manager.GeneratePassword(req.Length)
	if err != nil {
		return nil, err
	}
	return &GeneratePasswordResponse{Password: password, Length: len(password)}, nil
}
