package subscription

import "context"

// Repository handles subscription data persistence. Transaction runs fn
// against a transaction-scoped repository; the writes commit together or
// not at all.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, s *Subscription) (*Subscription, error)
	GetByID(ctx context.Context, id int64) (*Subscription, error)
	// GetByIDForUpdate locks the subscription row for the duration of the
	// enclosing transaction so capacity checks cannot race.
	GetByIDForUpdate(ctx context.Context, id int64) (*Subscription, error)
	Update(ctx context.Context, id int64, req *UpdateSubscriptionRequest) (*Subscription, error)
	ListByUserID(ctx context.Context, userID int64) ([]*SubscriptionWithRole, error)
	SearchPublic(ctx context.Context, filter *PublicFilter) ([]*Subscription, int, error)
	SetCredentialID(ctx context.Context, id int64, credentialID string) error

	AddMember(ctx context.Context, subscriptionID, userID int64, role MemberRole) (*SubscriptionMember, error)
	GetMember(ctx context.Context, subscriptionID, userID int64) (*SubscriptionMember, error)
	GetMembers(ctx context.Context, subscriptionID int64) ([]*SubscriptionMember, error)
	UpdateMemberRole(ctx context.Context, subscriptionID, userID int64, role MemberRole) (*SubscriptionMember, error)
	RemoveMember(ctx context.Context, subscriptionID, userID int64) error
	IncrementCurrentMembers(ctx context.Context, subscriptionID int64, delta int) error
}
