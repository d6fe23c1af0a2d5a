package accessrequest

import "context"

// Repository handles access request persistence. The approval workflow
// touches the subscription tables as well, so the membership insert and
// counter update live here and run inside Transaction with the status
// change; they commit together or not at all.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, userID, subscriptionID int64, message *string) (*AccessRequest, error)
	GetByID(ctx context.Context, id int64) (*AccessRequest, error)
	HasPending(ctx context.Context, userID, subscriptionID int64) (bool, error)
	ListByOwner(ctx context.Context, ownerID int64, status Status) ([]*AccessRequest, error)
	ListByRequester(ctx context.Context, userID int64, status Status) ([]*AccessRequest, error)
	UpdateStatus(ctx context.Context, id int64, status Status, adminResponse *string, respondedBy int64) (*AccessRequest, error)

	GetSubscription(ctx context.Context, id int64) (*subscriptionInfo, error)
	// GetSubscriptionForUpdate locks the subscription row so the capacity
	// check cannot race with concurrent approvals.
	GetSubscriptionForUpdate(ctx context.Context, id int64) (*subscriptionInfo, error)
	IsSubscriptionMember(ctx context.Context, subscriptionID, userID int64) (bool, error)
	AddSubscriptionMember(ctx context.Context, subscriptionID, userID int64) error
	IncrementCurrentMembers(ctx context.Context, subscriptionID int64) error
}
