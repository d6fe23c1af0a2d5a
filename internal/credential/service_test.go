package credential

import (
	"context"
	"errors"
	"testing"

	"github.com/dividee/dividee/internal/secrets"
	"github.com/dividee/dividee/internal/subscription"
)

type fakeSubscriptions struct {
	subs        map[int64]*subscription.Subscription
	members     map[int64][]*subscription.SubscriptionMember
	credentials map[int64]string
}

func newFakeSubscriptions() *fakeSubscriptions {
	return &fakeSubscriptions{
		subs:        make(map[int64]*subscription.Subscription),
		members:     make(map[int64][]*subscription.SubscriptionMember),
		credentials: make(map[int64]string),
	}
}

func (f *fakeSubscriptions) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	return f.subs[id], nil
}

func (f *fakeSubscriptions) GetMember(ctx context.Context, subscriptionID, userID int64) (*subscription.SubscriptionMember, error) {
	for _, m := range f.members[subscriptionID] {
		if m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptions) SetCredentialID(ctx context.Context, id int64, credentialID string) error {
	f.credentials[id] = credentialID
	return nil
}

func storeRequest() *StoreCredentialRequest {
	return &StoreCredentialRequest{
		SubscriptionID: 1,
		Name:           "Netflix account",
		Username:       "family@example.com",
		Password:       "hunter22!",
	}
}

func TestStoreRecordsCredentialID(t *testing.T) {
	subs := newFakeSubscriptions()
	subs.subs[1] = &subscription.Subscription{ID: 1, OwnerID: 1}
	svc := NewService(subs, secrets.NewMemoryManager())

	result, err := svc.Store(context.Background(), 1, storeRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.CredentialID == "" {
		t.Fatalf("expected an opaque credential ID")
	}
	if subs.credentials[1] != result.CredentialID {
		t.Fatalf("expected credential ID stored on subscription, got %q", subs.credentials[1])
	}
}

func TestStoreByAdminMember(t *testing.T) {
	subs := newFakeSubscriptions()
	subs.subs[1] = &subscription.Subscription{ID: 1, OwnerID: 1}
	subs.members[1] = []*subscription.SubscriptionMember{
		{SubscriptionID: 1, UserID: 2, Role: subscription.MemberRoleAdmin},
	}
	svc := NewService(subs, secrets.NewMemoryManager())

	if _, err := svc.Store(context.Background(), 2, storeRequest()); err != nil {
		t.Fatalf("expected admin member to store credentials, got %v", err)
	}
}

func TestStoreByOrdinaryMemberRejected(t *testing.T) {
	subs := newFakeSubscriptions()
	subs.subs[1] = &subscription.Subscription{ID: 1, OwnerID: 1}
	subs.members[1] = []*subscription.SubscriptionMember{
		{SubscriptionID: 1, UserID: 2, Role: subscription.MemberRoleMember},
	}
	svc := NewService(subs, secrets.NewMemoryManager())

	if _, err := svc.Store(context.Background(), 2, storeRequest()); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestStoreMissingSubscription(t *testing.T) {
	svc := NewService(newFakeSubscriptions(), secrets.NewMemoryManager())

	if _, err := svc.Store(context.Background(), 1, storeRequest()); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
}

func TestGeneratePasswordClamped(t *testing.T) {
	svc := NewService(newFakeSubscriptions(), secrets.NewMemoryManager())

	result, err := svc.GeneratePassword(&GeneratePasswordRequest{Length: 3})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Length != secrets.MinPasswordLength {
		t.Fatalf("expected clamped length %d, got %d", secrets.MinPasswordLength, result.Length)
	}
	if len(result.Password) != result.Length {
		t.Fatalf("expected password of reported length")
	}
}
