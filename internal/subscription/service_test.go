package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dividee/dividee/internal/group"
)

type fakeSubscriptionRepo struct {
	nextID  int64
	subs    map[int64]*Subscription
	members map[int64][]*SubscriptionMember
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		nextID:  1,
		subs:    make(map[int64]*Subscription),
		members: make(map[int64][]*SubscriptionMember),
	}
}

func (r *fakeSubscriptionRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, s *Subscription) (*Subscription, error) {
	s.ID = r.nextID
	s.IsActive = true
	s.CreatedAt = time.Now()
	r.nextID++
	r.subs[s.ID] = s
	return s, nil
}

func (r *fakeSubscriptionRepo) GetByID(ctx context.Context, id int64) (*Subscription, error) {
	return r.subs[id], nil
}

func (r *fakeSubscriptionRepo) GetByIDForUpdate(ctx context.Context, id int64) (*Subscription, error) {
	return r.subs[id], nil
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, id int64, req *UpdateSubscriptionRequest) (*Subscription, error) {
	s := r.subs[id]
	if s == nil {
		return nil, nil
	}
	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.TotalPrice != nil {
		s.TotalPrice = *req.TotalPrice
	}
	if req.IsPublic != nil {
		s.IsPublic = *req.IsPublic
	}
	return s, nil
}

func (r *fakeSubscriptionRepo) ListByUserID(ctx context.Context, userID int64) ([]*SubscriptionWithRole, error) {
	var result []*SubscriptionWithRole
	for id, members := range r.members {
		for _, m := range members {
			if m.UserID == userID {
				result = append(result, &SubscriptionWithRole{Subscription: *r.subs[id], Role: m.Role})
			}
		}
	}
	return result, nil
}

func (r *fakeSubscriptionRepo) SearchPublic(ctx context.Context, filter *PublicFilter) ([]*Subscription, int, error) {
	var result []*Subscription
	for _, s := range r.subs {
		if s.IsPublic && s.IsActive {
			result = append(result, s)
		}
	}
	return result, len(result), nil
}

func (r *fakeSubscriptionRepo) SetCredentialID(ctx context.Context, id int64, credentialID string) error {
	if s := r.subs[id]; s != nil {
		s.CredentialID = &credentialID
	}
	return nil
}

func (r *fakeSubscriptionRepo) AddMember(ctx context.Context, subscriptionID, userID int64, role MemberRole) (*SubscriptionMember, error) {
	m := &SubscriptionMember{SubscriptionID: subscriptionID, UserID: userID, Role: role, JoinedAt: time.Now()}
	r.members[subscriptionID] = append(r.members[subscriptionID], m)
	return m, nil
}

func (r *fakeSubscriptionRepo) GetMember(ctx context.Context, subscriptionID, userID int64) (*SubscriptionMember, error) {
	for _, m := range r.members[subscriptionID] {
		if m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) GetMembers(ctx context.Context, subscriptionID int64) ([]*SubscriptionMember, error) {
	return r.members[subscriptionID], nil
}

func (r *fakeSubscriptionRepo) UpdateMemberRole(ctx context.Context, subscriptionID, userID int64, role MemberRole) (*SubscriptionMember, error) {
	m, _ := r.GetMember(ctx, subscriptionID, userID)
	if m != nil {
		m.Role = role
	}
	return m, nil
}

func (r *fakeSubscriptionRepo) RemoveMember(ctx context.Context, subscriptionID, userID int64) error {
	members := r.members[subscriptionID]
	for i, m := range members {
		if m.UserID == userID {
			r.members[subscriptionID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) IncrementCurrentMembers(ctx context.Context, subscriptionID int64, delta int) error {
	r.subs[subscriptionID].CurrentMembers += delta
	return nil
}

type fakeGroupMembers struct {
	members map[int64][]int64
}

func (f *fakeGroupMembers) GetMember(ctx context.Context, groupID, userID int64) (*group.GroupMember, error) {
	for _, id := range f.members[groupID] {
		if id == userID {
			return &group.GroupMember{GroupID: groupID, UserID: userID, Role: group.MemberRoleMember}, nil
		}
	}
	return nil, nil
}

func newTestService(repo *fakeSubscriptionRepo) *Service {
	return NewService(repo, &fakeGroupMembers{members: make(map[int64][]int64)})
}

func createRequest() *CreateSubscriptionRequest {
	return &CreateSubscriptionRequest{
		Name:        "Family plan",
		ServiceName: "Netflix",
		TotalPrice:  100,
		MaxMembers:  4,
		IsPublic:    true,
	}
}

func TestCreateAddsCreatorAsAdmin(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := newTestService(repo)

	sub, err := svc.Create(context.Background(), 1, createRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sub.CurrentMembers != 1 {
		t.Fatalf("expected current_members 1, got %d", sub.CurrentMembers)
	}

	m, _ := repo.GetMember(context.Background(), sub.ID, 1)
	if m == nil || m.Role != MemberRoleAdmin {
		t.Fatalf("expected creator as admin member, got %+v", m)
	}
}

func TestCreateRequiresGroupMembership(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := newTestService(repo)

	groupID := int64(9)
	req := createRequest()
	req.GroupID = &groupID

	_, err := svc.Create(context.Background(), 1, req)
	if !errors.Is(err, ErrNotGroupMember) {
		t.Fatalf("expected ErrNotGroupMember, got %v", err)
	}
}

func TestAddMemberCapacity(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := newTestService(repo)

	req := createRequest()
	req.MaxMembers = 2
	sub, _ := svc.Create(context.Background(), 1, req)

	if _, err := svc.AddMember(context.Background(), sub.ID, 1, &AddMemberRequest{UserID: 2}); err != nil {
		t.Fatalf("second member should fit, got %v", err)
	}

	_, err := svc.AddMember(context.Background(), sub.ID, 1, &AddMemberRequest{UserID: 3})
	if !errors.Is(err, ErrSubscriptionFull) {
		t.Fatalf("expected ErrSubscriptionFull, got %v", err)
	}
	if repo.subs[sub.ID].CurrentMembers != 2 {
		t.Fatalf("expected counter at 2, got %d", repo.subs[sub.ID].CurrentMembers)
	}
}

func TestAddMemberDuplicate(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := newTestService(repo)

	sub, _ := svc.Create(context.Background(), 1, createRequest())

	_, err := svc.AddMember(context.Background(), sub.ID, 1, &AddMemberRequest{UserID: 1})
	if !errors.Is(err, ErrMemberAlreadyExists) {
		t.Fatalf("expected ErrMemberAlreadyExists, got %v", err)
	}
}

func TestAddMemberByNonAdmin(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := newTestService(repo)

	sub, _ := svc.Create(context.Background(), 1, createRequest())
	svc.AddMember(context.Background(), sub.ID, 1, &AddMemberRequest{UserID: 2})

	_, err := svc.AddMember(context.Background(), sub.ID, 2, &AddMemberRequest{UserID: 3})
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestGetByIDHidesPrivateFromStrangers(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := newTestService(repo)

	req := createRequest()
	req.IsPublic = false
	sub, _ := svc.Create(context.Background(), 1, req)

	if _, _, err := svc.GetByID(context.Background(), sub.ID, 9); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestGetByIDPublicForStrangers(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := newTestService(repo)

	sub, _ := svc.Create(context.Background(), 1, createRequest())

	got, members, err := svc.GetByID(context.Background(), sub.ID, 9)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.ID != sub.ID {
		t.Fatalf("expected subscription %d, got %d", sub.ID, got.ID)
	}
	if members != nil {
		t.Fatalf("expected member list hidden from non-members, got %v", members)
	}
}

func TestRemoveMemberProtectsOwner(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := newTestService(repo)

	sub, _ := svc.Create(context.Background(), 1, createRequest())

	if err := svc.RemoveMember(context.Background(), sub.ID, 1, 1); !errors.Is(err, ErrCannotRemoveOwner) {
		t.Fatalf("expected ErrCannotRemoveOwner, got %v", err)
	}
}

func TestRemoveMemberDecrementsCounter(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := newTestService(repo)

	sub, _ := svc.Create(context.Background(), 1, createRequest())
	svc.AddMember(context.Background(), sub.ID, 1, &AddMemberRequest{UserID: 2})

	if err := svc.RemoveMember(context.Background(), sub.ID, 2, 2); err != nil {
		t.Fatalf("expected self-removal to succeed, got %v", err)
	}
	if repo.subs[sub.ID].CurrentMembers != 1 {
		t.Fatalf("expected counter back at 1, got %d", repo.subs[sub.ID].CurrentMembers)
	}
}
