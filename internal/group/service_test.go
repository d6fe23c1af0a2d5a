package group

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dividee/dividee/internal/user"
)

type fakeGroupRepo struct {
	nextID  int64
	groups  map[int64]*Group
	members map[int64][]*GroupMember
	codes   map[string]int64
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		nextID:  1,
		groups:  make(map[int64]*Group),
		members: make(map[int64][]*GroupMember),
		codes:   make(map[string]int64),
	}
}

func (r *fakeGroupRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeGroupRepo) Create(ctx context.Context, g *Group) (*Group, error) {
	g.ID = r.nextID
	g.IsActive = true
	r.nextID++
	r.groups[g.ID] = g
	r.codes[g.InviteCode] = g.ID
	return g, nil
}

func (r *fakeGroupRepo) GetByID(ctx context.Context, id int64) (*Group, error) {
	return r.groups[id], nil
}

func (r *fakeGroupRepo) GetByIDForUpdate(ctx context.Context, id int64) (*Group, error) {
	return r.groups[id], nil
}

func (r *fakeGroupRepo) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Group, int, error) {
	var result []*Group
	for id, members := range r.members {
		for _, m := range members {
			if m.UserID == userID {
				result = append(result, r.groups[id])
			}
		}
	}
	return result, len(result), nil
}

func (r *fakeGroupRepo) InviteCodeTaken(ctx context.Context, code string) (bool, error) {
	_, ok := r.codes[code]
	return ok, nil
}

func (r *fakeGroupRepo) AddMember(ctx context.Context, groupID, userID int64, role MemberRole, status MemberStatus) (*GroupMember, error) {
	m := &GroupMember{GroupID: groupID, UserID: userID, Role: role, Status: status}
	r.members[groupID] = append(r.members[groupID], m)
	return m, nil
}

func (r *fakeGroupRepo) GetMember(ctx context.Context, groupID, userID int64) (*GroupMember, error) {
	for _, m := range r.members[groupID] {
		if m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeGroupRepo) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	return r.members[groupID], nil
}

func (r *fakeGroupRepo) CountMembers(ctx context.Context, groupID int64) (int, error) {
	return len(r.members[groupID]), nil
}

func (r *fakeGroupRepo) UpdateMemberRole(ctx context.Context, groupID, userID int64, role MemberRole) (*GroupMember, error) {
	m, _ := r.GetMember(ctx, groupID, userID)
	if m != nil {
		m.Role = role
	}
	return m, nil
}

func (r *fakeGroupRepo) UpdateMemberStatus(ctx context.Context, groupID, userID int64, status MemberStatus) (*GroupMember, error) {
	m, _ := r.GetMember(ctx, groupID, userID)
	if m != nil {
		m.Status = status
	}
	return m, nil
}

func (r *fakeGroupRepo) RemoveMember(ctx context.Context, groupID, userID int64) error {
	members := r.members[groupID]
	for i, m := range members {
		if m.UserID == userID {
			r.members[groupID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeUserFinder struct {
	byEmail map[string]*user.User
}

func (f *fakeUserFinder) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return f.byEmail[email], nil
}

type fakeNotifier struct {
	sent []int64
}

func (f *fakeNotifier) Notify(ctx context.Context, userID int64, title, message, ntype string, entityID int64, entityType string) error {
	f.sent = append(f.sent, userID)
	return nil
}

func newTestService(repo *fakeGroupRepo, users *fakeUserFinder) (*Service, *fakeNotifier) {
	notifier := &fakeNotifier{}
	if users == nil {
		users = &fakeUserFinder{byEmail: make(map[string]*user.User)}
	}
	return NewService(repo, users, notifier), notifier
}

func TestCreateGroupAddsOwner(t *testing.T) {
	repo := newFakeGroupRepo()
	svc, _ := newTestService(repo, nil)

	g, err := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "  Streaming  ", MaxMembers: 5})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if g.Name != "Streaming" {
		t.Fatalf("expected name trimmed, got %q", g.Name)
	}
	if len(g.InviteCode) != inviteCodeLength {
		t.Fatalf("expected invite code length %d, got %q", inviteCodeLength, g.InviteCode)
	}
	for _, c := range g.InviteCode {
		if !strings.ContainsRune(inviteCodeCharset, c) {
			t.Fatalf("invite code %q contains %q outside charset", g.InviteCode, c)
		}
	}

	owner, _ := repo.GetMember(context.Background(), g.ID, 1)
	if owner == nil || owner.Role != MemberRoleOwner || owner.Status != MemberStatusJoined {
		t.Fatalf("expected joined owner member, got %+v", owner)
	}
}

func TestInviteByNonAdminRejected(t *testing.T) {
	repo := newFakeGroupRepo()
	users := &fakeUserFinder{byEmail: map[string]*user.User{"bob@example.com": {ID: 3}}}
	svc, _ := newTestService(repo, users)

	g, _ := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "G", MaxMembers: 5})
	repo.AddMember(context.Background(), g.ID, 2, MemberRoleMember, MemberStatusJoined)

	_, err := svc.Invite(context.Background(), g.ID, 2, &InviteMemberRequest{Email: "bob@example.com"})
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestInviteDuplicateMember(t *testing.T) {
	repo := newFakeGroupRepo()
	users := &fakeUserFinder{byEmail: map[string]*user.User{"bob@example.com": {ID: 2, Email: "bob@example.com"}}}
	svc, _ := newTestService(repo, users)

	g, _ := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "G", MaxMembers: 5})
	repo.AddMember(context.Background(), g.ID, 2, MemberRoleMember, MemberStatusJoined)

	_, err := svc.Invite(context.Background(), g.ID, 1, &InviteMemberRequest{Email: "bob@example.com"})
	if !errors.Is(err, ErrMemberAlreadyExists) {
		t.Fatalf("expected ErrMemberAlreadyExists, got %v", err)
	}
}

func TestInviteFullGroup(t *testing.T) {
	repo := newFakeGroupRepo()
	users := &fakeUserFinder{byEmail: map[string]*user.User{"carol@example.com": {ID: 3}}}
	svc, _ := newTestService(repo, users)

	g, _ := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "G", MaxMembers: 2})
	repo.AddMember(context.Background(), g.ID, 2, MemberRoleMember, MemberStatusJoined)

	_, err := svc.Invite(context.Background(), g.ID, 1, &InviteMemberRequest{Email: "carol@example.com"})
	if !errors.Is(err, ErrGroupFull) {
		t.Fatalf("expected ErrGroupFull, got %v", err)
	}
	if count, _ := repo.CountMembers(context.Background(), g.ID); count != 2 {
		t.Fatalf("expected member count unchanged at 2, got %d", count)
	}
}

// vanishingGroupRepo drops the group between the initial read and the
// locked read, as when the row is deleted while an invite is in flight.
type vanishingGroupRepo struct {
	*fakeGroupRepo
}

func (r *vanishingGroupRepo) GetByIDForUpdate(ctx context.Context, id int64) (*Group, error) {
	return nil, nil
}

func (r *vanishingGroupRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func TestInviteGroupDeletedMidFlight(t *testing.T) {
	repo := newFakeGroupRepo()
	users := &fakeUserFinder{byEmail: map[string]*user.User{"bob@example.com": {ID: 3}}}
	svc, _ := newTestService(repo, users)

	g, _ := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "G", MaxMembers: 5})

	racing := NewService(&vanishingGroupRepo{fakeGroupRepo: repo}, users, &fakeNotifier{})
	_, err := racing.Invite(context.Background(), g.ID, 1, &InviteMemberRequest{Email: "bob@example.com"})
	if !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
	if count, _ := repo.CountMembers(context.Background(), g.ID); count != 1 {
		t.Fatalf("expected only the owner as member, got %d", count)
	}
}

func TestInviteNotifiesInvitee(t *testing.T) {
	repo := newFakeGroupRepo()
	users := &fakeUserFinder{byEmail: map[string]*user.User{"bob@example.com": {ID: 7}}}
	svc, notifier := newTestService(repo, users)

	g, _ := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "G", MaxMembers: 5})

	m, err := svc.Invite(context.Background(), g.ID, 1, &InviteMemberRequest{Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.Status != MemberStatusInvited {
		t.Fatalf("expected invited status, got %q", m.Status)
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != 7 {
		t.Fatalf("expected one notification to user 7, got %v", notifier.sent)
	}
}

func TestJoinInvalidCode(t *testing.T) {
	repo := newFakeGroupRepo()
	svc, _ := newTestService(repo, nil)

	g, _ := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "G", MaxMembers: 5})

	_, err := svc.Join(context.Background(), g.ID, 2, &JoinGroupRequest{InviteCode: "WRONGCOD"})
	if !errors.Is(err, ErrInvalidInviteCode) {
		t.Fatalf("expected ErrInvalidInviteCode, got %v", err)
	}
}

func TestJoinFullGroup(t *testing.T) {
	repo := newFakeGroupRepo()
	svc, _ := newTestService(repo, nil)

	g, _ := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "G", MaxMembers: 2})
	if _, err := svc.Join(context.Background(), g.ID, 2, &JoinGroupRequest{InviteCode: g.InviteCode}); err != nil {
		t.Fatalf("second member should join, got %v", err)
	}

	_, err := svc.Join(context.Background(), g.ID, 3, &JoinGroupRequest{InviteCode: g.InviteCode})
	if !errors.Is(err, ErrGroupFull) {
		t.Fatalf("expected ErrGroupFull, got %v", err)
	}
}

func TestJoinPromotesInvitedMember(t *testing.T) {
	repo := newFakeGroupRepo()
	svc, _ := newTestService(repo, nil)

	g, _ := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "G", MaxMembers: 5})
	repo.AddMember(context.Background(), g.ID, 2, MemberRoleMember, MemberStatusInvited)

	m, err := svc.Join(context.Background(), g.ID, 2, &JoinGroupRequest{InviteCode: g.InviteCode})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.Status != MemberStatusJoined {
		t.Fatalf("expected joined status, got %q", m.Status)
	}
}

func TestUpdateMemberRoleOwnerProtected(t *testing.T) {
	repo := newFakeGroupRepo()
	svc, _ := newTestService(repo, nil)

	g, _ := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "G", MaxMembers: 5})
	repo.AddMember(context.Background(), g.ID, 2, MemberRoleAdmin, MemberStatusJoined)

	_, err := svc.UpdateMemberRole(context.Background(), g.ID, 2, 1, MemberRoleMember)
	if !errors.Is(err, ErrCannotModifyOwner) {
		t.Fatalf("expected ErrCannotModifyOwner, got %v", err)
	}
}

func TestAdminCannotManageAdmin(t *testing.T) {
	repo := newFakeGroupRepo()
	svc, _ := newTestService(repo, nil)

	g, _ := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "G", MaxMembers: 5})
	repo.AddMember(context.Background(), g.ID, 2, MemberRoleAdmin, MemberStatusJoined)
	repo.AddMember(context.Background(), g.ID, 3, MemberRoleAdmin, MemberStatusJoined)

	if _, err := svc.UpdateMemberRole(context.Background(), g.ID, 2, 3, MemberRoleMember); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if err := svc.RemoveMember(context.Background(), g.ID, 2, 3); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestRemoveMemberSelf(t *testing.T) {
	repo := newFakeGroupRepo()
	svc, _ := newTestService(repo, nil)

	g, _ := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "G", MaxMembers: 5})
	repo.AddMember(context.Background(), g.ID, 2, MemberRoleMember, MemberStatusJoined)

	if err := svc.RemoveMember(context.Background(), g.ID, 2, 2); err != nil {
		t.Fatalf("expected self-removal to succeed, got %v", err)
	}
	if m, _ := repo.GetMember(context.Background(), g.ID, 2); m != nil {
		t.Fatalf("expected member removed, got %+v", m)
	}
}
