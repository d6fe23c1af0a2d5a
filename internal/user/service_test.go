package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dividee/dividee/internal/auth"
)

type fakeUserRepo struct {
	nextID  int64
	byEmail map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, byEmail: make(map[string]*User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	u := &User{ID: r.nextID, Username: username, Email: email, PasswordHash: passwordHash}
	r.nextID++
	r.byEmail[email] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.byEmail[email], nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewService(repo, auth.NewJWTManager("test-secret", time.Hour)), repo
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, _ := newTestService()

	u, token, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "alice",
		Email:    "  Alice@Example.COM ",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.PasswordHash == "password123" {
		t.Fatalf("expected password hashed")
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	if _, _, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Email: "a@example.com", Password: "password123"}); err != nil {
		t.Fatalf("first register should succeed, got %v", err)
	}

	_, _, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice2", Email: "A@example.com", Password: "password123"})
	if !errors.Is(err, ErrEmailAlreadyInUse) {
		t.Fatalf("expected ErrEmailAlreadyInUse, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	if _, _, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Email: "a@example.com", Password: "password123"}); err != nil {
		t.Fatalf("register should succeed, got %v", err)
	}

	_, _, err := svc.Login(context.Background(), &LoginRequest{Email: "a@example.com", Password: "wrong-password"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "password123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestService()

	registered, _, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Email: "a@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register should succeed, got %v", err)
	}

	u, token, err := svc.Login(context.Background(), &LoginRequest{Email: "a@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if u.ID != registered.ID {
		t.Fatalf("expected same user, got %d and %d", u.ID, registered.ID)
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}
}
