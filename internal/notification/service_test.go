package notification

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeNotificationRepo struct {
	nextID        int64
	notifications map[int64]*Notification
	overdue       []*paymentReminderTarget
	renewals      []*renewalAlertTarget
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1, notifications: make(map[int64]*Notification)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *Notification) (*Notification, error) {
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	r.nextID++
	r.notifications[n.ID] = n
	return n, nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id int64) (*Notification, error) {
	return r.notifications[id], nil
}

func (r *fakeNotificationRepo) ListByUserID(ctx context.Context, userID int64, unreadOnly bool, ntype string, limit int) ([]*Notification, error) {
	var result []*Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		if ntype != "" && n.Type != ntype {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id int64) (*Notification, error) {
	n := r.notifications[id]
	if n != nil && !n.IsRead {
		now := time.Now()
		n.IsRead = true
		n.ReadAt = &now
	}
	return n, nil
}

func (r *fakeNotificationRepo) HasRecent(ctx context.Context, userID int64, ntype string, entityID int64, since time.Time) (bool, error) {
	for _, n := range r.notifications {
		if n.UserID != userID || n.Type != ntype || n.CreatedAt.Before(since) {
			continue
		}
		if n.RelatedEntityID != nil && *n.RelatedEntityID == entityID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) ListOverduePendingPayments(ctx context.Context, createdBefore time.Time) ([]*paymentReminderTarget, error) {
	return r.overdue, nil
}

func (r *fakeNotificationRepo) ListUpcomingRenewals(ctx context.Context, until time.Time) ([]*renewalAlertTarget, error) {
	return r.renewals, nil
}

func TestNotifyOmitsZeroEntity(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewService(repo)

	if err := svc.Notify(context.Background(), 1, "Hello", "world", TypeGroupInvite, 0, ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	n := repo.notifications[1]
	if n.RelatedEntityID != nil {
		t.Fatalf("expected no related entity, got %v", *n.RelatedEntityID)
	}
}

func TestMarkReadRecipientOnly(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewService(repo)

	if err := svc.Notify(context.Background(), 1, "Hello", "world", TypeGroupInvite, 0, ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.MarkRead(context.Background(), 1, 2); !errors.Is(err, ErrNotRecipient) {
		t.Fatalf("expected ErrNotRecipient, got %v", err)
	}

	n, err := svc.MarkRead(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !n.IsRead || n.ReadAt == nil {
		t.Fatalf("expected notification marked read, got %+v", n)
	}
}

func TestMarkReadMissingNotification(t *testing.T) {
	svc := NewService(newFakeNotificationRepo())

	if _, err := svc.MarkRead(context.Background(), 99, 1); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
}

func TestRunChecksCounts(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.overdue = []*paymentReminderTarget{
		{PaymentID: 10, UserID: 1, SubscriptionName: "Netflix", Amount: 25},
		{PaymentID: 11, UserID: 2, SubscriptionName: "Spotify", Amount: 5},
	}
	repo.renewals = []*renewalAlertTarget{
		{SubscriptionID: 1, UserID: 1, SubscriptionName: "Netflix", RenewsAt: time.Now().Add(48 * time.Hour)},
	}
	svc := NewService(repo)

	result, err := svc.RunChecks(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.PaymentReminders != 2 {
		t.Fatalf("expected 2 payment reminders, got %d", result.PaymentReminders)
	}
	if result.RenewalAlerts != 1 {
		t.Fatalf("expected 1 renewal alert, got %d", result.RenewalAlerts)
	}
}

func TestRunChecksDeduplicates(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.overdue = []*paymentReminderTarget{
		{PaymentID: 10, UserID: 1, SubscriptionName: "Netflix", Amount: 25},
	}
	svc := NewService(repo)

	first, err := svc.RunChecks(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.PaymentReminders != 1 {
		t.Fatalf("expected 1 reminder on first run, got %d", first.PaymentReminders)
	}

	second, err := svc.RunChecks(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.PaymentReminders != 0 {
		t.Fatalf("expected 0 reminders on immediate re-run, got %d", second.PaymentReminders)
	}
}
