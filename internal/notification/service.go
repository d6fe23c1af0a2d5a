package notification

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	paymentReminderAge  = 3 * 24 * time.Hour
	renewalAlertWindow  = 3 * 24 * time.Hour
	reminderMinInterval = 3 * 24 * time.Hour
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Service handles notification business logic
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new notification service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Notify creates a notification for a user. An entityID of 0 means the
// notification is not tied to any entity.
func (s *Service) Notify(ctx context.Context, userID int64, title, message, ntype string, entityID int64, entityType string) error {
	n := &Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    ntype,
	}
	if entityID != 0 {
		n.RelatedEntityID = &entityID
		n.RelatedEntityType = &entityType
	}

	_, err := s.repo.Create(ctx, n)
	return err
}

// Create creates a notification from an API request
func (s *Service) Create(ctx context.Context, n *Notification) (*Notification, error) {
	return s.repo.Create(ctx, n)
}

// ListByUserID retrieves the caller's notifications
func (s *Service) ListByUserID(ctx context.Context, userID int64, unreadOnly bool, ntype string, limit int) ([]*Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUserID(ctx, userID, unreadOnly, ntype, limit)
}

// MarkRead marks a notification as read; only the recipient may do so
func (s *Service) MarkRead(ctx context.Context, id, callerID int64) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	if n.UserID != callerID {
		return nil, ErrNotRecipient
	}

	return s.repo.MarkRead(ctx, id)
}

// RunChecks synchronously generates payment reminders and renewal alerts.
// It is triggered by an external cron; there is no in-process scheduler.
func (s *Service) RunChecks(ctx context.Context) (*ChecksResult, error) {
	result := &ChecksResult{}
	now := s.now()
	cutoff := now.Add(-reminderMinInterval)

	overdue, err := s.repo.ListOverduePendingPayments(ctx, now.Add(-paymentReminderAge))
	if err != nil {
		return nil, err
	}
	for _, t := range overdue {
		sent, err := s.repo.HasRecent(ctx, t.UserID, TypePaymentReminder, t.PaymentID, cutoff)
		if err != nil {
			return nil, err
		}
		if sent {
			continue
		}

		message := fmt.Sprintf("Your payment of %.2f for %q is still pending", t.Amount, t.SubscriptionName)
		if err := s.Notify(ctx, t.UserID, "Payment reminder", message, TypePaymentReminder, t.PaymentID, "payment"); err != nil {
			return nil, err
		}
		result.PaymentReminders++
	}

	renewals, err := s.repo.ListUpcomingRenewals(ctx, now.Add(renewalAlertWindow))
	if err != nil {
		return nil, err
	}
	for _, t := range renewals {
		sent, err := s.repo.HasRecent(ctx, t.UserID, TypeRenewalAlert, t.SubscriptionID, cutoff)
		if err != nil {
			return nil, err
		}
		if sent {
			continue
		}

		message := fmt.Sprintf("%q renews on %s", t.SubscriptionName, t.RenewsAt.Format("2006-01-02"))
		if err := s.Notify(ctx, t.UserID, "Upcoming renewal", message, TypeRenewalAlert, t.SubscriptionID, "subscription"); err != nil {
			return nil, err
		}
		result.RenewalAlerts++
	}

	return result, nil
}
