package notification

import (
	"context"
	"time"
)

// Repository handles notification persistence
type Repository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	GetByID(ctx context.Context, id int64) (*Notification, error)
	ListByUserID(ctx context.Context, userID int64, unreadOnly bool, ntype string, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, id int64) (*Notification, error)

	// HasRecent reports whether a notification of the given type about the
	// given entity was already sent to the user since the cutoff, so
	// repeated automation runs do not spam.
	HasRecent(ctx context.Context, userID int64, ntype string, entityID int64, since time.Time) (bool, error)
	ListOverduePendingPayments(ctx context.Context, createdBefore time.Time) ([]*paymentReminderTarget, error)
	ListUpcomingRenewals(ctx context.Context, until time.Time) ([]*renewalAlertTarget, error)
}
