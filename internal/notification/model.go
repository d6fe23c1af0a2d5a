package notification

import "time"

// Notification types
const (
	TypeGroupInvite     = "group_invite"
	TypeAccessRequest   = "access_request"
	TypeRequestApproved = "request_approved"
	TypeRequestRejected = "request_rejected"
	TypePaymentReminder = "payment_reminder"
	TypeRenewalAlert    = "renewal_alert"
)

// Notification represents an in-app notification
type Notification struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"user_id"`
	Title             string     `json:"title"`
	Message           string     `json:"message"`
	Type              string     `json:"type"`
	RelatedEntityID   *int64     `json:"related_entity_id,omitempty"`
	RelatedEntityType *string    `json:"related_entity_type,omitempty"`
	IsRead            bool       `json:"is_read"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// paymentReminderTarget is a pending payment that needs a reminder
type paymentReminderTarget struct {
	PaymentID        int64
	UserID           int64
	SubscriptionName string
	Amount           float64
}

// renewalAlertTarget is a subscription member to warn about an upcoming renewal
type renewalAlertTarget struct {
	SubscriptionID   int64
	UserID           int64
	SubscriptionName string
	RenewsAt         time.Time
}

// ChecksResult reports how many notifications an automation run produced
type ChecksResult struct {
	PaymentReminders int `json:"payment_reminders"`
	RenewalAlerts    int `json:"renewal_alerts"`
}
