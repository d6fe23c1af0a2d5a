package payment

import "time"

// Status represents the state of a payment
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

// Type represents the kind of payment
type Type string

const (
	TypeMonthly      Type = "monthly"
	TypeInitial      Type = "initial"
	TypeProportional Type = "proportional"
)

// Payment represents a member's payment toward a subscription
type Payment struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"user_id"`
	SubscriptionID     int64      `json:"subscription_id"`
	Amount             float64    `json:"amount"`
	Status             Status     `json:"status"`
	Type               Type       `json:"type"`
	BillingPeriodStart *time.Time `json:"billing_period_start,omitempty"`
	BillingPeriodEnd   *time.Time `json:"billing_period_end,omitempty"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// subscriptionInfo is the slice of the subscription row payments need
type subscriptionInfo struct {
	ID             int64
	OwnerID        int64
	TotalPrice     float64
	CurrentMembers int
}
