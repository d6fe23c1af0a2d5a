package accessrequest

import "time"

// Status represents the state of an access request. The only transitions
// are pending → approved and pending → rejected, both terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// AccessRequest represents a user's petition to join a subscription
type AccessRequest struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	SubscriptionID int64      `json:"subscription_id"`
	Status         Status     `json:"status"`
	Message        *string    `json:"message,omitempty"`
	AdminResponse  *string    `json:"admin_response,omitempty"`
	RespondedBy    *int64     `json:"responded_by,omitempty"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	// Populated from JOIN
	SubscriptionName string `json:"subscription_name,omitempty"`
	Username         string `json:"username,omitempty"`
}

// subscriptionInfo is the slice of the subscription row the workflow needs
type subscriptionInfo struct {
	ID             int64
	Name           string
	OwnerID        int64
	MaxMembers     int
	CurrentMembers int
	IsPublic       bool
	IsActive       bool
}
