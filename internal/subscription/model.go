package subscription

import "time"

// MemberRole represents the role of a subscription member
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// Subscription represents a shared paid service split among members
type Subscription struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	ServiceName    string     `json:"service_name"`
	Description    *string    `json:"description,omitempty"`
	OwnerID        int64      `json:"owner_id"`
	GroupID        *int64     `json:"group_id,omitempty"`
	TotalPrice     float64    `json:"total_price"`
	MaxMembers     int        `json:"max_members"`
	CurrentMembers int        `json:"current_members"`
	IsPublic       bool       `json:"is_public"`
	IsActive       bool       `json:"is_active"`
	CredentialID   *string    `json:"credential_id,omitempty"`
	RenewsAt       *time.Time `json:"renews_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SubscriptionMember represents a user's membership in a subscription
type SubscriptionMember struct {
	ID             int64      `json:"id"`
	SubscriptionID int64      `json:"subscription_id"`
	UserID         int64      `json:"user_id"`
	Role           MemberRole `json:"role"`
	JoinedAt       time.Time  `json:"joined_at"`

	// Populated from JOIN
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// SubscriptionWithRole is a subscription annotated with the caller's role
type SubscriptionWithRole struct {
	Subscription
	Role MemberRole `json:"role"`
}
