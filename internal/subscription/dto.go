package subscription

import (
	"strings"
	"time"
)

// CreateSubscriptionRequest represents the request to create a subscription
type CreateSubscriptionRequest struct {
	Name        string     `json:"name"`
	ServiceName string     `json:"service_name"`
	Description *string    `json:"description,omitempty"`
	GroupID     *int64     `json:"group_id,omitempty"`
	TotalPrice  float64    `json:"total_price"`
	MaxMembers  int        `json:"max_members"`
	IsPublic    bool       `json:"is_public"`
	RenewsAt    *time.Time `json:"renews_at,omitempty"`
}

// Validate returns field-level validation errors
func (r *CreateSubscriptionRequest) Validate() []string {
	var details []string
	if strings.TrimSpace(r.Name) == "" {
		details = append(details, "name is required")
	}
	if strings.TrimSpace(r.ServiceName) == "" {
		details = append(details, "service_name is required")
	}
	if r.TotalPrice <= 0 {
		details = append(details, "total_price must be greater than 0")
	}
	if r.MaxMembers < 1 || r.MaxMembers > 100 {
		details = append(details, "max_members must be between 1 and 100")
	}
	return details
}

// UpdateSubscriptionRequest represents the request to update a subscription
type UpdateSubscriptionRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	TotalPrice  *float64   `json:"total_price,omitempty"`
	IsPublic    *bool      `json:"is_public,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
	RenewsAt    *time.Time `json:"renews_at,omitempty"`
}

// Validate returns field-level validation errors
func (r *UpdateSubscriptionRequest) Validate() []string {
	var details []string
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		details = append(details, "name must not be empty")
	}
	if r.TotalPrice != nil && *r.TotalPrice <= 0 {
		details = append(details, "total_price must be greater than 0")
	}
	return details
}

// AddMemberRequest represents the request to add a member directly
type AddMemberRequest struct {
	UserID int64      `json:"user_id"`
	Role   MemberRole `json:"role,omitempty"`
}

// Validate returns field-level validation errors
func (r *AddMemberRequest) Validate() []string {
	var details []string
	if r.UserID <= 0 {
		details = append(details, "user_id is required")
	}
	if r.Role != "" && r.Role != MemberRoleAdmin && r.Role != MemberRoleMember {
		details = append(details, "role must be admin or member")
	}
	return details
}

// PublicFilter holds the query filters for browsing public subscriptions
type PublicFilter struct {
	Search         string
	Service        string
	MaxPrice       *float64
	AvailableSpots bool
	Page           int
	Limit          int
}

// SubscriptionResponse represents a subscription with its members
type SubscriptionResponse struct {
	Subscription *Subscription         `json:"subscription"`
	Members      []*SubscriptionMember `json:"members,omitempty"`
}
