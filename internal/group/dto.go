package group

import "strings"

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	MaxMembers  int     `json:"max_members"`
}

// Validate returns field-level validation errors
func (r *CreateGroupRequest) Validate() []string {
	var details []string
	if strings.TrimSpace(r.Name) == "" {
		details = append(details, "name is required")
	}
	if len(r.Name) > 100 {
		details = append(details, "name must be at most 100 characters")
	}
	if r.MaxMembers < 1 || r.MaxMembers > 100 {
		details = append(details, "max_members must be between 1 and 100")
	}
	return details
}

// InviteMemberRequest represents the request to invite a user by email
type InviteMemberRequest struct {
	Email   string     `json:"email"`
	Role    MemberRole `json:"role,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Validate returns field-level validation errors
func (r *InviteMemberRequest) Validate() []string {
	var details []string
	if !strings.Contains(r.Email, "@") {
		details = append(details, "email must be a valid email address")
	}
	if r.Role != "" && r.Role != MemberRoleAdmin && r.Role != MemberRoleMember {
		details = append(details, "role must be admin or member")
	}
	if len(r.Message) > 500 {
		details = append(details, "message must be at most 500 characters")
	}
	return details
}

// JoinGroupRequest represents the request to join a group by invite code
type JoinGroupRequest struct {
	InviteCode string `json:"invite_code"`
}

// Validate returns field-level validation errors
func (r *JoinGroupRequest) Validate() []string {
	var details []string
	if strings.TrimSpace(r.InviteCode) == "" {
		details = append(details, "invite_code is required")
	}
	return details
}

// UpdateMemberRequest represents the request to change a member's role
type UpdateMemberRequest struct {
	Role MemberRole `json:"role"`
}

// Validate returns field-level validation errors
func (r *UpdateMemberRequest) Validate() []string {
	var details []string
	if r.Role != MemberRoleAdmin && r.Role != MemberRoleMember {
		details = append(details, "role must be admin or member")
	}
	return details
}

// GroupResponse represents a group with its members
type GroupResponse struct {
	Group   *Group         `json:"group"`
	Members []*GroupMember `json:"members,omitempty"`
}
