package user

import "strings"

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate returns field-level validation errors
func (r *RegisterRequest) Validate() []string {
	var details []string
	if len(strings.TrimSpace(r.Username)) < 3 {
		details = append(details, "username must be at least 3 characters")
	}
	if !strings.Contains(r.Email, "@") {
		details = append(details, "email must be a valid email address")
	}
	if len(r.Password) < 8 {
		details = append(details, "password must be at least 8 characters")
	}
	return details
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate returns field-level validation errors
func (r *LoginRequest) Validate() []string {
	var details []string
	if r.Email == "" {
		details = append(details, "email is required")
	}
	if r.Password == "" {
		details = append(details, "password is required")
	}
	return details
}

// AuthResponse represents the response for register and login
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
