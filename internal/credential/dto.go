package credential

import "strings"

// StoreCredentialRequest represents the request to store subscription credentials
type StoreCredentialRequest struct {
	SubscriptionID int64  `json:"subscription_id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	URI            string `json:"uri,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Validate returns field-level validation errors
func (r *StoreCredentialRequest) Validate() []string {
	var details []string
	if r.SubscriptionID <= 0 {
		details = append(details, "subscription_id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		details = append(details, "name is required")
	}
	if strings.TrimSpace(r.Username) == "" {
		details = append(details, "username is required")
	}
	if r.Password == "" {
		details = append(details, "password is required")
	}
	return details
}

// GeneratePasswordRequest represents the request to generate a password
type GeneratePasswordRequest struct {
	Length int `json:"length"`
}

// StoreCredentialResponse carries the opaque credential ID; the secret
// material itself is never echoed back.
type StoreCredentialResponse struct {
	CredentialID   string `json:"credential_id"`
	SubscriptionID int64  `json:"subscription_id"`
}

// GeneratePasswordResponse carries a freshly generated password
type GeneratePasswordResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
}
