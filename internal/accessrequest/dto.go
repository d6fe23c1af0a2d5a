package accessrequest

// CreateRequest represents the request to petition for subscription access
type CreateRequest struct {
	SubscriptionID int64   `json:"subscription_id"`
	Message        *string `json:"message,omitempty"`
}

// Validate returns field-level validation errors
func (r *CreateRequest) Validate() []string {
	var details []string
	if r.SubscriptionID <= 0 {
		details = append(details, "subscription_id is required")
	}
	if r.Message != nil && len(*r.Message) > 500 {
		details = append(details, "message must be at most 500 characters")
	}
	return details
}

// RespondRequest represents the admin response on approve or reject
type RespondRequest struct {
	AdminResponse *string `json:"admin_response,omitempty"`
}

// Validate returns field-level validation errors
func (r *RespondRequest) Validate() []string {
	var details []string
	if r.AdminResponse != nil && len(*r.AdminResponse) > 500 {
		details = append(details, "admin_response must be at most 500 characters")
	}
	return details
}
