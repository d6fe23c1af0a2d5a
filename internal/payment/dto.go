package payment

import "time"

// CreatePaymentRequest represents the request to record a payment
type CreatePaymentRequest struct {
	SubscriptionID     int64      `json:"subscription_id"`
	Amount             float64    `json:"amount"`
	Type               Type       `json:"type"`
	BillingPeriodStart *time.Time `json:"billing_period_start,omitempty"`
	BillingPeriodEnd   *time.Time `json:"billing_period_end,omitempty"`
}

// Validate returns field-level validation errors
func (r *CreatePaymentRequest) Validate() []string {
	var details []string
	if r.SubscriptionID <= 0 {
		details = append(details, "subscription_id is required")
	}
	if r.Amount <= 0 {
		details = append(details, "amount must be greater than 0")
	}
	switch r.Type {
	case TypeMonthly, TypeInitial, TypeProportional:
	default:
		details = append(details, "type must be monthly, initial or proportional")
	}
	if r.BillingPeriodStart != nil && r.BillingPeriodEnd != nil && r.BillingPeriodEnd.Before(*r.BillingPeriodStart) {
		details = append(details, "billing_period_end must not be before billing_period_start")
	}
	return details
}

// QuoteRequest asks what one member's share for a billing period would be
type QuoteRequest struct {
	SubscriptionID     int64
	Type               Type
	BillingPeriodStart *time.Time
	BillingPeriodEnd   *time.Time
}

// QuoteResponse carries the computed share; nothing is persisted
type QuoteResponse struct {
	SubscriptionID int64   `json:"subscription_id"`
	Type           Type    `json:"type"`
	Amount         float64 `json:"amount"`
}

// Filter holds the query filters for listing payments
type Filter struct {
	SubscriptionID *int64
	Status         Status
	Limit          int
}
