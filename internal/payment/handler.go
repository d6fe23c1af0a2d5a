package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dividee/dividee/internal/payment/pricing"
	"github.com/dividee/dividee/pkg/middleware"
	"github.com/dividee/dividee/pkg/response"
)

// Handler handles HTTP requests for payment operations
type Handler struct {
	service *Service
}

// NewHandler creates a new payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for payment endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/quote", h.Quote)
	r.Put("/{id}/complete", h.Complete)

	return r
}

// Create handles POST /payments
// @Summary      Record a payment toward a subscription
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body CreatePaymentRequest true "Payment"
// @Success      201 {object} Payment
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Router       /payments [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if details := req.Validate(); len(details) > 0 {
		response.ValidationFailed(w, details)
		return
	}

	p, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotMember):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to create payment")
		}
		return
	}

	response.JSON(w, http.StatusCreated, p)
}

// List handles GET /payments
// @Summary      List my payments
// @Tags         payments
// @Produce      json
// @Param        subscription_id query int false "Filter by subscription"
// @Param        status query string false "pending, paid or failed"
// @Param        limit query int false "Maximum rows" default(50)
// @Success      200 {object} map[string]interface{}
// @Router       /payments [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	q := r.URL.Query()

	filter := &Filter{Status: Status(q.Get("status"))}
	switch filter.Status {
	case "", StatusPending, StatusPaid, StatusFailed:
	default:
		response.BadRequest(w, "Invalid status filter")
		return
	}

	if raw := q.Get("subscription_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid subscription_id")
			return
		}
		filter.SubscriptionID = &id
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	payments, err := h.service.ListByUserID(r.Context(), callerID, filter)
	if err != nil {
		response.InternalError(w, "Failed to list payments")
		return
	}

	if payments == nil {
		payments = []*Payment{}
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"payments": payments})
}

// Quote handles GET /payments/quote
// @Summary      Compute my share for a billing period
// @Tags         payments
// @Produce      json
// @Param        subscription_id query int true "Subscription ID"
// @Param        type query string true "monthly, initial or proportional"
// @Param        billing_period_start query string false "RFC 3339 timestamp"
// @Param        billing_period_end query string false "RFC 3339 timestamp"
// @Success      200 {object} QuoteResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /payments/quote [get]
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	q := r.URL.Query()

	subscriptionID, err := strconv.ParseInt(q.Get("subscription_id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid subscription_id")
		return
	}

	req := &QuoteRequest{SubscriptionID: subscriptionID, Type: Type(q.Get("type"))}
	for raw, dst := range map[string]**time.Time{
		"billing_period_start": &req.BillingPeriodStart,
		"billing_period_end":   &req.BillingPeriodEnd,
	} {
		if value := q.Get(raw); value != "" {
			t, err := time.Parse(time.RFC3339, value)
			if err != nil {
				response.BadRequest(w, "Invalid "+raw)
				return
			}
			*dst = &t
		}
	}

	quote, err := h.service.Quote(r.Context(), callerID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotMember):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrInvalidType),
			errors.Is(err, pricing.ErrNoMembers),
			errors.Is(err, pricing.ErrMissingPeriod),
			errors.Is(err, pricing.ErrInvalidPeriod):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to compute quote")
		}
		return
	}

	response.JSON(w, http.StatusOK, quote)
}

// Complete handles PUT /payments/{id}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	paymentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	p, err := h.service.Complete(r.Context(), paymentID, callerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound), errors.Is(err, ErrSubscriptionNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotAuthorized):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrAlreadyCompleted):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to complete payment")
		}
		return
	}

	response.JSON(w, http.StatusOK, p)
}
