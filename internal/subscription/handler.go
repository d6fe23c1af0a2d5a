package subscription

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dividee/dividee/pkg/middleware"
	"github.com/dividee/dividee/pkg/response"
)

// Handler handles HTTP requests for subscription operations
type Handler struct {
	service *Service
}

// NewHandler creates a new subscription handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for subscription endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/public", h.SearchPublic)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)

	r.Post("/{id}/members", h.AddMember)
	r.Put("/{id}/members/{userId}", h.UpdateMember)
	r.Delete("/{id}/members/{userId}", h.RemoveMember)

	return r
}

// Create handles POST /subscriptions
// @Summary      Create a new shared subscription
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Param        request body CreateSubscriptionRequest true "Subscription creation request"
// @Success      201 {object} SubscriptionResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /subscriptions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if details := req.Validate(); len(details) > 0 {
		response.ValidationFailed(w, details)
		return
	}

	sub, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		if errors.Is(err, ErrNotGroupMember) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create subscription")
		return
	}

	response.JSON(w, http.StatusCreated, &SubscriptionResponse{Subscription: sub})
}

// List handles GET /subscriptions
// @Summary      List my subscriptions with my role in each
// @Tags         subscriptions
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /subscriptions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	subs, err := h.service.ListByUserID(r.Context(), callerID)
	if err != nil {
		response.InternalError(w, "Failed to list subscriptions")
		return
	}

	if subs == nil {
		subs = []*SubscriptionWithRole{}
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"subscriptions": subs})
}

// SearchPublic handles GET /subscriptions/public
// @Summary      Browse public subscriptions
// @Tags         subscriptions
// @Produce      json
// @Param        search query string false "Match name or description"
// @Param        service query string false "Match service name"
// @Param        max_price query number false "Maximum total price"
// @Param        available_spots query bool false "Only subscriptions with free spots"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(20)
// @Success      200 {object} map[string]interface{}
// @Router       /subscriptions/public [get]
func (h *Handler) SearchPublic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := &PublicFilter{
		Search:         q.Get("search"),
		Service:        q.Get("service"),
		AvailableSpots: q.Get("available_spots") == "true",
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	if raw := q.Get("max_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price <= 0 {
			response.BadRequest(w, "Invalid max_price")
			return
		}
		filter.MaxPrice = &price
	}

	subs, total, err := h.service.SearchPublic(r.Context(), filter)
	if err != nil {
		response.InternalError(w, "Failed to search subscriptions")
		return
	}

	if subs == nil {
		subs = []*Subscription{}
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"subscriptions": subs,
		"total":         total,
		"page":          filter.Page,
		"limit":         filter.Limit,
	})
}

// GetByID handles GET /subscriptions/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	subscriptionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid subscription ID")
		return
	}

	sub, members, err := h.service.GetByID(r.Context(), subscriptionID, callerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotAuthorized):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to get subscription")
		}
		return
	}

	response.JSON(w, http.StatusOK, &SubscriptionResponse{Subscription: sub, Members: members})
}

// Update handles PUT /subscriptions/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	subscriptionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid subscription ID")
		return
	}

	var req UpdateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if details := req.Validate(); len(details) > 0 {
		response.ValidationFailed(w, details)
		return
	}

	sub, err := h.service.Update(r.Context(), subscriptionID, callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotAuthorized):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to update subscription")
		}
		return
	}

	response.JSON(w, http.StatusOK, &SubscriptionResponse{Subscription: sub})
}

// AddMember handles POST /subscriptions/{id}/members
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	subscriptionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid subscription ID")
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if details := req.Validate(); len(details) > 0 {
		response.ValidationFailed(w, details)
		return
	}

	member, err := h.service.AddMember(r.Context(), subscriptionID, callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotAuthorized):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrMemberAlreadyExists):
			response.Conflict(w, err.Error())
		case errors.Is(err, ErrSubscriptionFull):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to add member")
		}
		return
	}

	response.JSON(w, http.StatusCreated, member)
}

// UpdateMember handles PUT /subscriptions/{id}/members/{userId}
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	subscriptionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid subscription ID")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req struct {
		Role MemberRole `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Role != MemberRoleAdmin && req.Role != MemberRoleMember {
		response.ValidationFailed(w, []string{"role must be admin or member"})
		return
	}

	member, err := h.service.UpdateMemberRole(r.Context(), subscriptionID, callerID, targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionNotFound), errors.Is(err, ErrMemberNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotAuthorized):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to update member")
		}
		return
	}

	response.JSON(w, http.StatusOK, member)
}

// RemoveMember handles DELETE /subscriptions/{id}/members/{userId}
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	subscriptionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid subscription ID")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.RemoveMember(r.Context(), subscriptionID, callerID, targetID); err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionNotFound), errors.Is(err, ErrMemberNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotAuthorized), errors.Is(err, ErrCannotRemoveOwner):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to remove member")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Member removed successfully"})
}
