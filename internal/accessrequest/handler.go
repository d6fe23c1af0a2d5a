package accessrequest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dividee/dividee/pkg/middleware"
	"github.com/dividee/dividee/pkg/response"
)

// Handler handles HTTP requests for access request operations
type Handler struct {
	service *Service
}

// NewHandler creates a new access request handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for access request endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Put("/{id}/approve", h.Approve)
	r.Put("/{id}/reject", h.Reject)

	return r
}

// Create handles POST /access-requests
// @Summary      Request access to a public subscription
// @Tags         access-requests
// @Accept       json
// @Produce      json
// @Param        request body CreateRequest true "Access request"
// @Success      201 {object} AccessRequest
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /access-requests [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if details := req.Validate(); len(details) > 0 {
		response.ValidationFailed(w, details)
		return
	}

	created, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrSubscriptionNotAvailable), errors.Is(err, ErrOwnSubscription):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrAlreadyMember), errors.Is(err, ErrAlreadyRequested):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to create access request")
		}
		return
	}

	response.JSON(w, http.StatusCreated, created)
}

// List handles GET /access-requests
// @Summary      List access requests
// @Description  role=owner lists requests against subscriptions the caller owns; role=requester lists the caller's own requests
// @Tags         access-requests
// @Produce      json
// @Param        role query string false "owner or requester" default(owner)
// @Param        status query string false "pending, approved or rejected"
// @Success      200 {object} map[string]interface{}
// @Router       /access-requests [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	status := Status(r.URL.Query().Get("status"))
	switch status {
	case "", StatusPending, StatusApproved, StatusRejected:
	default:
		response.BadRequest(w, "Invalid status filter")
		return
	}

	asOwner := r.URL.Query().Get("role") != "requester"

	requests, err := h.service.List(r.Context(), callerID, asOwner, status)
	if err != nil {
		response.InternalError(w, "Failed to list access requests")
		return
	}

	if requests == nil {
		requests = []*AccessRequest{}
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"access_requests": requests})
}

// Approve handles PUT /access-requests/{id}/approve
// @Summary      Approve a pending access request
// @Tags         access-requests
// @Accept       json
// @Produce      json
// @Param        id path int true "Access request ID"
// @Param        request body RespondRequest false "Optional admin response"
// @Success      200 {object} AccessRequest
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /access-requests/{id}/approve [put]
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Approve)
}

// Reject handles PUT /access-requests/{id}/reject
// @Summary      Reject a pending access request
// @Tags         access-requests
// @Accept       json
// @Produce      json
// @Param        id path int true "Access request ID"
// @Param        request body RespondRequest false "Optional admin response"
// @Success      200 {object} AccessRequest
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /access-requests/{id}/reject [put]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Reject)
}

type respondFunc func(ctx context.Context, requestID, callerID int64, req *RespondRequest) (*AccessRequest, error)

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, fn respondFunc) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	req := RespondRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
	}

	if details := req.Validate(); len(details) > 0 {
		response.ValidationFailed(w, details)
		return
	}

	result, err := fn(r.Context(), requestID, callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound), errors.Is(err, ErrSubscriptionNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotAuthorized):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrAlreadyProcessed), errors.Is(err, ErrSubscriptionFull):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to process access request")
		}
		return
	}

	response.JSON(w, http.StatusOK, result)
}
