package notification

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dividee/dividee/pkg/middleware"
	"github.com/dividee/dividee/pkg/response"
)

// Handler handles HTTP requests for notification operations
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for notification endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Put("/{id}/read", h.MarkRead)

	return r
}

// CreateNotificationRequest represents the request to create a notification
type CreateNotificationRequest struct {
	UserID            int64   `json:"user_id"`
	Title             string  `json:"title"`
	Message           string  `json:"message"`
	Type              string  `json:"type"`
	RelatedEntityID   *int64  `json:"related_entity_id,omitempty"`
	RelatedEntityType *string `json:"related_entity_type,omitempty"`
}

// Validate returns field-level validation errors
func (r *CreateNotificationRequest) Validate() []string {
	var details []string
	if r.UserID <= 0 {
		details = append(details, "user_id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		details = append(details, "title is required")
	}
	if strings.TrimSpace(r.Message) == "" {
		details = append(details, "message is required")
	}
	if strings.TrimSpace(r.Type) == "" {
		details = append(details, "type is required")
	}
	return details
}

// Create handles POST /notifications
// @Summary      Create a notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body CreateNotificationRequest true "Notification"
// @Success      201 {object} Notification
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Router       /notifications [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if details := req.Validate(); len(details) > 0 {
		response.ValidationFailed(w, details)
		return
	}

	// Users may only create notifications addressed to themselves;
	// cross-user notifications come from the services directly.
	if req.UserID != callerID {
		response.Forbidden(w, "Cannot create notifications for another user")
		return
	}

	n, err := h.service.Create(r.Context(), &Notification{
		UserID:            req.UserID,
		Title:             req.Title,
		Message:           req.Message,
		Type:              req.Type,
		RelatedEntityID:   req.RelatedEntityID,
		RelatedEntityType: req.RelatedEntityType,
	})
	if err != nil {
		response.InternalError(w, "Failed to create notification")
		return
	}

	response.JSON(w, http.StatusCreated, n)
}

// List handles GET /notifications
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Param        unread_only query bool false "Only unread notifications"
// @Param        type query string false "Filter by type"
// @Param        limit query int false "Maximum rows" default(50)
// @Success      200 {object} map[string]interface{}
// @Router       /notifications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	q := r.URL.Query()
	unreadOnly := q.Get("unread_only") == "true"
	limit, _ := strconv.Atoi(q.Get("limit"))

	notifications, err := h.service.ListByUserID(r.Context(), callerID, unreadOnly, q.Get("type"), limit)
	if err != nil {
		response.InternalError(w, "Failed to list notifications")
		return
	}

	if notifications == nil {
		notifications = []*Notification{}
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// MarkRead handles PUT /notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid notification ID")
		return
	}

	n, err := h.service.MarkRead(r.Context(), id, callerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotificationNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotRecipient):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to mark notification read")
		}
		return
	}

	response.JSON(w, http.StatusOK, n)
}

// RunChecks handles POST /notifications/run-checks. The route is guarded
// by the cron secret middleware, not by user auth.
func (h *Handler) RunChecks(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RunChecks(r.Context())
	if err != nil {
		slog.Error("notification checks failed", "error", err)
		response.InternalError(w, "Failed to run notification checks")
		return
	}

	slog.Info("notification checks completed",
		"payment_reminders", result.PaymentReminders,
		"renewal_alerts", result.RenewalAlerts,
	)
	response.JSON(w, http.StatusOK, result)
}
