package credential

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dividee/dividee/internal/secrets"
	"github.com/dividee/dividee/pkg/middleware"
	"github.com/dividee/dividee/pkg/response"
)

// Handler handles HTTP requests for credential operations
type Handler struct {
	service *Service
}

// NewHandler creates a new credential handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for credential endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)

	return r
}

// Create handles POST /credentials. With {"action":"generate-password"} it
// returns a random password; otherwise it stores the posted credentials.
// @Summary      Store credentials or generate a password
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Param        request body StoreCredentialRequest true "Credential"
// @Success      200 {object} GeneratePasswordResponse
// @Success      201 {object} StoreCredentialResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /credentials [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var raw struct {
		Action string `json:"action"`
		StoreCredentialRequest
		GeneratePasswordRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if raw.Action == "generate-password" {
		result, err := h.service.GeneratePassword(&raw.GeneratePasswordRequest)
		if err != nil {
			response.InternalError(w, "Failed to generate password")
			return
		}
		response.JSON(w, http.StatusOK, result)
		return
	}

	req := raw.StoreCredentialRequest
	if details := req.Validate(); len(details) > 0 {
		response.ValidationFailed(w, details)
		return
	}

	result, err := h.service.Store(r.Context(), callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotAuthorized):
			response.Forbidden(w, err.Error())
		case errors.Is(err, secrets.ErrUnavailable):
			response.Error(w, http.StatusBadGateway, "Secrets service unavailable")
		default:
			response.InternalError(w, "Failed to store credentials")
		}
		return
	}

	response.JSON(w, http.StatusCreated, result)
}
