package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dividee/dividee/pkg/middleware"
	"github.com/dividee/dividee/pkg/response"
)

// Handler handles HTTP requests for dashboard operations
type Handler struct {
	service *Service
}

// NewHandler creates a new dashboard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for dashboard endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/financial", h.GetFinancial)

	return r
}

// GetFinancial handles GET /dashboard/financial
// @Summary      Get my financial dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} FinancialDashboard
// @Failure      401 {object} response.ErrorResponse
// @Router       /dashboard/financial [get]
func (h *Handler) GetFinancial(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	dash, err := h.service.GetFinancial(r.Context(), callerID)
	if err != nil {
		response.InternalError(w, "Failed to load dashboard")
		return
	}

	response.JSON(w, http.StatusOK, dash)
}
