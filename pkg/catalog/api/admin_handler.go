package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-catalog/pkg/catalog/admin"
)

// AdminHandler exposes operator endpoints. Mount it behind authentication.
type AdminHandler struct {
	service admin.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service admin.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Routes returns the admin routes
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/stats", h.GetStatistics)
	return r
}

// GetStatistics returns catalog-wide counts
func (h *AdminHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetStatistics(r.Context())
	if errors.Is(err, admin.ErrStatisticsUnsupported) {
		render.Status(r, http.StatusNotImplemented)
		render.JSON(w, r, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		writeError(w, r, "Failed to compute statistics", err)
		return
	}
	render.JSON(w, r, resp)
}
