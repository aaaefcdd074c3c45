package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	service catalog.Service
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service catalog.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Routes returns the routes for categories
func (h *CategoryHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateCategory)
	r.Get("/", h.ListCategories)
	r.Get("/{id}", h.GetCategory)
	r.Put("/{id}", h.UpdateCategory)
	r.Delete("/{id}", h.DeleteCategory)

	return r
}

// CreateCategoryRequest is the request body for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Icon        string `json:"icon" validate:"max=100"`
	Color       string `json:"color" validate:"max=32"`
}

// UpdateCategoryRequest is the request body for a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
	Color       *string `json:"color" validate:"omitempty,max=32"`
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeBadRequest(w, r, "invalid request body", nil)
		return
	}
	if fields := validationErrors(req); fields != nil {
		writeBadRequest(w, r, "validation failed", fields)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), catalog.CreateCategoryRequest{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	})
	if err != nil {
		writeError(w, r, "Failed to create category", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, category)
}

// ListCategories lists categories ordered by name
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, fields := parsePage(r)
	if fields != nil {
		writeBadRequest(w, r, "invalid query parameters", fields)
		return
	}

	categories, err := h.service.ListCategories(r.Context(), page.Skip, page.Limit)
	if err != nil {
		writeError(w, r, "Failed to list categories", err)
		return
	}
	render.JSON(w, r, categories)
}

// GetCategory returns one category
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "Failed to get category", err)
		return
	}
	render.JSON(w, r, category)
}

// UpdateCategory applies a partial update
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeBadRequest(w, r, "invalid request body", nil)
		return
	}
	if fields := validationErrors(req); fields != nil {
		writeBadRequest(w, r, "validation failed", fields)
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), catalog.UpdateCategoryRequest{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	})
	if err != nil {
		writeError(w, r, "Failed to update category", err)
		return
	}
	render.JSON(w, r, category)
}

// DeleteCategory deletes a category
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "Failed to delete category", err)
		return
	}
	if !deleted {
		writeNotFound(w, r, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
