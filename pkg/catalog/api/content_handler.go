package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

// ContentHandler handles HTTP requests for catalog content
type ContentHandler struct {
	service catalog.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(service catalog.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// Routes returns the routes for content
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateContent)
	r.Get("/", h.ListContent)
	r.Get("/source/{sourceName}/{sourceID}", h.GetContentBySource)
	r.Get("/{id}", h.GetContent)
	r.Put("/{id}", h.UpdateContent)
	r.Delete("/{id}", h.DeleteContent)

	return r
}

// CreateContentRequest is the request body for creating content
type CreateContentRequest struct {
	Title         string   `json:"title" validate:"required,max=300"`
	Description   string   `json:"description" validate:"max=5000"`
	ReleaseDate   string   `json:"release_date" validate:"max=32"`
	Duration      string   `json:"duration" validate:"max=32"`
	Rating        *float64 `json:"rating"`
	CoverImageURL string   `json:"cover_image_url" validate:"omitempty,url"`
	ThumbnailURL  string   `json:"thumbnail_url" validate:"omitempty,url"`
	VideoURL      string   `json:"video_url" validate:"omitempty,url"`
	TrailerURL    string   `json:"trailer_url" validate:"omitempty,url"`
	Starring      []string `json:"starring"`
	Director      string   `json:"director"`
	Language      string   `json:"language"`
	Country       string   `json:"country"`
	Tags          []string `json:"tags"`
	ContentType   string   `json:"content_type" validate:"max=32"`
	Featured      bool     `json:"featured"`
	Trending      bool     `json:"trending"`
	SourceName    *string  `json:"source_name"`
	SourceID      *int     `json:"source_id"`
	CategoryIDs   []string `json:"category_ids"`
}

// UpdateContentRequest is the request body for a partial content update
type UpdateContentRequest struct {
	Title         *string   `json:"title" validate:"omitempty,min=1,max=300"`
	Description   *string   `json:"description" validate:"omitempty,max=5000"`
	ReleaseDate   *string   `json:"release_date" validate:"omitempty,max=32"`
	Duration      *string   `json:"duration" validate:"omitempty,max=32"`
	Rating        *float64  `json:"rating"`
	CoverImageURL *string   `json:"cover_image_url" validate:"omitempty,url"`
	ThumbnailURL  *string   `json:"thumbnail_url" validate:"omitempty,url"`
	VideoURL      *string   `json:"video_url" validate:"omitempty,url"`
	TrailerURL    *string   `json:"trailer_url" validate:"omitempty,url"`
	Starring      *[]string `json:"starring"`
	Director      *string   `json:"director"`
	Language      *string   `json:"language"`
	Country       *string   `json:"country"`
	Tags          *[]string `json:"tags"`
	ContentType   *string   `json:"content_type" validate:"omitempty,max=32"`
	Featured      *bool     `json:"featured"`
	Trending      *bool     `json:"trending"`
	SourceName    *string   `json:"source_name"`
	SourceID      *int      `json:"source_id"`
	CategoryIDs   *[]string `json:"category_ids"`
}

// checkCategories rejects the request unless every id names an existing
// category. The catalog itself drops such ids silently; clients of the
// HTTP API get a 400 instead.
func (h *ContentHandler) checkCategories(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := h.service.GetCategory(ctx, id); err != nil {
			if catalog.IsNotFound(err) {
				return fmt.Errorf("%w: category with id %s not found", catalog.ErrInvalidRequest, id)
			}
			return err
		}
	}
	return nil
}

// CreateContent creates new content
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req CreateContentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeBadRequest(w, r, "invalid request body", nil)
		return
	}
	if fields := validationErrors(req); fields != nil {
		writeBadRequest(w, r, "validation failed", fields)
		return
	}
	if err := h.checkCategories(r.Context(), req.CategoryIDs); err != nil {
		writeError(w, r, "Rejected content categories", err)
		return
	}

	content, err := h.service.CreateContent(r.Context(), catalog.CreateContentRequest{
		Title:         req.Title,
		Description:   req.Description,
		ReleaseDate:   req.ReleaseDate,
		Duration:      req.Duration,
		Rating:        req.Rating,
		CoverImageURL: req.CoverImageURL,
		ThumbnailURL:  req.ThumbnailURL,
		VideoURL:      req.VideoURL,
		TrailerURL:    req.TrailerURL,
		Starring:      req.Starring,
		Director:      req.Director,
		Language:      req.Language,
		Country:       req.Country,
		Tags:          req.Tags,
		ContentType:   req.ContentType,
		Featured:      req.Featured,
		Trending:      req.Trending,
		SourceName:    req.SourceName,
		SourceID:      req.SourceID,
		CategoryIDs:   req.CategoryIDs,
	})
	if err != nil {
		writeError(w, r, "Failed to create content", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, content)
}

// ListContent lists content with filters, sorting and text search
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	params, fields := parseListContent(r)
	if fields != nil {
		writeBadRequest(w, r, "invalid query parameters", fields)
		return
	}

	items, err := h.service.ListContent(r.Context(), catalog.ListContentRequest{
		Skip:         params.Skip,
		Limit:        params.Limit,
		ContentType:  params.ContentType,
		Featured:     params.Featured,
		Trending:     params.Trending,
		CategoryName: params.Category,
		SearchQuery:  params.Query,
		SortBy:       params.SortBy,
	})
	if err != nil {
		writeError(w, r, "Failed to list content", err)
		return
	}
	render.JSON(w, r, items)
}

// GetContent returns one content item with its categories
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.service.GetContent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "Failed to get content", err)
		return
	}
	render.JSON(w, r, content)
}

// GetContentBySource looks content up by its import source
func (h *ContentHandler) GetContentBySource(w http.ResponseWriter, r *http.Request) {
	sourceID, err := strconv.Atoi(chi.URLParam(r, "sourceID"))
	if err != nil {
		writeBadRequest(w, r, "invalid source id", map[string]string{"source_id": "must be an integer"})
		return
	}

	content, err := h.service.GetContentBySource(r.Context(), chi.URLParam(r, "sourceName"), sourceID)
	if err != nil {
		writeError(w, r, "Failed to get content by source", err)
		return
	}
	render.JSON(w, r, content)
}

// UpdateContent applies a partial update
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var req UpdateContentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeBadRequest(w, r, "invalid request body", nil)
		return
	}
	if fields := validationErrors(req); fields != nil {
		writeBadRequest(w, r, "validation failed", fields)
		return
	}
	if req.CategoryIDs != nil {
		if err := h.checkCategories(r.Context(), *req.CategoryIDs); err != nil {
			writeError(w, r, "Rejected content categories", err)
			return
		}
	}

	content, err := h.service.UpdateContent(r.Context(), chi.URLParam(r, "id"), catalog.UpdateContentRequest{
		Title:         req.Title,
		Description:   req.Description,
		ReleaseDate:   req.ReleaseDate,
		Duration:      req.Duration,
		Rating:        req.Rating,
		CoverImageURL: req.CoverImageURL,
		ThumbnailURL:  req.ThumbnailURL,
		VideoURL:      req.VideoURL,
		TrailerURL:    req.TrailerURL,
		Starring:      req.Starring,
		Director:      req.Director,
		Language:      req.Language,
		Country:       req.Country,
		Tags:          req.Tags,
		ContentType:   req.ContentType,
		Featured:      req.Featured,
		Trending:      req.Trending,
		SourceName:    req.SourceName,
		SourceID:      req.SourceID,
		CategoryIDs:   req.CategoryIDs,
	})
	if err != nil {
		writeError(w, r, "Failed to update content", err)
		return
	}
	render.JSON(w, r, content)
}

// DeleteContent deletes content
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.DeleteContent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "Failed to delete content", err)
		return
	}
	if !deleted {
		writeNotFound(w, r, "content not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
