package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

// UserHandler handles the watchlist and watch history of one user. It is
// mounted under a path carrying the {userID} parameter.
type UserHandler struct {
	service catalog.Service
}

// NewUserHandler creates a new user relationship handler
func NewUserHandler(service catalog.Service) *UserHandler {
	return &UserHandler{service: service}
}

// Routes returns the routes for a user's watchlist and watch history
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/watchlist", func(r chi.Router) {
		r.Post("/", h.AddToWatchlist)
		r.Get("/", h.ListWatchlist)
		r.Delete("/{contentID}", h.RemoveFromWatchlist)
	})

	r.Route("/watch-history", func(r chi.Router) {
		r.Post("/", h.RecordWatchProgress)
		r.Get("/", h.ListWatchHistory)
		r.Delete("/{contentID}", h.RemoveFromWatchHistory)
	})

	return r
}

// WatchlistRequest is the request body for adding to the watchlist
type WatchlistRequest struct {
	ContentID string `json:"content_id" validate:"required"`
}

// WatchProgressRequest is the request body for recording watch progress
type WatchProgressRequest struct {
	ContentID          string `json:"content_id" validate:"required"`
	ProgressPercentage *int   `json:"progress_percentage" validate:"required,gte=0,lte=100"`
}

// AddToWatchlist adds content to the user's watchlist. Repeated adds return
// the existing item.
func (h *UserHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req WatchlistRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeBadRequest(w, r, "invalid request body", nil)
		return
	}
	if fields := validationErrors(req); fields != nil {
		writeBadRequest(w, r, "validation failed", fields)
		return
	}

	item, err := h.service.AddToWatchlist(r.Context(), chi.URLParam(r, "userID"), req.ContentID)
	if err != nil {
		writeError(w, r, "Failed to add to watchlist", err)
		return
	}
	render.JSON(w, r, item)
}

// ListWatchlist lists the user's watchlist, newest first
func (h *UserHandler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	page, fields := parsePage(r)
	if fields != nil {
		writeBadRequest(w, r, "invalid query parameters", fields)
		return
	}

	items, err := h.service.ListWatchlist(r.Context(), chi.URLParam(r, "userID"), page.Skip, page.Limit)
	if err != nil {
		writeError(w, r, "Failed to list watchlist", err)
		return
	}
	render.JSON(w, r, items)
}

// RemoveFromWatchlist removes content from the user's watchlist
func (h *UserHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.RemoveFromWatchlist(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "contentID"))
	if err != nil {
		writeError(w, r, "Failed to remove from watchlist", err)
		return
	}
	if !removed {
		writeNotFound(w, r, "watchlist item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordWatchProgress upserts the user's progress on a content item
func (h *UserHandler) RecordWatchProgress(w http.ResponseWriter, r *http.Request) {
	var req WatchProgressRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeBadRequest(w, r, "invalid request body", nil)
		return
	}
	if fields := validationErrors(req); fields != nil {
		writeBadRequest(w, r, "validation failed", fields)
		return
	}

	item, err := h.service.RecordWatchProgress(r.Context(), chi.URLParam(r, "userID"), req.ContentID, *req.ProgressPercentage)
	if err != nil {
		writeError(w, r, "Failed to record watch progress", err)
		return
	}
	render.JSON(w, r, item)
}

// ListWatchHistory lists the user's watch history, most recently watched first
func (h *UserHandler) ListWatchHistory(w http.ResponseWriter, r *http.Request) {
	page, fields := parsePage(r)
	if fields != nil {
		writeBadRequest(w, r, "invalid query parameters", fields)
		return
	}

	items, err := h.service.ListWatchHistory(r.Context(), chi.URLParam(r, "userID"), page.Skip, page.Limit)
	if err != nil {
		writeError(w, r, "Failed to list watch history", err)
		return
	}
	render.JSON(w, r, items)
}

// RemoveFromWatchHistory deletes the user's progress on a content item
func (h *UserHandler) RemoveFromWatchHistory(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.RemoveFromWatchHistory(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "contentID"))
	if err != nil {
		writeError(w, r, "Failed to remove from watch history", err)
		return
	}
	if !removed {
		writeNotFound(w, r, "watch history item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
