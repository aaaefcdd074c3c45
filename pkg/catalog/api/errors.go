package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// statusFor maps catalog errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalidID),
		errors.Is(err, catalog.ErrInvalidRequest),
		errors.Is(err, catalog.ErrUnresolvedReference),
		errors.Is(err, catalog.ErrDuplicate):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, catalog.ErrAborted), errors.Is(err, catalog.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), msg, "method", r.Method, "path", r.URL.Path, "error", err)
		render.Status(r, status)
		render.JSON(w, r, ErrorResponse{Error: http.StatusText(status)})
		return
	}
	slog.DebugContext(r.Context(), msg, "status", status, "error", err)
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, msg string, fields map[string]string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: msg, Fields: fields})
}

func writeNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, ErrorResponse{Error: msg})
}
