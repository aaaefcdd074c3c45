package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

// NewRouter mounts every catalog resource on one router
func NewRouter(service catalog.Service) chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Mount("/categories", NewCategoryHandler(service).Routes())
	r.Mount("/content", NewContentHandler(service).Routes())
	r.Mount("/users/{userID}", NewUserHandler(service).Routes())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	return r
}
