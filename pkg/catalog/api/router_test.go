package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-catalog/pkg/catalog"
	"github.com/tendant/simple-catalog/pkg/catalog/repo/memory"
)

func setupRouterTest(t *testing.T) (chi.Router, catalog.Service) {
	t.Helper()
	service, err := catalog.New(
		catalog.WithRepository(memory.New()),
		catalog.WithEventSink(catalog.NewNoopEventSink()),
	)
	require.NoError(t, err)
	return NewRouter(service), service
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCategoryRoutes(t *testing.T) {
	router, _ := setupRouterTest(t)

	w := doJSON(t, router, http.MethodPost, "/categories", CreateCategoryRequest{Name: "Action"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[catalog.Category](t, w)
	assert.Equal(t, "Action", created.Name)

	t.Run("DuplicateIsBadRequest", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/categories", CreateCategoryRequest{Name: "Action"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MissingName", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/categories", CreateCategoryRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, "is required", resp.Fields["name"])
	})

	t.Run("Get", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/categories/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, "/categories/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(t, router, http.MethodGet, "/categories/not-an-id", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update", func(t *testing.T) {
		color := "#ff0000"
		w := doJSON(t, router, http.MethodPut, "/categories/"+created.ID.String(), UpdateCategoryRequest{Color: &color})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "#ff0000", decode[catalog.Category](t, w).Color)
	})

	t.Run("List", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/categories?limit=5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]catalog.Category](t, w), 1)

		w = doJSON(t, router, http.MethodGet, "/categories?skip=-1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/categories/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, router, http.MethodDelete, "/categories/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestContentRoutes(t *testing.T) {
	router, service := setupRouterTest(t)
	ctx := context.Background()

	action, err := service.CreateCategory(ctx, catalog.CreateCategoryRequest{Name: "Action"})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/content", CreateContentRequest{
		Title:       "Casino Royale",
		Description: "Bond plays poker",
		CategoryIDs: []string{action.ID.String()},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[catalog.Content](t, w)
	require.Len(t, created.Categories, 1)
	assert.Equal(t, "Action", created.Categories[0].Name)
	assert.Equal(t, catalog.ContentTypeMovie, created.ContentType)

	t.Run("UnknownCategoryRejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/content", CreateContentRequest{
			Title:       "Heat",
			CategoryIDs: []string{uuid.NewString()},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, router, http.MethodPost, "/content", CreateContentRequest{
			Title:       "Heat",
			CategoryIDs: []string{"bogus"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ValidationFailures", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/content", CreateContentRequest{VideoURL: "not a url"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, "is required", resp.Fields["title"])
		assert.Equal(t, "must be a valid URL", resp.Fields["video_url"])
	})

	t.Run("RatingIsUnbounded", func(t *testing.T) {
		rating := 42.0
		w := doJSON(t, router, http.MethodPost, "/content", CreateContentRequest{Title: "Loud", Rating: &rating})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		got := decode[catalog.Content](t, w)
		require.NotNil(t, got.Rating)
		assert.Equal(t, 42.0, *got.Rating)
	})

	t.Run("Get", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/content/"+created.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Casino Royale", decode[catalog.Content](t, w).Title)

		w = doJSON(t, router, http.MethodGet, "/content/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("SearchQueryTooShort", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/content?q=r", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, map[string]string{"q": "must be at least 2 characters"}, resp.Fields)
	})

	t.Run("InvalidParamsReportedByName", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/content?skip=-1&sort_by="+strings.Repeat("x", 65), nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ErrorResponse](t, w)
		assert.Contains(t, resp.Fields, "skip")
		assert.Contains(t, resp.Fields, "sort_by")

		w = doJSON(t, router, http.MethodGet, "/categories?limit=-5", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode[ErrorResponse](t, w).Fields, "limit")
	})

	t.Run("SearchWithoutWordsIsEmpty", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/content?q=%21%21", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("ListWithFilters", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/content?q=royale&category=action&featured=false", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		items := decode[[]catalog.Content](t, w)
		require.Len(t, items, 1)
		assert.Equal(t, created.ID, items[0].ID)

		w = doJSON(t, router, http.MethodGet, "/content?featured=maybe", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update", func(t *testing.T) {
		title := "Casino Royale (2006)"
		w := doJSON(t, router, http.MethodPut, "/content/"+created.ID.String(), UpdateContentRequest{Title: &title})
		require.Equal(t, http.StatusOK, w.Code)
		updated := decode[catalog.Content](t, w)
		assert.Equal(t, title, updated.Title)
		assert.Len(t, updated.Categories, 1)

		ids := []string{uuid.NewString()}
		w = doJSON(t, router, http.MethodPut, "/content/"+created.ID.String(), UpdateContentRequest{CategoryIDs: &ids})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("BySource", func(t *testing.T) {
		name, id := "tmdb", 36557
		w := doJSON(t, router, http.MethodPost, "/content", CreateContentRequest{Title: "Imported", SourceName: &name, SourceID: &id})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodGet, "/content/source/tmdb/36557", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, "/content/source/tmdb/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, router, http.MethodGet, "/content/source/tmdb/3000000000", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/content/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, router, http.MethodDelete, "/content/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserRoutes(t *testing.T) {
	router, service := setupRouterTest(t)
	content, err := service.CreateContent(context.Background(), catalog.CreateContentRequest{Title: "Heat"})
	require.NoError(t, err)

	userID := uuid.NewString()
	base := "/users/" + userID

	t.Run("WatchlistIsIdempotent", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, base+"/watchlist", WatchlistRequest{ContentID: content.ID.String()})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		first := decode[catalog.WatchlistItem](t, w)
		require.NotNil(t, first.Content)
		assert.Equal(t, "Heat", first.Content.Title)

		w = doJSON(t, router, http.MethodPost, base+"/watchlist", WatchlistRequest{ContentID: content.ID.String()})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, first.ID, decode[catalog.WatchlistItem](t, w).ID)

		w = doJSON(t, router, http.MethodGet, base+"/watchlist", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]catalog.WatchlistItem](t, w), 1)
	})

	t.Run("WatchlistUnknownContent", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, base+"/watchlist", WatchlistRequest{ContentID: uuid.NewString()})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("WatchlistInvalidUser", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/users/nobody/watchlist", WatchlistRequest{ContentID: content.ID.String()})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("WatchProgress", func(t *testing.T) {
		progress := 30
		w := doJSON(t, router, http.MethodPost, base+"/watch-history", WatchProgressRequest{
			ContentID: content.ID.String(), ProgressPercentage: &progress,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		first := decode[catalog.WatchHistoryItem](t, w)

		progress = 75
		w = doJSON(t, router, http.MethodPost, base+"/watch-history", WatchProgressRequest{
			ContentID: content.ID.String(), ProgressPercentage: &progress,
		})
		require.Equal(t, http.StatusOK, w.Code)
		second := decode[catalog.WatchHistoryItem](t, w)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 75, second.ProgressPercentage)
	})

	t.Run("WatchProgressOutOfRange", func(t *testing.T) {
		for _, progress := range []int{-1, 101} {
			p := progress
			w := doJSON(t, router, http.MethodPost, base+"/watch-history", WatchProgressRequest{
				ContentID: content.ID.String(), ProgressPercentage: &p,
			})
			assert.Equal(t, http.StatusBadRequest, w.Code, fmt.Sprintf("progress %d", progress))
		}

		w := doJSON(t, router, http.MethodPost, base+"/watch-history", WatchProgressRequest{ContentID: content.ID.String()})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Remove", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, base+"/watchlist/"+content.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, router, http.MethodDelete, base+"/watchlist/"+content.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(t, router, http.MethodDelete, base+"/watch-history/"+content.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, router, http.MethodGet, base+"/watch-history", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[[]catalog.WatchHistoryItem](t, w))
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{catalog.ErrInvalidID, http.StatusBadRequest},
		{fmt.Errorf("%w: x", catalog.ErrUnresolvedReference), http.StatusBadRequest},
		{catalog.ErrCategoryExists, http.StatusBadRequest},
		{&catalog.ContentError{Op: "get", Err: catalog.ErrContentNotFound}, http.StatusNotFound},
		{catalog.Aborted(context.DeadlineExceeded), http.StatusGatewayTimeout},
		{catalog.Aborted(context.Canceled), http.StatusServiceUnavailable},
		{fmt.Errorf("%w: db down", catalog.ErrStorageUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
