package catalog

import "context"

// Service defines the main interface of the catalog.
//
// Identifiers are opaque strings at this boundary; a malformed one yields an
// error matching ErrInvalidID, an unknown one an error matching ErrNotFound.
type Service interface {
	// Category operations
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	GetCategoryByName(ctx context.Context, name string) (*Category, error)
	ListCategories(ctx context.Context, skip, limit int) ([]*Category, error)
	UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)

	// Content operations
	CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error)
	GetContent(ctx context.Context, id string, opts ...ReadOption) (*Content, error)
	GetContentBySource(ctx context.Context, sourceName string, sourceID int, opts ...ReadOption) (*Content, error)
	UpdateContent(ctx context.Context, id string, req UpdateContentRequest) (*Content, error)
	DeleteContent(ctx context.Context, id string) (bool, error)
	ListContent(ctx context.Context, req ListContentRequest, opts ...ReadOption) ([]*Content, error)

	// Watchlist operations
	AddToWatchlist(ctx context.Context, userID, contentID string) (*WatchlistItem, error)
	RemoveFromWatchlist(ctx context.Context, userID, contentID string) (bool, error)
	ListWatchlist(ctx context.Context, userID string, skip, limit int) ([]*WatchlistItem, error)

	// Watch history operations
	RecordWatchProgress(ctx context.Context, userID, contentID string, progress int) (*WatchHistoryItem, error)
	RemoveFromWatchHistory(ctx context.Context, userID, contentID string) (bool, error)
	ListWatchHistory(ctx context.Context, userID string, skip, limit int) ([]*WatchHistoryItem, error)
}

// ReadOption adjusts a content read
type ReadOption func(*readOptions)

type readOptions struct {
	unresolved bool
}

// Unresolved returns records with bare category ids; Content.Categories stays nil.
func Unresolved() ReadOption {
	return func(o *readOptions) {
		o.unresolved = true
	}
}

func applyReadOptions(opts []ReadOption) readOptions {
	var o readOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
