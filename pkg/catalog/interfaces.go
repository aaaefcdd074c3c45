package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for catalog persistence.
//
// Reads return unresolved records: Content.Categories and the Content field
// of relationship items are left nil. Uniqueness (category name, and the
// (user, content) pair of both relationship kinds) must be enforced by the
// implementation and reported as an error matching ErrDuplicate.
type Repository interface {
	// Category operations
	CreateCategory(ctx context.Context, category *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	GetCategoryByName(ctx context.Context, name string) (*Category, error)
	// GetCategoriesByIDs returns the categories that exist among ids, in no particular order
	GetCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]*Category, error)
	ListCategories(ctx context.Context, page Page) ([]*Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, patch CategoryPatch) (*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error)

	// Content operations
	CreateContent(ctx context.Context, content *Content) error
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	GetContentBySource(ctx context.Context, sourceName string, sourceID int) (*Content, error)
	// GetContentsByIDs returns the content that exists among ids, in no particular order
	GetContentsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Content, error)
	UpdateContent(ctx context.Context, id uuid.UUID, patch ContentPatch) (*Content, error)
	DeleteContent(ctx context.Context, id uuid.UUID) (bool, error)
	ListContent(ctx context.Context, query ContentQuery) ([]*Content, error)

	// Watchlist operations
	CreateWatchlistItem(ctx context.Context, item *WatchlistItem) error
	GetWatchlistItem(ctx context.Context, userID, contentID uuid.UUID) (*WatchlistItem, error)
	DeleteWatchlistItem(ctx context.Context, userID, contentID uuid.UUID) (bool, error)
	// ListWatchlistItems skips items whose content no longer exists, newest first
	ListWatchlistItems(ctx context.Context, userID uuid.UUID, page Page) ([]*WatchlistItem, error)

	// Watch history operations
	CreateWatchHistoryItem(ctx context.Context, item *WatchHistoryItem) error
	GetWatchHistoryItem(ctx context.Context, userID, contentID uuid.UUID) (*WatchHistoryItem, error)
	UpdateWatchHistoryProgress(ctx context.Context, id uuid.UUID, progress int, watchedAt time.Time) (*WatchHistoryItem, error)
	DeleteWatchHistoryItem(ctx context.Context, userID, contentID uuid.UUID) (bool, error)
	// ListWatchHistoryItems skips items whose content no longer exists, most recently watched first
	ListWatchHistoryItems(ctx context.Context, userID uuid.UUID, page Page) ([]*WatchHistoryItem, error)
}

// AtomicWatchlistAdder is implemented by repositories that can insert a
// watchlist item only if its (user, content) pair is absent in one atomic
// step. It returns the stored item and whether it was created by this call.
type AtomicWatchlistAdder interface {
	AddWatchlistItem(ctx context.Context, item *WatchlistItem) (*WatchlistItem, bool, error)
}

// AtomicWatchHistoryUpserter is implemented by repositories that can upsert a
// watch history item by its (user, content) pair in one atomic step. On
// conflict only ProgressPercentage and LastWatchedAt are overwritten.
type AtomicWatchHistoryUpserter interface {
	UpsertWatchHistoryItem(ctx context.Context, item *WatchHistoryItem) (*WatchHistoryItem, error)
}

// StatisticsReader is implemented by repositories that can aggregate the
// catalog in place.
type StatisticsReader interface {
	CatalogStatistics(ctx context.Context) (*Statistics, error)
}

// UserLookup checks users, which live outside the catalog
type UserLookup interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// EventSink defines the interface for event handling
type EventSink interface {
	// CategoryCreated is fired when a category is created
	CategoryCreated(ctx context.Context, category *Category) error

	// CategoryDeleted is fired when a category is deleted
	CategoryDeleted(ctx context.Context, categoryID uuid.UUID) error

	// ContentCreated is fired when content is created
	ContentCreated(ctx context.Context, content *Content) error

	// ContentUpdated is fired when content is updated
	ContentUpdated(ctx context.Context, content *Content) error

	// ContentDeleted is fired when content is deleted
	ContentDeleted(ctx context.Context, contentID uuid.UUID) error

	// WatchlistItemAdded is fired when a pair is added for the first time
	WatchlistItemAdded(ctx context.Context, item *WatchlistItem) error

	// WatchlistItemRemoved is fired when a pair is removed
	WatchlistItemRemoved(ctx context.Context, userID, contentID uuid.UUID) error

	// WatchProgressRecorded is fired on every watch history upsert
	WatchProgressRecorded(ctx context.Context, item *WatchHistoryItem) error
}

// CategoryPatch is a partial category update applied atomically by the repository
type CategoryPatch struct {
	Changes     UpdateCategoryRequest
	TimeUpdated time.Time
}

// Apply writes the patch onto c.
func (p CategoryPatch) Apply(c *Category) {
	ch := p.Changes
	if ch.Name != nil {
		c.Name = *ch.Name
	}
	if ch.Description != nil {
		c.Description = *ch.Description
	}
	if ch.Icon != nil {
		c.Icon = *ch.Icon
	}
	if ch.Color != nil {
		c.Color = *ch.Color
	}
	t := p.TimeUpdated
	c.TimeUpdated = &t
}

// ContentPatch is a partial content update applied atomically by the
// repository. Changes.CategoryIDs is ignored; CategoryIDs carries the
// already resolved replacement set.
type ContentPatch struct {
	Changes     UpdateContentRequest
	CategoryIDs *[]uuid.UUID
	TimeUpdated time.Time
}

// Apply writes the patch onto c. TimeUpdated is always written.
func (p ContentPatch) Apply(c *Content) {
	ch := p.Changes
	setString(&c.Title, ch.Title)
	setString(&c.Description, ch.Description)
	setString(&c.ReleaseDate, ch.ReleaseDate)
	setString(&c.Duration, ch.Duration)
	if ch.Rating != nil {
		r := *ch.Rating
		c.Rating = &r
	}
	setString(&c.CoverImageURL, ch.CoverImageURL)
	setString(&c.ThumbnailURL, ch.ThumbnailURL)
	setString(&c.VideoURL, ch.VideoURL)
	setString(&c.TrailerURL, ch.TrailerURL)
	if ch.Starring != nil {
		c.Starring = append([]string{}, (*ch.Starring)...)
	}
	setString(&c.Director, ch.Director)
	setString(&c.Language, ch.Language)
	setString(&c.Country, ch.Country)
	if ch.Tags != nil {
		c.Tags = append([]string{}, (*ch.Tags)...)
	}
	setString(&c.ContentType, ch.ContentType)
	if ch.Featured != nil {
		c.Featured = *ch.Featured
	}
	if ch.Trending != nil {
		c.Trending = *ch.Trending
	}
	if ch.SourceName != nil {
		s := *ch.SourceName
		c.SourceName = &s
	}
	if ch.SourceID != nil {
		i := *ch.SourceID
		c.SourceID = &i
	}
	if p.CategoryIDs != nil {
		c.CategoryIDs = append([]uuid.UUID{}, (*p.CategoryIDs)...)
	}
	c.TimeUpdated = p.TimeUpdated
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
