package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Known content types. The set is open: any upper-cased value is accepted.
const (
	ContentTypeMovie  = "MOVIE"
	ContentTypeTVShow = "TV_SHOW"
)

// DefaultContentType is applied when a create request leaves ContentType empty.
const DefaultContentType = ContentTypeMovie

// Category groups content, e.g. "Action" or "Comedy". Names are unique.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Color       string     `json:"color,omitempty"`
	TimeCreated time.Time  `json:"time_created"`
	TimeUpdated *time.Time `json:"time_updated,omitempty"`
}

// Content is a catalog media item.
//
// CategoryIDs is the persisted, ordered link list. Categories holds the
// resolved entities and is only populated on resolved reads; links to
// categories that no longer exist are left out of it.
type Content struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	ReleaseDate   string    `json:"release_date,omitempty"`
	Duration      string    `json:"duration,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty"`
	VideoURL      string    `json:"video_url,omitempty"`
	TrailerURL    string    `json:"trailer_url,omitempty"`
	Starring      []string  `json:"starring"`
	Director      string    `json:"director,omitempty"`
	Language      string    `json:"language,omitempty"`
	Country       string    `json:"country,omitempty"`
	Tags          []string  `json:"tags"`
	ContentType   string    `json:"content_type"`
	Featured      bool      `json:"featured"`
	Trending      bool      `json:"trending"`

	// External correlation used for idempotent imports.
	SourceName *string `json:"source_name,omitempty"`
	SourceID   *int    `json:"source_id,omitempty"`

	CategoryIDs []uuid.UUID `json:"-"`
	Categories  []*Category `json:"categories"`

	TimeCreated time.Time `json:"time_created"`
	TimeUpdated time.Time `json:"time_updated"`
}

// Clone returns a deep copy of c. Repositories hand out clones so callers
// cannot mutate stored state.
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Rating != nil {
		r := *c.Rating
		cp.Rating = &r
	}
	if c.SourceName != nil {
		s := *c.SourceName
		cp.SourceName = &s
	}
	if c.SourceID != nil {
		i := *c.SourceID
		cp.SourceID = &i
	}
	cp.Starring = cloneSlice(c.Starring)
	cp.Tags = cloneSlice(c.Tags)
	cp.CategoryIDs = cloneSlice(c.CategoryIDs)
	if c.Categories != nil {
		cp.Categories = make([]*Category, len(c.Categories))
		for i, cat := range c.Categories {
			catCopy := *cat
			cp.Categories[i] = &catCopy
		}
	}
	return &cp
}

// cloneSlice copies s, keeping nil and empty apart.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// Resolved reports whether the category links have been resolved.
func (c *Content) Resolved() bool {
	return c.Categories != nil
}

// WatchlistItem marks that a user wants to watch a content item.
type WatchlistItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ContentID uuid.UUID `json:"content_id"`
	AddedAt   time.Time `json:"added_at"`

	// Content is set on resolved reads.
	Content *Content `json:"content,omitempty"`
}

// WatchHistoryItem tracks how far a user got through a content item.
type WatchHistoryItem struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	ContentID          uuid.UUID `json:"content_id"`
	ProgressPercentage int       `json:"progress_percentage"`
	WatchedAt          time.Time `json:"watched_at"`
	LastWatchedAt      time.Time `json:"last_watched_at"`

	// Content is set on resolved reads.
	Content *Content `json:"content,omitempty"`
}

// Page holds skip/limit pagination applied by the repository.
type Page struct {
	Skip  int
	Limit int
}

// Statistics aggregates the whole catalog. Relationship counts leave out rows
// whose content no longer exists.
type Statistics struct {
	Categories        int64            `json:"categories"`
	Content           int64            `json:"content"`
	ByContentType     map[string]int64 `json:"by_content_type"`
	Featured          int64            `json:"featured"`
	Trending          int64            `json:"trending"`
	WatchlistItems    int64            `json:"watchlist_items"`
	WatchHistoryItems int64            `json:"watch_history_items"`
	ActiveUsers       int64            `json:"active_users"`
	OldestContent     *time.Time       `json:"oldest_content,omitempty"`
	NewestContent     *time.Time       `json:"newest_content,omitempty"`
}
