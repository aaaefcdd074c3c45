package catalog

// Request/Response DTOs

// CreateCategoryRequest contains parameters for creating a category
type CreateCategoryRequest struct {
	Name        string
	Description string
	Icon        string
	Color       string
}

// UpdateCategoryRequest is a partial category update; nil fields are left untouched
type UpdateCategoryRequest struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
}

// CreateContentRequest contains parameters for creating content.
//
// CategoryIDs are opaque strings; ids that do not parse or do not point to an
// existing category are dropped in the default resolve mode.
type CreateContentRequest struct {
	Title         string
	Description   string
	ReleaseDate   string
	Duration      string
	Rating        *float64
	CoverImageURL string
	ThumbnailURL  string
	VideoURL      string
	TrailerURL    string
	Starring      []string
	Director      string
	Language      string
	Country       string
	Tags          []string
	ContentType   string
	Featured      bool
	Trending      bool
	SourceName    *string
	SourceID      *int
	CategoryIDs   []string
}

// UpdateContentRequest is a partial content update. Only non-nil fields are
// applied. A non-nil CategoryIDs, even an empty one, replaces the whole
// category set.
type UpdateContentRequest struct {
	Title         *string
	Description   *string
	ReleaseDate   *string
	Duration      *string
	Rating        *float64
	CoverImageURL *string
	ThumbnailURL  *string
	VideoURL      *string
	TrailerURL    *string
	Starring      *[]string
	Director      *string
	Language      *string
	Country       *string
	Tags          *[]string
	ContentType   *string
	Featured      *bool
	Trending      *bool
	SourceName    *string
	SourceID      *int
	CategoryIDs   *[]string
}

// ListContentRequest contains the listing parameters of the content query engine
type ListContentRequest struct {
	Skip  int
	Limit int

	ContentType  string // case-insensitive
	Featured     *bool
	Trending     *bool
	CategoryName string // case-insensitive post-filter on the fetched page
	SearchQuery  string // at least MinSearchQueryLength non-blank characters
	SortBy       string // "field", "-field" or SortByRelevance
}
