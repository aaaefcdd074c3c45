package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default pagination limits
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// service implements the Service interface
type service struct {
	repository      Repository
	resolver        *LinkResolver
	resolveMode     ResolveMode
	eventSink       EventSink
	users           UserLookup
	logger          *slog.Logger
	clock           func() time.Time
	defaultPageSize int
	maxPageSize     int
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithUserLookup makes relationship writes verify that the user exists
func WithUserLookup(users UserLookup) Option {
	return func(s *service) {
		s.users = users
	}
}

// WithResolveMode sets how category ids are resolved on create and update
func WithResolveMode(mode ResolveMode) Option {
	return func(s *service) {
		s.resolveMode = mode
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithClock overrides the time source
func WithClock(clock func() time.Time) Option {
	return func(s *service) {
		s.clock = clock
	}
}

// WithPageSizes sets the limit used when a listing passes none and the upper bound
func WithPageSizes(defaultSize, maxSize int) Option {
	return func(s *service) {
		s.defaultPageSize = defaultSize
		s.maxPageSize = maxSize
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		clock:           time.Now,
		defaultPageSize: DefaultPageSize,
		maxPageSize:     MaxPageSize,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.defaultPageSize <= 0 || s.maxPageSize < s.defaultPageSize {
		return nil, fmt.Errorf("invalid page sizes: default %d, max %d", s.defaultPageSize, s.maxPageSize)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}
	s.resolver = NewLinkResolver(s.repository, s.resolveMode)

	return s, nil
}

// now truncates to microseconds, the precision Postgres keeps.
func (s *service) now() time.Time {
	return s.clock().UTC().Truncate(time.Microsecond)
}

func (s *service) page(skip, limit int) Page {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	return Page{Skip: skip, Limit: limit}
}

func (s *service) emit(event string, err error) {
	if err != nil {
		s.logger.Warn("Event sink failed", "event", event, "error", err)
	}
}

// Category operations

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidRequest)
	}

	category := &Category{
		ID:          uuid.New(),
		Name:        name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		TimeCreated: s.now(),
	}

	if err := s.repository.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, ErrDuplicate) {
			err = ErrCategoryExists
		}
		return nil, &CategoryError{CategoryID: category.ID, Op: "create", Err: err}
	}

	s.emit("category_created", s.eventSink.CategoryCreated(ctx, category))
	return category, nil
}

func (s *service) GetCategory(ctx context.Context, id string) (*Category, error) {
	categoryID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.repository.GetCategory(ctx, categoryID)
}

func (s *service) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	return s.repository.GetCategoryByName(ctx, strings.TrimSpace(name))
}

func (s *service) ListCategories(ctx context.Context, skip, limit int) ([]*Category, error) {
	return s.repository.ListCategories(ctx, s.page(skip, limit))
}

func (s *service) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*Category, error) {
	categoryID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category name cannot be empty", ErrInvalidRequest)
		}
		req.Name = &name
	}

	category, err := s.repository.UpdateCategory(ctx, categoryID, CategoryPatch{Changes: req, TimeUpdated: s.now()})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			err = ErrCategoryExists
		}
		return nil, &CategoryError{CategoryID: categoryID, Op: "update", Err: err}
	}
	return category, nil
}

// DeleteCategory removes a category. Content linking to it keeps the now
// dangling id, which resolved reads omit.
func (s *service) DeleteCategory(ctx context.Context, id string) (bool, error) {
	categoryID, err := ParseID(id)
	if err != nil {
		return false, err
	}
	deleted, err := s.repository.DeleteCategory(ctx, categoryID)
	if err != nil {
		return false, &CategoryError{CategoryID: categoryID, Op: "delete", Err: err}
	}
	if deleted {
		s.emit("category_deleted", s.eventSink.CategoryDeleted(ctx, categoryID))
	}
	return deleted, nil
}

// Content operations

func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}

	categories, err := s.resolver.Resolve(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	contentType := NormalizeContentType(req.ContentType)
	if contentType == "" {
		contentType = DefaultContentType
	}

	now := s.now()
	content := &Content{
		ID:            uuid.New(),
		Title:         req.Title,
		Description:   req.Description,
		ReleaseDate:   req.ReleaseDate,
		Duration:      req.Duration,
		Rating:        req.Rating,
		CoverImageURL: req.CoverImageURL,
		ThumbnailURL:  req.ThumbnailURL,
		VideoURL:      req.VideoURL,
		TrailerURL:    req.TrailerURL,
		Starring:      nonNil(req.Starring),
		Director:      req.Director,
		Language:      req.Language,
		Country:       req.Country,
		Tags:          nonNil(req.Tags),
		ContentType:   contentType,
		Featured:      req.Featured,
		Trending:      req.Trending,
		SourceName:    req.SourceName,
		SourceID:      req.SourceID,
		CategoryIDs:   CategoryIDs(categories),
		TimeCreated:   now,
		TimeUpdated:   now,
	}

	if err := s.repository.CreateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "create", Err: err}
	}
	content.Categories = categories

	s.emit("content_created", s.eventSink.ContentCreated(ctx, content))
	return content, nil
}

func (s *service) GetContent(ctx context.Context, id string, opts ...ReadOption) (*Content, error) {
	contentID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	content, err := s.repository.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	return s.finishRead(ctx, content, opts)
}

func (s *service) GetContentBySource(ctx context.Context, sourceName string, sourceID int, opts ...ReadOption) (*Content, error) {
	content, err := s.repository.GetContentBySource(ctx, sourceName, sourceID)
	if err != nil {
		return nil, err
	}
	return s.finishRead(ctx, content, opts)
}

func (s *service) finishRead(ctx context.Context, content *Content, opts []ReadOption) (*Content, error) {
	if applyReadOptions(opts).unresolved {
		return content, nil
	}
	if err := s.resolver.ResolveContents(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

// UpdateContent applies a partial update. TimeUpdated moves forward even
// when the request carries no field at all.
func (s *service) UpdateContent(ctx context.Context, id string, req UpdateContentRequest) (*Content, error) {
	contentID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	patch := ContentPatch{Changes: req, TimeUpdated: s.now()}
	if req.ContentType != nil {
		ct := NormalizeContentType(*req.ContentType)
		patch.Changes.ContentType = &ct
	}

	var categories []*Category
	if req.CategoryIDs != nil {
		categories, err = s.resolver.Resolve(ctx, *req.CategoryIDs)
		if err != nil {
			return nil, err
		}
		ids := CategoryIDs(categories)
		patch.CategoryIDs = &ids
	}

	content, err := s.repository.UpdateContent(ctx, contentID, patch)
	if err != nil {
		return nil, &ContentError{ContentID: contentID, Op: "update", Err: err}
	}

	if categories != nil {
		content.Categories = categories
	} else if err := s.resolver.ResolveContents(ctx, content); err != nil {
		return nil, err
	}

	s.emit("content_updated", s.eventSink.ContentUpdated(ctx, content))
	return content, nil
}

// DeleteContent hard-deletes content. Watchlist and watch history rows that
// reference it are left in place and are no longer listed.
func (s *service) DeleteContent(ctx context.Context, id string) (bool, error) {
	contentID, err := ParseID(id)
	if err != nil {
		return false, err
	}
	deleted, err := s.repository.DeleteContent(ctx, contentID)
	if err != nil {
		return false, &ContentError{ContentID: contentID, Op: "delete", Err: err}
	}
	if deleted {
		s.emit("content_deleted", s.eventSink.ContentDeleted(ctx, contentID))
	}
	return deleted, nil
}

// ListContent runs the content query engine. Filtering by category name
// happens after the page is fetched and may return fewer than Limit items.
func (s *service) ListContent(ctx context.Context, req ListContentRequest, opts ...ReadOption) ([]*Content, error) {
	page := s.page(req.Skip, req.Limit)
	req.Skip, req.Limit = page.Skip, page.Limit

	query := BuildContentQuery(req)
	if query.MatchesNothing() {
		s.logger.Debug("Search query has no searchable terms", "q", req.SearchQuery)
		return []*Content{}, nil
	}
	items, err := s.repository.ListContent(ctx, query)
	if err != nil {
		return nil, err
	}

	o := applyReadOptions(opts)
	categoryName := strings.TrimSpace(req.CategoryName)
	if o.unresolved && categoryName == "" {
		return items, nil
	}

	if err := s.resolver.ResolveContents(ctx, items...); err != nil {
		return nil, err
	}
	if categoryName != "" {
		items = FilterByCategoryName(items, categoryName)
	}
	if o.unresolved {
		for _, item := range items {
			item.Categories = nil
		}
	}

	s.logger.Debug("Listed content",
		"skip", query.Page.Skip, "limit", query.Page.Limit,
		"search", query.SearchActive(), "category", categoryName, "count", len(items))
	return items, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}
