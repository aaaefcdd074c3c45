package memory

import (
	"cmp"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

type pairKey struct {
	userID    uuid.UUID
	contentID uuid.UUID
}

// Repository implements catalog.Repository using in-memory storage.
//
// Unique indexes (category name, watchlist pair, watch history pair) are
// checked under the write lock, so they behave like storage constraints for
// concurrent callers.
type Repository struct {
	mu               sync.RWMutex
	categories       map[uuid.UUID]*catalog.Category
	categoriesByName map[string]uuid.UUID
	contents         map[uuid.UUID]*catalog.Content
	contentOrder     []uuid.UUID // insertion order
	watchlist        map[uuid.UUID]*catalog.WatchlistItem
	watchlistByPair  map[pairKey]uuid.UUID
	history          map[uuid.UUID]*catalog.WatchHistoryItem
	historyByPair    map[pairKey]uuid.UUID
}

var (
	_ catalog.Repository                 = (*Repository)(nil)
	_ catalog.AtomicWatchlistAdder       = (*Repository)(nil)
	_ catalog.AtomicWatchHistoryUpserter = (*Repository)(nil)
)

// New creates a new in-memory repository
func New() catalog.Repository {
	return &Repository{
		categories:       make(map[uuid.UUID]*catalog.Category),
		categoriesByName: make(map[string]uuid.UUID),
		contents:         make(map[uuid.UUID]*catalog.Content),
		watchlist:        make(map[uuid.UUID]*catalog.WatchlistItem),
		watchlistByPair:  make(map[pairKey]uuid.UUID),
		history:          make(map[uuid.UUID]*catalog.WatchHistoryItem),
		historyByPair:    make(map[pairKey]uuid.UUID),
	}
}

// Category operations

func (r *Repository) CreateCategory(ctx context.Context, category *catalog.Category) error {
	if err := catalog.CheckContext(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.categoriesByName[category.Name]; taken {
		return catalog.ErrCategoryExists
	}

	categoryCopy := *category
	r.categories[category.ID] = &categoryCopy
	r.categoriesByName[category.Name] = category.ID
	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, exists := r.categories[id]
	if !exists {
		return nil, catalog.ErrCategoryNotFound
	}
	categoryCopy := *category
	return &categoryCopy, nil
}

func (r *Repository) GetCategoryByName(ctx context.Context, name string) (*catalog.Category, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.categoriesByName[name]
	if !exists {
		return nil, catalog.ErrCategoryNotFound
	}
	categoryCopy := *r.categories[id]
	return &categoryCopy, nil
}

func (r *Repository) GetCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Category, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Category, 0, len(ids))
	for _, id := range ids {
		if category, exists := r.categories[id]; exists {
			categoryCopy := *category
			result = append(result, &categoryCopy)
		}
	}
	return result, nil
}

func (r *Repository) ListCategories(ctx context.Context, page catalog.Page) ([]*catalog.Category, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Category, 0, len(r.categories))
	for _, category := range r.categories {
		categoryCopy := *category
		result = append(result, &categoryCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return paginate(result, page), nil
}

func (r *Repository) UpdateCategory(ctx context.Context, id uuid.UUID, patch catalog.CategoryPatch) (*catalog.Category, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	category, exists := r.categories[id]
	if !exists {
		return nil, catalog.ErrCategoryNotFound
	}
	if name := patch.Changes.Name; name != nil && *name != category.Name {
		if _, taken := r.categoriesByName[*name]; taken {
			return nil, catalog.ErrCategoryExists
		}
		delete(r.categoriesByName, category.Name)
		r.categoriesByName[*name] = id
	}

	patch.Apply(category)
	categoryCopy := *category
	return &categoryCopy, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	category, exists := r.categories[id]
	if !exists {
		return false, nil
	}
	delete(r.categoriesByName, category.Name)
	delete(r.categories, id)
	return true, nil
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *catalog.Content) error {
	if err := catalog.CheckContext(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[content.ID]; exists {
		return catalog.ErrDuplicate
	}

	contentCopy := content.Clone()
	contentCopy.Categories = nil
	r.contents[content.ID] = contentCopy
	r.contentOrder = append(r.contentOrder, content.ID)
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*catalog.Content, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists {
		return nil, catalog.ErrContentNotFound
	}
	return content.Clone(), nil
}

// GetContentBySource returns the first content, in insertion order, carrying
// the source pair.
func (r *Repository) GetContentBySource(ctx context.Context, sourceName string, sourceID int) (*catalog.Content, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.contentOrder {
		c := r.contents[id]
		if c.SourceName != nil && c.SourceID != nil && *c.SourceName == sourceName && *c.SourceID == sourceID {
			return c.Clone(), nil
		}
	}
	return nil, catalog.ErrContentNotFound
}

func (r *Repository) GetContentsByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Content, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[uuid.UUID]bool, len(ids))
	result := make([]*catalog.Content, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if content, exists := r.contents[id]; exists {
			result = append(result, content.Clone())
		}
	}
	return result, nil
}

func (r *Repository) UpdateContent(ctx context.Context, id uuid.UUID, patch catalog.ContentPatch) (*catalog.Content, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	content, exists := r.contents[id]
	if !exists {
		return nil, catalog.ErrContentNotFound
	}
	patch.Apply(content)
	return content.Clone(), nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[id]; !exists {
		return false, nil
	}
	delete(r.contents, id)
	for i, existing := range r.contentOrder {
		if existing == id {
			r.contentOrder = append(r.contentOrder[:i], r.contentOrder[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *Repository) ListContent(ctx context.Context, query catalog.ContentQuery) ([]*catalog.Content, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	if query.MatchesNothing() {
		return []*catalog.Content{}, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		content *catalog.Content
		score   float64
	}

	var matches []scored
	for _, id := range r.contentOrder {
		c := r.contents[id]
		if query.ContentType != nil && c.ContentType != *query.ContentType {
			continue
		}
		if query.Featured != nil && c.Featured != *query.Featured {
			continue
		}
		if query.Trending != nil && c.Trending != *query.Trending {
			continue
		}
		var score float64
		if query.SearchActive() {
			score = catalog.RelevanceScore(query.SearchTerms, c.Title, c.Description)
			if score == 0 {
				continue
			}
		}
		matches = append(matches, scored{content: c, score: score})
	}

	switch {
	case query.Sort.Relevance:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].score > matches[j].score
		})
	case query.Sort.Field != "":
		sort.SliceStable(matches, func(i, j int) bool {
			c := compareField(matches[i].content, matches[j].content, query.Sort.Field)
			if query.Sort.Descending {
				return c > 0
			}
			return c < 0
		})
	}

	page := paginate(matches, query.Page)
	result := make([]*catalog.Content, len(page))
	for i, m := range page {
		result[i] = m.content.Clone()
	}
	return result, nil
}

// compareField orders two contents by a sortable field. Absent values sort
// first in ascending order.
func compareField(a, b *catalog.Content, field string) int {
	switch field {
	case catalog.SortFieldTitle:
		return strings.Compare(a.Title, b.Title)
	case catalog.SortFieldRating:
		return compareOptional(a.Rating, b.Rating)
	case catalog.SortFieldReleaseDate:
		return strings.Compare(a.ReleaseDate, b.ReleaseDate)
	case catalog.SortFieldDuration:
		return strings.Compare(a.Duration, b.Duration)
	case catalog.SortFieldContentType:
		return strings.Compare(a.ContentType, b.ContentType)
	case catalog.SortFieldFeatured:
		return compareBool(a.Featured, b.Featured)
	case catalog.SortFieldTrending:
		return compareBool(a.Trending, b.Trending)
	case catalog.SortFieldDirector:
		return strings.Compare(a.Director, b.Director)
	case catalog.SortFieldLanguage:
		return strings.Compare(a.Language, b.Language)
	case catalog.SortFieldCountry:
		return strings.Compare(a.Country, b.Country)
	case catalog.SortFieldSourceName:
		return compareOptional(a.SourceName, b.SourceName)
	case catalog.SortFieldSourceID:
		return compareOptional(a.SourceID, b.SourceID)
	case catalog.SortFieldTimeCreated:
		return a.TimeCreated.Compare(b.TimeCreated)
	case catalog.SortFieldTimeUpdated:
		return a.TimeUpdated.Compare(b.TimeUpdated)
	default:
		return 0
	}
}

func compareOptional[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Watchlist operations

func (r *Repository) CreateWatchlistItem(ctx context.Context, item *catalog.WatchlistItem) error {
	if err := catalog.CheckContext(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{item.UserID, item.ContentID}
	if _, exists := r.watchlistByPair[key]; exists {
		return catalog.ErrDuplicate
	}
	r.insertWatchlistItem(item)
	return nil
}

// AddWatchlistItem inserts item unless its pair is present, in one locked step.
func (r *Repository) AddWatchlistItem(ctx context.Context, item *catalog.WatchlistItem) (*catalog.WatchlistItem, bool, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{item.UserID, item.ContentID}
	if id, exists := r.watchlistByPair[key]; exists {
		existing := *r.watchlist[id]
		return &existing, false, nil
	}
	r.insertWatchlistItem(item)
	stored := *item
	stored.Content = nil
	return &stored, true, nil
}

func (r *Repository) insertWatchlistItem(item *catalog.WatchlistItem) {
	itemCopy := *item
	itemCopy.Content = nil
	r.watchlist[item.ID] = &itemCopy
	r.watchlistByPair[pairKey{item.UserID, item.ContentID}] = item.ID
}

func (r *Repository) GetWatchlistItem(ctx context.Context, userID, contentID uuid.UUID) (*catalog.WatchlistItem, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.watchlistByPair[pairKey{userID, contentID}]
	if !exists {
		return nil, catalog.ErrWatchlistItemNotFound
	}
	itemCopy := *r.watchlist[id]
	return &itemCopy, nil
}

func (r *Repository) DeleteWatchlistItem(ctx context.Context, userID, contentID uuid.UUID) (bool, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{userID, contentID}
	id, exists := r.watchlistByPair[key]
	if !exists {
		return false, nil
	}
	delete(r.watchlistByPair, key)
	delete(r.watchlist, id)
	return true, nil
}

func (r *Repository) ListWatchlistItems(ctx context.Context, userID uuid.UUID, page catalog.Page) ([]*catalog.WatchlistItem, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*catalog.WatchlistItem
	for _, item := range r.watchlist {
		if item.UserID != userID {
			continue
		}
		if _, exists := r.contents[item.ContentID]; !exists {
			continue
		}
		itemCopy := *item
		result = append(result, &itemCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].AddedAt, result[j].AddedAt, result[i].ID, result[j].ID)
	})
	return paginate(result, page), nil
}

// Watch history operations

func (r *Repository) CreateWatchHistoryItem(ctx context.Context, item *catalog.WatchHistoryItem) error {
	if err := catalog.CheckContext(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.historyByPair[pairKey{item.UserID, item.ContentID}]; exists {
		return catalog.ErrDuplicate
	}
	r.insertHistoryItem(item)
	return nil
}

// UpsertWatchHistoryItem inserts item or, when its pair exists, overwrites the
// stored progress and LastWatchedAt, in one locked step.
func (r *Repository) UpsertWatchHistoryItem(ctx context.Context, item *catalog.WatchHistoryItem) (*catalog.WatchHistoryItem, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, exists := r.historyByPair[pairKey{item.UserID, item.ContentID}]; exists {
		stored := r.history[id]
		stored.ProgressPercentage = item.ProgressPercentage
		stored.LastWatchedAt = item.LastWatchedAt
		storedCopy := *stored
		return &storedCopy, nil
	}
	r.insertHistoryItem(item)
	storedCopy := *r.history[item.ID]
	return &storedCopy, nil
}

func (r *Repository) insertHistoryItem(item *catalog.WatchHistoryItem) {
	itemCopy := *item
	itemCopy.Content = nil
	r.history[item.ID] = &itemCopy
	r.historyByPair[pairKey{item.UserID, item.ContentID}] = item.ID
}

func (r *Repository) GetWatchHistoryItem(ctx context.Context, userID, contentID uuid.UUID) (*catalog.WatchHistoryItem, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.historyByPair[pairKey{userID, contentID}]
	if !exists {
		return nil, catalog.ErrWatchHistoryItemNotFound
	}
	itemCopy := *r.history[id]
	return &itemCopy, nil
}

func (r *Repository) UpdateWatchHistoryProgress(ctx context.Context, id uuid.UUID, progress int, watchedAt time.Time) (*catalog.WatchHistoryItem, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.history[id]
	if !exists {
		return nil, catalog.ErrWatchHistoryItemNotFound
	}
	item.ProgressPercentage = progress
	item.LastWatchedAt = watchedAt
	itemCopy := *item
	return &itemCopy, nil
}

func (r *Repository) DeleteWatchHistoryItem(ctx context.Context, userID, contentID uuid.UUID) (bool, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{userID, contentID}
	id, exists := r.historyByPair[key]
	if !exists {
		return false, nil
	}
	delete(r.historyByPair, key)
	delete(r.history, id)
	return true, nil
}

func (r *Repository) ListWatchHistoryItems(ctx context.Context, userID uuid.UUID, page catalog.Page) ([]*catalog.WatchHistoryItem, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*catalog.WatchHistoryItem
	for _, item := range r.history {
		if item.UserID != userID {
			continue
		}
		if _, exists := r.contents[item.ContentID]; !exists {
			continue
		}
		itemCopy := *item
		result = append(result, &itemCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].LastWatchedAt, result[j].LastWatchedAt, result[i].ID, result[j].ID)
	})
	return paginate(result, page), nil
}

// newerFirst orders by time descending, then by id for a stable order.
func newerFirst(a, b time.Time, idA, idB uuid.UUID) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA.String() < idB.String()
}

func paginate[T any](items []T, page catalog.Page) []T {
	if page.Skip > 0 {
		if page.Skip >= len(items) {
			return []T{}
		}
		items = items[page.Skip:]
	}
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	if items == nil {
		return []T{}
	}
	return items
}
