package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements catalog.Repository using PostgreSQL. Table names are
// unqualified; the schema is selected through the connection search_path
// (see ParsePoolConfig).
type Repository struct {
	db DBTX
}

var (
	_ catalog.Repository                 = (*Repository)(nil)
	_ catalog.AtomicWatchlistAdder       = (*Repository)(nil)
	_ catalog.AtomicWatchHistoryUpserter = (*Repository)(nil)
)

// New creates a new PostgreSQL repository
func New(db DBTX) catalog.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) catalog.Repository {
	return &Repository{db: pool}
}

// handlePostgresError maps driver errors onto the catalog error set.
func handlePostgresError(operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", operation, catalog.Aborted(err))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.HasPrefix(pgErr.ConstraintName, "categories_name") {
				return fmt.Errorf("%s: %w", operation, catalog.ErrCategoryExists)
			}
			return fmt.Errorf("%s: %w", operation, catalog.ErrDuplicate)
		case "22P02": // invalid_text_representation
			return fmt.Errorf("%s: %w", operation, catalog.ErrInvalidID)
		case "42P01": // undefined_table
			return fmt.Errorf("%w: table does not exist - run migrate: %s", catalog.ErrStorageUnavailable, pgErr.Message)
		default:
			return fmt.Errorf("%w: database error in %s: %s (code: %s)", catalog.ErrStorageUnavailable, operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("%w: database error in %s: %w", catalog.ErrStorageUnavailable, operation, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Category operations

const categoryColumns = `id, name, description, icon, color, time_created, time_updated`

func scanCategory(row rowScanner) (*catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.TimeCreated, &c.TimeUpdated)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *catalog.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		category.ID, category.Name, category.Description, category.Icon, category.Color,
		category.TimeCreated, category.TimeUpdated)
	if err != nil {
		return handlePostgresError("create category", err)
	}
	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	category, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, handlePostgresError("get category", err)
	}
	return category, nil
}

func (r *Repository) GetCategoryByName(ctx context.Context, name string) (*catalog.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = $1`
	category, err := scanCategory(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, handlePostgresError("get category by name", err)
	}
	return category, nil
}

func (r *Repository) GetCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Category, error) {
	if len(ids) == 0 {
		return []*catalog.Category{}, nil
	}
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ANY($1)`
	return r.queryCategories(ctx, "get categories", query, ids)
}

func (r *Repository) ListCategories(ctx context.Context, page catalog.Page) ([]*catalog.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name, id`
	args := []interface{}{}
	query, args = appendPage(query, args, page)
	return r.queryCategories(ctx, "list categories", query, args...)
}

func (r *Repository) queryCategories(ctx context.Context, operation, query string, args ...interface{}) ([]*catalog.Category, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError(operation, err)
	}
	defer rows.Close()

	result := []*catalog.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, handlePostgresError(operation, err)
		}
		result = append(result, category)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError(operation, err)
	}
	return result, nil
}

// UpdateCategory applies the patch in a single UPDATE ... RETURNING.
func (r *Repository) UpdateCategory(ctx context.Context, id uuid.UUID, patch catalog.CategoryPatch) (*catalog.Category, error) {
	set := newSetBuilder(id)
	ch := patch.Changes
	set.addIf("name", ch.Name)
	set.addIf("description", ch.Description)
	set.addIf("icon", ch.Icon)
	set.addIf("color", ch.Color)
	set.add("time_updated", patch.TimeUpdated)

	query := `UPDATE categories SET ` + set.clause() + ` WHERE id = $1 RETURNING ` + categoryColumns
	category, err := scanCategory(r.db.QueryRow(ctx, query, set.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, handlePostgresError("update category", err)
	}
	return category, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, handlePostgresError("delete category", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Content operations

const contentColumns = `id, title, description, release_date, duration, rating,
	cover_image_url, thumbnail_url, video_url, trailer_url, starring, director,
	language, country, tags, content_type, featured, trending, source_name,
	source_id, category_ids, time_created, time_updated`

func scanContent(row rowScanner, extra ...any) (*catalog.Content, error) {
	var c catalog.Content
	dest := []any{
		&c.ID, &c.Title, &c.Description, &c.ReleaseDate, &c.Duration, &c.Rating,
		&c.CoverImageURL, &c.ThumbnailURL, &c.VideoURL, &c.TrailerURL, &c.Starring, &c.Director,
		&c.Language, &c.Country, &c.Tags, &c.ContentType, &c.Featured, &c.Trending, &c.SourceName,
		&c.SourceID, &c.CategoryIDs, &c.TimeCreated, &c.TimeUpdated,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) CreateContent(ctx context.Context, content *catalog.Content) error {
	query := `
		INSERT INTO content (` + contentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	_, err := r.db.Exec(ctx, query,
		content.ID, content.Title, content.Description, content.ReleaseDate, content.Duration, content.Rating,
		content.CoverImageURL, content.ThumbnailURL, content.VideoURL, content.TrailerURL,
		textArray(content.Starring), content.Director,
		content.Language, content.Country, textArray(content.Tags), content.ContentType,
		content.Featured, content.Trending, content.SourceName,
		content.SourceID, uuidArray(content.CategoryIDs), content.TimeCreated, content.TimeUpdated)
	if err != nil {
		return handlePostgresError("create content", err)
	}
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*catalog.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content WHERE id = $1`
	content, err := scanContent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrContentNotFound
		}
		return nil, handlePostgresError("get content", err)
	}
	return content, nil
}

func (r *Repository) GetContentBySource(ctx context.Context, sourceName string, sourceID int) (*catalog.Content, error) {
	query := `
		SELECT ` + contentColumns + ` FROM content
		WHERE source_name = $1 AND source_id = $2
		ORDER BY seq LIMIT 1`
	content, err := scanContent(r.db.QueryRow(ctx, query, sourceName, sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrContentNotFound
		}
		return nil, handlePostgresError("get content by source", err)
	}
	return content, nil
}

func (r *Repository) GetContentsByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Content, error) {
	if len(ids) == 0 {
		return []*catalog.Content{}, nil
	}
	query := `SELECT ` + contentColumns + ` FROM content WHERE id = ANY($1) ORDER BY seq`
	return r.queryContents(ctx, "get contents", query, false, ids)
}

// UpdateContent applies the patch in a single UPDATE ... RETURNING.
func (r *Repository) UpdateContent(ctx context.Context, id uuid.UUID, patch catalog.ContentPatch) (*catalog.Content, error) {
	set := newSetBuilder(id)
	ch := patch.Changes
	set.addIf("title", ch.Title)
	set.addIf("description", ch.Description)
	set.addIf("release_date", ch.ReleaseDate)
	set.addIf("duration", ch.Duration)
	if ch.Rating != nil {
		set.add("rating", *ch.Rating)
	}
	set.addIf("cover_image_url", ch.CoverImageURL)
	set.addIf("thumbnail_url", ch.ThumbnailURL)
	set.addIf("video_url", ch.VideoURL)
	set.addIf("trailer_url", ch.TrailerURL)
	if ch.Starring != nil {
		set.add("starring", textArray(*ch.Starring))
	}
	set.addIf("director", ch.Director)
	set.addIf("language", ch.Language)
	set.addIf("country", ch.Country)
	if ch.Tags != nil {
		set.add("tags", textArray(*ch.Tags))
	}
	set.addIf("content_type", ch.ContentType)
	if ch.Featured != nil {
		set.add("featured", *ch.Featured)
	}
	if ch.Trending != nil {
		set.add("trending", *ch.Trending)
	}
	set.addIf("source_name", ch.SourceName)
	if ch.SourceID != nil {
		set.add("source_id", *ch.SourceID)
	}
	if patch.CategoryIDs != nil {
		set.add("category_ids", uuidArray(*patch.CategoryIDs))
	}
	set.add("time_updated", patch.TimeUpdated)

	query := `UPDATE content SET ` + set.clause() + ` WHERE id = $1 RETURNING ` + contentColumns
	content, err := scanContent(r.db.QueryRow(ctx, query, set.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrContentNotFound
		}
		return nil, handlePostgresError("update content", err)
	}
	return content, nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return false, handlePostgresError("delete content", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListContent runs a content query. Text search uses the weighted
// search_vector; ts_rank weights {D, C, B, A} = {0, 0, 0.5, 1} keep a title
// hit worth twice a description hit.
func (r *Repository) ListContent(ctx context.Context, q catalog.ContentQuery) ([]*catalog.Content, error) {
	query, args := buildListContentQuery(q)
	return r.queryContents(ctx, "list content", query, q.SearchActive(), args...)
}

func buildListContentQuery(q catalog.ContentQuery) (string, []interface{}) {
	where := []string{"1=1"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.ContentType != nil {
		where = append(where, "content_type = "+arg(*q.ContentType))
	}
	if q.Featured != nil {
		where = append(where, "featured = "+arg(*q.Featured))
	}
	if q.Trending != nil {
		where = append(where, "trending = "+arg(*q.Trending))
	}

	columns := contentColumns
	if q.MatchesNothing() {
		where = append(where, "FALSE")
	}
	if q.SearchActive() {
		tsq := "to_tsquery('simple', " + arg(tsQuery(q.SearchTerms)) + ")"
		where = append(where, "search_vector @@ "+tsq)
		columns += ", ts_rank('{0, 0, 0.5, 1.0}', search_vector, " + tsq + ") AS score"
	}

	query := "SELECT " + columns + " FROM content WHERE " + strings.Join(where, " AND ")

	switch {
	case q.Sort.Relevance && q.SearchActive():
		query += " ORDER BY score DESC, seq"
	case q.Sort.Field != "" && catalog.IsSortableField(q.Sort.Field):
		if q.Sort.Descending {
			query += " ORDER BY " + q.Sort.Field + " DESC NULLS LAST, seq"
		} else {
			query += " ORDER BY " + q.Sort.Field + " ASC NULLS FIRST, seq"
		}
	default:
		query += " ORDER BY seq"
	}

	return appendPage(query, args, q.Page)
}

// tsQuery joins search terms into an any-term tsquery. Terms only contain
// letters and digits, so no tsquery operator can leak in.
func tsQuery(terms []string) string {
	return strings.Join(terms, " | ")
}

func (r *Repository) queryContents(ctx context.Context, operation, query string, scored bool, args ...interface{}) ([]*catalog.Content, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError(operation, err)
	}
	defer rows.Close()

	result := []*catalog.Content{}
	for rows.Next() {
		var (
			content *catalog.Content
			score   float32
		)
		if scored {
			content, err = scanContent(rows, &score)
		} else {
			content, err = scanContent(rows)
		}
		if err != nil {
			return nil, handlePostgresError(operation, err)
		}
		result = append(result, content)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError(operation, err)
	}
	return result, nil
}

// Watchlist operations

const watchlistColumns = `id, user_id, content_id, added_at`

func scanWatchlistItem(row rowScanner, extra ...any) (*catalog.WatchlistItem, error) {
	var item catalog.WatchlistItem
	dest := []any{&item.ID, &item.UserID, &item.ContentID, &item.AddedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) CreateWatchlistItem(ctx context.Context, item *catalog.WatchlistItem) error {
	query := `INSERT INTO watchlist_items (` + watchlistColumns + `) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, item.ID, item.UserID, item.ContentID, item.AddedAt)
	if err != nil {
		return handlePostgresError("create watchlist item", err)
	}
	return nil
}

// AddWatchlistItem inserts item unless its pair exists and returns the stored row.
func (r *Repository) AddWatchlistItem(ctx context.Context, item *catalog.WatchlistItem) (*catalog.WatchlistItem, bool, error) {
	query := `
		INSERT INTO watchlist_items (` + watchlistColumns + `)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, content_id) DO NOTHING
		RETURNING ` + watchlistColumns

	stored, err := scanWatchlistItem(r.db.QueryRow(ctx, query, item.ID, item.UserID, item.ContentID, item.AddedAt))
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, handlePostgresError("add watchlist item", err)
	}

	// conflict: the pair is already stored
	existing, err := r.GetWatchlistItem(ctx, item.UserID, item.ContentID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *Repository) GetWatchlistItem(ctx context.Context, userID, contentID uuid.UUID) (*catalog.WatchlistItem, error) {
	query := `SELECT ` + watchlistColumns + ` FROM watchlist_items WHERE user_id = $1 AND content_id = $2`
	item, err := scanWatchlistItem(r.db.QueryRow(ctx, query, userID, contentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrWatchlistItemNotFound
		}
		return nil, handlePostgresError("get watchlist item", err)
	}
	return item, nil
}

func (r *Repository) DeleteWatchlistItem(ctx context.Context, userID, contentID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM watchlist_items WHERE user_id = $1 AND content_id = $2`, userID, contentID)
	if err != nil {
		return false, handlePostgresError("delete watchlist item", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) ListWatchlistItems(ctx context.Context, userID uuid.UUID, page catalog.Page) ([]*catalog.WatchlistItem, error) {
	query := `
		SELECT w.id, w.user_id, w.content_id, w.added_at
		FROM watchlist_items w
		JOIN content c ON c.id = w.content_id
		WHERE w.user_id = $1
		ORDER BY w.added_at DESC, w.id`
	query, args := appendPage(query, []interface{}{userID}, page)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError("list watchlist items", err)
	}
	defer rows.Close()

	result := []*catalog.WatchlistItem{}
	for rows.Next() {
		item, err := scanWatchlistItem(rows)
		if err != nil {
			return nil, handlePostgresError("list watchlist items", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list watchlist items", err)
	}
	return result, nil
}

// Watch history operations

const historyColumns = `id, user_id, content_id, progress_percentage, watched_at, last_watched_at`

func scanHistoryItem(row rowScanner) (*catalog.WatchHistoryItem, error) {
	var item catalog.WatchHistoryItem
	err := row.Scan(&item.ID, &item.UserID, &item.ContentID, &item.ProgressPercentage, &item.WatchedAt, &item.LastWatchedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) CreateWatchHistoryItem(ctx context.Context, item *catalog.WatchHistoryItem) error {
	query := `INSERT INTO watch_history_items (` + historyColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		item.ID, item.UserID, item.ContentID, item.ProgressPercentage, item.WatchedAt, item.LastWatchedAt)
	if err != nil {
		return handlePostgresError("create watch history item", err)
	}
	return nil
}

// UpsertWatchHistoryItem inserts item or, on a pair conflict, overwrites
// progress and last_watched_at while keeping id and watched_at.
func (r *Repository) UpsertWatchHistoryItem(ctx context.Context, item *catalog.WatchHistoryItem) (*catalog.WatchHistoryItem, error) {
	query := `
		INSERT INTO watch_history_items (` + historyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, content_id) DO UPDATE SET
			progress_percentage = EXCLUDED.progress_percentage,
			last_watched_at = EXCLUDED.last_watched_at
		RETURNING ` + historyColumns

	stored, err := scanHistoryItem(r.db.QueryRow(ctx, query,
		item.ID, item.UserID, item.ContentID, item.ProgressPercentage, item.WatchedAt, item.LastWatchedAt))
	if err != nil {
		return nil, handlePostgresError("upsert watch history item", err)
	}
	return stored, nil
}

func (r *Repository) GetWatchHistoryItem(ctx context.Context, userID, contentID uuid.UUID) (*catalog.WatchHistoryItem, error) {
	query := `SELECT ` + historyColumns + ` FROM watch_history_items WHERE user_id = $1 AND content_id = $2`
	item, err := scanHistoryItem(r.db.QueryRow(ctx, query, userID, contentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrWatchHistoryItemNotFound
		}
		return nil, handlePostgresError("get watch history item", err)
	}
	return item, nil
}

func (r *Repository) UpdateWatchHistoryProgress(ctx context.Context, id uuid.UUID, progress int, watchedAt time.Time) (*catalog.WatchHistoryItem, error) {
	query := `
		UPDATE watch_history_items SET progress_percentage = $2, last_watched_at = $3
		WHERE id = $1 RETURNING ` + historyColumns
	item, err := scanHistoryItem(r.db.QueryRow(ctx, query, id, progress, watchedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrWatchHistoryItemNotFound
		}
		return nil, handlePostgresError("update watch history progress", err)
	}
	return item, nil
}

func (r *Repository) DeleteWatchHistoryItem(ctx context.Context, userID, contentID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM watch_history_items WHERE user_id = $1 AND content_id = $2`, userID, contentID)
	if err != nil {
		return false, handlePostgresError("delete watch history item", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) ListWatchHistoryItems(ctx context.Context, userID uuid.UUID, page catalog.Page) ([]*catalog.WatchHistoryItem, error) {
	query := `
		SELECT h.id, h.user_id, h.content_id, h.progress_percentage, h.watched_at, h.last_watched_at
		FROM watch_history_items h
		JOIN content c ON c.id = h.content_id
		WHERE h.user_id = $1
		ORDER BY h.last_watched_at DESC, h.id`
	query, args := appendPage(query, []interface{}{userID}, page)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError("list watch history items", err)
	}
	defer rows.Close()

	result := []*catalog.WatchHistoryItem{}
	for rows.Next() {
		item, err := scanHistoryItem(rows)
		if err != nil {
			return nil, handlePostgresError("list watch history items", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list watch history items", err)
	}
	return result, nil
}

// helpers

// setBuilder collects "column = $n" assignments. $1 is reserved for the row id.
type setBuilder struct {
	parts []string
	args  []interface{}
}

func newSetBuilder(id uuid.UUID) *setBuilder {
	return &setBuilder{args: []interface{}{id}}
}

func (b *setBuilder) add(column string, value interface{}) {
	b.args = append(b.args, value)
	b.parts = append(b.parts, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *setBuilder) addIf(column string, value *string) {
	if value != nil {
		b.add(column, *value)
	}
}

func (b *setBuilder) clause() string {
	return strings.Join(b.parts, ", ")
}

func appendPage(query string, args []interface{}, page catalog.Page) (string, []interface{}) {
	if page.Limit > 0 {
		args = append(args, page.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if page.Skip > 0 {
		args = append(args, page.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}

func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func uuidArray(values []uuid.UUID) []uuid.UUID {
	if values == nil {
		return []uuid.UUID{}
	}
	return values
}
