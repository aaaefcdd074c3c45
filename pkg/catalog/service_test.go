package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-catalog/pkg/catalog"
	"github.com/tendant/simple-catalog/pkg/catalog/repo/memory"
)

// steppingClock returns a clock that advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func setupTestService(t *testing.T, opts ...catalog.Option) catalog.Service {
	t.Helper()
	options := append([]catalog.Option{
		catalog.WithRepository(memory.New()),
		catalog.WithClock(steppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))),
	}, opts...)
	svc, err := catalog.New(options...)
	require.NoError(t, err)
	return svc
}

// plainRepo hides the atomic relationship writes of the wrapped repository so
// the service falls back to check-then-act.
type plainRepo struct {
	catalog.Repository
}

// racingRepo makes the next relationship lookup miss once, as if a
// concurrent insert landed between the lookup and the insert.
type racingRepo struct {
	catalog.Repository
	mu       sync.Mutex
	missNext bool
}

func (r *racingRepo) miss() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missNext {
		r.missNext = false
		return true
	}
	return false
}

func (r *racingRepo) GetWatchlistItem(ctx context.Context, userID, contentID uuid.UUID) (*catalog.WatchlistItem, error) {
	if r.miss() {
		return nil, catalog.ErrWatchlistItemNotFound
	}
	return r.Repository.GetWatchlistItem(ctx, userID, contentID)
}

func (r *racingRepo) GetWatchHistoryItem(ctx context.Context, userID, contentID uuid.UUID) (*catalog.WatchHistoryItem, error) {
	if r.miss() {
		return nil, catalog.ErrWatchHistoryItemNotFound
	}
	return r.Repository.GetWatchHistoryItem(ctx, userID, contentID)
}

type recordingSink struct {
	*catalog.NoopEventSink
	mu    sync.Mutex
	added int
	fail  bool
}

func (s *recordingSink) WatchlistItemAdded(ctx context.Context, item *catalog.WatchlistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added++
	if s.fail {
		return errors.New("sink down")
	}
	return nil
}

type userSet map[uuid.UUID]bool

func (u userSet) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return u[id], nil
}

func mustCategory(t *testing.T, svc catalog.Service, name string) *catalog.Category {
	t.Helper()
	cat, err := svc.CreateCategory(context.Background(), catalog.CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return cat
}

func mustContent(t *testing.T, svc catalog.Service, req catalog.CreateContentRequest) *catalog.Content {
	t.Helper()
	content, err := svc.CreateContent(context.Background(), req)
	require.NoError(t, err)
	return content
}

func categoryNames(c *catalog.Content) []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}

func titles(items []*catalog.Content) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []catalog.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []catalog.Option{},
			expectError: true,
		},
		{
			name:        "with repository should succeed",
			options:     []catalog.Option{catalog.WithRepository(memory.New())},
			expectError: false,
		},
		{
			name: "max page size below default should fail",
			options: []catalog.Option{
				catalog.WithRepository(memory.New()),
				catalog.WithPageSizes(50, 10),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := catalog.New(tt.options...)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestCategoryOperations(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("CreateTrimsName", func(t *testing.T) {
		cat, err := svc.CreateCategory(ctx, catalog.CreateCategoryRequest{Name: "  Action ", Color: "#f00"})
		require.NoError(t, err)
		assert.Equal(t, "Action", cat.Name)
		assert.Nil(t, cat.TimeUpdated)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, catalog.CreateCategoryRequest{Name: "Action"})
		assert.ErrorIs(t, err, catalog.ErrCategoryExists)
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, catalog.CreateCategoryRequest{Name: "   "})
		assert.ErrorIs(t, err, catalog.ErrInvalidRequest)
	})

	t.Run("Update", func(t *testing.T) {
		cat := mustCategory(t, svc, "Drama")
		desc := "Serious"
		updated, err := svc.UpdateCategory(ctx, cat.ID.String(), catalog.UpdateCategoryRequest{Description: &desc})
		require.NoError(t, err)
		assert.Equal(t, "Drama", updated.Name)
		assert.Equal(t, "Serious", updated.Description)
		require.NotNil(t, updated.TimeUpdated)
		assert.True(t, updated.TimeUpdated.After(cat.TimeCreated))

		taken := "Action"
		_, err = svc.UpdateCategory(ctx, cat.ID.String(), catalog.UpdateCategoryRequest{Name: &taken})
		assert.ErrorIs(t, err, catalog.ErrCategoryExists)
	})

	t.Run("GetByName", func(t *testing.T) {
		cat, err := svc.GetCategoryByName(ctx, "Action")
		require.NoError(t, err)
		assert.Equal(t, "Action", cat.Name)
	})

	t.Run("InvalidID", func(t *testing.T) {
		_, err := svc.GetCategory(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, catalog.ErrInvalidID)
		assert.False(t, catalog.IsNotFound(err))
	})

	t.Run("DeleteReportsPresence", func(t *testing.T) {
		cat := mustCategory(t, svc, "Short-lived")
		deleted, err := svc.DeleteCategory(ctx, cat.ID.String())
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = svc.DeleteCategory(ctx, cat.ID.String())
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestContentOperations(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	action := mustCategory(t, svc, "Action")
	comedy := mustCategory(t, svc, "Comedy")

	t.Run("CreateDropsUnresolvableIDs", func(t *testing.T) {
		content := mustContent(t, svc, catalog.CreateContentRequest{
			Title:       "Heat",
			CategoryIDs: []string{action.ID.String(), "bogus-id", uuid.NewString()},
		})
		assert.Equal(t, []string{"Action"}, categoryNames(content))
		assert.Equal(t, []uuid.UUID{action.ID}, content.CategoryIDs)
		assert.Equal(t, catalog.ContentTypeMovie, content.ContentType)
		assert.NotNil(t, content.Starring)
		assert.NotNil(t, content.Tags)
	})

	t.Run("CreateKeepsOrderAndDuplicates", func(t *testing.T) {
		content := mustContent(t, svc, catalog.CreateContentRequest{
			Title:       "Rush Hour",
			CategoryIDs: []string{comedy.ID.String(), action.ID.String(), comedy.ID.String()},
		})
		assert.Equal(t, []string{"Comedy", "Action", "Comedy"}, categoryNames(content))
	})

	t.Run("CreateRequiresTitle", func(t *testing.T) {
		_, err := svc.CreateContent(ctx, catalog.CreateContentRequest{Title: "  "})
		assert.ErrorIs(t, err, catalog.ErrInvalidRequest)
	})

	t.Run("CreateNormalizesContentType", func(t *testing.T) {
		content := mustContent(t, svc, catalog.CreateContentRequest{Title: "Friends", ContentType: " tv_show "})
		assert.Equal(t, catalog.ContentTypeTVShow, content.ContentType)
	})

	t.Run("GetResolvesAndOmitsDangling", func(t *testing.T) {
		temp := mustCategory(t, svc, "Temporary")
		content := mustContent(t, svc, catalog.CreateContentRequest{
			Title:       "Speed",
			CategoryIDs: []string{temp.ID.String(), action.ID.String()},
		})
		_, err := svc.DeleteCategory(ctx, temp.ID.String())
		require.NoError(t, err)

		got, err := svc.GetContent(ctx, content.ID.String())
		require.NoError(t, err)
		assert.Equal(t, []string{"Action"}, categoryNames(got))
		assert.Equal(t, []uuid.UUID{temp.ID, action.ID}, got.CategoryIDs, "stored links are untouched")

		raw, err := svc.GetContent(ctx, content.ID.String(), catalog.Unresolved())
		require.NoError(t, err)
		assert.Nil(t, raw.Categories)
		assert.False(t, raw.Resolved())
	})

	t.Run("GetNotFoundVsInvalid", func(t *testing.T) {
		_, err := svc.GetContent(ctx, uuid.NewString())
		assert.ErrorIs(t, err, catalog.ErrContentNotFound)

		_, err = svc.GetContent(ctx, "42")
		assert.ErrorIs(t, err, catalog.ErrInvalidID)
		assert.False(t, catalog.IsNotFound(err))
	})

	t.Run("EmptyUpdateOnlyAdvancesTimeUpdated", func(t *testing.T) {
		rating := 7.5
		created := mustContent(t, svc, catalog.CreateContentRequest{
			Title:       "Ronin",
			Rating:      &rating,
			Tags:        []string{"heist"},
			CategoryIDs: []string{action.ID.String()},
		})

		updated, err := svc.UpdateContent(ctx, created.ID.String(), catalog.UpdateContentRequest{})
		require.NoError(t, err)
		assert.True(t, updated.TimeUpdated.After(created.TimeUpdated))

		updated.TimeUpdated = created.TimeUpdated
		assert.Equal(t, created, updated)
	})

	t.Run("UpdateReplacesCategories", func(t *testing.T) {
		created := mustContent(t, svc, catalog.CreateContentRequest{
			Title:       "Bad Boys",
			CategoryIDs: []string{action.ID.String()},
		})
		title := "Bad Boys II"
		ids := []string{comedy.ID.String(), "junk"}
		updated, err := svc.UpdateContent(ctx, created.ID.String(), catalog.UpdateContentRequest{
			Title:       &title,
			CategoryIDs: &ids,
		})
		require.NoError(t, err)
		assert.Equal(t, "Bad Boys II", updated.Title)
		assert.Equal(t, []string{"Comedy"}, categoryNames(updated))

		empty := []string{}
		updated, err = svc.UpdateContent(ctx, created.ID.String(), catalog.UpdateContentRequest{CategoryIDs: &empty})
		require.NoError(t, err)
		assert.Empty(t, updated.Categories)
		assert.Empty(t, updated.CategoryIDs)
		assert.Equal(t, "Bad Boys II", updated.Title)
	})

	t.Run("UpdateNotFound", func(t *testing.T) {
		_, err := svc.UpdateContent(ctx, uuid.NewString(), catalog.UpdateContentRequest{})
		assert.ErrorIs(t, err, catalog.ErrContentNotFound)
	})

	t.Run("GetBySource", func(t *testing.T) {
		name, id := "tmdb", 603
		created := mustContent(t, svc, catalog.CreateContentRequest{
			Title:       "The Matrix",
			SourceName:  &name,
			SourceID:    &id,
			CategoryIDs: []string{action.ID.String()},
		})
		got, err := svc.GetContentBySource(ctx, "tmdb", 603)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, []string{"Action"}, categoryNames(got))
	})

	t.Run("Delete", func(t *testing.T) {
		created := mustContent(t, svc, catalog.CreateContentRequest{Title: "Gone"})
		deleted, err := svc.DeleteContent(ctx, created.ID.String())
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = svc.DeleteContent(ctx, created.ID.String())
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestStrictResolveMode(t *testing.T) {
	svc := setupTestService(t, catalog.WithResolveMode(catalog.ResolveStrict))
	ctx := context.Background()
	action := mustCategory(t, svc, "Action")

	t.Run("MalformedID", func(t *testing.T) {
		_, err := svc.CreateContent(ctx, catalog.CreateContentRequest{
			Title:       "Heat",
			CategoryIDs: []string{action.ID.String(), "bogus-id"},
		})
		assert.ErrorIs(t, err, catalog.ErrUnresolvedReference)
		assert.ErrorIs(t, err, catalog.ErrInvalidID)
	})

	t.Run("UnknownID", func(t *testing.T) {
		_, err := svc.CreateContent(ctx, catalog.CreateContentRequest{
			Title:       "Heat",
			CategoryIDs: []string{uuid.NewString()},
		})
		assert.ErrorIs(t, err, catalog.ErrUnresolvedReference)
		assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	})

	t.Run("ReadsStillOmitDangling", func(t *testing.T) {
		temp := mustCategory(t, svc, "Temporary")
		content := mustContent(t, svc, catalog.CreateContentRequest{
			Title:       "Speed",
			CategoryIDs: []string{temp.ID.String()},
		})
		_, err := svc.DeleteCategory(ctx, temp.ID.String())
		require.NoError(t, err)

		got, err := svc.GetContent(ctx, content.ID.String())
		require.NoError(t, err)
		assert.Empty(t, got.Categories)
	})
}

func TestListContent(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	action := mustCategory(t, svc, "Action")
	featured := true

	mustContent(t, svc, catalog.CreateContentRequest{Title: "Casino Royale", Description: "Bond plays poker", Featured: true})
	mustContent(t, svc, catalog.CreateContentRequest{Title: "Royale with Cheese", Description: "A royale burger", ContentType: "TV_SHOW"})
	mustContent(t, svc, catalog.CreateContentRequest{
		Title:       "Skyfall",
		Description: "Bond returns to casino royale territory",
		CategoryIDs: []string{action.ID.String()},
	})

	t.Run("RelevanceOrdering", func(t *testing.T) {
		items, err := svc.ListContent(ctx, catalog.ListContentRequest{SearchQuery: "royale"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Royale with Cheese", "Casino Royale", "Skyfall"}, titles(items))
	})

	t.Run("ShortQueryIgnored", func(t *testing.T) {
		items, err := svc.ListContent(ctx, catalog.ListContentRequest{SearchQuery: " r "})
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("QueryWithoutWordsMatchesNothing", func(t *testing.T) {
		for _, q := range []string{"!!", " -- ", "?!?"} {
			items, err := svc.ListContent(ctx, catalog.ListContentRequest{SearchQuery: q})
			require.NoError(t, err)
			assert.NotNil(t, items)
			assert.Empty(t, items, "query %q", q)
		}
	})

	t.Run("SearchWithFieldSort", func(t *testing.T) {
		items, err := svc.ListContent(ctx, catalog.ListContentRequest{SearchQuery: "royale", SortBy: "title"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Casino Royale", "Royale with Cheese", "Skyfall"}, titles(items))
	})

	t.Run("UnknownSortFieldIgnored", func(t *testing.T) {
		items, err := svc.ListContent(ctx, catalog.ListContentRequest{SortBy: "-password"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Casino Royale", "Royale with Cheese", "Skyfall"}, titles(items))
	})

	t.Run("Filters", func(t *testing.T) {
		items, err := svc.ListContent(ctx, catalog.ListContentRequest{Featured: &featured})
		require.NoError(t, err)
		assert.Equal(t, []string{"Casino Royale"}, titles(items))

		items, err = svc.ListContent(ctx, catalog.ListContentRequest{ContentType: "tv_show"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Royale with Cheese"}, titles(items))
	})

	t.Run("CategoryFilterRunsAfterPagination", func(t *testing.T) {
		items, err := svc.ListContent(ctx, catalog.ListContentRequest{CategoryName: "action", Limit: 2})
		require.NoError(t, err)
		assert.Empty(t, items, "the only match lies beyond the fetched page")

		items, err = svc.ListContent(ctx, catalog.ListContentRequest{CategoryName: "ACTION", Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"Skyfall"}, titles(items))
	})

	t.Run("UnresolvedListing", func(t *testing.T) {
		items, err := svc.ListContent(ctx, catalog.ListContentRequest{CategoryName: "Action"}, catalog.Unresolved())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Nil(t, items[0].Categories)
		assert.Equal(t, []uuid.UUID{action.ID}, items[0].CategoryIDs)
	})
}

func TestPagination(t *testing.T) {
	svc := setupTestService(t, catalog.WithPageSizes(2, 3))
	ctx := context.Background()
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		mustContent(t, svc, catalog.CreateContentRequest{Title: title})
	}

	items, err := svc.ListContent(ctx, catalog.ListContentRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(items), "default limit")

	items, err = svc.ListContent(ctx, catalog.ListContentRequest{Limit: 50})
	require.NoError(t, err)
	assert.Len(t, items, 3, "limit is capped")

	items, err = svc.ListContent(ctx, catalog.ListContentRequest{Skip: -4, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, titles(items))

	items, err = svc.ListContent(ctx, catalog.ListContentRequest{Skip: 4, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"E"}, titles(items))
}

func TestWatchlist(t *testing.T) {
	repos := map[string]func() catalog.Repository{
		"atomic":   memory.New,
		"fallback": func() catalog.Repository { return plainRepo{memory.New()} },
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			sink := &recordingSink{}
			svc := setupTestService(t, catalog.WithRepository(newRepo()), catalog.WithEventSink(sink))
			ctx := context.Background()

			action := mustCategory(t, svc, "Action")
			content := mustContent(t, svc, catalog.CreateContentRequest{
				Title:       "Heat",
				CategoryIDs: []string{action.ID.String()},
			})
			userID := uuid.NewString()

			first, err := svc.AddToWatchlist(ctx, userID, content.ID.String())
			require.NoError(t, err)
			require.NotNil(t, first.Content)
			assert.Equal(t, []string{"Action"}, categoryNames(first.Content))

			second, err := svc.AddToWatchlist(ctx, userID, content.ID.String())
			require.NoError(t, err)
			assert.Equal(t, first.ID, second.ID)
			assert.True(t, first.AddedAt.Equal(second.AddedAt))
			assert.Equal(t, 1, sink.added, "event fires once per pair")

			items, err := svc.ListWatchlist(ctx, userID, 0, 0)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "Heat", items[0].Content.Title)

			removed, err := svc.RemoveFromWatchlist(ctx, userID, content.ID.String())
			require.NoError(t, err)
			assert.True(t, removed)

			removed, err = svc.RemoveFromWatchlist(ctx, userID, content.ID.String())
			require.NoError(t, err)
			assert.False(t, removed)
		})
	}
}

func TestWatchlist_ConcurrentAdd(t *testing.T) {
	repos := map[string]catalog.Repository{
		"atomic":   memory.New(),
		"fallback": plainRepo{memory.New()},
	}

	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			svc := setupTestService(t, catalog.WithRepository(repo))
			content := mustContent(t, svc, catalog.CreateContentRequest{Title: "Heat"})
			userID := uuid.NewString()

			var wg sync.WaitGroup
			ids := make([]uuid.UUID, 16)
			for i := range ids {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					item, err := svc.AddToWatchlist(context.Background(), userID, content.ID.String())
					if assert.NoError(t, err) {
						ids[i] = item.ID
					}
				}(i)
			}
			wg.Wait()

			for _, id := range ids {
				assert.Equal(t, ids[0], id)
			}
			items, err := svc.ListWatchlist(context.Background(), userID, 0, 10)
			require.NoError(t, err)
			assert.Len(t, items, 1)
		})
	}
}

func TestWatchlist_LostInsertRace(t *testing.T) {
	repo := &racingRepo{Repository: memory.New()}
	svc := setupTestService(t, catalog.WithRepository(repo))
	ctx := context.Background()

	content := mustContent(t, svc, catalog.CreateContentRequest{Title: "Heat"})
	userID := uuid.NewString()

	first, err := svc.AddToWatchlist(ctx, userID, content.ID.String())
	require.NoError(t, err)

	repo.missNext = true
	second, err := svc.AddToWatchlist(ctx, userID, content.ID.String())
	require.NoError(t, err, "duplicate rejection is resolved by refetching")
	assert.Equal(t, first.ID, second.ID)
}

func TestWatchlist_Validation(t *testing.T) {
	known := uuid.New()
	svc := setupTestService(t, catalog.WithUserLookup(userSet{known: true}))
	ctx := context.Background()
	content := mustContent(t, svc, catalog.CreateContentRequest{Title: "Heat"})

	_, err := svc.AddToWatchlist(ctx, "nope", content.ID.String())
	assert.ErrorIs(t, err, catalog.ErrInvalidID)

	_, err = svc.AddToWatchlist(ctx, known.String(), uuid.NewString())
	assert.ErrorIs(t, err, catalog.ErrContentNotFound)

	_, err = svc.AddToWatchlist(ctx, uuid.NewString(), content.ID.String())
	assert.ErrorIs(t, err, catalog.ErrUserNotFound)

	_, err = svc.AddToWatchlist(ctx, known.String(), content.ID.String())
	assert.NoError(t, err)
}

func TestWatchlist_DeletedContentIsNotListed(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	kept := mustContent(t, svc, catalog.CreateContentRequest{Title: "Kept"})
	gone := mustContent(t, svc, catalog.CreateContentRequest{Title: "Gone"})
	for _, c := range []*catalog.Content{kept, gone} {
		_, err := svc.AddToWatchlist(ctx, userID, c.ID.String())
		require.NoError(t, err)
		_, err = svc.RecordWatchProgress(ctx, userID, c.ID.String(), 50)
		require.NoError(t, err)
	}

	_, err := svc.DeleteContent(ctx, gone.ID.String())
	require.NoError(t, err)

	items, err := svc.ListWatchlist(ctx, userID, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Kept", items[0].Content.Title)

	history, err := svc.ListWatchHistory(ctx, userID, 0, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Kept", history[0].Content.Title)
}

func TestEventSinkFailureDoesNotFailWrite(t *testing.T) {
	svc := setupTestService(t, catalog.WithEventSink(&recordingSink{fail: true}))
	ctx := context.Background()
	content := mustContent(t, svc, catalog.CreateContentRequest{Title: "Heat"})

	item, err := svc.AddToWatchlist(ctx, uuid.NewString(), content.ID.String())
	require.NoError(t, err)
	assert.NotNil(t, item)
}

func TestWatchHistory(t *testing.T) {
	repos := map[string]func() catalog.Repository{
		"atomic":   memory.New,
		"fallback": func() catalog.Repository { return plainRepo{memory.New()} },
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			svc := setupTestService(t, catalog.WithRepository(newRepo()))
			ctx := context.Background()
			content := mustContent(t, svc, catalog.CreateContentRequest{Title: "Heat"})
			userID := uuid.NewString()

			first, err := svc.RecordWatchProgress(ctx, userID, content.ID.String(), 10)
			require.NoError(t, err)
			assert.Equal(t, 10, first.ProgressPercentage)
			assert.True(t, first.WatchedAt.Equal(first.LastWatchedAt))
			require.NotNil(t, first.Content)

			second, err := svc.RecordWatchProgress(ctx, userID, content.ID.String(), 80)
			require.NoError(t, err)
			assert.Equal(t, first.ID, second.ID)
			assert.Equal(t, 80, second.ProgressPercentage)
			assert.True(t, first.WatchedAt.Equal(second.WatchedAt))
			assert.True(t, second.LastWatchedAt.After(first.LastWatchedAt))

			items, err := svc.ListWatchHistory(ctx, userID, 0, 10)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, 80, items[0].ProgressPercentage)

			removed, err := svc.RemoveFromWatchHistory(ctx, userID, content.ID.String())
			require.NoError(t, err)
			assert.True(t, removed)
		})
	}
}

func TestWatchHistory_LostInsertRace(t *testing.T) {
	repo := &racingRepo{Repository: memory.New()}
	svc := setupTestService(t, catalog.WithRepository(repo))
	ctx := context.Background()
	content := mustContent(t, svc, catalog.CreateContentRequest{Title: "Heat"})
	userID := uuid.NewString()

	first, err := svc.RecordWatchProgress(ctx, userID, content.ID.String(), 20)
	require.NoError(t, err)

	repo.missNext = true
	second, err := svc.RecordWatchProgress(ctx, userID, content.ID.String(), 40)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 40, second.ProgressPercentage)
	assert.True(t, first.WatchedAt.Equal(second.WatchedAt))
}

func TestCancelledContext(t *testing.T) {
	svc := setupTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ListContent(ctx, catalog.ListContentRequest{})
	assert.ErrorIs(t, err, catalog.ErrAborted)
}
