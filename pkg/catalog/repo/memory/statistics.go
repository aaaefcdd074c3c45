package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

var _ catalog.StatisticsReader = (*Repository)(nil)

// CatalogStatistics aggregates the stored catalog
func (r *Repository) CatalogStatistics(ctx context.Context) (*catalog.Statistics, error) {
	if err := catalog.CheckContext(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &catalog.Statistics{
		Categories:    int64(len(r.categories)),
		Content:       int64(len(r.contents)),
		ByContentType: make(map[string]int64),
	}

	for _, c := range r.contents {
		stats.ByContentType[c.ContentType]++
		if c.Featured {
			stats.Featured++
		}
		if c.Trending {
			stats.Trending++
		}
		if stats.OldestContent == nil || c.TimeCreated.Before(*stats.OldestContent) {
			t := c.TimeCreated
			stats.OldestContent = &t
		}
		if stats.NewestContent == nil || c.TimeCreated.After(*stats.NewestContent) {
			t := c.TimeCreated
			stats.NewestContent = &t
		}
	}

	users := make(map[uuid.UUID]struct{})
	for _, item := range r.watchlist {
		if _, ok := r.contents[item.ContentID]; ok {
			stats.WatchlistItems++
			users[item.UserID] = struct{}{}
		}
	}
	for _, item := range r.history {
		if _, ok := r.contents[item.ContentID]; ok {
			stats.WatchHistoryItems++
			users[item.UserID] = struct{}{}
		}
	}
	stats.ActiveUsers = int64(len(users))

	return stats, nil
}
