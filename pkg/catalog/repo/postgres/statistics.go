package postgres

import (
	"context"

	"github.com/tendant/simple-catalog/pkg/catalog"
)

var _ catalog.StatisticsReader = (*Repository)(nil)

// CatalogStatistics aggregates the catalog with three queries
func (r *Repository) CatalogStatistics(ctx context.Context) (*catalog.Statistics, error) {
	stats := &catalog.Statistics{ByContentType: make(map[string]int64)}

	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM categories),
			COUNT(*),
			COUNT(*) FILTER (WHERE featured),
			COUNT(*) FILTER (WHERE trending),
			MIN(time_created),
			MAX(time_created)
		FROM content`,
	).Scan(&stats.Categories, &stats.Content, &stats.Featured, &stats.Trending, &stats.OldestContent, &stats.NewestContent)
	if err != nil {
		return nil, handlePostgresError("catalog statistics", err)
	}

	rows, err := r.db.Query(ctx, `SELECT content_type, COUNT(*) FROM content GROUP BY content_type`)
	if err != nil {
		return nil, handlePostgresError("catalog statistics", err)
	}
	defer rows.Close()
	for rows.Next() {
		var contentType string
		var count int64
		if err := rows.Scan(&contentType, &count); err != nil {
			return nil, handlePostgresError("catalog statistics", err)
		}
		stats.ByContentType[contentType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("catalog statistics", err)
	}

	err = r.db.QueryRow(ctx, `
		WITH live_watchlist AS (
			SELECT w.user_id FROM watchlist_items w JOIN content c ON c.id = w.content_id
		), live_history AS (
			SELECT h.user_id FROM watch_history_items h JOIN content c ON c.id = h.content_id
		)
		SELECT
			(SELECT COUNT(*) FROM live_watchlist),
			(SELECT COUNT(*) FROM live_history),
			(SELECT COUNT(DISTINCT user_id) FROM (
				SELECT user_id FROM live_watchlist UNION SELECT user_id FROM live_history
			) users)`,
	).Scan(&stats.WatchlistItems, &stats.WatchHistoryItems, &stats.ActiveUsers)
	if err != nil {
		return nil, handlePostgresError("catalog statistics", err)
	}

	return stats, nil
}
