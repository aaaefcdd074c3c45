package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) CategoryCreated(ctx context.Context, category *Category) error { return nil }

func (n *NoopEventSink) CategoryDeleted(ctx context.Context, categoryID uuid.UUID) error { return nil }

func (n *NoopEventSink) ContentCreated(ctx context.Context, content *Content) error { return nil }

func (n *NoopEventSink) ContentUpdated(ctx context.Context, content *Content) error { return nil }

func (n *NoopEventSink) ContentDeleted(ctx context.Context, contentID uuid.UUID) error { return nil }

func (n *NoopEventSink) WatchlistItemAdded(ctx context.Context, item *WatchlistItem) error {
	return nil
}

func (n *NoopEventSink) WatchlistItemRemoved(ctx context.Context, userID, contentID uuid.UUID) error {
	return nil
}

func (n *NoopEventSink) WatchProgressRecorded(ctx context.Context, item *WatchHistoryItem) error {
	return nil
}

// LogEventSink writes every catalog event as a structured log record
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink creates an event sink logging to logger, or slog.Default() when nil
func NewLogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventSink{logger: logger}
}

func (l *LogEventSink) CategoryCreated(ctx context.Context, category *Category) error {
	l.logger.InfoContext(ctx, "Category created", "category_id", category.ID, "name", category.Name)
	return nil
}

func (l *LogEventSink) CategoryDeleted(ctx context.Context, categoryID uuid.UUID) error {
	l.logger.InfoContext(ctx, "Category deleted", "category_id", categoryID)
	return nil
}

func (l *LogEventSink) ContentCreated(ctx context.Context, content *Content) error {
	l.logger.InfoContext(ctx, "Content created",
		"content_id", content.ID, "title", content.Title, "categories", len(content.CategoryIDs))
	return nil
}

func (l *LogEventSink) ContentUpdated(ctx context.Context, content *Content) error {
	l.logger.InfoContext(ctx, "Content updated", "content_id", content.ID)
	return nil
}

func (l *LogEventSink) ContentDeleted(ctx context.Context, contentID uuid.UUID) error {
	l.logger.InfoContext(ctx, "Content deleted", "content_id", contentID)
	return nil
}

func (l *LogEventSink) WatchlistItemAdded(ctx context.Context, item *WatchlistItem) error {
	l.logger.InfoContext(ctx, "Watchlist item added", "user_id", item.UserID, "content_id", item.ContentID)
	return nil
}

func (l *LogEventSink) WatchlistItemRemoved(ctx context.Context, userID, contentID uuid.UUID) error {
	l.logger.InfoContext(ctx, "Watchlist item removed", "user_id", userID, "content_id", contentID)
	return nil
}

func (l *LogEventSink) WatchProgressRecorded(ctx context.Context, item *WatchHistoryItem) error {
	l.logger.InfoContext(ctx, "Watch progress recorded",
		"user_id", item.UserID, "content_id", item.ContentID, "progress", item.ProgressPercentage)
	return nil
}
