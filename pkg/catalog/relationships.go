package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	kindWatchlist    = "watchlist"
	kindWatchHistory = "watch_history"
)

// pairTarget validates both ids of a relationship write and loads the
// content, resolved.
func (s *service) pairTarget(ctx context.Context, kind, userID, contentID string) (uuid.UUID, *Content, error) {
	uid, err := ParseID(userID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	cid, err := ParseID(contentID)
	if err != nil {
		return uuid.Nil, nil, err
	}

	if s.users != nil {
		ok, err := s.users.UserExists(ctx, uid)
		if err != nil {
			return uuid.Nil, nil, &RelationshipError{Kind: kind, UserID: uid, ContentID: cid, Op: "lookup_user", Err: err}
		}
		if !ok {
			return uuid.Nil, nil, &RelationshipError{Kind: kind, UserID: uid, ContentID: cid, Op: "lookup_user", Err: ErrUserNotFound}
		}
	}

	content, err := s.repository.GetContent(ctx, cid)
	if err != nil {
		return uuid.Nil, nil, &RelationshipError{Kind: kind, UserID: uid, ContentID: cid, Op: "lookup_content", Err: err}
	}
	if err := s.resolver.ResolveContents(ctx, content); err != nil {
		return uuid.Nil, nil, err
	}
	return uid, content, nil
}

func parsePair(userID, contentID string) (uuid.UUID, uuid.UUID, error) {
	uid, err := ParseID(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	cid, err := ParseID(contentID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return uid, cid, nil
}

// Watchlist operations

// AddToWatchlist adds content to the user's watchlist. Adding a pair that is
// already present returns the stored item unchanged.
func (s *service) AddToWatchlist(ctx context.Context, userID, contentID string) (*WatchlistItem, error) {
	uid, content, err := s.pairTarget(ctx, kindWatchlist, userID, contentID)
	if err != nil {
		return nil, err
	}

	candidate := &WatchlistItem{
		ID:        uuid.New(),
		UserID:    uid,
		ContentID: content.ID,
		AddedAt:   s.now(),
	}

	var (
		item    *WatchlistItem
		created bool
	)
	if adder, ok := s.repository.(AtomicWatchlistAdder); ok {
		item, created, err = adder.AddWatchlistItem(ctx, candidate)
	} else {
		item, created, err = s.addWatchlistItem(ctx, candidate)
	}
	if err != nil {
		return nil, &RelationshipError{Kind: kindWatchlist, UserID: uid, ContentID: content.ID, Op: "add", Err: err}
	}

	item.Content = content
	if created {
		s.emit("watchlist_item_added", s.eventSink.WatchlistItemAdded(ctx, item))
	}
	return item, nil
}

// addWatchlistItem is the check-then-act path for repositories without an
// atomic insert. A duplicate rejection means a concurrent caller won the
// insert; the stored item is fetched and returned instead.
func (s *service) addWatchlistItem(ctx context.Context, candidate *WatchlistItem) (*WatchlistItem, bool, error) {
	existing, err := s.repository.GetWatchlistItem(ctx, candidate.UserID, candidate.ContentID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	err = s.repository.CreateWatchlistItem(ctx, candidate)
	if err == nil {
		return candidate, true, nil
	}
	if !errors.Is(err, ErrDuplicate) {
		return nil, false, err
	}

	s.logger.Debug("Watchlist insert lost race, refetching",
		"user_id", candidate.UserID, "content_id", candidate.ContentID)
	existing, err = s.repository.GetWatchlistItem(ctx, candidate.UserID, candidate.ContentID)
	if err != nil {
		return nil, false, fmt.Errorf("refetch after duplicate: %w", err)
	}
	return existing, false, nil
}

func (s *service) RemoveFromWatchlist(ctx context.Context, userID, contentID string) (bool, error) {
	uid, cid, err := parsePair(userID, contentID)
	if err != nil {
		return false, err
	}
	deleted, err := s.repository.DeleteWatchlistItem(ctx, uid, cid)
	if err != nil {
		return false, &RelationshipError{Kind: kindWatchlist, UserID: uid, ContentID: cid, Op: "remove", Err: err}
	}
	if deleted {
		s.emit("watchlist_item_removed", s.eventSink.WatchlistItemRemoved(ctx, uid, cid))
	}
	return deleted, nil
}

func (s *service) ListWatchlist(ctx context.Context, userID string, skip, limit int) ([]*WatchlistItem, error) {
	uid, err := ParseID(userID)
	if err != nil {
		return nil, err
	}
	items, err := s.repository.ListWatchlistItems(ctx, uid, s.page(skip, limit))
	if err != nil {
		return nil, err
	}

	contents, err := s.loadContents(ctx, watchlistContentIDs(items))
	if err != nil {
		return nil, err
	}
	result := make([]*WatchlistItem, 0, len(items))
	for _, item := range items {
		// content deleted between the two reads
		if c, ok := contents[item.ContentID]; ok {
			item.Content = c
			result = append(result, item)
		}
	}
	return result, nil
}

// Watch history operations

// RecordWatchProgress upserts the user's progress on a content item. An
// existing pair keeps its WatchedAt; concurrent updates are last-write-wins.
func (s *service) RecordWatchProgress(ctx context.Context, userID, contentID string, progress int) (*WatchHistoryItem, error) {
	uid, content, err := s.pairTarget(ctx, kindWatchHistory, userID, contentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	candidate := &WatchHistoryItem{
		ID:                 uuid.New(),
		UserID:             uid,
		ContentID:          content.ID,
		ProgressPercentage: progress,
		WatchedAt:          now,
		LastWatchedAt:      now,
	}

	var item *WatchHistoryItem
	if upserter, ok := s.repository.(AtomicWatchHistoryUpserter); ok {
		item, err = upserter.UpsertWatchHistoryItem(ctx, candidate)
	} else {
		item, err = s.upsertWatchHistoryItem(ctx, candidate)
	}
	if err != nil {
		return nil, &RelationshipError{Kind: kindWatchHistory, UserID: uid, ContentID: content.ID, Op: "upsert", Err: err}
	}

	item.Content = content
	s.emit("watch_progress_recorded", s.eventSink.WatchProgressRecorded(ctx, item))
	return item, nil
}

// upsertWatchHistoryItem is the check-then-act path for repositories without
// an atomic upsert. Losing the insert race turns the write into an update.
func (s *service) upsertWatchHistoryItem(ctx context.Context, candidate *WatchHistoryItem) (*WatchHistoryItem, error) {
	existing, err := s.repository.GetWatchHistoryItem(ctx, candidate.UserID, candidate.ContentID)
	switch {
	case err == nil:
		return s.repository.UpdateWatchHistoryProgress(ctx, existing.ID, candidate.ProgressPercentage, candidate.LastWatchedAt)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	err = s.repository.CreateWatchHistoryItem(ctx, candidate)
	if err == nil {
		return candidate, nil
	}
	if !errors.Is(err, ErrDuplicate) {
		return nil, err
	}

	s.logger.Debug("Watch history insert lost race, updating",
		"user_id", candidate.UserID, "content_id", candidate.ContentID)
	existing, err = s.repository.GetWatchHistoryItem(ctx, candidate.UserID, candidate.ContentID)
	if err != nil {
		return nil, fmt.Errorf("refetch after duplicate: %w", err)
	}
	return s.repository.UpdateWatchHistoryProgress(ctx, existing.ID, candidate.ProgressPercentage, candidate.LastWatchedAt)
}

func (s *service) RemoveFromWatchHistory(ctx context.Context, userID, contentID string) (bool, error) {
	uid, cid, err := parsePair(userID, contentID)
	if err != nil {
		return false, err
	}
	deleted, err := s.repository.DeleteWatchHistoryItem(ctx, uid, cid)
	if err != nil {
		return false, &RelationshipError{Kind: kindWatchHistory, UserID: uid, ContentID: cid, Op: "remove", Err: err}
	}
	return deleted, nil
}

func (s *service) ListWatchHistory(ctx context.Context, userID string, skip, limit int) ([]*WatchHistoryItem, error) {
	uid, err := ParseID(userID)
	if err != nil {
		return nil, err
	}
	items, err := s.repository.ListWatchHistoryItems(ctx, uid, s.page(skip, limit))
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ContentID
	}
	contents, err := s.loadContents(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make([]*WatchHistoryItem, 0, len(items))
	for _, item := range items {
		if c, ok := contents[item.ContentID]; ok {
			item.Content = c
			result = append(result, item)
		}
	}
	return result, nil
}

// loadContents fetches and resolves the given content in two batched reads.
func (s *service) loadContents(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Content, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*Content{}, nil
	}
	contents, err := s.repository.GetContentsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.ResolveContents(ctx, contents...); err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*Content, len(contents))
	for _, c := range contents {
		byID[c.ID] = c
	}
	return byID, nil
}

func watchlistContentIDs(items []*WatchlistItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ContentID
	}
	return ids
}
