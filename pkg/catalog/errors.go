package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrNotFound is matched by every "not found" error of this package
	ErrNotFound = errors.New("not found")

	// ErrContentNotFound indicates a content was not found
	ErrContentNotFound = fmt.Errorf("content %w", ErrNotFound)

	// ErrCategoryNotFound indicates a category was not found
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)

	// ErrWatchlistItemNotFound indicates a watchlist item was not found
	ErrWatchlistItemNotFound = fmt.Errorf("watchlist item %w", ErrNotFound)

	// ErrWatchHistoryItemNotFound indicates a watch history item was not found
	ErrWatchHistoryItemNotFound = fmt.Errorf("watch history item %w", ErrNotFound)

	// ErrUserNotFound indicates the user lookup does not know the user
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrInvalidID indicates an identifier that does not parse to a UUID
	ErrInvalidID = errors.New("invalid identifier")

	// ErrDuplicate indicates a uniqueness constraint rejected a write
	ErrDuplicate = errors.New("already exists")

	// ErrCategoryExists indicates a category name is already taken
	ErrCategoryExists = fmt.Errorf("category %w", ErrDuplicate)

	// ErrUnresolvedReference indicates a category link could not be resolved in strict mode
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrInvalidRequest indicates a request missing required fields
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAborted indicates the caller cancelled the operation or its deadline passed
	ErrAborted = errors.New("operation aborted")

	// ErrStorageUnavailable indicates the storage layer failed for reasons unrelated to the data
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ContentError represents an error related to content operations
type ContentError struct {
	ContentID uuid.UUID
	Op        string
	Err       error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content operation %s failed for content %s: %v", e.Op, e.ContentID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// CategoryError represents an error related to category operations
type CategoryError struct {
	CategoryID uuid.UUID
	Op         string
	Err        error
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("category operation %s failed for category %s: %v", e.Op, e.CategoryID, e.Err)
}

func (e *CategoryError) Unwrap() error {
	return e.Err
}

// RelationshipError represents an error on a watchlist or watch history pair
type RelationshipError struct {
	Kind      string // "watchlist" or "watch_history"
	UserID    uuid.UUID
	ContentID uuid.UUID
	Op        string
	Err       error
}

func (e *RelationshipError) Error() string {
	return fmt.Sprintf("%s operation %s failed for user %s content %s: %v", e.Kind, e.Op, e.UserID, e.ContentID, e.Err)
}

func (e *RelationshipError) Unwrap() error {
	return e.Err
}

// ParseID parses an opaque identifier. A malformed value yields ErrInvalidID,
// which is distinct from any not-found error.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// CheckContext returns an ErrAborted-wrapped error when ctx is done.
func CheckContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return Aborted(err)
	}
	return nil
}

// Aborted wraps a context cancellation or deadline error with ErrAborted.
func Aborted(err error) error {
	return fmt.Errorf("%w: %w", ErrAborted, err)
}

// IsNotFound reports whether err is any of the not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
