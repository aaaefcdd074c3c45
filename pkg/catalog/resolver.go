package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ResolveMode selects how write-time category links are resolved.
type ResolveMode int

const (
	// ResolveBestEffort silently drops ids that are malformed or point to no
	// category. This is the default.
	ResolveBestEffort ResolveMode = iota

	// ResolveStrict fails with ErrUnresolvedReference on the first id that
	// cannot be resolved.
	ResolveStrict
)

func (m ResolveMode) String() string {
	switch m {
	case ResolveStrict:
		return "strict"
	default:
		return "best_effort"
	}
}

// ParseResolveMode parses "best_effort" or "strict".
func ParseResolveMode(s string) (ResolveMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "best_effort", "best-effort":
		return ResolveBestEffort, nil
	case "strict":
		return ResolveStrict, nil
	default:
		return ResolveBestEffort, fmt.Errorf("unknown resolve mode %q", s)
	}
}

// LinkResolver turns category links into category entities.
//
// Output order follows input order and duplicates pass through unchanged;
// deduplication is left to the caller. Lookups are batched into a single
// repository call.
type LinkResolver struct {
	repo Repository
	mode ResolveMode
}

// NewLinkResolver creates a resolver over the category operations of repo.
func NewLinkResolver(repo Repository, mode ResolveMode) *LinkResolver {
	return &LinkResolver{repo: repo, mode: mode}
}

// Mode returns the write-time resolve mode.
func (r *LinkResolver) Mode() ResolveMode {
	return r.mode
}

// Resolve resolves opaque category ids according to the resolver mode.
func (r *LinkResolver) Resolve(ctx context.Context, ids []string) ([]*Category, error) {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, s := range ids {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			if r.mode == ResolveStrict {
				return nil, fmt.Errorf("%w: category %q: %w", ErrUnresolvedReference, s, ErrInvalidID)
			}
			continue
		}
		parsed = append(parsed, id)
	}

	found, err := r.lookup(ctx, parsed)
	if err != nil {
		return nil, err
	}

	result := make([]*Category, 0, len(parsed))
	for _, id := range parsed {
		cat, ok := found[id]
		if !ok {
			if r.mode == ResolveStrict {
				return nil, fmt.Errorf("%w: category %s: %w", ErrUnresolvedReference, id, ErrCategoryNotFound)
			}
			continue
		}
		catCopy := *cat
		result = append(result, &catCopy)
	}
	return result, nil
}

// ResolveIDs resolves stored links. Dangling links are always omitted,
// whatever the mode: a deleted category is not an error on read.
func (r *LinkResolver) ResolveIDs(ctx context.Context, ids []uuid.UUID) ([]*Category, error) {
	found, err := r.lookup(ctx, ids)
	if err != nil {
		return nil, err
	}
	return pick(found, ids), nil
}

// ResolveContents fills Categories of every item with one batched lookup.
func (r *LinkResolver) ResolveContents(ctx context.Context, items ...*Content) error {
	var all []uuid.UUID
	for _, item := range items {
		all = append(all, item.CategoryIDs...)
	}
	found, err := r.lookup(ctx, all)
	if err != nil {
		return err
	}
	for _, item := range items {
		item.Categories = pick(found, item.CategoryIDs)
	}
	return nil
}

func (r *LinkResolver) lookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Category, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*Category{}, nil
	}

	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	cats, err := r.repo.GetCategoriesByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("resolve categories: %w", err)
	}
	found := make(map[uuid.UUID]*Category, len(cats))
	for _, cat := range cats {
		found[cat.ID] = cat
	}
	return found, nil
}

func pick(found map[uuid.UUID]*Category, ids []uuid.UUID) []*Category {
	result := make([]*Category, 0, len(ids))
	for _, id := range ids {
		if cat, ok := found[id]; ok {
			catCopy := *cat
			result = append(result, &catCopy)
		}
	}
	return result
}

// CategoryIDs returns the ids of cats in order.
func CategoryIDs(cats []*Category) []uuid.UUID {
	ids := make([]uuid.UUID, len(cats))
	for i, cat := range cats {
		ids[i] = cat.ID
	}
	return ids
}
