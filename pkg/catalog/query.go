package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SortByRelevance asks for relevance ordering of a text search.
const SortByRelevance = "$textScore"

// MinSearchQueryLength is the shortest query that activates text search.
const MinSearchQueryLength = 2

// Text relevance weights. A title hit counts twice as much as a description hit.
const (
	TitleWeight       = 10
	DescriptionWeight = 5
)

// Sortable content fields. Any other sort_by value is ignored.
const (
	SortFieldTitle       = "title"
	SortFieldRating      = "rating"
	SortFieldReleaseDate = "release_date"
	SortFieldDuration    = "duration"
	SortFieldContentType = "content_type"
	SortFieldFeatured    = "featured"
	SortFieldTrending    = "trending"
	SortFieldDirector    = "director"
	SortFieldLanguage    = "language"
	SortFieldCountry     = "country"
	SortFieldSourceName  = "source_name"
	SortFieldSourceID    = "source_id"
	SortFieldTimeCreated = "time_created"
	SortFieldTimeUpdated = "time_updated"
)

var sortableFields = map[string]bool{
	SortFieldTitle:       true,
	SortFieldRating:      true,
	SortFieldReleaseDate: true,
	SortFieldDuration:    true,
	SortFieldContentType: true,
	SortFieldFeatured:    true,
	SortFieldTrending:    true,
	SortFieldDirector:    true,
	SortFieldLanguage:    true,
	SortFieldCountry:     true,
	SortFieldSourceName:  true,
	SortFieldSourceID:    true,
	SortFieldTimeCreated: true,
	SortFieldTimeUpdated: true,
}

// IsSortableField reports whether field can be used in a sort specification.
func IsSortableField(field string) bool {
	return sortableFields[field]
}

// ContentSort is the resolved sort of a listing. The zero value means
// storage (insertion) order.
type ContentSort struct {
	Relevance  bool
	Field      string
	Descending bool
}

// IsZero reports whether no explicit sort applies.
func (s ContentSort) IsZero() bool {
	return !s.Relevance && s.Field == ""
}

// ContentQuery is the storage-level part of a listing: everything except the
// category-name post-filter.
type ContentQuery struct {
	ContentType *string
	Featured    *bool
	Trending    *bool

	// SearchRequested is set when the query text is long enough to activate
	// search. Together with empty SearchTerms it means nothing can match.
	SearchRequested bool
	// SearchTerms is non-empty when full-text search is active.
	SearchTerms []string

	Sort ContentSort
	Page Page
}

// MatchesNothing reports whether a search was requested but yielded no
// usable terms, so the listing is empty.
func (q ContentQuery) MatchesNothing() bool {
	return q.SearchRequested && len(q.SearchTerms) == 0
}

// SearchActive reports whether the query carries a text predicate.
func (q ContentQuery) SearchActive() bool {
	return len(q.SearchTerms) > 0
}

// BuildContentQuery turns listing parameters into a storage query.
//
// Sort resolution: an active search without sort_by (or with
// SortByRelevance) orders by descending relevance; otherwise sort_by is
// parsed as "field" or "-field"; otherwise no explicit sort is applied.
func BuildContentQuery(req ListContentRequest) ContentQuery {
	q := ContentQuery{
		Featured: req.Featured,
		Trending: req.Trending,
		Page:     Page{Skip: req.Skip, Limit: req.Limit},
	}
	if ct := strings.TrimSpace(req.ContentType); ct != "" {
		normalized := NormalizeContentType(ct)
		q.ContentType = &normalized
	}

	query := strings.TrimSpace(req.SearchQuery)
	if utf8.RuneCountInString(query) >= MinSearchQueryLength {
		q.SearchRequested = true
		q.SearchTerms = SearchTerms(query)
	}

	q.Sort = resolveSort(req.SortBy, q.SearchActive())
	return q
}

func resolveSort(sortBy string, searchActive bool) ContentSort {
	sortBy = strings.TrimSpace(sortBy)
	if searchActive && (sortBy == "" || sortBy == SortByRelevance) {
		return ContentSort{Relevance: true}
	}
	if sortBy == "" {
		return ContentSort{}
	}

	desc := false
	field := sortBy
	if strings.HasPrefix(field, "-") {
		desc = true
		field = field[1:]
	}
	if !IsSortableField(field) {
		return ContentSort{}
	}
	return ContentSort{Field: field, Descending: desc}
}

// SearchTerms splits a free-text query into distinct lower-cased words.
func SearchTerms(query string) []string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(words))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
	}
	return terms
}

// RelevanceScore scores a title/description pair against search terms. Each
// whole-word hit adds the field weight; zero means no match.
func RelevanceScore(terms []string, title, description string) float64 {
	if len(terms) == 0 {
		return 0
	}
	return float64(TitleWeight*countHits(terms, title) + DescriptionWeight*countHits(terms, description))
}

func countHits(terms []string, text string) int {
	if text == "" {
		return 0
	}
	hits := 0
	for _, word := range SearchTerms(text) {
		for _, term := range terms {
			if word == term {
				hits++
				break
			}
		}
	}
	return hits
}

// FilterByCategoryName keeps the items that have a resolved category named
// name, compared case-insensitively. It runs on an already fetched page, so
// the result may hold fewer items than the page limit even when further
// matches exist beyond it.
func FilterByCategoryName(items []*Content, name string) []*Content {
	filtered := make([]*Content, 0, len(items))
	for _, item := range items {
		for _, cat := range item.Categories {
			if strings.EqualFold(cat.Name, name) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}
