package api

import (
	"net/http"
	"strconv"
	"strings"
)

type pageParams struct {
	Skip  int `validate:"gte=0"`
	Limit int `validate:"gte=0"`
}

// listContentParams are the query parameters of GET /content
type listContentParams struct {
	pageParams
	ContentType string `validate:"max=32"`
	Featured    *bool
	Trending    *bool
	Category    string `validate:"max=100"`
	SortBy      string `validate:"max=64"`
	Query       string `validate:"omitempty,min=2,max=200"`
}

// paramNames maps parameter struct fields to their query parameter names.
var paramNames = map[string]string{
	"Skip":        "skip",
	"Limit":       "limit",
	"ContentType": "type",
	"Featured":    "featured",
	"Trending":    "trending",
	"Category":    "category",
	"SortBy":      "sort_by",
	"Query":       "q",
}

// paramErrors validates p and reports failures by query parameter name.
func paramErrors(p any) map[string]string {
	errs := validationErrors(p)
	if errs == nil {
		return nil
	}
	named := make(map[string]string, len(errs))
	for field, msg := range errs {
		if name, ok := paramNames[field]; ok {
			field = name
		}
		named[field] = msg
	}
	return named
}

// queryReader collects parse failures per parameter.
type queryReader struct {
	r      *http.Request
	fields map[string]string
}

func (q *queryReader) fail(name, msg string) {
	if q.fields == nil {
		q.fields = map[string]string{}
	}
	q.fields[name] = msg
}

func (q *queryReader) int(name string) int {
	raw := strings.TrimSpace(q.r.URL.Query().Get(name))
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(name, "must be an integer")
		return 0
	}
	return v
}

func (q *queryReader) bool(name string) *bool {
	raw := strings.TrimSpace(q.r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(name, "must be a boolean")
		return nil
	}
	return &v
}

func (q *queryReader) string(name string) string {
	return strings.TrimSpace(q.r.URL.Query().Get(name))
}

// parsePage reads skip and limit. A nil map means the parameters are valid.
func parsePage(r *http.Request) (pageParams, map[string]string) {
	q := &queryReader{r: r}
	p := pageParams{Skip: q.int("skip"), Limit: q.int("limit")}
	if q.fields != nil {
		return p, q.fields
	}
	return p, paramErrors(p)
}

func parseListContent(r *http.Request) (listContentParams, map[string]string) {
	q := &queryReader{r: r}
	p := listContentParams{
		pageParams:  pageParams{Skip: q.int("skip"), Limit: q.int("limit")},
		ContentType: q.string("type"),
		Featured:    q.bool("featured"),
		Trending:    q.bool("trending"),
		Category:    q.string("category"),
		SortBy:      q.string("sort_by"),
		Query:       q.string("q"),
	}
	if q.fields != nil {
		return p, q.fields
	}
	return p, paramErrors(p)
}
