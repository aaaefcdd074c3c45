package catalog

import "strings"

// NormalizeContentType upper-cases a content type, e.g. "tv_show" -> "TV_SHOW".
func NormalizeContentType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
