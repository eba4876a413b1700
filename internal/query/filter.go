package query

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultLimit is the page size when the client does not ask for one.
const DefaultLimit = 30

// Filter is a parsed /api/news query. The zero value of a field means
// "no constraint"; the legacy "all" wildcard is normalized away at parse
// time so it can never collide with a source literally named "all".
type Filter struct {
	Page     int
	Limit    int
	Source   string
	Category string
	Year     string
	Month    string
	Day      string
	Date     string
	Hour     string
	Search   string
}

// ParseFilter builds a Filter from URL query values. Non-numeric or
// out-of-range page/limit values fall back to safe defaults instead of
// producing negative offsets.
func ParseFilter(values url.Values) Filter {
	f := Filter{Page: 1, Limit: DefaultLimit}

	if p, err := strconv.Atoi(values.Get("page")); err == nil && p >= 1 {
		f.Page = p
	}
	if l, err := strconv.Atoi(values.Get("limit")); err == nil && l >= 1 {
		f.Limit = l
	}

	f.Source = normalize(values.Get("source"))
	f.Category = normalize(values.Get("category"))
	f.Year = normalize(values.Get("year"))
	f.Month = normalize(values.Get("month"))
	f.Day = normalize(values.Get("day"))
	f.Date = normalize(values.Get("date"))
	f.Hour = normalize(values.Get("hour"))

	search := strings.TrimSpace(values.Get("search"))
	if search == "" {
		// Legacy clients send ?q=.
		search = strings.TrimSpace(values.Get("q"))
	}
	f.Search = search

	return f
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == "all" {
		return ""
	}
	return v
}

// CacheKey serializes the full filter into a deterministic response-cache
// key. Unset fields render as "all" to keep keys readable in diagnostics.
func (f Filter) CacheKey() string {
	parts := []string{
		"api",
		strconv.Itoa(f.Page),
		strconv.Itoa(f.Limit),
		orAll(f.Source),
		orAll(f.Category),
		orAll(f.Year),
		orAll(f.Month),
		orAll(f.Day),
		orAll(f.Date),
		orAll(f.Hour),
		orAll(f.Search),
	}
	return strings.Join(parts, "_")
}

func orAll(v string) string {
	if v == "" {
		return "all"
	}
	return v
}

// pad2 left-pads single-digit month/day path values.
func pad2(v string) string {
	if len(v) == 1 {
		return "0" + v
	}
	return v
}
