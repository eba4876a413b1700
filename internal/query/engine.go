// Package query resolves filter requests against the archive, loading the
// fewest day partitions possible before filtering, sorting and paginating.
package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/saatdakika/backend/internal/archive"
	"github.com/saatdakika/backend/internal/cache"
	"github.com/saatdakika/backend/internal/model"
	"github.com/saatdakika/backend/internal/slug"
)

// DefaultWindowDays bounds how far back an unfiltered request scans.
// Requests without any date constraint read today plus this many prior
// days instead of the whole archive.
const DefaultWindowDays = 30

// Engine answers filtered, paginated article queries, cache-first.
type Engine struct {
	store      *archive.Store
	caches     *cache.Caches
	windowDays int
	now        func() time.Time
}

// New creates an engine over store and caches. windowDays <= 0 selects
// DefaultWindowDays.
func New(store *archive.Store, caches *cache.Caches, windowDays int) *Engine {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Engine{
		store:      store,
		caches:     caches,
		windowDays: windowDays,
		now:        time.Now,
	}
}

func (e *Engine) todayKey() string {
	return model.DateKey(e.now())
}

// Today returns today's partition, cache-first.
func (e *Engine) Today() []model.Article {
	key := e.todayKey()
	if articles, ok := e.caches.Today.Get(key); ok {
		return articles
	}
	articles := e.store.ReadDay(key)
	if articles == nil {
		articles = []model.Article{}
	}
	e.caches.Today.Set(key, articles)
	return articles
}

// Day returns the partition for dateKey, substituting the today cache
// when dateKey is the current date.
func (e *Engine) Day(dateKey string) []model.Article {
	if dateKey == e.todayKey() {
		return e.Today()
	}
	return e.store.ReadDay(dateKey)
}

// Execute answers the filter from the response cache, or computes,
// caches and returns a fresh page.
func (e *Engine) Execute(f Filter) model.NewsResponse {
	key := f.CacheKey()
	if v, ok := e.caches.Responses.Get(key); ok {
		if resp, ok := v.(model.NewsResponse); ok {
			return resp
		}
	}

	merged := e.collect(f)
	filtered := applyFilters(merged, f)

	// Partitions arrive individually sorted, but the merge is only
	// partition-ordered; re-establish global created_at order.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt > filtered[j].CreatedAt
	})

	resp := paginate(filtered, f.Page, f.Limit)
	e.caches.Responses.Set(key, resp)
	return resp
}

// collect loads the minimal partition set the date constraints allow.
func (e *Engine) collect(f Filter) []model.Article {
	switch {
	case f.Year != "" && f.Month != "" && f.Day != "":
		dateKey := fmt.Sprintf("%s-%s-%s", f.Year, pad2(f.Month), pad2(f.Day))
		return e.Day(dateKey)

	case f.Year != "" && f.Month != "":
		return e.collectMonth(f.Year, pad2(f.Month))

	case f.Year != "":
		var out []model.Article
		for _, month := range e.store.ListMonths(f.Year) {
			out = append(out, e.collectMonth(f.Year, month)...)
		}
		return out

	default:
		// Bounded recency window: today plus the prior windowDays.
		out := append([]model.Article(nil), e.Today()...)
		now := e.now().UTC()
		for i := 1; i <= e.windowDays; i++ {
			out = append(out, e.store.ReadDay(model.DateKey(now.AddDate(0, 0, -i)))...)
		}
		return out
	}
}

func (e *Engine) collectMonth(year, month string) []model.Article {
	var out []model.Article
	for _, day := range e.store.ListDays(year, month) {
		out = append(out, e.Day(year+"-"+month+"-"+day)...)
	}
	return out
}

func applyFilters(articles []model.Article, f Filter) []model.Article {
	out := articles
	if f.Date != "" {
		out = keep(out, func(a model.Article) bool { return a.DateKey == f.Date })
	}
	if f.Source != "" {
		out = keep(out, func(a model.Article) bool { return slug.Match(a.Source, f.Source) })
	}
	if f.Category != "" {
		out = keep(out, func(a model.Article) bool { return slug.Match(a.Category, f.Category) })
	}
	if f.Hour != "" {
		out = keep(out, func(a model.Article) bool { return a.HourKey == f.Hour })
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		out = keep(out, func(a model.Article) bool {
			return strings.Contains(strings.ToLower(a.Title), term) ||
				strings.Contains(strings.ToLower(a.Description), term) ||
				strings.Contains(strings.ToLower(a.Source), term)
		})
	}
	return out
}

func keep(articles []model.Article, pred func(model.Article) bool) []model.Article {
	var out []model.Article
	for _, a := range articles {
		if pred(a) {
			out = append(out, a)
		}
	}
	return out
}

func paginate(articles []model.Article, page, limit int) model.NewsResponse {
	// Filters built by hand can carry zero values; ParseFilter already
	// coerces, but the page math must never divide by zero.
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	total := len(articles)
	offset := (page - 1) * limit

	slice := []model.Article{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		slice = articles[offset:end]
	}

	return model.NewsResponse{
		News: slice,
		Pagination: model.Pagination{
			Current: page,
			Total:   (total + limit - 1) / limit,
			Count:   total,
		},
	}
}
