package query

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/saatdakika/backend/internal/archive"
	"github.com/saatdakika/backend/internal/cache"
	"github.com/saatdakika/backend/internal/model"
	jsonpkg "github.com/saatdakika/backend/internal/pkg/json"
)

func testEngine(t *testing.T) (*Engine, *archive.Store, *cache.Caches) {
	t.Helper()
	store, err := archive.NewStore(filepath.Join(t.TempDir(), "news_archive"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	caches := cache.New()
	return New(store, caches, 0), store, caches
}

func seed(t *testing.T, store *archive.Store, title, source, category, dateKey string, at time.Time) {
	t.Helper()
	a := model.Article{
		ID:          title,
		Title:       title,
		Link:        "https://example.com/" + url.PathEscape(title),
		Source:      source,
		Category:    category,
		Description: "açıklama: " + title,
		ContentHash: fmt.Sprintf("%x", title),
		CreatedAt:   model.FormatTime(at),
		PubDate:     model.FormatTime(at),
		DateKey:     dateKey,
		HourKey:     dateKey + "T" + at.UTC().Format("15"),
	}
	if _, err := store.Append(a); err != nil {
		t.Fatalf("seed %s: %v", title, err)
	}
}

func TestParseFilterCoercion(t *testing.T) {
	v := url.Values{"page": {"abc"}, "limit": {"-5"}, "source": {"all"}, "search": {" ekonomi "}}
	f := ParseFilter(v)
	if f.Page != 1 {
		t.Errorf("page = %d, want 1", f.Page)
	}
	if f.Limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", f.Limit, DefaultLimit)
	}
	if f.Source != "" {
		t.Errorf("source %q should normalize to unset", f.Source)
	}
	if f.Search != "ekonomi" {
		t.Errorf("search = %q", f.Search)
	}
}

func TestParseFilterLegacyQ(t *testing.T) {
	f := ParseFilter(url.Values{"q": {"spor"}})
	if f.Search != "spor" {
		t.Errorf("q param not honored: %q", f.Search)
	}
}

func TestCacheKeyDistinguishesFilters(t *testing.T) {
	a := ParseFilter(url.Values{"page": {"1"}})
	b := ParseFilter(url.Values{"page": {"2"}})
	if a.CacheKey() == b.CacheKey() {
		t.Error("different pages must produce different cache keys")
	}
	c := ParseFilter(url.Values{"source": {"TRT Haber"}})
	if a.CacheKey() == c.CacheKey() {
		t.Error("source filter must change the cache key")
	}
}

func TestPaginationInvariant(t *testing.T) {
	e, store, _ := testEngine(t)
	base := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seed(t, store, fmt.Sprintf("haber-%02d", i), "TRT Haber", "Gündem", "2025-03-10", base.Add(time.Duration(i)*time.Minute))
	}

	f := Filter{Page: 1, Limit: 10, Year: "2025", Month: "3", Day: "10"}
	first := e.Execute(f)
	if first.Pagination.Count != 25 || first.Pagination.Total != 3 {
		t.Fatalf("pagination = %+v", first.Pagination)
	}

	seen := make(map[string]bool)
	sum := 0
	for page := 1; page <= first.Pagination.Total; page++ {
		f.Page = page
		resp := e.Execute(f)
		sum += len(resp.News)
		for _, a := range resp.News {
			if seen[a.ID] {
				t.Errorf("article %s appears on two pages", a.ID)
			}
			seen[a.ID] = true
		}
	}
	if sum != first.Pagination.Count {
		t.Errorf("page sizes sum to %d, want %d", sum, first.Pagination.Count)
	}
}

func TestPageBeyondEndIsEmpty(t *testing.T) {
	e, store, _ := testEngine(t)
	seed(t, store, "tek", "TRT Haber", "Gündem", "2025-03-10", time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))

	resp := e.Execute(Filter{Page: 99, Limit: 30, Year: "2025", Month: "03", Day: "10"})
	if len(resp.News) != 0 {
		t.Errorf("expected empty page, got %d", len(resp.News))
	}
	if resp.News == nil {
		t.Error("news must serialize as [], not null")
	}
}

func TestSlugEquivalence(t *testing.T) {
	e, store, caches := testEngine(t)
	at := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	seed(t, store, "sabah haberi", "Sabah Gazetesi", "Gündem", "2025-03-10", at)
	seed(t, store, "diger haber", "Hürriyet", "Gündem", "2025-03-10", at.Add(time.Minute))

	exact := e.Execute(Filter{Page: 1, Limit: 30, Year: "2025", Month: "03", Day: "10", Source: "Sabah Gazetesi"})
	caches.Responses.Clear()
	slugged := e.Execute(Filter{Page: 1, Limit: 30, Year: "2025", Month: "03", Day: "10", Source: "sabah-gazetesi"})

	if len(exact.News) != 1 || len(slugged.News) != 1 {
		t.Fatalf("exact=%d slugged=%d, want 1/1", len(exact.News), len(slugged.News))
	}
	if exact.News[0].ID != slugged.News[0].ID {
		t.Error("slug and exact filters should return identical articles")
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	e, store, _ := testEngine(t)
	at := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	seed(t, store, "Ekonomi Raporu", "TRT Haber", "Ekonomi", "2025-03-10", at)
	seed(t, store, "Spor Haberi", "TRT Haber", "Spor", "2025-03-10", at.Add(time.Minute))

	resp := e.Execute(Filter{Page: 1, Limit: 30, Year: "2025", Month: "03", Day: "10", Search: "ekonomi"})
	if len(resp.News) != 1 || resp.News[0].Title != "Ekonomi Raporu" {
		t.Fatalf("search results = %+v", resp.News)
	}
}

func TestHourFilter(t *testing.T) {
	e, store, _ := testEngine(t)
	seed(t, store, "sabah", "TRT Haber", "Gündem", "2025-03-10", time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))
	seed(t, store, "aksam", "TRT Haber", "Gündem", "2025-03-10", time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC))

	resp := e.Execute(Filter{Page: 1, Limit: 30, Year: "2025", Month: "03", Day: "10", Hour: "2025-03-10T18"})
	if len(resp.News) != 1 || resp.News[0].Title != "aksam" {
		t.Fatalf("hour filter results = %+v", resp.News)
	}
}

func TestDefaultWindowBounds(t *testing.T) {
	e, store, _ := testEngine(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }

	seed(t, store, "bugun", "TRT Haber", "Gündem", "2025-03-10", now)
	seed(t, store, "hafta-ici", "TRT Haber", "Gündem", "2025-03-01", now.AddDate(0, 0, -9))
	seed(t, store, "cok-eski", "TRT Haber", "Gündem", "2025-01-01", now.AddDate(0, 0, -68))

	resp := e.Execute(Filter{Page: 1, Limit: 30})
	if resp.Pagination.Count != 2 {
		t.Fatalf("window query returned %d articles, want 2", resp.Pagination.Count)
	}
	for _, a := range resp.News {
		if a.Title == "cok-eski" {
			t.Error("article outside the recency window must not appear")
		}
	}
}

func TestResponseCacheHit(t *testing.T) {
	e, store, caches := testEngine(t)
	seed(t, store, "haber", "TRT Haber", "Gündem", "2025-03-10", time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))

	f := Filter{Page: 1, Limit: 30, Year: "2025", Month: "03", Day: "10"}
	e.Execute(f)
	before := caches.Responses.Status().Hits
	e.Execute(f)
	if after := caches.Responses.Status().Hits; after != before+1 {
		t.Errorf("second identical query should hit the response cache (hits %d -> %d)", before, after)
	}
}

func TestCategoryFilter(t *testing.T) {
	e, store, _ := testEngine(t)
	at := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	seed(t, store, "mac sonucu", "Fanatik", "Spor", "2025-03-10", at)
	seed(t, store, "faiz karari", "Bloomberg HT", "Ekonomi", "2025-03-10", at.Add(time.Minute))

	resp := e.Execute(Filter{Page: 1, Limit: 30, Year: "2025", Month: "03", Day: "10", Category: "spor"})
	if len(resp.News) != 1 || resp.News[0].Category != "Spor" {
		t.Fatalf("category filter results = %+v", resp.News)
	}
}

func TestExecuteLeavesTodayCacheIntact(t *testing.T) {
	e, store, caches := testEngine(t)
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	// Partition written verbatim in ascending created_at order; ReadDay
	// serves disk contents as-is.
	var articles []model.Article
	for i := 0; i < 5; i++ {
		at := fixed.Add(time.Duration(i) * time.Minute)
		articles = append(articles, model.Article{
			ID:        fmt.Sprintf("%d", i),
			Title:     fmt.Sprintf("Haber %d", i),
			CreatedAt: model.FormatTime(at),
			DateKey:   "2025-03-10",
		})
	}
	dir := filepath.Join(store.Root(), "2025", "03")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := jsonpkg.Marshal(articles)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2025-03-10.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	if today := e.Today(); len(today) != 5 {
		t.Fatalf("today = %d articles, want 5", len(today))
	}

	e.Execute(Filter{Year: "2025", Month: "03", Day: "10", Page: 1, Limit: DefaultLimit})

	cached, ok := caches.Today.Get("2025-03-10")
	if !ok {
		t.Fatal("today cache gone after query")
	}
	if cached[0].ID != "0" {
		t.Errorf("query reordered the cached today list: first id = %q, want \"0\"", cached[0].ID)
	}
}

func TestExecuteHandBuiltFilterZeroValues(t *testing.T) {
	e, store, _ := testEngine(t)
	now := time.Now().UTC()
	seed(t, store, "Bugün haberi", "TRT Haber", "Gündem", model.DateKey(now), now)

	resp := e.Execute(Filter{})
	if resp.Pagination.Current != 1 {
		t.Errorf("current = %d, want 1", resp.Pagination.Current)
	}
	if resp.Pagination.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Pagination.Total)
	}
	if len(resp.News) != 1 {
		t.Errorf("news = %d articles, want 1", len(resp.News))
	}
}
