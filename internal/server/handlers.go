package server

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saatdakika/backend/internal/archive"
	"github.com/saatdakika/backend/internal/cache"
	"github.com/saatdakika/backend/internal/model"
	jsonpkg "github.com/saatdakika/backend/internal/pkg/json"
	"github.com/saatdakika/backend/internal/query"
)

// fetchTimeout bounds a manually triggered ingestion cycle.
const fetchTimeout = 2 * time.Minute

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	f := query.ParseFilter(r.URL.Query())
	writeJSON(w, http.StatusOK, s.engine.Execute(f))
}

// metadata returns the cached sources/years/dates snapshot, rebuilding it
// from the feed configuration and the archive on a miss.
func (s *Server) metadata() *cache.Metadata {
	if m, ok := s.caches.Metadata.Get(); ok {
		return m
	}
	m := &cache.Metadata{
		Sources: s.feeds.Sources(),
		Years:   s.store.ListYears(),
		Dates:   s.store.DateKeys(),
	}
	s.caches.Metadata.Set(m)
	return m
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metadata().Years)
}

type monthEntry struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	months := s.store.ListMonths(year)

	entries := make([]monthEntry, 0, len(months))
	for _, m := range months {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		entries = append(entries, monthEntry{Value: m, Name: archive.MonthName(n)})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleDays(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	month := pad2(chi.URLParam(r, "month"))
	writeJSON(w, http.StatusOK, s.store.ListDays(year, month))
}

func (s *Server) handleHours(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	// Partition order is created_at, hour keys derive from pubDate; the
	// two can disagree, so collect distinct keys and sort explicitly.
	seen := make(map[string]struct{})
	hours := []string{}
	for _, a := range s.engine.Day(date) {
		if _, ok := seen[a.HourKey]; ok {
			continue
		}
		seen[a.HourKey] = struct{}{}
		hours = append(hours, a.HourKey)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(hours)))
	writeJSON(w, http.StatusOK, hours)
}

func (s *Server) handleDates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metadata().Dates)
}

func (s *Server) handleArchiveYear(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	key := "archive_" + year
	if cached, ok := s.caches.Archives.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}
	summary := s.store.ReadYearSummary(year)
	s.caches.Archives.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleArchiveMonth(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	month := pad2(chi.URLParam(r, "month"))
	key := "archive_" + year + "_" + month
	if cached, ok := s.caches.Archives.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}
	summary := s.store.ReadMonthSummary(year, month)
	s.caches.Archives.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleArchiveDay(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	month := pad2(chi.URLParam(r, "month"))
	day := pad2(chi.URLParam(r, "day"))
	key := "archive_" + year + "_" + month + "_" + day
	if cached, ok := s.caches.Archives.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	articles := s.store.ReadDay(year + "-" + month + "-" + day)
	if articles == nil {
		articles = []model.Article{}
	}
	s.caches.Archives.Set(key, articles)
	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.feeds.Sources())
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.feeds.Categories())
}

type feedInfo struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
	URL      string `json:"url,omitempty"`
}

func (s *Server) feedInfos(withURL bool) []feedInfo {
	feeds := s.feeds.Feeds()
	infos := make([]feedInfo, 0, len(feeds))
	for _, f := range feeds {
		info := feedInfo{Name: f.Name, Category: f.Category, Priority: f.Priority}
		if withURL {
			info.URL = f.URL
		}
		infos = append(infos, info)
	}
	return infos
}

func (s *Server) handleFeeds(w http.ResponseWriter, r *http.Request) {
	infos := s.feedInfos(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"total_feeds": len(infos),
		"feeds":       infos,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	meta := s.metadata()

	var firstNews, latestNews string
	if keys := meta.Dates; len(keys) > 0 {
		if latest := s.store.ReadDay(keys[0]); len(latest) > 0 {
			latestNews = latest[0].CreatedAt
		}
		if first := s.store.ReadDay(keys[len(keys)-1]); len(first) > 0 {
			firstNews = first[len(first)-1].CreatedAt
		}
	}

	status := s.caches.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"total_news":    s.store.TotalCount(),
		"total_sources": len(meta.Sources),
		"total_days":    len(meta.Dates),
		"first_news":    firstNews,
		"latest_news":   latestNews,
		"last_update":   formatLastRun(s.ingestor.LastRun()),
		"cache_stats": map[string]any{
			"today_news_cached":    status.Today.Count,
			"today_cache_key":      status.Today.Key,
			"api_responses_cached": status.Responses.Count,
			"archives_cached":      status.Archives.Count,
			"metadata_cached":      status.Metadata.Cached,
		},
	})
}

func (s *Server) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"cache_health":   s.caches.Status(),
		"uptime_seconds": int64(time.Since(s.start).Seconds()),
	})
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	added := s.ingestor.RunCycle(ctx)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Haberler başarıyla güncellendi",
		"new_articles": added,
		"total":        s.store.TotalCount(),
		"last_update":  formatLastRun(s.ingestor.LastRun()),
	})
}

func (s *Server) handleReloadFeeds(w http.ResponseWriter, r *http.Request) {
	reloaded := s.feeds.Reload()

	// Sources or categories may have changed; responses and metadata are
	// derived from them. Archive aggregates are not.
	s.caches.Responses.Clear()
	s.caches.Metadata.Clear()

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "RSS feeds başarıyla yeniden yüklendi",
		"total_feeds": len(reloaded),
		"feeds":       s.feedInfos(false),
		"timestamp":   model.FormatTime(time.Now()),
	})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	body, err := io.ReadAll(r.Body)
	if err == nil && len(body) > 0 {
		if err := jsonpkg.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	switch req.Type {
	case "all":
		s.caches.InvalidateAll()
	case "today":
		s.caches.Today.Clear()
	case "api":
		s.caches.Responses.Clear()
	case "archives":
		s.caches.Archives.Clear()
	case "metadata":
		s.caches.Metadata.Clear()
	default:
		writeError(w, http.StatusBadRequest, "Invalid cache type")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Cache " + req.Type + " cleared successfully",
	})
}

func formatLastRun(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return model.FormatTime(t)
}

func pad2(v string) string {
	if len(v) == 1 {
		return "0" + v
	}
	return v
}
