// Package server provides the HTTP API over the archive, caches, query
// engine, and ingestion driver.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/saatdakika/backend/internal/archive"
	"github.com/saatdakika/backend/internal/cache"
	"github.com/saatdakika/backend/internal/config"
	"github.com/saatdakika/backend/internal/feedconf"
	"github.com/saatdakika/backend/internal/ingest"
	"github.com/saatdakika/backend/internal/logger"
	jsonpkg "github.com/saatdakika/backend/internal/pkg/json"
	"github.com/saatdakika/backend/internal/query"
)

// sweepInterval is how often expired cache entries are evicted in bulk.
const sweepInterval = time.Hour

// Server is the main HTTP server.
type Server struct {
	cfg      *config.Config
	store    *archive.Store
	caches   *cache.Caches
	engine   *query.Engine
	feeds    *feedconf.List
	ingestor *ingest.Ingestor
	router   chi.Router
	start    time.Time

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a new server wired to the given components.
func New(cfg *config.Config, store *archive.Store, caches *cache.Caches, engine *query.Engine, feeds *feedconf.List, ingestor *ingest.Ingestor) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		caches:   caches,
		engine:   engine,
		feeds:    feeds,
		ingestor: ingestor,
		start:    time.Now(),
		stopChan: make(chan struct{}),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/news", s.handleNews)
		r.Get("/years", s.handleYears)
		r.Get("/months/{year}", s.handleMonths)
		r.Get("/days/{year}/{month}", s.handleDays)
		r.Get("/hours/{date}", s.handleHours)
		r.Get("/dates", s.handleDates)

		r.Get("/archive/{year}", s.handleArchiveYear)
		r.Get("/archive/{year}/{month}", s.handleArchiveMonth)
		r.Get("/archive/{year}/{month}/{day}", s.handleArchiveDay)

		r.Get("/sources", s.handleSources)
		r.Get("/categories", s.handleCategories)
		r.Get("/feeds", s.handleFeeds)
		r.Get("/stats", s.handleStats)
		r.Get("/cache-status", s.handleCacheStatus)
		r.Get("/rss", s.handleRSS)
		r.Get("/sitemap.xml", s.handleSitemap)

		r.Post("/fetch", s.handleFetch)
		r.Post("/reload-feeds", s.handleReloadFeeds)
		r.Post("/clear-cache", s.handleClearCache)
	})

	s.router = r
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// StartSweeper launches the periodic cache eviction loop.
func (s *Server) StartSweeper() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				responses, archives := s.caches.Sweep()
				logger.Log.Info("Cache sweep complete",
					zap.Int("responses_evicted", responses),
					zap.Int("archives_evicted", archives))
			}
		}
	}()
}

// Stop halts the sweeper.
func (s *Server) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := jsonpkg.Marshal(v)
	if err != nil {
		logger.Log.Error("Response encoding failed", zap.Error(err))
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
