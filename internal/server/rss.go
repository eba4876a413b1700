package server

import (
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/saatdakika/backend/internal/logger"
	"github.com/saatdakika/backend/internal/model"
)

// handleRSS serves today's articles as a site-level RSS feed.
func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	feed := &feeds.Feed{
		Title:       "Saat Dakika - Son Dakika Haberleri",
		Link:        &feeds.Link{Href: s.cfg.SiteURL},
		Description: "Türkiye'nin haber kaynaklarından derlenen son dakika haberleri",
		Created:     now,
	}

	for _, a := range s.engine.Today() {
		created := now
		if t, err := time.Parse(model.TimeLayout, a.CreatedAt); err == nil {
			created = t
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          a.ID,
			Title:       a.Title,
			Link:        &feeds.Link{Href: a.Link},
			Description: a.Description,
			Author:      &feeds.Author{Name: a.Source},
			Created:     created,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		logger.Log.Error("RSS generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "RSS oluşturulamadı")
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(rss))
}
