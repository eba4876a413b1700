package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/saatdakika/backend/internal/model"
	"github.com/saatdakika/backend/internal/query"
	"github.com/saatdakika/backend/internal/slug"
)

// Sitemap bounds. The archive grows without limit, so deep sections are
// restricted to recent history and the page count per day is capped.
const (
	sitemapMonthYears   = 2
	sitemapDayMonths    = 3
	sitemapMaxDayPages  = 10
	sitemapSources      = 10
	sitemapSourceDates  = 7
	sitemapMaxSrcPages  = 5
	sitemapSourceWindow = 30
)

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(s.buildSitemap(time.Now())))
}

func (s *Server) buildSitemap(now time.Time) string {
	var b strings.Builder
	base := s.cfg.SiteURL
	today := model.DateKey(now)

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")

	addURL(&b, base, today, "hourly", "1.0")

	for _, year := range s.store.ListYears() {
		months := s.store.ListMonths(year)
		addURL(&b, base+"/"+year, s.monthLastMod(year, months, today), "daily", "0.9")

		y, err := strconv.Atoi(year)
		if err != nil || y < now.Year()-sitemapMonthYears+1 {
			continue
		}

		for _, month := range months {
			days := s.store.ListDays(year, month)
			monthMod := s.dayLastMod(year, month, days, today)
			addURL(&b, base+"/"+year+"/"+month, monthMod, "daily", "0.8")

			m, err := strconv.Atoi(month)
			if err != nil || monthsBetween(now, y, m) > sitemapDayMonths {
				continue
			}

			for _, day := range days {
				dateKey := year + "-" + month + "-" + day
				articles := s.store.ReadDay(dateKey)
				mod := today
				if len(articles) > 0 {
					mod = lastModOf(articles[0].CreatedAt, today)
				}
				loc := base + "/" + year + "/" + month + "/" + day
				addURL(&b, loc, mod, "hourly", "0.9")

				for page := 2; page <= pageCount(len(articles), sitemapMaxDayPages); page++ {
					addURL(&b, fmt.Sprintf("%s/%d", loc, page), mod, "hourly", "0.7")
				}
			}
		}
	}

	s.appendSourceURLs(&b, base, now, today)

	b.WriteString("</urlset>\n")
	return b.String()
}

// appendSourceURLs emits per-source day pages for the configured sources,
// covering their recent activity.
func (s *Server) appendSourceURLs(b *strings.Builder, base string, now time.Time, today string) {
	sources := s.feeds.Sources()
	if len(sources) > sitemapSources {
		sources = sources[:sitemapSources]
	}
	if len(sources) == 0 {
		return
	}

	windowStart := model.DateKey(now.AddDate(0, 0, -sitemapSourceWindow))

	type dayRef struct {
		dateKey string
		count   int
		lastMod string
	}
	bySource := make(map[string][]dayRef)
	for _, dateKey := range s.store.DateKeys() {
		if dateKey < windowStart {
			break
		}
		counts := make(map[string]int)
		mods := make(map[string]string)
		for _, a := range s.store.ReadDay(dateKey) {
			counts[a.Source]++
			if _, ok := mods[a.Source]; !ok {
				mods[a.Source] = lastModOf(a.CreatedAt, today)
			}
		}
		for src, n := range counts {
			bySource[src] = append(bySource[src], dayRef{dateKey, n, mods[src]})
		}
	}

	for _, source := range sources {
		refs := bySource[source]
		if len(refs) > sitemapSourceDates {
			refs = refs[:sitemapSourceDates]
		}
		srcSlug := slug.Make(source)
		for _, ref := range refs {
			loc := base + "/source/" + srcSlug + "/" + strings.ReplaceAll(ref.dateKey, "-", "/")
			addURL(b, loc, ref.lastMod, "hourly", "0.8")

			for page := 2; page <= pageCount(ref.count, sitemapMaxSrcPages); page++ {
				addURL(b, fmt.Sprintf("%s/%d", loc, page), ref.lastMod, "hourly", "0.6")
			}
		}
	}
}

// monthLastMod finds the newest article date within a year.
func (s *Server) monthLastMod(year string, months []string, fallback string) string {
	if len(months) == 0 {
		return fallback
	}
	return s.dayLastMod(year, months[0], s.store.ListDays(year, months[0]), fallback)
}

// dayLastMod finds the newest article date within a month. Listings are
// descending, so the first day is the most recent.
func (s *Server) dayLastMod(year, month string, days []string, fallback string) string {
	if len(days) == 0 {
		return fallback
	}
	articles := s.store.ReadDay(year + "-" + month + "-" + days[0])
	if len(articles) == 0 {
		return fallback
	}
	return lastModOf(articles[0].CreatedAt, fallback)
}

func lastModOf(createdAt, fallback string) string {
	if len(createdAt) >= len(model.DateKeyLayout) {
		return createdAt[:len(model.DateKeyLayout)]
	}
	return fallback
}

func pageCount(articles, maxPages int) int {
	if articles <= query.DefaultLimit {
		return 1
	}
	pages := (articles + query.DefaultLimit - 1) / query.DefaultLimit
	if pages > maxPages {
		return maxPages
	}
	return pages
}

func monthsBetween(now time.Time, year, month int) int {
	return (now.Year()-year)*12 + int(now.Month()) - month
}

func addURL(b *strings.Builder, loc, lastmod, changefreq, priority string) {
	fmt.Fprintf(b, "  <url>\n    <loc>%s</loc>\n    <lastmod>%s</lastmod>\n    <changefreq>%s</changefreq>\n    <priority>%s</priority>\n  </url>\n",
		loc, lastmod, changefreq, priority)
}
