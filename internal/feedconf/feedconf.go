// Package feedconf loads and serves the RSS feed configuration file.
package feedconf

import (
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/saatdakika/backend/internal/logger"
	jsonpkg "github.com/saatdakika/backend/internal/pkg/json"
)

// Feed is one configured RSS source. The JSON field names match the
// historical rss-feeds.json file, which uses Turkish keys.
type Feed struct {
	URL      string `json:"url"`
	Name     string `json:"kaynak"`
	Category string `json:"kategori"`
	Priority int    `json:"priority"`
	Active   bool   `json:"aktif"`
}

// defaultFeeds is the fallback when the configuration file is missing or
// unreadable; the service must always have something to poll.
var defaultFeeds = []Feed{
	{URL: "https://www.trthaber.com/manset_articles.rss", Name: "TRT Haber", Category: "Manşet", Priority: 1, Active: true},
	{URL: "https://www.haberturk.com/rss/manset.xml", Name: "Habertürk", Category: "Manşet", Priority: 1, Active: true},
}

// List holds the active feed set and supports reloading from disk.
type List struct {
	mu    sync.RWMutex
	path  string
	feeds []Feed
}

// Load reads the feed configuration at path. Missing or malformed files
// fall back to the built-in defaults rather than failing startup.
func Load(path string) *List {
	l := &List{path: path}
	l.Reload()
	return l
}

// Reload re-reads the configuration file and swaps in the new active set.
// Returns the feeds now in effect.
func (l *List) Reload() []Feed {
	feeds := readFeeds(l.path)

	l.mu.Lock()
	l.feeds = feeds
	l.mu.Unlock()

	logger.Log.Info("Feed configuration loaded",
		zap.String("path", l.path),
		zap.Int("active_feeds", len(feeds)))
	return feeds
}

func readFeeds(path string) []Feed {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Log.Warn("Feed file unreadable, using defaults",
			zap.String("path", path), zap.Error(err))
		return append([]Feed(nil), defaultFeeds...)
	}

	var all []Feed
	if err := jsonpkg.Unmarshal(data, &all); err != nil {
		logger.Log.Warn("Feed file malformed, using defaults",
			zap.String("path", path), zap.Error(err))
		return append([]Feed(nil), defaultFeeds...)
	}

	var active []Feed
	for _, f := range all {
		if !f.Active {
			continue
		}
		if f.Priority == 0 {
			f.Priority = 999
		}
		active = append(active, f)
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority < active[j].Priority
	})
	if len(active) == 0 {
		return append([]Feed(nil), defaultFeeds...)
	}
	return active
}

// Feeds returns a copy of the active feed set.
func (l *List) Feeds() []Feed {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Feed(nil), l.feeds...)
}

// Sources returns the unique feed names, sorted.
func (l *List) Sources() []string {
	return l.uniqueSorted(func(f Feed) string { return f.Name })
}

// Categories returns the unique feed categories, sorted.
func (l *List) Categories() []string {
	return l.uniqueSorted(func(f Feed) string { return f.Category })
}

func (l *List) uniqueSorted(field func(Feed) string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := make(map[string]struct{}, len(l.feeds))
	var out []string
	for _, f := range l.feeds {
		v := field(f)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
