// Package ingest implements the feed-to-archive pipeline: fetch and parse
// each configured feed, clean and deduplicate the items, persist them to
// the archive, and apply the cache invalidation protocol.
package ingest

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/saatdakika/backend/internal/archive"
	"github.com/saatdakika/backend/internal/cache"
	"github.com/saatdakika/backend/internal/classify"
	"github.com/saatdakika/backend/internal/feedconf"
	"github.com/saatdakika/backend/internal/logger"
	"github.com/saatdakika/backend/internal/model"
)

const userAgent = "Mozilla/5.0 (compatible; SaatDakikaBot/1.0)"

// Classifier assigns a category given an article's text and the feed's
// declared category.
type Classifier func(title, description, feedCategory string) string

// Ingestor runs ingestion cycles. Cycles are serialized by an internal
// mutex so the background poller and POST /fetch can never interleave
// appends to the archive.
type Ingestor struct {
	mu       sync.Mutex
	store    *archive.Store
	caches   *cache.Caches
	feeds    *feedconf.List
	parser   *gofeed.Parser
	classify Classifier
	now      func() time.Time

	// lastRun has its own lock: stats requests must not wait out an
	// in-flight cycle holding mu.
	lastMu  sync.Mutex
	lastRun time.Time
}

// New builds an Ingestor. classifier may be nil, in which case the
// keyword classifier is used with the feed category as fallback.
func New(store *archive.Store, caches *cache.Caches, feeds *feedconf.List, client *http.Client, classifier Classifier) *Ingestor {
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent

	if classifier == nil {
		classifier = classify.Classify
	}
	return &Ingestor{
		store:    store,
		caches:   caches,
		feeds:    feeds,
		parser:   parser,
		classify: classifier,
		now:      time.Now,
	}
}

// ContentHash returns the dedup identity of a (title, link) pair.
func ContentHash(title, link string) string {
	sum := md5.Sum([]byte(title + link))
	return hex.EncodeToString(sum[:])
}

// RunCycle fetches every configured feed once and persists the new items.
// One feed failing never aborts the batch. Returns the number of articles
// added across all feeds.
func (ing *Ingestor) RunCycle(ctx context.Context) int {
	ing.mu.Lock()
	defer ing.mu.Unlock()

	start := ing.now()
	totalNew := 0

	for _, feed := range ing.feeds.Feeds() {
		select {
		case <-ctx.Done():
			logger.Log.Warn("Ingestion cycle cancelled", zap.Error(ctx.Err()))
			ing.finishCycle(totalNew)
			return totalNew
		default:
		}

		parsed, err := ing.parser.ParseURLWithContext(feed.URL, ctx)
		if err != nil {
			logger.Log.Warn("Feed fetch failed",
				zap.String("feed", feed.Name),
				zap.String("url", feed.URL),
				zap.Error(err))
			continue
		}

		added := 0
		for _, item := range parsed.Items {
			article, ok := ing.buildArticle(feed, item)
			if !ok {
				continue
			}
			stored, err := ing.store.Append(article)
			if err != nil {
				logger.Log.Warn("Append failed",
					zap.String("title", article.Title), zap.Error(err))
				continue
			}
			if stored {
				added++
			}
		}
		totalNew += added
		logger.Log.Debug("Feed processed",
			zap.String("feed", feed.Name),
			zap.Int("items", len(parsed.Items)),
			zap.Int("new", added))
	}

	ing.finishCycle(totalNew)
	logger.Log.Info("Ingestion cycle finished",
		zap.Int("new_articles", totalNew),
		zap.Duration("took", ing.now().Sub(start)))
	return totalNew
}

// finishCycle applies the cache protocol: only a batch that added
// something touches the caches, and then the today list is refreshed in
// place rather than dropped.
func (ing *Ingestor) finishCycle(totalNew int) {
	ing.lastMu.Lock()
	ing.lastRun = ing.now()
	ing.lastMu.Unlock()
	if totalNew == 0 {
		return
	}
	todayKey := model.DateKey(ing.now())
	today := ing.store.ReadDay(todayKey)
	if today == nil {
		today = []model.Article{}
	}
	ing.caches.OnIngest(todayKey, today)
}

// buildArticle turns one raw feed item into a stored article. Items
// without both a title and a link are skipped.
func (ing *Ingestor) buildArticle(feed feedconf.Feed, item *gofeed.Item) (model.Article, bool) {
	if item.Title == "" || item.Link == "" {
		return model.Article{}, false
	}

	now := ing.now()
	pubDate := now
	if item.PublishedParsed != nil {
		pubDate = *item.PublishedParsed
	}

	title := CleanText(item.Title)
	description := CleanText(firstNonEmpty(item.Description, item.Content))
	description = Truncate(description)

	return model.Article{
		ID:          uuid.NewString(),
		Title:       title,
		Link:        item.Link,
		Description: description,
		PubDate:     model.FormatTime(pubDate),
		Source:      feed.Name,
		Category:    ing.classify(title, description, feed.Category),
		ContentHash: ContentHash(item.Title, item.Link),
		CreatedAt:   model.FormatTime(now),
		DateKey:     model.DateKey(pubDate),
		HourKey:     model.HourKey(pubDate),
		Image:       ExtractImage(item),
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// LastRun reports when the most recent cycle completed. Safe to call
// while a cycle is running.
func (ing *Ingestor) LastRun() time.Time {
	ing.lastMu.Lock()
	defer ing.lastMu.Unlock()
	return ing.lastRun
}
