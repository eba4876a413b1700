// Package cache implements the four in-memory TTL caches fronting the
// archive: today's news, per-query API responses, archive aggregates, and
// metadata. Caches are strictly derived views; on any miss the caller
// recomputes from the archive store.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/saatdakika/backend/internal/model"
)

// TTLs per cache tier.
const (
	TodayTTL    = 5 * time.Minute
	ResponseTTL = 2 * time.Minute
	ArchiveTTL  = 30 * time.Minute
	MetadataTTL = 10 * time.Minute
)

type entry struct {
	data       any
	lastUpdate time.Time
}

// TTLCache is a mutex-guarded keyed cache with hit/miss accounting.
// Expired entries are dropped lazily on Get and in bulk by Sweep.
type TTLCache struct {
	mu     sync.RWMutex
	ttl    time.Duration
	items  map[string]entry
	hits   int64
	misses int64
	now    func() time.Time
}

func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:   ttl,
		items: make(map[string]entry),
		now:   time.Now,
	}
}

// Get returns the cached value for key if present and fresh.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.now().Sub(e.lastUpdate) >= c.ttl {
		delete(c.items, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return e.data, true
}

// Set inserts or refreshes key.
func (c *TTLCache) Set(key string, v any) {
	c.mu.Lock()
	c.items[key] = entry{data: v, lastUpdate: c.now()}
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]entry)
	c.mu.Unlock()
}

// Sweep evicts expired entries and reports how many were removed.
func (c *TTLCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.items {
		if now.Sub(e.lastUpdate) >= c.ttl {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// Len returns the current entry count.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Keys returns up to limit cache keys, sorted, for diagnostics.
func (c *TTLCache) Keys(limit int) []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	c.mu.RUnlock()

	sort.Strings(keys)
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

// TodayCache holds the single "today" partition, validated against the
// current date key so a stale yesterday-list can never be served after
// midnight rollover.
type TodayCache struct {
	mu         sync.RWMutex
	ttl        time.Duration
	articles   []model.Article
	key        string
	lastUpdate time.Time
	hits       int64
	misses     int64
	now        func() time.Time
}

func NewTodayCache(ttl time.Duration) *TodayCache {
	return &TodayCache{ttl: ttl, now: time.Now}
}

// Get returns today's articles if cached under todayKey and still fresh.
// Callers get their own copy; handlers sort result slices in place and
// must not reorder the cached list.
func (c *TodayCache) Get(todayKey string) ([]model.Article, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.articles == nil || c.key != todayKey || c.now().Sub(c.lastUpdate) >= c.ttl {
		c.misses++
		return nil, false
	}
	c.hits++
	return append([]model.Article{}, c.articles...), true
}

// Set replaces the cached today list. Used both on cache miss rebuilds and
// for in-place updates after ingestion. The cache keeps its own copy so
// the caller's slice stays independent.
func (c *TodayCache) Set(todayKey string, articles []model.Article) {
	c.mu.Lock()
	c.articles = append([]model.Article{}, articles...)
	c.key = todayKey
	c.lastUpdate = c.now()
	c.mu.Unlock()
}

// Clear empties the cache.
func (c *TodayCache) Clear() {
	c.mu.Lock()
	c.articles = nil
	c.key = ""
	c.lastUpdate = time.Time{}
	c.mu.Unlock()
}

// Metadata is the cached sources/years/dates snapshot.
type Metadata struct {
	Sources []string
	Years   []string
	Dates   []string
}

// MetadataCache holds a single Metadata value under a TTL.
type MetadataCache struct {
	mu         sync.RWMutex
	ttl        time.Duration
	data       *Metadata
	lastUpdate time.Time
	hits       int64
	misses     int64
	now        func() time.Time
}

func NewMetadataCache(ttl time.Duration) *MetadataCache {
	return &MetadataCache{ttl: ttl, now: time.Now}
}

func (c *MetadataCache) Get() (*Metadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data == nil || c.now().Sub(c.lastUpdate) >= c.ttl {
		c.misses++
		return nil, false
	}
	c.hits++
	return c.data, true
}

func (c *MetadataCache) Set(m *Metadata) {
	c.mu.Lock()
	c.data = m
	c.lastUpdate = c.now()
	c.mu.Unlock()
}

func (c *MetadataCache) Clear() {
	c.mu.Lock()
	c.data = nil
	c.lastUpdate = time.Time{}
	c.mu.Unlock()
}

// Caches bundles the four cache tiers. Constructed once at startup and
// passed explicitly; there is no package-level cache state.
type Caches struct {
	Today     *TodayCache
	Responses *TTLCache
	Archives  *TTLCache
	Metadata  *MetadataCache
}

func New() *Caches {
	return &Caches{
		Today:     NewTodayCache(TodayTTL),
		Responses: NewTTLCache(ResponseTTL),
		Archives:  NewTTLCache(ArchiveTTL),
		Metadata:  NewMetadataCache(MetadataTTL),
	}
}

// OnIngest applies the invalidation protocol after an ingestion cycle that
// added at least one article: the today list is updated in place (keeping
// the hottest cache warm), query responses and metadata are cleared, and
// the archive tier is left alone since past partitions do not change.
func (c *Caches) OnIngest(todayKey string, today []model.Article) {
	c.Today.Set(todayKey, today)
	c.Responses.Clear()
	c.Metadata.Clear()
}

// InvalidateAll resets every tier including archives.
func (c *Caches) InvalidateAll() {
	c.Today.Clear()
	c.Responses.Clear()
	c.Archives.Clear()
	c.Metadata.Clear()
}

// Sweep evicts expired response and archive entries. The today and
// metadata tiers hold one value each and need no sweeping.
func (c *Caches) Sweep() (responses, archives int) {
	return c.Responses.Sweep(), c.Archives.Sweep()
}
