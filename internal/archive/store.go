// Package archive provides the date-partitioned flat-file article store.
//
// Layout: root/YEAR/MONTH/YYYY-MM-DD.json holds one day partition (an array
// of articles sorted by created_at descending). Each month and year
// directory additionally carries a derived summary.json. Day partitions are
// the single source of truth; summaries are rebuildable aggregates.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/saatdakika/backend/internal/logger"
	"github.com/saatdakika/backend/internal/model"
	jsonpkg "github.com/saatdakika/backend/internal/pkg/json"
)

// Store owns the on-disk archive. All writes go through a single mutex:
// Append is a read-modify-write of a whole partition file, so concurrent
// writers within the process must be serialized here.
type Store struct {
	mu   sync.RWMutex
	root string
}

// NewStore opens (creating if necessary) the archive rooted at root.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create archive root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the archive root directory.
func (s *Store) Root() string { return s.root }

func splitDateKey(dateKey string) (year, month, day string, err error) {
	parts := strings.Split(dateKey, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return "", "", "", fmt.Errorf("invalid date key %q", dateKey)
	}
	return parts[0], parts[1], parts[2], nil
}

func (s *Store) dayFile(year, month, dateKey string) string {
	return filepath.Join(s.root, year, month, dateKey+".json")
}

// Append inserts article into its day partition unless an article with the
// same content hash is already stored there. Returns whether the article
// was added. Summaries for the affected month and year are regenerated
// after every successful write.
func (s *Store) Append(article model.Article) (bool, error) {
	year, month, _, err := splitDateKey(article.DateKey)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.readDayLocked(article.DateKey)
	for _, existing := range day {
		if existing.ContentHash == article.ContentHash {
			return false, nil
		}
	}

	day = append(day, article)
	sort.SliceStable(day, func(i, j int) bool {
		return day[i].CreatedAt > day[j].CreatedAt
	})

	dir := filepath.Join(s.root, year, month)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create partition dir: %w", err)
	}
	if err := s.writeJSON(s.dayFile(year, month, article.DateKey), day); err != nil {
		return false, fmt.Errorf("write partition %s: %w", article.DateKey, err)
	}

	if err := s.regenerateLocked(year, month); err != nil {
		// Partition write succeeded; summaries stay rebuildable.
		logger.Log.Warn("Summary regeneration failed",
			zap.String("date_key", article.DateKey), zap.Error(err))
	}
	return true, nil
}

// ReadDay returns the day partition for dateKey, or an empty slice if the
// partition does not exist or cannot be read.
func (s *Store) ReadDay(dateKey string) []model.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readDayLocked(dateKey)
}

func (s *Store) readDayLocked(dateKey string) []model.Article {
	year, month, _, err := splitDateKey(dateKey)
	if err != nil {
		return nil
	}
	path := s.dayFile(year, month, dateKey)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn("Partition unreadable",
				zap.String("path", path), zap.Error(err))
		}
		return nil
	}

	var day []model.Article
	if err := jsonpkg.Unmarshal(data, &day); err != nil {
		logger.Log.Warn("Partition malformed",
			zap.String("path", path), zap.Error(err))
		return nil
	}
	return day
}

// ListYears enumerates the archived years, newest first.
func (s *Store) ListYears() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listDirs(s.root)
}

// ListMonths enumerates the archived months of a year, newest first.
func (s *Store) ListMonths(year string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listDirs(filepath.Join(s.root, year))
}

// ListDays enumerates the day numbers archived in a month, newest first.
func (s *Store) ListDays(year, month string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listDaysLocked(year, month)
}

func (s *Store) listDaysLocked(year, month string) []string {
	keys := s.listDayKeysLocked(year, month)
	days := make([]string, 0, len(keys))
	for _, k := range keys {
		days = append(days, k[len(k)-2:])
	}
	return days
}

// listDayKeysLocked returns full date keys present in a month, newest first.
func (s *Store) listDayKeysLocked(year, month string) []string {
	dir := filepath.Join(s.root, year, month)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn("Month unreadable", zap.String("path", dir), zap.Error(err))
		}
		return nil
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == "summary.json" {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// DateKeys returns every archived day key, newest first.
func (s *Store) DateKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for _, year := range s.listDirs(s.root) {
		for _, month := range s.listDirs(filepath.Join(s.root, year)) {
			keys = append(keys, s.listDayKeysLocked(year, month)...)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// listDirs returns the subdirectory names of path, newest (descending) first.
func (s *Store) listDirs(path string) []string {
	entries, err := os.ReadDir(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn("Directory unreadable", zap.String("path", path), zap.Error(err))
		}
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names
}

func (s *Store) writeJSON(path string, v any) error {
	data, err := jsonpkg.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RegenerateSummaries recomputes the month and year summaries covering
// dateKey. Idempotent; summaries are always derivable from day partitions.
func (s *Store) RegenerateSummaries(dateKey string) error {
	year, month, _, err := splitDateKey(dateKey)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regenerateLocked(year, month)
}
