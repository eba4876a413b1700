package archive

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/saatdakika/backend/internal/logger"
	"github.com/saatdakika/backend/internal/model"
	jsonpkg "github.com/saatdakika/backend/internal/pkg/json"
)

var turkishMonths = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// MonthName returns the Turkish name of month (1-12), or "" out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return turkishMonths[month-1]
}

const topSourceLimit = 5

// TopSources ranks the sources of articles by count, largest first,
// truncated to the five most frequent.
func TopSources(articles []model.Article) []model.SourceCount {
	counts := make(map[string]int)
	for _, a := range articles {
		counts[a.Source]++
	}
	ranked := make([]model.SourceCount, 0, len(counts))
	for source, count := range counts {
		ranked = append(ranked, model.SourceCount{Source: source, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Source < ranked[j].Source
	})
	if len(ranked) > topSourceLimit {
		ranked = ranked[:topSourceLimit]
	}
	return ranked
}

// regenerateLocked rebuilds the month summary from its day partitions and
// the year summary from its month summaries. Caller holds s.mu.
func (s *Store) regenerateLocked(year, month string) error {
	if err := s.regenerateMonthLocked(year, month); err != nil {
		return err
	}
	return s.regenerateYearLocked(year)
}

func (s *Store) regenerateMonthLocked(year, month string) error {
	dayKeys := s.listDayKeysLocked(year, month)
	if len(dayKeys) == 0 {
		return nil
	}

	var all []model.Article
	days := append([]string(nil), dayKeys...)
	sort.Strings(days)
	for _, key := range dayKeys {
		all = append(all, s.readDayLocked(key)...)
	}

	yearNum, _ := strconv.Atoi(year)
	monthNum, _ := strconv.Atoi(month)
	summary := model.MonthSummary{
		Year:       yearNum,
		Month:      monthNum,
		MonthName:  MonthName(monthNum),
		Days:       days,
		TotalNews:  len(all),
		TopSources: TopSources(all),
		Generated:  model.FormatTime(time.Now()),
	}
	return s.writeJSON(filepath.Join(s.root, year, month, "summary.json"), summary)
}

func (s *Store) regenerateYearLocked(year string) error {
	months := s.listDirs(filepath.Join(s.root, year))
	if len(months) == 0 {
		return nil
	}
	sort.Strings(months)

	total := 0
	for _, month := range months {
		ms, ok := s.readMonthSummaryLocked(year, month)
		if !ok {
			// Month without a summary yet: count its partitions directly.
			for _, key := range s.listDayKeysLocked(year, month) {
				total += len(s.readDayLocked(key))
			}
			continue
		}
		total += ms.TotalNews
	}

	yearNum, _ := strconv.Atoi(year)
	summary := model.YearSummary{
		Year:      yearNum,
		Months:    months,
		TotalNews: total,
		Generated: model.FormatTime(time.Now()),
	}
	return s.writeJSON(filepath.Join(s.root, year, "summary.json"), summary)
}

// ReadMonthSummary returns the stored month summary, or a computed empty
// placeholder when the summary file is absent. Never errors.
func (s *Store) ReadMonthSummary(year, month string) model.MonthSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if summary, ok := s.readMonthSummaryLocked(year, month); ok {
		return summary
	}
	yearNum, _ := strconv.Atoi(year)
	monthNum, _ := strconv.Atoi(month)
	return model.MonthSummary{
		Year:  yearNum,
		Month: monthNum,
		News:  []model.Article{},
	}
}

func (s *Store) readMonthSummaryLocked(year, month string) (model.MonthSummary, bool) {
	path := filepath.Join(s.root, year, month, "summary.json")
	var summary model.MonthSummary
	if !s.readSummaryFile(path, &summary) {
		return model.MonthSummary{}, false
	}
	return summary, true
}

// ReadYearSummary returns the stored year summary, or a computed empty
// placeholder when the summary file is absent. Never errors.
func (s *Store) ReadYearSummary(year string) model.YearSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := filepath.Join(s.root, year, "summary.json")
	var summary model.YearSummary
	if s.readSummaryFile(path, &summary) {
		return summary
	}
	yearNum, _ := strconv.Atoi(year)
	return model.YearSummary{
		Year: yearNum,
		News: []model.Article{},
	}
}

func (s *Store) readSummaryFile(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn("Summary unreadable", zap.String("path", path), zap.Error(err))
		}
		return false
	}
	if err := jsonpkg.Unmarshal(data, v); err != nil {
		logger.Log.Warn("Summary malformed", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

// TotalCount sums the archive's year summaries.
func (s *Store) TotalCount() int {
	s.mu.RLock()
	years := s.listDirs(s.root)
	s.mu.RUnlock()

	total := 0
	for _, year := range years {
		total += s.ReadYearSummary(year).TotalNews
	}
	return total
}
