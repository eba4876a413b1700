package archive

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/saatdakika/backend/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "news_archive"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func testArticle(title, dateKey string, createdAt time.Time) model.Article {
	return model.Article{
		ID:          title,
		Title:       title,
		Link:        "https://example.com/" + title,
		Source:      "Test Kaynak",
		ContentHash: fmt.Sprintf("%x", title+dateKey),
		CreatedAt:   model.FormatTime(createdAt),
		DateKey:     dateKey,
		HourKey:     dateKey + "T10",
		PubDate:     model.FormatTime(createdAt),
	}
}

func TestAppendDedup(t *testing.T) {
	s := testStore(t)
	a := testArticle("haber-1", "2025-03-10", time.Now())

	added, err := s.Append(a)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !added {
		t.Fatal("first append should add")
	}

	added, err = s.Append(a)
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if added {
		t.Fatal("duplicate hash must not be added")
	}

	if got := len(s.ReadDay("2025-03-10")); got != 1 {
		t.Fatalf("expected 1 stored article, got %d", got)
	}
}

func TestReadDayRoundTripSorted(t *testing.T) {
	s := testStore(t)
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	// Append out of order across two partitions.
	for i, spec := range []struct {
		title   string
		dateKey string
		offset  time.Duration
	}{
		{"eski", "2025-03-10", 0},
		{"yeni", "2025-03-10", 2 * time.Hour},
		{"orta", "2025-03-10", time.Hour},
		{"baska-gun", "2025-03-11", 0},
	} {
		if _, err := s.Append(testArticle(spec.title, spec.dateKey, base.Add(spec.offset))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	day := s.ReadDay("2025-03-10")
	if len(day) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(day))
	}
	want := []string{"yeni", "orta", "eski"}
	for i, title := range want {
		if day[i].Title != title {
			t.Errorf("position %d: got %q, want %q", i, day[i].Title, title)
		}
	}

	if got := len(s.ReadDay("2025-03-11")); got != 1 {
		t.Fatalf("expected 1 article on 2025-03-11, got %d", got)
	}
}

func TestReadDayAbsentIsEmpty(t *testing.T) {
	s := testStore(t)
	if got := s.ReadDay("1999-01-01"); len(got) != 0 {
		t.Fatalf("expected empty partition, got %d entries", len(got))
	}
}

func TestSummaryDerivability(t *testing.T) {
	s := testStore(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	counts := map[string]int{"2025-03-10": 3, "2025-03-11": 2, "2025-04-01": 1}
	for dateKey, n := range counts {
		for i := 0; i < n; i++ {
			a := testArticle(fmt.Sprintf("%s-%d", dateKey, i), dateKey, base.Add(time.Duration(i)*time.Minute))
			if _, err := s.Append(a); err != nil {
				t.Fatalf("append: %v", err)
			}
		}
	}

	march := s.ReadMonthSummary("2025", "03")
	if march.TotalNews != 5 {
		t.Errorf("march totalNews = %d, want 5", march.TotalNews)
	}
	if len(march.Days) != 2 || march.Days[0] != "2025-03-10" {
		t.Errorf("march days = %v", march.Days)
	}
	if march.MonthName != "Mart" {
		t.Errorf("march monthName = %q", march.MonthName)
	}
	if len(march.TopSources) == 0 || march.TopSources[0].Count != 5 {
		t.Errorf("march topSources = %v", march.TopSources)
	}

	year := s.ReadYearSummary("2025")
	if year.TotalNews != 6 {
		t.Errorf("year totalNews = %d, want 6", year.TotalNews)
	}
	if len(year.Months) != 2 || year.Months[0] != "03" {
		t.Errorf("year months = %v", year.Months)
	}

	// Re-running regeneration must not change totals.
	if err := s.RegenerateSummaries("2025-03-10"); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if got := s.ReadMonthSummary("2025", "03").TotalNews; got != 5 {
		t.Errorf("after regenerate, march totalNews = %d, want 5", got)
	}
}

func TestSummaryPlaceholders(t *testing.T) {
	s := testStore(t)

	month := s.ReadMonthSummary("2030", "01")
	if month.Year != 2030 || month.Month != 1 || month.TotalNews != 0 {
		t.Errorf("unexpected month placeholder: %+v", month)
	}
	year := s.ReadYearSummary("2030")
	if year.Year != 2030 || year.TotalNews != 0 {
		t.Errorf("unexpected year placeholder: %+v", year)
	}
}

func TestListingsDescending(t *testing.T) {
	s := testStore(t)
	now := time.Now()
	for _, dateKey := range []string{"2024-12-31", "2025-01-02", "2025-01-01"} {
		if _, err := s.Append(testArticle("haber-"+dateKey, dateKey, now)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	years := s.ListYears()
	if len(years) != 2 || years[0] != "2025" || years[1] != "2024" {
		t.Errorf("years = %v", years)
	}
	days := s.ListDays("2025", "01")
	if len(days) != 2 || days[0] != "02" || days[1] != "01" {
		t.Errorf("days = %v", days)
	}
	if months := s.ListMonths("2031"); len(months) != 0 {
		t.Errorf("absent year should list no months, got %v", months)
	}

	keys := s.DateKeys()
	if len(keys) != 3 || keys[0] != "2025-01-02" || keys[2] != "2024-12-31" {
		t.Errorf("date keys = %v", keys)
	}
}

func TestTotalCount(t *testing.T) {
	s := testStore(t)
	now := time.Now()
	for i := 0; i < 4; i++ {
		if _, err := s.Append(testArticle(fmt.Sprintf("h%d", i), "2025-05-05", now)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if got := s.TotalCount(); got != 4 {
		t.Errorf("total = %d, want 4", got)
	}
}
