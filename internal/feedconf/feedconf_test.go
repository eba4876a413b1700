package feedconf

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rss-feeds.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write feed file: %v", err)
	}
	return path
}

func TestLoadFiltersAndSorts(t *testing.T) {
	path := writeFeedFile(t, `[
		{"url": "https://a.example/rss", "kaynak": "A Haber Ajansı", "kategori": "Gündem", "priority": 5, "aktif": true},
		{"url": "https://b.example/rss", "kaynak": "B Gazetesi", "kategori": "Ekonomi", "priority": 1, "aktif": true},
		{"url": "https://c.example/rss", "kaynak": "C Kapalı", "kategori": "Spor", "priority": 1, "aktif": false}
	]`)

	l := Load(path)
	feeds := l.Feeds()
	if len(feeds) != 2 {
		t.Fatalf("expected 2 active feeds, got %d", len(feeds))
	}
	if feeds[0].Name != "B Gazetesi" {
		t.Errorf("expected priority sort, got %q first", feeds[0].Name)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	l := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if len(l.Feeds()) == 0 {
		t.Fatal("expected fallback feeds for missing file")
	}
}

func TestLoadMalformedFallsBack(t *testing.T) {
	path := writeFeedFile(t, `{not json`)
	l := Load(path)
	if len(l.Feeds()) == 0 {
		t.Fatal("expected fallback feeds for malformed file")
	}
}

func TestSourcesAndCategoriesUnique(t *testing.T) {
	path := writeFeedFile(t, `[
		{"url": "https://a.example/manset", "kaynak": "A Haber", "kategori": "Manşet", "priority": 1, "aktif": true},
		{"url": "https://a.example/spor", "kaynak": "A Haber", "kategori": "Spor", "priority": 2, "aktif": true},
		{"url": "https://b.example/rss", "kaynak": "B Haber", "kategori": "Spor", "priority": 3, "aktif": true}
	]`)

	l := Load(path)
	sources := l.Sources()
	if len(sources) != 2 {
		t.Fatalf("expected 2 unique sources, got %v", sources)
	}
	if sources[0] != "A Haber" || sources[1] != "B Haber" {
		t.Errorf("sources not sorted: %v", sources)
	}
	cats := l.Categories()
	if len(cats) != 2 {
		t.Fatalf("expected 2 unique categories, got %v", cats)
	}
}

func TestReloadPicksUpChanges(t *testing.T) {
	path := writeFeedFile(t, `[
		{"url": "https://a.example/rss", "kaynak": "A Haber", "kategori": "Gündem", "priority": 1, "aktif": true}
	]`)
	l := Load(path)
	if got := len(l.Feeds()); got != 1 {
		t.Fatalf("expected 1 feed, got %d", got)
	}

	if err := os.WriteFile(path, []byte(`[
		{"url": "https://a.example/rss", "kaynak": "A Haber", "kategori": "Gündem", "priority": 1, "aktif": true},
		{"url": "https://b.example/rss", "kaynak": "B Haber", "kategori": "Spor", "priority": 2, "aktif": true}
	]`), 0o644); err != nil {
		t.Fatalf("rewrite feed file: %v", err)
	}

	if got := len(l.Reload()); got != 2 {
		t.Fatalf("expected 2 feeds after reload, got %d", got)
	}
}
