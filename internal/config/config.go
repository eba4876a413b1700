// Package config loads runtime settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the service.
type Config struct {
	Port          string
	Env           string
	DataDir       string
	FeedsFile     string
	SiteURL       string
	FetchInterval time.Duration
	WindowDays    int
}

// Load reads .env (if present) and the environment, falling back to the
// defaults the service has always shipped with.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          "3001",
		Env:           os.Getenv("APP_ENV"),
		DataDir:       "./data",
		SiteURL:       "https://saatdakika.com",
		FetchInterval: 5 * time.Minute,
		WindowDays:    30,
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SITE_URL"); v != "" {
		cfg.SiteURL = v
	}
	if v := os.Getenv("FETCH_INTERVAL_MINUTES"); v != "" {
		if mins, err := strconv.Atoi(v); err == nil && mins > 0 {
			cfg.FetchInterval = time.Duration(mins) * time.Minute
		}
	}
	if v := os.Getenv("WINDOW_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.WindowDays = days
		}
	}

	cfg.FeedsFile = filepath.Join(cfg.DataDir, "rss-feeds.json")
	if v := os.Getenv("FEEDS_FILE"); v != "" {
		cfg.FeedsFile = v
	}

	return cfg
}

// ArchiveDir is the root of the hierarchical news archive.
func (c *Config) ArchiveDir() string {
	return filepath.Join(c.DataDir, "news_archive")
}
