// Package model defines shared data structures.
package model

import "time"

// TimeLayout is the persisted timestamp format: UTC with fixed millisecond
// precision, so that lexicographic order equals chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// DateKeyLayout is the day-partition key format (YYYY-MM-DD).
const DateKeyLayout = "2006-01-02"

// HourKeyLayout is the hour filter key format (YYYY-MM-DDTHH).
const HourKeyLayout = "2006-01-02T15"

// Article is a single ingested news item. Articles are immutable once
// written; content_hash identifies duplicates within a day partition.
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	PubDate     string `json:"pubDate"`
	Source      string `json:"source"`
	Category    string `json:"category,omitempty"`
	ContentHash string `json:"content_hash"`
	CreatedAt   string `json:"created_at"`
	DateKey     string `json:"date_key"`
	HourKey     string `json:"hour_key"`
	Image       string `json:"image,omitempty"`
}

// FormatTime renders t in the persisted timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// DateKey renders t as a day-partition key.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}

// HourKey renders t as an hour filter key.
func HourKey(t time.Time) string {
	return t.UTC().Format(HourKeyLayout)
}

// Pagination describes one page of a query result.
type Pagination struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Count   int `json:"count"`
}

// NewsResponse is the payload of GET /api/news.
type NewsResponse struct {
	News       []Article  `json:"news"`
	Pagination Pagination `json:"pagination"`
}

// SourceCount is one entry of a summary's top-sources ranking.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// MonthSummary is the derived aggregate stored next to a month's day
// partitions. The News field is only populated on the computed placeholder
// returned for months that have no summary file.
type MonthSummary struct {
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	MonthName  string        `json:"monthName,omitempty"`
	Days       []string      `json:"days,omitempty"`
	TotalNews  int           `json:"totalNews"`
	TopSources []SourceCount `json:"topSources,omitempty"`
	Generated  string        `json:"generated,omitempty"`
	News       []Article     `json:"news,omitempty"`
}

// YearSummary is the derived aggregate stored in a year directory.
type YearSummary struct {
	Year      int       `json:"year"`
	Months    []string  `json:"months,omitempty"`
	TotalNews int       `json:"totalNews"`
	Generated string    `json:"generated,omitempty"`
	News      []Article `json:"news,omitempty"`
}
