package models

import (
	"strings"
	"time"
)

// NewsFilterSpec is the structured form of a natural-language news request.
// It is derived per request and never persisted.
type NewsFilterSpec struct {
	IncludeKeywords  []string `json:"includeKeywords"`
	ExcludeKeywords  []string `json:"excludeKeywords"`
	PreferredSources []string `json:"preferredSources"`
	Category         *string  `json:"category"`
	TimeWindow       *string  `json:"timeWindow"`
	MustHavePhrases  []string `json:"mustHavePhrases"`
	AvoidTopics      []string `json:"avoidTopics"`
}

// NaturalLanguageResult is returned by FromNaturalLanguage.
// Saved holds only the keywords inserted by this call; Total is the
// post-insert keyword count for the user.
type NaturalLanguageResult struct {
	Spec  *NewsFilterSpec `json:"spec"`
	Saved []string        `json:"saved"`
	Total int             `json:"total"`
}

// TimeWindow is a canonical look-back period for news queries.
type TimeWindow string

const (
	TimeWindowDay   TimeWindow = "24h"
	TimeWindowWeek  TimeWindow = "7d"
	TimeWindowMonth TimeWindow = "30d"
)

var timeWindowSynonyms = map[string]TimeWindow{
	"24h":   TimeWindowDay,
	"1d":    TimeWindowDay,
	"day":   TimeWindowDay,
	"7d":    TimeWindowWeek,
	"week":  TimeWindowWeek,
	"7days": TimeWindowWeek,
	"30d":   TimeWindowMonth,
	"month": TimeWindowMonth,
}

// ParseTimeWindow maps a token through the synonym table.
// Matching ignores case and surrounding whitespace.
func ParseTimeWindow(s string) (TimeWindow, bool) {
	tw, ok := timeWindowSynonyms[strings.ToLower(strings.TrimSpace(s))]
	return tw, ok
}

// Days returns the look-back length in days.
func (tw TimeWindow) Days() int {
	switch tw {
	case TimeWindowDay:
		return 1
	case TimeWindowWeek:
		return 7
	case TimeWindowMonth:
		return 30
	default:
		return 0
	}
}

// FromDate returns the yyyy-mm-dd start date (UTC) for the window ending at now,
// or "" for an unknown window.
func (tw TimeWindow) FromDate(now time.Time) string {
	days := tw.Days()
	if days == 0 {
		return ""
	}
	return now.UTC().AddDate(0, 0, -days).Format("2006-01-02")
}

// Categories is the controlled category vocabulary.
var Categories = []string{
	"technology", "business", "science", "world", "sports", "entertainment", "health",
}

var categorySynonyms = map[string]string{
	"technology":    "technology",
	"tech":          "technology",
	"it":            "technology",
	"business":      "business",
	"finance":       "business",
	"economy":       "business",
	"markets":       "business",
	"science":       "science",
	"world":         "world",
	"politics":      "world",
	"international": "world",
	"global":        "world",
	"sports":        "sports",
	"sport":         "sports",
	"entertainment": "entertainment",
	"culture":       "entertainment",
	"movies":        "entertainment",
	"music":         "entertainment",
	"health":        "health",
	"medicine":      "health",
	"wellness":      "health",
}

// NormalizeCategory maps free text onto the controlled vocabulary.
func NormalizeCategory(s string) (string, bool) {
	c, ok := categorySynonyms[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}
