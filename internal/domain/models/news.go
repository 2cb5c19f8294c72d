package models

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
)

// NewsQuery carries optional upstream query parameters.
// TimeWindow is a raw token resolved through ParseTimeWindow.
type NewsQuery struct {
	Query      string
	Language   string
	Country    string
	Category   string
	TimeWindow string

	// FallbackToLatest makes a personalised query fetch the latest
	// headlines, instead of returning an empty feed, when the user has no
	// keywords and no default query is configured.
	FallbackToLatest bool
}

// ProxyResult is an upstream response passed through unchanged.
type ProxyResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// NewsItem is one article in the newsdata.io response format.
type NewsItem struct {
	ArticleID   string   `json:"article_id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	Creator     []string `json:"creator"`
	PubDate     string   `json:"pubDate"`
	ImageURL    string   `json:"image_url"`
	SourceID    string   `json:"source_id"`
	Language    string   `json:"language"`
	Category    []string `json:"category"`
}

// NewsResponse is the newsdata.io envelope.
type NewsResponse struct {
	Status       string     `json:"status"`
	TotalResults int        `json:"totalResults"`
	Results      []NewsItem `json:"results"`
	NextPage     string     `json:"nextPage,omitempty"`
}

// Feed is the personalised feed returned to clients. It keeps the
// newsdata.io field names so clients can consume either shape.
type Feed struct {
	Status       string     `json:"status"`
	TotalResults int        `json:"totalResults"`
	Results      []NewsItem `json:"results"`
	Message      string     `json:"message,omitempty"`

	// Keywords are the user keywords the query was built from.
	Keywords []string `json:"keywords,omitempty"`
}

// Author returns the first creator or "Unknown".
func (n *NewsItem) Author() string {
	for _, c := range n.Creator {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return "Unknown"
}

// DisplayTitle returns the title or "Untitled".
func (n *NewsItem) DisplayTitle() string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return t
	}
	return "Untitled"
}

// Text is the content used for semantic ranking.
func (n *NewsItem) Text() string {
	return strings.TrimSpace(n.Title + "\n" + n.Description)
}

// StableID returns the upstream article id, or a hash of the link.
func (n *NewsItem) StableID() string {
	if n.ArticleID != "" {
		return n.ArticleID
	}
	return URLHash(n.Link)
}

// URLHash returns the hex sha256 of a normalized URL: lowercase scheme and
// host, no fragment, no trailing slash.
func URLHash(raw string) string {
	sum := sha256.Sum256([]byte(NormalizeURL(raw)))
	return hex.EncodeToString(sum[:])
}

// NormalizeURL canonicalizes a URL for duplicate detection.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSuffix(raw, "/"))
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	u.Fragment = ""
	u.RawFragment = ""
	u.RawPath = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// newsdata.io publishes timestamps as "2006-01-02 15:04:05" in UTC.
const pubDateLayout = "2006-01-02 15:04:05"

// PublishedAt parses PubDate; the zero time is returned when it is unparseable.
func (n *NewsItem) PublishedAt() time.Time {
	for _, layout := range []string{pubDateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, strings.TrimSpace(n.PubDate)); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
