package news

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"newsfeed/internal/domain/models"
)

// plainText strips every tag. Policies are safe for concurrent use.
var plainText = bluemonday.StrictPolicy()

// StripMarkup reduces upstream HTML to plain text. Entities are decoded
// so JSON clients and the digest template see the literal characters.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}

// cleanItems strips markup from titles and descriptions in place.
func cleanItems(items []models.NewsItem) {
	for i := range items {
		items[i].Title = StripMarkup(items[i].Title)
		items[i].Description = StripMarkup(items[i].Description)
	}
}
