package news

import (
	"testing"

	"newsfeed/internal/domain/models"
)

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Markets rally  ", "Markets rally"},
		{"paragraph", "<p>Rates <b>held</b> steady</p>", "Rates held steady"},
		{"script dropped", `Hello<script>alert(1)</script>`, "Hello"},
		{"entities decoded", "AT&amp;T &lt;3", "AT&T <3"},
		{"bare ampersand", "Q&A", "Q&A"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.in); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanItems(t *testing.T) {
	items := []models.NewsItem{
		{Title: "<i>Launch</i> delayed", Description: `<img src="x" onerror="boom">Weather`},
		{Title: "Plain", Description: ""},
	}
	cleanItems(items)

	if items[0].Title != "Launch delayed" || items[0].Description != "Weather" {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].Title != "Plain" {
		t.Errorf("second item = %+v", items[1])
	}
}
