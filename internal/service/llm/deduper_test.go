package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"newsfeed/internal/domain/models"
)

func items(links ...string) []models.NewsItem {
	out := make([]models.NewsItem, len(links))
	for i, l := range links {
		out[i] = models.NewsItem{Link: l, Title: "title " + l}
	}
	return out
}

func links(in []models.NewsItem) []string {
	out := make([]string, len(in))
	for i, it := range in {
		out[i] = it.Link
	}
	return out
}

func TestDedupeExact(t *testing.T) {
	in := []models.NewsItem{
		{Link: "https://www.Example.com/a/", Title: "Rocket launch"},
		{Link: "https://example.com/a#comments", Title: "Different"},
		{Link: "https://other.com/b", Title: "  rocket   LAUNCH "},
		{Link: "https://other.com/c", Title: ""},
		{Link: "", Title: "No link"},
		{Link: "", Title: ""},
	}

	got := links(DedupeExact(in))
	want := []string{"https://www.Example.com/a/", "https://other.com/c", "", ""}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("DedupeExact() = %q, want %q", got, want)
	}
}

func TestDedupeWithModelGroups(t *testing.T) {
	client := &scriptedClient{text: "```json\n" + `{"groups":[{"canonicalUrl":"https://a.com/1","members":["https://a.com/1","https://b.com/1"],"reason":"same launch"}]}` + "\n```"}
	d := NewDeduper(client, NewEmbeddedPrompts(), discardLogger())

	got := links(d.Dedupe(context.Background(), items("https://a.com/1", "https://b.com/1", "https://c.com/1")))
	if strings.Join(got, ",") != "https://a.com/1,https://c.com/1" {
		t.Errorf("Dedupe() = %v", got)
	}
	if !strings.Contains(client.last.User, "https://b.com/1") {
		t.Error("articles not rendered into prompt")
	}
}

func TestDedupeAcceptsBareArray(t *testing.T) {
	client := &scriptedClient{text: `[{"CanonicalUrl":"https://b.com/1","Members":["https://a.com/1","https://b.com/1"]}]`}
	d := NewDeduper(client, NewEmbeddedPrompts(), discardLogger())

	got := links(d.Dedupe(context.Background(), items("https://a.com/1", "https://b.com/1")))
	if strings.Join(got, ",") != "https://b.com/1" {
		t.Errorf("Dedupe() = %v", got)
	}
}

func TestDedupeFailuresKeepInput(t *testing.T) {
	tests := []struct {
		name   string
		client *scriptedClient
	}{
		{"upstream error", &scriptedClient{err: errors.New("connection reset")}},
		{"garbage", &scriptedClient{text: "sorry, no"}},
		{"unknown canonical", &scriptedClient{text: `{"groups":[{"canonicalUrl":"https://x.com","members":["https://a.com/1"]}]}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeduper(tt.client, NewEmbeddedPrompts(), discardLogger())
			got := d.Dedupe(context.Background(), items("https://a.com/1", "https://b.com/1"))
			if len(got) != 2 {
				t.Errorf("expected input unchanged, got %v", links(got))
			}
		})
	}
}

func TestDedupeWithoutClient(t *testing.T) {
	d := NewDeduper(nil, NewEmbeddedPrompts(), discardLogger())
	got := d.Dedupe(context.Background(), items("https://a.com/1", "https://a.com/1/"))
	if len(got) != 1 {
		t.Errorf("exact duplicates should still be dropped, got %v", links(got))
	}
}
