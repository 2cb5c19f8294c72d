package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	llmSvc "newsfeed/internal/domain/services/llm"
)

// deduper removes repeated articles. Exact repeats (same normalized URL
// or title) are always dropped; when a client is configured the model
// groups near-duplicates and only each group's canonical article is kept.
type deduper struct {
	client  llmSvc.CompletionClient
	prompts llmSvc.PromptSource
	logger  *slog.Logger
}

// NewDeduper creates a deduper. client may be nil to disable model grouping.
func NewDeduper(client llmSvc.CompletionClient, prompts llmSvc.PromptSource, logger *slog.Logger) llmSvc.Deduper {
	return &deduper{client: client, prompts: prompts, logger: logger}
}

type dedupeArticle struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

type dedupeGroup struct {
	CanonicalURL string   `json:"canonicalUrl"`
	Members      []string `json:"members"`
	Reason       string   `json:"reason"`
}

type dedupeResult struct {
	Groups []dedupeGroup `json:"groups"`
}

func (d *deduper) Dedupe(ctx context.Context, items []models.NewsItem) []models.NewsItem {
	items = DedupeExact(items)
	if d.client == nil || len(items) < 2 {
		return items
	}

	groups, err := d.group(ctx, items)
	if err != nil {
		d.logger.Warn("dedupe skipped", "error", err, "items", len(items))
		return items
	}
	return applyGroups(items, groups)
}

func (d *deduper) group(ctx context.Context, items []models.NewsItem) ([]dedupeGroup, error) {
	payload := make([]dedupeArticle, 0, len(items))
	for _, it := range items {
		payload = append(payload, dedupeArticle{URL: it.Link, Title: it.Title, Source: it.SourceID})
	}
	articlesJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	prompt, err := d.prompts.Load(PromptDedupe)
	if err != nil {
		return nil, err
	}
	req, err := prompt.Request(struct{ ArticlesJSON string }{ArticlesJSON: string(articlesJSON)})
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Complete(ctx, req)
	if err != nil {
		return nil, domain.ClassifyUpstream("llm", err)
	}
	return parseGroups(resp.Text)
}

// parseGroups accepts {"groups":[...]} or a bare array of groups.
func parseGroups(text string) ([]dedupeGroup, error) {
	text = stripFences(text)

	if strings.HasPrefix(text, "[") {
		var groups []dedupeGroup
		if err := json.Unmarshal([]byte(text), &groups); err != nil {
			return nil, domain.NewContractError("llm", "dedupe output is not valid JSON")
		}
		return groups, nil
	}

	raw, ok := firstJSONObject(text)
	if !ok {
		return nil, domain.NewContractError("llm", "no JSON object in dedupe output")
	}
	var res dedupeResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, domain.NewContractError("llm", "dedupe output is not valid JSON")
	}
	return res.Groups, nil
}

// applyGroups drops every non-canonical member of each group. Groups
// whose canonical URL is not among the items are ignored.
func applyGroups(items []models.NewsItem, groups []dedupeGroup) []models.NewsItem {
	present := make(map[string]struct{}, len(items))
	for _, it := range items {
		present[models.NormalizeURL(it.Link)] = struct{}{}
	}

	drop := make(map[string]struct{})
	for _, g := range groups {
		canonical := models.NormalizeURL(g.CanonicalURL)
		if _, ok := present[canonical]; !ok {
			continue
		}
		for _, m := range g.Members {
			if u := models.NormalizeURL(m); u != canonical {
				drop[u] = struct{}{}
			}
		}
	}
	if len(drop) == 0 {
		return items
	}

	out := make([]models.NewsItem, 0, len(items))
	for _, it := range items {
		if _, ok := drop[models.NormalizeURL(it.Link)]; ok {
			continue
		}
		out = append(out, it)
	}
	return out
}

// DedupeExact drops items whose normalized URL or title was already seen,
// keeping the first.
func DedupeExact(items []models.NewsItem) []models.NewsItem {
	seenURL := make(map[string]struct{}, len(items))
	seenTitle := make(map[string]struct{}, len(items))
	out := make([]models.NewsItem, 0, len(items))

	for _, it := range items {
		u := models.NormalizeURL(it.Link)
		t := normalizeTitle(it.Title)

		if u != "" {
			if _, ok := seenURL[u]; ok {
				continue
			}
		}
		if t != "" {
			if _, ok := seenTitle[t]; ok {
				continue
			}
		}
		if u != "" {
			seenURL[u] = struct{}{}
		}
		if t != "" {
			seenTitle[t] = struct{}{}
		}
		out = append(out, it)
	}
	return out
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
