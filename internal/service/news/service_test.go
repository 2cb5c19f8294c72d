package news

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/services"
	llm "newsfeed/internal/service/llm"
)

// exactDeduper applies only the deterministic pass.
type exactDeduper struct{}

func (exactDeduper) Dedupe(ctx context.Context, items []models.NewsItem) []models.NewsItem {
	return llm.DedupeExact(items)
}

// fakeClient records queries and replies with a canned result.
type fakeClient struct {
	result  *models.ProxyResult
	err     error
	queries []models.NewsQuery
}

func (f *fakeClient) Fetch(ctx context.Context, q models.NewsQuery) (*models.ProxyResult, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeClient) last() models.NewsQuery { return f.queries[len(f.queries)-1] }

type fakeKeywords struct{ list []string }

func (f *fakeKeywords) ListKeywords(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return f.list, nil
}
func (f *fakeKeywords) CountKeywords(ctx context.Context, userID uuid.UUID) (int, error) {
	return len(f.list), nil
}
func (f *fakeKeywords) InsertKeyword(ctx context.Context, userID uuid.UUID, kw string) (bool, error) {
	return false, nil
}
func (f *fakeKeywords) DeleteKeyword(ctx context.Context, userID uuid.UUID, kw string) (bool, error) {
	return false, nil
}
func (f *fakeKeywords) LockUserKeywords(ctx context.Context, userID uuid.UUID) error { return nil }

type fakeSettings struct{ s *models.UserSettings }

func (f *fakeSettings) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	return f.s, nil
}
func (f *fakeSettings) Upsert(ctx context.Context, s *models.UserSettings) error { return nil }

// fakeArticles hides some IDs and records what was remembered.
type fakeArticles struct {
	hidden     map[string]struct{}
	remembered []models.NewsItem
}

func (f *fakeArticles) Remember(ctx context.Context, items []models.NewsItem) error {
	f.remembered = append(f.remembered, items...)
	return nil
}
func (f *fakeArticles) RecordAction(ctx context.Context, userID uuid.UUID, articleID string, req *services.RecordActionRequest) (*models.ArticleAction, error) {
	return nil, nil
}
func (f *fakeArticles) ListActions(ctx context.Context, userID uuid.UUID, action string) ([]models.ArticleAction, error) {
	return nil, nil
}
func (f *fakeArticles) Hidden(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	return f.hidden, nil
}

// reverseReranker reverses order so its effect is observable.
type reverseReranker struct{ intent string }

func (r *reverseReranker) Rerank(ctx context.Context, intent string, items []models.NewsItem) []models.NewsItem {
	r.intent = intent
	out := make([]models.NewsItem, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return out
}

func okBody(body string) *models.ProxyResult {
	return &models.ProxyResult{StatusCode: http.StatusOK, ContentType: "application/json", Body: []byte(body)}
}

func strPtr(s string) *string { return &s }

func newService(c *fakeClient, kw []string, settings *models.UserSettings, defaults Defaults) *newsService {
	return NewNewsService(c, &fakeKeywords{list: kw}, &fakeSettings{s: settings}, nil, nil, nil, defaults, discardLogger()).(*newsService)
}

func TestRaw(t *testing.T) {
	tests := []struct {
		name     string
		defaults Defaults
		in       models.NewsQuery
		want     models.NewsQuery
	}{
		{
			name: "falls back to tech and english",
			in:   models.NewsQuery{},
			want: models.NewsQuery{Query: "tech", Language: "en"},
		},
		{
			name:     "config defaults fill gaps",
			defaults: Defaults{Language: "de", Query: "wirtschaft", Country: "de", Category: "business"},
			in:       models.NewsQuery{TimeWindow: "24h"},
			want:     models.NewsQuery{Query: "wirtschaft", Language: "de", Country: "de", Category: "business", TimeWindow: "24h"},
		},
		{
			name:     "caller wins",
			defaults: Defaults{Language: "de", Query: "x"},
			in:       models.NewsQuery{Query: "golang", Language: "fr"},
			want:     models.NewsQuery{Query: "golang", Language: "fr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeClient{result: okBody(`{}`)}
			svc := newService(c, nil, nil, tt.defaults)
			if _, err := svc.Raw(context.Background(), tt.in); err != nil {
				t.Fatal(err)
			}
			if got := c.last(); got != tt.want {
				t.Errorf("query = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	c := &fakeClient{result: &models.ProxyResult{StatusCode: http.StatusTooManyRequests, Body: []byte("slow")}}
	svc := newService(c, nil, nil, Defaults{Country: "us", Category: "world"})

	_, err := svc.Search(context.Background(), models.NewsQuery{Query: "  "})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Code() != "news/q-required" {
		t.Fatalf("blank q error = %v", err)
	}
	if len(c.queries) != 0 {
		t.Error("blank q must not reach upstream")
	}

	res, err := svc.Search(context.Background(), models.NewsQuery{Query: "rust", TimeWindow: "7d", Country: "ignored"})
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status not passed through: %d", res.StatusCode)
	}
	want := models.NewsQuery{Query: "rust", Language: "en", TimeWindow: "7d"}
	if got := c.last(); got != want {
		t.Errorf("query = %+v, want %+v", got, want)
	}
}

func TestForUserNoPreferences(t *testing.T) {
	c := &fakeClient{result: okBody(`{"status":"success","results":[{"title":"a","link":"https://a"}]}`)}
	svc := newService(c, nil, nil, Defaults{})

	feed, err := svc.ForUser(context.Background(), uuid.New(), models.NewsQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if feed.Message != NoPreferencesMessage || len(feed.Results) != 0 || feed.Results == nil {
		t.Errorf("feed = %+v", feed)
	}
	if len(c.queries) != 0 {
		t.Error("no upstream call expected")
	}

	feed, err = svc.ForUser(context.Background(), uuid.New(), models.NewsQuery{FallbackToLatest: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(feed.Results) != 1 || c.last().Query != "" {
		t.Errorf("fallback feed = %+v, query = %+v", feed, c.last())
	}
}

func TestForUserBuildsQuery(t *testing.T) {
	c := &fakeClient{result: okBody(`{"status":"success","results":[]}`)}
	settings := &models.UserSettings{
		PreferredLanguage: strPtr("es"),
		PreferredCountry:  strPtr("mx"),
		DefaultCategory:   strPtr("science"),
		DefaultTimeWindow: strPtr("30d"),
	}
	svc := newService(c, []string{"ai", "climate"}, settings, Defaults{Category: "world"})

	if _, err := svc.ForUser(context.Background(), uuid.New(), models.NewsQuery{Category: "health"}); err != nil {
		t.Fatal(err)
	}

	want := models.NewsQuery{
		Query:      `"ai" OR "climate"`,
		Language:   "es",
		Country:    "mx",
		Category:   "health",
		TimeWindow: "30d",
	}
	if got := c.last(); got != want {
		t.Errorf("query = %+v, want %+v", got, want)
	}
}

func TestForUserPipeline(t *testing.T) {
	body := `{"status":"success","totalResults":4,"results":[
		{"article_id":"1","title":"One","link":"https://x.com/1"},
		{"article_id":"2","title":"Two","link":"https://x.com/2"},
		{"article_id":"3","title":"Three","link":"https://x.com/3"},
		{"article_id":"4","title":"One","link":"https://x.com/1/"}
	]}`
	c := &fakeClient{result: okBody(body)}
	articles := &fakeArticles{hidden: map[string]struct{}{"2": {}}}
	reranker := &reverseReranker{}

	svc := NewNewsService(c, &fakeKeywords{list: []string{"ai", "go"}}, &fakeSettings{}, articles,
		exactDeduper{}, reranker, Defaults{}, discardLogger())

	feed, err := svc.ForUser(context.Background(), uuid.New(), models.NewsQuery{})
	if err != nil {
		t.Fatal(err)
	}

	var ids []string
	for _, it := range feed.Results {
		ids = append(ids, it.ArticleID)
	}
	// 2 dismissed, 4 duplicates 1, then reversed
	if !reflect.DeepEqual(ids, []string{"3", "1"}) {
		t.Errorf("ids = %v", ids)
	}
	if feed.TotalResults != 4 || !reflect.DeepEqual(feed.Keywords, []string{"ai", "go"}) {
		t.Errorf("feed = %+v", feed)
	}
	if reranker.intent != "ai, go" {
		t.Errorf("intent = %q", reranker.intent)
	}
	if len(articles.remembered) != 2 {
		t.Errorf("remembered %d articles, want 2", len(articles.remembered))
	}
}

func TestForUserUpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
		want   error
		code   string
	}{
		{
			name:   "non-2xx",
			client: &fakeClient{result: &models.ProxyResult{StatusCode: http.StatusServiceUnavailable, Body: []byte("down")}},
			want:   domain.ErrUpstreamTransport,
			code:   "news/upstream-error",
		},
		{
			name:   "invalid json",
			client: &fakeClient{result: okBody(`<html>`)},
			want:   domain.ErrUpstreamContract,
			code:   "newsdata/contract",
		},
		{
			name:   "timeout",
			client: &fakeClient{err: domain.ClassifyUpstream(Upstream, context.DeadlineExceeded)},
			want:   domain.ErrUpstreamTimeout,
			code:   "upstream/timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(tt.client, []string{"ai"}, nil, Defaults{})
			_, err := svc.ForUser(context.Background(), uuid.New(), models.NewsQuery{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var coded domain.CodedError
			if !errors.As(err, &coded) || coded.Code() != tt.code {
				t.Errorf("code = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestKeywordQuery(t *testing.T) {
	if got := KeywordQuery([]string{"a", "machine learning"}); got != `"a" OR "machine learning"` {
		t.Errorf("KeywordQuery = %s", got)
	}
}
