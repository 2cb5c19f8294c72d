package llm

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"newsfeed/internal/domain"
)

func newTestExtractor(c *scriptedClient) *filterExtractor {
	return NewFilterExtractor(c, NewEmbeddedPrompts(), discardLogger()).(*filterExtractor)
}

func TestExtractFencedResponse(t *testing.T) {
	client := &scriptedClient{text: "```json\n{\"includeKeywords\":[\"ai\",\"crypto\"],\"timeWindow\":\"1d\"}\n```"}
	ext := newTestExtractor(client)

	spec, err := ext.Extract(context.Background(), "AI and crypto from today")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !reflect.DeepEqual(spec.IncludeKeywords, []string{"ai", "crypto"}) {
		t.Errorf("IncludeKeywords = %q", spec.IncludeKeywords)
	}
	if spec.TimeWindow == nil || *spec.TimeWindow != "24h" {
		t.Errorf("TimeWindow = %v, want 24h", spec.TimeWindow)
	}
	if client.calls != 1 {
		t.Errorf("expected a single model call, got %d", client.calls)
	}
	if !strings.Contains(client.last.User, "AI and crypto from today") {
		t.Errorf("query not rendered into user message: %q", client.last.User)
	}
	if client.last.System == "" || !client.last.JSON {
		t.Error("system prompt and JSON mode should come from the prompt file")
	}
}

func TestExtractBlankQuery(t *testing.T) {
	client := &scriptedClient{}
	_, err := newTestExtractor(client).Extract(context.Background(), "  \t ")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
	if client.calls != 0 {
		t.Error("model should not be called for a blank query")
	}
}

func TestExtractUpstreamFailure(t *testing.T) {
	client := &scriptedClient{err: context.DeadlineExceeded}
	_, err := newTestExtractor(client).Extract(context.Background(), "news")
	if !errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Errorf("error = %v, want ErrUpstreamTimeout", err)
	}
}

func TestParseFilterSpecContractViolations(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no object", "I could not find anything relevant."},
		{"invalid json", `{"includeKeywords": [ai]}`},
		{"missing include", `{"category":"technology"}`},
		{"empty include", `{"includeKeywords":[]}`},
		{"blank include", `{"includeKeywords":["  ", ""]}`},
		{"include wrong type", `{"includeKeywords": 7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilterSpec(tt.text)
			if !errors.Is(err, domain.ErrUpstreamContract) {
				t.Errorf("error = %v, want ErrUpstreamContract", err)
			}
			var coded domain.CodedError
			if !errors.As(err, &coded) || coded.Code() != "llm/contract" {
				t.Errorf("expected code llm/contract, got %v", err)
			}
		})
	}
}

func TestParseFilterSpecNormalizesFields(t *testing.T) {
	text := `Here you go:
{
  "IncludeKeywords": [" AI ", "ai", "Robotics", ""],
  "EXCLUDEKEYWORDS": ["Crypto", "crypto"],
  "preferredSources": ["Reuters"],
  "category": "Tech",
  "timeWindow": "Week",
  "mustHavePhrases": ["open source"],
  "avoidTopics": null,
  "extra": {"nested": {"x": "}"}}
}
Anything else?`

	spec, err := ParseFilterSpec(text)
	if err != nil {
		t.Fatalf("ParseFilterSpec: %v", err)
	}

	if !reflect.DeepEqual(spec.IncludeKeywords, []string{"AI", "Robotics"}) {
		t.Errorf("IncludeKeywords = %q", spec.IncludeKeywords)
	}
	if !reflect.DeepEqual(spec.ExcludeKeywords, []string{"Crypto"}) {
		t.Errorf("ExcludeKeywords = %q", spec.ExcludeKeywords)
	}
	if !reflect.DeepEqual(spec.PreferredSources, []string{"Reuters"}) {
		t.Errorf("PreferredSources = %q", spec.PreferredSources)
	}
	if spec.Category == nil || *spec.Category != "technology" {
		t.Errorf("Category = %v, want technology", spec.Category)
	}
	if spec.TimeWindow == nil || *spec.TimeWindow != "7d" {
		t.Errorf("TimeWindow = %v, want 7d", spec.TimeWindow)
	}
	if len(spec.AvoidTopics) != 0 {
		t.Errorf("AvoidTopics = %q, want empty", spec.AvoidTopics)
	}
}

func TestParseFilterSpecNullsUnknownValues(t *testing.T) {
	spec, err := ParseFilterSpec(`{"includeKeywords":["space"],"category":"  ","timeWindow":"fortnight"}`)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Category != nil {
		t.Errorf("Category = %q, want nil", *spec.Category)
	}
	if spec.TimeWindow != nil {
		t.Errorf("TimeWindow = %q, want nil", *spec.TimeWindow)
	}
}

func TestParseFilterSpecKeepsEveryKeyword(t *testing.T) {
	spec, err := ParseFilterSpec(`{"includeKeywords":["a1","a2","a3","a4","a5","a6","a7","a8","a9","a10","a11","a12"],` +
		`"avoidTopics":["t1","t2","t3","t4","t5","t6","t7","t8","t9","t10","t11"]}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.IncludeKeywords) != 12 || spec.IncludeKeywords[11] != "a12" {
		t.Errorf("IncludeKeywords = %q, want all 12", spec.IncludeKeywords)
	}
	if len(spec.AvoidTopics) != 11 {
		t.Errorf("AvoidTopics = %q, want all 11", spec.AvoidTopics)
	}
}

func TestTimeWindowSynonyms(t *testing.T) {
	tests := map[string]string{
		"1d": "24h", "day": "24h", "24h": "24h",
		"week": "7d", "7days": "7d", "7d": "7d",
		"month": "30d", "30d": "30d",
	}
	for in, want := range tests {
		spec, err := ParseFilterSpec(`{"includeKeywords":["x"],"timeWindow":"` + in + `"}`)
		if err != nil {
			t.Fatal(err)
		}
		if spec.TimeWindow == nil || *spec.TimeWindow != want {
			t.Errorf("timeWindow %q -> %v, want %q", in, spec.TimeWindow, want)
		}
	}
}
