package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	llmSvc "newsfeed/internal/domain/services/llm"
)

// filterExtractor implements llmSvc.FilterExtractor on top of a
// CompletionClient and a PromptSource.
type filterExtractor struct {
	client  llmSvc.CompletionClient
	prompts llmSvc.PromptSource
	logger  *slog.Logger
}

// NewFilterExtractor creates a filter extractor
func NewFilterExtractor(client llmSvc.CompletionClient, prompts llmSvc.PromptSource, logger *slog.Logger) llmSvc.FilterExtractor {
	return &filterExtractor{
		client:  client,
		prompts: prompts,
		logger:  logger,
	}
}

// Extract sends query to the model once and parses its answer.
func (e *filterExtractor) Extract(ctx context.Context, query string) (*models.NewsFilterSpec, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("prefs/query-required", "query is required")
	}

	prompt, err := e.prompts.Load(PromptFilterExtract)
	if err != nil {
		return nil, fmt.Errorf("load prompt: %w", err)
	}
	req, err := prompt.Request(struct{ Query string }{Query: query})
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Complete(ctx, req)
	if err != nil {
		return nil, domain.ClassifyUpstream("llm", err)
	}

	spec, err := ParseFilterSpec(resp.Text)
	if err != nil {
		e.logger.Warn("model output rejected",
			"provider", e.client.Name(),
			"model", resp.Model,
			"error", err,
			"output_len", len(resp.Text),
		)
		return nil, err
	}

	e.logger.Debug("filter extracted",
		"provider", e.client.Name(),
		"model", resp.Model,
		"include", len(spec.IncludeKeywords),
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)
	return spec, nil
}

// ParseFilterSpec reads a NewsFilterSpec out of raw model output.
// Code fences are ignored, the first balanced JSON object is decoded and
// keys are matched case-insensitively. All failures are contract errors.
func ParseFilterSpec(text string) (*models.NewsFilterSpec, error) {
	raw, ok := firstJSONObject(stripFences(text))
	if !ok {
		return nil, domain.NewContractError("llm", "no JSON object in model output")
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, domain.NewContractError("llm", "model output is not valid JSON")
	}

	include, _ := stringSlice(obj, "includeKeywords")
	include = cleanList(include)
	if len(include) == 0 {
		return nil, domain.NewContractError("llm", "includeKeywords missing or empty")
	}

	spec := &models.NewsFilterSpec{
		IncludeKeywords:  include,
		ExcludeKeywords:  optionalList(obj, "excludeKeywords"),
		PreferredSources: optionalList(obj, "preferredSources"),
		MustHavePhrases:  optionalList(obj, "mustHavePhrases"),
		AvoidTopics:      optionalList(obj, "avoidTopics"),
	}

	if c, ok := models.NormalizeCategory(stringField(obj, "category")); ok {
		spec.Category = &c
	}
	if tw, ok := models.ParseTimeWindow(stringField(obj, "timeWindow")); ok {
		s := string(tw)
		spec.TimeWindow = &s
	}

	return spec, nil
}

func optionalList(obj map[string]any, key string) []string {
	values, _ := stringSlice(obj, key)
	return cleanList(values)
}
