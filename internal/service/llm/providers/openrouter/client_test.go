package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsfeed/internal/domain"
	llmSvc "newsfeed/internal/domain/services/llm"
)

func TestComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer or-key" {
			t.Errorf("authorization header = %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{
			"model": "openai/gpt-4o-mini",
			"choices": [{"message": {"role": "assistant", "content": "{\"includeKeywords\":[\"go\"]}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 30, "completion_tokens": 9}
		}`))
	}))
	defer srv.Close()

	c, err := NewClient("or-key", "openai/gpt-4o-mini", srv.URL+"/", srv.Client())
	if err != nil {
		t.Fatal(err)
	}

	resp, err := c.Complete(context.Background(), &llmSvc.CompletionRequest{
		System: "sys",
		User:   "golang news",
		JSON:   true,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if resp.Text != `{"includeKeywords":["go"]}` || resp.InputTokens != 30 || resp.StopReason != "stop" {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "golang news" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format not requested: %+v", got.ResponseFormat)
	}
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rate limited upstream", http.StatusTooManyRequests, `{"error":"slow down"}`, domain.ErrUpstreamTransport},
		{"not json", http.StatusOK, `<html>`, domain.ErrUpstreamContract},
		{"no choices", http.StatusOK, `{"choices":[]}`, domain.ErrUpstreamContract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, _ := NewClient("k", "m", srv.URL, srv.Client())
			_, err := c.Complete(context.Background(), &llmSvc.CompletionRequest{User: "x"})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCompleteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _ := NewClient("k", "m", url, nil)
	_, err := c.Complete(context.Background(), &llmSvc.CompletionRequest{User: "x"})
	if !errors.Is(err, domain.ErrUpstreamTransport) {
		t.Errorf("error = %v, want transport", err)
	}
}
