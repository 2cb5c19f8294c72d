package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"

	"newsfeed/internal/domain"
	llmSvc "newsfeed/internal/domain/services/llm"
)

func TestNewClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewClient("", "claude-haiku-4-5", nil); err == nil {
		t.Error("expected error for missing key")
	}
	if _, err := NewClient("key", "", nil); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestComplete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("api key header missing")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "{\"includeKeywords\":[\"ai\"]}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 7}
		}`))
	}))
	defer srv.Close()

	c, err := NewClient("test-key", "claude-haiku-4-5", srv.Client(), option.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	temp := 0.2
	resp, err := c.Complete(context.Background(), &llmSvc.CompletionRequest{
		System:      "be terse",
		User:        "ai news",
		Temperature: &temp,
		MaxTokens:   64,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if resp.Text != `{"includeKeywords":["ai"]}` {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 7 {
		t.Errorf("usage = %d/%d", resp.InputTokens, resp.OutputTokens)
	}
	if got["model"] != "claude-haiku-4-5" || got["max_tokens"] != float64(64) {
		t.Errorf("request body = %v", got)
	}
	if _, ok := got["top_p"]; ok {
		t.Error("top_p should not be sent with temperature")
	}
}

func TestCompleteClassifiesFailures(t *testing.T) {
	t.Run("server error is transport", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
		}))
		defer srv.Close()

		c, _ := NewClient("k", "claude-haiku-4-5", srv.Client(), option.WithBaseURL(srv.URL))
		_, err := c.Complete(context.Background(), &llmSvc.CompletionRequest{User: "x"})
		if !errors.Is(err, domain.ErrUpstreamTransport) {
			t.Errorf("error = %v, want transport", err)
		}
	})

	t.Run("deadline is timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		c, _ := NewClient("k", "claude-haiku-4-5", srv.Client(), option.WithBaseURL(srv.URL))
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := c.Complete(ctx, &llmSvc.CompletionRequest{User: "x"})
		if !errors.Is(err, domain.ErrUpstreamTimeout) {
			t.Errorf("error = %v, want timeout", err)
		}
	})
}
