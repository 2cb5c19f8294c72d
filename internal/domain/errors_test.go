package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyUpstream(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   error
		wantStatus int
	}{
		{"deadline", context.DeadlineExceeded, ErrUpstreamTimeout, http.StatusGatewayTimeout},
		{"cancelled", fmt.Errorf("do: %w", context.Canceled), ErrUpstreamTimeout, http.StatusGatewayTimeout},
		{"net timeout", timeoutErr{}, ErrUpstreamTimeout, http.StatusGatewayTimeout},
		{"connection refused", errors.New("dial tcp: connection refused"), ErrUpstreamTransport, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyUpstream("newsdata", tt.err)
			if !errors.Is(got, tt.wantKind) {
				t.Fatalf("errors.Is(%v, %v) = false", got, tt.wantKind)
			}
			var httpErr HTTPError
			if !errors.As(got, &httpErr) {
				t.Fatal("expected HTTPError")
			}
			if httpErr.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", httpErr.StatusCode(), tt.wantStatus)
			}
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		if ClassifyUpstream("llm", nil) != nil {
			t.Error("expected nil")
		}
	})

	t.Run("classified passes through", func(t *testing.T) {
		contract := NewContractError("llm", "no JSON object")
		got := ClassifyUpstream("llm", fmt.Errorf("extract: %w", contract))
		if !errors.Is(got, ErrUpstreamContract) {
			t.Errorf("contract error reclassified: %v", got)
		}
	})
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
	}{
		{"validation", NewValidationError("prefs/keyword-length", "bad"), ErrValidation, http.StatusBadRequest},
		{"not found", &NotFoundError{Message: "user not found"}, ErrNotFound, http.StatusNotFound},
		{"unauthorized", &UnauthorizedError{Message: "nope"}, ErrUnauthorized, http.StatusUnauthorized},
		{"conflict", &ConflictError{Message: "taken"}, ErrConflict, http.StatusConflict},
		{"storage", NewStorageError("list keywords", errors.New("conn reset")), ErrStorageUnavailable, http.StatusInternalServerError},
		{"rate", &RateLimitError{Message: "slow down"}, ErrRateLimited, http.StatusTooManyRequests},
		{"contract", NewContractError("llm", "bad json"), ErrUpstreamContract, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("op: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
			var httpErr HTTPError
			if !errors.As(wrapped, &httpErr) || httpErr.StatusCode() != tt.status {
				t.Errorf("status mismatch for %v", wrapped)
			}
		})
	}
}

func TestNewStorageErrorDoesNotDoubleWrap(t *testing.T) {
	inner := NewStorageError("count keywords", errors.New("boom"))
	outer := NewStorageError("save keywords", fmt.Errorf("tx: %w", inner))

	var se *StorageError
	if !errors.As(outer, &se) {
		t.Fatal("expected StorageError")
	}
	if se.Op != "count keywords" {
		t.Errorf("Op = %q, want innermost op", se.Op)
	}
	if NewStorageError("noop", nil) != nil {
		t.Error("nil error should stay nil")
	}
}
