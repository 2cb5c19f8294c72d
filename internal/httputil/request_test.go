package httputil

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"newsfeed/internal/domain"
)

func TestParseJSON(t *testing.T) {
	type body struct {
		Keyword string `json:"keyword"`
	}

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr string
	}{
		{name: "object", in: `{"keyword":"ai"}`, want: "ai"},
		{name: "unknown fields ignored", in: `{"keyword":"go","extra":1}`, want: "go"},
		{name: "empty", in: ``, wantErr: "request body is required"},
		{name: "truncated", in: `{"keyword":`, wantErr: "request body is not valid JSON"},
		{name: "trailing value", in: `{"keyword":"a"}{"keyword":"b"}`, wantErr: "request body must contain a single JSON object"},
		{name: "too large", in: `{"keyword":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, wantErr: "request body is too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.in))
			var got body
			err := ParseJSON(httptest.NewRecorder(), req, &got)

			if tt.wantErr == "" {
				if err != nil || got.Keyword != tt.want {
					t.Fatalf("got %+v, %v", got, err)
				}
				return
			}

			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Code() != InvalidBodyCode || ve.Message != tt.wantErr {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
