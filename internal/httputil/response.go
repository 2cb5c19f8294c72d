package httputil

import (
	"encoding/json"
	"net/http"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeProblem = "application/problem+json"
)

// RespondJSON marshals data before touching the response so an encoding
// failure can still become a clean 500.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	write(w, status, contentTypeJSON, payload)
}

// RespondRaw writes an upstream body through unchanged. An empty
// contentType is sent as JSON.
func RespondRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	if contentType == "" {
		contentType = contentTypeJSON
	}
	write(w, status, contentType, body)
}

// ProblemDetail is an RFC 7807 problem. Extra members such as "code"
// are flattened into the top-level object.
type ProblemDetail struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Status   int            `json:"status"`
	Detail   string         `json:"detail,omitempty"`
	Instance string         `json:"instance,omitempty"`
	Extra    map[string]any `json:"-"`
}

// MarshalJSON flattens Extra. Standard members win over extras with the
// same name.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+5)
	for k, v := range p.Extra {
		m[k] = v
	}
	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}
	return json.Marshal(m)
}

// NewProblem builds a problem for status with the matching type URI.
func NewProblem(status int, detail string) ProblemDetail {
	return ProblemDetail{
		Type:   problemType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// RespondProblem writes p as application/problem+json.
func RespondProblem(w http.ResponseWriter, p ProblemDetail) {
	payload, err := json.Marshal(p)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error"))
		return
	}
	write(w, p.Status, contentTypeProblem, payload)
}

// RespondError writes a problem without extension members.
func RespondError(w http.ResponseWriter, status int, detail string) {
	RespondProblem(w, NewProblem(status, detail))
}

// RespondErrorWithExtras writes a problem with extension members, most
// often the stable error "code".
func RespondErrorWithExtras(w http.ResponseWriter, status int, detail string, extras map[string]any) {
	p := NewProblem(status, detail)
	p.Extra = extras
	RespondProblem(w, p)
}

func write(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// problemType maps a status to its RFC 9110 section.
func problemType(status int) string {
	const base = "https://www.rfc-editor.org/rfc/rfc9110#section-"
	switch status {
	case http.StatusBadRequest:
		return base + "15.5.1"
	case http.StatusUnauthorized:
		return base + "15.5.2"
	case http.StatusForbidden:
		return base + "15.5.4"
	case http.StatusNotFound:
		return base + "15.5.5"
	case http.StatusConflict:
		return base + "15.5.10"
	case http.StatusTooManyRequests:
		return "https://www.rfc-editor.org/rfc/rfc6585#section-4"
	case http.StatusInternalServerError:
		return base + "15.6.1"
	case http.StatusBadGateway:
		return base + "15.6.3"
	case http.StatusServiceUnavailable:
		return base + "15.6.4"
	case http.StatusGatewayTimeout:
		return base + "15.6.5"
	default:
		return "about:blank"
	}
}
