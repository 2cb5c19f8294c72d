package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"newsfeed/internal/domain"
)

// MaxBodyBytes caps JSON request bodies. Every body this API accepts is a
// handful of short strings.
const MaxBodyBytes = 64 << 10

// InvalidBodyCode is the problem code for unreadable request bodies.
const InvalidBodyCode = "request/invalid-body"

// ParseJSON decodes a single JSON value from the request body into dest.
// Failures are ValidationErrors carrying InvalidBodyCode.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return invalidBody("request body is required")
		case errors.As(err, &tooLarge):
			return invalidBody("request body is too large")
		default:
			return invalidBody("request body is not valid JSON")
		}
	}

	if dec.More() {
		return invalidBody("request body must contain a single JSON object")
	}
	return nil
}

func invalidBody(msg string) error {
	return domain.NewValidationError(InvalidBodyCode, msg)
}
