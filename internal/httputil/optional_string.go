package httputil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"newsfeed/internal/domain/models"
)

// OptionalString is a PATCH field that distinguishes "absent" from
// "null". Absent leaves Present false; null and "" both clear.
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON runs only for keys present in the document.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	o.Value = nil

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected string or null, got %s", jsonKind(data))
	}
	if s = strings.TrimSpace(s); s != "" {
		o.Value = &s
	}
	return nil
}

// ToOptional converts to the transport-agnostic domain type.
func (o OptionalString) ToOptional() models.Optional {
	return models.Optional{Present: o.Present, Value: o.Value}
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "nothing"
	}
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}
