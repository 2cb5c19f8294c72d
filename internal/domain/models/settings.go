package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSettings holds per-user defaults applied to news queries.
// Nil fields fall back to server configuration.
type UserSettings struct {
	UserID            uuid.UUID `json:"userId"`
	PreferredLanguage *string   `json:"preferredLanguage"`
	PreferredCountry  *string   `json:"preferredCountry"`
	DefaultCategory   *string   `json:"defaultCategory"`
	DefaultTimeWindow *string   `json:"defaultTimeWindow"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Language returns the preferred language or "".
func (s *UserSettings) Language() string { return deref(s.PreferredLanguage) }

// Country returns the preferred country or "".
func (s *UserSettings) Country() string { return deref(s.PreferredCountry) }

// Category returns the default category or "".
func (s *UserSettings) Category() string { return deref(s.DefaultCategory) }

// TimeWindow returns the default time window or "".
func (s *UserSettings) TimeWindow() string { return deref(s.DefaultTimeWindow) }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Optional tracks tri-state semantics for PATCH updates (RFC 7396).
// Transport-agnostic; handlers map from httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear)
//   - Present=true, Value=&"x": field has value
type Optional struct {
	Present bool
	Value   *string
}

// UpdateSettingsRequest is a partial settings update.
type UpdateSettingsRequest struct {
	PreferredLanguage Optional
	PreferredCountry  Optional
	DefaultCategory   Optional
	DefaultTimeWindow Optional
}
