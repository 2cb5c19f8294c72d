package llm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stripFences removes one surrounding markdown code fence (```json or
// ```) from the model output. Backticks inside the payload are kept.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := text[3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// The rest of the opening line is the language tag.
		body = body[nl+1:]
	} else {
		body = strings.TrimPrefix(body, "json")
		body = strings.TrimPrefix(body, "JSON")
	}

	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// firstJSONObject returns the first balanced {...} in text. Braces inside
// JSON strings (including escaped quotes) do not count toward the balance.
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	for start >= 0 {
		if end, ok := matchObject(text, start); ok {
			return text[start : end+1], true
		}
		// unbalanced from here; try the next opening brace
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchObject returns the index of the brace closing the object opened at start.
func matchObject(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// lookup finds key in obj trying the exact name, its PascalCase form,
// then any case-insensitive match.
func lookup(obj map[string]any, key string) (any, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	if v, ok := obj[pascal(key)]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func pascal(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// stringField returns a string value, or "" when absent or not a string.
func stringField(obj map[string]any, key string) string {
	v, ok := lookup(obj, key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// stringSlice returns the string elements of an array value. A bare
// string is treated as a one-element array; other element types are skipped.
func stringSlice(obj map[string]any, key string) ([]string, bool) {
	v, ok := lookup(obj, key)
	if !ok || v == nil {
		return nil, false
	}
	switch t := v.(type) {
	case string:
		return []string{t}, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// cleanList trims entries, drops blanks and removes case-insensitive
// duplicates keeping the first spelling.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
