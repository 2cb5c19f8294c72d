package preferences

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"newsfeed/internal/config"
)

// joinerPattern matches the separators of a compound keyword:
// comma, ampersand, slash, plus, or the word "and".
var joinerPattern = regexp.MustCompile(`(?i)\s*(?:,|&|/|\+|\band\b)\s*`)

// quotes are trimmed from both ends of raw input along with any Unicode
// whitespace.
const quotes = "\"'“”‘’"

func isTrimmed(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(quotes, r)
}

// NormalizeKeywords converts raw keyword input into storable keywords.
// Compound strings are split on joiners, every piece is trimmed and
// lowercased, and pieces outside the length bounds are dropped. Order of
// first appearance is kept; duplicates are not removed (see Dedupe).
func NormalizeKeywords(raw ...string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		s := strings.TrimFunc(r, isTrimmed)
		if s == "" {
			continue
		}

		pieces := []string{s}
		if joinerPattern.MatchString(s) {
			pieces = joinerPattern.Split(s, -1)
		}

		for _, p := range pieces {
			if kw, ok := normalizePiece(p); ok {
				out = append(out, kw)
			}
		}
	}
	return out
}

// NormalizeSingle trims and lowercases one keyword without splitting.
func NormalizeSingle(s string) string {
	return strings.ToLower(strings.TrimFunc(s, isTrimmed))
}

// Dedupe removes repeated keywords, keeping the first occurrence.
func Dedupe(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// ValidLength reports whether a normalized keyword fits the bounds.
func ValidLength(kw string) bool {
	n := utf8.RuneCountInString(kw)
	return n >= config.MinKeywordLength && n <= config.MaxKeywordLength
}

func normalizePiece(p string) (string, bool) {
	kw := strings.ToLower(strings.TrimFunc(p, isTrimmed))
	if !ValidLength(kw) {
		return "", false
	}
	return kw, true
}
