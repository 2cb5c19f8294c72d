package llm

import (
	"reflect"
	"testing"
)

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, true},
		{"prose around", `Sure! {"a":1} hope that helps`, `{"a":1}`, true},
		{"nested", `x {"a":{"b":{"c":2}},"d":[{"e":3}]} y`, `{"a":{"b":{"c":2}},"d":[{"e":3}]}`, true},
		{"brace in string", `{"a":"}{","b":1}`, `{"a":"}{","b":1}`, true},
		{"escaped quote in string", `{"a":"say \"}\" now"}`, `{"a":"say \"}\" now"}`, true},
		{"first of two", `{"a":1} {"b":2}`, `{"a":1}`, true},
		{"unclosed prefix", `{ oops {"a":1}`, `{"a":1}`, true},
		{"none", `no json here`, ``, false},
		{"only closing", `}}`, ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstJSONObject(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("firstJSONObject(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"includeKeywords\":[\"ai\"]}\n```", `{"includeKeywords":["ai"]}`},
		{"bare fence", "```\n[1,2]\n```", `[1,2]`},
		{"single line fence", "```json{\"a\":1}```", `{"a":1}`},
		{"no fence", `  {"a":1} `, `{"a":1}`},
		{
			"backticks inside a value kept",
			"```json\n{\"mustHavePhrases\":[\"```go fmt```\"]}\n```",
			"{\"mustHavePhrases\":[\"```go fmt```\"]}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	obj := map[string]any{
		"IncludeKeywords": []any{"a"},
		"TIMEWINDOW":      "day",
		"category":        "tech",
	}

	if _, ok := lookup(obj, "includeKeywords"); !ok {
		t.Error("PascalCase key not found")
	}
	if v, _ := lookup(obj, "timeWindow"); v != "day" {
		t.Errorf("case-folded lookup = %v", v)
	}
	if v, _ := lookup(obj, "category"); v != "tech" {
		t.Errorf("exact lookup = %v", v)
	}
	if _, ok := lookup(obj, "missing"); ok {
		t.Error("missing key reported present")
	}
}

func TestStringSlice(t *testing.T) {
	obj := map[string]any{
		"mixed":  []any{"a", 1.0, nil, "b"},
		"single": "solo",
		"number": 3.0,
	}

	if got, _ := stringSlice(obj, "mixed"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("mixed = %q", got)
	}
	if got, _ := stringSlice(obj, "single"); !reflect.DeepEqual(got, []string{"solo"}) {
		t.Errorf("single = %q", got)
	}
	if _, ok := stringSlice(obj, "number"); ok {
		t.Error("number should not be a string slice")
	}
}

func TestCleanList(t *testing.T) {
	got := cleanList([]string{" AI ", "", "ai", "Crypto", "  ", "crypto", "Go"})
	want := []string{"AI", "Crypto", "Go"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cleanList() = %q, want %q", got, want)
	}
}
