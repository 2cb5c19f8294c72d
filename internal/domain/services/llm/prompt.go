package llm

import (
	"bytes"
	"fmt"
	"text/template"
)

// Prompt defaults applied when a prompt file leaves a setting out.
const (
	DefaultTemperature = 0.2
	DefaultTopP        = 0.9
	DefaultMaxTokens   = 512
)

// PromptSource loads named prompts. The loading mechanism (embedded,
// directory, inline) is invisible to callers.
type PromptSource interface {
	Load(name string) (*Prompt, error)
}

// Prompt is a system instruction plus a user-message template.
type Prompt struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	System      string   `yaml:"system"`
	User        string   `yaml:"user"`
	Temperature *float64 `yaml:"temperature"`
	TopP        *float64 `yaml:"top_p"`
	MaxTokens   int      `yaml:"max_tokens"`
	Stop        []string `yaml:"stop"`
	JSON        bool     `yaml:"json"`
}

// Render executes the user template with data.
func (p *Prompt) Render(data any) (string, error) {
	tmpl, err := template.New(p.Name).Option("missingkey=error").Parse(p.User)
	if err != nil {
		return "", fmt.Errorf("parse prompt %s: %w", p.Name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", p.Name, err)
	}
	return buf.String(), nil
}

// Request renders the prompt into a CompletionRequest with defaults applied.
func (p *Prompt) Request(data any) (*CompletionRequest, error) {
	user, err := p.Render(data)
	if err != nil {
		return nil, err
	}

	temperature := DefaultTemperature
	if p.Temperature != nil {
		temperature = *p.Temperature
	}
	topP := DefaultTopP
	if p.TopP != nil {
		topP = *p.TopP
	}
	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &CompletionRequest{
		System:      p.System,
		User:        user,
		Temperature: &temperature,
		TopP:        &topP,
		MaxTokens:   maxTokens,
		Stop:        p.Stop,
		JSON:        p.JSON,
	}, nil
}
