package llm

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	llmSvc "newsfeed/internal/domain/services/llm"
)

//go:embed prompts/*.yaml
var promptFiles embed.FS

// Prompt names shipped with the binary.
const (
	PromptFilterExtract = "filter_extract"
	PromptDedupe        = "dedupe"
)

// EmbeddedPrompts serves prompts compiled into the binary.
// Parsed prompts are cached after the first load.
type EmbeddedPrompts struct {
	mu    sync.RWMutex
	cache map[string]*llmSvc.Prompt
}

// NewEmbeddedPrompts creates a prompt source over the embedded YAML files
func NewEmbeddedPrompts() *EmbeddedPrompts {
	return &EmbeddedPrompts{cache: make(map[string]*llmSvc.Prompt)}
}

// Load returns a copy of the named prompt.
func (e *EmbeddedPrompts) Load(name string) (*llmSvc.Prompt, error) {
	e.mu.RLock()
	p, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		cp := *p
		return &cp, nil
	}

	if err := validPromptName(name); err != nil {
		return nil, err
	}
	data, err := promptFiles.ReadFile("prompts/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("prompt %q not found: %w", name, err)
	}
	p, err = parsePrompt(name, data)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[name] = p
	e.mu.Unlock()

	cp := *p
	return &cp, nil
}

// Names lists the embedded prompts.
func (e *EmbeddedPrompts) Names() []string {
	entries, err := fs.ReadDir(promptFiles, "prompts")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	return names
}

// DirPrompts reads <dir>/<name>.yaml on every call so prompts can be
// edited without a restart. Names missing from dir fall back to the
// embedded set.
type DirPrompts struct {
	dir      string
	fallback llmSvc.PromptSource
}

// NewDirPrompts creates a directory-backed prompt source
func NewDirPrompts(dir string, fallback llmSvc.PromptSource) *DirPrompts {
	return &DirPrompts{dir: dir, fallback: fallback}
}

// Load reads the named prompt from disk.
func (d *DirPrompts) Load(name string) (*llmSvc.Prompt, error) {
	if err := validPromptName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(d.dir, name+".yaml"))
	if errors.Is(err, fs.ErrNotExist) && d.fallback != nil {
		return d.fallback.Load(name)
	}
	if err != nil {
		return nil, fmt.Errorf("read prompt %q: %w", name, err)
	}
	return parsePrompt(name, data)
}

// NewPromptSource returns a DirPrompts over dir, or the embedded prompts
// when dir is empty.
func NewPromptSource(dir string) llmSvc.PromptSource {
	embedded := NewEmbeddedPrompts()
	if dir == "" {
		return embedded
	}
	return NewDirPrompts(dir, embedded)
}

func parsePrompt(name string, data []byte) (*llmSvc.Prompt, error) {
	var p llmSvc.Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompt %q: %w", name, err)
	}
	if strings.TrimSpace(p.System) == "" || strings.TrimSpace(p.User) == "" {
		return nil, fmt.Errorf("prompt %q must define system and user", name)
	}
	if p.Name == "" {
		p.Name = name
	}
	return &p, nil
}

func validPromptName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("invalid prompt name %q", name)
	}
	return nil
}
