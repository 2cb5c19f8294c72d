package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"newsfeed/internal/config"
	"newsfeed/internal/httputil"
	serviceLLM "newsfeed/internal/service/llm"
	"newsfeed/internal/service/preferences"
)

// extract prints the filter spec and normalized keywords for a query
// given as arguments or on stdin.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, closer, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer func() { _ = closer.Close() }()

	if !cfg.LLMEnabled() {
		log.Fatalf("Set ANTHROPIC_API_KEY or OPENROUTER_API_KEY")
	}

	query := strings.Join(os.Args[1:], " ")
	if strings.TrimSpace(query) == "" {
		query, err = readStdin(os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read query: %v", err)
		}
	}

	client := httputil.NewLoggingClient(cfg.UpstreamTimeout, logger)
	llm := serviceLLM.SetupServices(cfg, client, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout)
	defer cancel()

	spec, err := llm.Extractor.Extract(ctx, query)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	out := struct {
		Spec     any      `json:"spec"`
		Keywords []string `json:"keywords"`
	}{
		Spec:     spec,
		Keywords: preferences.Dedupe(preferences.NormalizeKeywords(spec.IncludeKeywords...)),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("Failed to write result: %v", err)
	}
}

func readStdin(r io.Reader) (string, error) {
	fmt.Fprint(os.Stderr, "query> ")
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return strings.Join(lines, "\n"), scanner.Err()
}
