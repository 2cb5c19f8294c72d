package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string
	LogDir      string
	LogMaxFiles int
	// Database
	DatabaseURL        string
	SlowQueryThreshold time.Duration
	// Auth
	JWTKey          string
	JWTIssuer       string
	JWTAudience     string
	JWTExpiresHours int
	JWKSURL         string // Optional external identity provider
	// News API (newsdata.io)
	NewsBaseURL         string
	NewsAPIKey          string
	NewsDefaultLanguage string
	NewsDefaultQuery    string
	NewsDefaultCountry  string
	NewsDefaultCategory string
	UpstreamTimeout     time.Duration
	// LLM Configuration
	LLMModel          string
	AnthropicAPIKey   string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	PromptsDir        string
	LLMDedupe         bool // Group near-duplicate articles with the model
	// Embeddings
	CohereAPIKey     string
	CohereEmbedModel string
	EmbedCacheTTL    time.Duration
	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SMTPFrom     string
	SMTPFromName string
	// Rate limiting
	RedisAddr               string
	RedisPass               string
	RedisDB                 int
	NLRateLimitPerMinute    int
	LoginRateLimitPerMinute int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),
		TablePrefix: tablePrefix,
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
		// Database
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SlowQueryThreshold: getEnvDuration("SLOW_QUERY_THRESHOLD", 500*time.Millisecond),
		// Auth
		JWTKey:          getEnv("JWT_KEY", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", "newsfeed"),
		JWTAudience:     getEnv("JWT_AUDIENCE", "newsfeed-clients"),
		JWTExpiresHours: getEnvInt("JWT_EXPIRES_HOURS", 12),
		JWKSURL:         getEnv("JWKS_URL", ""),
		// News API
		NewsBaseURL:         getEnv("NEWSDATA_BASE_URL", "https://newsdata.io/api/1/"),
		NewsAPIKey:          getEnv("NEWSDATA_API_KEY", ""),
		NewsDefaultLanguage: getEnv("NEWSDATA_DEFAULT_LANGUAGE", "en"),
		NewsDefaultQuery:    getEnv("NEWSDATA_DEFAULT_QUERY", ""),
		NewsDefaultCountry:  getEnv("NEWSDATA_DEFAULT_COUNTRY", ""),
		NewsDefaultCategory: getEnv("NEWSDATA_DEFAULT_CATEGORY", ""),
		UpstreamTimeout:     getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		// LLM Configuration
		LLMModel:          getEnv("LLM_MODEL", "claude-haiku-4-5"),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		PromptsDir:        getEnv("PROMPTS_DIR", ""),
		LLMDedupe:         getEnvBool("LLM_DEDUPE", false),
		// Embeddings
		CohereAPIKey:     getEnv("COHERE_API_KEY", ""),
		CohereEmbedModel: getEnv("COHERE_EMBED_MODEL", "embed-english-v3.0"),
		EmbedCacheTTL:    getEnvDuration("EMBED_CACHE_TTL", 5*time.Minute),
		// SMTP
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPass:     getEnv("SMTP_PASS", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "News"),
		// Rate limiting
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPass:               getEnv("REDIS_PASS", ""),
		RedisDB:                 getEnvInt("REDIS_DB", 0),
		NLRateLimitPerMinute:    getEnvInt("NL_RATE_LIMIT_PER_MINUTE", 10),
		LoginRateLimitPerMinute: getEnvInt("LOGIN_RATE_LIMIT_PER_MINUTE", 20),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTKey == "" && c.JWKSURL == "" {
		errs = append(errs, errors.New("JWT_KEY or JWKS_URL is required"))
	}
	if c.JWTKey != "" && len(c.JWTKey) < 32 {
		errs = append(errs, errors.New("JWT_KEY must be at least 32 bytes"))
	}
	if c.JWTExpiresHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_HOURS must be positive"))
	}
	return errors.Join(errs...)
}

// LLMEnabled reports whether any completion provider key is set.
func (c *Config) LLMEnabled() bool {
	return c.AnthropicAPIKey != "" || c.OpenRouterAPIKey != ""
}

// SMTPEnabled reports whether digest email can be sent.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// CORSOriginList splits CORS_ORIGINS on commas.
func (c *Config) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("15s") or bare seconds ("15").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
