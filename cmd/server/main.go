package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"newsfeed/internal/auth"
	"newsfeed/internal/config"
	"newsfeed/internal/domain/services"
	"newsfeed/internal/handler"
	"newsfeed/internal/httputil"
	"newsfeed/internal/middleware"
	"newsfeed/internal/observability"
	"newsfeed/internal/ratelimit"
	"newsfeed/internal/repository/postgres"
	"newsfeed/internal/resilience"
	articleSvc "newsfeed/internal/service/article"
	authSvc "newsfeed/internal/service/auth"
	"newsfeed/internal/service/digest"
	serviceLLM "newsfeed/internal/service/llm"
	"newsfeed/internal/service/news"
	"newsfeed/internal/service/preferences"
	"newsfeed/internal/service/rerank"
	settingsSvc "newsfeed/internal/service/settings"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer func() { _ = logCloser.Close() }()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()
	metrics := observability.NewMetrics("newsfeed")

	// Database
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
		SlowQueryThreshold: cfg.SlowQueryThreshold,
		Logger:             logger,
	})
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()
	logger.Info("database connected")

	if err := postgres.Migrate(ctx, pool, cfg.TablePrefix, logger); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	keywordRepo := postgres.NewKeywordRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	settingsRepo := postgres.NewSettingsRepository(repoConfig)
	articleRepo := postgres.NewArticleRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	tokenSettings := auth.TokenSettings{
		Key:       []byte(cfg.JWTKey),
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
		ExpiresIn: time.Duration(cfg.JWTExpiresHours) * time.Hour,
	}
	verifier, err := auth.NewVerifier(ctx, tokenSettings, cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer func() { _ = verifier.Close() }()

	// Outbound HTTP shares one logging client with the upstream timeout.
	upstreamClient := httputil.NewLoggingClient(cfg.UpstreamTimeout, logger)

	llmServices := serviceLLM.SetupServices(cfg, upstreamClient, metrics, logger)

	var reranker services.Reranker
	if cfg.CohereAPIKey != "" {
		cohereBreaker := resilience.NewBreaker(rerank.Upstream, resilience.BreakerSettings{}, logger)
		embedder, err := rerank.NewCohereEmbedder(cfg.CohereAPIKey, cfg.CohereEmbedModel, upstreamClient, cohereBreaker, metrics)
		if err != nil {
			log.Fatalf("Failed to create embedder: %v", err)
		}
		reranker = rerank.NewReranker(rerank.NewCachedEmbedder(embedder, cfg.EmbedCacheTTL, metrics), logger)
		logger.Info("semantic reranking enabled", "model", cfg.CohereEmbedModel)
	}

	// Services
	newsBreaker := resilience.NewBreaker(news.Upstream, resilience.BreakerSettings{}, logger)
	newsClient := news.NewClient(cfg.NewsBaseURL, cfg.NewsAPIKey, upstreamClient, newsBreaker, metrics, logger)
	articleService := articleSvc.NewArticleService(articleRepo, logger)
	newsService := news.NewNewsService(
		newsClient,
		keywordRepo,
		settingsRepo,
		articleService,
		llmServices.Deduper,
		reranker,
		news.Defaults{
			Language: cfg.NewsDefaultLanguage,
			Query:    cfg.NewsDefaultQuery,
			Country:  cfg.NewsDefaultCountry,
			Category: cfg.NewsDefaultCategory,
		},
		logger,
	)
	preferencesService := preferences.NewPreferencesService(keywordRepo, txManager, llmServices.Extractor, metrics, logger)
	settingsService := settingsSvc.NewSettingsService(settingsRepo, logger)

	var mailer services.Mailer = digest.UnconfiguredMailer{}
	if cfg.SMTPEnabled() {
		smtpMailer, err := digest.NewSMTPMailer(digest.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		}, metrics, logger)
		if err != nil {
			log.Fatalf("Failed to create mailer: %v", err)
		}
		mailer = smtpMailer
	} else {
		logger.Warn("SMTP not configured, digest email disabled")
	}
	digestService := digest.NewDigestService(userRepo, newsService, mailer, metrics, logger)

	// Rate limiters share Redis when configured so limits hold across
	// instances.
	nlLimiter, loginLimiter, closeLimiters := setupLimiters(ctx, cfg, logger)
	defer closeLimiters()

	// Handlers
	healthHandler := handler.NewHealthHandler(pool, logger)
	prefsHandler := handler.NewPreferencesHandler(preferencesService, logger)
	settingsHandler := handler.NewSettingsHandler(settingsService, logger)
	newsHandler := handler.NewNewsHandler(newsService, logger)
	articleHandler := handler.NewArticleHandler(articleService, logger)
	digestHandler := handler.NewDigestHandler(digestService, logger)

	requireAuth := middleware.RequireAuth(verifier, logger)
	protect := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }
	limitUser := middleware.RateLimit(nlLimiter, middleware.ByUser, 60, logger)
	limitIP := middleware.RateLimit(loginLimiter, middleware.ByIP, 60, logger)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Check)
	mux.Handle("GET /metrics", metrics.Handler())

	// Auth routes. Local accounts need a signing key.
	if cfg.JWTKey != "" {
		issuer, err := auth.NewHMACIssuer(tokenSettings)
		if err != nil {
			log.Fatalf("Failed to create token issuer: %v", err)
		}
		authHandler := handler.NewAuthHandler(authSvc.NewAuthService(userRepo, issuer, logger), logger)
		mux.HandleFunc("POST /api/auth/register", authHandler.Register)
		mux.Handle("POST /api/auth/login", limitIP(http.HandlerFunc(authHandler.Login)))
		mux.Handle("GET /api/auth/me", protect(authHandler.Me))
	} else {
		logger.Info("local accounts disabled; tokens come from the identity provider", "jwks_url", cfg.JWKSURL)
	}

	// Preference routes
	mux.Handle("GET /api/preferences", protect(prefsHandler.List))
	mux.Handle("POST /api/preferences", protect(prefsHandler.Add))
	mux.Handle("DELETE /api/preferences/{keyword}", protect(prefsHandler.Remove))
	mux.Handle("POST /api/preferences/natural-language", requireAuth(limitUser(http.HandlerFunc(prefsHandler.FromNaturalLanguage))))

	// Settings routes
	mux.Handle("GET /api/settings", protect(settingsHandler.Get))
	mux.Handle("PATCH /api/settings", protect(settingsHandler.Update))

	// News routes
	mux.HandleFunc("GET /api/news/raw", newsHandler.Raw)
	mux.HandleFunc("GET /api/news/search", newsHandler.Search)
	mux.Handle("GET /api/news/for-me", protect(newsHandler.ForMe))

	// Article routes
	mux.Handle("GET /api/articles/actions", protect(articleHandler.ListActions))
	mux.Handle("POST /api/articles/{id}/actions", protect(articleHandler.RecordAction))

	// Digest route
	mux.Handle("POST /api/email/send", protect(digestHandler.Send))

	// Build middleware chain
	// Order: CORS → Recovery → RequestLogger → Metrics → Routes
	var h http.Handler = mux
	h = middleware.Metrics(metrics)(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - outermost so OPTIONS pre-flight requests never reach auth
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOriginList(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * cfg.UpstreamTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logger.Info("shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

// setupLimiters returns the natural-language and login limiters. Without
// REDIS_ADDR, or when Redis is unreachable, limits are kept in process.
func setupLimiters(ctx context.Context, cfg *config.Config, logger *slog.Logger) (nl, login ratelimit.Limiter, closeFn func()) {
	closeFn = func() {}

	if cfg.RedisAddr != "" {
		client, err := ratelimit.NewRedisClient(ctx, ratelimit.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err == nil {
			logger.Info("rate limiting backed by redis", "addr", cfg.RedisAddr)
			return ratelimit.NewRedisLimiter(client, "nl", cfg.NLRateLimitPerMinute, time.Minute),
				ratelimit.NewRedisLimiter(client, "login", cfg.LoginRateLimitPerMinute, time.Minute),
				func() { _ = client.Close() }
		}
		logger.Warn("redis unavailable, using in-process rate limits", "error", err)
	}

	return ratelimit.NewMemoryLimiter(cfg.NLRateLimitPerMinute, time.Minute),
		ratelimit.NewMemoryLimiter(cfg.LoginRateLimitPerMinute, time.Minute),
		closeFn
}
