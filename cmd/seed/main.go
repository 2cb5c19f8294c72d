package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"newsfeed/internal/auth"
	"newsfeed/internal/config"
	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/services"
	"newsfeed/internal/repository/postgres"
	authSvc "newsfeed/internal/service/auth"
	"newsfeed/internal/service/preferences"
	settingsSvc "newsfeed/internal/service/settings"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed a user")
	email := flag.String("email", "demo@example.com", "Demo account email")
	password := flag.String("password", "demo-password", "Demo account password")
	keywords := flag.String("keywords", "ai, golang, climate, space", "Comma-separated demo keywords")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger, closer, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer func() { _ = closer.Close() }()

	logger.Info("seeding database", "environment", cfg.Environment, "prefix", cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{Logger: logger})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		if err := postgres.DropAll(ctx, pool, tables, logger); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	if err := postgres.Migrate(ctx, pool, cfg.TablePrefix, logger); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	if *schemaOnly {
		logger.Info("schema setup complete (schema-only mode)")
		return
	}

	issuer, err := auth.NewHMACIssuer(auth.TokenSettings{
		Key:       []byte(cfg.JWTKey),
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
		ExpiresIn: time.Duration(cfg.JWTExpiresHours) * time.Hour,
	})
	if err != nil {
		log.Fatalf("Seeding accounts needs JWT_KEY: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	userRepo := postgres.NewUserRepository(repoConfig)
	accounts := authSvc.NewAuthService(userRepo, issuer, logger)
	prefs := preferences.NewPreferencesService(
		postgres.NewKeywordRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		nil,
		nil,
		logger,
	)
	settings := settingsSvc.NewSettingsService(postgres.NewSettingsRepository(repoConfig), logger)

	resp, err := accounts.Register(ctx, &services.RegisterRequest{Email: *email, Password: *password})
	if errors.Is(err, domain.ErrConflict) {
		logger.Info("demo user already exists, logging in", "email", *email)
		resp, err = accounts.Login(ctx, &services.LoginRequest{Email: *email, Password: *password})
	}
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	userID := resp.User.ID

	saved, err := prefs.Add(ctx, userID, *keywords)
	if err != nil {
		log.Fatalf("Failed to seed keywords: %v", err)
	}

	lang := "en"
	window := "7d"
	if _, err := settings.Update(ctx, userID, &models.UpdateSettingsRequest{
		PreferredLanguage: models.Optional{Present: true, Value: &lang},
		DefaultTimeWindow: models.Optional{Present: true, Value: &window},
	}); err != nil {
		log.Fatalf("Failed to seed settings: %v", err)
	}

	logger.Info("seeding complete",
		"user_id", userID,
		"email", resp.User.Email,
		"keywords", strings.Join(saved, ", "),
		"token", resp.Token,
	)
}
