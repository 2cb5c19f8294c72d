package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"newsfeed/internal/config"
	"newsfeed/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.Environment == "prod" {
		log.Fatal("BLOCKED: refusing to drop tables in production environment")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	tables := postgres.NewTableNames(cfg.TablePrefix).All()
	stmts := make([]string, 0, len(tables))
	for _, table := range tables {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", table))
	}

	if _, err := db.Exec(strings.Join(stmts, "\n")); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("Dropped %d tables with prefix %q\n", len(tables), cfg.TablePrefix)
	for _, table := range tables {
		fmt.Printf("  - %s\n", table)
	}
}
