package main

import (
	"log/slog"
	"os"
	"time"

	"pairbook/internal/auth"
	"pairbook/internal/cache"
	"pairbook/internal/models"
	"pairbook/internal/server"
	"pairbook/internal/storage/sqlite"
	"pairbook/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	addr := getEnv("ADDR", ":8080")
	dbPath := getEnv("DB_PATH", "./data/pairbook.db")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	pair, err := models.ParsePair(os.Getenv("PAIR_EMAILS"))
	if err != nil {
		slog.Error("PAIR_EMAILS must list exactly two emails", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	// The cache is optional; the ledger recomputes from SQLite either way.
	c, err := cache.Open(os.Getenv("REDIS_URL"))
	if err != nil {
		slog.Warn("Redis unavailable, serving without cache", "error", err)
		c = nil
	}
	if c != nil {
		defer c.Close()
	}

	authn := auth.NewPasswordAuthenticator(store, pair)
	jwtManager := auth.NewJWTManager(jwtSecret, 24*time.Hour)

	srv := server.New(store, c, pair, authn, jwtManager)

	slog.Info("Server starting", "address", addr, "pair", pair.Emails())
	if err := srv.Router().Run(addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
