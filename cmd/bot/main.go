// Package main is the entry point for the Tiny Wins bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tiny-wins-bot/internal/bot"
	"tiny-wins-bot/internal/config"
	"tiny-wins-bot/internal/pkg/db"
	"tiny-wins-bot/internal/pkg/lock"
	"tiny-wins-bot/internal/repository"
	"tiny-wins-bot/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve timezone")
	}

	log.Info().Str("timezone", loc.String()).Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	jarRepo := repository.NewJarRepository(dbPool.Pool)
	winRepo := repository.NewWinRepository(dbPool.Pool)

	// Initialize services
	accountService := service.NewAccountService(userRepo, winRepo)
	winService := service.NewWinService(userRepo, winRepo, cfg.Limits.FreeWins, loc)
	jarService := service.NewJarService(userRepo, jarRepo, cfg.Limits.FreeJars)
	statsService := service.NewStatsService(winRepo, cfg.Limits.MoodWindow, loc)

	// Initialize user lock
	userLock := lock.NewUserLock()

	// Create bot dependencies
	deps := &bot.Dependencies{
		Config:         cfg,
		AccountService: accountService,
		WinService:     winService,
		JarService:     jarService,
		StatsService:   statsService,
		UserLock:       userLock,
	}

	// Initialize bot
	telegramBot, err := bot.New(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in a goroutine
	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			is_pro BOOLEAN NOT NULL DEFAULT FALSE,
			active_jar_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create jars table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS jars (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_jars_user_time ON jars(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: jars table created")

	// Migration 3: Create wins table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS wins (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			jar_id UUID REFERENCES jars(id) ON DELETE CASCADE,
			text VARCHAR(280) NOT NULL,
			mood VARCHAR(16) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_wins_user_time ON wins(user_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_wins_jar ON wins(jar_id);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: wins table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
