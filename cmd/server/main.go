// Package main is the entry point for the BrainRush API server.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"brainrush/internal/auth"
	"brainrush/internal/config"
	"brainrush/internal/economy"
	"brainrush/internal/handler"
	"brainrush/internal/model"
	"brainrush/internal/pkg/db"
	"brainrush/internal/pkg/lock"
	"brainrush/internal/repository"
	"brainrush/internal/server"
	"brainrush/internal/service"
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

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := repository.Migrate(ctx, dbPool.Pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	resultRepo := repository.NewGameResultRepository(dbPool.Pool)
	shopRepo := repository.NewShopRepository(dbPool.Pool)
	txRepo := repository.NewTransactionRepository(dbPool.Pool)
	feedbackRepo := repository.NewFeedbackRepository(dbPool.Pool)

	// Seed the default shop catalog on first start
	seeded, err := shopRepo.SeedIfEmpty(ctx, repository.DefaultCatalog())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed shop catalog")
	}
	if seeded {
		log.Info().Msg("Shop catalog seeded with default items")
	}

	rules := economy.Rules{
		ScoreDivisor:   cfg.Economy.ScoreDivisor,
		BonusBase:      cfg.Economy.BonusBase,
		BonusPerStreak: cfg.Economy.BonusPerStreak,
		BonusCap:       cfg.Economy.BonusCap,
	}

	// Initialize user lock
	userLock := lock.NewUserLock()

	// Initialize services
	accountService := service.NewAccountService(
		userRepo,
		resultRepo,
		shopRepo,
		rules,
		cfg.Economy.InitialCoins,
		userLock,
	)
	shopService := service.NewShopService(shopRepo, userRepo, userLock)
	gameplayService := service.NewGameplayService(resultRepo, txRepo, shopService, rules, userLock)
	rankingService := service.NewRankingService(resultRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo)
	adminService := service.NewAdminService(userRepo, txRepo, userLock)

	// Promote the configured bootstrap admin when present
	if err := bootstrapAdmin(ctx, userRepo, cfg.Admin.BootstrapUser); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap admin user")
	}

	// Initialize HTTP layer
	tokens := auth.NewTokenManager(cfg.Session.Secret, cfg.Session.TTL)
	authmw := server.NewAuth(tokens, accountService)

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(accountService, tokens, cfg.Session.TTL),
		Games:       handler.NewGamesHandler(gameplayService, shopService),
		Shop:        handler.NewShopHandler(shopService),
		Profile:     handler.NewProfileHandler(accountService, gameplayService),
		Feedback:    handler.NewFeedbackHandler(feedbackService),
		Leaderboard: handler.NewLeaderboardHandler(rankingService),
		Admin:       handler.NewAdminHandler(adminService, feedbackService),
	}
	router := handler.NewRouter(handlers, authmw, dbPool)

	srv := server.New(cfg.Server, router)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown did not complete cleanly")
	}
	log.Info().Msg("Server stopped gracefully")
}

// bootstrapAdmin promotes the configured username to admin. A missing user
// is not an error; the promotion happens once the account exists.
func bootstrapAdmin(ctx context.Context, userRepo *repository.UserRepository, username string) error {
	if username == "" {
		return nil
	}

	user, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Warn().Str("username", username).Msg("Bootstrap admin user not found, skipping promotion")
			return nil
		}
		return err
	}
	if user.IsAdmin() {
		return nil
	}

	if err := userRepo.SetRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("Bootstrap admin promoted")
	return nil
}
