package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/arenaops/arenad/internal/config"
	httpserver "github.com/arenaops/arenad/internal/http"
	"github.com/arenaops/arenad/pkg/audit"
	"github.com/arenaops/arenad/pkg/auth"
	"github.com/arenaops/arenad/pkg/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	usersRepo := repository.NewUsersRepository(db)
	sessionsRepo := repository.NewSessionsRepository(db)
	attemptsRepo := repository.NewLoginAttemptsRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	teamsRepo := repository.NewTeamsRepository(db)
	tournamentsRepo := repository.NewTournamentsRepository(db)
	matchesRepo := repository.NewMatchesRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)

	passwordService := auth.NewPasswordService(usersRepo, attemptsRepo, logger, cfg.BcryptCost, cfg.LockoutThreshold)
	sessionService := auth.NewSessionService(auth.SessionConfig{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		JWTSecret:       []byte(cfg.JWTSecret),
		Issuer:          cfg.JWTIssuer,
	}, sessionsRepo, usersRepo)
	recorder := audit.NewRecorder(auditRepo, logger)

	// Periodic cleanup of sessions that expired or were revoked long
	// enough ago to be useless for incident review.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SessionCleanupSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		deleted, err := sessionsRepo.DeleteExpired(ctx, cfg.SessionRetention)
		if err != nil {
			logger.Error("session cleanup failed", "error", err)
			return
		}
		if deleted > 0 {
			logger.Info("session cleanup", "deleted", deleted)
		}
	}); err != nil {
		logger.Error("invalid session cleanup schedule", "schedule", cfg.SessionCleanupSchedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          logger,
		Config:          cfg,
		PasswordService: passwordService,
		SessionService:  sessionService,
		Recorder:        recorder,
		Users:           usersRepo,
		Teams:           teamsRepo,
		Tournaments:     tournamentsRepo,
		Matches:         matchesRepo,
		Attempts:        attemptsRepo,
		Audits:          auditRepo,
		Leaderboard:     leaderboardRepo,
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
