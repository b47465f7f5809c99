// Debt/bankruptcy intake Telegram bot.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/avoronin/intakebot/internal/api"
	"github.com/avoronin/intakebot/internal/assist"
	"github.com/avoronin/intakebot/internal/config"
	"github.com/avoronin/intakebot/internal/flow"
	"github.com/avoronin/intakebot/internal/store"
	"github.com/avoronin/intakebot/internal/telegram"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting intake bot", "db_path", cfg.DBPath, "http_addr", cfg.HTTPAddr)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// The assistant degrades to rules/template when no API key is configured
	// or when any model call fails.
	var remote assist.Assistant
	if cfg.AssistantEnabled() {
		remote = assist.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		slog.Info("Model-backed assistant enabled", "model", cfg.OpenAIModel)
	} else {
		slog.Info("Model-backed assistant disabled (OPENAI_API_KEY not set)")
	}
	assistant := assist.WithFallback(remote, assist.NewRules())

	intake := flow.New(assistant, repo, cfg.SessionTTL, flow.Limits{
		MaxTotalResponses: cfg.MaxTotalResponses,
		MaxStageAttempts:  cfg.MaxStageAttempts,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	intake.Sessions().StartTTLWorker(ctx)

	// Optional REST binding.
	var srv *http.Server
	if cfg.HTTPAddr != "" {
		r := chi.NewRouter()
		r.Use(chiMiddleware.RequestID)
		r.Use(chiMiddleware.RealIP)
		r.Use(chiMiddleware.Logger)
		r.Use(chiMiddleware.Recoverer)

		api.NewHealthHandler(repo).RegisterHealth(r)
		api.NewHandler(intake, repo).RegisterRoutes(r)

		srv = &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}
		go func() {
			slog.Info("HTTP server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("HTTP server failed", "error", err)
				os.Exit(1)
			}
		}()
	}

	// Telegram long polling.
	poller := telegram.NewPoller(telegram.NewClient(cfg.TelegramBotToken), intake)
	pollerDone := make(chan error, 1)
	go func() {
		pollerDone <- poller.Run(ctx)
	}()

	select {
	case <-ctx.Done():
	case err := <-pollerDone:
		if err != nil {
			slog.Error("Telegram poller failed", "error", err)
			stop()
			os.Exit(1)
		}
	}
	stop()

	slog.Info("Shutting down gracefully...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server forced to shutdown", "error", err)
		}
	}

	slog.Info("Bot stopped successfully")
}
