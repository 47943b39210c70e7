// Wayfare - Conversational Travel Agent Server
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

	"github.com/wayfare/wayfare/internal/agent"
	"github.com/wayfare/wayfare/internal/api"
	"github.com/wayfare/wayfare/internal/config"
	"github.com/wayfare/wayfare/internal/memory"
	"github.com/wayfare/wayfare/internal/middleware"
	"github.com/wayfare/wayfare/internal/store"
	"github.com/wayfare/wayfare/internal/tools"
	"github.com/wayfare/wayfare/internal/ws"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize the transcript archive (optional).
	var transcript agent.TranscriptSink
	if cfg.Transcript.Enabled {
		repo, err := store.NewSQLite(cfg.Transcript.DBPath)
		if err != nil {
			slog.Error("Failed to initialize transcript archive", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := repo.Close(); closeErr != nil {
				slog.Error("Failed to close transcript archive", "error", closeErr)
			}
		}()

		if err := repo.Ping(context.Background()); err != nil {
			slog.Error("Transcript archive health check failed", "error", err)
			os.Exit(1)
		}

		recorder := store.NewRecorder(repo, cfg.Transcript.QueueSize, logger)
		defer func() {
			if closeErr := recorder.Close(); closeErr != nil {
				slog.Error("Failed to flush transcript recorder", "error", closeErr)
			}
		}()
		transcript = recorder
		slog.Info("Transcript archive ready", "path", cfg.Transcript.DBPath)
	} else {
		slog.Info("Transcript archive disabled")
	}

	// Initialize services.
	registry := tools.NewRegistry(tools.Config{
		OpenWeatherKey: cfg.Providers.OpenWeatherKey,
		GoogleMapsKey:  cfg.Providers.GoogleMapsKey,
		TripAdvisorKey: cfg.Providers.TripAdvisorKey,
	})
	slog.Info("Travel tools registered", "available", registry.Available())

	backend, err := agent.NewOpenAIClient(agent.OpenAIConfig{
		APIKey:         cfg.OpenAI.APIKey,
		Model:          cfg.OpenAI.Model,
		BaseURL:        cfg.OpenAI.BaseURL,
		Temperature:    cfg.OpenAI.Temperature,
		MaxAttempts:    cfg.OpenAI.MaxAttempts,
		RequestTimeout: cfg.OpenAI.RequestTimeout,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize generation backend", "error", err)
		os.Exit(1)
	}

	mem := memory.NewStore(cfg.WindowSize)
	svc := agent.NewService(mem, backend, registry, transcript, logger)

	sm := ws.NewSessionManager()
	wsHandler := ws.NewHandler(svc, sm, cfg.FrontendURL, cfg.IsDevelopment())
	apiHandler := api.NewHandler(registry, sm)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS([]string{"*"}))

	// Public routes.
	r.Get("/health", apiHandler.Health)

	// WebSocket endpoint.
	r.Get("/ws", wsHandler.ServeHTTP)

	// Create server. WebSocket connections stay open indefinitely, so no
	// write timeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
