package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpadapter "github.com/simaogato/fliptrack-backend/internal/adapter/http"
	"github.com/simaogato/fliptrack-backend/internal/adapter/repository/memory"
	"github.com/simaogato/fliptrack-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/fliptrack-backend/internal/config"
	"github.com/simaogato/fliptrack-backend/internal/domain"
	"github.com/simaogato/fliptrack-backend/internal/usecase/analytics"
	"github.com/simaogato/fliptrack-backend/internal/usecase/importer"
)

func main() {
	// 1. Load configuration from the environment
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging.Level)
	slog.SetDefault(logger)

	// 2. Initialize the flip repository
	flipRepo, cleanup, err := newFlipRepository(cfg)
	if err != nil {
		logger.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	// 3. Initialize services (use cases)
	importerService := importer.NewService(flipRepo, cfg.Challenge.DefaultTaxRate())
	analyticsService := analytics.NewService(cfg.Challenge.StartingBalance, cfg.Challenge.TargetCeiling)

	// 4. Build the router: health check open, API behind the bearer token
	handler := httpadapter.NewHandler(flipRepo, importerService, analyticsService, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(httpadapter.BearerAuth(cfg.Auth.Token))
		r.Mount("/", handler.Routes())
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening",
			slog.Int("port", cfg.Server.Port),
			slog.String("storage", cfg.Storage.Backend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	waitForShutdown(srv, cfg, logger)
}

// newFlipRepository builds the configured storage backend. The returned
// cleanup closes any underlying connection.
func newFlipRepository(cfg *config.Config) (domain.FlipRepository, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := postgres.NewDB(cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewFlipRepository(db), func() { db.Close() }, nil
	default:
		return memory.NewFlipRepository(), func() {}, nil
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down
// the server.
func waitForShutdown(srv *http.Server, cfg *config.Config, logger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", slog.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}
