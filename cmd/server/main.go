package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/joho/godotenv"
	"github.com/tendant/simple-catalog/pkg/catalog"
	"github.com/tendant/simple-catalog/pkg/catalog/admin"
	"github.com/tendant/simple-catalog/pkg/catalog/api"
	"github.com/tendant/simple-catalog/pkg/catalog/config"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.ServerConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := cfg.BuildRepository(ctx)
	if err != nil {
		return fmt.Errorf("failed to build repository: %w", err)
	}
	defer closeRepo()

	svc, err := cfg.BuildService(repo, logger)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes(cfg, svc, admin.New(repo)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Catalog server starting",
			"port", cfg.Port,
			"env", cfg.Environment,
			"database", cfg.DatabaseType,
			"resolve_mode", cfg.ResolveMode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exiting")
	return nil
}

// routes wraps the catalog API with the server middleware stack
func routes(cfg *config.ServerConfig, svc catalog.Service, adminSvc admin.AdminService) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	// CORS for development
	if cfg.Environment == "development" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	r.Get("/config", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"environment":       cfg.Environment,
			"database_type":     cfg.DatabaseType,
			"resolve_mode":      cfg.ResolveMode,
			"default_page_size": cfg.DefaultPageSize,
			"max_page_size":     cfg.MaxPageSize,
		})
	})
	r.Mount("/api/v1", api.NewRouter(svc))
	r.Mount("/admin", api.NewAdminHandler(adminSvc).Routes())

	return r
}
