package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cesargomez89/watchlist/internal/app"
	"github.com/cesargomez89/watchlist/internal/catalog"
	"github.com/cesargomez89/watchlist/internal/config"
	"github.com/cesargomez89/watchlist/internal/constants"
	httpapp "github.com/cesargomez89/watchlist/internal/http"
	"github.com/cesargomez89/watchlist/internal/httpclient"
	"github.com/cesargomez89/watchlist/internal/logger"
	"github.com/cesargomez89/watchlist/internal/store"
	"github.com/cesargomez89/watchlist/internal/tools"
)

func main() {
	cfg := config.Load()

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		File:      cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
	})

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		appLogger.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	// Initialize DB
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Remote catalog
	client := httpclient.NewClient(&http.Client{Timeout: cfg.TMDBTimeout}, cfg.TMDBRateLimit)
	provider := catalog.NewTMDBProvider(cfg.TMDBBaseURL, cfg.TMDBImageBaseURL, cfg.TMDBAPIKey, client, appLogger)

	// Initialize Services
	watchlistService := app.NewWatchlistService(db, provider, appLogger)
	registry := tools.NewWatchlistRegistry(watchlistService, provider)

	// Initialize Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := httpapp.NewHandler(watchlistService, provider, registry, db, appLogger)
	h.RegisterRoutes(r)

	// Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr, "db", cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exiting")
}
