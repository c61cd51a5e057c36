package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/COSYBANANA63/gitcards/internal/api"
	"github.com/COSYBANANA63/gitcards/internal/config"
	"github.com/COSYBANANA63/gitcards/internal/github"
	"github.com/COSYBANANA63/gitcards/internal/notes"
	"github.com/COSYBANANA63/gitcards/internal/resilience"
	"github.com/COSYBANANA63/gitcards/internal/service"
	"github.com/COSYBANANA63/gitcards/internal/state"
	"github.com/COSYBANANA63/gitcards/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application startup error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully")

	// 3. Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Open the local cache; schema is created/migrated on first run
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer db.Close()
	logger.Info("Local store ready", "path", cfg.DBPath)

	if err := os.MkdirAll(filepath.Dir(cfg.StatePath), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	appState, err := state.Open(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer appState.Close()

	if username, err := appState.LastUsername(); err == nil && username != "" {
		logger.Info("Restoring last searched username", "username", username)
	}

	// 5. Initialize application components
	watcher := resilience.NewWatcher(resilience.DialProbe(cfg.ProbeAddr), cfg.ProbeInterval, logger)
	watcher.OnChange(func(online bool) {
		if online {
			logger.Info("Offline banner cleared")
		} else {
			logger.Warn("Offline banner raised", "message", resilience.BannerMessage)
		}
	})

	guard := resilience.NewGuard(cfg.NetworkTimeout, watcher.Online, resilience.Hooks{}, logger)

	ghClient, err := github.NewClient(cfg.GithubAPIURL, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	profiles := service.NewProfileService(ghClient, guard, db, appState, watcher, cfg.PageSize, logger)
	noteSvc := notes.NewService(db, logger)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewRouter(profiles, noteSvc, logger),
	}

	// 6. Run the server and the connectivity watcher until shutdown
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watcher.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("Listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
