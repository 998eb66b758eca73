package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"dexkeeper/internal/audit"
	"dexkeeper/internal/config"
	"dexkeeper/internal/flood"
	"dexkeeper/internal/scheduler"
	"dexkeeper/internal/settings"
	"dexkeeper/internal/telegram"
	"dexkeeper/internal/users"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	var logLevel slog.Level
	switch cfg.Logging.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if cfg.Logging.JSONFormat {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Create root context with cancellation
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// WaitGroup for tracking active goroutines
	var wg sync.WaitGroup

	// Initialize stores over the shared database
	settingsStore, err := settings.NewSQLiteStore(cfg.Database.Path, logger)
	if err != nil {
		logger.Error("failed to open settings store", "error", err)
		os.Exit(1)
	}
	defer settingsStore.Close()

	auditLog, err := audit.NewSQLiteLog(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open audit log", "error", err)
		os.Exit(1)
	}
	defer auditLog.Close()

	userStore, err := users.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open user store", "error", err)
		os.Exit(1)
	}
	defer userStore.Close()

	// Seed the default welcome message on first run so the liveness
	// probe always finds at least one settings row.
	if err := seedDefaults(settingsStore); err != nil {
		logger.Error("failed to seed default settings", "error", err)
		os.Exit(1)
	}

	// Initialize flood tracker and scheduler
	tracker := flood.NewWindowTracker(cfg.Moderation.FloodWindow, cfg.Moderation.TrackedActors)
	sched := scheduler.New(logger)
	defer sched.Stop()

	// Initialize Telegram bot
	bot, err := telegram.NewBot(cfg, settingsStore, auditLog, userStore, tracker, sched, logger)
	if err != nil {
		logger.Error("failed to create telegram bot", "error", err)
		os.Exit(1)
	}

	// Start bot in goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := bot.Run(rootCtx); err != nil && err != context.Canceled {
			logger.Error("bot error", "error", err)
		}
	}()

	logger.Info("bot started",
		"admin_id", cfg.Telegram.AdminID,
		"database", cfg.Database.Path,
	)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutdown signal received", "signal", sig)

	// Cancel root context to signal all goroutines
	rootCancel()

	// Wait for graceful shutdown with timeout
	shutdownTimeout := 30 * time.Second
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("graceful shutdown complete")
	case <-time.After(shutdownTimeout):
		logger.Warn("shutdown timeout exceeded, forcing exit")
	}
}

func seedDefaults(st settings.Store) error {
	const sentinel = "\x00unset"
	if st.String(settings.KeyWelcomeMessage, sentinel) != sentinel {
		return nil
	}
	return st.SetString(settings.KeyWelcomeMessage, "Welcome! Please read the rules.")
}
