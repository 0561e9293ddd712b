package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nabd-labs/quiz-api/internal/corpus"
	"github.com/nabd-labs/quiz-api/internal/platform/cache"
	"github.com/nabd-labs/quiz-api/internal/platform/config"
	"github.com/nabd-labs/quiz-api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	store := corpus.NewStore(cfg.Content.DocumentPath)

	var limiter *server.RateLimiter
	if cfg.Cache.URL != "" {
		c, err := cache.Connect(context.Background(), cfg.Cache.URL)
		if err != nil {
			slog.Error("failed to connect to cache", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		limiter = server.NewRateLimiter(c.Client, cfg.RateLimit.Window, cfg.RateLimit.Max)
		slog.Info("rate limiting enabled", "window", cfg.RateLimit.Window, "max", cfg.RateLimit.Max)
	} else {
		slog.Warn("rate limiting disabled, no cache URL configured")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.New(store, limiter).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "document", cfg.Content.DocumentPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
