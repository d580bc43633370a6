package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"planets-client/internal/cli"
	"planets-client/internal/middleware"
	"planets-client/internal/planet"
	"planets-client/internal/shared/config"
	"planets-client/internal/shared/logger"
)

func main() {
	if err := config.Init(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	cfg := config.GlobalConfig

	closer, err := logger.Init(cfg.Logging, cfg.Environment)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer closer.Close()

	slog.Info("Starting planets client",
		"environment", cfg.Environment,
		"base_url", cfg.API.BaseURL,
		"rate_limit_enabled", cfg.RateLimit.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := planet.NewClient(cfg.API.BaseURL, newHTTPClient(cfg), slog.Default())
	app := cli.NewApp(client, slog.Default(), os.Stdin, os.Stdout, cli.Interactive(os.Stdin))

	if err := app.Run(ctx); err != nil {
		slog.Error("Planets client failed", "error", err)
		os.Exit(1)
	}
}

// newHTTPClient stacks the outbound middleware. The first entry sees the
// request first.
func newHTTPClient(cfg *config.Config) *http.Client {
	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		Enabled:           cfg.RateLimit.Enabled,
	})

	return &http.Client{
		Timeout: cfg.API.Timeout,
		Transport: middleware.Chain(nil,
			middleware.StaticHeaders(cfg.API.Headers),
			middleware.RequestID,
			limiter.Middleware,
			middleware.Bearer(cfg.API.Token),
		),
	}
}
