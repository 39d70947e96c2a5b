// Package main is the entrypoint for the askbetter API server.
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

	"github.com/kiranshivaraju/askbetter/internal/api"
	"github.com/kiranshivaraju/askbetter/internal/api/handler"
	mw "github.com/kiranshivaraju/askbetter/internal/api/middleware"
	"github.com/kiranshivaraju/askbetter/internal/api/response"
	"github.com/kiranshivaraju/askbetter/internal/cache"
	"github.com/kiranshivaraju/askbetter/internal/chat"
	"github.com/kiranshivaraju/askbetter/internal/coach"
	"github.com/kiranshivaraju/askbetter/internal/config"
	"github.com/kiranshivaraju/askbetter/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid values
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Server.LogLevel,
	}))
	slog.SetDefault(logger)
	slog.Info("config loaded", "env", cfg.Server.Env, "reply_delay", cfg.Chat.ReplyDelay)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]pinger{}

	// 2. Rule stats store: Postgres when configured, in-memory otherwise
	var st store.Store
	if cfg.Database.URL != "" {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		slog.Info("database connected")

		if err := store.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("database migrations applied")

		pgStore := store.NewPostgresStore(pool)
		checks["database"] = pgStore
		st = pgStore
	} else {
		slog.Info("DATABASE_URL not set, keeping rule stats in memory")
		st = store.NewMemoryStore()
	}

	// 3. Rate limiting: Redis when configured
	var rateLimit *mw.RateLimit
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		slog.Info("redis connected", "rate_limit_per_minute", cfg.Redis.RateLimitPerMinute)

		checks["cache"] = redisCache
		rateLimit = mw.NewRateLimit(redisCache, cfg.Redis.RateLimitPerMinute)
	} else {
		slog.Info("REDIS_URL not set, rate limiting disabled")
	}

	// 4. Coach service and the conversation it replies through
	svc := coach.NewService(st)
	conv := chat.NewConversation(svc, cfg.Chat.ReplyDelay)
	defer conv.Close()

	statsAuth := mw.NewAuth(cfg.Stats.TokenHash)
	if !statsAuth.Enabled() {
		slog.Warn("STATS_TOKEN_HASH not set, /api/v1/stats is unauthenticated")
	}

	// 5. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: rateLimit,
		StatsAuth: statsAuth,

		HealthHandler:       healthHandler(checks),
		AnalyzeHandler:      handler.NewAnalyzeHandler(svc),
		RulesHandler:        handler.NewRulesHandler(svc),
		ConversationHandler: handler.NewConversationHandler(conv),
		SubmitHandler:       handler.NewSubmitHandler(conv),
		StatsHandler:        handler.NewStatsHandler(svc),
	}

	router := api.NewRouter(deps)

	// 6. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler pings each configured dependency. Dependencies that are not
// configured are left out of the report.
func healthHandler(checks map[string]pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]string, len(checks))
		degraded := false
		for name, p := range checks {
			services[name] = "ok"
			if err := p.Ping(r.Context()); err != nil {
				slog.Warn("health check failed", "service", name, "error", err)
				services[name] = "degraded"
				degraded = true
			}
		}

		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", services)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": services,
		})
	}
}
