package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/propma/affordability/internal/adapter/explainer"
	httpAdapter "github.com/propma/affordability/internal/adapter/http"
	"github.com/propma/affordability/internal/adapter/http/handler"
	"github.com/propma/affordability/internal/adapter/http/middleware"
	postgresRepo "github.com/propma/affordability/internal/adapter/repository/postgres"
	redisRepo "github.com/propma/affordability/internal/adapter/repository/redis"
	"github.com/propma/affordability/internal/affordability"
	"github.com/propma/affordability/internal/infrastructure/auth"
	"github.com/propma/affordability/internal/infrastructure/config"
	"github.com/propma/affordability/internal/infrastructure/eventpublisher"
	"github.com/propma/affordability/internal/infrastructure/logger"
	"github.com/propma/affordability/internal/infrastructure/metrics"
	"github.com/propma/affordability/internal/infrastructure/postgres"
	"github.com/propma/affordability/internal/infrastructure/redis"
	"github.com/propma/affordability/internal/usecase"
)

const (
	outboxRetention        = 7 * 24 * time.Hour
	rateLimiterCleanupTick = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	log.Logger = zlog

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zlog); err != nil {
		zlog.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, zlog zerolog.Logger) error {
	m := metrics.New()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	zlog.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, zlog); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	zlog.Info().Msg("connected to redis")

	explain, err := explainer.FromConfig(ctx, cfg, m, zlog)
	if err != nil {
		return fmt.Errorf("configure explainer: %w", err)
	}
	zlog.Info().Str("explainer", explain.Name()).Msg("explanation step configured")

	// Initialize repositories
	var outboxRepo usecase.OutboxRepository = postgresRepo.NewNullOutboxRepository()
	if cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	}
	assessmentUC := usecase.NewAssessmentUseCase(usecase.AssessmentDeps{
		Engine: affordability.NewEngine(affordability.MultiObserver{
			affordability.LogObserver{Log: zlog},
			affordability.MetricsObserver{Metrics: m},
		}),
		Explainer:   explain,
		TxManager:   postgresRepo.NewTxManager(pool),
		Assessments: postgresRepo.NewAssessmentRepository(pool),
		Outbox:      outboxRepo,
		Retrier:     postgresRepo.NewRetrier(zlog),
		IDGen:       postgresRepo.NewULIDGenerator(),
		Cache:       redisRepo.NewCache(redisClient),
		CacheTTL:    cfg.AssessmentCacheTTL,
		Metrics:     m,
	})

	routerCfg := httpAdapter.RouterConfig{
		AssessmentHandler: handler.NewAssessmentHandler(assessmentUC),
		ExtractHandler:    handler.NewExtractHandler(),
		HealthHandler: handler.NewHealthHandler(
			handler.CheckerFunc(pool.Ping),
			redis.Checker{Client: redisClient},
		),
		IdempotencyStore: redisRepo.NewIdempotencyStore(redisClient),
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m),
		Metrics:          m,
		Gatherer:         prometheus.DefaultGatherer,
		Logger:           zlog,
	}
	if cfg.AuthEnabled {
		routerCfg.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		zlog.Info().Msg("authentication enabled")
	}

	// Background workers
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  redisRepo.NewPublisher(redisClient, cfg.OutboxChannel),
			Logger:     zlog.With().Str("component", "outbox").Logger(),
			Metrics:    m,
			Interval:   cfg.OutboxInterval,
			Retention:  outboxRetention,
		})
		go func() {
			if err := publisher.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				zlog.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	} else {
		zlog.Info().Msg("outbox disabled, assessment events are discarded")
	}
	go cleanupLimiters(workerCtx, routerCfg.RateLimiter, rateLimiterCleanupTick)

	server := newServer(cfg, httpAdapter.NewRouter(routerCfg))
	return serve(ctx, server, cfg.HTTPShutdownTimeout, zlog)
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// serve runs server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, zlog zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	zlog.Info().Msg("server stopped")
	return nil
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters()
		}
	}
}
