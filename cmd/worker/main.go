package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quoteflow/backoffice/internal/audit"
	"github.com/quoteflow/backoffice/internal/config"
	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
	"github.com/quoteflow/backoffice/internal/events"
	"github.com/quoteflow/backoffice/internal/jobs"
	"github.com/quoteflow/backoffice/internal/lock"
	"github.com/quoteflow/backoffice/internal/notify"
	"github.com/quoteflow/backoffice/internal/obs"
	"github.com/quoteflow/backoffice/internal/quote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	obs.MustRegisterDomainMetrics(envOrDefault("OBS_METRICS_NAMESPACE", "backoffice"), nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, queries := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	auditSvc := audit.Service{Store: queries, Enabled: true}
	bus := &events.Bus{
		Store: queries,
		Notifiers: []events.Notifier{
			notify.NewAlertNotifier(logger),
		},
	}
	quoteSvc := &quote.Service{
		DB:             pool,
		Q:              quote.NewStore(queries),
		Audit:          auditSvc,
		Events:         bus,
		Locker:         lock.Locker{R: redisClient},
		Log:            logger,
		ConvertLockTTL: cfg.ConvertLockTTL,
		ValidityDays:   cfg.QuoteValidityDays,
	}

	handlers := jobs.Handlers{
		Quotes:         quoteSvc,
		Audit:          auditSvc,
		AuditRetention: time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour,
		Log:            logger,
	}

	redisConn, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis uri for asynq")
	}

	scheduler := asynq.NewScheduler(redisConn, &asynq.SchedulerOpts{Location: time.UTC})
	if err := jobs.Schedule(scheduler, cfg.ExpirySweepCron, cfg.AuditCleanupCron); err != nil {
		logger.Fatal().Err(err).Msg("register scheduled tasks")
	}

	server := asynq.NewServer(redisConn, asynq.Config{Concurrency: 2})
	mux := asynq.NewServeMux()
	handlers.Register(mux)

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error().Err(err).Msg("scheduler stopped")
			stop()
		}
	}()

	logger.Info().Msg("worker starting")
	go func() {
		<-ctx.Done()
		scheduler.Shutdown()
		server.Shutdown()
	}()
	if err := server.Run(mux); err != nil {
		logger.Error().Err(err).Msg("worker stopped with error")
		return
	}
	logger.Info().Msg("worker shutdown complete")
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, *dbgen.Queries) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if cfg.DBMaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.DBMaxConns)
	}
	if cfg.DBMinConns > 0 {
		poolConfig.MinConns = int32(cfg.DBMinConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool, dbgen.New(pool)
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return redisClient
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
