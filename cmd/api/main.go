package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"

	"github.com/quoteflow/backoffice/internal/app"
	"github.com/quoteflow/backoffice/internal/audit"
	"github.com/quoteflow/backoffice/internal/auth"
	"github.com/quoteflow/backoffice/internal/common"
	"github.com/quoteflow/backoffice/internal/config"
	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
	"github.com/quoteflow/backoffice/internal/events"
	"github.com/quoteflow/backoffice/internal/health"
	"github.com/quoteflow/backoffice/internal/lock"
	"github.com/quoteflow/backoffice/internal/notify"
	"github.com/quoteflow/backoffice/internal/obs"
	"github.com/quoteflow/backoffice/internal/order"
	"github.com/quoteflow/backoffice/internal/promo"
	"github.com/quoteflow/backoffice/internal/quote"
	"github.com/quoteflow/backoffice/internal/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "backoffice")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "backoffice-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio: envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0),
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	if err := app.RunMigrations(cfg.MigrationsURL, cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "backoffice-api"
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
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	queries := dbgen.New(pool)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	validate := validator.New()

	auditSvc := audit.Service{Store: queries, Enabled: envBool("AUDIT_ENABLED", true)}
	bus := &events.Bus{
		Store: queries,
		Notifiers: []events.Notifier{
			notify.NewAlertNotifier(logger),
		},
	}
	if webhookURL := os.Getenv("WEBHOOK_URL"); webhookURL != "" {
		webhook, err := notify.NewWebhookNotifier(webhookURL, os.Getenv("WEBHOOK_SECRET"), 5*time.Second)
		if err != nil {
			logger.Fatal().Err(err).Msg("configure webhook notifier")
		}
		bus.Notifiers = append(bus.Notifiers, webhook)
	}

	promoSvc := &promo.Service{
		Catalog:   promo.Catalog{Q: queries},
		Evaluator: promo.Evaluator{Usage: queries},
	}
	promoHandler := &promo.Handler{Service: promoSvc, Validate: validate}

	quoteSvc := &quote.Service{
		DB:             pool,
		Q:              quote.NewStore(queries),
		Pricer:         promoSvc,
		Audit:          auditSvc,
		Events:         bus,
		Locker:         lock.Locker{R: redisClient},
		Log:            logger,
		ConvertLockTTL: cfg.ConvertLockTTL,
		ValidityDays:   cfg.QuoteValidityDays,
	}
	quoteHandler := &quote.Handler{Service: quoteSvc, Validate: validate}
	orderHandler := &order.Handler{Q: queries}

	authMiddleware := auth.Middleware{Verifier: auth.Verifier{
		Secret:    []byte(cfg.JWTSecret),
		Issuer:    envOrDefault("JWT_ISSUER", ""),
		ClockSkew: 30 * time.Second,
	}}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if store, err := app.NewLimiterStore(redisClient); err != nil {
		logger.Error().Err(err).Msg("initialise limiter store")
	} else {
		global := limiter.New(store, limiter.Rate{
			Period: time.Minute,
			Limit:  int64(cfg.RateLimitPerMinute),
		})
		r.Use(limiterstdlib.NewMiddleware(global).Handler)
	}

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker: health.Deps{Pool: pool, Redis: redisClient},
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	pricingLimiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "rl:pricing:"},
		Config: ratelimit.Config{
			Key:    pricingLimitKey,
			Window: time.Minute,
			Max:    cfg.RateLimitPerMinute,
		},
		OnError: func(err error) { logger.Error().Err(err).Msg("rate limiter") },
	}

	r.Route("/api/v1", func(v chi.Router) {
		v.Group(func(g chi.Router) {
			g.Use(authMiddleware.RequireAuth)

			g.Route("/quotes", func(q chi.Router) {
				q.Get("/", quoteHandler.List)
				q.Post("/", quoteHandler.Create)
				q.Get("/{id}", quoteHandler.Get)
				q.Get("/{id}/history", quoteHandler.History)
				q.With(pricingLimiter.Middleware).Post("/{id}/price", quoteHandler.Price)
				q.With(pricingLimiter.Middleware).Post("/{id}/finalize", quoteHandler.Finalize)
				q.Post("/{id}/status", quoteHandler.ChangeStatus)
				q.Post("/{id}/convert", quoteHandler.Convert)
			})

			g.Get("/orders", orderHandler.List)
			g.Get("/orders/{id}", orderHandler.Get)

			g.With(pricingLimiter.Middleware).Post("/promotions/preview", promoHandler.Preview)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func pricingLimitKey(r *http.Request) string {
	if actor, ok := common.ActorID(r.Context()); ok && actor != "" {
		return actor
	}
	return strings.Split(r.RemoteAddr, ":")[0]
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

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}
