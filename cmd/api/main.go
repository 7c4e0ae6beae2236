package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/footballzones-backend/api"
	"github.com/angelmondragon/footballzones-backend/api/middleware"
	"github.com/angelmondragon/footballzones-backend/api/routes"
	"github.com/angelmondragon/footballzones-backend/internal/articles"
	"github.com/angelmondragon/footballzones-backend/internal/auth"
	"github.com/angelmondragon/footballzones-backend/internal/subscriptions"
	"github.com/angelmondragon/footballzones-backend/internal/users"
	"github.com/angelmondragon/footballzones-backend/internal/views"
	"github.com/angelmondragon/footballzones-backend/pkg/config"
	"github.com/angelmondragon/footballzones-backend/pkg/db"
	"github.com/angelmondragon/footballzones-backend/pkg/logger"
	"github.com/angelmondragon/footballzones-backend/pkg/metrics"
	"github.com/angelmondragon/footballzones-backend/pkg/migrate"
	"github.com/angelmondragon/footballzones-backend/pkg/redis"
	"github.com/angelmondragon/footballzones-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	params := routes.Params{
		Config: cfg,
		Logger: logg,
		DB:     dbClient,
	}

	// Redis only backs auth rate limiting and readiness; the API runs without it.
	if cfg.Redis.Configured() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "redis unavailable, continuing without rate limiting", err)
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logg.Error(context.Background(), "error closing redis", err)
				}
			}()
			params.Redis = redisClient
			params.RateStore = redisClient
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limiting disabled")
	}

	userRepo := users.NewRepository(dbClient.DB())
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	articleService, err := articles.NewService(articles.ServiceParams{
		DB:           dbClient,
		Repo:         articles.NewRepository(dbClient.DB()),
		Entitlements: subscriptions.NewRoleEntitlements(),
		Sanitizer:    security.NewContentSanitizer(),
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create article service", err)
		os.Exit(1)
	}

	tracker, err := views.NewTracker(
		views.NewRepository(dbClient.DB()),
		logg,
		metrics.NewViewMetrics(prometheus.DefaultRegisterer),
		views.Options{Workers: cfg.Views.Workers, QueueSize: cfg.Views.QueueSize},
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create view tracker", err)
		os.Exit(1)
	}

	trackLimiter := middleware.NewIPRateLimiter(
		cfg.TrackRateLimit.PerMinute,
		cfg.TrackRateLimit.Burst,
		cfg.TrackRateLimit.CleanupInterval,
	)
	defer trackLimiter.Stop()

	params.AuthService = authService
	params.ArticleService = articleService
	params.Tracker = tracker
	params.TrackLimiter = trackLimiter
	params.HTTPMetrics = metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)
	params.MetricsHandler = promhttp.Handler()

	server := api.NewServer(cfg, routes.NewRouter(params))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": server.Addr,
	})
	logg.Info(ctx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	logg.Info(ctx, "api server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), api.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "http shutdown failed", err)
	}
	if err := tracker.Close(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "view tracker did not drain", err)
	}
}
