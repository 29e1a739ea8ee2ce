package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshstarthq/freshstart-backend/api/controllers"
	"github.com/freshstarthq/freshstart-backend/api/routes"
	"github.com/freshstarthq/freshstart-backend/internal/account"
	"github.com/freshstarthq/freshstart-backend/internal/auth"
	"github.com/freshstarthq/freshstart-backend/internal/encouragements"
	"github.com/freshstarthq/freshstart-backend/internal/funds"
	"github.com/freshstarthq/freshstart-backend/internal/media"
	"github.com/freshstarthq/freshstart-backend/internal/metadata"
	"github.com/freshstarthq/freshstart-backend/internal/profiles"
	"github.com/freshstarthq/freshstart-backend/internal/ratelimit"
	"github.com/freshstarthq/freshstart-backend/internal/registry"
	"github.com/freshstarthq/freshstart-backend/internal/users"
	"github.com/freshstarthq/freshstart-backend/pkg/auth/session"
	"github.com/freshstarthq/freshstart-backend/pkg/config"
	"github.com/freshstarthq/freshstart-backend/pkg/db"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
	"github.com/freshstarthq/freshstart-backend/pkg/metrics"
	"github.com/freshstarthq/freshstart-backend/pkg/migrate"
	"github.com/freshstarthq/freshstart-backend/pkg/redis"
	"github.com/freshstarthq/freshstart-backend/pkg/storage/gcs"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		requireResource(ctx, logg, "dev migrations", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	gormDB := dbClient.DB()
	ready := map[string]controllers.Pinger{"redis": redisClient}

	profileSvc, err := profiles.NewService(profiles.NewRepository(gormDB))
	requireResource(ctx, logg, "profile service", err)

	registrySvc, err := registry.NewService(registry.NewRepository(gormDB), profileSvc)
	requireResource(ctx, logg, "registry service", err)

	fundSvc, err := funds.NewService(funds.NewRepository(gormDB), profileSvc)
	requireResource(ctx, logg, "fund service", err)

	encouragementSvc, err := encouragements.NewService(encouragements.NewRepository(gormDB), profiles.NewRepository(gormDB))
	requireResource(ctx, logg, "encouragement service", err)

	authSvc, err := auth.NewService(auth.ServiceParams{
		TxRunner:       dbClient,
		UserRepo:       users.NewRepository(gormDB),
		ProfileRepo:    profiles.NewRepository(gormDB),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	requireResource(ctx, logg, "auth service", err)

	accountSvc, err := account.NewService(account.NewRepository(gormDB), logg)
	requireResource(ctx, logg, "account service", err)

	clickSvc, err := newClickService(ctx, cfg, logg, gormDB, ready)
	requireResource(ctx, logg, "click service", err)

	var mediaSvc media.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		requireResource(ctx, logg, "gcs client", err)
		defer func() {
			if err := gcsClient.Close(); err != nil {
				logg.Error(ctx, "error closing gcs client", err)
			}
		}()
		ready["gcs"] = gcsClient

		mediaSvc, err = media.NewService(gcsClient, cfg.GCS.BucketName, cfg.GCS.UploadURLExpiry, cfg.GCS.MaxUploadMB)
		requireResource(ctx, logg, "media service", err)
	}

	limiterStore := ratelimit.NewStore(cfg.RateLimit, redisClient)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Ready:          ready,
		Limiter:        ratelimit.NewLimiter(limiterStore, cfg.RateLimit),
		Sessions:       sessionManager,
		Metrics:        httpMetrics,
		MetricsHandler: promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		Auth:           authSvc,
		Profiles:       profileSvc,
		Registry:       registrySvc,
		Funds:          fundSvc,
		Encouragements: encouragementSvc,
		Clicks:         clickSvc,
		Metadata:       metadata.NewService(cfg.Metadata, logg),
		Media:          mediaSvc,
		Account:        accountSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
