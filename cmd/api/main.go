package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/odontoapp/clinic-api/internal/config"
	"github.com/odontoapp/clinic-api/internal/handler"
	anamnesisHandler "github.com/odontoapp/clinic-api/internal/handler/anamnesis"
	auditHandler "github.com/odontoapp/clinic-api/internal/handler/audit"
	authHandler "github.com/odontoapp/clinic-api/internal/handler/auth"
	catalogHandler "github.com/odontoapp/clinic-api/internal/handler/catalog"
	patientHandler "github.com/odontoapp/clinic-api/internal/handler/patient"
	"github.com/odontoapp/clinic-api/internal/middleware"
	"github.com/odontoapp/clinic-api/internal/repository/postgres"
	"github.com/odontoapp/clinic-api/internal/router"
	anamnesisService "github.com/odontoapp/clinic-api/internal/service/anamnesis"
	auditService "github.com/odontoapp/clinic-api/internal/service/audit"
	authService "github.com/odontoapp/clinic-api/internal/service/auth"
	catalogService "github.com/odontoapp/clinic-api/internal/service/catalog"
	encounterService "github.com/odontoapp/clinic-api/internal/service/encounter"
	patientService "github.com/odontoapp/clinic-api/internal/service/patient"
	"github.com/odontoapp/clinic-api/pkg/logger"
	"github.com/odontoapp/clinic-api/pkg/messaging"
	redisBroker "github.com/odontoapp/clinic-api/pkg/messaging/redis"
	"github.com/odontoapp/clinic-api/pkg/worker"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Console:    os.Getenv("CLINIC_ENV") != "production",
	})
	zlog.Logger = *appLogger.Zerolog()
	zerolog.DefaultContextLogger = appLogger.Zerolog()

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, appLogger.Zerolog())
		if err != nil {
			appLogger.Fatal(err, "failed to connect to redis")
		}
		defer broker.Close()
	} else {
		appLogger.Warn("redis not configured, review events will not be published")
	}

	base := postgres.NewBaseRepository(db)
	patientRepo := postgres.NewPatientRepository(base)
	anamnesisRepo := postgres.NewAnamnesisRepository(base)
	encounterRepo := postgres.NewEncounterRepository(base)
	auditRepo := postgres.NewAuditRepository(base)
	catalogRepo := postgres.NewCatalogRepository(base)
	userRepo := postgres.NewUserRepository(base)

	auditSvc := auditService.NewService(auditRepo)
	patientSvc := patientService.NewService(patientRepo, auditSvc)
	encounterSvc := encounterService.NewService(encounterRepo, auditSvc)
	catalogSvc := catalogService.NewService(catalogRepo)
	authSvc := authService.NewService(userRepo, authService.Config{
		Secret:      cfg.JWT.Secret,
		ExpiryHours: cfg.JWT.ExpiryHours,
	})
	anamnesisSvc := anamnesisService.NewService(anamnesisRepo, patientRepo, encounterRepo, auditService.NewLogger(auditSvc), broker)

	authMw := middleware.NewAuthMiddleware(authSvc)

	r := router.New(
		authMw,
		authHandler.NewHandler(authSvc),
		patientHandler.NewHandler(patientSvc, encounterSvc),
		anamnesisHandler.NewHandler(anamnesisSvc),
		auditHandler.NewHandler(auditSvc),
		catalogHandler.NewHandler(catalogSvc),
		handler.NewHealthHandler(db),
		router.Config{
			RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst: cfg.RateLimit.Burst,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cleanup := worker.NewAuditCleanupWorker(auditRepo, cfg.Audit.RetentionDays, cfg.Audit.CleanupInterval, appLogger.Zerolog())
	go cleanup.Start(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		appLogger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "graceful shutdown failed")
	}
}
