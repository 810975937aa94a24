package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/timetable-api/api/swagger"
	"github.com/noah-isme/timetable-api/internal/handler"
	"github.com/noah-isme/timetable-api/internal/repository"
	"github.com/noah-isme/timetable-api/internal/scheduler"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/cache"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/database"
	"github.com/noah-isme/timetable-api/pkg/logger"
)

// @title Timetable API
// @version 1.0.0
// @description Course timetabling service backed by a pseudo-boolean solver
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		}
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	validate := validator.New()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, redisClient != nil)

	solver := scheduler.New(nil, logr.Named("scheduler"), scheduler.Config{
		Timeout:      cfg.Solver.Timeout,
		MaxVariables: cfg.Solver.MaxVariables,
	})
	timetableSvc := service.NewTimetableService(
		repository.NewSolverDataRepository(db),
		repository.NewTimetableRepository(db),
		db,
		solver,
		cacheSvc,
		metrics,
		validate,
		logr,
		service.TimetableConfig{Verify: cfg.Solver.Verify, CacheTTL: cfg.Cache.TTL},
	)
	catalogSvc := service.NewCatalogService(repository.NewCatalogRepository(db), cacheSvc, validate, logr, cfg.Cache.TTL)
	exportSvc := service.NewExportService(timetableSvc, logr)
	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	runSvc := service.NewSolverRunService(timetableSvc, metrics, validate, logr, service.SolverRunConfig{
		Workers:   cfg.Solver.Workers,
		QueueSize: cfg.Solver.QueueSize,
		TTL:       cfg.Solver.RunTTL,
	})
	runSvc.Start(ctx)
	defer runSvc.Stop()

	r := newRouter(cfg, logr, routerDeps{
		Timetable:  handler.NewTimetableHandler(timetableSvc, exportSvc),
		Catalog:    handler.NewCatalogHandler(catalogSvc),
		SolverRuns: handler.NewSolverRunHandler(runSvc),
		Probes:     handler.NewMetricsHandler(metrics, database.Checker{DB: db}),
		Metrics:    metrics,
		Tokens:     authSvc,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Solver.Timeout + 30*time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.Bool("auth", cfg.Auth.Enabled),
			zap.Bool("cache", cacheSvc.Enabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
