package main

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/handler"
	internalmiddleware "github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/requestid"
)

const metricsPath = "/metrics"

type routerDeps struct {
	Timetable  *handler.TimetableHandler
	Catalog    *handler.CatalogHandler
	SolverRuns *handler.SolverRunHandler
	Probes     *handler.MetricsHandler
	Metrics    *service.MetricsService
	Tokens     internalmiddleware.TokenValidator
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(deps.Metrics, metricsPath))

	r.GET("/health", deps.Probes.Health)
	r.GET("/ready", deps.Probes.Ready)
	if cfg.Metrics.Enabled {
		r.GET(metricsPath, deps.Probes.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(apiPrefix(cfg.APIPrefix))
	api.Use(internalmiddleware.WithResponseMeta())

	api.GET("/health", deps.Probes.Database)
	api.GET("/courses", deps.Catalog.Courses)
	api.GET("/faculty", deps.Catalog.Faculty)
	api.GET("/rooms", deps.Catalog.Rooms)
	api.GET("/timetable", deps.Timetable.Current)
	api.GET("/timetable/export", deps.Timetable.Export)

	writers := guard(cfg, deps.Tokens, models.RoleAdmin, models.RoleScheduler)
	readers := guard(cfg, deps.Tokens, models.RoleAdmin, models.RoleScheduler, models.RoleViewer)

	api.POST("/run-solver", append(writers, deps.Timetable.RunSolver)...)
	api.POST("/reschedule", append(writers, deps.Timetable.Reschedule)...)
	api.POST("/solver-runs", append(writers, deps.SolverRuns.Submit)...)
	api.GET("/solver-runs/:id", append(readers, deps.SolverRuns.Get)...)

	return r
}

// guard returns the auth chain for a route, or nothing when auth is off.
func guard(cfg *config.Config, tokens internalmiddleware.TokenValidator, roles ...models.OperatorRole) []gin.HandlerFunc {
	if !cfg.Auth.Enabled {
		return nil
	}
	return []gin.HandlerFunc{internalmiddleware.JWT(tokens), internalmiddleware.RequireRoles(roles...)}
}

func apiPrefix(prefix string) string {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		return "/api"
	}
	return prefix
}
