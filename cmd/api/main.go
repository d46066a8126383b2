package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tn02103/uniformAdministrationApp-sub004/api/swagger"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/handler"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/middleware"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/repository"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/service"
	"github.com/tn02103/uniformAdministrationApp-sub004/pkg/cache"
	"github.com/tn02103/uniformAdministrationApp-sub004/pkg/config"
	"github.com/tn02103/uniformAdministrationApp-sub004/pkg/database"
	"github.com/tn02103/uniformAdministrationApp-sub004/pkg/jobs"
	"github.com/tn02103/uniformAdministrationApp-sub004/pkg/logger"
	corsmiddleware "github.com/tn02103/uniformAdministrationApp-sub004/pkg/middleware/cors"
	reqidmiddleware "github.com/tn02103/uniformAdministrationApp-sub004/pkg/middleware/requestid"
	"github.com/tn02103/uniformAdministrationApp-sub004/pkg/notify"
)

// @title Uniform Administration Inspection API
// @version 1.0.0
// @description Inspection scheduling, per-cadet recording and inventory reporting
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Inspection.StateCacheTTL > 0 {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, inspection state cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()

	inspectionRepo := repository.NewInspectionRepository(db)
	deficiencyRepo := repository.NewDeficiencyRepository(db)
	cadetInspectionRepo := repository.NewCadetInspectionRepository(db)
	cadetRepo := repository.NewCadetRepository(db)
	deregistrationRepo := repository.NewDeregistrationRepository(db)
	uniformRepo := repository.NewUniformRepository(db)
	materialRepo := repository.NewMaterialRepository(db)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Notifications.WebhookURL != "" {
		notifier = notify.NewWebhook(cfg.Notifications.WebhookURL, cfg.Notifications.RequestTimeout)
	}

	reviewQueue := jobs.NewQueue("review-notifications", func(ctx context.Context, job jobs.Job[*dto.InspectionReview]) error {
		return notifier.Notify(ctx, service.ReviewJobType, job.Payload)
	}, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	})
	reviewQueue.Start(context.Background())
	defer reviewQueue.Stop()

	var metricsService *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsService = service.NewMetricsService()
	}

	reviewService := service.NewReviewService(deficiencyRepo, cadetRepo, cadetInspectionRepo, deregistrationRepo, logr)
	inspectionService := service.NewInspectionService(
		inspectionRepo, cadetRepo, cadetInspectionRepo, deregistrationRepo,
		cacheRepo, cfg.Inspection.StateCacheTTL,
		reviewService, reviewQueue, metricsService, validate, logr,
	)
	deficiencyService := service.NewDeficiencyService(deficiencyRepo, inspectionRepo, uniformRepo, uniformRepo, validate, logr)
	cadetInspectionService := service.NewCadetInspectionService(
		inspectionService, cadetRepo, deficiencyRepo, uniformRepo, materialRepo,
		cadetInspectionRepo, validate, logr,
	)
	uniformCountService := service.NewUniformCountService(uniformRepo, logr)

	inspectionHandler := handler.NewInspectionHandler(inspectionService)
	deficiencyHandler := handler.NewDeficiencyHandler(deficiencyService)
	cadetInspectionHandler := handler.NewCadetInspectionHandler(cadetInspectionService)
	uniformCountHandler := handler.NewUniformCountHandler(uniformCountService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))

	admin := middleware.RequireRoles(models.RoleAdmin)
	inspecting := middleware.RequireRoles(models.RoleAdmin, models.RoleInspector)
	material := middleware.RequireRoles(models.RoleAdmin, models.RoleMaterial)

	inspections := api.Group("/inspections")
	{
		inspections.GET("/state", inspectionHandler.State)
		inspections.POST("", admin, inspectionHandler.Create)
		inspections.GET("", admin, inspectionHandler.List)
		inspections.PATCH("/:id", admin, inspectionHandler.Update)
		inspections.DELETE("/:id", admin, inspectionHandler.Delete)
		inspections.POST("/start", admin, inspectionHandler.Start)
		inspections.POST("/:id/stop", admin, inspectionHandler.Stop)
		inspections.GET("/:id/deregistrations", inspecting, inspectionHandler.ListDeregistrations)
		inspections.PUT("/:id/deregistrations/:cadetId", admin, inspectionHandler.Deregister)
		inspections.DELETE("/:id/deregistrations/:cadetId", admin, inspectionHandler.Reregister)
	}

	deficiencies := api.Group("/deficiencies")
	{
		deficiencies.GET("/types", inspecting, deficiencyHandler.ListTypes)
		deficiencies.POST("", inspecting, deficiencyHandler.Create)
		deficiencies.POST("/:id/resolve", inspecting, deficiencyHandler.Resolve)
		deficiencies.POST("/:id/unresolve", inspecting, deficiencyHandler.Unresolve)
	}

	cadets := api.Group("/cadets")
	{
		cadets.GET("/:cadetId/inspection", inspecting, cadetInspectionHandler.FormData)
		cadets.PUT("/:cadetId/inspection", inspecting, cadetInspectionHandler.Save)
		cadets.GET("/:cadetId/deficiencies", inspecting, deficiencyHandler.UnresolvedForCadet)
	}

	uniforms := api.Group("/uniforms")
	{
		uniforms.GET("/counts", material, uniformCountHandler.CountsByType)
		uniforms.GET("/types/:typeId/counts/sizes", material, uniformCountHandler.CountsBySize)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
