package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mergington/activities-api/api/swagger"
	"github.com/mergington/activities-api/internal/handler"
	"github.com/mergington/activities-api/internal/middleware"
	"github.com/mergington/activities-api/internal/models"
	"github.com/mergington/activities-api/internal/repository"
	"github.com/mergington/activities-api/internal/service"
	"github.com/mergington/activities-api/pkg/cache"
	"github.com/mergington/activities-api/pkg/config"
	"github.com/mergington/activities-api/pkg/database"
	"github.com/mergington/activities-api/pkg/logger"
	corsmiddleware "github.com/mergington/activities-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mergington/activities-api/pkg/middleware/requestid"
)

// @title Extracurricular Activities Directory API
// @version 1.0.0
// @description Directory of school extracurricular activities with staff-managed enrollment and announcements
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var activitiesCache, announcementsCache *service.CacheService
	if cfg.Activities.CacheEnabled || cfg.Announcements.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		activitiesCache = service.NewCacheService(cacheRepo, metricsSvc, cfg.Activities.CacheTTL, logr, cfg.Activities.CacheEnabled)
		announcementsCache = service.NewCacheService(cacheRepo, metricsSvc, cfg.Announcements.CacheTTL, logr, cfg.Announcements.CacheEnabled)
	}

	activityRepo := repository.NewActivityRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	activitySvc := service.NewActivityService(activityRepo, activitiesCache, nil, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, announcementsCache, nil, logr)
	exportSvc := service.NewExportService(activityRepo, nil, nil, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	activityHandler := handler.NewActivityHandler(activitySvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staffOnly := middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", middleware.JWT(authSvc), authHandler.Me)

		api.GET("/activities", middleware.OptionalJWT(authSvc), activityHandler.List)
		if cfg.Exports.Enabled {
			api.GET("/activities/export", exportHandler.Roster)
		}
		api.GET("/activities/:name", middleware.OptionalJWT(authSvc), activityHandler.Get)
		api.POST("/activities/:name/signup", middleware.JWT(authSvc), staffOnly, activityHandler.Signup)
		api.POST("/activities/:name/unregister", middleware.JWT(authSvc), staffOnly, activityHandler.Unregister)

		api.GET("/announcements", announcementHandler.List)
		api.GET("/announcements/:id", announcementHandler.Get)
		api.POST("/announcements", middleware.JWT(authSvc), staffOnly, announcementHandler.Create)
		api.PUT("/announcements/:id", middleware.JWT(authSvc), staffOnly, announcementHandler.Update)
		api.DELETE("/announcements/:id", middleware.JWT(authSvc), staffOnly, announcementHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
