package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/custozero/custozero-api/api/swagger"
	"github.com/custozero/custozero-api/internal/handler"
	"github.com/custozero/custozero-api/internal/middleware"
	"github.com/custozero/custozero-api/internal/repository"
	"github.com/custozero/custozero-api/internal/service"
	"github.com/custozero/custozero-api/pkg/cache"
	"github.com/custozero/custozero-api/pkg/config"
	"github.com/custozero/custozero-api/pkg/database"
	"github.com/custozero/custozero-api/pkg/logger"
	corsmiddleware "github.com/custozero/custozero-api/pkg/middleware/cors"
	reqidmiddleware "github.com/custozero/custozero-api/pkg/middleware/requestid"
)

// @title CustoZero API
// @version 1.0.0
// @description Payment-gated financial diagnostic backend
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
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	metricsSvc := service.NewMetricsService()

	tokenRepo := repository.NewTokenRepository(db)

	emailSvc := service.NewEmailService(cfg.Email, cfg.Env, logr)
	emailDispatcher := service.NewEmailDispatcher(emailSvc, cfg.Email, logr)
	emailDispatcher.Start(context.Background())
	defer emailDispatcher.Stop()

	webhookSvc := service.NewWebhookService(tokenRepo, emailDispatcher, metricsSvc, logr, service.WebhookServiceConfig{
		AppURL:            cfg.AppURL,
		PassDuration:      cfg.Access.PassDuration,
		ReactivationCents: cfg.Pricing.ReactivationCents,
		LifetimeCents:     cfg.Pricing.LifetimeCents,
	})
	accessSvc := service.NewAccessService(tokenRepo, metricsSvc, logr, cfg.Access)
	diagnosticSvc := service.NewDiagnosticService(logr)
	reportSvc := service.NewReportService(redisClient, metricsSvc, logr, cfg.Reports.CacheTTL)

	webhookHandler := handler.NewWebhookHandler(webhookSvc)
	accessHandler := handler.NewAccessHandler(accessSvc)
	diagnosticHandler := handler.NewDiagnosticHandler(diagnosticSvc, reportSvc)
	catalogHandler := handler.NewCatalogHandler()

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		webhooks := api.Group("/webhooks")
		{
			webhooks.POST("/kiwify", middleware.KiwifySignature(cfg.Webhooks.KiwifySecret), webhookHandler.Kiwify)
			webhooks.POST("/cakto", webhookHandler.Cakto)
		}

		access := api.Group("/access")
		{
			access.POST("/poll", accessHandler.Poll)
			access.POST("/validate", accessHandler.Validate)
			access.POST("/redeem", accessHandler.Redeem)
		}

		diagnostics := api.Group("/diagnostics", middleware.Access(accessSvc))
		{
			diagnostics.POST("", diagnosticHandler.Create)
			diagnostics.GET("/:id", diagnosticHandler.Get)
			diagnostics.GET("/:id/pdf", diagnosticHandler.GetPDF)
			diagnostics.GET("/:id/export.csv", diagnosticHandler.GetCSV)
		}

		api.GET("/catalog/categories", catalogHandler.Categories)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
