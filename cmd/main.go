package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"sku-resolution-service/internal/config"
	"sku-resolution-service/internal/handlers"
	"sku-resolution-service/internal/middleware"
	"sku-resolution-service/internal/repository"
	"sku-resolution-service/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Connect to the read-only catalog/rule store
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(db)
	ruleRepo := repository.NewRuleRepository(db)

	// Initialize snapshots and the refresher
	catalogSnapshot := services.NewSnapshot[services.CatalogIndex](cfg.RefreshInterval)
	ruleSnapshot := services.NewSnapshot[services.RuleStore](cfg.RefreshInterval)
	refresher := services.NewSnapshotRefresher(
		catalogRepo, ruleRepo,
		catalogSnapshot, ruleSnapshot,
		cfg.RefreshInterval, cfg.LoadTimeout,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// First load is fatal on failure: serving an empty catalog would
	// classify all volume as unmapped.
	if err := refresher.Bootstrap(ctx); err != nil {
		log.Fatalf("Failed to load initial snapshots: %v", err)
	}
	go refresher.Run(ctx)

	// Initialize services
	resolverService := services.NewResolverService(catalogSnapshot, ruleSnapshot, logger)
	unitConverter := services.NewUnitConverter(catalogSnapshot)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(resolverService)
	if cfg.RefreshPerMinute < 1 {
		cfg.RefreshPerMinute = 1
	}
	refreshLimiter := rate.NewLimiter(
		rate.Every(time.Minute/time.Duration(cfg.RefreshPerMinute)),
		cfg.RefreshBurst,
	)
	resolutionHandler := handlers.NewResolutionHandler(
		resolverService, unitConverter, refresher,
		refreshLimiter, cfg.BatchMaxLines, logger,
	)

	// Setup router
	router := setupRouter(cfg, logger, healthHandler, resolutionHandler)

	// Start server
	logger.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
	}).Info("SKU Resolution Service starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures the HTTP router
func setupRouter(
	cfg *config.Config,
	logger *logrus.Logger,
	healthHandler *handlers.HealthHandler,
	resolutionHandler *handlers.ResolutionHandler,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// Security headers middleware
	router.Use(middleware.SecurityHeaders())

	// CORS middleware
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{
			"http://localhost:3000",
			"http://localhost:3001",
		}
	}
	router.Use(middleware.CORS(origins))

	// Request ID + access logging
	router.Use(middleware.RequestLogger(logger))

	// Health check
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API routes
	v1 := router.Group("/api/v1")
	{
		resolutions := v1.Group("/resolutions")
		{
			resolutions.POST("/resolve", resolutionHandler.Resolve)
			resolutions.POST("/resolve/batch", resolutionHandler.ResolveBatch)
			resolutions.POST("/convert", resolutionHandler.Convert)
			resolutions.GET("/primario/:sku", resolutionHandler.Primario)
			resolutions.GET("/cache", resolutionHandler.CacheStatus)
			resolutions.POST("/cache/refresh", resolutionHandler.RefreshCache)
		}
	}

	return router
}
