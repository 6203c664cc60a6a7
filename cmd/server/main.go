package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/obaplab/obap-backend/config"
	"github.com/obaplab/obap-backend/internal/app/controller"
	"github.com/obaplab/obap-backend/internal/app/repository"
	"github.com/obaplab/obap-backend/internal/app/service"
	"github.com/obaplab/obap-backend/internal/db"
	"github.com/obaplab/obap-backend/internal/middleware"
	"github.com/obaplab/obap-backend/internal/router"
	"github.com/obaplab/obap-backend/internal/scheduler"
	"github.com/obaplab/obap-backend/internal/storage"
	"github.com/obaplab/obap-backend/pkg/logger"
	"github.com/obaplab/obap-backend/pkg/places"
	"github.com/obaplab/obap-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting O!BAP Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed database (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis (token blacklist + place search cache)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation and search cache disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	restaurantRepo := repository.NewRestaurantRepository(db.GetDB())
	menuRepo := repository.NewMenuRepository(db.GetDB())
	locationRequestRepo := repository.NewLocationRequestRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// Initialize external place search clients
	kakaoClient := places.NewKakaoClient(cfg.Kakao.RESTAPIKey, cfg.Kakao.BaseURL)
	naverClient := places.NewNaverClient(cfg.Naver.ClientID, cfg.Naver.ClientSecret, cfg.Naver.BaseURL)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	restaurantService := service.NewRestaurantService(restaurantRepo, float64(cfg.Search.DefaultRadiusMeters))
	menuService := service.NewMenuService(menuRepo, restaurantRepo)
	locationRequestService := service.NewLocationRequestService(db.GetDB(), locationRequestRepo, userRepo, notificationRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	placeService := service.NewPlaceService(kakaoClient, naverClient, restaurantRepo)

	// Initialize storage
	s3Storage := storage.NewS3Storage(&cfg.S3)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	restaurantController := controller.NewRestaurantController(restaurantService)
	menuController := controller.NewMenuController(menuService)
	locationRequestController := controller.NewLocationRequestController(locationRequestService)
	notificationController := controller.NewNotificationController(notificationService)
	placeController := controller.NewPlaceController(placeService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		restaurantController,
		menuController,
		locationRequestController,
		notificationController,
		placeController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start restaurant ingest scheduler
	ingestScheduler := scheduler.NewIngestScheduler(placeService, &cfg.Search)
	if err := ingestScheduler.Start(); err != nil {
		logger.Warn("Failed to start ingest scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer ingestScheduler.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
