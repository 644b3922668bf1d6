package main

import (
	"log/slog"
	"os"

	"gamestore/config"
	"gamestore/handlers"
	"gamestore/middleware"
	"gamestore/models"
	"gamestore/routes"
	"gamestore/services"

	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.GameStatus{},
		&models.Game{},
	)
	if err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Seed the status reference table and load it into memory
	statusService, err := services.NewStatusService(db)
	if err != nil {
		slog.Error("failed to initialize game statuses", "error", err)
		os.Exit(1)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	companyService := services.NewCompanyService(db)
	assetService := services.NewAssetService(cfg.AssetsPath)
	gameService := services.NewGameService(db, redisClient, statusService, assetService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	gameHandler := handlers.NewGameHandler(gameService)
	companyHandler := handlers.NewCompanyHandler(companyService)
	assetsHandler := handlers.NewAssetsHandler(gameService, assetService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, gameHandler, companyHandler, assetsHandler, cfg.JWTSecret, cfg.DownloadFile)

	// Start server
	slog.Info("server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
