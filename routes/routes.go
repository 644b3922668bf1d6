package routes

import (
	"net/http"

	"gamestore/handlers"
	"gamestore/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	companyHandler *handlers.CompanyHandler,
	assetsHandler *handlers.AssetsHandler,
	jwtSecret string,
	downloadFile string,
) {
	authRequired := middleware.AuthMiddleware(jwtSecret)

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/profile", authRequired, authHandler.GetProfile)
	}

	// Game routes
	games := router.Group("/games")
	{
		games.GET("/", gameHandler.GetGames)
		games.POST("/", authRequired, gameHandler.CreateGame)
		games.PATCH("/:game_id/approve/", authRequired, gameHandler.ApproveGame)
	}

	// Company routes
	companies := router.Group("/companies")
	{
		companies.GET("/", companyHandler.GetCompanies)
		companies.POST("/", authRequired, companyHandler.CreateCompany)
	}

	// Admin routes
	admin := router.Group("/admin")
	admin.Use(authRequired)
	{
		admin.GET("/companies/", companyHandler.GetCompaniesForReview)
		admin.PATCH("/companies/:company_id/approve/", companyHandler.ApproveCompany)
	}

	// Asset routes
	assets := router.Group("/assets")
	{
		assets.GET("/header/", assetsHandler.DownloadHeader)
		assets.POST("/header/", authRequired, assetsHandler.UploadHeader)
		assets.GET("/capsule/", assetsHandler.DownloadCapsule)
		assets.POST("/capsule/", authRequired, assetsHandler.UploadCapsule)
		assets.GET("/screenshots/", assetsHandler.GetScreenshots)
		assets.POST("/screenshots/", authRequired, assetsHandler.UploadScreenshots)
		assets.GET("/trailers/", assetsHandler.GetTrailers)
		assets.POST("/trailers/", authRequired, assetsHandler.UploadTrailers)
	}

	// Liveness endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
	})

	// Client archive download
	router.GET("/download/", handlers.Download(downloadFile))
}
