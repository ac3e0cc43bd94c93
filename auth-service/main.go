package main

import (
	"log"
	"net/http"
	"strings"

	"tenanthub-backend/auth-service/handlers"
	"tenanthub-backend/auth-service/middleware"
	"tenanthub-backend/shared/config"
	"tenanthub-backend/shared/database"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Seed the platform super admin
	if err := database.SeedDatabase(); err != nil {
		log.Printf("Warning: database seeding failed: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(database.GetDB())

	router := gin.Default()

	// Auth endpoints
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/refresh", authHandler.Refresh)
	router.POST("/api/auth/logout", middleware.AuthMiddleware(), authHandler.Logout)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "auth",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := strings.Split(config.GetConfig().AuthServiceURL, ":")[2]
	log.Printf("Auth Service starting on port %s...", port)
	router.Run(":" + port)
}
