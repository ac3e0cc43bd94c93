package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"tenanthub-backend/api-gateway/middleware"
	"tenanthub-backend/api-gateway/routes"
	"tenanthub-backend/shared/config"
	"tenanthub-backend/shared/database"

	_ "tenanthub-backend/docs/swagger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title TenantHub API
// @version 1.0
// @description API documentation for the TenantHub multi-tenant workspace platform

// @contact.name API Support
// @contact.email support@tenanthub.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @tag.name auth
// @tag.description Authentication and session operations

// @tag.name context
// @tag.description Active workspace context operations

// @tag.name workspaces
// @tag.description Workspace management operations

// @tag.name members
// @tag.description Workspace member management operations

// @tag.name invitations
// @tag.description Workspace invitation operations

// @tag.name organizations
// @tag.description Organization management operations

// @tag.name admin
// @tag.description Platform administration operations

// @tag.name knowledge
// @tag.description Knowledge base and document operations

// @tag.name notifications
// @tag.description Notification operations

// @tag.name email
// @tag.description Email delivery operations

// @tag.name websocket
// @tag.description Real-time WebSocket operations

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Database connection for audit logging
	if err := database.InitDatabase(); err != nil {
		log.Printf("Warning: database unavailable, audit logging disabled: %v", err)
	}

	// Global rate limiter, cleanup every 5 minutes
	rateLimiter := middleware.NewRateLimiter(5 * time.Minute)
	rateConfig := middleware.NewRateLimitConfig()

	router := gin.Default()

	// CORS for the frontend origin
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.Use(rateLimiter.RateLimitMiddleware(rateConfig))

	// Unified response middleware (transforms all service responses)
	router.Use(middleware.UnifiedResponseMiddleware())

	// Health check endpoint
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "API Gateway is running", "Port": "8000"})
	})

	// Auth service routes
	router.Any("/api/auth/*path", routes.ProxyToService("auth"))

	// Core service routes: workspace context, workspaces, members,
	// invitations, organizations and platform administration. Each
	// service validates the JWT and checks permissions itself.
	router.Any("/api/context", routes.ProxyToService("core"))
	router.Any("/api/context/*path", routes.ProxyToService("core"))
	router.Any("/api/workspaces", routes.ProxyToService("core"))
	router.Any("/api/workspaces/*path", routes.ProxyToService("core"))
	router.Any("/api/invitations/*path", routes.ProxyToService("core"))
	router.Any("/api/organizations/*path", routes.ProxyToService("core"))
	router.Any("/api/admin/*path", routes.ProxyToService("core"))

	// Knowledge service routes
	router.Any("/api/knowledge/*path", routes.ProxyToService("knowledge"))

	// Notification service routes
	router.Any("/api/notifications", routes.ProxyToService("notification"))
	router.Any("/api/notifications/*path", routes.ProxyToService("notification"))

	// WebSocket endpoint. The /ws/send endpoint stays internal and is
	// deliberately not exposed here.
	router.GET("/ws/notifications/:user_id", routes.ProxyToService("notification"))

	// Swagger UI, development only
	router.GET("/swagger/*any", func(c *gin.Context) {
		if gin.Mode() == gin.DebugMode {
			ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
		} else {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Swagger documentation not available in production",
			})
		}
	})

	// Server Start
	port := strings.Split(cfg.APIGatewayURL, ":")[2]
	log.Printf("🌐 API Gateway is running on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
