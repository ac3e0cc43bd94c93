package main

import (
	"log"
	"net/http"
	"strings"

	notifConfig "tenanthub-backend/notification-service/config"
	"tenanthub-backend/notification-service/handlers"
	"tenanthub-backend/notification-service/services"
	"tenanthub-backend/shared/config"
	"tenanthub-backend/shared/database"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := notifConfig.LoadNotificationConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	router := gin.Default()

	// Initialize email service
	emailService := services.NewEmailService(cfg)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "notification",
			"status":  "healthy",
		})
	})

	// Email routes
	emailHandler := handlers.NewEmailHandler(emailService, cfg)
	emailRoutes := router.Group("/api/notifications/email")
	{
		emailRoutes.POST("/send", emailHandler.SendEmail)
		emailRoutes.POST("/invitation", emailHandler.SendInvitationEmail)
		emailRoutes.POST("/welcome", emailHandler.SendWelcomeEmail)
	}

	// Notification routes
	router.GET("/api/notifications", handlers.GetNotifications)
	router.GET("/api/notifications/:id", handlers.GetNotification)
	router.POST("/api/notifications/member-joined", handlers.MemberJoined)
	router.PUT("/api/notifications/:id/read", handlers.MarkAsRead)
	router.DELETE("/api/notifications/:id", handlers.DeleteNotification)

	// WebSocket endpoint
	router.GET("/ws/notifications/:user_id", handlers.HandleWebSocket)

	// Internal workspace event push (for other services)
	router.POST("/ws/send", handlers.PushWorkspaceEvent)

	port := strings.Split(config.GetConfig().NotificationServiceURL, ":")[2]
	log.Printf("🔔 Notification Service starting on port %s...", port)
	log.Fatal(router.Run(":" + port))
}
