package main

import (
	"log"
	"net/http"
	"strings"

	"tenanthub-backend/knowledge-service/handlers"
	"tenanthub-backend/knowledge-service/middleware"
	"tenanthub-backend/knowledge-service/services"
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

	// Initialize MinIO
	minioService, err := services.NewMinIOService()
	if err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}

	db := database.GetDB()
	baseHandler := handlers.NewKnowledgeBaseHandler(db, minioService)
	documentHandler := handlers.NewDocumentHandler(db, minioService)

	router := gin.Default()

	api := router.Group("/api/knowledge")
	api.Use(middleware.AuthMiddleware())
	{
		// Knowledge base routes
		api.POST("/workspaces/:id/bases", baseHandler.CreateKnowledgeBase)
		api.GET("/workspaces/:id/bases", baseHandler.ListKnowledgeBases)
		api.GET("/bases/:id", baseHandler.GetKnowledgeBase)
		api.PUT("/bases/:id", baseHandler.UpdateKnowledgeBase)
		api.DELETE("/bases/:id", baseHandler.DeleteKnowledgeBase)

		// Document routes
		api.POST("/bases/:id/documents", documentHandler.UploadDocument)
		api.GET("/bases/:id/documents", documentHandler.ListDocuments)
		api.GET("/documents/:id/download", documentHandler.DownloadDocument)
		api.DELETE("/documents/:id", documentHandler.DeleteDocument)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "knowledge",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := strings.Split(config.GetConfig().KnowledgeServiceURL, ":")[2]
	log.Printf("Knowledge Service starting on port %s...", port)
	router.Run(":" + port)
}
