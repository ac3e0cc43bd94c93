package main

import (
	"log"
	"net/http"
	"strings"

	"tenanthub-backend/core-service/handlers"
	"tenanthub-backend/core-service/middleware"
	"tenanthub-backend/shared/config"
	"tenanthub-backend/shared/database"
	"tenanthub-backend/shared/utils/cache"

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

	// Redis backs the workspace context cache. The service degrades to
	// database reads when it is unreachable.
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("Warning: Redis unavailable, workspace context caching disabled: %v", err)
	}

	db := database.GetDB()

	contextHandler := handlers.NewContextHandler(db)
	workspaceHandler := handlers.NewWorkspaceHandler(db)
	invitationHandler := handlers.NewInvitationHandler(db)
	organizationHandler := handlers.NewOrganizationHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	router := gin.Default()

	// Public invitation lookup for the accept page. No auth: the token
	// itself is the credential.
	router.GET("/api/invitations/:token", invitationHandler.GetInvitation)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// Workspace context routes
		api.GET("/context", contextHandler.GetContext)
		api.POST("/context/switch", contextHandler.SwitchContext)

		// Workspace routes
		api.POST("/workspaces", workspaceHandler.CreateWorkspace)
		api.GET("/workspaces/:id", workspaceHandler.GetWorkspace)
		api.PUT("/workspaces/:id", workspaceHandler.UpdateWorkspace)
		api.DELETE("/workspaces/:id", workspaceHandler.DeleteWorkspace)
		api.GET("/workspaces/:id/permissions", workspaceHandler.GetMyPermissions)

		// Member routes
		api.GET("/workspaces/:id/members", workspaceHandler.GetMembers)
		api.PUT("/workspaces/:id/members/:user_id", workspaceHandler.UpdateMemberRole)
		api.DELETE("/workspaces/:id/members/:user_id", workspaceHandler.RemoveMember)

		// Invitation routes
		api.POST("/workspaces/:id/invitations", invitationHandler.CreateInvitation)
		api.GET("/workspaces/:id/invitations", invitationHandler.GetWorkspaceInvitations)
		api.POST("/invitations/:token/accept", invitationHandler.AcceptInvitation)
		api.DELETE("/invitations/:id", invitationHandler.CancelInvitation)

		// Organization routes
		api.GET("/organizations/:id", organizationHandler.GetOrganization)
		api.PUT("/organizations/:id", organizationHandler.UpdateOrganization)
		api.GET("/organizations/:id/stats", organizationHandler.GetOrganizationStats)

		// Platform admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.RequireSuperAdmin(db))
		{
			admin.GET("/stats", adminHandler.GetPlatformStats)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/organizations", adminHandler.ListOrganizations)
			admin.GET("/workspaces", adminHandler.ListWorkspaces)
			admin.PUT("/users/:id/platform-role", adminHandler.UpdatePlatformRole)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "core",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Parse port from config URL
	port := strings.Split(config.GetConfig().CoreServiceURL, ":")[2]
	log.Printf("Core Service starting on port %s...", port)
	router.Run(":" + port)
}
