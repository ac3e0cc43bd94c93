// Package docs TenantHub API documentation
package docs

// Swagger documentation info
// @title TenantHub API
// @version 1.0
// @description Central API documentation - For all TenantHub microservices

// @contact.name API Support
// @contact.email support@tenanthub.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// Auth Service Endpoints
// @tag.name auth
// @tag.description Authentication and user session management

// Core Service Endpoints
// @tag.name context
// @tag.description Active workspace context
// @tag.name workspaces
// @tag.description Workspace management
// @tag.name members
// @tag.description Workspace member management
// @tag.name invitations
// @tag.description Workspace invitations
// @tag.name organizations
// @tag.description Organization management
// @tag.name admin
// @tag.description Platform administration

// Knowledge Service Endpoints
// @tag.name knowledge
// @tag.description Knowledge bases and documents

// Notification Service Endpoints
// @tag.name notifications
// @tag.description In-app notifications
// @tag.name email
// @tag.description Email delivery
// @tag.name websocket
// @tag.description Real-time WebSocket messaging
