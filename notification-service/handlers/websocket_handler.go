package handlers

import (
	"net/http"

	"tenanthub-backend/notification-service/services"
	"tenanthub-backend/shared/database/models/notification"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkspaceEventRequest is the internal push payload: sibling services
// post workspace events (invitation accepted, member removed, role
// changed) here for delivery to a connected user.
type WorkspaceEventRequest struct {
	UserID string                         `json:"user_id" binding:"required"`
	Event  *notification.WebSocketMessage `json:"message" binding:"required"`
}

// HandleWebSocket upgrades the connection and registers the user for
// real-time workspace events
// @Summary WebSocket Connection
// @Description Establish WebSocket connection for real-time workspace notifications
// @Tags websocket
// @Param user_id path string true "User ID"
// @Router /ws/notifications/{user_id} [get]
func HandleWebSocket(c *gin.Context) {
	services.GetWebSocketManager().HandleWebSocketConnection(c)
}

// PushWorkspaceEvent delivers a workspace event to one connected user.
// Internal endpoint: the gateway never exposes it.
// @Summary Push workspace event
// @Description Deliver a workspace event to a connected user over WebSocket
// @Tags websocket
// @Accept json
// @Produce json
// @Param payload body WorkspaceEventRequest true "Workspace event"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /ws/send [post]
func PushWorkspaceEvent(c *gin.Context) {
	var request WorkspaceEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}

	if _, err := uuid.Parse(request.UserID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	if err := services.GetWebSocketManager().SendToUser(request.UserID, request.Event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event delivered",
		"user_id": request.UserID,
	})
}
