package handlers

import (
	"fmt"
	"net/http"
	"time"

	"tenanthub-backend/notification-service/services"
	"tenanthub-backend/shared/database"
	"tenanthub-backend/shared/database/models/notification"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MemberJoinedRequest mirrors the payload sent by the core service when
// an invitation is accepted.
type MemberJoinedRequest struct {
	WorkspaceID   string `json:"workspace_id" binding:"required"`
	WorkspaceName string `json:"workspace_name" binding:"required"`
	MemberName    string `json:"member_name"`
	MemberEmail   string `json:"member_email" binding:"required"`
	Role          string `json:"role" binding:"required"`
	NotifyUserID  string `json:"notify_user_id" binding:"required"`
}

// @Summary Get notifications for a user
// @Description Get notifications for a user, newest first
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id query string true "User ID"
// @Success 200 {array} notification.Notification
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications [get]
func GetNotifications(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	var notifications []notification.Notification
	db := database.GetDB()
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// @Summary Get notification by ID
// @Description Get a specific notification by ID
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} notification.Notification
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /notifications/{id} [get]
func GetNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	var notif notification.Notification
	db := database.GetDB()
	if err := db.First(&notif, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, notif)
}

// @Summary Notify a user that an invited member joined
// @Description Store a member-joined notification for the inviter and push it over WebSocket when they are connected
// @Tags notifications
// @Accept json
// @Produce json
// @Param payload body MemberJoinedRequest true "Member joined payload"
// @Success 201 {object} notification.Notification
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications/member-joined [post]
func MemberJoined(c *gin.Context) {
	var request MemberJoinedRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notifyUserID, err := uuid.Parse(request.NotifyUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notify_user_id"})
		return
	}
	workspaceID, err := uuid.Parse(request.WorkspaceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace_id"})
		return
	}

	memberName := request.MemberName
	if memberName == "" {
		memberName = request.MemberEmail
	}

	notif := notification.Notification{
		UserID:      &notifyUserID,
		WorkspaceID: &workspaceID,
		Type:        notification.TypeMemberJoined,
		Level:       notification.NotificationLevelSuccess,
		Title:       "Invitation accepted",
		Message:     fmt.Sprintf("%s joined %s as %s", memberName, request.WorkspaceName, request.Role),
	}

	db := database.GetDB()
	if err := db.Create(&notif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	// Push to the inviter if they are online. Offline users see the row
	// next time they fetch their notifications.
	wsManager := services.GetWebSocketManager()
	wsManager.SendToUser(notifyUserID.String(), &notification.WebSocketMessage{
		Type:        notif.Type,
		Level:       notif.Level,
		Title:       notif.Title,
		Message:     notif.Message,
		Timestamp:   notification.GetCurrentTime(),
		UserID:      &notifyUserID,
		WorkspaceID: &workspaceID,
	})

	c.JSON(http.StatusCreated, notif)
}

// @Summary Mark notification as read
// @Description Mark a notification as read
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} notification.Notification
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /notifications/{id}/read [put]
func MarkAsRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	var notif notification.Notification
	db := database.GetDB()

	if err := db.First(&notif, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	now := time.Now().UTC()
	notif.IsRead = true
	notif.ReadAt = &now
	if err := db.Save(&notif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, notif)
}

// @Summary Delete notification
// @Description Delete a notification by ID
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID" format(uuid)
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications/{id} [delete]
func DeleteNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	db := database.GetDB()
	if err := db.Delete(&notification.Notification{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}

	c.Status(http.StatusNoContent)
}
