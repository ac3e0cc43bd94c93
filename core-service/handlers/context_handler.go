package handlers

import (
	"net/http"

	"tenanthub-backend/core-service/middleware"
	"tenanthub-backend/core-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContextHandler struct {
	contexts *services.ContextService
}

func NewContextHandler(db *gorm.DB) *ContextHandler {
	return &ContextHandler{contexts: services.NewContextService(db)}
}

// SwitchContextRequest represents request body for switching workspace
type SwitchContextRequest struct {
	WorkspaceID uuid.UUID `json:"workspace_id" binding:"required"`
}

// GetContext returns the session's workspace context
// @Summary Get workspace context
// @Description Get every workspace the user belongs to plus the session's current workspace. Users without memberships get an empty context.
// @Tags context
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Workspace context"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /context [get]
func (h *ContextHandler) GetContext(ctx *gin.Context) {
	userID, _ := middleware.UserID(ctx)
	sessionID := middleware.SessionID(ctx)

	context, err := h.contexts.GetContext(userID, sessionID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	if context == nil {
		// No memberships: a valid state, not an error. The frontend
		// routes these users back into onboarding.
		ctx.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    nil,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    context,
	})
}

// SwitchContext changes the session's current workspace
// @Summary Switch workspace
// @Description Point this session at another workspace the user belongs to. Other sessions of the same user are unaffected.
// @Tags context
// @Accept json
// @Produce json
// @Param switch body SwitchContextRequest true "Target workspace"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Recomputed workspace context"
// @Failure 403 {object} map[string]string "Not a member of the target workspace"
// @Router /context/switch [post]
func (h *ContextHandler) SwitchContext(ctx *gin.Context) {
	var req SwitchContextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)
	sessionID := middleware.SessionID(ctx)

	context, err := h.contexts.SwitchContext(userID, sessionID, req.WorkspaceID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Workspace switched successfully",
		"data":    context,
	})
}
