package handlers

import (
	"errors"
	"net/http"

	"tenanthub-backend/core-service/middleware"
	"tenanthub-backend/core-service/services"
	"tenanthub-backend/shared/database/models"
	"tenanthub-backend/shared/utils/permission"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkspaceHandler struct {
	db         *gorm.DB
	workspaces *services.WorkspaceService
	members    *services.MemberService
}

func NewWorkspaceHandler(db *gorm.DB) *WorkspaceHandler {
	return &WorkspaceHandler{
		db:         db,
		workspaces: services.NewWorkspaceService(db),
		members:    services.NewMemberService(db),
	}
}

// CreateWorkspaceRequest represents request body for creating a workspace
type CreateWorkspaceRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	Name           string    `json:"name" binding:"required" example:"Customer Success"`
	Description    string    `json:"description"`
}

// UpdateWorkspaceRequest represents request body for updating a workspace
type UpdateWorkspaceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Settings    *string `json:"settings"`
}

// UpdateMemberRoleRequest represents request body for changing a member role
type UpdateMemberRoleRequest struct {
	Role models.WorkspaceRole `json:"role" binding:"required" example:"admin"`
}

// CreateWorkspace creates a workspace in an organization
// @Summary Create a workspace
// @Description Create a new workspace. Only the organization owner can add workspaces; the creator becomes the sole owner.
// @Tags workspaces
// @Accept json
// @Produce json
// @Param workspace body CreateWorkspaceRequest true "Workspace information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created workspace"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 403 {object} map[string]string "Not the organization owner"
// @Router /workspaces [post]
func (h *WorkspaceHandler) CreateWorkspace(ctx *gin.Context) {
	var req CreateWorkspaceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	workspace, err := h.workspaces.CreateWorkspace(req.OrganizationID, req.Name, req.Description, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Workspace created successfully",
		"data":    workspace,
	})
}

// GetWorkspace retrieves a single workspace
// @Summary Get workspace by ID
// @Description Get a workspace with its organization. Members only.
// @Tags workspaces
// @Produce json
// @Param id path string true "Workspace ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Workspace"
// @Failure 403 {object} map[string]string "Not a member"
// @Failure 404 {object} map[string]string "Workspace not found"
// @Router /workspaces/{id} [get]
func (h *WorkspaceHandler) GetWorkspace(ctx *gin.Context) {
	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid workspace ID format",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	workspace, err := h.workspaces.GetWorkspace(workspaceID, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    workspace,
	})
}

// UpdateWorkspace updates a workspace
// @Summary Update a workspace
// @Description Update name, description or settings. Requires workspace.update (owner or admin).
// @Tags workspaces
// @Accept json
// @Produce json
// @Param id path string true "Workspace ID" format(uuid)
// @Param workspace body UpdateWorkspaceRequest true "Updated fields"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated workspace"
// @Failure 403 {object} map[string]string "Missing workspace.update"
// @Router /workspaces/{id} [put]
func (h *WorkspaceHandler) UpdateWorkspace(ctx *gin.Context) {
	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid workspace ID format",
			"message": err.Error(),
		})
		return
	}

	var req UpdateWorkspaceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	workspace, err := h.workspaces.UpdateWorkspace(workspaceID, userID, req.Name, req.Description, req.Settings)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Workspace updated successfully",
		"data":    workspace,
	})
}

// DeleteWorkspace deletes a workspace
// @Summary Delete a workspace
// @Description Delete a workspace with its memberships and pending invitations. Requires workspace.delete (owner only).
// @Tags workspaces
// @Produce json
// @Param id path string true "Workspace ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]string "Deleted"
// @Failure 403 {object} map[string]string "Missing workspace.delete"
// @Router /workspaces/{id} [delete]
func (h *WorkspaceHandler) DeleteWorkspace(ctx *gin.Context) {
	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid workspace ID format",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	if err := h.workspaces.DeleteWorkspace(workspaceID, userID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Workspace deleted successfully",
	})
}

// GetMembers lists the members of a workspace
// @Summary List workspace members
// @Description Get all members with their roles, in joining order.
// @Tags members
// @Produce json
// @Param id path string true "Workspace ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Members"
// @Failure 403 {object} map[string]string "Not a member"
// @Router /workspaces/{id}/members [get]
func (h *WorkspaceHandler) GetMembers(ctx *gin.Context) {
	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid workspace ID format",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	members, err := h.members.ListMembers(workspaceID, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    members,
	})
}

// UpdateMemberRole changes a member's role
// @Summary Change a member's role
// @Description Update a membership role. Requires user.update; ownership changes are owner-only and the last owner cannot be demoted.
// @Tags members
// @Accept json
// @Produce json
// @Param id path string true "Workspace ID" format(uuid)
// @Param user_id path string true "User ID" format(uuid)
// @Param role body UpdateMemberRoleRequest true "New role"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated membership"
// @Failure 403 {object} map[string]string "Missing user.update"
// @Failure 409 {object} map[string]string "Would leave the workspace without owners"
// @Router /workspaces/{id}/members/{user_id} [put]
func (h *WorkspaceHandler) UpdateMemberRole(ctx *gin.Context) {
	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid workspace ID format",
			"message": err.Error(),
		})
		return
	}

	targetUserID, err := uuid.Parse(ctx.Param("user_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid user ID format",
			"message": err.Error(),
		})
		return
	}

	var req UpdateMemberRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	member, err := h.members.UpdateMemberRole(workspaceID, targetUserID, req.Role, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Member role updated successfully",
		"data":    member,
	})
}

// RemoveMember removes a member from a workspace
// @Summary Remove a workspace member
// @Description Remove a member. Users can remove themselves; removing others requires user.delete. The last owner cannot be removed.
// @Tags members
// @Produce json
// @Param id path string true "Workspace ID" format(uuid)
// @Param user_id path string true "User ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]string "Removed"
// @Failure 403 {object} map[string]string "Missing user.delete"
// @Failure 409 {object} map[string]string "Would leave the workspace without owners"
// @Router /workspaces/{id}/members/{user_id} [delete]
func (h *WorkspaceHandler) RemoveMember(ctx *gin.Context) {
	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid workspace ID format",
			"message": err.Error(),
		})
		return
	}

	targetUserID, err := uuid.Parse(ctx.Param("user_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid user ID format",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	if err := h.members.RemoveMember(workspaceID, targetUserID, userID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Member removed successfully",
	})
}

// GetMyPermissions returns the caller's capabilities in a workspace
// @Summary Get my permissions
// @Description Resolve the caller's role in the workspace and return the full action map, for capability-driven UIs.
// @Tags workspaces
// @Produce json
// @Param id path string true "Workspace ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Role and permissions"
// @Failure 403 {object} map[string]string "Not a member"
// @Router /workspaces/{id}/permissions [get]
func (h *WorkspaceHandler) GetMyPermissions(ctx *gin.Context) {
	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid workspace ID format",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	role, err := permission.ResolveRole(h.db, userID, workspaceID)
	if err != nil {
		if errors.Is(err, permission.ErrNotAMember) {
			ctx.JSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "You are not a member of this workspace",
			})
			return
		}
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"role":        role,
			"permissions": permission.PermissionsFor(role),
		},
	})
}
