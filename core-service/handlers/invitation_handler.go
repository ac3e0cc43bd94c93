package handlers

import (
	"net/http"

	"tenanthub-backend/core-service/middleware"
	"tenanthub-backend/core-service/services"
	"tenanthub-backend/shared/clients"
	"tenanthub-backend/shared/database/models"
	"tenanthub-backend/shared/utils/permission"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationHandler struct {
	db          *gorm.DB
	invitations *services.InvitationService
}

func NewInvitationHandler(db *gorm.DB) *InvitationHandler {
	return &InvitationHandler{
		db:          db,
		invitations: services.NewInvitationService(db),
	}
}

// CreateInvitationRequest represents request body for inviting a user
type CreateInvitationRequest struct {
	Email string               `json:"email" binding:"required,email" example:"teammate@acme.io"`
	Role  models.WorkspaceRole `json:"role" binding:"required" example:"member"`
}

// CreateInvitation invites a user into a workspace
// @Summary Invite a user to a workspace
// @Description Create a pending invitation and email the accept link. Requires the user.invite permission (owner or admin).
// @Tags invitations
// @Accept json
// @Produce json
// @Param id path string true "Workspace ID" format(uuid)
// @Param invitation body CreateInvitationRequest true "Invitee email and role"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created invitation"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 403 {object} map[string]string "Missing user.invite permission"
// @Failure 409 {object} map[string]string "Already a member or already invited"
// @Router /workspaces/{id}/invitations [post]
func (h *InvitationHandler) CreateInvitation(ctx *gin.Context) {
	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid workspace ID format",
			"message": err.Error(),
		})
		return
	}

	var req CreateInvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	allowed, err := permission.Can(h.db, userID, workspaceID, permission.ResourceUser, permission.ActionInvite)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": "You are not allowed to invite users to this workspace",
		})
		return
	}

	invitation, err := h.invitations.CreateInvitation(workspaceID, req.Email, req.Role, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	// Email delivery is best effort; the invitation is already
	// committed and can be re-sent from the pending list.
	var inviter models.User
	if err := h.db.First(&inviter, userID).Error; err == nil {
		notificationClient := clients.NewNotificationClient()
		notificationClient.SendInvitationEmail(clients.InvitationEmailRequest{
			Email:         invitation.Email,
			WorkspaceName: invitation.Workspace.Name,
			InviterName:   inviter.FullName(),
			Role:          string(invitation.Role),
			Token:         invitation.Token,
			ExpiresAt:     invitation.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Invitation created successfully",
		"data":    invitation,
	})
}

// GetWorkspaceInvitations lists pending invitations of a workspace
// @Summary List pending invitations
// @Description Get pending invitations for a workspace, newest first. Expired invitations are included and flagged by their expires_at.
// @Tags invitations
// @Produce json
// @Param id path string true "Workspace ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Pending invitations"
// @Failure 403 {object} map[string]string "Not a member with user.read"
// @Router /workspaces/{id}/invitations [get]
func (h *InvitationHandler) GetWorkspaceInvitations(ctx *gin.Context) {
	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid workspace ID format",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	allowed, err := permission.Can(h.db, userID, workspaceID, permission.ResourceUser, permission.ActionRead)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": "You are not a member of this workspace",
		})
		return
	}

	invitations, err := h.invitations.GetWorkspaceInvitations(workspaceID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    invitations,
	})
}

// GetInvitation resolves an invitation token for the accept page
// @Summary Resolve an invitation token
// @Description Look up an invitation by token. Unknown, expired, accepted and cancelled tokens all return 404.
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} map[string]interface{} "Invitation with workspace and inviter"
// @Failure 404 {object} map[string]string "Invitation not found"
// @Router /invitations/{token} [get]
func (h *InvitationHandler) GetInvitation(ctx *gin.Context) {
	invitation, err := h.invitations.GetInvitationByToken(ctx.Param("token"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	if invitation == nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":   "Invitation not found",
			"message": "The invitation does not exist or is no longer valid",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    invitation,
	})
}

// AcceptInvitation joins the authenticated user to the workspace
// @Summary Accept an invitation
// @Description Accept a pending invitation. The authenticated user's email must match the invitee email (case-insensitive).
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Created membership"
// @Failure 403 {object} map[string]string "Invitation issued for a different email"
// @Failure 404 {object} map[string]string "Invitation not found or expired"
// @Failure 409 {object} map[string]string "Already a member"
// @Router /invitations/{token}/accept [post]
func (h *InvitationHandler) AcceptInvitation(ctx *gin.Context) {
	userID, _ := middleware.UserID(ctx)

	member, err := h.invitations.AcceptInvitation(ctx.Param("token"), userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	// Tell the inviter their invite landed. Best effort.
	if member.InvitedBy != nil {
		var workspace models.Workspace
		var joined models.User
		if h.db.First(&workspace, member.WorkspaceID).Error == nil &&
			h.db.First(&joined, member.UserID).Error == nil {
			notificationClient := clients.NewNotificationClient()
			notificationClient.NotifyMemberJoined(clients.MemberJoinedRequest{
				WorkspaceID:   member.WorkspaceID.String(),
				WorkspaceName: workspace.Name,
				MemberName:    joined.FullName(),
				MemberEmail:   joined.Email,
				Role:          string(member.Role),
				NotifyUserID:  member.InvitedBy.String(),
			})
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Invitation accepted successfully",
		"data":    member,
	})
}

// CancelInvitation revokes a pending invitation
// @Summary Cancel an invitation
// @Description Hard delete a pending invitation. Allowed for the inviter and for workspace owners/admins.
// @Tags invitations
// @Produce json
// @Param id path string true "Invitation ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]string "Cancelled"
// @Failure 403 {object} map[string]string "Not allowed to cancel"
// @Failure 404 {object} map[string]string "Invitation not found"
// @Router /invitations/{id} [delete]
func (h *InvitationHandler) CancelInvitation(ctx *gin.Context) {
	invitationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid invitation ID format",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	if err := h.invitations.CancelInvitation(invitationID, userID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Invitation cancelled successfully",
	})
}
