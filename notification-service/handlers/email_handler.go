package handlers

import (
	"fmt"
	"net/http"

	notifConfig "tenanthub-backend/notification-service/config"
	"tenanthub-backend/notification-service/services"

	"github.com/gin-gonic/gin"
)

// EmailHandler handles email-related HTTP requests
type EmailHandler struct {
	emailService *services.EmailService
	config       *notifConfig.NotificationConfig
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(emailService *services.EmailService, cfg *notifConfig.NotificationConfig) *EmailHandler {
	return &EmailHandler{
		emailService: emailService,
		config:       cfg,
	}
}

// InvitationEmailRequest mirrors the payload sent by the core service
type InvitationEmailRequest struct {
	Email         string `json:"email" binding:"required,email"`
	WorkspaceName string `json:"workspace_name" binding:"required"`
	InviterName   string `json:"inviter_name"`
	Role          string `json:"role" binding:"required"`
	Token         string `json:"token" binding:"required"`
	ExpiresAt     string `json:"expires_at"`
}

// WelcomeEmailRequest mirrors the payload sent by the auth service
type WelcomeEmailRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Name             string `json:"name"`
	OrganizationName string `json:"organization_name"`
	WorkspaceName    string `json:"workspace_name"`
}

// SendEmail godoc
// @Summary Send email
// @Description Send an arbitrary email through the notification service
// @Tags email
// @Accept json
// @Produce json
// @Param email body services.EmailRequest true "Email request"
// @Success 200 {object} services.EmailResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications/email/send [post]
func (eh *EmailHandler) SendEmail(c *gin.Context) {
	var request services.EmailRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	response, err := eh.emailService.SendEmail(request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// SendInvitationEmail godoc
// @Summary Send workspace invitation email
// @Description Send the invitation mail with the accept link built from the invitation token
// @Tags email
// @Accept json
// @Produce json
// @Param email body InvitationEmailRequest true "Invitation email request"
// @Success 200 {object} services.EmailResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications/email/invitation [post]
func (eh *EmailHandler) SendInvitationEmail(c *gin.Context) {
	var request InvitationEmailRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	// The token is the credential; the accept page resolves it via the
	// public invitation lookup.
	acceptURL := fmt.Sprintf("%s/invitations/%s", eh.config.FrontendURL, request.Token)

	response, err := eh.emailService.SendInvitationEmail(
		request.Email,
		request.WorkspaceName,
		request.InviterName,
		request.Role,
		acceptURL,
		request.ExpiresAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send invitation email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// SendWelcomeEmail godoc
// @Summary Send welcome email
// @Description Send the post-onboarding welcome mail naming the new organization and workspace
// @Tags email
// @Accept json
// @Produce json
// @Param email body WelcomeEmailRequest true "Welcome email request"
// @Success 200 {object} services.EmailResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications/email/welcome [post]
func (eh *EmailHandler) SendWelcomeEmail(c *gin.Context) {
	var request WelcomeEmailRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	response, err := eh.emailService.SendWelcomeEmail(
		request.Email,
		request.Name,
		request.OrganizationName,
		request.WorkspaceName,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send welcome email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
