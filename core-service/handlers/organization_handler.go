package handlers

import (
	"net/http"

	"tenanthub-backend/core-service/middleware"
	"tenanthub-backend/core-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationHandler struct {
	organizations *services.OrganizationService
}

func NewOrganizationHandler(db *gorm.DB) *OrganizationHandler {
	return &OrganizationHandler{organizations: services.NewOrganizationService(db)}
}

// UpdateOrganizationRequest represents request body for updating an organization
type UpdateOrganizationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
}

// GetOrganization retrieves an organization
// @Summary Get organization by ID
// @Description Get an organization. Available to members of any of its workspaces.
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Organization"
// @Failure 403 {object} map[string]string "No workspace membership in this organization"
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /organizations/{id} [get]
func (h *OrganizationHandler) GetOrganization(ctx *gin.Context) {
	organizationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid organization ID format",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	org, err := h.organizations.GetOrganization(organizationID, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    org,
	})
}

// UpdateOrganization updates an organization profile
// @Summary Update an organization
// @Description Update name, description or website. Restricted to users who own a workspace in the organization.
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID" format(uuid)
// @Param organization body UpdateOrganizationRequest true "Updated fields"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated organization"
// @Failure 403 {object} map[string]string "Not an owner"
// @Router /organizations/{id} [put]
func (h *OrganizationHandler) UpdateOrganization(ctx *gin.Context) {
	organizationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid organization ID format",
			"message": err.Error(),
		})
		return
	}

	var req UpdateOrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	org, err := h.organizations.UpdateOrganization(organizationID, userID, req.Name, req.Description, req.Website)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Organization updated successfully",
		"data":    org,
	})
}

// GetOrganizationStats returns usage counters for an organization
// @Summary Get organization statistics
// @Description Get workspace, member and pending invitation counts across the organization.
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Usage counters"
// @Failure 403 {object} map[string]string "No workspace membership in this organization"
// @Router /organizations/{id}/stats [get]
func (h *OrganizationHandler) GetOrganizationStats(ctx *gin.Context) {
	organizationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid organization ID format",
			"message": err.Error(),
		})
		return
	}

	userID, _ := middleware.UserID(ctx)

	stats, err := h.organizations.GetOrganizationStats(organizationID, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
