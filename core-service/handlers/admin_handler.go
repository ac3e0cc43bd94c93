package handlers

import (
	"net/http"

	"tenanthub-backend/core-service/middleware"
	"tenanthub-backend/shared/database/models"
	"tenanthub-backend/shared/utils/query"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminHandler serves the platform operator surface. Every route here
// sits behind the RequireSuperAdmin middleware; handlers read across
// tenants without workspace permission checks.
type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// UpdatePlatformRoleRequest represents request body for changing a platform role
type UpdatePlatformRoleRequest struct {
	PlatformRole models.PlatformRole `json:"platform_role" binding:"required" example:"support"`
}

// GetPlatformStats returns platform-wide counters
// @Summary Platform statistics
// @Description Get user, organization, workspace and membership totals across all tenants.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Platform counters"
// @Failure 403 {object} map[string]string "Super admin access required"
// @Router /admin/stats [get]
func (h *AdminHandler) GetPlatformStats(ctx *gin.Context) {
	var users, organizations, workspaces, memberships, pendingInvitations int64

	counts := []struct {
		model interface{}
		dest  *int64
		where string
	}{
		{&models.User{}, &users, ""},
		{&models.Organization{}, &organizations, ""},
		{&models.Workspace{}, &workspaces, ""},
		{&models.WorkspaceMember{}, &memberships, ""},
		{&models.WorkspaceInvitation{}, &pendingInvitations, "accepted_at IS NULL"},
	}
	for _, c := range counts {
		q := h.db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where)
		}
		if err := q.Count(c.dest).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to compute platform statistics",
				"message": err.Error(),
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"users":               users,
			"organizations":       organizations,
			"workspaces":          workspaces,
			"memberships":         memberships,
			"pending_invitations": pendingInvitations,
		},
	})
}

// ListUsers lists platform users
// @Summary List all users
// @Description Paginated user listing across all tenants with search and filtering.
// @Tags admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Search in email and name"
// @Param filters[platform_role] query string false "Filter by platform role"
// @Param filters[status] query string false "Filter by account status"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Users with pagination"
// @Failure 403 {object} map[string]string "Super admin access required"
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(ctx *gin.Context) {
	params := query.ParseQueryParams(ctx)

	q := h.db.Model(&models.User{})
	q = params.ApplyFilters(q, map[string]string{
		"platform_role": "platform_role",
		"status":        "status",
	})
	q = params.ApplySearch(q, []string{"email", "first_name", "last_name"})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to count users",
			"message": err.Error(),
		})
		return
	}

	q = params.ApplySort(q, map[string]string{
		"created_at": "created_at",
		"email":      "email",
	})
	q = params.Paginate(q)

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list users",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       users,
		"pagination": params.Pagination(total),
	})
}

// ListOrganizations lists all organizations
// @Summary List all organizations
// @Description Paginated organization listing across all tenants with search and plan filtering.
// @Tags admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Search in name and domain"
// @Param filters[plan] query string false "Filter by plan"
// @Param filters[status] query string false "Filter by status"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Organizations with pagination"
// @Failure 403 {object} map[string]string "Super admin access required"
// @Router /admin/organizations [get]
func (h *AdminHandler) ListOrganizations(ctx *gin.Context) {
	params := query.ParseQueryParams(ctx)

	q := h.db.Model(&models.Organization{})
	q = params.ApplyFilters(q, map[string]string{
		"plan":   "plan",
		"status": "status",
	})
	q = params.ApplySearch(q, []string{"name", "domain"})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to count organizations",
			"message": err.Error(),
		})
		return
	}

	q = params.ApplySort(q, map[string]string{
		"created_at": "created_at",
		"name":       "name",
	})
	q = params.Paginate(q)

	var organizations []models.Organization
	if err := q.Preload("Owner").Find(&organizations).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list organizations",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       organizations,
		"pagination": params.Pagination(total),
	})
}

// ListWorkspaces lists all workspaces
// @Summary List all workspaces
// @Description Paginated workspace listing across all tenants with search.
// @Tags admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Search in name and slug"
// @Param filters[organization_id] query string false "Filter by organization"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Workspaces with pagination"
// @Failure 403 {object} map[string]string "Super admin access required"
// @Router /admin/workspaces [get]
func (h *AdminHandler) ListWorkspaces(ctx *gin.Context) {
	params := query.ParseQueryParams(ctx)

	q := h.db.Model(&models.Workspace{})
	q = params.ApplyFilters(q, map[string]string{
		"organization_id": "organization_id",
	})
	q = params.ApplySearch(q, []string{"name", "slug"})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to count workspaces",
			"message": err.Error(),
		})
		return
	}

	q = params.ApplySort(q, map[string]string{
		"created_at": "created_at",
		"name":       "name",
	})
	q = params.Paginate(q)

	var workspaces []models.Workspace
	if err := q.Preload("Organization").Find(&workspaces).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list workspaces",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       workspaces,
		"pagination": params.Pagination(total),
	})
}

// UpdatePlatformRole changes a user's platform role
// @Summary Update a user's platform role
// @Description Promote or demote a user between super_admin, support and user. Operators cannot demote themselves.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Param role body UpdatePlatformRoleRequest true "New platform role"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated user"
// @Failure 400 {object} map[string]string "Unknown platform role"
// @Failure 404 {object} map[string]string "User not found"
// @Router /admin/users/{id}/platform-role [put]
func (h *AdminHandler) UpdatePlatformRole(ctx *gin.Context) {
	targetUserID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid user ID format",
			"message": err.Error(),
		})
		return
	}

	var req UpdatePlatformRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	switch req.PlatformRole {
	case models.PlatformRoleSuperAdmin, models.PlatformRoleSupport, models.PlatformRoleUser:
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid platform role",
			"message": "Platform role must be one of: super_admin, support, user",
		})
		return
	}

	callerID, _ := middleware.UserID(ctx)
	if callerID == targetUserID && req.PlatformRole != models.PlatformRoleSuperAdmin {
		ctx.JSON(http.StatusConflict, gin.H{
			"error":   "Conflict",
			"message": "You cannot remove your own super admin role",
		})
		return
	}

	var user models.User
	if err := h.db.First(&user, targetUserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error":   "User not found",
				"message": "No user with that ID",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load user",
			"message": err.Error(),
		})
		return
	}

	user.PlatformRole = req.PlatformRole
	if err := h.db.Save(&user).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update platform role",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Platform role updated successfully",
		"data":    user,
	})
}
