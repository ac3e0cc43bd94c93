package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tenanthub-backend/shared/database/models"
	"tenanthub-backend/shared/utils/cache"
	"tenanthub-backend/shared/utils/permission"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkspaceService covers workspace CRUD. Creation is organization-owner
// territory; update/delete go through the permission table.
type WorkspaceService struct {
	db *gorm.DB
}

func NewWorkspaceService(db *gorm.DB) *WorkspaceService {
	return &WorkspaceService{db: db}
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashRuns     = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a display name into a url-safe slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugDashRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "workspace"
	}
	if len(slug) > 80 {
		slug = slug[:80]
	}
	return slug
}

// CreateWorkspace creates a workspace inside an organization and makes
// the creator its sole owner, in one transaction. Only the organization
// owner can add workspaces.
func (s *WorkspaceService) CreateWorkspace(organizationID uuid.UUID, name, description string, createdBy uuid.UUID) (*models.Workspace, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: workspace name is required", ErrValidation)
	}

	var org models.Organization
	if err := s.db.First(&org, organizationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: organization", ErrNotFound)
		}
		return nil, err
	}

	if org.OwnerID != createdBy {
		return nil, fmt.Errorf("%w: only the organization owner can create workspaces", ErrForbidden)
	}

	slug, err := s.uniqueSlug(organizationID, Slugify(name))
	if err != nil {
		return nil, err
	}

	workspace := models.Workspace{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(name),
		Slug:           slug,
		Description:    description,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&workspace).Error; err != nil {
			return err
		}
		member := models.WorkspaceMember{
			WorkspaceID: workspace.ID,
			UserID:      createdBy,
			Role:        models.WorkspaceRoleOwner,
			JoinedAt:    time.Now().UTC(),
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateUserContexts(createdBy)
	}

	return &workspace, nil
}

// GetWorkspace loads a workspace for a member. Non-members get
// ErrAccessDenied regardless of whether the workspace exists.
func (s *WorkspaceService) GetWorkspace(workspaceID, userID uuid.UUID) (*models.Workspace, error) {
	allowed, err := permission.Can(s.db, userID, workspaceID, permission.ResourceWorkspace, permission.ActionRead)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: workspace", ErrAccessDenied)
	}

	var workspace models.Workspace
	err = s.db.Preload("Organization").First(&workspace, workspaceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: workspace", ErrNotFound)
		}
		return nil, err
	}
	return &workspace, nil
}

// UpdateWorkspace applies name/description/settings changes. Requires
// the workspace.update permission (owner or admin).
func (s *WorkspaceService) UpdateWorkspace(workspaceID, userID uuid.UUID, name, description, settings *string) (*models.Workspace, error) {
	allowed, err := permission.Can(s.db, userID, workspaceID, permission.ResourceWorkspace, permission.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: workspace update", ErrAccessDenied)
	}

	var workspace models.Workspace
	if err := s.db.First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: workspace", ErrNotFound)
		}
		return nil, err
	}

	if name != nil && strings.TrimSpace(*name) != "" {
		workspace.Name = strings.TrimSpace(*name)
	}
	if description != nil {
		workspace.Description = *description
	}
	if settings != nil {
		workspace.Settings = *settings
	}

	if err := s.db.Save(&workspace).Error; err != nil {
		return nil, err
	}
	return &workspace, nil
}

// DeleteWorkspace removes the workspace with its memberships and
// pending invitations. Owner only (workspace.delete).
func (s *WorkspaceService) DeleteWorkspace(workspaceID, userID uuid.UUID) error {
	allowed, err := permission.Can(s.db, userID, workspaceID, permission.ResourceWorkspace, permission.ActionDelete)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: workspace delete", ErrAccessDenied)
	}

	var memberIDs []uuid.UUID
	if err := s.db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ?", workspaceID).
		Pluck("user_id", &memberIDs).Error; err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ?", workspaceID).Delete(&models.WorkspaceInvitation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", workspaceID).Delete(&models.WorkspaceMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Workspace{}, workspaceID).Error
	})
	if err != nil {
		return err
	}

	if cm := cache.GetCacheManager(); cm != nil {
		for _, id := range memberIDs {
			cm.InvalidateUserContexts(id)
		}
	}

	return nil
}

// uniqueSlug appends a numeric suffix until the slug is free within the
// organization.
func (s *WorkspaceService) uniqueSlug(organizationID uuid.UUID, base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		var count int64
		err := s.db.Model(&models.Workspace{}).
			Where("organization_id = ? AND slug = ?", organizationID, slug).
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
