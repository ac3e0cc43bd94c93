package services

import (
	"errors"
	"fmt"
	"strings"

	"tenanthub-backend/shared/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationService handles the organization read/update surface.
// Organization access derives from workspace roles: any member of any
// workspace in the organization can read it, only workspace owners can
// update it (organization.update in the permission table).
type OrganizationService struct {
	db *gorm.DB
}

func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{db: db}
}

// OrganizationStats is the owner-facing usage summary.
type OrganizationStats struct {
	Workspaces         int64 `json:"workspaces"`
	Members            int64 `json:"members"`
	PendingInvitations int64 `json:"pending_invitations"`
}

// GetOrganization loads an organization for a user who belongs to at
// least one of its workspaces.
func (s *OrganizationService) GetOrganization(organizationID, userID uuid.UUID) (*models.Organization, error) {
	role, err := s.highestRole(organizationID, userID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, fmt.Errorf("%w: organization", ErrAccessDenied)
	}

	var org models.Organization
	if err := s.db.First(&org, organizationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: organization", ErrNotFound)
		}
		return nil, err
	}
	return &org, nil
}

// UpdateOrganization applies profile changes. Restricted to users who
// own a workspace in the organization.
func (s *OrganizationService) UpdateOrganization(organizationID, userID uuid.UUID, name, description, website *string) (*models.Organization, error) {
	role, err := s.highestRole(organizationID, userID)
	if err != nil {
		return nil, err
	}
	if role != models.WorkspaceRoleOwner {
		return nil, fmt.Errorf("%w: organization update", ErrAccessDenied)
	}

	var org models.Organization
	if err := s.db.First(&org, organizationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: organization", ErrNotFound)
		}
		return nil, err
	}

	if name != nil && strings.TrimSpace(*name) != "" {
		org.Name = strings.TrimSpace(*name)
	}
	if description != nil {
		org.Description = *description
	}
	if website != nil {
		org.Website = *website
	}

	if err := s.db.Save(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// GetOrganizationStats aggregates usage counters across the
// organization's workspaces.
func (s *OrganizationService) GetOrganizationStats(organizationID, userID uuid.UUID) (*OrganizationStats, error) {
	role, err := s.highestRole(organizationID, userID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, fmt.Errorf("%w: organization", ErrAccessDenied)
	}

	stats := &OrganizationStats{}

	if err := s.db.Model(&models.Workspace{}).
		Where("organization_id = ?", organizationID).
		Count(&stats.Workspaces).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.WorkspaceMember{}).
		Joins("JOIN workspaces ON workspaces.id = workspace_members.workspace_id").
		Where("workspaces.organization_id = ?", organizationID).
		Count(&stats.Members).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.WorkspaceInvitation{}).
		Joins("JOIN workspaces ON workspaces.id = workspace_invitations.workspace_id").
		Where("workspaces.organization_id = ? AND workspace_invitations.accepted_at IS NULL", organizationID).
		Count(&stats.PendingInvitations).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// highestRole returns the strongest workspace role the user holds in
// the organization, or "" when they belong to none of its workspaces.
func (s *OrganizationService) highestRole(organizationID, userID uuid.UUID) (models.WorkspaceRole, error) {
	var roles []models.WorkspaceRole
	err := s.db.Model(&models.WorkspaceMember{}).
		Joins("JOIN workspaces ON workspaces.id = workspace_members.workspace_id").
		Where("workspaces.organization_id = ? AND workspace_members.user_id = ?", organizationID, userID).
		Pluck("workspace_members.role", &roles).Error
	if err != nil {
		return "", err
	}

	var highest models.WorkspaceRole
	for _, role := range roles {
		switch role {
		case models.WorkspaceRoleOwner:
			return models.WorkspaceRoleOwner, nil
		case models.WorkspaceRoleAdmin:
			highest = models.WorkspaceRoleAdmin
		case models.WorkspaceRoleMember:
			if highest == "" {
				highest = models.WorkspaceRoleMember
			}
		}
	}
	return highest, nil
}
