package services

import (
	"errors"
	"fmt"

	"tenanthub-backend/shared/database/models"
	"tenanthub-backend/shared/database/models/auth"
	"tenanthub-backend/shared/utils/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkspaceInfo is one entry of a user's workspace context.
type WorkspaceInfo struct {
	ID               uuid.UUID            `json:"id"`
	Name             string               `json:"name"`
	Slug             string               `json:"slug"`
	OrganizationID   uuid.UUID            `json:"organization_id"`
	OrganizationName string               `json:"organization_name"`
	Role             models.WorkspaceRole `json:"role"`
}

// WorkspaceContext is the computed view the frontend boots from: every
// workspace the user belongs to plus which one is current. It is always
// derived from the membership table, never stored.
type WorkspaceContext struct {
	CurrentWorkspace WorkspaceInfo   `json:"current_workspace"`
	Workspaces       []WorkspaceInfo `json:"workspaces"`
}

// ContextService computes and switches per-session workspace contexts.
type ContextService struct {
	db *gorm.DB
}

func NewContextService(db *gorm.DB) *ContextService {
	return &ContextService{db: db}
}

// GetContext assembles the workspace context for one session. Returns
// (nil, nil) when the user has no memberships at all (fresh signup whose
// onboarding failed). The current workspace is the session marker when
// it still points at a workspace the user belongs to, otherwise the
// first membership in joining order.
func (s *ContextService) GetContext(userID uuid.UUID, sessionID string) (*WorkspaceContext, error) {
	cm := cache.GetCacheManager()
	if cm != nil {
		var cached WorkspaceContext
		if hit, err := cm.GetContextCache(userID, sessionID, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	workspaces, err := s.listMemberships(userID)
	if err != nil {
		return nil, err
	}
	if len(workspaces) == 0 {
		return nil, nil
	}

	current := workspaces[0]
	if marker, err := s.sessionMarker(sessionID); err != nil {
		return nil, err
	} else if marker != nil {
		for _, ws := range workspaces {
			if ws.ID == *marker {
				current = ws
				break
			}
		}
	}

	context := &WorkspaceContext{
		CurrentWorkspace: current,
		Workspaces:       workspaces,
	}

	if cm != nil {
		cm.SetContextCache(userID, sessionID, context)
	}

	return context, nil
}

// SwitchContext moves a session's current workspace. Membership is
// checked first; nothing else changes, roles in other workspaces are
// untouched and other sessions keep their own markers.
func (s *ContextService) SwitchContext(userID uuid.UUID, sessionID string, workspaceID uuid.UUID) (*WorkspaceContext, error) {
	var memberCount int64
	err := s.db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Count(&memberCount).Error
	if err != nil {
		return nil, err
	}
	if memberCount == 0 {
		return nil, fmt.Errorf("%w: not a member of the requested workspace", ErrAccessDenied)
	}

	err = s.db.Model(&auth.UserSession{}).
		Where("session_id = ?", sessionID).
		Update("current_workspace_id", workspaceID).Error
	if err != nil {
		return nil, err
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateSessionContext(userID, sessionID)
	}

	return s.GetContext(userID, sessionID)
}

// listMemberships loads the user's workspaces joined with workspace and
// organization names, ordered by join time so the default workspace is
// stable.
func (s *ContextService) listMemberships(userID uuid.UUID) ([]WorkspaceInfo, error) {
	var rows []struct {
		WorkspaceID      uuid.UUID
		Name             string
		Slug             string
		OrganizationID   uuid.UUID
		OrganizationName string
		Role             models.WorkspaceRole
	}

	err := s.db.Model(&models.WorkspaceMember{}).
		Select(`workspace_members.workspace_id,
			workspaces.name,
			workspaces.slug,
			workspaces.organization_id,
			organizations.name AS organization_name,
			workspace_members.role`).
		Joins("JOIN workspaces ON workspaces.id = workspace_members.workspace_id").
		Joins("JOIN organizations ON organizations.id = workspaces.organization_id").
		Where("workspace_members.user_id = ?", userID).
		Order("workspace_members.joined_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	workspaces := make([]WorkspaceInfo, 0, len(rows))
	for _, row := range rows {
		workspaces = append(workspaces, WorkspaceInfo{
			ID:               row.WorkspaceID,
			Name:             row.Name,
			Slug:             row.Slug,
			OrganizationID:   row.OrganizationID,
			OrganizationName: row.OrganizationName,
			Role:             row.Role,
		})
	}
	return workspaces, nil
}

func (s *ContextService) sessionMarker(sessionID string) (*uuid.UUID, error) {
	if sessionID == "" {
		return nil, nil
	}

	var session auth.UserSession
	err := s.db.Select("current_workspace_id").
		Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session.CurrentWorkspaceID, nil
}
