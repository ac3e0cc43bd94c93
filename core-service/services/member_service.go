package services

import (
	"errors"
	"fmt"

	"tenanthub-backend/shared/database/models"
	"tenanthub-backend/shared/utils/cache"
	"tenanthub-backend/shared/utils/permission"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberService manages membership rows. Every mutation upholds the
// invariant that a workspace keeps at least one owner.
type MemberService struct {
	db *gorm.DB
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

// ListMembers returns the members of a workspace in joining order. Any
// member may list (user.read is granted to all three roles).
func (s *MemberService) ListMembers(workspaceID, requestedBy uuid.UUID) ([]models.WorkspaceMember, error) {
	allowed, err := permission.Can(s.db, requestedBy, workspaceID, permission.ResourceUser, permission.ActionRead)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: member list", ErrAccessDenied)
	}

	var members []models.WorkspaceMember
	err = s.db.Preload("User").
		Where("workspace_id = ?", workspaceID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateMemberRole changes a member's role. Requires user.update
// (owner or admin); only owners can grant or revoke ownership, and the
// last owner can never be demoted.
func (s *MemberService) UpdateMemberRole(workspaceID, targetUserID uuid.UUID, newRole models.WorkspaceRole, actorID uuid.UUID) (*models.WorkspaceMember, error) {
	if !newRole.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, newRole)
	}

	actorRole, err := permission.ResolveRole(s.db, actorID, workspaceID)
	if err != nil {
		if errors.Is(err, permission.ErrNotAMember) {
			return nil, fmt.Errorf("%w: role update", ErrAccessDenied)
		}
		return nil, err
	}
	if !permission.HasPermission(actorRole, permission.ResourceUser, permission.ActionUpdate) {
		return nil, fmt.Errorf("%w: role update", ErrAccessDenied)
	}

	var member models.WorkspaceMember
	err = s.db.Where("workspace_id = ? AND user_id = ?", workspaceID, targetUserID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: member", ErrNotFound)
		}
		return nil, err
	}

	if member.Role == newRole {
		return &member, nil
	}

	// Ownership moves only between owners.
	if (newRole == models.WorkspaceRoleOwner || member.Role == models.WorkspaceRoleOwner) &&
		actorRole != models.WorkspaceRoleOwner {
		return nil, fmt.Errorf("%w: only owners can change ownership", ErrForbidden)
	}

	if member.Role == models.WorkspaceRoleOwner {
		lastOwner, err := s.isLastOwner(workspaceID, targetUserID)
		if err != nil {
			return nil, err
		}
		if lastOwner {
			return nil, fmt.Errorf("%w: workspace must keep at least one owner", ErrConflict)
		}
	}

	member.Role = newRole
	if err := s.db.Save(&member).Error; err != nil {
		return nil, err
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateUserContexts(targetUserID)
	}

	return &member, nil
}

// RemoveMember deletes a membership row. Members may remove themselves
// (leave); removing someone else needs user.delete (owner only). The
// last owner cannot be removed either way.
func (s *MemberService) RemoveMember(workspaceID, targetUserID, actorID uuid.UUID) error {
	if actorID != targetUserID {
		allowed, err := permission.Can(s.db, actorID, workspaceID, permission.ResourceUser, permission.ActionDelete)
		if err != nil {
			return err
		}
		if !allowed {
			return fmt.Errorf("%w: member removal", ErrAccessDenied)
		}
	}

	var member models.WorkspaceMember
	err := s.db.Where("workspace_id = ? AND user_id = ?", workspaceID, targetUserID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: member", ErrNotFound)
		}
		return err
	}

	if member.Role == models.WorkspaceRoleOwner {
		lastOwner, err := s.isLastOwner(workspaceID, targetUserID)
		if err != nil {
			return err
		}
		if lastOwner {
			return fmt.Errorf("%w: workspace must keep at least one owner", ErrConflict)
		}
	}

	if err := s.db.Delete(&member).Error; err != nil {
		return err
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateUserContexts(targetUserID)
	}

	return nil
}

func (s *MemberService) isLastOwner(workspaceID, userID uuid.UUID) (bool, error) {
	var otherOwners int64
	err := s.db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND role = ? AND user_id != ?",
			workspaceID, models.WorkspaceRoleOwner, userID).
		Count(&otherOwners).Error
	if err != nil {
		return false, err
	}
	return otherOwners == 0, nil
}
