package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tenanthub-backend/shared/config"
	"tenanthub-backend/shared/database/models"
	utils "tenanthub-backend/shared/utils/auth"
	"tenanthub-backend/shared/utils/cache"
	"tenanthub-backend/shared/utils/permission"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvitationService implements the invitation lifecycle:
// pending -> accepted, pending -> cancelled (hard delete),
// pending -> expired (lazy, at read time).
type InvitationService struct {
	db *gorm.DB
}

func NewInvitationService(db *gorm.DB) *InvitationService {
	return &InvitationService{db: db}
}

// CreateInvitation creates a pending invitation. The caller must have
// already checked the user.invite permission; this method enforces the
// data-level rules only.
func (s *InvitationService) CreateInvitation(workspaceID uuid.UUID, email string, role models.WorkspaceRole, invitedBy uuid.UUID) (*models.WorkspaceInvitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := utils.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	// Only admin and member can be granted through an invitation.
	// Ownership is never handed out this way.
	if role != models.WorkspaceRoleAdmin && role != models.WorkspaceRoleMember {
		return nil, fmt.Errorf("%w: invitations can only grant admin or member", ErrInvalidRole)
	}

	var workspace models.Workspace
	if err := s.db.First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: workspace", ErrNotFound)
		}
		return nil, err
	}

	// Already a member?
	var memberCount int64
	err := s.db.Model(&models.WorkspaceMember{}).
		Joins("JOIN users ON users.id = workspace_members.user_id").
		Where("workspace_members.workspace_id = ? AND LOWER(users.email) = ?", workspaceID, email).
		Count(&memberCount).Error
	if err != nil {
		return nil, err
	}
	if memberCount > 0 {
		return nil, fmt.Errorf("%w: user is already a member of this workspace", ErrConflict)
	}

	// Already invited? Expired pending rows do not block re-inviting.
	var pendingCount int64
	err = s.db.Model(&models.WorkspaceInvitation{}).
		Where("workspace_id = ? AND LOWER(email) = ? AND accepted_at IS NULL AND expires_at > ?",
			workspaceID, email, time.Now().UTC()).
		Count(&pendingCount).Error
	if err != nil {
		return nil, err
	}
	if pendingCount > 0 {
		return nil, fmt.Errorf("%w: a pending invitation already exists for this email", ErrConflict)
	}

	token, err := utils.GenerateInvitationToken()
	if err != nil {
		return nil, err
	}

	expiryDays := config.GetConfig().GetInvitationExpiryDays()
	invitation := models.WorkspaceInvitation{
		WorkspaceID: workspaceID,
		Email:       email,
		Role:        role,
		InvitedBy:   invitedBy,
		Token:       token,
		ExpiresAt:   time.Now().UTC().Add(time.Duration(expiryDays) * 24 * time.Hour),
	}

	// Expired pending rows are superseded here rather than swept by a
	// background job: the partial unique index only allows one pending
	// row per (workspace, email), so the stale one must go before the
	// insert. A concurrent create racing past the pending check hits
	// the same index and surfaces as Conflict, not Internal.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ? AND LOWER(email) = ? AND accepted_at IS NULL AND expires_at <= ?",
			workspaceID, email, time.Now().UTC()).
			Delete(&models.WorkspaceInvitation{}).Error; err != nil {
			return err
		}
		return tx.Create(&invitation).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: a pending invitation already exists for this email", ErrConflict)
		}
		return nil, err
	}

	invitation.Workspace = workspace
	return &invitation, nil
}

// GetInvitationByToken resolves a token for the accept page. Unknown,
// accepted and expired tokens all come back as (nil, nil); the caller
// cannot distinguish them, which keeps tokens unprobeable.
func (s *InvitationService) GetInvitationByToken(token string) (*models.WorkspaceInvitation, error) {
	if token == "" {
		return nil, nil
	}

	var invitation models.WorkspaceInvitation
	err := s.db.Preload("Workspace").Preload("Workspace.Organization").Preload("Inviter").
		Where("token = ?", token).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !invitation.IsPending() || invitation.IsExpired() {
		return nil, nil
	}

	return &invitation, nil
}

// AcceptInvitation turns a pending invitation into a membership. The
// email comparison is case-insensitive; validation order is fixed:
// token state, then email match, then existing membership.
//
// The membership insert and the accepted_at update run in one
// transaction, with the membership insert first. An invitation can
// never be marked accepted without its membership row existing.
func (s *InvitationService) AcceptInvitation(token string, userID uuid.UUID) (*models.WorkspaceMember, error) {
	var invitation models.WorkspaceInvitation
	err := s.db.Where("token = ?", token).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invitation", ErrNotFound)
		}
		return nil, err
	}

	if !invitation.IsPending() || invitation.IsExpired() {
		return nil, fmt.Errorf("%w: invitation", ErrNotFound)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}

	if !strings.EqualFold(user.Email, invitation.Email) {
		return nil, fmt.Errorf("%w: invitation was issued for a different email address", ErrForbidden)
	}

	var memberCount int64
	err = s.db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", invitation.WorkspaceID, userID).
		Count(&memberCount).Error
	if err != nil {
		return nil, err
	}
	if memberCount > 0 {
		return nil, fmt.Errorf("%w: already a member of this workspace", ErrConflict)
	}

	now := time.Now().UTC()
	member := models.WorkspaceMember{
		WorkspaceID:          invitation.WorkspaceID,
		UserID:               userID,
		Role:                 invitation.Role,
		InvitedBy:            &invitation.InvitedBy,
		JoinedAt:             now,
		InvitationAcceptedAt: &now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return tx.Model(&models.WorkspaceInvitation{}).
			Where("id = ?", invitation.ID).
			Update("accepted_at", now).Error
	})
	if err != nil {
		return nil, err
	}

	// The new membership changes every cached context of this user.
	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateUserContexts(userID)
	}

	return &member, nil
}

// CancelInvitation hard deletes a pending invitation. Allowed for the
// original inviter and for workspace owners/admins. A cancelled
// invitation is indistinguishable from one that never existed.
func (s *InvitationService) CancelInvitation(invitationID, cancelledBy uuid.UUID) error {
	var invitation models.WorkspaceInvitation
	err := s.db.Where("id = ? AND accepted_at IS NULL", invitationID).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invitation", ErrNotFound)
		}
		return err
	}

	if invitation.InvitedBy != cancelledBy {
		role, err := permission.ResolveRole(s.db, cancelledBy, invitation.WorkspaceID)
		if err != nil {
			if errors.Is(err, permission.ErrNotAMember) {
				return fmt.Errorf("%w: not allowed to cancel this invitation", ErrForbidden)
			}
			return err
		}
		if role != models.WorkspaceRoleOwner && role != models.WorkspaceRoleAdmin {
			return fmt.Errorf("%w: not allowed to cancel this invitation", ErrForbidden)
		}
	}

	return s.db.Delete(&invitation).Error
}

// GetWorkspaceInvitations lists pending invitations for a workspace,
// newest first. Expired rows are included so clients can show them as
// expired; accepted and cancelled rows never appear.
func (s *InvitationService) GetWorkspaceInvitations(workspaceID uuid.UUID) ([]models.WorkspaceInvitation, error) {
	var invitations []models.WorkspaceInvitation
	err := s.db.Preload("Inviter").
		Where("workspace_id = ? AND accepted_at IS NULL", workspaceID).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}
