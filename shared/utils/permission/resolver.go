package permission

import (
	"errors"

	"tenanthub-backend/shared/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotAMember is returned when a user has no membership row in the
// workspace. Callers must treat this as access denied; there is no
// default role.
var ErrNotAMember = errors.New("user is not a member of this workspace")

// ResolveRole loads the user's role in a workspace from the membership
// table. Exactly one row can exist per (workspace, user).
func ResolveRole(db *gorm.DB, userID, workspaceID uuid.UUID) (models.WorkspaceRole, error) {
	var member models.WorkspaceMember
	err := db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotAMember
		}
		return "", err
	}
	return member.Role, nil
}

// Can resolves the user's role and checks the permission table in one
// step. A missing membership denies without error.
func Can(db *gorm.DB, userID, workspaceID uuid.UUID, resource Resource, action Action) (bool, error) {
	role, err := ResolveRole(db, userID, workspaceID)
	if err != nil {
		if errors.Is(err, ErrNotAMember) {
			return false, nil
		}
		return false, err
	}
	return HasPermission(role, resource, action), nil
}

// IsSuperAdmin checks the user's platform role. Platform authority is
// orthogonal to workspace roles and never grants workspace permissions.
func IsSuperAdmin(db *gorm.DB, userID uuid.UUID) (bool, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsSuperAdmin(), nil
}
