package permission

import (
	"testing"

	"tenanthub-backend/shared/database/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Organization{}, &models.Workspace{}, &models.WorkspaceMember{}))
	return db
}

func TestResolveRole(t *testing.T) {
	db := openTestDB(t)

	user := models.User{Email: "owner@acme.io", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	workspaceID := uuid.New()
	require.NoError(t, db.Create(&models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      user.ID,
		Role:        models.WorkspaceRoleOwner,
	}).Error)

	role, err := ResolveRole(db, user.ID, workspaceID)
	require.NoError(t, err)
	require.Equal(t, models.WorkspaceRoleOwner, role)
}

func TestResolveRoleNotAMember(t *testing.T) {
	db := openTestDB(t)

	role, err := ResolveRole(db, uuid.New(), uuid.New())
	require.ErrorIs(t, err, ErrNotAMember)
	require.Empty(t, role)
}

func TestResolveRolePerWorkspace(t *testing.T) {
	db := openTestDB(t)

	user := models.User{Email: "dual@acme.io", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	first, second := uuid.New(), uuid.New()
	require.NoError(t, db.Create(&models.WorkspaceMember{WorkspaceID: first, UserID: user.ID, Role: models.WorkspaceRoleOwner}).Error)
	require.NoError(t, db.Create(&models.WorkspaceMember{WorkspaceID: second, UserID: user.ID, Role: models.WorkspaceRoleMember}).Error)

	role, err := ResolveRole(db, user.ID, first)
	require.NoError(t, err)
	require.Equal(t, models.WorkspaceRoleOwner, role)

	role, err = ResolveRole(db, user.ID, second)
	require.NoError(t, err)
	require.Equal(t, models.WorkspaceRoleMember, role)
}

func TestCanDeniesNonMembers(t *testing.T) {
	db := openTestDB(t)

	allowed, err := Can(db, uuid.New(), uuid.New(), ResourceWorkspace, ActionRead)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestIsSuperAdmin(t *testing.T) {
	db := openTestDB(t)

	admin := models.User{Email: "root@platform.io", Password: "x", PlatformRole: models.PlatformRoleSuperAdmin}
	support := models.User{Email: "support@platform.io", Password: "x", PlatformRole: models.PlatformRoleSupport}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&support).Error)

	ok, err := IsSuperAdmin(db, admin.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// support is privileged in the UI but not here
	ok, err = IsSuperAdmin(db, support.ID)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = IsSuperAdmin(db, uuid.New())
	require.NoError(t, err)
	require.False(t, ok)
}
