package services

import (
	"testing"
	"time"

	"tenanthub-backend/shared/database"
	"tenanthub-backend/shared/database/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		Email:     email,
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// createTestWorkspace provisions an organization with one workspace
// owned by the given user.
func createTestWorkspace(t *testing.T, db *gorm.DB, owner *models.User) *models.Workspace {
	t.Helper()
	org := models.Organization{
		Name:             "Test Org",
		Plan:             models.PlanStarter,
		Status:           "active",
		OwnerID:          owner.ID,
		OnboardingStatus: models.OnboardingCompleted,
	}
	require.NoError(t, db.Create(&org).Error)

	workspace := models.Workspace{
		OrganizationID: org.ID,
		Name:           "Main",
		Slug:           "main",
	}
	require.NoError(t, db.Create(&workspace).Error)

	addTestMember(t, db, workspace.ID, owner.ID, models.WorkspaceRoleOwner)
	return &workspace
}

func addTestMember(t *testing.T, db *gorm.DB, workspaceID, userID uuid.UUID, role models.WorkspaceRole) *models.WorkspaceMember {
	t.Helper()
	member := models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		JoinedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(&member).Error)
	return &member
}

func memberCount(t *testing.T, db *gorm.DB, workspaceID, userID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Count(&count).Error)
	return count
}
