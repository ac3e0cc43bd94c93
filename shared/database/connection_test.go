package database

import (
	"testing"
	"time"

	"tenanthub-backend/shared/database/models"
	"tenanthub-backend/shared/database/models/auth"
	"tenanthub-backend/shared/database/models/knowledge"
	"tenanthub-backend/shared/database/models/notification"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The model set must migrate cleanly on the sqlite test driver, not
// just postgres: the service test suites build their schema from the
// same Models() list.
func TestModelsMigrateOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(Models()...))
}

// Every model assigns its own UUID in BeforeCreate, so inserts work
// without a database-side default.
func TestModelsAssignIDsOnCreate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))

	user := models.User{Email: "user@acme.io", Password: "hashed", FirstName: "A", LastName: "B"}
	require.NoError(t, db.Create(&user).Error)
	require.NotEmpty(t, user.ID)

	org := models.Organization{Name: "Acme", Plan: models.PlanStarter, Status: "active", OwnerID: user.ID}
	require.NoError(t, db.Create(&org).Error)
	require.NotEmpty(t, org.ID)

	workspace := models.Workspace{OrganizationID: org.ID, Name: "Main", Slug: "main"}
	require.NoError(t, db.Create(&workspace).Error)
	require.NotEmpty(t, workspace.ID)

	member := models.WorkspaceMember{WorkspaceID: workspace.ID, UserID: user.ID, Role: models.WorkspaceRoleOwner, JoinedAt: time.Now().UTC()}
	require.NoError(t, db.Create(&member).Error)
	require.NotEmpty(t, member.ID)

	invitation := models.WorkspaceInvitation{
		WorkspaceID: workspace.ID,
		Email:       "new@acme.io",
		Role:        models.WorkspaceRoleMember,
		InvitedBy:   user.ID,
		Token:       "token",
		ExpiresAt:   time.Now().UTC().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(&invitation).Error)
	require.NotEmpty(t, invitation.ID)

	session := auth.UserSession{UserID: user.ID, SessionID: "session-1", TokenHash: "hash", ExpiresAt: time.Now().UTC().Add(time.Hour), IsActive: true}
	require.NoError(t, db.Create(&session).Error)
	require.NotEmpty(t, session.ID)

	base := knowledge.KnowledgeBase{WorkspaceID: workspace.ID, Name: "Docs", CreatedBy: user.ID}
	require.NoError(t, db.Create(&base).Error)
	require.NotEmpty(t, base.ID)

	doc := knowledge.KnowledgeDocument{
		KnowledgeBaseID: base.ID,
		FileName:        "guide.pdf",
		OriginalName:    "guide.pdf",
		FileSize:        42,
		BucketName:      "tenanthub",
		ObjectKey:       "ws/kb/guide.pdf",
		UploadedBy:      user.ID,
	}
	require.NoError(t, db.Create(&doc).Error)
	require.NotEmpty(t, doc.ID)

	notif := notification.Notification{Type: notification.TypeMemberJoined, Level: notification.NotificationLevelSuccess, Title: "t", Message: "m"}
	require.NoError(t, db.Create(&notif).Error)
	require.NotEmpty(t, notif.ID)

	audit := notification.AuditLog{Method: "GET", Path: "/health", StatusCode: 200}
	require.NoError(t, db.Create(&audit).Error)
	require.NotEmpty(t, audit.ID)
}
