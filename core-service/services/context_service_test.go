package services

import (
	"testing"
	"time"

	"tenanthub-backend/shared/database/models"
	"tenanthub-backend/shared/database/models/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestSession(t *testing.T, db *gorm.DB, user *models.User, sessionID string) *auth.UserSession {
	t.Helper()
	session := auth.UserSession{
		UserID:    user.ID,
		SessionID: sessionID,
		TokenHash: "test-hash",
		IsActive:  true,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, db.Create(&session).Error)
	return &session
}

func TestGetContextNoMemberships(t *testing.T) {
	db := openTestDB(t)
	svc := NewContextService(db)

	user := createTestUser(t, db, "lonely@acme.io")
	createTestSession(t, db, user, "sess-1")

	ctx, err := svc.GetContext(user.ID, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, ctx)
}

func TestGetContextDefaultsToFirstMembership(t *testing.T) {
	db := openTestDB(t)
	svc := NewContextService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	first := createTestWorkspace(t, db, owner)
	createTestSession(t, db, owner, "sess-1")

	// A second workspace in the same organization, joined later
	second := models.Workspace{OrganizationID: first.OrganizationID, Name: "Later", Slug: "later"}
	require.NoError(t, db.Create(&second).Error)
	m := addTestMember(t, db, second.ID, owner.ID, models.WorkspaceRoleOwner)
	require.NoError(t, db.Model(m).Update("joined_at", time.Now().UTC().Add(time.Hour)).Error)

	ctx, err := svc.GetContext(owner.ID, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, ctx)
	require.Len(t, ctx.Workspaces, 2)
	assert.Equal(t, first.ID, ctx.CurrentWorkspace.ID)
	assert.Equal(t, models.WorkspaceRoleOwner, ctx.CurrentWorkspace.Role)
	assert.Equal(t, "Test Org", ctx.CurrentWorkspace.OrganizationName)
}

func TestSwitchContext(t *testing.T) {
	db := openTestDB(t)
	svc := NewContextService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	first := createTestWorkspace(t, db, owner)
	createTestSession(t, db, owner, "sess-1")

	second := models.Workspace{OrganizationID: first.OrganizationID, Name: "Second", Slug: "second"}
	require.NoError(t, db.Create(&second).Error)
	m := addTestMember(t, db, second.ID, owner.ID, models.WorkspaceRoleMember)
	require.NoError(t, db.Model(m).Update("joined_at", time.Now().UTC().Add(time.Hour)).Error)

	ctx, err := svc.SwitchContext(owner.ID, "sess-1", second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, ctx.CurrentWorkspace.ID)
	assert.Equal(t, models.WorkspaceRoleMember, ctx.CurrentWorkspace.Role)

	// The marker is persisted on the session row
	var session auth.UserSession
	require.NoError(t, db.Where("session_id = ?", "sess-1").First(&session).Error)
	require.NotNil(t, session.CurrentWorkspaceID)
	assert.Equal(t, second.ID, *session.CurrentWorkspaceID)

	// Switching changes nothing but the marker: re-reading keeps it
	ctx, err = svc.GetContext(owner.ID, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, ctx.CurrentWorkspace.ID)
}

func TestSwitchContextDeniedForNonMembers(t *testing.T) {
	db := openTestDB(t)
	svc := NewContextService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	createTestWorkspace(t, db, owner)
	createTestSession(t, db, owner, "sess-1")

	outsider := createTestUser(t, db, "outsider@acme.io")
	outsiderWs := createTestWorkspace(t, db, outsider)

	_, err := svc.SwitchContext(owner.ID, "sess-1", outsiderWs.ID)
	require.ErrorIs(t, err, ErrAccessDenied)

	// The failed switch must not move the marker
	var session auth.UserSession
	require.NoError(t, db.Where("session_id = ?", "sess-1").First(&session).Error)
	assert.Nil(t, session.CurrentWorkspaceID)
}

func TestSwitchContextSessionsAreIndependent(t *testing.T) {
	db := openTestDB(t)
	svc := NewContextService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	first := createTestWorkspace(t, db, owner)
	createTestSession(t, db, owner, "laptop")
	createTestSession(t, db, owner, "phone")

	second := models.Workspace{OrganizationID: first.OrganizationID, Name: "Second", Slug: "second"}
	require.NoError(t, db.Create(&second).Error)
	m := addTestMember(t, db, second.ID, owner.ID, models.WorkspaceRoleAdmin)
	require.NoError(t, db.Model(m).Update("joined_at", time.Now().UTC().Add(time.Hour)).Error)

	_, err := svc.SwitchContext(owner.ID, "laptop", second.ID)
	require.NoError(t, err)

	laptopCtx, err := svc.GetContext(owner.ID, "laptop")
	require.NoError(t, err)
	phoneCtx, err := svc.GetContext(owner.ID, "phone")
	require.NoError(t, err)

	assert.Equal(t, second.ID, laptopCtx.CurrentWorkspace.ID)
	assert.Equal(t, first.ID, phoneCtx.CurrentWorkspace.ID)
}

func TestGetContextStaleMarkerFallsBack(t *testing.T) {
	db := openTestDB(t)
	svc := NewContextService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	first := createTestWorkspace(t, db, owner)
	session := createTestSession(t, db, owner, "sess-1")

	// Marker points at a workspace the user was removed from
	gone := models.Workspace{OrganizationID: first.OrganizationID, Name: "Gone", Slug: "gone"}
	require.NoError(t, db.Create(&gone).Error)
	require.NoError(t, db.Model(session).Update("current_workspace_id", gone.ID).Error)

	ctx, err := svc.GetContext(owner.ID, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Equal(t, first.ID, ctx.CurrentWorkspace.ID)
}
