package services

import (
	"testing"

	"tenanthub-backend/shared/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrganization(t *testing.T) {
	db := openTestDB(t)
	svc := NewOrganizationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	member := createTestUser(t, db, "member@acme.io")
	addTestMember(t, db, workspace.ID, member.ID, models.WorkspaceRoleMember)

	// All roles carry organization.read
	org, err := svc.GetOrganization(workspace.OrganizationID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Org", org.Name)

	outsider := createTestUser(t, db, "outsider@acme.io")
	_, err = svc.GetOrganization(workspace.OrganizationID, outsider.ID)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateOrganization(t *testing.T) {
	db := openTestDB(t)
	svc := NewOrganizationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	admin := createTestUser(t, db, "admin@acme.io")
	addTestMember(t, db, workspace.ID, admin.ID, models.WorkspaceRoleAdmin)

	name := "Acme Inc"
	website := "https://acme.io"
	org, err := svc.UpdateOrganization(workspace.OrganizationID, owner.ID, &name, nil, &website)
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", org.Name)
	assert.Equal(t, "https://acme.io", org.Website)

	// organization.update is owner-only
	_, err = svc.UpdateOrganization(workspace.OrganizationID, admin.ID, &name, nil, nil)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetOrganizationStats(t *testing.T) {
	db := openTestDB(t)
	svc := NewOrganizationService(db)
	invitations := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	member := createTestUser(t, db, "member@acme.io")
	addTestMember(t, db, workspace.ID, member.ID, models.WorkspaceRoleMember)

	second := models.Workspace{OrganizationID: workspace.OrganizationID, Name: "Second", Slug: "second"}
	require.NoError(t, db.Create(&second).Error)
	addTestMember(t, db, second.ID, owner.ID, models.WorkspaceRoleOwner)

	_, err := invitations.CreateInvitation(workspace.ID, "pending@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)

	stats, err := svc.GetOrganizationStats(workspace.OrganizationID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Workspaces)
	assert.Equal(t, int64(3), stats.Members)
	assert.Equal(t, int64(1), stats.PendingInvitations)
}
