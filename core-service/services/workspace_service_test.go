package services

import (
	"testing"

	"tenanthub-backend/shared/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "customer-success", Slugify("Customer Success"))
	assert.Equal(t, "r-d-2026", Slugify("  R&D 2026  "))
	assert.Equal(t, "workspace", Slugify("!!!"))
}

func TestCreateWorkspace(t *testing.T) {
	db := openTestDB(t)
	svc := NewWorkspaceService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	existing := createTestWorkspace(t, db, owner)

	workspace, err := svc.CreateWorkspace(existing.OrganizationID, "Customer Success", "support team", owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "customer-success", workspace.Slug)

	// Creator becomes the sole owner
	var member models.WorkspaceMember
	require.NoError(t, db.Where("workspace_id = ?", workspace.ID).First(&member).Error)
	assert.Equal(t, owner.ID, member.UserID)
	assert.Equal(t, models.WorkspaceRoleOwner, member.Role)

	// Slug collision gets a suffix
	again, err := svc.CreateWorkspace(existing.OrganizationID, "Customer Success", "", owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "customer-success-2", again.Slug)
}

func TestCreateWorkspaceOnlyOrgOwner(t *testing.T) {
	db := openTestDB(t)
	svc := NewWorkspaceService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	existing := createTestWorkspace(t, db, owner)
	admin := createTestUser(t, db, "admin@acme.io")
	addTestMember(t, db, existing.ID, admin.ID, models.WorkspaceRoleAdmin)

	_, err := svc.CreateWorkspace(existing.OrganizationID, "Side Project", "", admin.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateWorkspace(existing.OrganizationID, "   ", "", owner.ID)
	require.ErrorIs(t, err, ErrValidation)
}

func TestGetWorkspace(t *testing.T) {
	db := openTestDB(t)
	svc := NewWorkspaceService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	member := createTestUser(t, db, "member@acme.io")
	addTestMember(t, db, workspace.ID, member.ID, models.WorkspaceRoleMember)

	got, err := svc.GetWorkspace(workspace.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, workspace.ID, got.ID)
	assert.Equal(t, "Test Org", got.Organization.Name)

	outsider := createTestUser(t, db, "outsider@acme.io")
	_, err = svc.GetWorkspace(workspace.ID, outsider.ID)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateWorkspace(t *testing.T) {
	db := openTestDB(t)
	svc := NewWorkspaceService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	admin := createTestUser(t, db, "admin@acme.io")
	member := createTestUser(t, db, "member@acme.io")
	addTestMember(t, db, workspace.ID, admin.ID, models.WorkspaceRoleAdmin)
	addTestMember(t, db, workspace.ID, member.ID, models.WorkspaceRoleMember)

	name := "Renamed"
	updated, err := svc.UpdateWorkspace(workspace.ID, admin.ID, &name, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "main", updated.Slug)

	_, err = svc.UpdateWorkspace(workspace.ID, member.ID, &name, nil, nil)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestDeleteWorkspace(t *testing.T) {
	db := openTestDB(t)
	svc := NewWorkspaceService(db)
	invitations := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	admin := createTestUser(t, db, "admin@acme.io")
	addTestMember(t, db, workspace.ID, admin.ID, models.WorkspaceRoleAdmin)
	_, err := invitations.CreateInvitation(workspace.ID, "pending@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)

	// workspace.delete is owner-only
	err = svc.DeleteWorkspace(workspace.ID, admin.ID)
	require.ErrorIs(t, err, ErrAccessDenied)

	require.NoError(t, svc.DeleteWorkspace(workspace.ID, owner.ID))

	var workspaces, members, pending int64
	require.NoError(t, db.Model(&models.Workspace{}).Where("id = ?", workspace.ID).Count(&workspaces).Error)
	require.NoError(t, db.Model(&models.WorkspaceMember{}).Where("workspace_id = ?", workspace.ID).Count(&members).Error)
	require.NoError(t, db.Model(&models.WorkspaceInvitation{}).Where("workspace_id = ?", workspace.ID).Count(&pending).Error)
	assert.Zero(t, workspaces)
	assert.Zero(t, members)
	assert.Zero(t, pending)
}
