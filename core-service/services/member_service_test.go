package services

import (
	"testing"

	"tenanthub-backend/shared/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMembers(t *testing.T) {
	db := openTestDB(t)
	svc := NewMemberService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	member := createTestUser(t, db, "member@acme.io")
	addTestMember(t, db, workspace.ID, member.ID, models.WorkspaceRoleMember)

	// Plain members can list: user.read is granted to every role
	members, err := svc.ListMembers(workspace.ID, member.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, owner.ID, members[0].UserID)

	outsider := createTestUser(t, db, "outsider@acme.io")
	_, err = svc.ListMembers(workspace.ID, outsider.ID)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateMemberRole(t *testing.T) {
	db := openTestDB(t)
	svc := NewMemberService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	member := createTestUser(t, db, "member@acme.io")
	addTestMember(t, db, workspace.ID, member.ID, models.WorkspaceRoleMember)

	updated, err := svc.UpdateMemberRole(workspace.ID, member.ID, models.WorkspaceRoleAdmin, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkspaceRoleAdmin, updated.Role)
}

func TestUpdateMemberRoleValidation(t *testing.T) {
	db := openTestDB(t)
	svc := NewMemberService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	member := createTestUser(t, db, "member@acme.io")
	addTestMember(t, db, workspace.ID, member.ID, models.WorkspaceRoleMember)

	_, err := svc.UpdateMemberRole(workspace.ID, member.ID, "superuser", owner.ID)
	require.ErrorIs(t, err, ErrInvalidRole)

	// Members lack user.update entirely
	_, err = svc.UpdateMemberRole(workspace.ID, owner.ID, models.WorkspaceRoleMember, member.ID)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateMemberRoleOwnershipRules(t *testing.T) {
	db := openTestDB(t)
	svc := NewMemberService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	admin := createTestUser(t, db, "admin@acme.io")
	member := createTestUser(t, db, "member@acme.io")
	addTestMember(t, db, workspace.ID, admin.ID, models.WorkspaceRoleAdmin)
	addTestMember(t, db, workspace.ID, member.ID, models.WorkspaceRoleMember)

	// Admins hold user.update but cannot mint owners
	_, err := svc.UpdateMemberRole(workspace.ID, member.ID, models.WorkspaceRoleOwner, admin.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// The sole owner cannot demote themselves
	_, err = svc.UpdateMemberRole(workspace.ID, owner.ID, models.WorkspaceRoleAdmin, owner.ID)
	require.ErrorIs(t, err, ErrConflict)

	// With a second owner in place the demotion goes through
	_, err = svc.UpdateMemberRole(workspace.ID, admin.ID, models.WorkspaceRoleOwner, owner.ID)
	require.NoError(t, err)
	updated, err := svc.UpdateMemberRole(workspace.ID, owner.ID, models.WorkspaceRoleAdmin, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkspaceRoleAdmin, updated.Role)
}

func TestRemoveMember(t *testing.T) {
	db := openTestDB(t)
	svc := NewMemberService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	admin := createTestUser(t, db, "admin@acme.io")
	member := createTestUser(t, db, "member@acme.io")
	addTestMember(t, db, workspace.ID, admin.ID, models.WorkspaceRoleAdmin)
	addTestMember(t, db, workspace.ID, member.ID, models.WorkspaceRoleMember)

	// Admins lack user.delete
	err := svc.RemoveMember(workspace.ID, member.ID, admin.ID)
	require.ErrorIs(t, err, ErrAccessDenied)

	// Owners can remove
	require.NoError(t, svc.RemoveMember(workspace.ID, member.ID, owner.ID))
	assert.Equal(t, int64(0), memberCount(t, db, workspace.ID, member.ID))

	// Anyone can leave on their own
	require.NoError(t, svc.RemoveMember(workspace.ID, admin.ID, admin.ID))
	assert.Equal(t, int64(0), memberCount(t, db, workspace.ID, admin.ID))
}

func TestRemoveMemberLastOwnerGuard(t *testing.T) {
	db := openTestDB(t)
	svc := NewMemberService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)

	// Even a self-leave cannot orphan the workspace
	err := svc.RemoveMember(workspace.ID, owner.ID, owner.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, int64(1), memberCount(t, db, workspace.ID, owner.ID))

	second := createTestUser(t, db, "second@acme.io")
	addTestMember(t, db, workspace.ID, second.ID, models.WorkspaceRoleOwner)

	require.NoError(t, svc.RemoveMember(workspace.ID, owner.ID, owner.ID))
}
