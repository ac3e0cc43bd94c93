package services

import (
	"regexp"
	"testing"
	"time"

	"tenanthub-backend/shared/database/models"
	utils "tenanthub-backend/shared/utils/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestCreateInvitation(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)

	inv, err := svc.CreateInvitation(workspace.ID, "New.Member@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, "new.member@acme.io", inv.Email)
	assert.Equal(t, models.WorkspaceRoleMember, inv.Role)
	assert.Equal(t, owner.ID, inv.InvitedBy)
	assert.Regexp(t, hexToken, inv.Token)
	assert.Nil(t, inv.AcceptedAt)

	// 7-day expiry, within a minute of tolerance
	expected := time.Now().UTC().Add(7 * 24 * time.Hour)
	assert.WithinDuration(t, expected, inv.ExpiresAt, time.Minute)
}

func TestCreateInvitationRejectsOwnerRole(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)

	_, err := svc.CreateInvitation(workspace.ID, "x@acme.io", models.WorkspaceRoleOwner, owner.ID)
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.CreateInvitation(workspace.ID, "x@acme.io", "superuser", owner.ID)
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestCreateInvitationMemberConflict(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	existing := createTestUser(t, db, "member@acme.io")
	addTestMember(t, db, workspace.ID, existing.ID, models.WorkspaceRoleMember)

	// Case difference must not bypass the check
	_, err := svc.CreateInvitation(workspace.ID, "MEMBER@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestCreateInvitationPendingDuplicate(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)

	_, err := svc.CreateInvitation(workspace.ID, "new@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)

	_, err = svc.CreateInvitation(workspace.ID, "new@acme.io", models.WorkspaceRoleAdmin, owner.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestCreateInvitationExpiredPendingDoesNotBlock(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)

	inv, err := svc.CreateInvitation(workspace.ID, "new@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)

	// Age the invitation past its deadline. Re-inviting must succeed
	// directly: the create supersedes the expired row so the partial
	// unique index on pending rows never rejects it.
	require.NoError(t, db.Model(inv).Update("expires_at", time.Now().UTC().Add(-time.Hour)).Error)

	reinvite, err := svc.CreateInvitation(workspace.ID, "new@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)
	require.NotEqual(t, inv.Token, reinvite.Token)

	// The expired row is gone; exactly one pending invitation remains.
	var pending int64
	require.NoError(t, db.Model(&models.WorkspaceInvitation{}).
		Where("workspace_id = ? AND email = ? AND accepted_at IS NULL", workspace.ID, "new@acme.io").
		Count(&pending).Error)
	require.EqualValues(t, 1, pending)

	var gone int64
	require.NoError(t, db.Model(&models.WorkspaceInvitation{}).
		Where("id = ?", inv.ID).Count(&gone).Error)
	require.Zero(t, gone)
}

func TestGetInvitationByToken(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)

	inv, err := svc.CreateInvitation(workspace.ID, "new@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)

	got, err := svc.GetInvitationByToken(inv.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, inv.ID, got.ID)
	assert.Equal(t, workspace.Name, got.Workspace.Name)

	// Unknown token resolves to nothing, not an error
	got, err = svc.GetInvitationByToken("deadbeef")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Expired rows are filtered lazily at read time
	require.NoError(t, db.Model(inv).Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)
	got, err = svc.GetInvitationByToken(inv.Token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAcceptInvitation(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	invitee := createTestUser(t, db, "new@acme.io")

	inv, err := svc.CreateInvitation(workspace.ID, "new@acme.io", models.WorkspaceRoleAdmin, owner.ID)
	require.NoError(t, err)

	member, err := svc.AcceptInvitation(inv.Token, invitee.ID)
	require.NoError(t, err)

	assert.Equal(t, models.WorkspaceRoleAdmin, member.Role)
	assert.Equal(t, workspace.ID, member.WorkspaceID)
	require.NotNil(t, member.InvitedBy)
	assert.Equal(t, owner.ID, *member.InvitedBy)
	assert.NotNil(t, member.InvitationAcceptedAt)

	var stored models.WorkspaceInvitation
	require.NoError(t, db.First(&stored, inv.ID).Error)
	assert.NotNil(t, stored.AcceptedAt)
}

func TestAcceptInvitationEmailCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	invitee := createTestUser(t, db, "New.Member@Acme.IO")

	inv, err := svc.CreateInvitation(workspace.ID, "new.member@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(inv.Token, invitee.ID)
	require.NoError(t, err)
}

func TestAcceptInvitationWrongEmail(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	stranger := createTestUser(t, db, "other@acme.io")

	inv, err := svc.CreateInvitation(workspace.ID, "new@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(inv.Token, stranger.ID)
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, int64(0), memberCount(t, db, workspace.ID, stranger.ID))
}

func TestAcceptInvitationExpired(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	invitee := createTestUser(t, db, "new@acme.io")

	inv, err := svc.CreateInvitation(workspace.ID, "new@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(inv).Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

	_, err = svc.AcceptInvitation(inv.Token, invitee.ID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(0), memberCount(t, db, workspace.ID, invitee.ID))
}

func TestAcceptInvitationTwice(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	invitee := createTestUser(t, db, "new@acme.io")

	inv, err := svc.CreateInvitation(workspace.ID, "new@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(inv.Token, invitee.ID)
	require.NoError(t, err)

	// The second accept fails and the membership count stays at one
	_, err = svc.AcceptInvitation(inv.Token, invitee.ID)
	require.Error(t, err)
	assert.Equal(t, int64(1), memberCount(t, db, workspace.ID, invitee.ID))
}

func TestCancelInvitation(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	admin := createTestUser(t, db, "admin@acme.io")
	member := createTestUser(t, db, "member@acme.io")
	addTestMember(t, db, workspace.ID, admin.ID, models.WorkspaceRoleAdmin)
	addTestMember(t, db, workspace.ID, member.ID, models.WorkspaceRoleMember)

	inv, err := svc.CreateInvitation(workspace.ID, "a@acme.io", models.WorkspaceRoleMember, admin.ID)
	require.NoError(t, err)

	// Plain members cannot cancel
	err = svc.CancelInvitation(inv.ID, member.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// The workspace owner can cancel someone else's invitation
	require.NoError(t, svc.CancelInvitation(inv.ID, owner.ID))

	// Cancelled means gone on every read path
	got, err := svc.GetInvitationByToken(inv.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = svc.CancelInvitation(inv.ID, owner.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetWorkspaceInvitationsPendingNewestFirst(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvitationService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	invitee := createTestUser(t, db, "a@acme.io")

	first, err := svc.CreateInvitation(workspace.ID, "a@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(first).Update("created_at", time.Now().UTC().Add(-time.Hour)).Error)

	second, err := svc.CreateInvitation(workspace.ID, "b@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)

	// Expired invitations stay listed, accepted ones disappear
	expired, err := svc.CreateInvitation(workspace.ID, "c@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(expired).Updates(map[string]interface{}{
		"expires_at": time.Now().UTC().Add(-time.Minute),
		"created_at": time.Now().UTC().Add(-2 * time.Hour),
	}).Error)

	_, err = svc.AcceptInvitation(first.Token, invitee.ID)
	require.NoError(t, err)

	invitations, err := svc.GetWorkspaceInvitations(workspace.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 2)
	assert.Equal(t, second.ID, invitations[0].ID)
	assert.Equal(t, expired.ID, invitations[1].ID)
}

func TestInvitationTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		token, err := utils.GenerateInvitationToken()
		require.NoError(t, err)
		require.Regexp(t, hexToken, token)
		require.False(t, seen[token], "token collision after %d generations", i)
		seen[token] = true
	}
}

func TestInvitationScenarioFlow(t *testing.T) {
	db := openTestDB(t)
	invitations := NewInvitationService(db)
	contexts := NewContextService(db)

	owner := createTestUser(t, db, "owner@acme.io")
	workspace := createTestWorkspace(t, db, owner)
	invitee := createTestUser(t, db, "hire@acme.io")

	// Member-role users cannot invite at all; the handler checks the
	// permission table before ever reaching the service.
	member := createTestUser(t, db, "member@acme.io")
	addTestMember(t, db, workspace.ID, member.ID, models.WorkspaceRoleMember)

	inv, err := invitations.CreateInvitation(workspace.ID, "hire@acme.io", models.WorkspaceRoleMember, owner.ID)
	require.NoError(t, err)

	got, err := invitations.GetInvitationByToken(inv.Token)
	require.NoError(t, err)
	require.NotNil(t, got)

	_, err = invitations.AcceptInvitation(inv.Token, invitee.ID)
	require.NoError(t, err)

	// The new member sees the workspace in their context
	ctx, err := contexts.GetContext(invitee.ID, "")
	require.NoError(t, err)
	require.NotNil(t, ctx)
	require.Len(t, ctx.Workspaces, 1)
	assert.Equal(t, workspace.ID, ctx.CurrentWorkspace.ID)
	assert.Equal(t, models.WorkspaceRoleMember, ctx.CurrentWorkspace.Role)
}
