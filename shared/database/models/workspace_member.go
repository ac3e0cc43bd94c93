package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkspaceRole is the role a user holds inside a single workspace.
// Roles are per-workspace: the same user can be owner in one workspace
// and member in another.
type WorkspaceRole string

const (
	WorkspaceRoleOwner  WorkspaceRole = "owner"
	WorkspaceRoleAdmin  WorkspaceRole = "admin"
	WorkspaceRoleMember WorkspaceRole = "member"
)

// Valid reports whether the role is one of the three known roles.
func (r WorkspaceRole) Valid() bool {
	switch r {
	case WorkspaceRoleOwner, WorkspaceRoleAdmin, WorkspaceRoleMember:
		return true
	}
	return false
}

// WorkspaceMember is a membership row. One row per (workspace, user),
// enforced by a composite unique index.
type WorkspaceMember struct {
	ID                   uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	WorkspaceID          uuid.UUID     `json:"workspace_id" gorm:"type:uuid;not null;uniqueIndex:idx_members_workspace_user"`
	UserID               uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_members_workspace_user"`
	Role                 WorkspaceRole `json:"role" gorm:"size:20;not null"`
	InvitedBy            *uuid.UUID    `json:"invited_by" gorm:"type:uuid"`
	JoinedAt             time.Time     `json:"joined_at" gorm:"not null"`
	InvitationAcceptedAt *time.Time    `json:"invitation_accepted_at"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`

	Workspace Workspace `json:"workspace,omitempty" gorm:"foreignKey:WorkspaceID"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (m *WorkspaceMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	return nil
}
