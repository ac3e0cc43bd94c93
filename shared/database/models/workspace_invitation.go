package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkspaceInvitation is a pending or accepted invite. Cancelled
// invitations are hard deleted, so a row here is either pending
// (accepted_at IS NULL) or part of the accept history.
//
// The partial unique index keeps at most one pending invitation per
// (workspace, email); accepted rows do not block re-inviting.
type WorkspaceInvitation struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	WorkspaceID uuid.UUID     `json:"workspace_id" gorm:"type:uuid;not null;uniqueIndex:idx_invitations_pending,where:accepted_at IS NULL"`
	Email       string        `json:"email" gorm:"size:255;not null;uniqueIndex:idx_invitations_pending,where:accepted_at IS NULL"`
	Role        WorkspaceRole `json:"role" gorm:"size:20;not null"`
	InvitedBy   uuid.UUID     `json:"invited_by" gorm:"type:uuid;not null"`
	Token       string        `json:"-" gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt   time.Time     `json:"expires_at" gorm:"not null"`
	AcceptedAt  *time.Time    `json:"accepted_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Workspace Workspace `json:"workspace,omitempty" gorm:"foreignKey:WorkspaceID"`
	Inviter   User      `json:"inviter,omitempty" gorm:"foreignKey:InvitedBy"`
}

func (i *WorkspaceInvitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsPending reports whether the invitation has not been accepted yet.
func (i *WorkspaceInvitation) IsPending() bool {
	return i.AcceptedAt == nil
}

// IsExpired reports whether the invitation deadline has passed. Expired
// rows stay in the table and are filtered out lazily on read.
func (i *WorkspaceInvitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
