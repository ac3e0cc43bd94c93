package auth

import (
	"time"

	"tenanthub-backend/shared/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSession tracks an issued JWT pair. CurrentWorkspaceID is the
// per-session "current workspace" marker: two sessions of the same user
// can point at different workspaces without affecting each other.
type UserSession struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	SessionID          string     `json:"session_id" gorm:"size:255;uniqueIndex;not null"`
	TokenHash          string     `json:"token_hash" gorm:"size:255;not null"`
	RefreshToken       string     `json:"refresh_token" gorm:"size:500"`
	CurrentWorkspaceID *uuid.UUID `json:"current_workspace_id" gorm:"type:uuid"`
	UserAgent          string     `json:"user_agent" gorm:"size:500"`
	IPAddress          string     `json:"ip_address" gorm:"size:50"`
	IsActive           bool       `json:"is_active" gorm:"default:true"`
	ExpiresAt          time.Time  `json:"expires_at" gorm:"not null"`
	LastUsedAt         *time.Time `json:"last_used_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	User models.User `json:"user" gorm:"foreignKey:UserID"`
}

func (s *UserSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
