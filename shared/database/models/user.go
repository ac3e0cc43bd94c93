package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlatformRole is the application-level authority of a user. It is
// completely orthogonal to workspace roles: a super admin bypasses
// workspace membership checks, everyone else does not.
type PlatformRole string

const (
	PlatformRoleSuperAdmin PlatformRole = "super_admin"
	PlatformRoleUser       PlatformRole = "user"
	PlatformRoleSupport    PlatformRole = "support"
)

type User struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string       `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password     string       `json:"-" gorm:"size:255;not null"`
	FirstName    string       `json:"first_name" gorm:"size:100"`
	LastName     string       `json:"last_name" gorm:"size:100"`
	Avatar       string       `json:"avatar" gorm:"size:500"`
	Language     string       `json:"language" gorm:"size:10;default:'en'"`
	Status       string       `json:"status" gorm:"size:20;default:'ACTIVE'"`
	PlatformRole PlatformRole `json:"platform_role" gorm:"size:50;default:'user'"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsSuperAdmin reports whether the user holds platform-wide authority.
// Only the exact super_admin role qualifies; support and user do not.
func (u *User) IsSuperAdmin() bool {
	return u.PlatformRole == PlatformRoleSuperAdmin
}

// FullName returns the display name used in generated resources.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return ""
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
