package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationLevel represents the severity level of a notification
type NotificationLevel string

const (
	NotificationLevelSuccess NotificationLevel = "success"
	NotificationLevelError   NotificationLevel = "error"
	NotificationLevelWarning NotificationLevel = "warning"
	NotificationLevelInfo    NotificationLevel = "info"
)

// Notification types emitted by the workspace backend.
const (
	TypeInvitationCreated = "workspace.invitation_created"
	TypeMemberJoined      = "workspace.member_joined"
	TypeMemberRemoved     = "workspace.member_removed"
	TypeRoleChanged       = "workspace.role_changed"
)

// Notification represents an in-app notification row
type Notification struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      *uuid.UUID        `json:"user_id,omitempty" gorm:"type:uuid;index"`
	WorkspaceID *uuid.UUID        `json:"workspace_id,omitempty" gorm:"type:uuid;index"`
	Type        string            `json:"type" gorm:"type:varchar(50);not null"`
	Level       NotificationLevel `json:"level" gorm:"type:varchar(20);not null;default:'info'"`
	Title       string            `json:"title" gorm:"type:varchar(200);not null"`
	Message     string            `json:"message" gorm:"type:text;not null"`
	EntityID    *uuid.UUID        `json:"entity_id,omitempty" gorm:"type:uuid"`
	Entity      string            `json:"entity,omitempty" gorm:"type:varchar(100)"`
	IsRead      bool              `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time         `json:"created_at" gorm:"autoCreateTime;index"`
	ReadAt      *time.Time        `json:"read_at,omitempty"`
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// WebSocketMessage represents a WebSocket message format
type WebSocketMessage struct {
	Type        string            `json:"type"`
	Level       NotificationLevel `json:"level"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Timestamp   time.Time         `json:"timestamp"`
	EntityID    *uuid.UUID        `json:"entity_id,omitempty"`
	Entity      string            `json:"entity,omitempty"`
	UserID      *uuid.UUID        `json:"user_id,omitempty"`
	WorkspaceID *uuid.UUID        `json:"workspace_id,omitempty"`
}

// GetCurrentTime returns current time for WebSocket messages
func GetCurrentTime() time.Time {
	return time.Now().UTC()
}
