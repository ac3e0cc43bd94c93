package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records a request that passed through the API gateway.
type AuditLog struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	UserID       *uuid.UUID  `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Service      string      `json:"service" gorm:"type:varchar(50);index"`
	Method       string      `json:"method" gorm:"type:varchar(10);not null"`
	Path         string      `json:"path" gorm:"type:varchar(500);not null"`
	StatusCode   int         `json:"status_code" gorm:"not null;index"`
	ResponseBody interface{} `json:"response_body,omitempty" gorm:"type:jsonb"`
	IPAddress    string      `json:"ip_address" gorm:"type:varchar(45)"`
	UserAgent    string      `json:"user_agent" gorm:"type:text"`
	Duration     int64       `json:"duration_ms" gorm:"not null"` // milliseconds
	RequestID    string      `json:"request_id" gorm:"type:varchar(100);index"`
	CreatedAt    time.Time   `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName returns the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
