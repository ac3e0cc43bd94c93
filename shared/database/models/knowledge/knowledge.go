package knowledge

import (
	"time"

	"tenanthub-backend/shared/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KnowledgeBase is a workspace-scoped document collection. Access is
// gated by the workspace permission table (knowledgeBase resource).
type KnowledgeBase struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	WorkspaceID uuid.UUID `json:"workspace_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Workspace models.Workspace `json:"workspace,omitempty" gorm:"foreignKey:WorkspaceID"`
}

func (k *KnowledgeBase) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

// KnowledgeDocument references an object stored in MinIO. The object key
// is workspace-scoped: <workspace_id>/<knowledge_base_id>/<file_name>.
type KnowledgeDocument struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	KnowledgeBaseID uuid.UUID `json:"knowledge_base_id" gorm:"type:uuid;not null;index"`
	FileName        string    `json:"file_name" gorm:"size:255;not null"`
	OriginalName    string    `json:"original_name" gorm:"size:255;not null"`
	FileSize        int64     `json:"file_size" gorm:"not null"`
	MimeType        string    `json:"mime_type" gorm:"size:100"`
	BucketName      string    `json:"bucket_name" gorm:"size:100;not null"`
	ObjectKey       string    `json:"object_key" gorm:"size:500;uniqueIndex;not null"`
	UploadedBy      uuid.UUID `json:"uploaded_by" gorm:"type:uuid;not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	KnowledgeBase KnowledgeBase `json:"knowledge_base,omitempty" gorm:"foreignKey:KnowledgeBaseID"`
}

func (d *KnowledgeDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
