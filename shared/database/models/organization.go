package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization plans. The plan is stored for display and future billing,
// it is never enforced anywhere in the backend.
const (
	PlanStarter    = "starter"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Onboarding progress markers. pending means the signup saga did not
// finish; a reconciliation job can pick those rows up later.
const (
	OnboardingPending   = "pending"
	OnboardingCompleted = "completed"
)

type Organization struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name             string    `json:"name" gorm:"size:255;not null"`
	Description      string    `json:"description" gorm:"type:text"`
	Website          string    `json:"website" gorm:"size:255"`
	Domain           string    `json:"domain" gorm:"size:255"`
	Plan             string    `json:"plan" gorm:"size:20;default:'starter'"`
	Status           string    `json:"status" gorm:"size:20;default:'active'"`
	OwnerID          uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	OnboardingStatus string    `json:"onboarding_status" gorm:"size:20;default:'pending'"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Owner User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
