package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"tenanthub-backend/shared/database/models"

	"gorm.io/gorm"
)

// Email providers whose domain says nothing about the user's company.
var publicEmailProviders = map[string]bool{
	"gmail.com":   true,
	"outlook.com": true,
	"hotmail.com": true,
	"yahoo.com":   true,
}

// OnboardingService runs the signup saga: organization, first workspace
// and the sole owner membership for a freshly registered user.
type OnboardingService struct {
	db *gorm.DB
}

func NewOnboardingService(db *gorm.DB) *OnboardingService {
	return &OnboardingService{db: db}
}

// OnboardingResult reports how far the saga got. The user record always
// survives; OnboardingCompleted is false when any later step failed and
// the account was left without workspaces.
type OnboardingResult struct {
	User                *models.User         `json:"user"`
	Organization        *models.Organization `json:"organization,omitempty"`
	Workspace           *models.Workspace    `json:"workspace,omitempty"`
	OnboardingCompleted bool                 `json:"onboarding_completed"`
}

// CompleteOnboarding provisions the default organization and workspace
// for a new user. The saga is not idempotent and must be invoked at
// most once per user, right after registration.
//
// Steps run in order: organization (onboarding_status=pending), then
// workspace plus owner membership in one transaction, then the status
// flip to completed. A failure at any step stops the saga; earlier
// steps are not rolled back, the pending status marks the account for
// later reconciliation.
func (s *OnboardingService) CompleteOnboarding(user *models.User, organizationName string) *OnboardingResult {
	result := &OnboardingResult{User: user}

	if strings.TrimSpace(organizationName) == "" {
		organizationName = DefaultOrganizationName(user)
	}

	org := models.Organization{
		Name:             organizationName,
		Domain:           InferDomain(user.Email),
		Plan:             models.PlanStarter,
		Status:           "active",
		OwnerID:          user.ID,
		OnboardingStatus: models.OnboardingPending,
	}
	if err := s.db.Create(&org).Error; err != nil {
		log.Printf("⚠️  Onboarding: organization step failed for %s: %v", user.Email, err)
		return result
	}
	result.Organization = &org

	workspace := models.Workspace{
		OrganizationID: org.ID,
		Name:           "General",
		Slug:           "general",
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&workspace).Error; err != nil {
			return err
		}
		member := models.WorkspaceMember{
			WorkspaceID: workspace.ID,
			UserID:      user.ID,
			Role:        models.WorkspaceRoleOwner,
			JoinedAt:    time.Now().UTC(),
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		log.Printf("⚠️  Onboarding: workspace step failed for %s: %v", user.Email, err)
		return result
	}
	result.Workspace = &workspace

	org.OnboardingStatus = models.OnboardingCompleted
	if err := s.db.Save(&org).Error; err != nil {
		log.Printf("⚠️  Onboarding: status update failed for %s: %v", user.Email, err)
		return result
	}

	result.OnboardingCompleted = true
	return result
}

// DefaultOrganizationName builds "<First> <Last>'s Organization".
func DefaultOrganizationName(user *models.User) string {
	name := user.FullName()
	if name == "" {
		return "My Organization"
	}
	return fmt.Sprintf("%s's Organization", name)
}

// InferDomain extracts the company domain from a work email. Public
// providers yield an empty domain.
func InferDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	domain := strings.ToLower(email[at+1:])
	if publicEmailProviders[domain] {
		return ""
	}
	return domain
}
