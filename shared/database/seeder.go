package database

import (
	"log"

	"tenanthub-backend/shared/config"
	"tenanthub-backend/shared/database/models"
	utils "tenanthub-backend/shared/utils/auth"
)

// SeedDatabase seeds the database with initial data
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	// The permission policy is compiled into the binary, so the only
	// seed data is the platform super admin.
	if err := CreateSuperAdminFromConfig(); err != nil {
		return err
	}

	log.Println("✅ Database seed data is up to date")
	return nil
}

// CreateSuperAdminFromConfig creates the platform super admin using config values
func CreateSuperAdminFromConfig() error {
	cfg := config.GetConfig()
	return CreateSuperAdmin(cfg.SuperAdminEmail, cfg.SuperAdminPassword, "Platform", "Admin")
}

// CreateSuperAdmin creates a user with the super_admin platform role.
// Super admins have no workspaces of their own unless they go through
// onboarding like everyone else.
func CreateSuperAdmin(email, password, firstName, lastName string) error {
	var existingUser models.User
	if err := DB.Where("email = ?", email).First(&existingUser).Error; err == nil {
		if existingUser.PlatformRole != models.PlatformRoleSuperAdmin {
			existingUser.PlatformRole = models.PlatformRoleSuperAdmin
			if err := DB.Save(&existingUser).Error; err != nil {
				return err
			}
			log.Printf("✅ Elevated existing user to super admin: %s", email)
			return nil
		}
		log.Println("Super admin already exists")
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	superAdmin := models.User{
		Email:        email,
		Password:     hashedPassword,
		FirstName:    firstName,
		LastName:     lastName,
		Status:       "ACTIVE",
		PlatformRole: models.PlatformRoleSuperAdmin,
	}

	if err := DB.Create(&superAdmin).Error; err != nil {
		return err
	}

	log.Printf("✅ Super admin created: %s", email)
	return nil
}
