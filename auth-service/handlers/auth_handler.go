package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	coreservices "tenanthub-backend/core-service/services"
	"tenanthub-backend/shared/clients"
	"tenanthub-backend/shared/database/models"
	"tenanthub-backend/shared/database/models/auth"
	"tenanthub-backend/shared/utils/cache"

	utils "tenanthub-backend/shared/utils/auth"
)

type AuthHandler struct {
	db         *gorm.DB
	onboarding *coreservices.OnboardingService
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		db:         db,
		onboarding: coreservices.NewOnboardingService(db),
	}
}

// Login Request/Response structs
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@tenanthub.io"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

type LoginResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	User         UserInfo  `json:"user"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UserInfo struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PlatformRole string    `json:"platform_role"`
	Status       string    `json:"status"`
}

// Register Request struct
type RegisterRequest struct {
	Email            string `json:"email" binding:"required,email" example:"user@example.com"`
	Password         string `json:"password" binding:"required,min=8" example:"securepassword123"`
	FirstName        string `json:"first_name" binding:"required" example:"John"`
	LastName         string `json:"last_name" binding:"required" example:"Doe"`
	OrganizationName string `json:"organization_name" example:"Acme Inc."`
}

// Refresh Request struct
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// Refresh Response struct
type RefreshResponse struct {
	Token        string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time `json:"expires_at" example:"2025-06-02T19:37:11.076935+03:00"`
}

// POST /api/auth/login
// @Summary User login
// @Description Authenticate a user and return JWT tokens. Each login creates a fresh session with its own workspace context.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} handlers.LoginResponse "Successful login"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Find User by email
	var user models.User
	if err := h.db.Where("LOWER(email) = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Check if user is active
	if user.Status != "ACTIVE" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is inactive"})
		return
	}

	// Check password
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	sessionID, err := utils.GenerateSessionID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return
	}

	// Create JWT token
	token, err := utils.GenerateJWT(user.ID, user.Email, sessionID, user.PlatformRole)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	// Create Refresh Token
	refreshToken, err := utils.GenerateRefreshJWT(user.ID, user.Email, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token"})
		return
	}

	// Set up user session. CurrentWorkspaceID stays nil until the first
	// context switch; the context endpoint falls back to the default
	// workspace.
	expireDuration := utils.GetJWTExpireDuration()
	userSession := auth.UserSession{
		UserID:       user.ID,
		SessionID:    sessionID,
		TokenHash:    token[:32],
		RefreshToken: refreshToken,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.GetHeader("User-Agent"),
		ExpiresAt:    time.Now().Add(expireDuration),
		IsActive:     true,
	}

	if err := h.db.Create(&userSession).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return
	}

	response := LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(expireDuration),
		User: UserInfo{
			ID:           user.ID,
			Email:        user.Email,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			PlatformRole: string(user.PlatformRole),
			Status:       user.Status,
		},
	}

	c.JSON(http.StatusOK, response)
}

// POST /api/auth/register
// @Summary Register new user
// @Description Register a new account and provision its default organization and workspace. The user lands authenticated; onboarding_completed is false when provisioning did not finish.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body RegisterRequest true "User registration data"
// @Success 201 {object} map[string]interface{} "User registered with tokens and onboarding result"
// @Failure 400 {object} map[string]string "Invalid request format or validation error"
// @Failure 409 {object} map[string]string "Email already exists"
// @Failure 500 {object} map[string]string "Failed to register user"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Email validation
	if err := utils.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Password validation
	if err := utils.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check email uniqueness
	var existingUser models.User
	if err := h.db.Where("LOWER(email) = ?", email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		return
	}

	// Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
		return
	}

	// Create User
	user := models.User{
		Email:        email,
		Password:     hashedPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Status:       "ACTIVE",
		PlatformRole: models.PlatformRoleUser,
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create user"})
		return
	}

	// Provision the default organization, workspace and owner membership.
	// A partial failure keeps the account usable; the frontend re-runs
	// onboarding when onboarding_completed is false.
	onboarding := h.onboarding.CompleteOnboarding(&user, req.OrganizationName)

	// Welcome email is best effort
	if onboarding.OnboardingCompleted {
		notificationClient := clients.NewNotificationClient()
		notificationClient.SendWelcomeEmail(clients.WelcomeEmailRequest{
			Email:            user.Email,
			Name:             user.FullName(),
			OrganizationName: onboarding.Organization.Name,
			WorkspaceName:    onboarding.Workspace.Name,
		})
	}

	// Log the user straight in
	sessionID, err := utils.GenerateSessionID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, sessionID, user.PlatformRole)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	refreshToken, err := utils.GenerateRefreshJWT(user.ID, user.Email, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token"})
		return
	}

	expireDuration := utils.GetJWTExpireDuration()
	userSession := auth.UserSession{
		UserID:       user.ID,
		SessionID:    sessionID,
		TokenHash:    token[:32],
		RefreshToken: refreshToken,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.GetHeader("User-Agent"),
		ExpiresAt:    time.Now().Add(expireDuration),
		IsActive:     true,
	}
	if err := h.db.Create(&userSession).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return
	}

	response := gin.H{
		"message":              "User registered successfully",
		"token":                token,
		"refresh_token":        refreshToken,
		"expires_at":           time.Now().Add(expireDuration),
		"onboarding_completed": onboarding.OnboardingCompleted,
		"user": UserInfo{
			ID:           user.ID,
			Email:        user.Email,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			PlatformRole: string(user.PlatformRole),
			Status:       user.Status,
		},
	}
	if onboarding.Organization != nil {
		response["organization"] = onboarding.Organization
	}
	if onboarding.Workspace != nil {
		response["workspace"] = onboarding.Workspace
	}

	c.JSON(http.StatusCreated, response)
}

// POST /api/auth/refresh
// @Summary Refresh JWT token
// @Description Refresh an expired JWT token using a valid refresh token. The session and its current workspace survive the rotation.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Refresh token"
// @Success 200 {object} handlers.RefreshResponse "Successfully refreshed tokens"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid refresh token or user inactive"
// @Failure 500 {object} map[string]string "Failed to generate new tokens"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Refresh token validation
	claims, err := utils.ValidateRefreshJWT(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	// Find the session the refresh token belongs to
	userID, _ := uuid.Parse(claims.UserID)
	var userSession auth.UserSession
	if err := h.db.Where("user_id = ? AND session_id = ? AND refresh_token = ? AND is_active = ?",
		userID, claims.SessionID, req.RefreshToken, true).First(&userSession).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token not found or expired"})
		return
	}

	var user models.User
	if err := h.db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	if user.Status != "ACTIVE" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is inactive"})
		return
	}

	// Rotate both tokens, keep the session id
	newToken, err := utils.GenerateJWT(user.ID, user.Email, userSession.SessionID, user.PlatformRole)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	newRefreshToken, err := utils.GenerateRefreshJWT(user.ID, user.Email, userSession.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token"})
		return
	}

	expireDuration := utils.GetJWTExpireDuration()
	userSession.TokenHash = newToken[:32]
	userSession.RefreshToken = newRefreshToken
	userSession.ExpiresAt = time.Now().Add(expireDuration)
	userSession.UpdatedAt = time.Now()

	if err := h.db.Save(&userSession).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update session"})
		return
	}

	response := RefreshResponse{
		Token:        newToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    time.Now().Add(expireDuration),
	}

	c.JSON(http.StatusOK, response)
}

// POST /api/auth/logout
// @Summary User logout
// @Description Deactivate the current session and drop its cached workspace context.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Logged out successfully"
// @Failure 401 {object} map[string]string "Invalid token"
// @Failure 500 {object} map[string]string "Could not logout"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userIDValue, _ := c.Get("userID")
	userID, _ := userIDValue.(uuid.UUID)
	sessionID := c.GetString("sessionID")

	if err := h.db.Model(&auth.UserSession{}).
		Where("user_id = ? AND session_id = ? AND is_active = ?", userID, sessionID, true).
		Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not logout"})
		return
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateSessionContext(userID, sessionID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
