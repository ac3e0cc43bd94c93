package utils

import (
	"testing"

	"tenanthub-backend/shared/database/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateJWT(userID, "user@example.com", "session-1", models.PlatformRoleSuperAdmin)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, string(models.PlatformRoleSuperAdmin), claims.PlatformRole)
	assert.False(t, IsTokenExpired(token))
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "user@example.com", "session-1", models.PlatformRoleUser)
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	_, err = ValidateJWT("not.a.token")
	assert.Error(t, err)

	_, err = ValidateJWT("")
	assert.Error(t, err)
}

func TestGenerateAndValidateRefreshJWT(t *testing.T) {
	userID := uuid.New()

	refresh, err := GenerateRefreshJWT(userID, "user@example.com", "session-1")
	require.NoError(t, err)

	claims, err := ValidateRefreshJWT(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID)
	// Refresh tokens carry no platform role.
	assert.Empty(t, claims.PlatformRole)
}

func TestIsTokenExpiredForGarbage(t *testing.T) {
	assert.True(t, IsTokenExpired("garbage"))
}
