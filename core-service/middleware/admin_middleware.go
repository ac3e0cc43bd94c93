package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tenanthub-backend/shared/utils/permission"
)

// RequireSuperAdmin gates the /api/admin surface. 401 without an
// authenticated identity, 403 for everyone who is not a platform super
// admin. The platform role is re-read from the database on every
// request, the JWT claim is only a client hint.
func RequireSuperAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		isSuperAdmin, err := permission.IsSuperAdmin(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify platform role"})
			c.Abort()
			return
		}
		if !isSuperAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Super admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
