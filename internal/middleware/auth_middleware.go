package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabbirahmed/eventhub-backend/internal/helpers"
	"github.com/sabbirahmed/eventhub-backend/internal/models"
	"github.com/sabbirahmed/eventhub-backend/internal/token"
)

// JWTAuthMiddleware verifies the Bearer access token, re-resolves the user
// and rejects deactivated accounts, then exposes the actor's identity via
// the userID and userEmail context keys.
func JWTAuthMiddleware(db *gorm.DB, accessSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Missing Authorization header.")
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid token format.")
			c.Abort()
			return
		}

		claims, err := token.Verify(strings.TrimPrefix(authHeader, "Bearer "), accessSecret)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid token claims.")
			c.Abort()
			return
		}

		var user models.User
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "User not found.")
			c.Abort()
			return
		}
		if !user.IsActive {
			helpers.RespondWithError(c, http.StatusForbidden, "Your account has been deactivated.")
			c.Abort()
			return
		}

		c.Set("userID", user.ID)
		c.Set("userEmail", user.Email)
		c.Next()
	}
}
