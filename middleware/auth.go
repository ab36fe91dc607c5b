package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mist/models"
	"mist/utils"
)

// UserKey is the context key under which the authenticated identity is stored.
const UserKey = "user"

// Auth verifies the session cookie and stores the requester's identity in the
// context. Both a missing and an unverifiable token fail with 401; 403 is
// reserved for valid identities hitting someone else's data.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("token")
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(UserKey, models.AuthUser{ID: claims.UserID, Username: claims.Username})
		c.Next()
	}
}

// CurrentUser returns the authenticated identity set by Auth.
func CurrentUser(c *gin.Context) models.AuthUser {
	return c.MustGet(UserKey).(models.AuthUser)
}
