package middleware

import (
	"net/http"
	"strings"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if database.IsTokenBlacklisted(utils.GetJTI(claims)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			c.Abort()
			return
		}

		// Soft-deleted users are excluded by the default scope.
		var user models.User
		if err := database.DB.Select("id", "role", "is_blocked").First(&user, "id = ?", claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found or inactive"})
			c.Abort()
			return
		}
		if user.IsBlocked {
			c.JSON(http.StatusForbidden, gin.H{"error": "Your account has been blocked"})
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("role", string(user.Role))
		c.Set("claims", claims)
		c.Next()
	}
}

// OptionalAuthMiddleware sets "userId" when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil || database.IsTokenBlacklisted(utils.GetJTI(claims)) {
			c.Next()
			return
		}

		var user models.User
		if err := database.DB.Select("id", "role", "is_blocked").First(&user, "id = ?", claims.UserID).Error; err != nil || user.IsBlocked {
			c.Next()
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("role", string(user.Role))
		c.Next()
	}
}
