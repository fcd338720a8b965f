package middleware

import (
	"net/http"                 // HTTP status codes
	"riverview/internal/utils" // JWT utility functions
	"strings"                  // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// UserIDKey is the gin context key the verified user ID is stored under
const UserIDKey = "userID"

// JWTAuthMiddleware validates bearer tokens and stores the user ID in the
// request context. The token is accepted either raw in the Authorization
// header (the shape existing clients send) or with a standard "Bearer "
// prefix.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// No credential presented at all
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Token required"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Accept both raw and prefixed tokens
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// Distinguish expiry from a bad signature or malformed token
			if utils.IsExpired(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		c.Set(UserIDKey, claims.UserID) // Store userID in context
		c.Next()                        // Proceed to the next handler
	}
}

// UserID pulls the verified user ID out of the gin context
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
