package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware rejects requests without a live admin session cookie.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Missing session token"})
			c.Abort()
			return
		}

		if !sessions.valid(token) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired session token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
