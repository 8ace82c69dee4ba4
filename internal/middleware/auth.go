package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rentora/internal/pkg/jwt"
	"rentora/internal/pkg/response"
)

// Auth validates the bearer token and puts user_id and role into the gin
// context for handlers downstream.
func Auth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			// websocket clients cannot set headers from the browser
			token = c.Query("token")
		}
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing token")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
