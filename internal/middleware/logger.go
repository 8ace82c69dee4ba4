package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rentora/internal/pkg/logger"
	"rentora/internal/pkg/response"
)

// RequestLogger logs one line per request with latency and status.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		)
	}
}

// Recovery turns panics into a generic retry-later response instead of a
// dropped connection.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", "panic", r, "path", c.Request.URL.Path)
				if !c.Writer.Written() {
					response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR",
						"Something went wrong, please try again later")
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
