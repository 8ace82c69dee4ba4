package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// Retry is the generic "try again later" answer for persistence faults.
// The caller is expected to have logged the underlying error already.
func Retry(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR",
		"Something went wrong, please try again later")
}
