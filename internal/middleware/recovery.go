package middleware

import (
	"net/http"
	"runtime/debug"

	"taskboard/backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// RecoveryWithLog turns a panic into a logged 500 with a generic body.
func RecoveryWithLog() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Errorf("panic serving %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, recovered, debug.Stack())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
