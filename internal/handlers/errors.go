package handlers

import (
	"net/http"

	"taskboard/backend/internal/errs"
	"taskboard/backend/internal/logger"
	"taskboard/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// StatusFor maps an error kind onto its HTTP status.
func StatusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindAuthentication, errs.KindUnauthorized:
		return http.StatusUnauthorized
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Errorf("%s %s failed (request %s): %v", c.Request.Method, c.Request.URL.Path, middleware.GetRequestID(c), err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": errs.Message(err)})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
