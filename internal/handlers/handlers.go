// Package handlers maps HTTP requests onto the services layer. Handlers
// parse and bind only; all domain rules live in services.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
)

// respondError maps a classified service error to an HTTP status.
func respondError(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.KindInvalidState:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// callerID returns the authenticated user id set by the auth middleware.
func callerID(c *gin.Context) string {
	return c.GetString("user_id")
}
