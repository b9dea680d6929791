package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"civicsync-dashboard/query"
	"civicsync-dashboard/services"
	"civicsync-dashboard/session"
)

// respondError writes the JSON error body for err.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, query.ErrIssueNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
	case errors.Is(err, query.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Issue was changed by someone else, reload and retry"})
	case errors.Is(err, query.ErrTransitionNotAllowed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
	default:
		_ = c.Error(err)
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
