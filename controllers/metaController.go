package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civicsync-dashboard/models"
)

// GetLabels serves the badge tables for categories, priorities and statuses
func GetLabels(c *gin.Context) {
	c.JSON(http.StatusOK, models.Labels())
}

// Ping is the liveness probe
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
