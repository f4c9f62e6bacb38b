package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poc3/api-backend/internal/models"
)

// HealthReporter produces a liveness payload
type HealthReporter interface {
	Health() models.HealthStatus
}

// HealthHandler handles GET /health for any binary
func HealthHandler(reporter HealthReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, reporter.Health())
	}
}
