package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poc3/api-backend/internal/services"
)

// CleanupHandler handles HTTP requests for history cleanup
type CleanupHandler struct {
	cleanupService *services.CleanupService
}

// NewCleanupHandler creates a new cleanup handler
func NewCleanupHandler(cleanupService *services.CleanupService) *CleanupHandler {
	return &CleanupHandler{
		cleanupService: cleanupService,
	}
}

// CleanupResponse represents the response from cleanup operation
type CleanupResponse struct {
	Message string `json:"message" example:"History cleanup completed successfully"`
	Deleted int64  `json:"deleted" example:"120"`
}

// CleanupHistory handles POST /admin/history/cleanup
// @Summary Prune check history
// @Description Manually delete recorded checks older than the retention period
// @Tags admin-maintenance
// @Security AdminAuth
// @Produce json
// @Success 200 {object} CleanupResponse "Cleanup completed successfully"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /admin/history/cleanup [post]
func (h *CleanupHandler) CleanupHistory(c *gin.Context) {
	deleted, err := h.cleanupService.RunCleanupNow()
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, CleanupResponse{
		Message: "History cleanup completed successfully",
		Deleted: deleted,
	})
}
