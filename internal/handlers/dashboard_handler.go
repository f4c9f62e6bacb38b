package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/poc3/api-backend/internal/models"
	"github.com/poc3/api-backend/internal/repositories"
	"github.com/poc3/api-backend/internal/services"
	"github.com/poc3/api-backend/internal/templates"
	"github.com/poc3/api-backend/internal/validators"
)

// TargetsResponse lists the configured poll targets
type TargetsResponse struct {
	Targets []validators.Target `json:"targets"`
}

// HistoryResponse wraps a page of persisted checks
type HistoryResponse struct {
	Count  int                   `json:"count" example:"4"`
	Checks []models.ServiceCheck `json:"checks"`
}

// DashboardHandler handles the status dashboard routes
type DashboardHandler struct {
	poller         *services.Poller
	monitor        *services.MonitorService
	repo           *repositories.ServiceCheckRepository
	renderer       *templates.TemplateRenderer
	historyLimit   int
	refreshSeconds int
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	poller *services.Poller,
	monitor *services.MonitorService,
	repo *repositories.ServiceCheckRepository,
	renderer *templates.TemplateRenderer,
	historyLimit int,
	refreshSeconds int,
) *DashboardHandler {
	if historyLimit <= 0 || historyLimit > repositories.MaxHistoryLimit {
		historyLimit = repositories.MaxHistoryLimit
	}
	if refreshSeconds <= 0 {
		refreshSeconds = 30
	}

	return &DashboardHandler{
		poller:         poller,
		monitor:        monitor,
		repo:           repo,
		renderer:       renderer,
		historyLimit:   historyLimit,
		refreshSeconds: refreshSeconds,
	}
}

// Page handles GET / and renders the latest poll cycle as HTML
func (h *DashboardHandler) Page(c *gin.Context) {
	report, _ := h.monitor.Latest()

	var buf bytes.Buffer
	err := h.renderer.RenderDashboard(&buf, templates.DashboardData{
		Report:         report,
		Healthy:        report.Healthy(),
		RefreshSeconds: h.refreshSeconds,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Targets handles GET /api/targets
// @Summary List poll targets
// @Tags dashboard
// @Produce json
// @Success 200 {object} TargetsResponse
// @Router /api/targets [get]
func (h *DashboardHandler) Targets(c *gin.Context) {
	c.JSON(http.StatusOK, TargetsResponse{Targets: h.poller.Targets()})
}

// Status handles GET /api/status
// @Summary Poll all targets now
// @Description Checks every target concurrently, records the cycle and returns one result per target in configured order
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.PollReport
// @Router /api/status [get]
func (h *DashboardHandler) Status(c *gin.Context) {
	report, err := h.monitor.RunCycle(c.Request.Context())
	c.JSON(http.StatusOK, report)

	// The report is still valid when it could not be recorded
	if err != nil {
		_ = c.Error(err)
	}
}

// History handles GET /api/status/history
// @Summary Recorded checks
// @Description Persisted checks, newest first
// @Tags dashboard
// @Produce json
// @Param service query string false "Target name"
// @Param limit query int false "Maximum number of checks (1-1000)"
// @Param since query string false "Only checks at or after this UTC timestamp, e.g. 2025-11-10T14:30:00Z"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} models.ErrorResponse "Invalid query parameter"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/status/history [get]
func (h *DashboardHandler) History(c *gin.Context) {
	filter := repositories.HistoryFilter{
		Service: c.Query("service"),
		Limit:   h.historyLimit,
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > repositories.MaxHistoryLimit {
			badRequest(c, fmt.Sprintf("limit must be an integer between 1 and %d", repositories.MaxHistoryLimit))
			return
		}
		filter.Limit = limit
	}

	if raw := c.Query("since"); raw != "" {
		since, err := validators.ParseUTCTimestamp(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		filter.Since = since
	}

	checks, err := h.repo.List(filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{Count: len(checks), Checks: checks})
}

// Greet handles GET /api/greet/:target
// @Summary Call one target's hello endpoint
// @Description Proxies GET /api/hello?name= to the named target. Transport failures are reported in the body.
// @Tags dashboard
// @Produce json
// @Param target path string true "Target name"
// @Param name query string false "Name to greet"
// @Success 200 {object} models.GreetResult
// @Failure 404 {object} models.ErrorResponse "Unknown target"
// @Router /api/greet/{target} [get]
func (h *DashboardHandler) Greet(c *gin.Context) {
	result, err := h.poller.Greet(c.Request.Context(), c.Param("target"), c.Query("name"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownTarget) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Not Found",
				Message: err.Error(),
				Path:    c.Request.URL.Path,
			})
			return
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "Bad Request",
		Message: message,
	})
}
