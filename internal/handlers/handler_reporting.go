package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/middleware"
)

// reportingHandler handles HTTP requests for the dashboard and reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers reporting routes under a hub-specific group.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/dashboard", h.getDashboard)
		reports.GET("/period", h.getPeriodReport)
	}
}

// getDashboard godoc
// @Summary Get the expenses dashboard
// @Description Returns the current month totals, pending approvals, category breakdown, upcoming recurring templates and recent expenses.
// @Tags reports
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Success 200 {object} domain.DashboardSummary
// @Security BearerAuth
// @Router /hubs/{hub_id}/reports/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")

	summary, err := h.reportingService.GetDashboard(c.Request.Context(), hubID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getPeriodReport godoc
// @Summary Get a period expense report
// @Description Aggregates the hub's expenses between from and to inclusive: totals, status breakdown, per-category and per-supplier spend and a monthly trend.
// @Tags reports
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   from query string true "Period start (YYYY-MM-DD)"
// @Param   to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} domain.PeriodReport
// @Failure 400 {object} map[string]string "Invalid period"
// @Security BearerAuth
// @Router /hubs/{hub_id}/reports/period [get]
func (h *reportingHandler) getPeriodReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}

	report, err := h.reportingService.GetPeriodReport(c.Request.Context(), hubID, from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build period report")
		return
	}

	c.JSON(http.StatusOK, report)
}
