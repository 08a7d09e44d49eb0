package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
	"github.com/hubexpenses/expense_hub_app/internal/middleware"
)

// recurringHandler handles HTTP requests related to recurring expense templates.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

// newRecurringHandler creates a new recurringHandler.
func newRecurringHandler(rs portssvc.RecurringSvcFacade) *recurringHandler {
	return &recurringHandler{recurringService: rs}
}

// registerRecurringRoutes registers template routes under a hub-specific group.
func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(recurringService)

	recurring := rg.Group("/recurring-expenses")
	{
		recurring.POST("", h.createRecurringExpense)
		recurring.GET("", h.listRecurringExpenses)
		recurring.GET("/due", h.listDueManual)
		recurring.GET("/:recurring_id", h.getRecurringExpense)
		recurring.PUT("/:recurring_id", h.updateRecurringExpense)
		recurring.DELETE("/:recurring_id", h.deleteRecurringExpense)
		recurring.POST("/:recurring_id/generate", h.generateExpense)
	}
}

// registerSchedulerRoutes registers the scheduler trigger. It sits outside
// the hub scope because one tick covers every hub.
func registerSchedulerRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(recurringService)
	rg.POST("/scheduler/tick", h.tick)
}

// createRecurringExpense godoc
// @Summary Create a recurring expense template
// @Tags recurring-expenses
// @Accept  json
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   template body dto.CreateRecurringExpenseRequest true "Template details"
// @Success 201 {object} dto.RecurringExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /hubs/{hub_id}/recurring-expenses [post]
func (h *recurringHandler) createRecurringExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")

	var req dto.CreateRecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRecurringExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recurring, err := h.recurringService.CreateRecurringExpense(c.Request.Context(), hubID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create recurring expense")
		return
	}

	logger.Info("Recurring expense created successfully", slog.String("recurring_id", recurring.RecurringExpenseID))
	c.JSON(http.StatusCreated, dto.ToRecurringExpenseResponse(recurring))
}

// listRecurringExpenses godoc
// @Summary List recurring expense templates
// @Tags recurring-expenses
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   includeInactive query bool false "Include inactive templates"
// @Success 200 {array} dto.RecurringExpenseResponse
// @Security BearerAuth
// @Router /hubs/{hub_id}/recurring-expenses [get]
func (h *recurringHandler) listRecurringExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	includeInactive := c.Query("includeInactive") == "true"

	templates, err := h.recurringService.ListRecurringExpenses(c.Request.Context(), hubID, includeInactive)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list recurring expenses")
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringExpenseResponses(templates))
}

// listDueManual godoc
// @Summary List due templates requiring manual generation
// @Description Returns active templates that are due but have autoCreate disabled.
// @Tags recurring-expenses
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Success 200 {array} dto.RecurringExpenseResponse
// @Security BearerAuth
// @Router /hubs/{hub_id}/recurring-expenses/due [get]
func (h *recurringHandler) listDueManual(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")

	templates, err := h.recurringService.ListDueManual(c.Request.Context(), hubID, time.Now().UTC())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list due recurring expenses")
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringExpenseResponses(templates))
}

// getRecurringExpense godoc
// @Summary Get a recurring expense template
// @Tags recurring-expenses
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   recurring_id path string true "Template ID"
// @Success 200 {object} dto.RecurringExpenseResponse
// @Failure 404 {object} map[string]string "Template not found"
// @Security BearerAuth
// @Router /hubs/{hub_id}/recurring-expenses/{recurring_id} [get]
func (h *recurringHandler) getRecurringExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	recurringID := c.Param("recurring_id")

	recurring, err := h.recurringService.GetRecurringExpenseByID(c.Request.Context(), hubID, recurringID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve recurring expense")
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringExpenseResponse(recurring))
}

// updateRecurringExpense godoc
// @Summary Update a recurring expense template
// @Tags recurring-expenses
// @Accept  json
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   recurring_id path string true "Template ID"
// @Param   template body dto.UpdateRecurringExpenseRequest true "Fields to update"
// @Success 200 {object} dto.RecurringExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Template not found"
// @Security BearerAuth
// @Router /hubs/{hub_id}/recurring-expenses/{recurring_id} [put]
func (h *recurringHandler) updateRecurringExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	recurringID := c.Param("recurring_id")

	var req dto.UpdateRecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRecurringExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recurring, err := h.recurringService.UpdateRecurringExpense(c.Request.Context(), hubID, recurringID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update recurring expense")
		return
	}

	logger.Info("Recurring expense updated successfully", slog.String("recurring_id", recurringID))
	c.JSON(http.StatusOK, dto.ToRecurringExpenseResponse(recurring))
}

// deleteRecurringExpense godoc
// @Summary Delete a recurring expense template
// @Tags recurring-expenses
// @Param   hub_id path string true "Hub ID"
// @Param   recurring_id path string true "Template ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Template not found"
// @Security BearerAuth
// @Router /hubs/{hub_id}/recurring-expenses/{recurring_id} [delete]
func (h *recurringHandler) deleteRecurringExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	recurringID := c.Param("recurring_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.recurringService.DeleteRecurringExpense(c.Request.Context(), hubID, recurringID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete recurring expense")
		return
	}

	logger.Info("Recurring expense deleted successfully", slog.String("recurring_id", recurringID))
	c.Status(http.StatusNoContent)
}

// generateExpense godoc
// @Summary Generate an expense from a template now
// @Description Creates one expense from the template regardless of the autoCreate flag and advances the schedule by one period.
// @Tags recurring-expenses
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   recurring_id path string true "Template ID"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 409 {object} map[string]string "Concurrent generation"
// @Security BearerAuth
// @Router /hubs/{hub_id}/recurring-expenses/{recurring_id}/generate [post]
func (h *recurringHandler) generateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	recurringID := c.Param("recurring_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.recurringService.GenerateExpense(c.Request.Context(), hubID, recurringID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate expense")
		return
	}

	logger.Info("Expense generated from recurring template",
		slog.String("recurring_id", recurringID),
		slog.String("expense_id", expense.ExpenseID))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// tick godoc
// @Summary Run the recurrence scheduler once
// @Description Generates expenses for every due auto-create template across all hubs and advances their schedules. The optional asOf parameter overrides the evaluation date.
// @Tags scheduler
// @Produce  json
// @Param   asOf query string false "Evaluation date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TickResult
// @Failure 400 {object} map[string]string "Invalid asOf"
// @Security BearerAuth
// @Router /scheduler/tick [post]
func (h *recurringHandler) tick(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	result, err := h.recurringService.Tick(c.Request.Context(), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Scheduler tick failed")
		return
	}

	c.JSON(http.StatusOK, result)
}
