package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
	"github.com/hubexpenses/expense_hub_app/internal/middleware"
)

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// newExpenseHandler creates a new expenseHandler.
func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

// registerExpenseRoutes registers expense routes under a hub-specific group.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:expense_id", h.getExpense)
		expenses.PUT("/:expense_id", h.updateExpense)
		expenses.DELETE("/:expense_id", h.deleteExpense)

		expenses.POST("/:expense_id/submit", h.submitExpense)
		expenses.POST("/:expense_id/approve", h.approveExpense)
		expenses.POST("/:expense_id/reject", h.rejectExpense)
		expenses.POST("/:expense_id/pay", h.markExpensePaid)
	}
}

// createExpense godoc
// @Summary Create a new expense
// @Description Creates an expense. Tax and total are computed server-side, the expense number is assigned automatically and the approval rule decides the initial status.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create expense"
// @Security BearerAuth
// @Router /hubs/{hub_id}/expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), hubID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create expense")
		return
	}

	logger.Info("Expense created successfully",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("number", expense.Number),
		slog.String("status", string(expense.Status)))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List expenses
// @Description Retrieves a filtered, token-paginated list of a hub's expenses.
// @Tags expenses
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   status query string false "Filter by status"
// @Param   categoryID query string false "Filter by category"
// @Param   supplierID query string false "Filter by supplier"
// @Param   dateFrom query string false "Filter from date (YYYY-MM-DD)"
// @Param   dateTo query string false "Filter to date (YYYY-MM-DD)"
// @Param   search query string false "Search in number, title and supplier name"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /hubs/{hub_id}/expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")

	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListExpenses", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.expenseService.ListExpenses(c.Request.Context(), hubID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list expenses")
		return
	}

	c.JSON(http.StatusOK, page)
}

// getExpense godoc
// @Summary Get expense details
// @Tags expenses
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   expense_id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /hubs/{hub_id}/expenses/{expense_id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	expenseID := c.Param("expense_id")

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), hubID, expenseID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve expense")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// updateExpense godoc
// @Summary Update an expense
// @Description Applies a partial update. Financial edits to an approved or paid expense atomically rebase the supplier totals. Rejected expenses are not editable.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   expense_id path string true "Expense ID"
// @Param   expense body dto.UpdateExpenseRequest true "Fields to update"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Not editable or concurrent update"
// @Security BearerAuth
// @Router /hubs/{hub_id}/expenses/{expense_id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	expenseID := c.Param("expense_id")

	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), hubID, expenseID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update expense")
		return
	}

	logger.Info("Expense updated successfully", slog.String("expense_id", expenseID))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// deleteExpense godoc
// @Summary Delete an expense
// @Description Soft-deletes an expense and reverses its supplier totals effect when one had been applied.
// @Tags expenses
// @Param   hub_id path string true "Hub ID"
// @Param   expense_id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /hubs/{hub_id}/expenses/{expense_id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	expenseID := c.Param("expense_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), hubID, expenseID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete expense")
		return
	}

	logger.Info("Expense deleted successfully", slog.String("expense_id", expenseID))
	c.Status(http.StatusNoContent)
}

// submitExpense godoc
// @Summary Submit a draft expense
// @Description Moves a draft into the approval workflow, applying the same threshold rule as creation.
// @Tags expenses
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   expense_id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Not a draft"
// @Security BearerAuth
// @Router /hubs/{hub_id}/expenses/{expense_id}/submit [post]
func (h *expenseHandler) submitExpense(c *gin.Context) {
	h.transition(c, "submit", h.expenseService.SubmitExpense)
}

// approveExpense godoc
// @Summary Approve a pending expense
// @Description Transitions a pending expense to approved and applies the supplier totals effect exactly once.
// @Tags expenses
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   expense_id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Not pending approval"
// @Security BearerAuth
// @Router /hubs/{hub_id}/expenses/{expense_id}/approve [post]
func (h *expenseHandler) approveExpense(c *gin.Context) {
	h.transition(c, "approve", h.expenseService.ApproveExpense)
}

// rejectExpense godoc
// @Summary Reject a pending expense
// @Description Transitions a pending expense to rejected. Rejected is terminal.
// @Tags expenses
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   expense_id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Not pending approval"
// @Security BearerAuth
// @Router /hubs/{hub_id}/expenses/{expense_id}/reject [post]
func (h *expenseHandler) rejectExpense(c *gin.Context) {
	h.transition(c, "reject", h.expenseService.RejectExpense)
}

// markExpensePaid godoc
// @Summary Mark an approved expense as paid
// @Description Transitions an approved expense to paid, recording how it was paid. Paid is terminal for the workflow.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   expense_id path string true "Expense ID"
// @Param   payment body dto.MarkExpensePaidRequest true "Payment details"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Not approved"
// @Security BearerAuth
// @Router /hubs/{hub_id}/expenses/{expense_id}/pay [post]
func (h *expenseHandler) markExpensePaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	expenseID := c.Param("expense_id")

	var req dto.MarkExpensePaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MarkExpensePaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.expenseService.MarkExpensePaid(c.Request.Context(), hubID, expenseID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to mark expense paid")
		return
	}

	logger.Info("Expense marked paid", slog.String("expense_id", expenseID))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// transition runs one of the payload-less workflow transitions.
func (h *expenseHandler) transition(c *gin.Context, action string, fn func(ctx context.Context, hubID, expenseID, userID string) (*domain.Expense, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	expenseID := c.Param("expense_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := fn(c.Request.Context(), hubID, expenseID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to "+action+" expense")
		return
	}

	logger.Info("Expense transition applied",
		slog.String("action", action),
		slog.String("expense_id", expenseID),
		slog.String("status", string(expense.Status)))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}
