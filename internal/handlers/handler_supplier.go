package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
	"github.com/hubexpenses/expense_hub_app/internal/middleware"
)

// supplierHandler handles HTTP requests related to suppliers.
type supplierHandler struct {
	supplierService portssvc.SupplierSvcFacade
}

// newSupplierHandler creates a new supplierHandler.
func newSupplierHandler(ss portssvc.SupplierSvcFacade) *supplierHandler {
	return &supplierHandler{supplierService: ss}
}

// registerSupplierRoutes registers supplier routes under a hub-specific group.
func registerSupplierRoutes(rg *gin.RouterGroup, supplierService portssvc.SupplierSvcFacade) {
	h := newSupplierHandler(supplierService)

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.createSupplier)
		suppliers.GET("", h.listSuppliers)
		suppliers.GET("/:supplier_id", h.getSupplier)
		suppliers.GET("/:supplier_id/expenses", h.getSupplierExpenses)
		suppliers.PUT("/:supplier_id", h.updateSupplier)
		suppliers.DELETE("/:supplier_id", h.deleteSupplier)
	}
}

// createSupplier godoc
// @Summary Create a supplier
// @Tags suppliers
// @Accept  json
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   supplier body dto.CreateSupplierRequest true "Supplier details"
// @Success 201 {object} dto.SupplierResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /hubs/{hub_id}/suppliers [post]
func (h *supplierHandler) createSupplier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")

	var req dto.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSupplier", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), hubID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create supplier")
		return
	}

	logger.Info("Supplier created successfully", slog.String("supplier_id", supplier.SupplierID))
	c.JSON(http.StatusCreated, dto.ToSupplierResponse(supplier))
}

// listSuppliers godoc
// @Summary List suppliers
// @Tags suppliers
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   search query string false "Search in name, contact, email and tax id"
// @Param   includeInactive query bool false "Include inactive suppliers"
// @Success 200 {array} dto.SupplierResponse
// @Security BearerAuth
// @Router /hubs/{hub_id}/suppliers [get]
func (h *supplierHandler) listSuppliers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	search := c.Query("search")
	includeInactive := c.Query("includeInactive") == "true"

	suppliers, err := h.supplierService.ListSuppliers(c.Request.Context(), hubID, search, includeInactive)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list suppliers")
		return
	}

	c.JSON(http.StatusOK, dto.ToSupplierResponses(suppliers))
}

// getSupplier godoc
// @Summary Get supplier details
// @Description Returns the supplier including its running totals maintained by the expense engine.
// @Tags suppliers
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   supplier_id path string true "Supplier ID"
// @Success 200 {object} dto.SupplierResponse
// @Failure 404 {object} map[string]string "Supplier not found"
// @Security BearerAuth
// @Router /hubs/{hub_id}/suppliers/{supplier_id} [get]
func (h *supplierHandler) getSupplier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	supplierID := c.Param("supplier_id")

	supplier, err := h.supplierService.GetSupplierByID(c.Request.Context(), hubID, supplierID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve supplier")
		return
	}

	c.JSON(http.StatusOK, dto.ToSupplierResponse(supplier))
}

// getSupplierExpenses godoc
// @Summary List a supplier's recent expenses
// @Tags suppliers
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   supplier_id path string true "Supplier ID"
// @Param   limit query int false "Maximum number of expenses (default 10)"
// @Success 200 {array} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Supplier not found"
// @Security BearerAuth
// @Router /hubs/{hub_id}/suppliers/{supplier_id}/expenses [get]
func (h *supplierHandler) getSupplierExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	supplierID := c.Param("supplier_id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	expenses, err := h.supplierService.GetSupplierExpenses(c.Request.Context(), hubID, supplierID, limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list supplier expenses")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponses(expenses))
}

// updateSupplier godoc
// @Summary Update a supplier
// @Description Applies a partial update to the descriptive fields. Running totals are not editable.
// @Tags suppliers
// @Accept  json
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   supplier_id path string true "Supplier ID"
// @Param   supplier body dto.UpdateSupplierRequest true "Fields to update"
// @Success 200 {object} dto.SupplierResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Supplier not found"
// @Security BearerAuth
// @Router /hubs/{hub_id}/suppliers/{supplier_id} [put]
func (h *supplierHandler) updateSupplier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	supplierID := c.Param("supplier_id")

	var req dto.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateSupplier", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), hubID, supplierID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update supplier")
		return
	}

	logger.Info("Supplier updated successfully", slog.String("supplier_id", supplierID))
	c.JSON(http.StatusOK, dto.ToSupplierResponse(supplier))
}

// deleteSupplier godoc
// @Summary Delete a supplier
// @Tags suppliers
// @Param   hub_id path string true "Hub ID"
// @Param   supplier_id path string true "Supplier ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Supplier not found"
// @Security BearerAuth
// @Router /hubs/{hub_id}/suppliers/{supplier_id} [delete]
func (h *supplierHandler) deleteSupplier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	supplierID := c.Param("supplier_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.supplierService.DeleteSupplier(c.Request.Context(), hubID, supplierID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete supplier")
		return
	}

	logger.Info("Supplier deleted successfully", slog.String("supplier_id", supplierID))
	c.Status(http.StatusNoContent)
}
