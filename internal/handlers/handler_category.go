package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
	"github.com/hubexpenses/expense_hub_app/internal/middleware"
)

// categoryHandler handles HTTP requests related to expense categories.
type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

// newCategoryHandler creates a new categoryHandler.
func newCategoryHandler(cs portssvc.CategorySvcFacade) *categoryHandler {
	return &categoryHandler{categoryService: cs}
}

// registerCategoryRoutes registers category routes under a hub-specific group.
func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := newCategoryHandler(categoryService)

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.GET("/:category_id", h.getCategory)
		categories.GET("/:category_id/path", h.getCategoryPath)
		categories.PUT("/:category_id", h.updateCategory)
		categories.DELETE("/:category_id", h.deleteCategory)
	}
}

// createCategory godoc
// @Summary Create an expense category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /hubs/{hub_id}/categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), hubID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create category")
		return
	}

	logger.Info("Category created successfully", slog.String("category_id", category.CategoryID))
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// listCategories godoc
// @Summary List expense categories
// @Tags categories
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   includeInactive query bool false "Include inactive categories"
// @Success 200 {array} dto.CategoryResponse
// @Security BearerAuth
// @Router /hubs/{hub_id}/categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	includeInactive := c.Query("includeInactive") == "true"

	categories, err := h.categoryService.ListCategories(c.Request.Context(), hubID, includeInactive)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list categories")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponses(categories))
}

// getCategory godoc
// @Summary Get category details
// @Tags categories
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   category_id path string true "Category ID"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /hubs/{hub_id}/categories/{category_id} [get]
func (h *categoryHandler) getCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	categoryID := c.Param("category_id")

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), hubID, categoryID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve category")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// getCategoryPath godoc
// @Summary Get a category's ancestor chain
// @Description Returns the chain of ancestors root-first, ending with the category itself.
// @Tags categories
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   category_id path string true "Category ID"
// @Success 200 {array} dto.CategoryResponse
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /hubs/{hub_id}/categories/{category_id}/path [get]
func (h *categoryHandler) getCategoryPath(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	categoryID := c.Param("category_id")

	path, err := h.categoryService.GetCategoryPath(c.Request.Context(), hubID, categoryID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve category path")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponses(path))
}

// updateCategory godoc
// @Summary Update an expense category
// @Description Applies a partial update. Parent reassignments that would create a cycle are rejected.
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   category_id path string true "Category ID"
// @Param   category body dto.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid input or cyclic parent"
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /hubs/{hub_id}/categories/{category_id} [put]
func (h *categoryHandler) updateCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	categoryID := c.Param("category_id")

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), hubID, categoryID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update category")
		return
	}

	logger.Info("Category updated successfully", slog.String("category_id", categoryID))
	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// deleteCategory godoc
// @Summary Delete an expense category
// @Description Soft-deletes a category. Categories with child categories or referencing expenses are rejected with 409.
// @Tags categories
// @Param   hub_id path string true "Hub ID"
// @Param   category_id path string true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 409 {object} map[string]string "Category has dependents"
// @Security BearerAuth
// @Router /hubs/{hub_id}/categories/{category_id} [delete]
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")
	categoryID := c.Param("category_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), hubID, categoryID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete category")
		return
	}

	logger.Info("Category deleted successfully", slog.String("category_id", categoryID))
	c.Status(http.StatusNoContent)
}
