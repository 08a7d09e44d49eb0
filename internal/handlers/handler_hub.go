package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
	"github.com/hubexpenses/expense_hub_app/internal/middleware"
)

// hubHandler handles HTTP requests related to hubs.
type hubHandler struct {
	hubService portssvc.HubSvcFacade
}

// newHubHandler creates a new hubHandler.
func newHubHandler(hs portssvc.HubSvcFacade) *hubHandler {
	return &hubHandler{hubService: hs}
}

// registerHubRoutes registers hub routes and nests all hub-scoped entity
// routes under /hubs/:hub_id.
func registerHubRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newHubHandler(services.Hub)

	hubsTopLevel := rg.Group("/hubs")
	{
		hubsTopLevel.POST("", h.createHub)
		hubsTopLevel.GET("", h.listHubs)
	}

	hubSpecific := rg.Group("/hubs/:hub_id")
	{
		hubSpecific.GET("", h.getHub)
		hubSpecific.PUT("", h.updateHub)

		registerExpenseRoutes(hubSpecific, services.Expense)
		registerRecurringRoutes(hubSpecific, services.Recurring)
		registerCategoryRoutes(hubSpecific, services.Category)
		registerSupplierRoutes(hubSpecific, services.Supplier)
		registerSettingsRoutes(hubSpecific, services.Settings)
		registerReportingRoutes(hubSpecific, services.Reporting)
	}
}

// createHub godoc
// @Summary Create a new hub
// @Description Creates a new hub owning its own expense data.
// @Tags hubs
// @Accept  json
// @Produce  json
// @Param   hub body dto.CreateHubRequest true "Hub details"
// @Success 201 {object} dto.HubResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create hub"
// @Security BearerAuth
// @Router /hubs [post]
func (h *hubHandler) createHub(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateHubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateHub", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	hub, err := h.hubService.CreateHub(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create hub")
		return
	}

	logger.Info("Hub created successfully", slog.String("hub_id", hub.HubID))
	c.JSON(http.StatusCreated, dto.ToHubResponse(hub))
}

// listHubs godoc
// @Summary List hubs
// @Tags hubs
// @Produce  json
// @Success 200 {array} dto.HubResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /hubs [get]
func (h *hubHandler) listHubs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	hubs, err := h.hubService.ListHubs(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list hubs")
		return
	}

	responses := make([]dto.HubResponse, len(hubs))
	for i := range hubs {
		responses[i] = dto.ToHubResponse(&hubs[i])
	}
	c.JSON(http.StatusOK, responses)
}

// updateHub godoc
// @Summary Update a hub
// @Description Applies a partial update to a hub's name, description or active flag.
// @Tags hubs
// @Accept  json
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Param   hub body dto.UpdateHubRequest true "Fields to update"
// @Success 200 {object} dto.HubResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Hub not found"
// @Security BearerAuth
// @Router /hubs/{hub_id} [put]
func (h *hubHandler) updateHub(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")

	var req dto.UpdateHubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateHub", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	hub, err := h.hubService.UpdateHub(c.Request.Context(), hubID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update hub")
		return
	}

	logger.Info("Hub updated successfully", slog.String("hub_id", hubID))
	c.JSON(http.StatusOK, dto.ToHubResponse(hub))
}

// getHub godoc
// @Summary Get hub details
// @Tags hubs
// @Produce  json
// @Param   hub_id path string true "Hub ID"
// @Success 200 {object} dto.HubResponse
// @Failure 404 {object} map[string]string "Hub not found"
// @Security BearerAuth
// @Router /hubs/{hub_id} [get]
func (h *hubHandler) getHub(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hubID := c.Param("hub_id")

	hub, err := h.hubService.GetHubByID(c.Request.Context(), hubID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve hub")
		return
	}

	c.JSON(http.StatusOK, dto.ToHubResponse(hub))
}
