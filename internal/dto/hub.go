package dto

import "github.com/hubexpenses/expense_hub_app/internal/core/domain"

// CreateHubRequest defines the payload for creating a hub.
type CreateHubRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// UpdateHubRequest defines the payload for editing a hub. Only set fields
// are applied.
type UpdateHubRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// HubResponse defines the data returned for a hub.
type HubResponse struct {
	HubID       string `json:"hubID"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// ToHubResponse converts a domain hub to its response DTO.
func ToHubResponse(h *domain.Hub) HubResponse {
	return HubResponse{
		HubID:       h.HubID,
		Name:        h.Name,
		Description: h.Description,
		IsActive:    h.IsActive,
	}
}
