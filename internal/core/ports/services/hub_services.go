package services

import (
	"context"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// HubSvcFacade defines operations on hubs, the root aggregate owning all
// expense data.
type HubSvcFacade interface {
	CreateHub(ctx context.Context, req dto.CreateHubRequest, creatorUserID string) (*domain.Hub, error)
	GetHubByID(ctx context.Context, hubID string) (*domain.Hub, error)
	ListHubs(ctx context.Context) ([]domain.Hub, error)
	UpdateHub(ctx context.Context, hubID string, req dto.UpdateHubRequest, requestingUserID string) (*domain.Hub, error)
}
