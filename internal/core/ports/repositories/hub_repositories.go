package repositories

import (
	"context"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
)

// HubRepository defines persistence operations for hubs.
type HubRepository interface {
	SaveHub(ctx context.Context, hub domain.Hub) error
	FindHubByID(ctx context.Context, hubID string) (*domain.Hub, error)
	ListHubs(ctx context.Context) ([]domain.Hub, error)
	UpdateHub(ctx context.Context, hub domain.Hub) error
}
