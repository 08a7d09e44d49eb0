package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// hubService provides operations on hubs, the root aggregate.
type hubService struct {
	BaseService
	hubRepo portsrepo.HubRepository
}

// NewHubService creates a new HubService.
func NewHubService(hubRepo portsrepo.HubRepository) portssvc.HubSvcFacade {
	return &hubService{hubRepo: hubRepo}
}

var _ portssvc.HubSvcFacade = (*hubService)(nil)

func (s *hubService) CreateHub(ctx context.Context, req dto.CreateHubRequest, creatorUserID string) (*domain.Hub, error) {
	now := time.Now().UTC()
	hub := domain.Hub{
		HubID:       uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.hubRepo.SaveHub(ctx, hub); err != nil {
		s.LogError(ctx, err, "Failed to save hub")
		return nil, fmt.Errorf("failed to create hub: %w", err)
	}

	return &hub, nil
}

func (s *hubService) GetHubByID(ctx context.Context, hubID string) (*domain.Hub, error) {
	hub, err := s.hubRepo.FindHubByID(ctx, hubID)
	if err != nil {
		return nil, err
	}
	return hub, nil
}

func (s *hubService) UpdateHub(ctx context.Context, hubID string, req dto.UpdateHubRequest, requestingUserID string) (*domain.Hub, error) {
	hub, err := s.hubRepo.FindHubByID(ctx, hubID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		hub.Name = *req.Name
	}
	if req.Description != nil {
		hub.Description = *req.Description
	}
	if req.IsActive != nil {
		hub.IsActive = *req.IsActive
	}

	hub.LastUpdatedAt = time.Now().UTC()
	hub.LastUpdatedBy = requestingUserID

	if err := s.hubRepo.UpdateHub(ctx, *hub); err != nil {
		s.LogError(ctx, err, "Failed to update hub", "hub_id", hubID)
		return nil, fmt.Errorf("failed to update hub %s: %w", hubID, err)
	}

	return hub, nil
}

func (s *hubService) ListHubs(ctx context.Context) ([]domain.Hub, error) {
	hubs, err := s.hubRepo.ListHubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hubs: %w", err)
	}
	if hubs == nil {
		hubs = []domain.Hub{}
	}
	return hubs, nil
}
