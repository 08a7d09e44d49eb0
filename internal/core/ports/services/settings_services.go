package services

import (
	"context"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// SettingsSvcFacade defines operations on per-hub expense settings.
type SettingsSvcFacade interface {
	// GetSettings returns the hub's settings, creating the default row on
	// first access.
	GetSettings(ctx context.Context, hubID string) (*domain.ExpenseSettings, error)

	// UpdateSettings applies a partial settings update after validation.
	UpdateSettings(ctx context.Context, hubID string, req dto.UpdateSettingsRequest, requestingUserID string) (*domain.ExpenseSettings, error)
}
