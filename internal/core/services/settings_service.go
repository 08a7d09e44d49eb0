package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

var one = decimal.NewFromInt(1)

// settingsService manages per-hub expense settings.
type settingsService struct {
	BaseService
	settingsRepo portsrepo.SettingsRepository
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settingsRepo portsrepo.SettingsRepository) portssvc.SettingsSvcFacade {
	return &settingsService{settingsRepo: settingsRepo}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetSettings returns the hub's settings, creating the default row on first
// access so that every hub always has a numbering sequence to draw from.
func (s *settingsService) GetSettings(ctx context.Context, hubID string) (*domain.ExpenseSettings, error) {
	settings, err := s.settingsRepo.FindSettingsByHub(ctx, hubID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load settings for hub %s: %w", hubID, err)
	}

	defaults := domain.DefaultSettings(hubID)
	now := time.Now().UTC()
	defaults.CreatedAt = now
	defaults.LastUpdatedAt = now

	if err := s.settingsRepo.SaveSettings(ctx, defaults); err != nil {
		// A concurrent first access may have created the row already.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.settingsRepo.FindSettingsByHub(ctx, hubID)
		}
		return nil, fmt.Errorf("failed to create default settings for hub %s: %w", hubID, err)
	}

	s.LogInfo(ctx, "Created default expense settings", "hub_id", hubID)
	return &defaults, nil
}

// UpdateSettings applies a partial settings update after validation. The
// number sequence is never writable here; it belongs to the expense engine.
func (s *settingsService) UpdateSettings(ctx context.Context, hubID string, req dto.UpdateSettingsRequest, requestingUserID string) (*domain.ExpenseSettings, error) {
	settings, err := s.GetSettings(ctx, hubID)
	if err != nil {
		return nil, err
	}

	if req.RequireApproval != nil {
		settings.RequireApproval = *req.RequireApproval
	}
	if req.ApprovalThreshold != nil {
		if req.ApprovalThreshold.IsNegative() {
			return nil, fmt.Errorf("%w: approval threshold must not be negative", apperrors.ErrValidation)
		}
		settings.ApprovalThreshold = *req.ApprovalThreshold
	}
	if req.DefaultTaxRate != nil {
		if req.DefaultTaxRate.IsNegative() || req.DefaultTaxRate.GreaterThan(one) {
			return nil, fmt.Errorf("%w: default tax rate must be between 0 and 1", apperrors.ErrValidation)
		}
		settings.DefaultTaxRate = *req.DefaultTaxRate
	}
	if req.Currency != nil {
		settings.Currency = *req.Currency
	}
	if req.NumberPrefix != nil {
		settings.NumberPrefix = *req.NumberPrefix
	}

	settings.LastUpdatedAt = time.Now().UTC()
	settings.LastUpdatedBy = requestingUserID

	if err := s.settingsRepo.UpdateSettings(ctx, *settings); err != nil {
		s.LogError(ctx, err, "Failed to update settings", "hub_id", hubID)
		return nil, fmt.Errorf("failed to update settings for hub %s: %w", hubID, err)
	}

	return settings, nil
}
