package repositories

import (
	"context"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
)

// SettingsRepository defines persistence operations for per-hub expense settings.
type SettingsRepository interface {
	// FindSettingsByHub retrieves the settings row for a hub.
	// Returns apperrors.ErrNotFound when the hub has no settings yet.
	FindSettingsByHub(ctx context.Context, hubID string) (*domain.ExpenseSettings, error)

	// SaveSettings inserts a settings row for a hub.
	SaveSettings(ctx context.Context, settings domain.ExpenseSettings) error

	// UpdateSettings persists changed settings fields. The number sequence is
	// deliberately excluded: it is only advanced by the expense repository
	// inside expense creation transactions.
	UpdateSettings(ctx context.Context, settings domain.ExpenseSettings) error
}
