package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
)

type PgxSettingsRepository struct {
	BaseRepository
}

// newPgxSettingsRepository creates a new repository for per-hub expense settings.
func newPgxSettingsRepository(pool *pgxpool.Pool) portsrepo.SettingsRepository {
	return &PgxSettingsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettingsRepository = (*PgxSettingsRepository)(nil)

func (r *PgxSettingsRepository) FindSettingsByHub(ctx context.Context, hubID string) (*domain.ExpenseSettings, error) {
	query := `
		SELECT hub_id, require_approval, approval_threshold, default_tax_rate, currency, number_prefix, next_number_seq,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM expense_settings
		WHERE hub_id = $1;
	`
	var settings domain.ExpenseSettings
	err := r.Pool.QueryRow(ctx, query, hubID).Scan(
		&settings.HubID,
		&settings.RequireApproval,
		&settings.ApprovalThreshold,
		&settings.DefaultTaxRate,
		&settings.Currency,
		&settings.NumberPrefix,
		&settings.NextNumberSeq,
		&settings.CreatedAt,
		&settings.CreatedBy,
		&settings.LastUpdatedAt,
		&settings.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settings for hub %s: %w", hubID, err)
	}
	return &settings, nil
}

func (r *PgxSettingsRepository) SaveSettings(ctx context.Context, settings domain.ExpenseSettings) error {
	query := `
		INSERT INTO expense_settings (hub_id, require_approval, approval_threshold, default_tax_rate, currency, number_prefix, next_number_seq,
		                              created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		settings.HubID,
		settings.RequireApproval,
		settings.ApprovalThreshold,
		settings.DefaultTaxRate,
		settings.Currency,
		settings.NumberPrefix,
		settings.NextNumberSeq,
		settings.CreatedAt,
		settings.CreatedBy,
		settings.LastUpdatedAt,
		settings.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settings for hub %s: %w", settings.HubID, mapWriteError(err))
	}
	return nil
}

// UpdateSettings persists the editable settings fields. next_number_seq is
// intentionally absent; it only moves inside expense insert transactions.
func (r *PgxSettingsRepository) UpdateSettings(ctx context.Context, settings domain.ExpenseSettings) error {
	query := `
		UPDATE expense_settings
		SET require_approval = $2,
		    approval_threshold = $3,
		    default_tax_rate = $4,
		    currency = $5,
		    number_prefix = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE hub_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		settings.HubID,
		settings.RequireApproval,
		settings.ApprovalThreshold,
		settings.DefaultTaxRate,
		settings.Currency,
		settings.NumberPrefix,
		settings.LastUpdatedAt,
		settings.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings for hub %s: %w", settings.HubID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
