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

type PgxHubRepository struct {
	BaseRepository
}

// newPgxHubRepository creates a new repository for hub data.
func newPgxHubRepository(pool *pgxpool.Pool) portsrepo.HubRepository {
	return &PgxHubRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.HubRepository = (*PgxHubRepository)(nil)

func (r *PgxHubRepository) SaveHub(ctx context.Context, hub domain.Hub) error {
	query := `
		INSERT INTO hubs (hub_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		hub.HubID,
		hub.Name,
		hub.Description,
		hub.IsActive,
		hub.CreatedAt,
		hub.CreatedBy,
		hub.LastUpdatedAt,
		hub.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert hub %s: %w", hub.HubID, mapWriteError(err))
	}
	return nil
}

func (r *PgxHubRepository) FindHubByID(ctx context.Context, hubID string) (*domain.Hub, error) {
	query := `
		SELECT hub_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM hubs
		WHERE hub_id = $1;
	`
	var hub domain.Hub
	err := r.Pool.QueryRow(ctx, query, hubID).Scan(
		&hub.HubID,
		&hub.Name,
		&hub.Description,
		&hub.IsActive,
		&hub.CreatedAt,
		&hub.CreatedBy,
		&hub.LastUpdatedAt,
		&hub.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find hub by ID %s: %w", hubID, err)
	}
	return &hub, nil
}

func (r *PgxHubRepository) ListHubs(ctx context.Context) ([]domain.Hub, error) {
	query := `
		SELECT hub_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM hubs
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query hubs: %w", err)
	}
	defer rows.Close()

	hubs := []domain.Hub{}
	for rows.Next() {
		var hub domain.Hub
		if err := rows.Scan(
			&hub.HubID,
			&hub.Name,
			&hub.Description,
			&hub.IsActive,
			&hub.CreatedAt,
			&hub.CreatedBy,
			&hub.LastUpdatedAt,
			&hub.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan hub row: %w", err)
		}
		hubs = append(hubs, hub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hub rows: %w", err)
	}
	return hubs, nil
}

func (r *PgxHubRepository) UpdateHub(ctx context.Context, hub domain.Hub) error {
	query := `
		UPDATE hubs
		SET name = $2,
		    description = $3,
		    is_active = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE hub_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		hub.HubID,
		hub.Name,
		hub.Description,
		hub.IsActive,
		hub.LastUpdatedAt,
		hub.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update hub %s: %w", hub.HubID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
