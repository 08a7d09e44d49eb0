package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for expense category data.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, hub_id, name, parent_id, icon, color, description, sort_order, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCategory(row pgx.Row, c *domain.ExpenseCategory) error {
	return row.Scan(
		&c.CategoryID,
		&c.HubID,
		&c.Name,
		&c.ParentID,
		&c.Icon,
		&c.Color,
		&c.Description,
		&c.SortOrder,
		&c.IsActive,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, hubID string, categoryID string) (*domain.ExpenseCategory, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM expense_categories
		WHERE hub_id = $1 AND category_id = $2 AND is_deleted = FALSE;
	`
	var category domain.ExpenseCategory
	if err := scanCategory(r.Pool.QueryRow(ctx, query, hubID, categoryID), &category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID %s: %w", categoryID, err)
	}
	return &category, nil
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, hubID string, includeInactive bool) ([]domain.ExpenseCategory, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM expense_categories
		WHERE hub_id = $1 AND is_deleted = FALSE
	`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY sort_order, name;`

	rows, err := r.Pool.Query(ctx, query, hubID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for hub %s: %w", hubID, err)
	}
	defer rows.Close()

	categories := []domain.ExpenseCategory{}
	for rows.Next() {
		var category domain.ExpenseCategory
		if err := scanCategory(rows, &category); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

func (r *PgxCategoryRepository) CountChildren(ctx context.Context, hubID string, categoryID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM expense_categories
		WHERE hub_id = $1 AND parent_id = $2 AND is_deleted = FALSE;
	`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, hubID, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count children of category %s: %w", categoryID, err)
	}
	return count, nil
}

func (r *PgxCategoryRepository) CountExpensesByCategory(ctx context.Context, hubID string, categoryID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM expenses
		WHERE hub_id = $1 AND category_id = $2 AND is_deleted = FALSE;
	`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, hubID, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count expenses for category %s: %w", categoryID, err)
	}
	return count, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.ExpenseCategory) error {
	query := `
		INSERT INTO expense_categories (category_id, hub_id, name, parent_id, icon, color, description, sort_order, is_active,
		                                created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		category.CategoryID,
		category.HubID,
		category.Name,
		category.ParentID,
		category.Icon,
		category.Color,
		category.Description,
		category.SortOrder,
		category.IsActive,
		category.CreatedAt,
		category.CreatedBy,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category %s: %w", category.CategoryID, mapWriteError(err))
	}
	return nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.ExpenseCategory) error {
	query := `
		UPDATE expense_categories
		SET name = $3,
		    parent_id = $4,
		    icon = $5,
		    color = $6,
		    description = $7,
		    sort_order = $8,
		    is_active = $9,
		    last_updated_at = $10,
		    last_updated_by = $11
		WHERE hub_id = $1 AND category_id = $2 AND is_deleted = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		category.HubID,
		category.CategoryID,
		category.Name,
		category.ParentID,
		category.Icon,
		category.Color,
		category.Description,
		category.SortOrder,
		category.IsActive,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update category %s: %w", category.CategoryID, mapWriteError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCategoryRepository) SoftDeleteCategory(ctx context.Context, hubID string, categoryID string, deletedBy string) error {
	query := `
		UPDATE expense_categories
		SET is_deleted = TRUE,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE hub_id = $1 AND category_id = $2 AND is_deleted = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, hubID, categoryID, time.Now().UTC(), deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
