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

type PgxRecurringExpenseRepository struct {
	BaseRepository
}

// newPgxRecurringExpenseRepository creates a new repository for recurring expense templates.
func newPgxRecurringExpenseRepository(pool *pgxpool.Pool) portsrepo.RecurringExpenseRepositoryFacade {
	return &PgxRecurringExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurringExpenseRepositoryFacade = (*PgxRecurringExpenseRepository)(nil)

const recurringColumns = `recurring_expense_id, hub_id, title, category_id, supplier_id,
	amount, tax_rate, frequency, next_due_date, auto_create, is_active, last_generated_date,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRecurring(row pgx.Row, re *domain.RecurringExpense) error {
	return row.Scan(
		&re.RecurringExpenseID,
		&re.HubID,
		&re.Title,
		&re.CategoryID,
		&re.SupplierID,
		&re.Amount,
		&re.TaxRate,
		&re.Frequency,
		&re.NextDueDate,
		&re.AutoCreate,
		&re.IsActive,
		&re.LastGeneratedDate,
		&re.CreatedAt,
		&re.CreatedBy,
		&re.LastUpdatedAt,
		&re.LastUpdatedBy,
	)
}

func (r *PgxRecurringExpenseRepository) FindRecurringExpenseByID(ctx context.Context, hubID string, recurringID string) (*domain.RecurringExpense, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_expenses
		WHERE hub_id = $1 AND recurring_expense_id = $2 AND is_deleted = FALSE;
	`
	var recurring domain.RecurringExpense
	if err := scanRecurring(r.Pool.QueryRow(ctx, query, hubID, recurringID), &recurring); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find recurring expense by ID %s: %w", recurringID, err)
	}
	return &recurring, nil
}

func (r *PgxRecurringExpenseRepository) ListRecurringExpenses(ctx context.Context, hubID string, includeInactive bool) ([]domain.RecurringExpense, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_expenses
		WHERE hub_id = $1 AND is_deleted = FALSE
	`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY next_due_date, title;`

	return r.queryRecurring(ctx, query, hubID)
}

// ListDueAutoCreate returns due auto-create templates across all hubs; the
// scheduler tick runs once per process, not per hub.
func (r *PgxRecurringExpenseRepository) ListDueAutoCreate(ctx context.Context, asOf time.Time) ([]domain.RecurringExpense, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_expenses
		WHERE is_deleted = FALSE AND is_active = TRUE AND auto_create = TRUE AND next_due_date <= $1
		ORDER BY next_due_date, recurring_expense_id;
	`
	return r.queryRecurring(ctx, query, asOf)
}

func (r *PgxRecurringExpenseRepository) ListDueManual(ctx context.Context, hubID string, asOf time.Time) ([]domain.RecurringExpense, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_expenses
		WHERE hub_id = $1 AND is_deleted = FALSE AND is_active = TRUE AND auto_create = FALSE AND next_due_date <= $2
		ORDER BY next_due_date, title;
	`
	return r.queryRecurring(ctx, query, hubID, asOf)
}

func (r *PgxRecurringExpenseRepository) queryRecurring(ctx context.Context, query string, args ...interface{}) ([]domain.RecurringExpense, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring expenses: %w", err)
	}
	defer rows.Close()

	templates := []domain.RecurringExpense{}
	for rows.Next() {
		var recurring domain.RecurringExpense
		if err := scanRecurring(rows, &recurring); err != nil {
			return nil, fmt.Errorf("failed to scan recurring expense row: %w", err)
		}
		templates = append(templates, recurring)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring expense rows: %w", err)
	}
	return templates, nil
}

func (r *PgxRecurringExpenseRepository) SaveRecurringExpense(ctx context.Context, recurring domain.RecurringExpense) error {
	query := `
		INSERT INTO recurring_expenses (` + recurringColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		recurring.RecurringExpenseID,
		recurring.HubID,
		recurring.Title,
		recurring.CategoryID,
		recurring.SupplierID,
		recurring.Amount,
		recurring.TaxRate,
		recurring.Frequency,
		recurring.NextDueDate,
		recurring.AutoCreate,
		recurring.IsActive,
		recurring.LastGeneratedDate,
		recurring.CreatedAt,
		recurring.CreatedBy,
		recurring.LastUpdatedAt,
		recurring.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recurring expense %s: %w", recurring.RecurringExpenseID, mapWriteError(err))
	}
	return nil
}

func (r *PgxRecurringExpenseRepository) UpdateRecurringExpense(ctx context.Context, recurring domain.RecurringExpense) error {
	query := `
		UPDATE recurring_expenses
		SET title = $3,
		    category_id = $4,
		    supplier_id = $5,
		    amount = $6,
		    tax_rate = $7,
		    frequency = $8,
		    next_due_date = $9,
		    auto_create = $10,
		    is_active = $11,
		    last_updated_at = $12,
		    last_updated_by = $13
		WHERE hub_id = $1 AND recurring_expense_id = $2 AND is_deleted = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		recurring.HubID,
		recurring.RecurringExpenseID,
		recurring.Title,
		recurring.CategoryID,
		recurring.SupplierID,
		recurring.Amount,
		recurring.TaxRate,
		recurring.Frequency,
		recurring.NextDueDate,
		recurring.AutoCreate,
		recurring.IsActive,
		recurring.LastUpdatedAt,
		recurring.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurring expense %s: %w", recurring.RecurringExpenseID, mapWriteError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRecurringExpenseRepository) SoftDeleteRecurringExpense(ctx context.Context, hubID string, recurringID string, deletedBy string) error {
	query := `
		UPDATE recurring_expenses
		SET is_deleted = TRUE,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE hub_id = $1 AND recurring_expense_id = $2 AND is_deleted = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, hubID, recurringID, time.Now().UTC(), deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete recurring expense %s: %w", recurringID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AdvanceSchedule moves a template's schedule forward, guarded by the due
// date it was read with. A concurrent tick that generated for the same due
// date wins the guard; the loser gets apperrors.ErrConflict.
func (r *PgxRecurringExpenseRepository) AdvanceSchedule(ctx context.Context, hubID string, recurringID string, expectedDue time.Time, nextDue time.Time, generatedOn time.Time) error {
	query := `
		UPDATE recurring_expenses
		SET next_due_date = $4,
		    last_generated_date = $5,
		    last_updated_at = $6
		WHERE hub_id = $1 AND recurring_expense_id = $2 AND next_due_date = $3 AND is_deleted = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, hubID, recurringID, expectedDue, nextDue, generatedOn, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to advance schedule for recurring expense %s: %w", recurringID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM recurring_expenses WHERE hub_id = $1 AND recurring_expense_id = $2 AND is_deleted = FALSE);`
		if err := r.Pool.QueryRow(ctx, checkQuery, hubID, recurringID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check recurring expense %s after guarded advance: %w", recurringID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	}
	return nil
}
