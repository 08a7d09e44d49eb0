package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
	"github.com/hubexpenses/expense_hub_app/internal/utils/pagination"
)

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expense data.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, hub_id, number, title, description, category_id, supplier_id,
	amount, tax_rate, tax_amount, total, expense_date, due_date, status,
	payment_method, payment_reference, receipt_ref, notes,
	approved_by, approved_at, paid_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row, e *domain.Expense) error {
	return row.Scan(
		&e.ExpenseID,
		&e.HubID,
		&e.Number,
		&e.Title,
		&e.Description,
		&e.CategoryID,
		&e.SupplierID,
		&e.Amount,
		&e.TaxRate,
		&e.TaxAmount,
		&e.Total,
		&e.ExpenseDate,
		&e.DueDate,
		&e.Status,
		&e.PaymentMethod,
		&e.PaymentReference,
		&e.ReceiptRef,
		&e.Notes,
		&e.ApprovedBy,
		&e.ApprovedAt,
		&e.PaidAt,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
}

// SaveExpense inserts a new expense inside a transaction. The expense number
// is drawn from the hub's settings sequence with a row-locking UPDATE, so two
// concurrent inserts can never share a number. A non-nil supplier delta is
// applied in the same transaction.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense *domain.Expense, delta *portsrepo.SupplierTotalsDelta) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Advance the sequence and read the reserved value in one statement.
	// The UPDATE takes a row lock, serializing concurrent creations per hub.
	seqQuery := `
		UPDATE expense_settings
		SET next_number_seq = next_number_seq + 1
		WHERE hub_id = $1
		RETURNING number_prefix, next_number_seq - 1;
	`
	var prefix string
	var seq int64
	if err := tx.QueryRow(ctx, seqQuery, expense.HubID).Scan(&prefix, &seq); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("no settings row for hub %s: %w", expense.HubID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to reserve expense number for hub %s: %w", expense.HubID, err)
	}
	expense.Number = fmt.Sprintf("%s-%05d", prefix, seq)

	insertQuery := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25);
	`
	_, err = tx.Exec(ctx, insertQuery,
		expense.ExpenseID,
		expense.HubID,
		expense.Number,
		expense.Title,
		expense.Description,
		expense.CategoryID,
		expense.SupplierID,
		expense.Amount,
		expense.TaxRate,
		expense.TaxAmount,
		expense.Total,
		expense.ExpenseDate,
		expense.DueDate,
		expense.Status,
		expense.PaymentMethod,
		expense.PaymentReference,
		expense.ReceiptRef,
		expense.Notes,
		expense.ApprovedBy,
		expense.ApprovedAt,
		expense.PaidAt,
		expense.CreatedAt,
		expense.CreatedBy,
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense %s: %w", expense.ExpenseID, mapWriteError(err))
	}

	if delta != nil {
		if err := applySupplierDelta(ctx, tx, expense.HubID, *delta); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// UpdateExpense writes an expense row guarded by the expected status. When
// the guard fails because a concurrent writer moved the status first, no
// delta is applied and apperrors.ErrConflict is returned.
func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense, expectedStatus domain.ExpenseStatus, deltas []portsrepo.SupplierTotalsDelta) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE expenses
		SET title = $4,
		    description = $5,
		    category_id = $6,
		    supplier_id = $7,
		    amount = $8,
		    tax_rate = $9,
		    tax_amount = $10,
		    total = $11,
		    expense_date = $12,
		    due_date = $13,
		    status = $14,
		    payment_method = $15,
		    payment_reference = $16,
		    receipt_ref = $17,
		    notes = $18,
		    approved_by = $19,
		    approved_at = $20,
		    paid_at = $21,
		    last_updated_at = $22,
		    last_updated_by = $23
		WHERE hub_id = $1 AND expense_id = $2 AND status = $3 AND is_deleted = FALSE;
	`
	cmdTag, err := tx.Exec(ctx, query,
		expense.HubID,
		expense.ExpenseID,
		expectedStatus,
		expense.Title,
		expense.Description,
		expense.CategoryID,
		expense.SupplierID,
		expense.Amount,
		expense.TaxRate,
		expense.TaxAmount,
		expense.Total,
		expense.ExpenseDate,
		expense.DueDate,
		expense.Status,
		expense.PaymentMethod,
		expense.PaymentReference,
		expense.ReceiptRef,
		expense.Notes,
		expense.ApprovedBy,
		expense.ApprovedAt,
		expense.PaidAt,
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", expense.ExpenseID, mapWriteError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, tx, expense.HubID, expense.ExpenseID)
	}

	for _, delta := range deltas {
		if err := applySupplierDelta(ctx, tx, expense.HubID, delta); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// SoftDeleteExpense marks an expense deleted and reverses its supplier
// contribution in the same transaction.
func (r *PgxExpenseRepository) SoftDeleteExpense(ctx context.Context, expense domain.Expense, delta *portsrepo.SupplierTotalsDelta) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE expenses
		SET is_deleted = TRUE,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE hub_id = $1 AND expense_id = $2 AND is_deleted = FALSE;
	`
	cmdTag, err := tx.Exec(ctx, query, expense.HubID, expense.ExpenseID, time.Now().UTC(), expense.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expense.ExpenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if delta != nil {
		if err := applySupplierDelta(ctx, tx, expense.HubID, *delta); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// classifyGuardFailure distinguishes a vanished expense from a lost
// optimistic-guard race after a zero-row UPDATE.
func (r *PgxExpenseRepository) classifyGuardFailure(ctx context.Context, tx pgx.Tx, hubID, expenseID string) error {
	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM expenses WHERE hub_id = $1 AND expense_id = $2 AND is_deleted = FALSE);`
	if err := tx.QueryRow(ctx, checkQuery, hubID, expenseID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check expense %s after guarded update: %w", expenseID, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrConflict
}

// applySupplierDelta adjusts a supplier's cached totals with relative
// increments. last_purchase_date only moves forward; reversals leave it
// untouched rather than recomputing the previous maximum.
func applySupplierDelta(ctx context.Context, tx pgx.Tx, hubID string, delta portsrepo.SupplierTotalsDelta) error {
	query := `
		UPDATE suppliers
		SET total_spent = total_spent + $3,
		    expense_count = expense_count + $4,
		    last_purchase_date = CASE
		        WHEN $5::timestamptz IS NOT NULL AND (last_purchase_date IS NULL OR last_purchase_date < $5) THEN $5
		        ELSE last_purchase_date
		    END
		WHERE hub_id = $1 AND supplier_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, hubID, delta.SupplierID, delta.Total, delta.CountDelta, delta.PurchaseDate)
	if err != nil {
		return fmt.Errorf("failed to apply totals delta for supplier %s: %w", delta.SupplierID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("supplier %s missing while applying totals delta: %w", delta.SupplierID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, hubID string, expenseID string) (*domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE hub_id = $1 AND expense_id = $2 AND is_deleted = FALSE;
	`
	var expense domain.Expense
	if err := scanExpense(r.Pool.QueryRow(ctx, query, hubID, expenseID), &expense); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}
	return &expense, nil
}

// ListExpenses retrieves a filtered page of a hub's expenses using
// token-based pagination over (expense_date, created_at) descending.
func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, hubID string, filter portsrepo.ExpenseFilter, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to detect whether a next page exists.
	fetchLimit := limit + 1

	query := `
		SELECT e.expense_id, e.hub_id, e.number, e.title, e.description, e.category_id, e.supplier_id,
		       e.amount, e.tax_rate, e.tax_amount, e.total, e.expense_date, e.due_date, e.status,
		       e.payment_method, e.payment_reference, e.receipt_ref, e.notes,
		       e.approved_by, e.approved_at, e.paid_at,
		       e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
		FROM expenses e
		LEFT JOIN suppliers s ON e.supplier_id = s.supplier_id
		WHERE e.hub_id = $1 AND e.is_deleted = FALSE
	`
	args := []interface{}{hubID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND e.status = $` + strconv.Itoa(len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += ` AND e.category_id = $` + strconv.Itoa(len(args))
	}
	if filter.SupplierID != nil {
		args = append(args, *filter.SupplierID)
		query += ` AND e.supplier_id = $` + strconv.Itoa(len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += ` AND e.expense_date >= $` + strconv.Itoa(len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += ` AND e.expense_date <= $` + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		placeholder := `$` + strconv.Itoa(len(args))
		query += ` AND (e.number ILIKE ` + placeholder + ` OR e.title ILIKE ` + placeholder + ` OR s.name ILIKE ` + placeholder + `)`
	}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %s", apperrors.ErrValidation, decodeErr.Error())
		}
		args = append(args, lastDate, lastCreatedAt)
		query += ` AND (e.expense_date, e.created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY e.expense_date DESC, e.created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query expenses for hub %s: %w", hubID, err)
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0, fetchLimit)
	for rows.Next() {
		var expense domain.Expense
		if err := scanExpense(rows, &expense); err != nil {
			return nil, nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating expense rows: %w", err)
	}

	var nextTokenVal *string
	if len(expenses) > limit {
		last := expenses[limit-1]
		token := pagination.EncodeToken(last.ExpenseDate, last.CreatedAt)
		nextTokenVal = &token
		expenses = expenses[:limit]
	}

	return expenses, nextTokenVal, nil
}

func (r *PgxExpenseRepository) ListExpensesBySupplier(ctx context.Context, hubID string, supplierID string, limit int) ([]domain.Expense, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE hub_id = $1 AND supplier_id = $2 AND is_deleted = FALSE
		ORDER BY expense_date DESC, created_at DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, hubID, supplierID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses for supplier %s: %w", supplierID, err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var expense domain.Expense
		if err := scanExpense(rows, &expense); err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}
	return expenses, nil
}
