package repositories

import (
	"context"
	"time"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SupplierTotalsDelta describes an adjustment to a supplier's cached running
// totals. Deltas are applied as relative SQL increments inside the same
// transaction as the expense write they belong to, so concurrent approvals
// against the same supplier never lose an update.
type SupplierTotalsDelta struct {
	SupplierID   string
	Total        decimal.Decimal // signed; negative reverses a prior effect
	CountDelta   int64
	PurchaseDate *time.Time // most recent expense date, nil on reversal
}

// ExpenseFilter narrows an expense listing.
type ExpenseFilter struct {
	Status     *domain.ExpenseStatus
	CategoryID *string
	SupplierID *string
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     string // matches number, title and supplier name
}

// ExpenseReader defines read operations for expense data.
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense scoped to a hub.
	FindExpenseByID(ctx context.Context, hubID string, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves a paginated list of expenses for a hub using
	// token-based pagination. It returns the expenses, a token for the next
	// page, and an error.
	ListExpenses(ctx context.Context, hubID string, filter ExpenseFilter, limit int, nextToken *string) ([]domain.Expense, *string, error)

	// ListExpensesBySupplier retrieves the most recent expenses for a supplier.
	ListExpensesBySupplier(ctx context.Context, hubID string, supplierID string, limit int) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expense data.
type ExpenseWriter interface {
	// SaveExpense persists a new expense. The expense number is assigned
	// inside the insert transaction from the hub's settings sequence and set
	// on the passed expense. A non-nil delta is applied to the supplier's
	// totals within the same transaction.
	SaveExpense(ctx context.Context, expense *domain.Expense, delta *SupplierTotalsDelta) error

	// UpdateExpense persists changes to an existing expense. The update only
	// applies while the stored status equals expectedStatus; otherwise
	// apperrors.ErrConflict is returned and no delta is applied. All deltas
	// are applied within the same transaction as the expense update.
	UpdateExpense(ctx context.Context, expense domain.Expense, expectedStatus domain.ExpenseStatus, deltas []SupplierTotalsDelta) error

	// SoftDeleteExpense marks an expense deleted, applying a reversal delta
	// when the expense had contributed to supplier totals.
	SoftDeleteExpense(ctx context.Context, expense domain.Expense, delta *SupplierTotalsDelta) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
