package services

import (
	"context"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// ExpenseReaderSvc defines read operations for expense data.
type ExpenseReaderSvc interface {
	// GetExpenseByID retrieves an expense by its ID within a hub.
	GetExpenseByID(ctx context.Context, hubID string, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves a paginated, filtered list of a hub's expenses.
	ListExpenses(ctx context.Context, hubID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error)
}

// ExpenseWriterSvc defines the expense engine's write operations: creation
// with tax/total computation, auto-numbering and the approval rule, plus the
// workflow transitions.
type ExpenseWriterSvc interface {
	// CreateExpense creates an expense, computing tax and total, assigning
	// the next number and evaluating the approval rule against the hub's
	// settings snapshot.
	CreateExpense(ctx context.Context, hubID string, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error)

	// UpdateExpense edits an expense. Financial changes to an approved or
	// paid expense reverse and reapply the supplier totals atomically.
	UpdateExpense(ctx context.Context, hubID string, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error)

	// SubmitExpense moves a draft into the approval workflow, applying the
	// same threshold rule as creation.
	SubmitExpense(ctx context.Context, hubID string, expenseID string, requestingUserID string) (*domain.Expense, error)

	// ApproveExpense transitions a pending expense to approved and applies
	// the supplier totals effect exactly once.
	ApproveExpense(ctx context.Context, hubID string, expenseID string, approverUserID string) (*domain.Expense, error)

	// RejectExpense transitions a pending expense to rejected. Supplier
	// totals are never touched.
	RejectExpense(ctx context.Context, hubID string, expenseID string, approverUserID string) (*domain.Expense, error)

	// MarkExpensePaid transitions an approved expense to paid.
	MarkExpensePaid(ctx context.Context, hubID string, expenseID string, req dto.MarkExpensePaidRequest, requestingUserID string) (*domain.Expense, error)

	// DeleteExpense soft-deletes an expense, reversing the supplier totals
	// effect when one had been applied.
	DeleteExpense(ctx context.Context, hubID string, expenseID string, requestingUserID string) error
}

// ExpenseSvcFacade combines all expense-related service interfaces.
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
