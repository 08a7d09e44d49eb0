package repositories

import (
	"context"
	"time"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
)

// RecurringExpenseReader defines read operations for recurring expense templates.
type RecurringExpenseReader interface {
	// FindRecurringExpenseByID retrieves a template scoped to a hub.
	FindRecurringExpenseByID(ctx context.Context, hubID string, recurringID string) (*domain.RecurringExpense, error)

	// ListRecurringExpenses retrieves a hub's templates ordered by next due date.
	ListRecurringExpenses(ctx context.Context, hubID string, includeInactive bool) ([]domain.RecurringExpense, error)

	// ListDueAutoCreate retrieves, across all hubs, active templates with
	// autoCreate enabled whose next due date is on or before asOf.
	ListDueAutoCreate(ctx context.Context, asOf time.Time) ([]domain.RecurringExpense, error)

	// ListDueManual retrieves a hub's active templates that are due but have
	// autoCreate disabled, for the UI to surface as prompts.
	ListDueManual(ctx context.Context, hubID string, asOf time.Time) ([]domain.RecurringExpense, error)
}

// RecurringExpenseWriter defines write operations for recurring expense templates.
type RecurringExpenseWriter interface {
	SaveRecurringExpense(ctx context.Context, recurring domain.RecurringExpense) error
	UpdateRecurringExpense(ctx context.Context, recurring domain.RecurringExpense) error
	SoftDeleteRecurringExpense(ctx context.Context, hubID string, recurringID string, deletedBy string) error

	// AdvanceSchedule moves a template's next due date forward after a
	// successful generation. The update only applies while the stored next
	// due date still equals expectedDue, which makes concurrent ticks for the
	// same date idempotent; apperrors.ErrConflict is returned otherwise.
	AdvanceSchedule(ctx context.Context, hubID string, recurringID string, expectedDue time.Time, nextDue time.Time, generatedOn time.Time) error
}

// RecurringExpenseRepositoryFacade combines all recurring-expense repository interfaces.
type RecurringExpenseRepositoryFacade interface {
	RecurringExpenseReader
	RecurringExpenseWriter
}
