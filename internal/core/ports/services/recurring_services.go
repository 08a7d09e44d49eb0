package services

import (
	"context"
	"time"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// RecurringReaderSvc defines read operations for recurring expense templates.
type RecurringReaderSvc interface {
	// GetRecurringExpenseByID retrieves a template by its ID within a hub.
	GetRecurringExpenseByID(ctx context.Context, hubID string, recurringID string) (*domain.RecurringExpense, error)

	// ListRecurringExpenses retrieves a hub's templates ordered by due date.
	ListRecurringExpenses(ctx context.Context, hubID string, includeInactive bool) ([]domain.RecurringExpense, error)

	// ListDueManual retrieves templates that are due but not auto-created,
	// for the UI to surface as generation prompts.
	ListDueManual(ctx context.Context, hubID string, asOf time.Time) ([]domain.RecurringExpense, error)
}

// RecurringWriterSvc defines write operations for recurring expense templates.
type RecurringWriterSvc interface {
	CreateRecurringExpense(ctx context.Context, hubID string, req dto.CreateRecurringExpenseRequest, creatorUserID string) (*domain.RecurringExpense, error)
	UpdateRecurringExpense(ctx context.Context, hubID string, recurringID string, req dto.UpdateRecurringExpenseRequest, requestingUserID string) (*domain.RecurringExpense, error)
	DeleteRecurringExpense(ctx context.Context, hubID string, recurringID string, requestingUserID string) error

	// GenerateExpense creates one expense from a template on demand and
	// advances its schedule, regardless of the autoCreate flag.
	GenerateExpense(ctx context.Context, hubID string, recurringID string, requestingUserID string) (*domain.Expense, error)
}

// RecurrenceSchedulerSvc is the generation engine driven by the periodic
// trigger. The trigger itself lives outside the core.
type RecurrenceSchedulerSvc interface {
	// Tick generates expenses for every due auto-create template across all
	// hubs and advances their schedules. It is idempotent per template for a
	// given asOf date.
	Tick(ctx context.Context, asOf time.Time) (*dto.TickResult, error)
}

// RecurringSvcFacade combines all recurring-expense service interfaces.
type RecurringSvcFacade interface {
	RecurringReaderSvc
	RecurringWriterSvc
	RecurrenceSchedulerSvc
}
