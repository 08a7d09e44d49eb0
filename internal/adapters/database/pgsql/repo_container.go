package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	hubRepo := newPgxHubRepository(dbPool)
	settingsRepo := newPgxSettingsRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)
	supplierRepo := newPgxSupplierRepository(dbPool)
	expenseRepo := newPgxExpenseRepository(dbPool)
	recurringRepo := newPgxRecurringExpenseRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		HubRepo:       hubRepo,
		SettingsRepo:  settingsRepo,
		CategoryRepo:  categoryRepo,
		SupplierRepo:  supplierRepo,
		ExpenseRepo:   expenseRepo,
		RecurringRepo: recurringRepo,
		ReportingRepo: reportingRepo,
	}
}
