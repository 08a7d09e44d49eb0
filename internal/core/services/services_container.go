package services

import (
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	// Create the container structure first
	container := &portssvc.ServiceContainer{}

	// Leaf services first; the expense engine and the scheduler depend on them
	container.Hub = NewHubService(repos.HubRepo)
	container.Settings = NewSettingsService(repos.SettingsRepo)
	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Supplier = NewSupplierService(repos.SupplierRepo, repos.ExpenseRepo)

	container.Expense = NewExpenseService(
		repos.ExpenseRepo,
		container.Settings,
		container.Category,
		container.Supplier,
	)

	// The scheduler generates expenses through the expense engine so that
	// numbering and approval evaluation stay in one place
	container.Recurring = NewRecurringService(
		repos.RecurringRepo,
		container.Expense,
		container.Settings,
		container.Category,
		container.Supplier,
	)

	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}
