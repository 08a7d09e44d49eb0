package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// It allows for easy dependency injection of repositories into the service layer.
type RepositoryProvider struct {
	HubRepo       HubRepository
	SettingsRepo  SettingsRepository
	CategoryRepo  CategoryRepositoryFacade
	SupplierRepo  SupplierRepositoryFacade
	ExpenseRepo   ExpenseRepositoryFacade
	RecurringRepo RecurringExpenseRepositoryFacade
	ReportingRepo ReportingRepository
}
