package repositories

import (
	"context"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
)

// CategoryReader defines read operations for expense categories.
type CategoryReader interface {
	// FindCategoryByID retrieves a category scoped to a hub.
	FindCategoryByID(ctx context.Context, hubID string, categoryID string) (*domain.ExpenseCategory, error)

	// ListCategories retrieves all categories of a hub ordered by sort order
	// and name.
	ListCategories(ctx context.Context, hubID string, includeInactive bool) ([]domain.ExpenseCategory, error)

	// CountChildren returns the number of direct children of a category.
	CountChildren(ctx context.Context, hubID string, categoryID string) (int64, error)

	// CountExpensesByCategory returns the number of expenses referencing a category.
	CountExpensesByCategory(ctx context.Context, hubID string, categoryID string) (int64, error)
}

// CategoryWriter defines write operations for expense categories.
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.ExpenseCategory) error
	UpdateCategory(ctx context.Context, category domain.ExpenseCategory) error
	SoftDeleteCategory(ctx context.Context, hubID string, categoryID string, deletedBy string) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
