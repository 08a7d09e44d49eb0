package services

import (
	"context"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// CategorySvcFacade defines operations on the hub's category tree.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, hubID string, req dto.CreateCategoryRequest, creatorUserID string) (*domain.ExpenseCategory, error)
	UpdateCategory(ctx context.Context, hubID string, categoryID string, req dto.UpdateCategoryRequest, requestingUserID string) (*domain.ExpenseCategory, error)

	// DeleteCategory soft-deletes a category. Deletion is rejected with
	// apperrors.ErrHasDependents while children or expenses still reference it.
	DeleteCategory(ctx context.Context, hubID string, categoryID string, requestingUserID string) error

	GetCategoryByID(ctx context.Context, hubID string, categoryID string) (*domain.ExpenseCategory, error)
	ListCategories(ctx context.Context, hubID string, includeInactive bool) ([]domain.ExpenseCategory, error)

	// GetCategoryPath returns the ancestors of a category, root first,
	// ending with the category itself.
	GetCategoryPath(ctx context.Context, hubID string, categoryID string) ([]domain.ExpenseCategory, error)

	// IsDescendant reports whether candidate is a descendant of ancestorID.
	// Used to reject cyclic parent reassignment.
	IsDescendant(ctx context.Context, hubID string, candidateID string, ancestorID string) (bool, error)
}
