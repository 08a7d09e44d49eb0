package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// maxCategoryDepth bounds ancestor walks so that corrupt parent data can
// never loop forever.
const maxCategoryDepth = 100

const (
	defaultCategoryIcon  = "folder-outline"
	defaultCategoryColor = "#6366f1"
)

// categoryService manages the hub's category tree. The parent relation must
// stay a forest; every reassignment runs an ancestor check.
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, hubID string, req dto.CreateCategoryRequest, creatorUserID string) (*domain.ExpenseCategory, error) {
	if req.ParentID != nil && *req.ParentID != "" {
		if _, err := s.categoryRepo.FindCategoryByID(ctx, hubID, *req.ParentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent category %s not found in hub", apperrors.ErrValidation, *req.ParentID)
			}
			return nil, err
		}
	}

	icon := req.Icon
	if icon == "" {
		icon = defaultCategoryIcon
	}
	color := req.Color
	if color == "" {
		color = defaultCategoryColor
	}

	now := time.Now().UTC()
	category := domain.ExpenseCategory{
		CategoryID:  uuid.NewString(),
		HubID:       hubID,
		Name:        req.Name,
		ParentID:    normalizeRef(req.ParentID),
		Icon:        icon,
		Color:       color,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to save category", "hub_id", hubID)
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, hubID string, categoryID string, req dto.UpdateCategoryRequest, requestingUserID string) (*domain.ExpenseCategory, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, hubID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		newParent := normalizeRef(req.ParentID)
		if newParent != nil {
			if err := s.validateParent(ctx, hubID, categoryID, *newParent); err != nil {
				return nil, err
			}
		}
		category.ParentID = newParent
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	category.LastUpdatedAt = time.Now().UTC()
	category.LastUpdatedBy = requestingUserID

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		s.LogError(ctx, err, "Failed to update category", "category_id", categoryID)
		return nil, fmt.Errorf("failed to update category %s: %w", categoryID, err)
	}

	return category, nil
}

// validateParent rejects parent assignments that would break the forest
// invariant: the parent must exist in the same hub, must not be the category
// itself and must not be one of its descendants.
func (s *categoryService) validateParent(ctx context.Context, hubID, categoryID, parentID string) error {
	if parentID == categoryID {
		return fmt.Errorf("%w: category cannot be its own parent", apperrors.ErrValidation)
	}
	if _, err := s.categoryRepo.FindCategoryByID(ctx, hubID, parentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: parent category %s not found in hub", apperrors.ErrValidation, parentID)
		}
		return err
	}
	isDesc, err := s.IsDescendant(ctx, hubID, parentID, categoryID)
	if err != nil {
		return err
	}
	if isDesc {
		return fmt.Errorf("%w: category cannot be moved under its own descendant", apperrors.ErrValidation)
	}
	return nil
}

// DeleteCategory soft-deletes a category. Categories with children or
// referencing expenses are rejected so that no expense is ever left with a
// dangling reference.
func (s *categoryService) DeleteCategory(ctx context.Context, hubID string, categoryID string, requestingUserID string) error {
	if _, err := s.categoryRepo.FindCategoryByID(ctx, hubID, categoryID); err != nil {
		return err
	}

	children, err := s.categoryRepo.CountChildren(ctx, hubID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to count children of category %s: %w", categoryID, err)
	}
	if children > 0 {
		return fmt.Errorf("%w: category has %d child categories", apperrors.ErrHasDependents, children)
	}

	expenses, err := s.categoryRepo.CountExpensesByCategory(ctx, hubID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to count expenses of category %s: %w", categoryID, err)
	}
	if expenses > 0 {
		return fmt.Errorf("%w: category is referenced by %d expenses", apperrors.ErrHasDependents, expenses)
	}

	if err := s.categoryRepo.SoftDeleteCategory(ctx, hubID, categoryID, requestingUserID); err != nil {
		s.LogError(ctx, err, "Failed to delete category", "category_id", categoryID)
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}

	return nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, hubID string, categoryID string) (*domain.ExpenseCategory, error) {
	return s.categoryRepo.FindCategoryByID(ctx, hubID, categoryID)
}

func (s *categoryService) ListCategories(ctx context.Context, hubID string, includeInactive bool) ([]domain.ExpenseCategory, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, hubID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []domain.ExpenseCategory{}
	}
	return categories, nil
}

// GetCategoryPath returns the chain of ancestors root-first, ending with the
// category itself.
func (s *categoryService) GetCategoryPath(ctx context.Context, hubID string, categoryID string) ([]domain.ExpenseCategory, error) {
	var path []domain.ExpenseCategory

	currentID := categoryID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		category, err := s.categoryRepo.FindCategoryByID(ctx, hubID, currentID)
		if err != nil {
			return nil, err
		}
		path = append(path, *category)
		if category.ParentID == nil {
			// Reverse into root-first order.
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, nil
		}
		currentID = *category.ParentID
	}

	return nil, fmt.Errorf("category %s exceeds maximum tree depth %d", categoryID, maxCategoryDepth)
}

// IsDescendant reports whether candidateID sits below ancestorID in the tree.
func (s *categoryService) IsDescendant(ctx context.Context, hubID string, candidateID string, ancestorID string) (bool, error) {
	currentID := candidateID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		category, err := s.categoryRepo.FindCategoryByID(ctx, hubID, currentID)
		if err != nil {
			return false, err
		}
		if category.ParentID == nil {
			return false, nil
		}
		if *category.ParentID == ancestorID {
			return true, nil
		}
		currentID = *category.ParentID
	}
	return false, fmt.Errorf("category %s exceeds maximum tree depth %d", candidateID, maxCategoryDepth)
}

// normalizeRef maps an empty-string reference to nil so that "" can be used
// to clear an optional reference in partial updates.
func normalizeRef(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	return ref
}
