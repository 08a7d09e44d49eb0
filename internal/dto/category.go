package dto

import "github.com/hubexpenses/expense_hub_app/internal/core/domain"

// CreateCategoryRequest defines the payload for creating an expense category.
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	ParentID    *string `json:"parentID"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color" binding:"omitempty,hexcolor"`
	Description string  `json:"description"`
	SortOrder   int     `json:"sortOrder"`
}

// UpdateCategoryRequest defines the payload for editing a category. Only set
// fields are applied. Passing an empty string for ParentID makes the category
// a root.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	ParentID    *string `json:"parentID"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID  string  `json:"categoryID"`
	Name        string  `json:"name"`
	ParentID    *string `json:"parentID,omitempty"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	Description string  `json:"description,omitempty"`
	SortOrder   int     `json:"sortOrder"`
	IsActive    bool    `json:"isActive"`
}

// ToCategoryResponse converts a domain category to its response DTO.
func ToCategoryResponse(c *domain.ExpenseCategory) CategoryResponse {
	return CategoryResponse{
		CategoryID:  c.CategoryID,
		Name:        c.Name,
		ParentID:    c.ParentID,
		Icon:        c.Icon,
		Color:       c.Color,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
	}
}

// ToCategoryResponses converts a slice of domain categories to response DTOs.
func ToCategoryResponses(categories []domain.ExpenseCategory) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
