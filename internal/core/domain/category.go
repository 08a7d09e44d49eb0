package domain

// ExpenseCategory is a hierarchical classification node for expenses.
// The parent relation forms a forest: a category may never be its own
// ancestor, which the category service enforces on every reassignment.
type ExpenseCategory struct {
	CategoryID  string  `json:"categoryID"` // Primary Key (UUID)
	HubID       string  `json:"hubID"`
	Name        string  `json:"name"`
	ParentID    *string `json:"parentID"` // Nullable self reference, same hub
	Icon        string  `json:"icon"`
	Color       string  `json:"color"` // Hex color code
	Description string  `json:"description"`
	SortOrder   int     `json:"sortOrder"`
	IsActive    bool    `json:"isActive"`
	AuditFields
}
