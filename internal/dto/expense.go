package dto

import (
	"time"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the payload for creating an expense.
// When Draft is true the expense is stored as a draft and the approval rule
// is evaluated later, on submission.
type CreateExpenseRequest struct {
	Title            string           `json:"title" binding:"required,max=255"`
	Description      string           `json:"description"`
	CategoryID       *string          `json:"categoryID"`
	SupplierID       *string          `json:"supplierID"`
	Amount           decimal.Decimal  `json:"amount" binding:"required"`
	TaxRate          *decimal.Decimal `json:"taxRate"` // overrides the hub default when set
	ExpenseDate      time.Time        `json:"expenseDate" binding:"required"`
	DueDate          *time.Time       `json:"dueDate"`
	PaymentMethod    string           `json:"paymentMethod"`
	PaymentReference string           `json:"paymentReference"`
	ReceiptRef       string           `json:"receiptRef"`
	Notes            string           `json:"notes"`
	Draft            bool             `json:"draft"`
}

// UpdateExpenseRequest defines the payload for editing an expense. Only set
// fields are applied. Passing an empty string for CategoryID or SupplierID
// clears the reference.
type UpdateExpenseRequest struct {
	Title            *string          `json:"title"`
	Description      *string          `json:"description"`
	CategoryID       *string          `json:"categoryID"`
	SupplierID       *string          `json:"supplierID"`
	Amount           *decimal.Decimal `json:"amount"`
	TaxRate          *decimal.Decimal `json:"taxRate"`
	ExpenseDate      *time.Time       `json:"expenseDate"`
	DueDate          *time.Time       `json:"dueDate"`
	PaymentMethod    *string          `json:"paymentMethod"`
	PaymentReference *string          `json:"paymentReference"`
	ReceiptRef       *string          `json:"receiptRef"`
	Notes            *string          `json:"notes"`
}

// MarkExpensePaidRequest records how an approved expense was paid.
type MarkExpensePaidRequest struct {
	PaymentMethod    string `json:"paymentMethod" binding:"required,max=50"`
	PaymentReference string `json:"paymentReference" binding:"max=100"`
}

// ListExpensesParams holds listing filters and pagination inputs.
type ListExpensesParams struct {
	Status     *domain.ExpenseStatus `form:"status"`
	CategoryID *string               `form:"categoryID"`
	SupplierID *string               `form:"supplierID"`
	DateFrom   *time.Time            `form:"dateFrom" time_format:"2006-01-02"`
	DateTo     *time.Time            `form:"dateTo" time_format:"2006-01-02"`
	Search     string                `form:"search"`
	Limit      int                   `form:"limit"`
	NextToken  *string               `form:"nextToken"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID        string               `json:"expenseID"`
	Number           string               `json:"number"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	CategoryID       *string              `json:"categoryID,omitempty"`
	SupplierID       *string              `json:"supplierID,omitempty"`
	Amount           decimal.Decimal      `json:"amount"`
	TaxRate          decimal.Decimal      `json:"taxRate"`
	TaxAmount        decimal.Decimal      `json:"taxAmount"`
	Total            decimal.Decimal      `json:"total"`
	ExpenseDate      time.Time            `json:"expenseDate"`
	DueDate          *time.Time           `json:"dueDate,omitempty"`
	Status           domain.ExpenseStatus `json:"status"`
	PaymentMethod    string               `json:"paymentMethod,omitempty"`
	PaymentReference string               `json:"paymentReference,omitempty"`
	ReceiptRef       string               `json:"receiptRef,omitempty"`
	Notes            string               `json:"notes,omitempty"`
	ApprovedBy       *string              `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time           `json:"approvedAt,omitempty"`
	PaidAt           *time.Time           `json:"paidAt,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
}

// ListExpensesResponse is a page of expenses plus the token for the next page.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToExpenseResponse converts a domain.Expense to its response DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:        e.ExpenseID,
		Number:           e.Number,
		Title:            e.Title,
		Description:      e.Description,
		CategoryID:       e.CategoryID,
		SupplierID:       e.SupplierID,
		Amount:           e.Amount,
		TaxRate:          e.TaxRate,
		TaxAmount:        e.TaxAmount,
		Total:            e.Total,
		ExpenseDate:      e.ExpenseDate,
		DueDate:          e.DueDate,
		Status:           e.Status,
		PaymentMethod:    e.PaymentMethod,
		PaymentReference: e.PaymentReference,
		ReceiptRef:       e.ReceiptRef,
		Notes:            e.Notes,
		ApprovedBy:       e.ApprovedBy,
		ApprovedAt:       e.ApprovedAt,
		PaidAt:           e.PaidAt,
		CreatedAt:        e.CreatedAt,
	}
}

// ToExpenseResponses converts a slice of domain expenses to response DTOs.
func ToExpenseResponses(expenses []domain.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return responses
}
