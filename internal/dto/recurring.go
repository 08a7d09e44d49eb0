package dto

import (
	"time"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecurringExpenseRequest defines the payload for creating a template.
type CreateRecurringExpenseRequest struct {
	Title       string                     `json:"title" binding:"required,max=255"`
	CategoryID  *string                    `json:"categoryID"`
	SupplierID  *string                    `json:"supplierID"`
	Amount      decimal.Decimal            `json:"amount" binding:"required"`
	TaxRate     *decimal.Decimal           `json:"taxRate"`
	Frequency   domain.RecurrenceFrequency `json:"frequency" binding:"required,oneof=WEEKLY MONTHLY QUARTERLY YEARLY"`
	NextDueDate time.Time                  `json:"nextDueDate" binding:"required"`
	AutoCreate  bool                       `json:"autoCreate"`
}

// UpdateRecurringExpenseRequest defines the payload for editing a template.
// Only set fields are applied.
type UpdateRecurringExpenseRequest struct {
	Title       *string                     `json:"title"`
	CategoryID  *string                     `json:"categoryID"`
	SupplierID  *string                     `json:"supplierID"`
	Amount      *decimal.Decimal            `json:"amount"`
	TaxRate     *decimal.Decimal            `json:"taxRate"`
	Frequency   *domain.RecurrenceFrequency `json:"frequency"`
	NextDueDate *time.Time                  `json:"nextDueDate"`
	AutoCreate  *bool                       `json:"autoCreate"`
	IsActive    *bool                       `json:"isActive"`
}

// RecurringExpenseResponse defines the data returned for a template.
type RecurringExpenseResponse struct {
	RecurringExpenseID string                     `json:"recurringExpenseID"`
	Title              string                     `json:"title"`
	CategoryID         *string                    `json:"categoryID,omitempty"`
	SupplierID         *string                    `json:"supplierID,omitempty"`
	Amount             decimal.Decimal            `json:"amount"`
	TaxRate            decimal.Decimal            `json:"taxRate"`
	Frequency          domain.RecurrenceFrequency `json:"frequency"`
	NextDueDate        time.Time                  `json:"nextDueDate"`
	AutoCreate         bool                       `json:"autoCreate"`
	IsActive           bool                       `json:"isActive"`
	LastGeneratedDate  *time.Time                 `json:"lastGeneratedDate,omitempty"`
}

// TickFailure records one template whose generation failed during a tick.
// Its due date is left unchanged so the next tick retries it.
type TickFailure struct {
	RecurringExpenseID string `json:"recurringExpenseID"`
	HubID              string `json:"hubID"`
	Error              string `json:"error"`
}

// TickResult summarizes one scheduler run.
type TickResult struct {
	AsOf      time.Time     `json:"asOf"`
	Due       int           `json:"due"`
	Generated int           `json:"generated"`
	Failures  []TickFailure `json:"failures,omitempty"`
}

// ToRecurringExpenseResponse converts a domain template to its response DTO.
func ToRecurringExpenseResponse(r *domain.RecurringExpense) RecurringExpenseResponse {
	return RecurringExpenseResponse{
		RecurringExpenseID: r.RecurringExpenseID,
		Title:              r.Title,
		CategoryID:         r.CategoryID,
		SupplierID:         r.SupplierID,
		Amount:             r.Amount,
		TaxRate:            r.TaxRate,
		Frequency:          r.Frequency,
		NextDueDate:        r.NextDueDate,
		AutoCreate:         r.AutoCreate,
		IsActive:           r.IsActive,
		LastGeneratedDate:  r.LastGeneratedDate,
	}
}

// ToRecurringExpenseResponses converts a slice of templates to response DTOs.
func ToRecurringExpenseResponses(templates []domain.RecurringExpense) []RecurringExpenseResponse {
	responses := make([]RecurringExpenseResponse, len(templates))
	for i := range templates {
		responses[i] = ToRecurringExpenseResponse(&templates[i])
	}
	return responses
}
