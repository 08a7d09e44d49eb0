package dto

import (
	"time"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSupplierRequest defines the payload for creating a supplier.
type CreateSupplierRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	ContactName string `json:"contactName" binding:"max=255"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone" binding:"max=20"`
	TaxID       string `json:"taxID" binding:"max=20"`
	Address     string `json:"address"`
	City        string `json:"city" binding:"max=100"`
	PostalCode  string `json:"postalCode" binding:"max=10"`
	Country     string `json:"country" binding:"max=100"`
	Website     string `json:"website" binding:"omitempty,url"`
	Notes       string `json:"notes"`
}

// UpdateSupplierRequest defines the payload for editing a supplier. Only set
// fields are applied. Running totals are not editable through this request.
type UpdateSupplierRequest struct {
	Name        *string `json:"name"`
	ContactName *string `json:"contactName"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	TaxID       *string `json:"taxID"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postalCode"`
	Country     *string `json:"country"`
	Website     *string `json:"website" binding:"omitempty,url"`
	Notes       *string `json:"notes"`
	IsActive    *bool   `json:"isActive"`
}

// SupplierResponse defines the data returned for a supplier, including the
// read-only running totals maintained by the expense engine.
type SupplierResponse struct {
	SupplierID       string          `json:"supplierID"`
	Name             string          `json:"name"`
	ContactName      string          `json:"contactName,omitempty"`
	Email            string          `json:"email,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	TaxID            string          `json:"taxID,omitempty"`
	Address          string          `json:"address,omitempty"`
	City             string          `json:"city,omitempty"`
	PostalCode       string          `json:"postalCode,omitempty"`
	Country          string          `json:"country,omitempty"`
	Website          string          `json:"website,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	IsActive         bool            `json:"isActive"`
	TotalSpent       decimal.Decimal `json:"totalSpent"`
	ExpenseCount     int64           `json:"expenseCount"`
	LastPurchaseDate *time.Time      `json:"lastPurchaseDate,omitempty"`
}

// ToSupplierResponse converts a domain supplier to its response DTO.
func ToSupplierResponse(s *domain.Supplier) SupplierResponse {
	return SupplierResponse{
		SupplierID:       s.SupplierID,
		Name:             s.Name,
		ContactName:      s.ContactName,
		Email:            s.Email,
		Phone:            s.Phone,
		TaxID:            s.TaxID,
		Address:          s.Address,
		City:             s.City,
		PostalCode:       s.PostalCode,
		Country:          s.Country,
		Website:          s.Website,
		Notes:            s.Notes,
		IsActive:         s.IsActive,
		TotalSpent:       s.TotalSpent,
		ExpenseCount:     s.ExpenseCount,
		LastPurchaseDate: s.LastPurchaseDate,
	}
}

// ToSupplierResponses converts a slice of domain suppliers to response DTOs.
func ToSupplierResponses(suppliers []domain.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}
