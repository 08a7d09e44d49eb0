package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is a vendor record with running spend totals.
//
// TotalSpent, ExpenseCount and LastPurchaseDate are caches maintained
// exclusively by the expense engine's status transitions; every other
// component reads them as projections and must never write them.
type Supplier struct {
	SupplierID  string  `json:"supplierID"` // Primary Key (UUID)
	HubID       string  `json:"hubID"`
	Name        string  `json:"name"`
	ContactName string  `json:"contactName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	TaxID       string  `json:"taxID"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	PostalCode  string  `json:"postalCode"`
	Country     string  `json:"country"`
	Website     string  `json:"website"`
	Notes       string  `json:"notes"`
	IsActive    bool    `json:"isActive"`

	TotalSpent       decimal.Decimal `json:"totalSpent"`
	ExpenseCount     int64           `json:"expenseCount"`
	LastPurchaseDate *time.Time      `json:"lastPurchaseDate"`
	AuditFields
}
