package services

import (
	"context"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// SupplierSvcFacade defines operations on the supplier ledger. The running
// totals on suppliers are read-only projections here; only the expense
// engine's transitions mutate them.
type SupplierSvcFacade interface {
	CreateSupplier(ctx context.Context, hubID string, req dto.CreateSupplierRequest, creatorUserID string) (*domain.Supplier, error)
	UpdateSupplier(ctx context.Context, hubID string, supplierID string, req dto.UpdateSupplierRequest, requestingUserID string) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, hubID string, supplierID string, requestingUserID string) error
	GetSupplierByID(ctx context.Context, hubID string, supplierID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, hubID string, search string, includeInactive bool) ([]domain.Supplier, error)

	// GetSupplierExpenses retrieves the most recent expenses of a supplier.
	GetSupplierExpenses(ctx context.Context, hubID string, supplierID string, limit int) ([]domain.Expense, error)
}
