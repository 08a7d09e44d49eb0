package repositories

import (
	"context"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
)

// SupplierReader defines read operations for supplier data.
type SupplierReader interface {
	// FindSupplierByID retrieves a supplier scoped to a hub.
	FindSupplierByID(ctx context.Context, hubID string, supplierID string) (*domain.Supplier, error)

	// ListSuppliers retrieves a hub's suppliers ordered by name, optionally
	// filtered by a search term over name, contact, email and tax id.
	ListSuppliers(ctx context.Context, hubID string, search string, includeInactive bool) ([]domain.Supplier, error)
}

// SupplierWriter defines write operations for supplier data. Running totals
// are not writable here; they change only through SupplierTotalsDelta applied
// by the expense repository.
type SupplierWriter interface {
	SaveSupplier(ctx context.Context, supplier domain.Supplier) error
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) error
	SoftDeleteSupplier(ctx context.Context, hubID string, supplierID string, deletedBy string) error
}

// SupplierRepositoryFacade combines all supplier-related repository interfaces.
type SupplierRepositoryFacade interface {
	SupplierReader
	SupplierWriter
}
