package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
)

type PgxSupplierRepository struct {
	BaseRepository
}

// newPgxSupplierRepository creates a new repository for supplier data.
func newPgxSupplierRepository(pool *pgxpool.Pool) portsrepo.SupplierRepositoryFacade {
	return &PgxSupplierRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SupplierRepositoryFacade = (*PgxSupplierRepository)(nil)

const supplierColumns = `supplier_id, hub_id, name, contact_name, email, phone, tax_id, address, city, postal_code, country, website, notes, is_active,
	total_spent, expense_count, last_purchase_date,
	created_at, created_by, last_updated_at, last_updated_by`

func scanSupplier(row pgx.Row, s *domain.Supplier) error {
	return row.Scan(
		&s.SupplierID,
		&s.HubID,
		&s.Name,
		&s.ContactName,
		&s.Email,
		&s.Phone,
		&s.TaxID,
		&s.Address,
		&s.City,
		&s.PostalCode,
		&s.Country,
		&s.Website,
		&s.Notes,
		&s.IsActive,
		&s.TotalSpent,
		&s.ExpenseCount,
		&s.LastPurchaseDate,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
}

func (r *PgxSupplierRepository) FindSupplierByID(ctx context.Context, hubID string, supplierID string) (*domain.Supplier, error) {
	query := `
		SELECT ` + supplierColumns + `
		FROM suppliers
		WHERE hub_id = $1 AND supplier_id = $2 AND is_deleted = FALSE;
	`
	var supplier domain.Supplier
	if err := scanSupplier(r.Pool.QueryRow(ctx, query, hubID, supplierID), &supplier); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supplier by ID %s: %w", supplierID, err)
	}
	return &supplier, nil
}

func (r *PgxSupplierRepository) ListSuppliers(ctx context.Context, hubID string, search string, includeInactive bool) ([]domain.Supplier, error) {
	query := `
		SELECT ` + supplierColumns + `
		FROM suppliers
		WHERE hub_id = $1 AND is_deleted = FALSE
	`
	args := []interface{}{hubID}
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	if search != "" {
		query += ` AND (name ILIKE $2 OR contact_name ILIKE $2 OR email ILIKE $2 OR tax_id ILIKE $2)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers for hub %s: %w", hubID, err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		var supplier domain.Supplier
		if err := scanSupplier(rows, &supplier); err != nil {
			return nil, fmt.Errorf("failed to scan supplier row: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplier rows: %w", err)
	}
	return suppliers, nil
}

func (r *PgxSupplierRepository) SaveSupplier(ctx context.Context, supplier domain.Supplier) error {
	query := `
		INSERT INTO suppliers (supplier_id, hub_id, name, contact_name, email, phone, tax_id, address, city, postal_code, country, website, notes, is_active,
		                       total_spent, expense_count, last_purchase_date,
		                       created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := r.Pool.Exec(ctx, query,
		supplier.SupplierID,
		supplier.HubID,
		supplier.Name,
		supplier.ContactName,
		supplier.Email,
		supplier.Phone,
		supplier.TaxID,
		supplier.Address,
		supplier.City,
		supplier.PostalCode,
		supplier.Country,
		supplier.Website,
		supplier.Notes,
		supplier.IsActive,
		supplier.TotalSpent,
		supplier.ExpenseCount,
		supplier.LastPurchaseDate,
		supplier.CreatedAt,
		supplier.CreatedBy,
		supplier.LastUpdatedAt,
		supplier.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert supplier %s: %w", supplier.SupplierID, mapWriteError(err))
	}
	return nil
}

// UpdateSupplier writes the descriptive supplier fields. The running totals
// columns are excluded; they change only through SupplierTotalsDelta inside
// expense transactions.
func (r *PgxSupplierRepository) UpdateSupplier(ctx context.Context, supplier domain.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $3,
		    contact_name = $4,
		    email = $5,
		    phone = $6,
		    tax_id = $7,
		    address = $8,
		    city = $9,
		    postal_code = $10,
		    country = $11,
		    website = $12,
		    notes = $13,
		    is_active = $14,
		    last_updated_at = $15,
		    last_updated_by = $16
		WHERE hub_id = $1 AND supplier_id = $2 AND is_deleted = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		supplier.HubID,
		supplier.SupplierID,
		supplier.Name,
		supplier.ContactName,
		supplier.Email,
		supplier.Phone,
		supplier.TaxID,
		supplier.Address,
		supplier.City,
		supplier.PostalCode,
		supplier.Country,
		supplier.Website,
		supplier.Notes,
		supplier.IsActive,
		supplier.LastUpdatedAt,
		supplier.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update supplier %s: %w", supplier.SupplierID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSupplierRepository) SoftDeleteSupplier(ctx context.Context, hubID string, supplierID string, deletedBy string) error {
	query := `
		UPDATE suppliers
		SET is_deleted = TRUE,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE hub_id = $1 AND supplier_id = $2 AND is_deleted = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, hubID, supplierID, time.Now().UTC(), deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete supplier %s: %w", supplierID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
