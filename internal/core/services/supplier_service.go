package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// supplierService manages supplier records. The running totals on suppliers
// are owned by the expense engine; this service never writes them.
type supplierService struct {
	BaseService
	supplierRepo portsrepo.SupplierRepositoryFacade
	expenseRepo  portsrepo.ExpenseReader
}

// NewSupplierService creates a new SupplierService.
func NewSupplierService(supplierRepo portsrepo.SupplierRepositoryFacade, expenseRepo portsrepo.ExpenseReader) portssvc.SupplierSvcFacade {
	return &supplierService{
		supplierRepo: supplierRepo,
		expenseRepo:  expenseRepo,
	}
}

var _ portssvc.SupplierSvcFacade = (*supplierService)(nil)

func (s *supplierService) CreateSupplier(ctx context.Context, hubID string, req dto.CreateSupplierRequest, creatorUserID string) (*domain.Supplier, error) {
	now := time.Now().UTC()
	supplier := domain.Supplier{
		SupplierID:  uuid.NewString(),
		HubID:       hubID,
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		TaxID:       req.TaxID,
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		Website:     req.Website,
		Notes:       req.Notes,
		IsActive:    true,
		TotalSpent:  decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.supplierRepo.SaveSupplier(ctx, supplier); err != nil {
		s.LogError(ctx, err, "Failed to save supplier", "hub_id", hubID)
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	return &supplier, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, hubID string, supplierID string, req dto.UpdateSupplierRequest, requestingUserID string) (*domain.Supplier, error) {
	supplier, err := s.supplierRepo.FindSupplierByID(ctx, hubID, supplierID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.ContactName != nil {
		supplier.ContactName = *req.ContactName
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.TaxID != nil {
		supplier.TaxID = *req.TaxID
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.City != nil {
		supplier.City = *req.City
	}
	if req.PostalCode != nil {
		supplier.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		supplier.Country = *req.Country
	}
	if req.Website != nil {
		supplier.Website = *req.Website
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}

	supplier.LastUpdatedAt = time.Now().UTC()
	supplier.LastUpdatedBy = requestingUserID

	if err := s.supplierRepo.UpdateSupplier(ctx, *supplier); err != nil {
		s.LogError(ctx, err, "Failed to update supplier", "supplier_id", supplierID)
		return nil, fmt.Errorf("failed to update supplier %s: %w", supplierID, err)
	}

	return supplier, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, hubID string, supplierID string, requestingUserID string) error {
	if _, err := s.supplierRepo.FindSupplierByID(ctx, hubID, supplierID); err != nil {
		return err
	}

	if err := s.supplierRepo.SoftDeleteSupplier(ctx, hubID, supplierID, requestingUserID); err != nil {
		s.LogError(ctx, err, "Failed to delete supplier", "supplier_id", supplierID)
		return fmt.Errorf("failed to delete supplier %s: %w", supplierID, err)
	}

	return nil
}

func (s *supplierService) GetSupplierByID(ctx context.Context, hubID string, supplierID string) (*domain.Supplier, error) {
	return s.supplierRepo.FindSupplierByID(ctx, hubID, supplierID)
}

func (s *supplierService) ListSuppliers(ctx context.Context, hubID string, search string, includeInactive bool) ([]domain.Supplier, error) {
	suppliers, err := s.supplierRepo.ListSuppliers(ctx, hubID, search, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	if suppliers == nil {
		suppliers = []domain.Supplier{}
	}
	return suppliers, nil
}

func (s *supplierService) GetSupplierExpenses(ctx context.Context, hubID string, supplierID string, limit int) ([]domain.Expense, error) {
	if limit <= 0 {
		limit = 10
	}
	if _, err := s.supplierRepo.FindSupplierByID(ctx, hubID, supplierID); err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.ListExpensesBySupplier(ctx, hubID, supplierID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses for supplier %s: %w", supplierID, err)
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, nil
}
