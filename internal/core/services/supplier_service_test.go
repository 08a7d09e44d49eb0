package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/core/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// --- Mock SupplierRepository ---
type MockSupplierRepository struct {
	mock.Mock
}

var _ portsrepo.SupplierRepositoryFacade = (*MockSupplierRepository)(nil)

func (m *MockSupplierRepository) FindSupplierByID(ctx context.Context, hubID string, supplierID string) (*domain.Supplier, error) {
	args := m.Called(ctx, hubID, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) ListSuppliers(ctx context.Context, hubID string, search string, includeInactive bool) ([]domain.Supplier, error) {
	args := m.Called(ctx, hubID, search, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) SaveSupplier(ctx context.Context, supplier domain.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) UpdateSupplier(ctx context.Context, supplier domain.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) SoftDeleteSupplier(ctx context.Context, hubID string, supplierID string, deletedBy string) error {
	args := m.Called(ctx, hubID, supplierID, deletedBy)
	return args.Error(0)
}

// --- Test Suite Setup ---
type SupplierServiceTestSuite struct {
	suite.Suite
	mockSupplierRepo *MockSupplierRepository
	mockExpenseRepo  *MockExpenseRepository
	service          portssvc.SupplierSvcFacade
	hubID            string
	userID           string
}

func (suite *SupplierServiceTestSuite) SetupTest() {
	suite.mockSupplierRepo = new(MockSupplierRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.service = services.NewSupplierService(suite.mockSupplierRepo, suite.mockExpenseRepo)
	suite.hubID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *SupplierServiceTestSuite) TestCreateSupplier_StartsActiveWithZeroTotals() {
	ctx := context.Background()
	req := dto.CreateSupplierRequest{Name: "Acme Office Supplies", Email: "sales@acme.test"}

	var saved domain.Supplier
	suite.mockSupplierRepo.On("SaveSupplier", ctx, mock.AnythingOfType("domain.Supplier")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Supplier)
		}).Return(nil).Once()

	supplier, err := suite.service.CreateSupplier(ctx, suite.hubID, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(supplier.SupplierID)
	suite.True(saved.IsActive)
	suite.True(saved.TotalSpent.IsZero())
	suite.Equal(int64(0), saved.ExpenseCount)
	suite.Nil(saved.LastPurchaseDate)
	suite.Equal(suite.userID, saved.CreatedBy)
	suite.mockSupplierRepo.AssertExpectations(suite.T())
}

func (suite *SupplierServiceTestSuite) TestUpdateSupplier_PartialUpdateKeepsUnsetFields() {
	ctx := context.Background()
	existing := &domain.Supplier{
		SupplierID: uuid.NewString(),
		HubID:      suite.hubID,
		Name:       "Acme Office Supplies",
		Email:      "sales@acme.test",
		IsActive:   true,
	}
	newPhone := "+34 600 000 000"
	req := dto.UpdateSupplierRequest{Phone: &newPhone}

	suite.mockSupplierRepo.On("FindSupplierByID", ctx, suite.hubID, existing.SupplierID).Return(existing, nil).Once()

	var updated domain.Supplier
	suite.mockSupplierRepo.On("UpdateSupplier", ctx, mock.AnythingOfType("domain.Supplier")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.Supplier)
		}).Return(nil).Once()

	supplier, err := suite.service.UpdateSupplier(ctx, suite.hubID, existing.SupplierID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newPhone, supplier.Phone)
	suite.Equal("Acme Office Supplies", updated.Name)
	suite.Equal("sales@acme.test", updated.Email)
	suite.Equal(suite.userID, updated.LastUpdatedBy)
}

func (suite *SupplierServiceTestSuite) TestUpdateSupplier_Deactivate() {
	ctx := context.Background()
	existing := &domain.Supplier{
		SupplierID: uuid.NewString(),
		HubID:      suite.hubID,
		Name:       "Dormant Vendor",
		IsActive:   true,
	}
	inactive := false

	suite.mockSupplierRepo.On("FindSupplierByID", ctx, suite.hubID, existing.SupplierID).Return(existing, nil).Once()
	suite.mockSupplierRepo.On("UpdateSupplier", ctx, mock.Anything).Return(nil).Once()

	supplier, err := suite.service.UpdateSupplier(ctx, suite.hubID, existing.SupplierID, dto.UpdateSupplierRequest{IsActive: &inactive}, suite.userID)

	suite.Require().NoError(err)
	suite.False(supplier.IsActive)
}

func (suite *SupplierServiceTestSuite) TestDeleteSupplier_NotFound() {
	ctx := context.Background()
	supplierID := uuid.NewString()

	suite.mockSupplierRepo.On("FindSupplierByID", ctx, suite.hubID, supplierID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteSupplier(ctx, suite.hubID, supplierID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockSupplierRepo.AssertNotCalled(suite.T(), "SoftDeleteSupplier", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SupplierServiceTestSuite) TestListSuppliers_NilResultBecomesEmptySlice() {
	ctx := context.Background()

	suite.mockSupplierRepo.On("ListSuppliers", ctx, suite.hubID, "", false).Return(nil, nil).Once()

	suppliers, err := suite.service.ListSuppliers(ctx, suite.hubID, "", false)

	suite.Require().NoError(err)
	suite.NotNil(suppliers)
	suite.Empty(suppliers)
}

func (suite *SupplierServiceTestSuite) TestGetSupplierExpenses_DefaultsLimit() {
	ctx := context.Background()
	supplier := &domain.Supplier{SupplierID: uuid.NewString(), HubID: suite.hubID, Name: "Acme", IsActive: true}

	suite.mockSupplierRepo.On("FindSupplierByID", ctx, suite.hubID, supplier.SupplierID).Return(supplier, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesBySupplier", ctx, suite.hubID, supplier.SupplierID, 10).
		Return([]domain.Expense{{ExpenseID: uuid.NewString()}}, nil).Once()

	expenses, err := suite.service.GetSupplierExpenses(ctx, suite.hubID, supplier.SupplierID, 0)

	suite.Require().NoError(err)
	assert.Len(suite.T(), expenses, 1)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestSupplierService(t *testing.T) {
	suite.Run(t, new(SupplierServiceTestSuite))
}
