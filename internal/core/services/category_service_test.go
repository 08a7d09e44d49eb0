package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/core/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

var _ portsrepo.CategoryRepositoryFacade = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, hubID string, categoryID string) (*domain.ExpenseCategory, error) {
	args := m.Called(ctx, hubID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseCategory), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, hubID string, includeInactive bool) ([]domain.ExpenseCategory, error) {
	args := m.Called(ctx, hubID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseCategory), args.Error(1)
}

func (m *MockCategoryRepository) CountChildren(ctx context.Context, hubID string, categoryID string) (int64, error) {
	args := m.Called(ctx, hubID, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) CountExpensesByCategory(ctx context.Context, hubID string, categoryID string) (int64, error) {
	args := m.Called(ctx, hubID, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.ExpenseCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.ExpenseCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) SoftDeleteCategory(ctx context.Context, hubID string, categoryID string, deletedBy string) error {
	args := m.Called(ctx, hubID, categoryID, deletedBy)
	return args.Error(0)
}

// --- Test Suite Setup ---
type CategoryServiceTestSuite struct {
	suite.Suite
	mockCategoryRepo *MockCategoryRepository
	service          portssvc.CategorySvcFacade
	hubID            string
	userID           string
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.service = services.NewCategoryService(suite.mockCategoryRepo)
	suite.hubID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *CategoryServiceTestSuite) category(name string, parentID *string) *domain.ExpenseCategory {
	return &domain.ExpenseCategory{
		CategoryID: uuid.NewString(),
		HubID:      suite.hubID,
		Name:       name,
		ParentID:   parentID,
		IsActive:   true,
	}
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_AppliesDefaults() {
	ctx := context.Background()
	req := dto.CreateCategoryRequest{Name: "Office"}

	var saved domain.ExpenseCategory
	suite.mockCategoryRepo.On("SaveCategory", ctx, mock.AnythingOfType("domain.ExpenseCategory")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.ExpenseCategory)
		}).Return(nil).Once()

	category, err := suite.service.CreateCategory(ctx, suite.hubID, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(category.CategoryID)
	suite.NotEmpty(saved.Icon, "a default icon is assigned")
	suite.NotEmpty(saved.Color, "a default color is assigned")
	suite.True(saved.IsActive)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_UnknownParent() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateCategoryRequest{Name: "Orphan", ParentID: &parentID}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.hubID, parentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateCategory(ctx, suite.hubID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "SaveCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_SelfParentRejected() {
	ctx := context.Background()
	cat := suite.category("Travel", nil)

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.hubID, cat.CategoryID).Return(cat, nil).Once()

	_, err := suite.service.UpdateCategory(ctx, suite.hubID, cat.CategoryID, dto.UpdateCategoryRequest{ParentID: &cat.CategoryID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_CycleRejected() {
	ctx := context.Background()
	// root -> child; moving root under child would create a cycle.
	root := suite.category("Root", nil)
	child := suite.category("Child", &root.CategoryID)

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.hubID, root.CategoryID).Return(root, nil)
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.hubID, child.CategoryID).Return(child, nil)

	_, err := suite.service.UpdateCategory(ctx, suite.hubID, root.CategoryID, dto.UpdateCategoryRequest{ParentID: &child.CategoryID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "UpdateCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_ReparentToEmptyStringMakesRoot() {
	ctx := context.Background()
	parent := suite.category("Parent", nil)
	cat := suite.category("Nested", &parent.CategoryID)
	empty := ""

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.hubID, cat.CategoryID).Return(cat, nil).Once()

	var updated domain.ExpenseCategory
	suite.mockCategoryRepo.On("UpdateCategory", ctx, mock.AnythingOfType("domain.ExpenseCategory")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.ExpenseCategory)
		}).Return(nil).Once()

	_, err := suite.service.UpdateCategory(ctx, suite.hubID, cat.CategoryID, dto.UpdateCategoryRequest{ParentID: &empty}, suite.userID)

	suite.Require().NoError(err)
	suite.Nil(updated.ParentID)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_WithChildrenRejected() {
	ctx := context.Background()
	cat := suite.category("Parent", nil)

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.hubID, cat.CategoryID).Return(cat, nil).Once()
	suite.mockCategoryRepo.On("CountChildren", ctx, suite.hubID, cat.CategoryID).Return(int64(2), nil).Once()

	err := suite.service.DeleteCategory(ctx, suite.hubID, cat.CategoryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrHasDependents)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "SoftDeleteCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_WithExpensesRejected() {
	ctx := context.Background()
	cat := suite.category("Used", nil)

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.hubID, cat.CategoryID).Return(cat, nil).Once()
	suite.mockCategoryRepo.On("CountChildren", ctx, suite.hubID, cat.CategoryID).Return(int64(0), nil).Once()
	suite.mockCategoryRepo.On("CountExpensesByCategory", ctx, suite.hubID, cat.CategoryID).Return(int64(7), nil).Once()

	err := suite.service.DeleteCategory(ctx, suite.hubID, cat.CategoryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrHasDependents)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_LeafSucceeds() {
	ctx := context.Background()
	cat := suite.category("Leaf", nil)

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.hubID, cat.CategoryID).Return(cat, nil).Once()
	suite.mockCategoryRepo.On("CountChildren", ctx, suite.hubID, cat.CategoryID).Return(int64(0), nil).Once()
	suite.mockCategoryRepo.On("CountExpensesByCategory", ctx, suite.hubID, cat.CategoryID).Return(int64(0), nil).Once()
	suite.mockCategoryRepo.On("SoftDeleteCategory", ctx, suite.hubID, cat.CategoryID, suite.userID).Return(nil).Once()

	err := suite.service.DeleteCategory(ctx, suite.hubID, cat.CategoryID, suite.userID)

	suite.Require().NoError(err)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestGetCategoryPath_RootFirst() {
	ctx := context.Background()
	root := suite.category("Root", nil)
	mid := suite.category("Mid", &root.CategoryID)
	leaf := suite.category("Leaf", &mid.CategoryID)

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.hubID, leaf.CategoryID).Return(leaf, nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.hubID, mid.CategoryID).Return(mid, nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.hubID, root.CategoryID).Return(root, nil).Once()

	path, err := suite.service.GetCategoryPath(ctx, suite.hubID, leaf.CategoryID)

	suite.Require().NoError(err)
	suite.Require().Len(path, 3)
	suite.Equal("Root", path[0].Name)
	suite.Equal("Mid", path[1].Name)
	suite.Equal("Leaf", path[2].Name)
}

// --- Run Test Suite ---
func TestCategoryService(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
