package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

// --- Mock RecurringExpenseRepository ---
type MockRecurringRepository struct {
	mock.Mock
}

var _ portsrepo.RecurringExpenseRepositoryFacade = (*MockRecurringRepository)(nil)

func (m *MockRecurringRepository) FindRecurringExpenseByID(ctx context.Context, hubID string, recurringID string) (*domain.RecurringExpense, error) {
	args := m.Called(ctx, hubID, recurringID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringExpense), args.Error(1)
}

func (m *MockRecurringRepository) ListRecurringExpenses(ctx context.Context, hubID string, includeInactive bool) ([]domain.RecurringExpense, error) {
	args := m.Called(ctx, hubID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringExpense), args.Error(1)
}

func (m *MockRecurringRepository) ListDueAutoCreate(ctx context.Context, asOf time.Time) ([]domain.RecurringExpense, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringExpense), args.Error(1)
}

func (m *MockRecurringRepository) ListDueManual(ctx context.Context, hubID string, asOf time.Time) ([]domain.RecurringExpense, error) {
	args := m.Called(ctx, hubID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringExpense), args.Error(1)
}

func (m *MockRecurringRepository) SaveRecurringExpense(ctx context.Context, recurring domain.RecurringExpense) error {
	args := m.Called(ctx, recurring)
	return args.Error(0)
}

func (m *MockRecurringRepository) UpdateRecurringExpense(ctx context.Context, recurring domain.RecurringExpense) error {
	args := m.Called(ctx, recurring)
	return args.Error(0)
}

func (m *MockRecurringRepository) SoftDeleteRecurringExpense(ctx context.Context, hubID string, recurringID string, deletedBy string) error {
	args := m.Called(ctx, hubID, recurringID, deletedBy)
	return args.Error(0)
}

func (m *MockRecurringRepository) AdvanceSchedule(ctx context.Context, hubID string, recurringID string, expectedDue time.Time, nextDue time.Time, generatedOn time.Time) error {
	args := m.Called(ctx, hubID, recurringID, expectedDue, nextDue, generatedOn)
	return args.Error(0)
}

// --- Mock ExpenseWriterService ---
type MockExpenseWriterService struct {
	mock.Mock
}

var _ portssvc.ExpenseWriterSvc = (*MockExpenseWriterService)(nil)

func (m *MockExpenseWriterService) CreateExpense(ctx context.Context, hubID string, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseWriterService) UpdateExpense(ctx context.Context, hubID string, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, expenseID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseWriterService) SubmitExpense(ctx context.Context, hubID string, expenseID string, requestingUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, expenseID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseWriterService) ApproveExpense(ctx context.Context, hubID string, expenseID string, approverUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, expenseID, approverUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseWriterService) RejectExpense(ctx context.Context, hubID string, expenseID string, approverUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, expenseID, approverUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseWriterService) MarkExpensePaid(ctx context.Context, hubID string, expenseID string, req dto.MarkExpensePaidRequest, requestingUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, expenseID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseWriterService) DeleteExpense(ctx context.Context, hubID string, expenseID string, requestingUserID string) error {
	args := m.Called(ctx, hubID, expenseID, requestingUserID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type RecurringServiceTestSuite struct {
	suite.Suite
	mockRecurringRepo *MockRecurringRepository
	mockExpenseSvc    *MockExpenseWriterService
	mockSettingsSvc   *MockSettingsService
	mockCategorySvc   *MockCategoryService
	mockSupplierSvc   *MockSupplierService
	service           portssvc.RecurringSvcFacade
	hubID             string
	userID            string
}

func (suite *RecurringServiceTestSuite) SetupTest() {
	suite.mockRecurringRepo = new(MockRecurringRepository)
	suite.mockExpenseSvc = new(MockExpenseWriterService)
	suite.mockSettingsSvc = new(MockSettingsService)
	suite.mockCategorySvc = new(MockCategoryService)
	suite.mockSupplierSvc = new(MockSupplierService)
	suite.service = services.NewRecurringService(
		suite.mockRecurringRepo,
		suite.mockExpenseSvc,
		suite.mockSettingsSvc,
		suite.mockCategorySvc,
		suite.mockSupplierSvc,
	)

	suite.hubID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *RecurringServiceTestSuite) template(due time.Time, freq domain.RecurrenceFrequency) domain.RecurringExpense {
	return domain.RecurringExpense{
		RecurringExpenseID: uuid.NewString(),
		HubID:              suite.hubID,
		Title:              "Office rent",
		Amount:             decimal.NewFromInt(1200),
		TaxRate:            decimal.NewFromFloat(0.21),
		Frequency:          freq,
		NextDueDate:        due,
		AutoCreate:         true,
		IsActive:           true,
	}
}

func (suite *RecurringServiceTestSuite) generatedExpense() *domain.Expense {
	return &domain.Expense{
		ExpenseID: uuid.NewString(),
		HubID:     suite.hubID,
		Number:    "EXP-00007",
		Status:    domain.StatusApproved,
	}
}

// --- Tick ---

func (suite *RecurringServiceTestSuite) TestTick_GeneratesAndAdvances() {
	ctx := context.Background()
	asOf := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	tmpl := suite.template(due, domain.FrequencyMonthly)

	suite.mockRecurringRepo.On("ListDueAutoCreate", ctx, asOf).Return([]domain.RecurringExpense{tmpl}, nil).Once()

	var createReq dto.CreateExpenseRequest
	suite.mockExpenseSvc.On("CreateExpense", ctx, suite.hubID, mock.AnythingOfType("dto.CreateExpenseRequest"), "recurrence-scheduler").
		Run(func(args mock.Arguments) {
			createReq = args.Get(2).(dto.CreateExpenseRequest)
		}).Return(suite.generatedExpense(), nil).Once()

	wantNext := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	suite.mockRecurringRepo.On("AdvanceSchedule", ctx, suite.hubID, tmpl.RecurringExpenseID, due, wantNext, asOf).Return(nil).Once()

	result, err := suite.service.Tick(ctx, asOf)

	suite.Require().NoError(err)
	suite.Equal(1, result.Due)
	suite.Equal(1, result.Generated)
	suite.Empty(result.Failures)

	suite.Equal(tmpl.Title, createReq.Title)
	suite.True(tmpl.Amount.Equal(createReq.Amount))
	suite.Require().NotNil(createReq.TaxRate)
	suite.True(tmpl.TaxRate.Equal(*createReq.TaxRate))
	suite.True(due.Equal(createReq.ExpenseDate), "generated expense is dated on the due date")

	suite.mockRecurringRepo.AssertExpectations(suite.T())
	suite.mockExpenseSvc.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestTick_LongGapAdvancesPastAsOfWithoutBackfill() {
	ctx := context.Background()
	// Template last due in January, tick runs mid April: one catch-up expense,
	// schedule jumps to May.
	asOf := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	tmpl := suite.template(due, domain.FrequencyMonthly)

	suite.mockRecurringRepo.On("ListDueAutoCreate", ctx, asOf).Return([]domain.RecurringExpense{tmpl}, nil).Once()
	suite.mockExpenseSvc.On("CreateExpense", ctx, suite.hubID, mock.Anything, "recurrence-scheduler").Return(suite.generatedExpense(), nil).Once()

	// Jan 31 -> Feb 29 -> Mar 29 -> Apr 29 (first date after asOf).
	wantNext := time.Date(2024, time.April, 29, 0, 0, 0, 0, time.UTC)
	suite.mockRecurringRepo.On("AdvanceSchedule", ctx, suite.hubID, tmpl.RecurringExpenseID, due, wantNext, asOf).Return(nil).Once()

	result, err := suite.service.Tick(ctx, asOf)

	suite.Require().NoError(err)
	suite.Equal(1, result.Generated)
	suite.mockExpenseSvc.AssertNumberOfCalls(suite.T(), "CreateExpense", 1)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestTick_FailedGenerationKeepsDueDate() {
	ctx := context.Background()
	asOf := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	failing := suite.template(asOf, domain.FrequencyMonthly)
	failing.Title = "Broken subscription"
	healthy := suite.template(asOf, domain.FrequencyWeekly)
	healthy.Title = "Cleaning service"

	suite.mockRecurringRepo.On("ListDueAutoCreate", ctx, asOf).Return([]domain.RecurringExpense{failing, healthy}, nil).Once()

	suite.mockExpenseSvc.On("CreateExpense", ctx, suite.hubID, mock.MatchedBy(func(req dto.CreateExpenseRequest) bool {
		return req.Title == failing.Title
	}), "recurrence-scheduler").Return(nil, assert.AnError).Once()
	suite.mockExpenseSvc.On("CreateExpense", ctx, suite.hubID, mock.MatchedBy(func(req dto.CreateExpenseRequest) bool {
		return req.Title == healthy.Title
	}), "recurrence-scheduler").Return(suite.generatedExpense(), nil).Once()

	suite.mockRecurringRepo.On("AdvanceSchedule", ctx, suite.hubID, healthy.RecurringExpenseID, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.Tick(ctx, asOf)

	suite.Require().NoError(err, "one bad template never fails the whole run")
	suite.Equal(2, result.Due)
	suite.Equal(1, result.Generated)
	suite.Require().Len(result.Failures, 1)
	suite.Equal(failing.RecurringExpenseID, result.Failures[0].RecurringExpenseID)

	// The failing template's schedule must not advance.
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "AdvanceSchedule",
		mock.Anything, mock.Anything, failing.RecurringExpenseID, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestTick_ConcurrentAdvanceTreatedAsSuccess() {
	ctx := context.Background()
	asOf := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	tmpl := suite.template(asOf, domain.FrequencyMonthly)

	suite.mockRecurringRepo.On("ListDueAutoCreate", ctx, asOf).Return([]domain.RecurringExpense{tmpl}, nil).Once()
	suite.mockExpenseSvc.On("CreateExpense", ctx, suite.hubID, mock.Anything, "recurrence-scheduler").Return(suite.generatedExpense(), nil).Once()
	suite.mockRecurringRepo.On("AdvanceSchedule", ctx, suite.hubID, tmpl.RecurringExpenseID, mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()

	result, err := suite.service.Tick(ctx, asOf)

	suite.Require().NoError(err)
	suite.Equal(1, result.Generated, "losing the advance race still counts as generated")
	suite.Empty(result.Failures)
}

// --- GenerateExpense ---

func (suite *RecurringServiceTestSuite) TestGenerateExpense_AdvancesOnePeriod() {
	ctx := context.Background()
	due := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	tmpl := suite.template(due, domain.FrequencyQuarterly)
	tmpl.AutoCreate = false

	suite.mockRecurringRepo.On("FindRecurringExpenseByID", ctx, suite.hubID, tmpl.RecurringExpenseID).Return(&tmpl, nil).Once()
	suite.mockExpenseSvc.On("CreateExpense", ctx, suite.hubID, mock.Anything, suite.userID).Return(suite.generatedExpense(), nil).Once()

	wantNext := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	suite.mockRecurringRepo.On("AdvanceSchedule", ctx, suite.hubID, tmpl.RecurringExpenseID, due, wantNext, mock.AnythingOfType("time.Time")).Return(nil).Once()

	expense, err := suite.service.GenerateExpense(ctx, suite.hubID, tmpl.RecurringExpenseID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(expense)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestGenerateExpense_InactiveTemplate() {
	ctx := context.Background()
	tmpl := suite.template(time.Now().UTC(), domain.FrequencyMonthly)
	tmpl.IsActive = false

	suite.mockRecurringRepo.On("FindRecurringExpenseByID", ctx, suite.hubID, tmpl.RecurringExpenseID).Return(&tmpl, nil).Once()

	_, err := suite.service.GenerateExpense(ctx, suite.hubID, tmpl.RecurringExpenseID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockExpenseSvc.AssertNotCalled(suite.T(), "CreateExpense", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestGenerateExpense_AdvanceFailureSurfaces() {
	ctx := context.Background()
	tmpl := suite.template(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), domain.FrequencyMonthly)

	suite.mockRecurringRepo.On("FindRecurringExpenseByID", ctx, suite.hubID, tmpl.RecurringExpenseID).Return(&tmpl, nil).Once()
	suite.mockExpenseSvc.On("CreateExpense", ctx, suite.hubID, mock.Anything, suite.userID).Return(suite.generatedExpense(), nil).Once()
	suite.mockRecurringRepo.On("AdvanceSchedule", ctx, suite.hubID, tmpl.RecurringExpenseID, mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.GenerateExpense(ctx, suite.hubID, tmpl.RecurringExpenseID, suite.userID)

	suite.Require().Error(err, "manual generation surfaces the advance failure")
	suite.ErrorIs(err, apperrors.ErrConflict)
}

// --- CRUD ---

func (suite *RecurringServiceTestSuite) TestListDueManual_ReturnsDueTemplates() {
	ctx := context.Background()
	asOf := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	due := suite.template(time.Date(2024, time.May, 28, 0, 0, 0, 0, time.UTC), domain.FrequencyMonthly)
	due.AutoCreate = false

	suite.mockRecurringRepo.On("ListDueManual", ctx, suite.hubID, asOf).
		Return([]domain.RecurringExpense{due}, nil).Once()

	templates, err := suite.service.ListDueManual(ctx, suite.hubID, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(templates, 1)
	suite.Equal(due.RecurringExpenseID, templates[0].RecurringExpenseID)
	suite.mockExpenseSvc.AssertNotCalled(suite.T(), "CreateExpense", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestCreateRecurringExpense_UsesDefaultTaxRate() {
	ctx := context.Background()
	settings := &domain.ExpenseSettings{
		HubID:          suite.hubID,
		DefaultTaxRate: decimal.NewFromFloat(0.1),
		Currency:       "EUR",
	}
	req := dto.CreateRecurringExpenseRequest{
		Title:       "Cloud hosting",
		Amount:      decimal.NewFromInt(45),
		Frequency:   domain.FrequencyMonthly,
		NextDueDate: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		AutoCreate:  true,
	}

	suite.mockSettingsSvc.On("GetSettings", ctx, suite.hubID).Return(settings, nil).Once()

	var saved domain.RecurringExpense
	suite.mockRecurringRepo.On("SaveRecurringExpense", ctx, mock.AnythingOfType("domain.RecurringExpense")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.RecurringExpense)
		}).Return(nil).Once()

	recurring, err := suite.service.CreateRecurringExpense(ctx, suite.hubID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(settings.DefaultTaxRate.Equal(recurring.TaxRate))
	suite.True(saved.IsActive)
	suite.Equal(suite.userID, saved.CreatedBy)
}

func (suite *RecurringServiceTestSuite) TestCreateRecurringExpense_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateRecurringExpenseRequest{
		Title:     "Nothing",
		Amount:    decimal.NewFromInt(-5),
		Frequency: domain.FrequencyMonthly,
	}

	_, err := suite.service.CreateRecurringExpense(ctx, suite.hubID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SaveRecurringExpense", mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestDeleteRecurringExpense_NotFound() {
	ctx := context.Background()
	missingID := uuid.NewString()

	suite.mockRecurringRepo.On("FindRecurringExpenseByID", ctx, suite.hubID, missingID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteRecurringExpense(ctx, suite.hubID, missingID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Test Suite ---
func TestRecurringService(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}
