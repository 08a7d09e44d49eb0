package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/core/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// --- Mock SettingsRepository ---
type MockSettingsRepository struct {
	mock.Mock
}

var _ portsrepo.SettingsRepository = (*MockSettingsRepository)(nil)

func (m *MockSettingsRepository) FindSettingsByHub(ctx context.Context, hubID string) (*domain.ExpenseSettings, error) {
	args := m.Called(ctx, hubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseSettings), args.Error(1)
}

func (m *MockSettingsRepository) SaveSettings(ctx context.Context, settings domain.ExpenseSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) UpdateSettings(ctx context.Context, settings domain.ExpenseSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// --- Test Suite Setup ---
type SettingsServiceTestSuite struct {
	suite.Suite
	mockSettingsRepo *MockSettingsRepository
	service          portssvc.SettingsSvcFacade
	hubID            string
	userID           string
}

func (suite *SettingsServiceTestSuite) SetupTest() {
	suite.mockSettingsRepo = new(MockSettingsRepository)
	suite.service = services.NewSettingsService(suite.mockSettingsRepo)
	suite.hubID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *SettingsServiceTestSuite) TestGetSettings_CreatesDefaultsOnFirstAccess() {
	ctx := context.Background()

	suite.mockSettingsRepo.On("FindSettingsByHub", ctx, suite.hubID).Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.ExpenseSettings
	suite.mockSettingsRepo.On("SaveSettings", ctx, mock.AnythingOfType("domain.ExpenseSettings")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.ExpenseSettings)
		}).Return(nil).Once()

	settings, err := suite.service.GetSettings(ctx, suite.hubID)

	suite.Require().NoError(err)
	suite.Equal(suite.hubID, settings.HubID)
	suite.Equal(int64(1), saved.NextNumberSeq, "numbering starts at 1")
	suite.NotEmpty(saved.NumberPrefix)
	suite.mockSettingsRepo.AssertExpectations(suite.T())
}

func (suite *SettingsServiceTestSuite) TestGetSettings_ConcurrentFirstAccessFallsBackToRead() {
	ctx := context.Background()
	existing := domain.DefaultSettings(suite.hubID)

	suite.mockSettingsRepo.On("FindSettingsByHub", ctx, suite.hubID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSettingsRepo.On("SaveSettings", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	suite.mockSettingsRepo.On("FindSettingsByHub", ctx, suite.hubID).Return(&existing, nil).Once()

	settings, err := suite.service.GetSettings(ctx, suite.hubID)

	suite.Require().NoError(err)
	suite.Equal(suite.hubID, settings.HubID)
	suite.mockSettingsRepo.AssertExpectations(suite.T())
}

func (suite *SettingsServiceTestSuite) TestUpdateSettings_PartialUpdate() {
	ctx := context.Background()
	existing := domain.DefaultSettings(suite.hubID)
	threshold := decimal.NewFromInt(250)
	requireApproval := true
	req := dto.UpdateSettingsRequest{RequireApproval: &requireApproval, ApprovalThreshold: &threshold}

	suite.mockSettingsRepo.On("FindSettingsByHub", ctx, suite.hubID).Return(&existing, nil).Once()

	var updated domain.ExpenseSettings
	suite.mockSettingsRepo.On("UpdateSettings", ctx, mock.AnythingOfType("domain.ExpenseSettings")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.ExpenseSettings)
		}).Return(nil).Once()

	settings, err := suite.service.UpdateSettings(ctx, suite.hubID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(settings.RequireApproval)
	suite.True(threshold.Equal(settings.ApprovalThreshold))
	suite.Equal(existing.Currency, updated.Currency, "unset fields keep their values")
	suite.Equal(suite.userID, updated.LastUpdatedBy)
}

func (suite *SettingsServiceTestSuite) TestUpdateSettings_NegativeThresholdRejected() {
	ctx := context.Background()
	existing := domain.DefaultSettings(suite.hubID)
	negative := decimal.NewFromInt(-1)

	suite.mockSettingsRepo.On("FindSettingsByHub", ctx, suite.hubID).Return(&existing, nil).Once()

	_, err := suite.service.UpdateSettings(ctx, suite.hubID, dto.UpdateSettingsRequest{ApprovalThreshold: &negative}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSettingsRepo.AssertNotCalled(suite.T(), "UpdateSettings", mock.Anything, mock.Anything)
}

func (suite *SettingsServiceTestSuite) TestUpdateSettings_TaxRateAboveOneRejected() {
	ctx := context.Background()
	existing := domain.DefaultSettings(suite.hubID)
	tooHigh := decimal.NewFromInt(2)

	suite.mockSettingsRepo.On("FindSettingsByHub", ctx, suite.hubID).Return(&existing, nil).Once()

	_, err := suite.service.UpdateSettings(ctx, suite.hubID, dto.UpdateSettingsRequest{DefaultTaxRate: &tooHigh}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Run Test Suite ---
func TestSettingsService(t *testing.T) {
	suite.Run(t, new(SettingsServiceTestSuite))
}
