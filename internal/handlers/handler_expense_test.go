package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
	"github.com/hubexpenses/expense_hub_app/internal/handlers"
	"github.com/hubexpenses/expense_hub_app/pkg/config"
)

// --- Mock ExpenseService ---
type MockExpenseService struct {
	mock.Mock
}

var _ portssvc.ExpenseSvcFacade = (*MockExpenseService)(nil)

func (m *MockExpenseService) GetExpenseByID(ctx context.Context, hubID string, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) ListExpenses(ctx context.Context, hubID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	args := m.Called(ctx, hubID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListExpensesResponse), args.Error(1)
}

func (m *MockExpenseService) CreateExpense(ctx context.Context, hubID string, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) UpdateExpense(ctx context.Context, hubID string, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, expenseID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) SubmitExpense(ctx context.Context, hubID string, expenseID string, requestingUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, expenseID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) ApproveExpense(ctx context.Context, hubID string, expenseID string, approverUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, expenseID, approverUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) RejectExpense(ctx context.Context, hubID string, expenseID string, approverUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, expenseID, approverUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) MarkExpensePaid(ctx context.Context, hubID string, expenseID string, req dto.MarkExpensePaidRequest, requestingUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, hubID, expenseID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) DeleteExpense(ctx context.Context, hubID string, expenseID string, requestingUserID string) error {
	args := m.Called(ctx, hubID, expenseID, requestingUserID)
	return args.Error(0)
}

// --- Test Suite ---
type ExpenseHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockExpenseService *MockExpenseService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *ExpenseHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "eha-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ExpenseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.mockExpenseService = new(MockExpenseService)

	// IsProduction skips the swagger routes, which are not under test here.
	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}
	container := &portssvc.ServiceContainer{Expense: suite.mockExpenseService}
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func (suite *ExpenseHandlerTestSuite) doRequest(method, url, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_Success() {
	hubID := uuid.NewString()
	userID := uuid.NewString()

	reqBody := dto.CreateExpenseRequest{
		Title:       "Team lunch",
		Amount:      decimal.NewFromInt(80),
		ExpenseDate: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
	}
	created := &domain.Expense{
		ExpenseID:   uuid.NewString(),
		HubID:       hubID,
		Number:      "EXP-00001",
		Title:       reqBody.Title,
		Amount:      reqBody.Amount,
		TaxRate:     decimal.NewFromFloat(0.21),
		ExpenseDate: reqBody.ExpenseDate,
		Status:      domain.StatusApproved,
	}
	created.ComputeTotals(2)

	suite.mockExpenseService.On("CreateExpense",
		mock.Anything,
		hubID,
		mock.MatchedBy(func(req dto.CreateExpenseRequest) bool {
			return req.Title == reqBody.Title && req.Amount.Equal(reqBody.Amount)
		}),
		userID,
	).Return(created, nil).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/hubs/%s/expenses", hubID), userID, reqBody)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.ExpenseID, resp.ExpenseID)
	suite.Equal("EXP-00001", resp.Number)
	suite.Equal(domain.StatusApproved, resp.Status)

	suite.mockExpenseService.AssertExpectations(suite.T())
}

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_MissingAuth() {
	hubID := uuid.NewString()
	reqBody := dto.CreateExpenseRequest{
		Title:       "No token",
		Amount:      decimal.NewFromInt(5),
		ExpenseDate: time.Now().UTC(),
	}
	payload, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/hubs/%s/expenses", hubID), bytes.NewReader(payload))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockExpenseService.AssertNotCalled(suite.T(), "CreateExpense", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseHandlerTestSuite) TestGetExpense_NotFound() {
	hubID := uuid.NewString()
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.mockExpenseService.On("GetExpenseByID", mock.Anything, hubID, expenseID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/hubs/%s/expenses/%s", hubID, expenseID), userID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestApproveExpense_InvalidTransitionMapsToConflict() {
	hubID := uuid.NewString()
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.mockExpenseService.On("ApproveExpense", mock.Anything, hubID, expenseID, userID).
		Return(nil, fmt.Errorf("%w: cannot approve expense in status DRAFT", apperrors.ErrInvalidTransition)).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/hubs/%s/expenses/%s/approve", hubID, expenseID), userID, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_ValidationErrorMapsToBadRequest() {
	hubID := uuid.NewString()
	userID := uuid.NewString()

	reqBody := dto.CreateExpenseRequest{
		Title:       "Too much tax",
		Amount:      decimal.NewFromInt(10),
		ExpenseDate: time.Now().UTC(),
	}

	suite.mockExpenseService.On("CreateExpense", mock.Anything, hubID, mock.Anything, userID).
		Return(nil, fmt.Errorf("%w: tax rate must be between 0 and 1", apperrors.ErrValidation)).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/hubs/%s/expenses", hubID), userID, reqBody)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestMarkExpensePaid_Success() {
	hubID := uuid.NewString()
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	paid := &domain.Expense{
		ExpenseID: expenseID,
		HubID:     hubID,
		Number:    "EXP-00009",
		Status:    domain.StatusPaid,
	}
	reqBody := dto.MarkExpensePaidRequest{PaymentMethod: "bank_transfer", PaymentReference: "INV-42"}

	suite.mockExpenseService.On("MarkExpensePaid", mock.Anything, hubID, expenseID, reqBody, userID).Return(paid, nil).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/hubs/%s/expenses/%s/pay", hubID, expenseID), userID, reqBody)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.StatusPaid, resp.Status)
}

// --- Run Test Suite ---
func TestExpenseHandler(t *testing.T) {
	suite.Run(t, new(ExpenseHandlerTestSuite))
}
