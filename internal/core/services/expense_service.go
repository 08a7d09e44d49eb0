package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
	"github.com/hubexpenses/expense_hub_app/internal/utils"
)

var (
	ErrAmountNotPositive = errors.New("expense amount must be positive")
	ErrTaxRateOutOfRange = errors.New("tax rate must be between 0 and 1")
)

const (
	defaultExpensePageSize = 25
	maxExpensePageSize     = 100
)

// expenseService is the expense engine: it owns the expense entity, its
// status state machine, tax/total computation, auto-numbering and the
// supplier totals effect.
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
	settingsSvc portssvc.SettingsSvcFacade
	categorySvc portssvc.CategorySvcFacade
	supplierSvc portssvc.SupplierSvcFacade
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	settingsSvc portssvc.SettingsSvcFacade,
	categorySvc portssvc.CategorySvcFacade,
	supplierSvc portssvc.SupplierSvcFacade,
) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo: expenseRepo,
		settingsSvc: settingsSvc,
		categorySvc: categorySvc,
		supplierSvc: supplierSvc,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// CreateExpense creates an expense: it computes tax and total from the hub's
// settings snapshot, lets the repository assign the next expense number
// atomically and evaluates the approval rule. The supplier totals effect is
// applied in the same database transaction when the expense auto-approves.
func (s *expenseService) CreateExpense(ctx context.Context, hubID string, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrAmountNotPositive)
	}

	// Settings snapshot: the whole operation uses this one read, so a
	// concurrent settings change can never apply partially.
	settings, err := s.settingsSvc.GetSettings(ctx, hubID)
	if err != nil {
		return nil, err
	}

	taxRate := settings.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(one) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrTaxRateOutOfRange)
	}

	categoryID, supplierID, err := s.resolveRefs(ctx, hubID, req.CategoryID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:        uuid.NewString(),
		HubID:            hubID,
		Title:            req.Title,
		Description:      req.Description,
		CategoryID:       categoryID,
		SupplierID:       supplierID,
		Amount:           req.Amount,
		TaxRate:          taxRate,
		ExpenseDate:      req.ExpenseDate,
		DueDate:          req.DueDate,
		Status:           domain.StatusDraft,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		ReceiptRef:       req.ReceiptRef,
		Notes:            req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	expense.ComputeTotals(utils.CurrencyPrecision(settings.Currency))

	var delta *portsrepo.SupplierTotalsDelta
	if !req.Draft {
		expense.Status = s.evaluateApproval(settings, expense.Total)
		if expense.Status == domain.StatusApproved {
			expense.ApprovedAt = &now
			expense.ApprovedBy = &creatorUserID
			delta = applyDelta(&expense)
		}
	}

	if err := s.expenseRepo.SaveExpense(ctx, &expense, delta); err != nil {
		s.LogError(ctx, err, "Failed to save expense", "hub_id", hubID)
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.LogInfo(ctx, "Expense created",
		"expense_id", expense.ExpenseID,
		"number", expense.Number,
		"status", string(expense.Status),
		"total", expense.Total.String())
	return &expense, nil
}

// evaluateApproval applies the threshold policy to a computed total. The
// comparison is inclusive: a total exactly at the threshold auto-approves.
func (s *expenseService) evaluateApproval(settings *domain.ExpenseSettings, total decimal.Decimal) domain.ExpenseStatus {
	if !settings.RequireApproval {
		return domain.StatusApproved
	}
	if total.LessThanOrEqual(settings.ApprovalThreshold) {
		return domain.StatusApproved
	}
	return domain.StatusPendingApproval
}

// SubmitExpense moves a draft into the workflow under the same threshold
// policy as creation.
func (s *expenseService) SubmitExpense(ctx context.Context, hubID string, expenseID string, requestingUserID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, hubID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: cannot submit expense in status %s", apperrors.ErrInvalidTransition, expense.Status)
	}

	settings, err := s.settingsSvc.GetSettings(ctx, hubID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var deltas []portsrepo.SupplierTotalsDelta
	expense.Status = s.evaluateApproval(settings, expense.Total)
	if expense.Status == domain.StatusApproved {
		expense.ApprovedAt = &now
		expense.ApprovedBy = &requestingUserID
		if d := applyDelta(expense); d != nil {
			deltas = append(deltas, *d)
		}
	}
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = requestingUserID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense, domain.StatusDraft, deltas); err != nil {
		return nil, err
	}
	return expense, nil
}

// ApproveExpense transitions a pending expense to approved and applies the
// supplier totals effect exactly once for the expense's lifetime.
func (s *expenseService) ApproveExpense(ctx context.Context, hubID string, expenseID string, approverUserID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, hubID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status != domain.StatusPendingApproval {
		return nil, fmt.Errorf("%w: cannot approve expense in status %s", apperrors.ErrInvalidTransition, expense.Status)
	}

	now := time.Now().UTC()
	expense.Status = domain.StatusApproved
	expense.ApprovedAt = &now
	expense.ApprovedBy = &approverUserID
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = approverUserID

	var deltas []portsrepo.SupplierTotalsDelta
	if d := applyDelta(expense); d != nil {
		deltas = append(deltas, *d)
	}

	if err := s.expenseRepo.UpdateExpense(ctx, *expense, domain.StatusPendingApproval, deltas); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Expense approved", "expense_id", expenseID, "approver", approverUserID)
	return expense, nil
}

// RejectExpense transitions a pending expense to rejected. Supplier totals
// are never touched on rejection.
func (s *expenseService) RejectExpense(ctx context.Context, hubID string, expenseID string, approverUserID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, hubID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status != domain.StatusPendingApproval {
		return nil, fmt.Errorf("%w: cannot reject expense in status %s", apperrors.ErrInvalidTransition, expense.Status)
	}

	now := time.Now().UTC()
	expense.Status = domain.StatusRejected
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = approverUserID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense, domain.StatusPendingApproval, nil); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Expense rejected", "expense_id", expenseID, "approver", approverUserID)
	return expense, nil
}

// MarkExpensePaid transitions an approved expense to paid. The supplier
// totals effect was already applied on approval and is not re-applied.
func (s *expenseService) MarkExpensePaid(ctx context.Context, hubID string, expenseID string, req dto.MarkExpensePaidRequest, requestingUserID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, hubID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status != domain.StatusApproved {
		return nil, fmt.Errorf("%w: cannot mark expense paid in status %s", apperrors.ErrInvalidTransition, expense.Status)
	}

	now := time.Now().UTC()
	expense.Status = domain.StatusPaid
	expense.PaidAt = &now
	expense.PaymentMethod = req.PaymentMethod
	expense.PaymentReference = req.PaymentReference
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = requestingUserID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense, domain.StatusApproved, nil); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Expense marked paid", "expense_id", expenseID)
	return expense, nil
}

// UpdateExpense edits an expense. Drafts and pending expenses may change
// freely. Once an expense has contributed to supplier totals, a financial
// change (amount, tax rate, supplier) reverses the old contribution and
// applies the new one within a single database transaction.
func (s *expenseService) UpdateExpense(ctx context.Context, hubID string, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, hubID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status == domain.StatusRejected {
		return nil, fmt.Errorf("%w: rejected expenses cannot be edited", apperrors.ErrInvalidTransition)
	}

	settings, err := s.settingsSvc.GetSettings(ctx, hubID)
	if err != nil {
		return nil, err
	}

	previous := *expense

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrAmountNotPositive)
		}
		expense.Amount = *req.Amount
	}
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(one) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrTaxRateOutOfRange)
		}
		expense.TaxRate = *req.TaxRate
	}
	if req.CategoryID != nil {
		categoryID, _, err := s.resolveRefs(ctx, hubID, normalizeRef(req.CategoryID), nil)
		if err != nil {
			return nil, err
		}
		expense.CategoryID = categoryID
	}
	if req.SupplierID != nil {
		_, supplierID, err := s.resolveRefs(ctx, hubID, nil, normalizeRef(req.SupplierID))
		if err != nil {
			return nil, err
		}
		expense.SupplierID = supplierID
	}
	if req.Title != nil {
		expense.Title = *req.Title
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.ExpenseDate != nil {
		expense.ExpenseDate = *req.ExpenseDate
	}
	if req.DueDate != nil {
		expense.DueDate = req.DueDate
	}
	if req.PaymentMethod != nil {
		expense.PaymentMethod = *req.PaymentMethod
	}
	if req.PaymentReference != nil {
		expense.PaymentReference = *req.PaymentReference
	}
	if req.ReceiptRef != nil {
		expense.ReceiptRef = *req.ReceiptRef
	}
	if req.Notes != nil {
		expense.Notes = *req.Notes
	}

	expense.ComputeTotals(utils.CurrencyPrecision(settings.Currency))

	now := time.Now().UTC()
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = requestingUserID

	var deltas []portsrepo.SupplierTotalsDelta
	if expense.Status.CountsTowardSupplier() && financialChange(&previous, expense) {
		if d := reverseDelta(&previous); d != nil {
			deltas = append(deltas, *d)
		}
		if d := applyDelta(expense); d != nil {
			deltas = append(deltas, *d)
		}
	}

	if err := s.expenseRepo.UpdateExpense(ctx, *expense, previous.Status, deltas); err != nil {
		return nil, err
	}

	return expense, nil
}

// DeleteExpense soft-deletes an expense, reversing the supplier totals
// effect when the expense had contributed to them.
func (s *expenseService) DeleteExpense(ctx context.Context, hubID string, expenseID string, requestingUserID string) error {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, hubID, expenseID)
	if err != nil {
		return err
	}

	var delta *portsrepo.SupplierTotalsDelta
	if expense.Status.CountsTowardSupplier() {
		delta = reverseDelta(expense)
	}

	expense.LastUpdatedAt = time.Now().UTC()
	expense.LastUpdatedBy = requestingUserID

	if err := s.expenseRepo.SoftDeleteExpense(ctx, *expense, delta); err != nil {
		s.LogError(ctx, err, "Failed to delete expense", "expense_id", expenseID)
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}

	return nil
}

func (s *expenseService) GetExpenseByID(ctx context.Context, hubID string, expenseID string) (*domain.Expense, error) {
	return s.expenseRepo.FindExpenseByID(ctx, hubID, expenseID)
}

func (s *expenseService) ListExpenses(ctx context.Context, hubID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultExpensePageSize
	}
	if limit > maxExpensePageSize {
		limit = maxExpensePageSize
	}

	filter := portsrepo.ExpenseFilter{
		Status:     params.Status,
		CategoryID: params.CategoryID,
		SupplierID: params.SupplierID,
		DateFrom:   params.DateFrom,
		DateTo:     params.DateTo,
		Search:     params.Search,
	}

	expenses, nextToken, err := s.expenseRepo.ListExpenses(ctx, hubID, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return &dto.ListExpensesResponse{
		Expenses:  dto.ToExpenseResponses(expenses),
		NextToken: nextToken,
	}, nil
}

// resolveRefs validates that optional category and supplier references exist
// within the hub. Cross-hub or dangling references fail validation before any
// mutation happens.
func (s *expenseService) resolveRefs(ctx context.Context, hubID string, categoryID, supplierID *string) (*string, *string, error) {
	if categoryID != nil {
		if _, err := s.categorySvc.GetCategoryByID(ctx, hubID, *categoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: category %s not found in hub", apperrors.ErrValidation, *categoryID)
			}
			return nil, nil, err
		}
	}
	if supplierID != nil {
		if _, err := s.supplierSvc.GetSupplierByID(ctx, hubID, *supplierID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: supplier %s not found in hub", apperrors.ErrValidation, *supplierID)
			}
			return nil, nil, err
		}
	}
	return categoryID, supplierID, nil
}

// financialChange reports whether an edit touched a field that feeds the
// supplier totals: amount, tax rate (both via total) or the supplier itself.
func financialChange(before, after *domain.Expense) bool {
	if !before.Total.Equal(after.Total) {
		return true
	}
	switch {
	case before.SupplierID == nil && after.SupplierID == nil:
		return false
	case before.SupplierID == nil || after.SupplierID == nil:
		return true
	default:
		return *before.SupplierID != *after.SupplierID
	}
}

// applyDelta builds the positive supplier totals adjustment for an expense,
// or nil when it has no supplier.
func applyDelta(e *domain.Expense) *portsrepo.SupplierTotalsDelta {
	if e.SupplierID == nil {
		return nil
	}
	purchaseDate := e.ExpenseDate
	return &portsrepo.SupplierTotalsDelta{
		SupplierID:   *e.SupplierID,
		Total:        e.Total,
		CountDelta:   1,
		PurchaseDate: &purchaseDate,
	}
}

// reverseDelta builds the adjustment that undoes a prior contribution.
func reverseDelta(e *domain.Expense) *portsrepo.SupplierTotalsDelta {
	if e.SupplierID == nil {
		return nil
	}
	return &portsrepo.SupplierTotalsDelta{
		SupplierID: *e.SupplierID,
		Total:      e.Total.Neg(),
		CountDelta: -1,
	}
}
