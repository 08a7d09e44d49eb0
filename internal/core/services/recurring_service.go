package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
	"github.com/hubexpenses/expense_hub_app/internal/dto"
)

// schedulerUserID is recorded as the creator of expenses generated by the
// recurrence scheduler.
const schedulerUserID = "recurrence-scheduler"

// recurringService owns recurring expense templates and materializes
// concrete expenses from them through the expense engine's creation contract.
type recurringService struct {
	BaseService
	recurringRepo portsrepo.RecurringExpenseRepositoryFacade
	expenseSvc    portssvc.ExpenseWriterSvc
	settingsSvc   portssvc.SettingsSvcFacade
	categorySvc   portssvc.CategorySvcFacade
	supplierSvc   portssvc.SupplierSvcFacade
}

// NewRecurringService creates a new RecurringService.
func NewRecurringService(
	recurringRepo portsrepo.RecurringExpenseRepositoryFacade,
	expenseSvc portssvc.ExpenseWriterSvc,
	settingsSvc portssvc.SettingsSvcFacade,
	categorySvc portssvc.CategorySvcFacade,
	supplierSvc portssvc.SupplierSvcFacade,
) portssvc.RecurringSvcFacade {
	return &recurringService{
		recurringRepo: recurringRepo,
		expenseSvc:    expenseSvc,
		settingsSvc:   settingsSvc,
		categorySvc:   categorySvc,
		supplierSvc:   supplierSvc,
	}
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

func (s *recurringService) CreateRecurringExpense(ctx context.Context, hubID string, req dto.CreateRecurringExpenseRequest, creatorUserID string) (*domain.RecurringExpense, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrAmountNotPositive)
	}

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

	if err := s.validateRefs(ctx, hubID, req.CategoryID, req.SupplierID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recurring := domain.RecurringExpense{
		RecurringExpenseID: uuid.NewString(),
		HubID:              hubID,
		Title:              req.Title,
		CategoryID:         normalizeRef(req.CategoryID),
		SupplierID:         normalizeRef(req.SupplierID),
		Amount:             req.Amount,
		TaxRate:            taxRate,
		Frequency:          req.Frequency,
		NextDueDate:        req.NextDueDate,
		AutoCreate:         req.AutoCreate,
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.recurringRepo.SaveRecurringExpense(ctx, recurring); err != nil {
		s.LogError(ctx, err, "Failed to save recurring expense", "hub_id", hubID)
		return nil, fmt.Errorf("failed to create recurring expense: %w", err)
	}

	return &recurring, nil
}

func (s *recurringService) UpdateRecurringExpense(ctx context.Context, hubID string, recurringID string, req dto.UpdateRecurringExpenseRequest, requestingUserID string) (*domain.RecurringExpense, error) {
	recurring, err := s.recurringRepo.FindRecurringExpenseByID(ctx, hubID, recurringID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrAmountNotPositive)
		}
		recurring.Amount = *req.Amount
	}
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(one) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrTaxRateOutOfRange)
		}
		recurring.TaxRate = *req.TaxRate
	}
	if req.CategoryID != nil {
		ref := normalizeRef(req.CategoryID)
		if err := s.validateRefs(ctx, hubID, ref, nil); err != nil {
			return nil, err
		}
		recurring.CategoryID = ref
	}
	if req.SupplierID != nil {
		ref := normalizeRef(req.SupplierID)
		if err := s.validateRefs(ctx, hubID, nil, ref); err != nil {
			return nil, err
		}
		recurring.SupplierID = ref
	}
	if req.Title != nil {
		recurring.Title = *req.Title
	}
	if req.Frequency != nil {
		recurring.Frequency = *req.Frequency
	}
	if req.NextDueDate != nil {
		recurring.NextDueDate = *req.NextDueDate
	}
	if req.AutoCreate != nil {
		recurring.AutoCreate = *req.AutoCreate
	}
	if req.IsActive != nil {
		recurring.IsActive = *req.IsActive
	}

	recurring.LastUpdatedAt = time.Now().UTC()
	recurring.LastUpdatedBy = requestingUserID

	if err := s.recurringRepo.UpdateRecurringExpense(ctx, *recurring); err != nil {
		s.LogError(ctx, err, "Failed to update recurring expense", "recurring_id", recurringID)
		return nil, fmt.Errorf("failed to update recurring expense %s: %w", recurringID, err)
	}

	return recurring, nil
}

func (s *recurringService) DeleteRecurringExpense(ctx context.Context, hubID string, recurringID string, requestingUserID string) error {
	if _, err := s.recurringRepo.FindRecurringExpenseByID(ctx, hubID, recurringID); err != nil {
		return err
	}
	if err := s.recurringRepo.SoftDeleteRecurringExpense(ctx, hubID, recurringID, requestingUserID); err != nil {
		s.LogError(ctx, err, "Failed to delete recurring expense", "recurring_id", recurringID)
		return fmt.Errorf("failed to delete recurring expense %s: %w", recurringID, err)
	}
	return nil
}

func (s *recurringService) GetRecurringExpenseByID(ctx context.Context, hubID string, recurringID string) (*domain.RecurringExpense, error) {
	return s.recurringRepo.FindRecurringExpenseByID(ctx, hubID, recurringID)
}

func (s *recurringService) ListRecurringExpenses(ctx context.Context, hubID string, includeInactive bool) ([]domain.RecurringExpense, error) {
	templates, err := s.recurringRepo.ListRecurringExpenses(ctx, hubID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring expenses: %w", err)
	}
	if templates == nil {
		templates = []domain.RecurringExpense{}
	}
	return templates, nil
}

// ListDueManual returns the templates that are due but have autoCreate
// disabled; the UI surfaces them as generation prompts.
func (s *recurringService) ListDueManual(ctx context.Context, hubID string, asOf time.Time) ([]domain.RecurringExpense, error) {
	templates, err := s.recurringRepo.ListDueManual(ctx, hubID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due recurring expenses: %w", err)
	}
	if templates == nil {
		templates = []domain.RecurringExpense{}
	}
	return templates, nil
}

// Tick generates one expense for every due auto-create template and advances
// its schedule past asOf. A template whose generation fails keeps its due
// date, so the next tick retries it; one bad template never stops the run.
//
// Catch-up policy: after a long gap a template generates a single catch-up
// expense and its due date advances period by period until it is in the
// future. Missed intermediate periods are not backfilled.
func (s *recurringService) Tick(ctx context.Context, asOf time.Time) (*dto.TickResult, error) {
	templates, err := s.recurringRepo.ListDueAutoCreate(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due templates: %w", err)
	}

	result := &dto.TickResult{AsOf: asOf, Due: len(templates)}
	for i := range templates {
		tmpl := &templates[i]
		if err := s.generateAndAdvance(ctx, tmpl, asOf, schedulerUserID); err != nil {
			s.LogWarn(ctx, "Recurring expense generation failed",
				"recurring_id", tmpl.RecurringExpenseID,
				"hub_id", tmpl.HubID,
				"due_date", tmpl.NextDueDate.Format("2006-01-02"),
				"error", err.Error())
			result.Failures = append(result.Failures, dto.TickFailure{
				RecurringExpenseID: tmpl.RecurringExpenseID,
				HubID:              tmpl.HubID,
				Error:              err.Error(),
			})
			continue
		}
		result.Generated++
	}

	s.LogInfo(ctx, "Recurrence tick completed",
		"as_of", asOf.Format("2006-01-02"),
		"due", result.Due,
		"generated", result.Generated,
		"failed", len(result.Failures))
	return result, nil
}

// GenerateExpense creates one expense from a template on demand, regardless
// of the autoCreate flag, and advances the schedule by one period.
func (s *recurringService) GenerateExpense(ctx context.Context, hubID string, recurringID string, requestingUserID string) (*domain.Expense, error) {
	tmpl, err := s.recurringRepo.FindRecurringExpenseByID(ctx, hubID, recurringID)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, fmt.Errorf("%w: recurring expense is inactive", apperrors.ErrValidation)
	}

	expense, err := s.createFromTemplate(ctx, tmpl, requestingUserID)
	if err != nil {
		return nil, err
	}

	next := tmpl.NextDateAfter(tmpl.NextDueDate)
	if err := s.recurringRepo.AdvanceSchedule(ctx, tmpl.HubID, tmpl.RecurringExpenseID, tmpl.NextDueDate, next, time.Now().UTC()); err != nil {
		// The expense exists; a failed advance is surfaced rather than
		// rolled back so that the operator can fix the schedule.
		s.LogError(ctx, err, "Failed to advance schedule after manual generation", "recurring_id", recurringID)
		return nil, fmt.Errorf("expense %s created but schedule not advanced: %w", expense.ExpenseID, err)
	}

	return expense, nil
}

// generateAndAdvance creates the expense for one due template and moves its
// due date past asOf. The advance happens only after a successful creation,
// which is what makes Tick idempotent per template and due date.
func (s *recurringService) generateAndAdvance(ctx context.Context, tmpl *domain.RecurringExpense, asOf time.Time, userID string) error {
	expense, err := s.createFromTemplate(ctx, tmpl, userID)
	if err != nil {
		return err
	}

	next := tmpl.NextDateAfter(tmpl.NextDueDate)
	for !next.After(asOf) {
		next = tmpl.NextDateAfter(next)
	}

	if err := s.recurringRepo.AdvanceSchedule(ctx, tmpl.HubID, tmpl.RecurringExpenseID, tmpl.NextDueDate, next, asOf); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// A concurrent tick advanced the template first.
			s.LogWarn(ctx, "Schedule already advanced by concurrent tick",
				"recurring_id", tmpl.RecurringExpenseID)
			return nil
		}
		return fmt.Errorf("expense %s created but schedule not advanced: %w", expense.ExpenseID, err)
	}
	return nil
}

// createFromTemplate invokes the expense engine's creation contract exactly
// as a manual caller would, so generated expenses inherit the same numbering
// and approval-threshold behaviour.
func (s *recurringService) createFromTemplate(ctx context.Context, tmpl *domain.RecurringExpense, userID string) (*domain.Expense, error) {
	taxRate := tmpl.TaxRate
	req := dto.CreateExpenseRequest{
		Title:       tmpl.Title,
		CategoryID:  tmpl.CategoryID,
		SupplierID:  tmpl.SupplierID,
		Amount:      tmpl.Amount,
		TaxRate:     &taxRate,
		ExpenseDate: tmpl.NextDueDate,
	}
	return s.expenseSvc.CreateExpense(ctx, tmpl.HubID, req, userID)
}

// validateRefs checks optional category and supplier references against the hub.
func (s *recurringService) validateRefs(ctx context.Context, hubID string, categoryID, supplierID *string) error {
	if categoryID != nil && *categoryID != "" {
		if _, err := s.categorySvc.GetCategoryByID(ctx, hubID, *categoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: category %s not found in hub", apperrors.ErrValidation, *categoryID)
			}
			return err
		}
	}
	if supplierID != nil && *supplierID != "" {
		if _, err := s.supplierSvc.GetSupplierByID(ctx, hubID, *supplierID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: supplier %s not found in hub", apperrors.ErrValidation, *supplierID)
			}
			return err
		}
	}
	return nil
}
