package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hubexpenses/expense_hub_app/internal/apperrors"
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
	portssvc "github.com/hubexpenses/expense_hub_app/internal/core/ports/services"
)

// reportingService serves the dashboard and period report projections. All
// aggregation happens in SQL; this layer validates inputs and logs.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvc {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

func (s *reportingService) GetDashboard(ctx context.Context, hubID string, today time.Time) (*domain.DashboardSummary, error) {
	summary, err := s.reportingRepo.GetDashboardSummary(ctx, hubID, today)
	if err != nil {
		s.LogError(ctx, err, "Failed to build dashboard summary", "hub_id", hubID)
		return nil, fmt.Errorf("failed to build dashboard summary: %w", err)
	}
	return summary, nil
}

func (s *reportingService) GetPeriodReport(ctx context.Context, hubID string, from, to time.Time) (*domain.PeriodReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: report period end precedes start", apperrors.ErrValidation)
	}
	report, err := s.reportingRepo.GetPeriodReport(ctx, hubID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to build period report",
			"hub_id", hubID,
			"from", from.Format("2006-01-02"),
			"to", to.Format("2006-01-02"))
		return nil, fmt.Errorf("failed to build period report: %w", err)
	}
	return report, nil
}
