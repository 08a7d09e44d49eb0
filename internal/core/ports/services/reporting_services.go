package services

import (
	"context"
	"time"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
)

// ReportingSvc defines the read-only reporting projections. It never mutates
// expense or supplier state.
type ReportingSvc interface {
	// GetDashboard returns the summary backing the expenses dashboard.
	GetDashboard(ctx context.Context, hubID string, today time.Time) (*domain.DashboardSummary, error)

	// GetPeriodReport aggregates a hub's expenses between from and to.
	GetPeriodReport(ctx context.Context, hubID string, from, to time.Time) (*domain.PeriodReport, error)
}
