package repositories

import (
	"context"
	"time"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
)

// ReportingRepository defines the read-only aggregation queries backing the
// dashboard and period reports. It never writes.
type ReportingRepository interface {
	// GetDashboardSummary aggregates the current month's spend, pending
	// approvals, category breakdown, upcoming recurring templates and recent
	// expenses for a hub.
	GetDashboardSummary(ctx context.Context, hubID string, today time.Time) (*domain.DashboardSummary, error)

	// GetPeriodReport aggregates expenses between from and to inclusive.
	GetPeriodReport(ctx context.Context, hubID string, from, to time.Time) (*domain.PeriodReport, error)
}
