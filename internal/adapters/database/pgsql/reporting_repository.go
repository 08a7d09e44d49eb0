package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	portsrepo "github.com/hubexpenses/expense_hub_app/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// reportedStatuses limits report aggregates to expenses that represent real
// spend. Drafts and rejected expenses are excluded everywhere.
const reportedStatuses = `('PENDING_APPROVAL', 'APPROVED', 'PAID')`

// GetDashboardSummary aggregates the hub's current month, its pending
// approvals, the category breakdown, upcoming recurring templates and the
// most recent expenses in a handful of small queries.
func (r *reportingRepository) GetDashboardSummary(ctx context.Context, hubID string, today time.Time) (*domain.DashboardSummary, error) {
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	summary := &domain.DashboardSummary{
		TotalThisMonth: decimal.Zero,
		ByCategory:     []domain.CategorySpendRow{},
		UpcomingDue:    []domain.RecurringExpense{},
		RecentExpenses: []domain.Expense{},
	}

	monthQuery := `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM expenses
		WHERE hub_id = $1 AND is_deleted = FALSE
			AND status IN ` + reportedStatuses + `
			AND expense_date >= $2 AND expense_date < $3;
	`
	if err := r.Pool.QueryRow(ctx, monthQuery, hubID, monthStart, monthEnd).Scan(&summary.TotalThisMonth, &summary.CountThisMonth); err != nil {
		return nil, fmt.Errorf("error querying month totals: %w", err)
	}

	pendingQuery := `
		SELECT COUNT(*)
		FROM expenses
		WHERE hub_id = $1 AND is_deleted = FALSE AND status = 'PENDING_APPROVAL';
	`
	if err := r.Pool.QueryRow(ctx, pendingQuery, hubID).Scan(&summary.PendingApproval); err != nil {
		return nil, fmt.Errorf("error querying pending approvals: %w", err)
	}

	byCategory, err := r.categorySpend(ctx, hubID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	summary.ByCategory = byCategory

	upcomingQuery := `
		SELECT recurring_expense_id, hub_id, title, category_id, supplier_id,
		       amount, tax_rate, frequency, next_due_date, auto_create, is_active, last_generated_date,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM recurring_expenses
		WHERE hub_id = $1 AND is_deleted = FALSE AND is_active = TRUE AND next_due_date <= $2
		ORDER BY next_due_date
		LIMIT 5;
	`
	upcomingRows, err := r.Pool.Query(ctx, upcomingQuery, hubID, today.AddDate(0, 0, 30))
	if err != nil {
		return nil, fmt.Errorf("error querying upcoming recurring expenses: %w", err)
	}
	defer upcomingRows.Close()
	for upcomingRows.Next() {
		var re domain.RecurringExpense
		if err := scanRecurring(upcomingRows, &re); err != nil {
			return nil, fmt.Errorf("error scanning upcoming recurring row: %w", err)
		}
		summary.UpcomingDue = append(summary.UpcomingDue, re)
	}
	if err := upcomingRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating upcoming recurring rows: %w", err)
	}

	recentQuery := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE hub_id = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC
		LIMIT 5;
	`
	recentRows, err := r.Pool.Query(ctx, recentQuery, hubID)
	if err != nil {
		return nil, fmt.Errorf("error querying recent expenses: %w", err)
	}
	defer recentRows.Close()
	for recentRows.Next() {
		var expense domain.Expense
		if err := scanExpense(recentRows, &expense); err != nil {
			return nil, fmt.Errorf("error scanning recent expense row: %w", err)
		}
		summary.RecentExpenses = append(summary.RecentExpenses, expense)
	}
	if err := recentRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent expense rows: %w", err)
	}

	return summary, nil
}

// GetPeriodReport aggregates a hub's expenses between from and to inclusive.
func (r *reportingRepository) GetPeriodReport(ctx context.Context, hubID string, from, to time.Time) (*domain.PeriodReport, error) {
	report := &domain.PeriodReport{
		From:       from,
		To:         to,
		Total:      decimal.Zero,
		TotalTax:   decimal.Zero,
		ByStatus:   []domain.StatusBreakdownRow{},
		ByCategory: []domain.CategorySpendRow{},
		BySupplier: []domain.SupplierSpendRow{},
		Trend:      []domain.MonthlyTrendRow{},
	}

	totalsQuery := `
		SELECT COALESCE(SUM(total), 0), COALESCE(SUM(tax_amount), 0), COUNT(*)
		FROM expenses
		WHERE hub_id = $1 AND is_deleted = FALSE
			AND status IN ` + reportedStatuses + `
			AND expense_date >= $2 AND expense_date <= $3;
	`
	if err := r.Pool.QueryRow(ctx, totalsQuery, hubID, from, to).Scan(&report.Total, &report.TotalTax, &report.Count); err != nil {
		return nil, fmt.Errorf("error querying period totals: %w", err)
	}

	statusQuery := `
		SELECT status, COALESCE(SUM(total), 0), COUNT(*)
		FROM expenses
		WHERE hub_id = $1 AND is_deleted = FALSE
			AND expense_date >= $2 AND expense_date <= $3
		GROUP BY status
		ORDER BY status;
	`
	statusRows, err := r.Pool.Query(ctx, statusQuery, hubID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying status breakdown: %w", err)
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var row domain.StatusBreakdownRow
		if err := statusRows.Scan(&row.Status, &row.Total, &row.Count); err != nil {
			return nil, fmt.Errorf("error scanning status breakdown row: %w", err)
		}
		report.ByStatus = append(report.ByStatus, row)
	}
	if err := statusRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status breakdown rows: %w", err)
	}

	byCategory, err := r.categorySpend(ctx, hubID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	report.ByCategory = byCategory

	supplierQuery := `
		SELECT s.supplier_id, s.name, COALESCE(SUM(e.total), 0), COUNT(*)
		FROM expenses e
		JOIN suppliers s ON e.supplier_id = s.supplier_id
		WHERE e.hub_id = $1 AND e.is_deleted = FALSE
			AND e.status IN ` + reportedStatuses + `
			AND e.expense_date >= $2 AND e.expense_date <= $3
		GROUP BY s.supplier_id, s.name
		ORDER BY SUM(e.total) DESC;
	`
	supplierRows, err := r.Pool.Query(ctx, supplierQuery, hubID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying supplier breakdown: %w", err)
	}
	defer supplierRows.Close()
	for supplierRows.Next() {
		var row domain.SupplierSpendRow
		if err := supplierRows.Scan(&row.SupplierID, &row.SupplierName, &row.Total, &row.Count); err != nil {
			return nil, fmt.Errorf("error scanning supplier breakdown row: %w", err)
		}
		report.BySupplier = append(report.BySupplier, row)
	}
	if err := supplierRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplier breakdown rows: %w", err)
	}

	trendQuery := `
		SELECT date_trunc('month', expense_date) AS month, COALESCE(SUM(total), 0), COUNT(*)
		FROM expenses
		WHERE hub_id = $1 AND is_deleted = FALSE
			AND status IN ` + reportedStatuses + `
			AND expense_date >= $2 AND expense_date <= $3
		GROUP BY month
		ORDER BY month;
	`
	trendRows, err := r.Pool.Query(ctx, trendQuery, hubID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying monthly trend: %w", err)
	}
	defer trendRows.Close()
	for trendRows.Next() {
		var row domain.MonthlyTrendRow
		if err := trendRows.Scan(&row.Month, &row.Total, &row.Count); err != nil {
			return nil, fmt.Errorf("error scanning monthly trend row: %w", err)
		}
		report.Trend = append(report.Trend, row)
	}
	if err := trendRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly trend rows: %w", err)
	}

	return report, nil
}

// categorySpend aggregates spend per category for expense_date in [from, to).
// Uncategorized expenses are grouped under an empty category ID.
func (r *reportingRepository) categorySpend(ctx context.Context, hubID string, from, to time.Time) ([]domain.CategorySpendRow, error) {
	query := `
		SELECT COALESCE(c.category_id, ''), COALESCE(c.name, 'Uncategorized'), COALESCE(c.color, ''),
		       COALESCE(SUM(e.total), 0), COUNT(*)
		FROM expenses e
		LEFT JOIN expense_categories c ON e.category_id = c.category_id
		WHERE e.hub_id = $1 AND e.is_deleted = FALSE
			AND e.status IN ` + reportedStatuses + `
			AND e.expense_date >= $2 AND e.expense_date < $3
		GROUP BY c.category_id, c.name, c.color
		ORDER BY SUM(e.total) DESC;
	`
	rows, err := r.Pool.Query(ctx, query, hubID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying category spend: %w", err)
	}
	defer rows.Close()

	result := []domain.CategorySpendRow{}
	for rows.Next() {
		var row domain.CategorySpendRow
		if err := rows.Scan(&row.CategoryID, &row.CategoryName, &row.Color, &row.Total, &row.Count); err != nil {
			return nil, fmt.Errorf("error scanning category spend row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category spend rows: %w", err)
	}
	return result, nil
}
