package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySpendRow is one category's share of spend over a period.
type CategorySpendRow struct {
	CategoryID   string          `json:"categoryID"`
	CategoryName string          `json:"categoryName"`
	Color        string          `json:"color"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
}

// SupplierSpendRow is one supplier's share of spend over a period.
type SupplierSpendRow struct {
	SupplierID   string          `json:"supplierID"`
	SupplierName string          `json:"supplierName"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
}

// StatusBreakdownRow aggregates expenses by workflow status.
type StatusBreakdownRow struct {
	Status ExpenseStatus   `json:"status"`
	Total  decimal.Decimal `json:"total"`
	Count  int64           `json:"count"`
}

// MonthlyTrendRow is one month's aggregate in a period report.
type MonthlyTrendRow struct {
	Month time.Time       `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// DashboardSummary is the read projection backing the expenses dashboard.
type DashboardSummary struct {
	TotalThisMonth  decimal.Decimal    `json:"totalThisMonth"`
	CountThisMonth  int64              `json:"countThisMonth"`
	PendingApproval int64              `json:"pendingApproval"`
	ByCategory      []CategorySpendRow `json:"byCategory"`
	UpcomingDue     []RecurringExpense `json:"upcomingDue"`
	RecentExpenses  []Expense          `json:"recentExpenses"`
}

// PeriodReport aggregates expenses over an arbitrary period.
type PeriodReport struct {
	From       time.Time            `json:"from"`
	To         time.Time            `json:"to"`
	Total      decimal.Decimal      `json:"total"`
	TotalTax   decimal.Decimal      `json:"totalTax"`
	Count      int64                `json:"count"`
	ByStatus   []StatusBreakdownRow `json:"byStatus"`
	ByCategory []CategorySpendRow   `json:"byCategory"`
	BySupplier []SupplierSpendRow   `json:"bySupplier"`
	Trend      []MonthlyTrendRow    `json:"trend"`
}
