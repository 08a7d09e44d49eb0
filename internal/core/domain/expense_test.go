package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
)

func TestExpenseStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.ExpenseStatus
		to     domain.ExpenseStatus
		want   bool
	}{
		{"draft to pending", domain.StatusDraft, domain.StatusPendingApproval, true},
		{"draft to approved", domain.StatusDraft, domain.StatusApproved, true},
		{"draft to paid", domain.StatusDraft, domain.StatusPaid, false},
		{"draft to rejected", domain.StatusDraft, domain.StatusRejected, false},
		{"pending to approved", domain.StatusPendingApproval, domain.StatusApproved, true},
		{"pending to rejected", domain.StatusPendingApproval, domain.StatusRejected, true},
		{"pending to paid", domain.StatusPendingApproval, domain.StatusPaid, false},
		{"pending to draft", domain.StatusPendingApproval, domain.StatusDraft, false},
		{"approved to paid", domain.StatusApproved, domain.StatusPaid, true},
		{"approved to draft", domain.StatusApproved, domain.StatusDraft, false},
		{"approved to rejected", domain.StatusApproved, domain.StatusRejected, false},
		{"rejected is terminal", domain.StatusRejected, domain.StatusDraft, false},
		{"paid is terminal", domain.StatusPaid, domain.StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestExpenseStatus_IsTerminal(t *testing.T) {
	assert.False(t, domain.StatusDraft.IsTerminal())
	assert.False(t, domain.StatusPendingApproval.IsTerminal())
	assert.False(t, domain.StatusApproved.IsTerminal())
	assert.True(t, domain.StatusRejected.IsTerminal())
	assert.True(t, domain.StatusPaid.IsTerminal())
}

func TestExpenseStatus_CountsTowardSupplier(t *testing.T) {
	assert.False(t, domain.StatusDraft.CountsTowardSupplier())
	assert.False(t, domain.StatusPendingApproval.CountsTowardSupplier())
	assert.True(t, domain.StatusApproved.CountsTowardSupplier())
	assert.False(t, domain.StatusRejected.CountsTowardSupplier())
	assert.True(t, domain.StatusPaid.CountsTowardSupplier())
}

func TestExpense_ComputeTotals(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		taxRate   string
		precision int32
		wantTax   string
		wantTotal string
	}{
		{"standard vat", "100", "0.21", 2, "21", "121"},
		{"rounded tax", "99.99", "0.21", 2, "21", "120.99"},
		{"half up rounding", "10.10", "0.075", 2, "0.76", "10.86"},
		{"zero rate", "50", "0", 2, "0", "50"},
		{"full rate", "80", "1", 2, "80", "160"},
		{"zero precision currency", "1000", "0.1", 0, "100", "1100"},
		{"three decimal currency", "12.345", "0.05", 3, "0.617", "12.962"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := domain.Expense{
				Amount:  decimal.RequireFromString(tt.amount),
				TaxRate: decimal.RequireFromString(tt.taxRate),
			}
			e.ComputeTotals(tt.precision)
			assert.True(t, decimal.RequireFromString(tt.wantTax).Equal(e.TaxAmount),
				"tax amount: want %s, got %s", tt.wantTax, e.TaxAmount)
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(e.Total),
				"total: want %s, got %s", tt.wantTotal, e.Total)
		})
	}
}
