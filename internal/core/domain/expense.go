package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus indicates where an expense sits in the approval workflow.
type ExpenseStatus string

const (
	StatusDraft           ExpenseStatus = "DRAFT"
	StatusPendingApproval ExpenseStatus = "PENDING_APPROVAL"
	StatusApproved        ExpenseStatus = "APPROVED"
	StatusRejected        ExpenseStatus = "REJECTED"
	StatusPaid            ExpenseStatus = "PAID"
)

// allowedTransitions encodes the approval state machine. Rejected and Paid
// are terminal; there are no backward edges.
var allowedTransitions = map[ExpenseStatus][]ExpenseStatus{
	StatusDraft:           {StatusPendingApproval, StatusApproved},
	StatusPendingApproval: {StatusApproved, StatusRejected},
	StatusApproved:        {StatusPaid},
}

// CanTransitionTo reports whether the status change from s to target follows
// an allowed state machine edge.
func (s ExpenseStatus) CanTransitionTo(target ExpenseStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s ExpenseStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CountsTowardSupplier reports whether an expense in this status contributes
// to its supplier's running totals.
func (s ExpenseStatus) CountsTowardSupplier() bool {
	return s == StatusApproved || s == StatusPaid
}

// Expense is the main expense record.
type Expense struct {
	ExpenseID   string  `json:"expenseID"` // Primary Key (UUID)
	HubID       string  `json:"hubID"`
	Number      string  `json:"number"` // Unique per hub, assigned at creation, never editable
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CategoryID  *string `json:"categoryID"` // Nullable FK, same hub
	SupplierID  *string `json:"supplierID"` // Nullable FK, same hub

	Amount    decimal.Decimal `json:"amount"`    // Net amount, > 0
	TaxRate   decimal.Decimal `json:"taxRate"`   // Fraction in [0,1]
	TaxAmount decimal.Decimal `json:"taxAmount"` // Derived, see ComputeTotals
	Total     decimal.Decimal `json:"total"`     // Derived, see ComputeTotals

	ExpenseDate time.Time  `json:"expenseDate"`
	DueDate     *time.Time `json:"dueDate"`

	Status ExpenseStatus `json:"status"`

	PaymentMethod    string `json:"paymentMethod"`
	PaymentReference string `json:"paymentReference"` // Invoice/receipt number from the supplier
	ReceiptRef       string `json:"receiptRef"`       // Opaque blob reference, storage is external

	Notes string `json:"notes"`

	ApprovedBy *string    `json:"approvedBy"`
	ApprovedAt *time.Time `json:"approvedAt"`
	PaidAt     *time.Time `json:"paidAt"`
	AuditFields
}

// ComputeTotals sets TaxAmount and Total from Amount and TaxRate, rounding the
// tax to the given currency precision. The two derived fields are always
// recomputed together and are never settable independently.
func (e *Expense) ComputeTotals(precision int32) {
	e.TaxAmount = e.Amount.Mul(e.TaxRate).Round(precision)
	e.Total = e.Amount.Add(e.TaxAmount)
}
