package domain

import "github.com/shopspring/decimal"

// ExpenseSettings is the per-hub expense configuration. There is exactly one
// row per hub; it is created on first read with defaults.
//
// NextNumberSeq is owned by the expense engine: it is only ever advanced as
// part of expense creation, never through a settings update.
type ExpenseSettings struct {
	HubID             string          `json:"hubID"`
	RequireApproval   bool            `json:"requireApproval"`
	ApprovalThreshold decimal.Decimal `json:"approvalThreshold"` // ignored when RequireApproval is false
	DefaultTaxRate    decimal.Decimal `json:"defaultTaxRate"`    // fraction in [0,1]
	Currency          string          `json:"currency"`          // ISO 4217 code
	NumberPrefix      string          `json:"numberPrefix"`
	NextNumberSeq     int64           `json:"nextNumberSeq"`
	AuditFields
}

// DefaultSettings returns the settings a hub starts with before any update.
func DefaultSettings(hubID string) ExpenseSettings {
	return ExpenseSettings{
		HubID:             hubID,
		RequireApproval:   false,
		ApprovalThreshold: decimal.Zero,
		DefaultTaxRate:    decimal.NewFromFloat(0.21),
		Currency:          "EUR",
		NumberPrefix:      "EXP",
		NextNumberSeq:     1,
	}
}
