package dto

import (
	"github.com/hubexpenses/expense_hub_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest defines the payload for updating a hub's expense
// settings. Only set fields are applied. The number sequence cannot be set
// here; it is owned by the expense engine.
type UpdateSettingsRequest struct {
	RequireApproval   *bool            `json:"requireApproval"`
	ApprovalThreshold *decimal.Decimal `json:"approvalThreshold"`
	DefaultTaxRate    *decimal.Decimal `json:"defaultTaxRate"`
	Currency          *string          `json:"currency" binding:"omitempty,len=3,uppercase"`
	NumberPrefix      *string          `json:"numberPrefix" binding:"omitempty,max=10"`
}

// SettingsResponse defines the data returned for a hub's expense settings.
type SettingsResponse struct {
	RequireApproval   bool            `json:"requireApproval"`
	ApprovalThreshold decimal.Decimal `json:"approvalThreshold"`
	DefaultTaxRate    decimal.Decimal `json:"defaultTaxRate"`
	Currency          string          `json:"currency"`
	NumberPrefix      string          `json:"numberPrefix"`
	NextNumberSeq     int64           `json:"nextNumberSeq"`
}

// ToSettingsResponse converts domain settings to the response DTO.
func ToSettingsResponse(s *domain.ExpenseSettings) SettingsResponse {
	return SettingsResponse{
		RequireApproval:   s.RequireApproval,
		ApprovalThreshold: s.ApprovalThreshold,
		DefaultTaxRate:    s.DefaultTaxRate,
		Currency:          s.Currency,
		NumberPrefix:      s.NumberPrefix,
		NextNumberSeq:     s.NextNumberSeq,
	}
}
