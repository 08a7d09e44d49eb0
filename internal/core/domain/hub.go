package domain

// Hub represents an isolated organizational unit owning all expense data.
// Every other entity in this module is scoped to exactly one hub.
type Hub struct {
	HubID       string `json:"hubID"` // Primary Key (UUID)
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}
