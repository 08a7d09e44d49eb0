package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceFrequency determines how a recurring expense's due date advances.
type RecurrenceFrequency string

const (
	FrequencyWeekly    RecurrenceFrequency = "WEEKLY"
	FrequencyMonthly   RecurrenceFrequency = "MONTHLY"
	FrequencyQuarterly RecurrenceFrequency = "QUARTERLY"
	FrequencyYearly    RecurrenceFrequency = "YEARLY"
)

// RecurringExpense is a template for recurring costs (rent, utilities,
// subscriptions) from which concrete Expense records are generated.
type RecurringExpense struct {
	RecurringExpenseID string  `json:"recurringExpenseID"` // Primary Key (UUID)
	HubID              string  `json:"hubID"`
	Title              string  `json:"title"`
	CategoryID         *string `json:"categoryID"`
	SupplierID         *string `json:"supplierID"`

	Amount  decimal.Decimal `json:"amount"`
	TaxRate decimal.Decimal `json:"taxRate"`

	Frequency         RecurrenceFrequency `json:"frequency"`
	NextDueDate       time.Time           `json:"nextDueDate"`
	AutoCreate        bool                `json:"autoCreate"`
	IsActive          bool                `json:"isActive"`
	LastGeneratedDate *time.Time          `json:"lastGeneratedDate"`
	AuditFields
}

// NextDateAfter returns the due date one frequency period after from.
// Month-based frequencies keep the day of month, clamped to the length of the
// target month (Jan 31 + 1 month = Feb 28/29). Yearly advances from Feb 29
// clamp to Feb 28 on non-leap years.
func (r *RecurringExpense) NextDateAfter(from time.Time) time.Time {
	switch r.Frequency {
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyQuarterly:
		return addMonthsClamped(from, 3)
	case FrequencyYearly:
		return addMonthsClamped(from, 12)
	default: // monthly
		return addMonthsClamped(from, 1)
	}
}

// addMonthsClamped adds months without the day-overflow behaviour of
// time.AddDate: the day of month is clamped to the target month's length
// instead of rolling into the following month.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
