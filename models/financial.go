package models

import (
	"strings"
	"time"
)

// FinancialEntryType distinguishes income from expense entries.
type FinancialEntryType string

const (
	EntryIncome  FinancialEntryType = "entrada"
	EntryExpense FinancialEntryType = "saida"
)

// ParseFinancialEntryType converts a stored type string into a FinancialEntryType
func ParseFinancialEntryType(s string) (FinancialEntryType, bool) {
	switch FinancialEntryType(s) {
	case EntryIncome, EntryExpense:
		return FinancialEntryType(s), true
	}
	return "", false
}

// FinancialEntry represents one income or expense record
type FinancialEntry struct {
	ID             int64              `json:"id" db:"id"`
	ServiceOrderID *int               `json:"service_order_id" db:"service_order_id"`
	Description    string             `json:"description" db:"description"`
	Amount         float64            `json:"amount" db:"amount"`
	Type           FinancialEntryType `json:"type" db:"type"`
	Date           time.Time          `json:"date" db:"date"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	CreatedBy      *int               `json:"created_by" db:"created_by"`
}

// FinancialEntryForm represents form data for creating financial entries
type FinancialEntryForm struct {
	ServiceOrderID *int    `json:"service_order_id"`
	Description    string  `json:"description"`
	Amount         float64 `json:"amount"`
	Type           string  `json:"type"`
	Date           string  `json:"date"` // YYYY-MM-DD from the date input
}

// Validate validates the financial entry form data
func (f *FinancialEntryForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Description) == "" {
		errors = append(errors, "Description is required")
	}
	if len(f.Description) > 200 {
		errors = append(errors, "Description must be less than 200 characters")
	}
	if f.Amount <= 0 {
		errors = append(errors, "Amount must be positive")
	}
	if _, ok := ParseFinancialEntryType(f.Type); !ok {
		errors = append(errors, "Type must be entrada or saida")
	}
	if f.Date != "" {
		if _, err := ParseDate(f.Date); err != nil {
			errors = append(errors, "Date is invalid")
		}
	}

	return errors
}

// MonthlySummary holds the aggregated financial figures for one month
type MonthlySummary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}
