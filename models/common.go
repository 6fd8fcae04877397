package models

import (
	"fmt"
	"strings"
	"time"
)

// FlashMessage represents a flash message for user feedback
type FlashMessage struct {
	Type    string `json:"type"` // "success", "error", "warning", "info"
	Message string `json:"message"`
}

// PageData represents common data passed to templates
type PageData struct {
	Title        string        `json:"title"`
	CurrentPage  string        `json:"current_page"`
	FlashMessage *FlashMessage `json:"flash_message,omitempty"`
	Data         interface{}   `json:"data,omitempty"`
}

// DigitsOnly strips every non-digit character from a string
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatDocument formats a CPF/CNPJ for display
func FormatDocument(document string) string {
	doc := DigitsOnly(document)

	switch len(doc) {
	case 11: // CPF
		return fmt.Sprintf("%s.%s.%s-%s", doc[:3], doc[3:6], doc[6:9], doc[9:])
	case 14: // CNPJ
		return fmt.Sprintf("%s.%s.%s/%s-%s", doc[:2], doc[2:5], doc[5:8], doc[8:12], doc[12:])
	}
	return document // Return as is if invalid
}

// FormatCurrency formats a value in Brazilian currency notation
func FormatCurrency(value float64) string {
	s := fmt.Sprintf("%.2f", value)

	intPart, fracPart, _ := strings.Cut(s, ".")
	negative := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	// Insert thousands separators
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	result := "R$ " + strings.Join(groups, ".") + "," + fracPart
	if negative {
		result = "R$ -" + strings.Join(groups, ".") + "," + fracPart
	}
	return result
}

// FormatDate formats a time as DD/MM/YYYY
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDateTime formats a time as DD/MM/YYYY HH:MM
func FormatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

// ParseDate parses a YYYY-MM-DD string (HTML date input) into a time.Time
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// HasErrors returns true if there are validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// GetMessages returns all error messages as a slice of strings
func (ve ValidationErrors) GetMessages() []string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Message
	}
	return messages
}
