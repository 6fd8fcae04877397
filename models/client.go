package models

import (
	"strings"
	"time"
)

// Client represents a customer of the workshop
type Client struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Document  string    `json:"document" db:"document"` // CPF or CNPJ, digits only
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ClientForm represents form data for creating/updating clients
type ClientForm struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Validate validates the client form data
func (f *ClientForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Name) == "" {
		errors = append(errors, "Name is required")
	}
	if len(f.Name) > 100 {
		errors = append(errors, "Name must be less than 100 characters")
	}

	doc := DigitsOnly(f.Document)
	if doc == "" {
		errors = append(errors, "Document is required")
	} else if len(doc) != 11 && len(doc) != 14 {
		errors = append(errors, "Document must be a valid CPF (11 digits) or CNPJ (14 digits)")
	}

	if f.Email != "" && !isValidEmail(f.Email) {
		errors = append(errors, "Email format is invalid")
	}

	return errors
}
