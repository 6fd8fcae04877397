package models

import (
	"strings"
	"time"
)

// Equipment represents a client-owned machine serviced by the workshop
type Equipment struct {
	ID              int        `json:"id" db:"id"`
	ClientID        int        `json:"client_id" db:"client_id"`
	Type            string     `json:"type" db:"type"`
	Brand           string     `json:"brand" db:"brand"`
	Model           string     `json:"model" db:"model"`
	SerialNumber    string     `json:"serial_number" db:"serial_number"`
	Year            *int       `json:"year" db:"year"`
	LastMaintenance *time.Time `json:"last_maintenance" db:"last_maintenance"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`

	// Joined for display
	ClientName string `json:"client_name,omitempty" db:"-"`
}

// EquipmentForm represents form data for creating/updating equipment
type EquipmentForm struct {
	ClientID     int    `json:"client_id"`
	Type         string `json:"type"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
	Year         *int   `json:"year"`
}

// Validate validates the equipment form data
func (f *EquipmentForm) Validate() []string {
	var errors []string

	if f.ClientID <= 0 {
		errors = append(errors, "Client is required")
	}
	if strings.TrimSpace(f.Type) == "" {
		errors = append(errors, "Type is required")
	}
	if f.Year != nil && (*f.Year < 1900 || *f.Year > time.Now().Year()+1) {
		errors = append(errors, "Year is invalid")
	}

	return errors
}
