package models

import (
	"strings"
	"time"
)

// ServiceOrderStatus is the lifecycle state of a service order.
type ServiceOrderStatus string

const (
	StatusOpen       ServiceOrderStatus = "aberta"
	StatusInProgress ServiceOrderStatus = "em_andamento"
	StatusClosed     ServiceOrderStatus = "fechada"
)

// ParseServiceOrderStatus converts a stored status string into a ServiceOrderStatus
func ParseServiceOrderStatus(s string) (ServiceOrderStatus, bool) {
	switch ServiceOrderStatus(s) {
	case StatusOpen, StatusInProgress, StatusClosed:
		return ServiceOrderStatus(s), true
	}
	return "", false
}

// ServiceOrder represents a service order (OS)
type ServiceOrder struct {
	ID             int                `json:"id" db:"id"`
	ClientID       int                `json:"client_id" db:"client_id"`
	ResponsibleID  *int               `json:"responsible_id" db:"responsible_id"`
	Description    string             `json:"description" db:"description"`
	EstimatedValue *float64           `json:"estimated_value" db:"estimated_value"`
	Status         ServiceOrderStatus `json:"status" db:"status"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
	ClosedAt       *time.Time         `json:"closed_at" db:"closed_at"`

	// Invoice information, filled when the order is closed
	InvoiceNumber  string     `json:"invoice_number" db:"invoice_number"`
	InvoiceDate    *time.Time `json:"invoice_date" db:"invoice_date"`
	InvoiceAmount  *float64   `json:"invoice_amount" db:"invoice_amount"`
	ServiceDetails string     `json:"service_details" db:"service_details"`

	// Joined for display
	ClientName      string `json:"client_name,omitempty" db:"-"`
	ResponsibleName string `json:"responsible_name,omitempty" db:"-"`
}

// IsClosed reports whether the order has been closed
func (o *ServiceOrder) IsClosed() bool {
	return o.Status == StatusClosed
}

// ServiceOrderForm represents form data for creating/updating service orders
type ServiceOrderForm struct {
	ClientID       int      `json:"client_id"`
	ResponsibleID  *int     `json:"responsible_id"`
	Description    string   `json:"description"`
	EstimatedValue *float64 `json:"estimated_value"`
	Status         string   `json:"status"`
	EquipmentIDs   []int    `json:"equipment_ids"`
}

// Validate validates the service order form data
func (f *ServiceOrderForm) Validate() []string {
	var errors []string

	if f.ClientID <= 0 {
		errors = append(errors, "Client is required")
	}
	if strings.TrimSpace(f.Description) == "" {
		errors = append(errors, "Description is required")
	}
	if f.EstimatedValue != nil && *f.EstimatedValue < 0 {
		errors = append(errors, "Estimated value cannot be negative")
	}
	if f.Status != "" {
		if _, ok := ParseServiceOrderStatus(f.Status); !ok {
			errors = append(errors, "Status is invalid")
		}
	}

	return errors
}

// CloseServiceOrderForm represents form data for closing a service order
// with its invoice information
type CloseServiceOrderForm struct {
	InvoiceNumber  string  `json:"invoice_number"`
	InvoiceAmount  float64 `json:"invoice_amount"`
	ServiceDetails string  `json:"service_details"`
}

// Validate validates the close form data
func (f *CloseServiceOrderForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.InvoiceNumber) == "" {
		errors = append(errors, "Invoice number is required")
	}
	if f.InvoiceAmount <= 0 {
		errors = append(errors, "Invoice amount must be positive")
	}

	return errors
}

// ServiceOrderStats holds per-status counts for the dashboard
type ServiceOrderStats struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Closed     int `json:"closed"`
}
