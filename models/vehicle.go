package models

import (
	"strings"
	"time"
)

// VehicleStatus is the operational state of a fleet vehicle.
type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "ativo"
	VehicleStatusMaintenance VehicleStatus = "em_manutencao"
	VehicleStatusInactive    VehicleStatus = "inativo"
)

// ParseVehicleStatus converts a stored status string into a VehicleStatus
func ParseVehicleStatus(s string) (VehicleStatus, bool) {
	switch VehicleStatus(s) {
	case VehicleStatusActive, VehicleStatusMaintenance, VehicleStatusInactive:
		return VehicleStatus(s), true
	}
	return "", false
}

// TravelLogStatus is the state of a trip record.
type TravelLogStatus string

const (
	TravelInProgress TravelLogStatus = "em_andamento"
	TravelCompleted  TravelLogStatus = "concluida"
	TravelCancelled  TravelLogStatus = "cancelada"
)

// Vehicle represents a fleet vehicle
type Vehicle struct {
	ID                  int           `json:"id" db:"id"`
	Plate               string        `json:"plate" db:"plate"`
	Brand               string        `json:"brand" db:"brand"`
	Model               string        `json:"model" db:"model"`
	Year                *int          `json:"year" db:"year"`
	Color               string        `json:"color" db:"color"`
	Chassis             string        `json:"chassis" db:"chassis"`
	Renavam             string        `json:"renavam" db:"renavam"`
	FuelType            string        `json:"fuel_type" db:"fuel_type"`
	Status              VehicleStatus `json:"status" db:"status"`
	CurrentKM           int           `json:"current_km" db:"current_km"`
	AcquisitionDate     *time.Time    `json:"acquisition_date" db:"acquisition_date"`
	InsuranceExpiry     *time.Time    `json:"insurance_expiry" db:"insurance_expiry"`
	InsurancePolicy     string        `json:"insurance_policy" db:"insurance_policy"`
	NextMaintenanceDate *time.Time    `json:"next_maintenance_date" db:"next_maintenance_date"`
	NextMaintenanceKM   *int          `json:"next_maintenance_km" db:"next_maintenance_km"`
	ResponsibleID       *int          `json:"responsible_id" db:"responsible_id"`
	Notes               string        `json:"notes" db:"notes"`
	CreatedAt           time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at" db:"updated_at"`
}

// VehicleForm represents form data for creating/updating vehicles
type VehicleForm struct {
	Plate         string `json:"plate"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Year          *int   `json:"year"`
	Color         string `json:"color"`
	FuelType      string `json:"fuel_type"`
	Status        string `json:"status"`
	CurrentKM     int    `json:"current_km"`
	ResponsibleID *int   `json:"responsible_id"`
	Notes         string `json:"notes"`
}

// Validate validates the vehicle form data
func (f *VehicleForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Plate) == "" {
		errors = append(errors, "Plate is required")
	}
	if strings.TrimSpace(f.Brand) == "" {
		errors = append(errors, "Brand is required")
	}
	if strings.TrimSpace(f.Model) == "" {
		errors = append(errors, "Model is required")
	}
	if f.Status != "" {
		if _, ok := ParseVehicleStatus(f.Status); !ok {
			errors = append(errors, "Status is invalid")
		}
	}
	if f.CurrentKM < 0 {
		errors = append(errors, "Odometer cannot be negative")
	}

	return errors
}

// Refueling represents one refueling record
type Refueling struct {
	ID             int64     `json:"id" db:"id"`
	VehicleID      int       `json:"vehicle_id" db:"vehicle_id"`
	Date           time.Time `json:"date" db:"date"`
	Odometer       int       `json:"odometer" db:"odometer"`
	FuelType       string    `json:"fuel_type" db:"fuel_type"`
	Liters         float64   `json:"liters" db:"liters"`
	PricePerLiter  float64   `json:"price_per_liter" db:"price_per_liter"`
	TotalCost      float64   `json:"total_cost" db:"total_cost"`
	FullTank       bool      `json:"full_tank" db:"full_tank"`
	GasStation     string    `json:"gas_station" db:"gas_station"`
	DriverID       *int      `json:"driver_id" db:"driver_id"`
	ServiceOrderID *int      `json:"service_order_id" db:"service_order_id"`
	Notes          string    `json:"notes" db:"notes"`
	CreatedBy      *int      `json:"created_by" db:"created_by"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	// Joined for display
	VehiclePlate string `json:"vehicle_plate,omitempty" db:"-"`
}

// RefuelingForm represents form data for registering a refueling
type RefuelingForm struct {
	VehicleID     int     `json:"vehicle_id"`
	Date          string  `json:"date"` // YYYY-MM-DD
	Odometer      int     `json:"odometer"`
	FuelType      string  `json:"fuel_type"`
	Liters        float64 `json:"liters"`
	PricePerLiter float64 `json:"price_per_liter"`
	TotalCost     float64 `json:"total_cost"`
	FullTank      bool    `json:"full_tank"`
	GasStation    string  `json:"gas_station"`
	DriverID      *int    `json:"driver_id"`
	Notes         string  `json:"notes"`
}

// Validate validates the refueling form data
func (f *RefuelingForm) Validate() []string {
	var errors []string

	if f.VehicleID <= 0 {
		errors = append(errors, "Vehicle is required")
	}
	if f.Date == "" {
		errors = append(errors, "Date is required")
	} else if _, err := ParseDate(f.Date); err != nil {
		errors = append(errors, "Date is invalid")
	}
	if f.Odometer < 0 {
		errors = append(errors, "Odometer cannot be negative")
	}
	if f.Liters <= 0 {
		errors = append(errors, "Liters must be positive")
	}
	if f.TotalCost <= 0 {
		errors = append(errors, "Total cost must be positive")
	}

	return errors
}

// VehicleMaintenance represents one maintenance record for a vehicle
type VehicleMaintenance struct {
	ID          int64     `json:"id" db:"id"`
	VehicleID   int       `json:"vehicle_id" db:"vehicle_id"`
	Date        time.Time `json:"date" db:"date"`
	Description string    `json:"description" db:"description"`
	Odometer    *int      `json:"odometer" db:"odometer"`
	Cost        *float64  `json:"cost" db:"cost"`
	Workshop    string    `json:"workshop" db:"workshop"`
	Notes       string    `json:"notes" db:"notes"`
	CreatedBy   *int      `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Joined for display
	VehiclePlate string `json:"vehicle_plate,omitempty" db:"-"`
}

// VehicleMaintenanceForm represents form data for registering maintenance
type VehicleMaintenanceForm struct {
	VehicleID   int      `json:"vehicle_id"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Description string   `json:"description"`
	Odometer    *int     `json:"odometer"`
	Cost        *float64 `json:"cost"`
	Workshop    string   `json:"workshop"`
	Notes       string   `json:"notes"`
}

// Validate validates the maintenance form data
func (f *VehicleMaintenanceForm) Validate() []string {
	var errors []string

	if f.VehicleID <= 0 {
		errors = append(errors, "Vehicle is required")
	}
	if f.Date == "" {
		errors = append(errors, "Date is required")
	} else if _, err := ParseDate(f.Date); err != nil {
		errors = append(errors, "Date is invalid")
	}
	if strings.TrimSpace(f.Description) == "" {
		errors = append(errors, "Description is required")
	}
	if f.Cost != nil && *f.Cost < 0 {
		errors = append(errors, "Cost cannot be negative")
	}

	return errors
}

// VehicleTravelLog represents one trip record for a vehicle
type VehicleTravelLog struct {
	ID          int64           `json:"id" db:"id"`
	VehicleID   int             `json:"vehicle_id" db:"vehicle_id"`
	DriverID    *int            `json:"driver_id" db:"driver_id"`
	Purpose     string          `json:"purpose" db:"purpose"`
	Destination string          `json:"destination" db:"destination"`
	StartDate   *time.Time      `json:"start_date" db:"start_date"`
	StartKM     *int            `json:"start_km" db:"start_km"`
	EndDate     *time.Time      `json:"end_date" db:"end_date"`
	EndKM       *int            `json:"end_km" db:"end_km"`
	Status      TravelLogStatus `json:"status" db:"status"`
	Notes       string          `json:"notes" db:"notes"`
	CreatedBy   *int            `json:"created_by" db:"created_by"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// VehicleStats holds per-status counts for the fleet page
type VehicleStats struct {
	Active      int `json:"active"`
	Maintenance int `json:"maintenance"`
	Inactive    int `json:"inactive"`
}
