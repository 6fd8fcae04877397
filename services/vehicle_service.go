package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/samape/samape/models"
	"github.com/samape/samape/repositories"
)

// VehicleService interface defines fleet management business logic
type VehicleService interface {
	GetAll(ctx context.Context) ([]models.Vehicle, error)
	GetByID(ctx context.Context, id int) (*models.Vehicle, error)
	Create(ctx context.Context, form *models.VehicleForm) (*models.Vehicle, error)
	Update(ctx context.Context, id int, form *models.VehicleForm) (*models.Vehicle, error)
	GetStats(ctx context.Context) (*models.VehicleStats, error)

	RegisterRefueling(ctx context.Context, form *models.RefuelingForm, createdBy *int) (*models.Refueling, error)
	GetRefuelings(ctx context.Context) ([]models.Refueling, error)
	GetRefuelingsByVehicle(ctx context.Context, vehicleID int) ([]models.Refueling, error)

	RegisterMaintenance(ctx context.Context, form *models.VehicleMaintenanceForm, createdBy *int) (*models.VehicleMaintenance, error)
	GetMaintenanceByVehicle(ctx context.Context, vehicleID int) ([]models.VehicleMaintenance, error)

	GetTravelLogsByVehicle(ctx context.Context, vehicleID int) ([]models.VehicleTravelLog, error)
}

// vehicleService implements VehicleService interface
type vehicleService struct {
	vehicleRepo   repositories.VehicleRepository
	financialRepo repositories.FinancialRepository
}

// NewVehicleService creates a new vehicle service
func NewVehicleService(vehicleRepo repositories.VehicleRepository, financialRepo repositories.FinancialRepository) VehicleService {
	return &vehicleService{
		vehicleRepo:   vehicleRepo,
		financialRepo: financialRepo,
	}
}

// GetAll retrieves all fleet vehicles
func (s *vehicleService) GetAll(ctx context.Context) ([]models.Vehicle, error) {
	return s.vehicleRepo.GetAll(ctx)
}

// GetByID retrieves a vehicle by ID
func (s *vehicleService) GetByID(ctx context.Context, id int) (*models.Vehicle, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid vehicle ID: %d", id)
	}
	return s.vehicleRepo.GetByID(ctx, id)
}

// Create registers a new vehicle. Plates are stored uppercase and must be
// unique across the fleet.
func (s *vehicleService) Create(ctx context.Context, form *models.VehicleForm) (*models.Vehicle, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	plate := strings.ToUpper(strings.TrimSpace(form.Plate))
	if existing, err := s.vehicleRepo.GetByPlate(ctx, plate); err == nil && existing != nil {
		return nil, fmt.Errorf("vehicle with plate %s already exists", plate)
	}

	status := models.VehicleStatusActive
	if form.Status != "" {
		status, _ = models.ParseVehicleStatus(form.Status)
	}

	vehicle := &models.Vehicle{
		Plate:         plate,
		Brand:         strings.TrimSpace(form.Brand),
		Model:         strings.TrimSpace(form.Model),
		Year:          form.Year,
		Color:         strings.TrimSpace(form.Color),
		FuelType:      strings.TrimSpace(form.FuelType),
		Status:        status,
		CurrentKM:     form.CurrentKM,
		ResponsibleID: form.ResponsibleID,
		Notes:         strings.TrimSpace(form.Notes),
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	return vehicle, nil
}

// Update updates an existing vehicle. The odometer never moves backwards
// through an edit; refuelings are the authoritative source for it.
func (s *vehicleService) Update(ctx context.Context, id int, form *models.VehicleForm) (*models.Vehicle, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid vehicle ID: %d", id)
	}

	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("vehicle not found: %w", err)
	}

	plate := strings.ToUpper(strings.TrimSpace(form.Plate))
	if plate != vehicle.Plate {
		if existing, err := s.vehicleRepo.GetByPlate(ctx, plate); err == nil && existing != nil && existing.ID != id {
			return nil, fmt.Errorf("vehicle with plate %s already exists", plate)
		}
	}

	vehicle.Plate = plate
	vehicle.Brand = strings.TrimSpace(form.Brand)
	vehicle.Model = strings.TrimSpace(form.Model)
	vehicle.Year = form.Year
	vehicle.Color = strings.TrimSpace(form.Color)
	vehicle.FuelType = strings.TrimSpace(form.FuelType)
	if form.Status != "" {
		status, _ := models.ParseVehicleStatus(form.Status)
		vehicle.Status = status
	}
	if form.CurrentKM > vehicle.CurrentKM {
		vehicle.CurrentKM = form.CurrentKM
	}
	vehicle.ResponsibleID = form.ResponsibleID
	vehicle.Notes = strings.TrimSpace(form.Notes)

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	return vehicle, nil
}

// GetStats returns per-status fleet counts
func (s *vehicleService) GetStats(ctx context.Context) (*models.VehicleStats, error) {
	return s.vehicleRepo.GetStats(ctx)
}

// RegisterRefueling records a refueling, rolls the vehicle odometer forward
// when the reported reading is ahead of it, and posts the fuel cost as an
// expense in the financial ledger.
func (s *vehicleService) RegisterRefueling(ctx context.Context, form *models.RefuelingForm, createdBy *int) (*models.Refueling, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, form.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("vehicle not found: %w", err)
	}

	date, err := models.ParseDate(form.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	pricePerLiter := form.PricePerLiter
	if pricePerLiter == 0 && form.Liters > 0 {
		pricePerLiter = form.TotalCost / form.Liters
	}

	refueling := &models.Refueling{
		VehicleID:     vehicle.ID,
		Date:          date,
		Odometer:      form.Odometer,
		FuelType:      strings.TrimSpace(form.FuelType),
		Liters:        form.Liters,
		PricePerLiter: pricePerLiter,
		TotalCost:     form.TotalCost,
		FullTank:      form.FullTank,
		GasStation:    strings.TrimSpace(form.GasStation),
		DriverID:      form.DriverID,
		Notes:         strings.TrimSpace(form.Notes),
		CreatedBy:     createdBy,
	}

	if err := s.vehicleRepo.CreateRefueling(ctx, refueling); err != nil {
		return nil, fmt.Errorf("failed to register refueling: %w", err)
	}

	if refueling.Odometer > vehicle.CurrentKM {
		if err := s.vehicleRepo.UpdateOdometer(ctx, vehicle.ID, refueling.Odometer); err != nil {
			return nil, fmt.Errorf("refueling saved but odometer update failed: %w", err)
		}
	}

	expense := &models.FinancialEntry{
		Description: fmt.Sprintf("Abastecimento %s - %.2f L", vehicle.Plate, refueling.Liters),
		Amount:      refueling.TotalCost,
		Type:        models.EntryExpense,
		Date:        date,
		CreatedBy:   createdBy,
	}
	if err := s.financialRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("refueling saved but failed to post expense: %w", err)
	}

	return refueling, nil
}

// GetRefuelings retrieves all refueling records
func (s *vehicleService) GetRefuelings(ctx context.Context) ([]models.Refueling, error) {
	return s.vehicleRepo.GetRefuelings(ctx)
}

// GetRefuelingsByVehicle retrieves one vehicle's refueling history
func (s *vehicleService) GetRefuelingsByVehicle(ctx context.Context, vehicleID int) ([]models.Refueling, error) {
	if vehicleID <= 0 {
		return nil, fmt.Errorf("invalid vehicle ID: %d", vehicleID)
	}
	return s.vehicleRepo.GetRefuelingsByVehicle(ctx, vehicleID)
}

// RegisterMaintenance records a maintenance event. When a cost is given it is
// posted as an expense; the vehicle odometer rolls forward like on refueling.
func (s *vehicleService) RegisterMaintenance(ctx context.Context, form *models.VehicleMaintenanceForm, createdBy *int) (*models.VehicleMaintenance, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, form.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("vehicle not found: %w", err)
	}

	date, err := models.ParseDate(form.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	maintenance := &models.VehicleMaintenance{
		VehicleID:   vehicle.ID,
		Date:        date,
		Description: strings.TrimSpace(form.Description),
		Odometer:    form.Odometer,
		Cost:        form.Cost,
		Workshop:    strings.TrimSpace(form.Workshop),
		Notes:       strings.TrimSpace(form.Notes),
		CreatedBy:   createdBy,
	}

	if err := s.vehicleRepo.CreateMaintenance(ctx, maintenance); err != nil {
		return nil, fmt.Errorf("failed to register maintenance: %w", err)
	}

	if maintenance.Odometer != nil && *maintenance.Odometer > vehicle.CurrentKM {
		if err := s.vehicleRepo.UpdateOdometer(ctx, vehicle.ID, *maintenance.Odometer); err != nil {
			return nil, fmt.Errorf("maintenance saved but odometer update failed: %w", err)
		}
	}

	if maintenance.Cost != nil && *maintenance.Cost > 0 {
		expense := &models.FinancialEntry{
			Description: fmt.Sprintf("Manutenção %s - %s", vehicle.Plate, maintenance.Description),
			Amount:      *maintenance.Cost,
			Type:        models.EntryExpense,
			Date:        date,
			CreatedBy:   createdBy,
		}
		if err := s.financialRepo.Create(ctx, expense); err != nil {
			return nil, fmt.Errorf("maintenance saved but failed to post expense: %w", err)
		}
	}

	return maintenance, nil
}

// GetMaintenanceByVehicle retrieves one vehicle's maintenance history
func (s *vehicleService) GetMaintenanceByVehicle(ctx context.Context, vehicleID int) ([]models.VehicleMaintenance, error) {
	if vehicleID <= 0 {
		return nil, fmt.Errorf("invalid vehicle ID: %d", vehicleID)
	}
	return s.vehicleRepo.GetMaintenanceByVehicle(ctx, vehicleID)
}

// GetTravelLogsByVehicle retrieves one vehicle's trip records
func (s *vehicleService) GetTravelLogsByVehicle(ctx context.Context, vehicleID int) ([]models.VehicleTravelLog, error) {
	if vehicleID <= 0 {
		return nil, fmt.Errorf("invalid vehicle ID: %d", vehicleID)
	}
	return s.vehicleRepo.GetTravelLogsByVehicle(ctx, vehicleID)
}
