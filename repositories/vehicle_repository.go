package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samape/samape/models"
)

// VehicleRepository interface defines fleet database operations: vehicles
// plus their refueling, maintenance and travel log records
type VehicleRepository interface {
	GetAll(ctx context.Context) ([]models.Vehicle, error)
	GetByID(ctx context.Context, id int) (*models.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, vehicle *models.Vehicle) error
	UpdateOdometer(ctx context.Context, id int, km int) error
	GetStats(ctx context.Context) (*models.VehicleStats, error)

	CreateRefueling(ctx context.Context, refueling *models.Refueling) error
	GetRefuelings(ctx context.Context) ([]models.Refueling, error)
	GetRefuelingsByVehicle(ctx context.Context, vehicleID int) ([]models.Refueling, error)

	CreateMaintenance(ctx context.Context, maintenance *models.VehicleMaintenance) error
	GetMaintenanceByVehicle(ctx context.Context, vehicleID int) ([]models.VehicleMaintenance, error)

	CreateTravelLog(ctx context.Context, log *models.VehicleTravelLog) error
	GetTravelLogsByVehicle(ctx context.Context, vehicleID int) ([]models.VehicleTravelLog, error)
	UpdateTravelLog(ctx context.Context, log *models.VehicleTravelLog) error
}

// vehicleRepository implements VehicleRepository interface
type vehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *sql.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

const vehicleColumns = `id, plate, brand, model, year, color, chassis, renavam, fuel_type,
	status, current_km, acquisition_date, insurance_expiry, insurance_policy,
	next_maintenance_date, next_maintenance_km, responsible_id, notes, created_at, updated_at`

func scanVehicle(scanner interface{ Scan(...interface{}) error }) (*models.Vehicle, error) {
	var v models.Vehicle
	var year, nextMaintenanceKM, responsibleID sql.NullInt64
	var color, chassis, renavam, fuelType, insurancePolicy, notes sql.NullString
	var status string
	var acquisitionDate, insuranceExpiry, nextMaintenanceDate sql.NullTime

	err := scanner.Scan(
		&v.ID,
		&v.Plate,
		&v.Brand,
		&v.Model,
		&year,
		&color,
		&chassis,
		&renavam,
		&fuelType,
		&status,
		&v.CurrentKM,
		&acquisitionDate,
		&insuranceExpiry,
		&insurancePolicy,
		&nextMaintenanceDate,
		&nextMaintenanceKM,
		&responsibleID,
		&notes,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, ok := models.ParseVehicleStatus(status)
	if !ok {
		return nil, fmt.Errorf("unknown vehicle status: %q", status)
	}
	v.Status = parsed

	if year.Valid {
		y := int(year.Int64)
		v.Year = &y
	}
	if nextMaintenanceKM.Valid {
		km := int(nextMaintenanceKM.Int64)
		v.NextMaintenanceKM = &km
	}
	if responsibleID.Valid {
		id := int(responsibleID.Int64)
		v.ResponsibleID = &id
	}
	if acquisitionDate.Valid {
		v.AcquisitionDate = &acquisitionDate.Time
	}
	if insuranceExpiry.Valid {
		v.InsuranceExpiry = &insuranceExpiry.Time
	}
	if nextMaintenanceDate.Valid {
		v.NextMaintenanceDate = &nextMaintenanceDate.Time
	}
	v.Color = color.String
	v.Chassis = chassis.String
	v.Renavam = renavam.String
	v.FuelType = fuelType.String
	v.InsurancePolicy = insurancePolicy.String
	v.Notes = notes.String

	return &v, nil
}

// GetAll retrieves all vehicles ordered by plate
func (r *vehicleRepository) GetAll(ctx context.Context) ([]models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY plate ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, *v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vehicles: %w", err)
	}

	return vehicles, nil
}

// GetByID retrieves a vehicle by ID
func (r *vehicleRepository) GetByID(ctx context.Context, id int) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = ?`

	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vehicle with ID %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return v, nil
}

// GetByPlate retrieves a vehicle by its license plate
func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE plate = ?`

	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, plate))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vehicle with plate %q: %w", plate, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return v, nil
}

// Create inserts a new vehicle
func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (plate, brand, model, year, color, chassis, renavam, fuel_type,
			status, current_km, acquisition_date, insurance_expiry, insurance_policy,
			next_maintenance_date, next_maintenance_km, responsible_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleStatusActive
	}

	result, err := r.db.ExecContext(ctx, query,
		vehicle.Plate,
		vehicle.Brand,
		vehicle.Model,
		vehicle.Year,
		vehicle.Color,
		vehicle.Chassis,
		vehicle.Renavam,
		vehicle.FuelType,
		string(vehicle.Status),
		vehicle.CurrentKM,
		vehicle.AcquisitionDate,
		vehicle.InsuranceExpiry,
		vehicle.InsurancePolicy,
		vehicle.NextMaintenanceDate,
		vehicle.NextMaintenanceKM,
		vehicle.ResponsibleID,
		vehicle.Notes,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get created vehicle ID: %w", err)
	}

	vehicle.ID = int(id)
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now
	return nil
}

// Update updates an existing vehicle
func (r *vehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		UPDATE vehicles
		SET plate = ?, brand = ?, model = ?, year = ?, color = ?, chassis = ?, renavam = ?,
		    fuel_type = ?, status = ?, current_km = ?, acquisition_date = ?, insurance_expiry = ?,
		    insurance_policy = ?, next_maintenance_date = ?, next_maintenance_km = ?,
		    responsible_id = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		vehicle.Plate,
		vehicle.Brand,
		vehicle.Model,
		vehicle.Year,
		vehicle.Color,
		vehicle.Chassis,
		vehicle.Renavam,
		vehicle.FuelType,
		string(vehicle.Status),
		vehicle.CurrentKM,
		vehicle.AcquisitionDate,
		vehicle.InsuranceExpiry,
		vehicle.InsurancePolicy,
		vehicle.NextMaintenanceDate,
		vehicle.NextMaintenanceKM,
		vehicle.ResponsibleID,
		vehicle.Notes,
		now,
		vehicle.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("vehicle with ID %d: %w", vehicle.ID, ErrNotFound)
	}

	vehicle.UpdatedAt = now
	return nil
}

// UpdateOdometer sets the vehicle's current odometer reading
func (r *vehicleRepository) UpdateOdometer(ctx context.Context, id int, km int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE vehicles SET current_km = ?, updated_at = ? WHERE id = ?",
		km, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update odometer: %w", err)
	}
	return nil
}

// GetStats returns per-status vehicle counts
func (r *vehicleRepository) GetStats(ctx context.Context) (*models.VehicleStats, error) {
	query := `
		SELECT
			COUNT(CASE WHEN status = 'ativo' THEN 1 END),
			COUNT(CASE WHEN status = 'em_manutencao' THEN 1 END),
			COUNT(CASE WHEN status = 'inativo' THEN 1 END)
		FROM vehicles
	`

	var stats models.VehicleStats
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.Active, &stats.Maintenance, &stats.Inactive)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle stats: %w", err)
	}

	return &stats, nil
}

// CreateRefueling inserts a new refueling record
func (r *vehicleRepository) CreateRefueling(ctx context.Context, refueling *models.Refueling) error {
	query := `
		INSERT INTO refuelings (vehicle_id, date, odometer, fuel_type, liters, price_per_liter,
			total_cost, full_tank, gas_station, driver_id, service_order_id, notes, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		refueling.VehicleID,
		refueling.Date,
		refueling.Odometer,
		refueling.FuelType,
		refueling.Liters,
		refueling.PricePerLiter,
		refueling.TotalCost,
		refueling.FullTank,
		refueling.GasStation,
		refueling.DriverID,
		refueling.ServiceOrderID,
		refueling.Notes,
		refueling.CreatedBy,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create refueling: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		refueling.ID = id
	}
	refueling.CreatedAt = now
	return nil
}

const refuelingColumns = `r.id, r.vehicle_id, r.date, r.odometer, r.fuel_type, r.liters,
	r.price_per_liter, r.total_cost, r.full_tank, r.gas_station, r.driver_id,
	r.service_order_id, r.notes, r.created_by, r.created_at, v.plate`

func scanRefueling(scanner interface{ Scan(...interface{}) error }) (*models.Refueling, error) {
	var ref models.Refueling
	var fuelType, gasStation, notes, plate sql.NullString
	var driverID, serviceOrderID, createdBy sql.NullInt64

	err := scanner.Scan(
		&ref.ID,
		&ref.VehicleID,
		&ref.Date,
		&ref.Odometer,
		&fuelType,
		&ref.Liters,
		&ref.PricePerLiter,
		&ref.TotalCost,
		&ref.FullTank,
		&gasStation,
		&driverID,
		&serviceOrderID,
		&notes,
		&createdBy,
		&ref.CreatedAt,
		&plate,
	)
	if err != nil {
		return nil, err
	}

	ref.FuelType = fuelType.String
	ref.GasStation = gasStation.String
	ref.Notes = notes.String
	ref.VehiclePlate = plate.String
	if driverID.Valid {
		id := int(driverID.Int64)
		ref.DriverID = &id
	}
	if serviceOrderID.Valid {
		id := int(serviceOrderID.Int64)
		ref.ServiceOrderID = &id
	}
	if createdBy.Valid {
		id := int(createdBy.Int64)
		ref.CreatedBy = &id
	}

	return &ref, nil
}

// GetRefuelings retrieves all refueling records, newest first
func (r *vehicleRepository) GetRefuelings(ctx context.Context) ([]models.Refueling, error) {
	query := `
		SELECT ` + refuelingColumns + `
		FROM refuelings r
		JOIN vehicles v ON v.id = r.vehicle_id
		ORDER BY r.date DESC, r.id DESC
	`
	return r.queryRefuelings(ctx, query)
}

// GetRefuelingsByVehicle retrieves a vehicle's refueling history, newest first
func (r *vehicleRepository) GetRefuelingsByVehicle(ctx context.Context, vehicleID int) ([]models.Refueling, error) {
	query := `
		SELECT ` + refuelingColumns + `
		FROM refuelings r
		JOIN vehicles v ON v.id = r.vehicle_id
		WHERE r.vehicle_id = ?
		ORDER BY r.date DESC, r.id DESC
	`
	return r.queryRefuelings(ctx, query, vehicleID)
}

func (r *vehicleRepository) queryRefuelings(ctx context.Context, query string, args ...interface{}) ([]models.Refueling, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query refuelings: %w", err)
	}
	defer rows.Close()

	var refuelings []models.Refueling
	for rows.Next() {
		ref, err := scanRefueling(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan refueling: %w", err)
		}
		refuelings = append(refuelings, *ref)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating refuelings: %w", err)
	}

	return refuelings, nil
}

// CreateMaintenance inserts a new maintenance record
func (r *vehicleRepository) CreateMaintenance(ctx context.Context, maintenance *models.VehicleMaintenance) error {
	query := `
		INSERT INTO vehicle_maintenance (vehicle_id, date, description, odometer, cost, workshop, notes, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		maintenance.VehicleID,
		maintenance.Date,
		maintenance.Description,
		maintenance.Odometer,
		maintenance.Cost,
		maintenance.Workshop,
		maintenance.Notes,
		maintenance.CreatedBy,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create maintenance record: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		maintenance.ID = id
	}
	maintenance.CreatedAt = now
	return nil
}

// GetMaintenanceByVehicle retrieves a vehicle's maintenance history, newest first
func (r *vehicleRepository) GetMaintenanceByVehicle(ctx context.Context, vehicleID int) ([]models.VehicleMaintenance, error) {
	query := `
		SELECT m.id, m.vehicle_id, m.date, m.description, m.odometer, m.cost,
		       m.workshop, m.notes, m.created_by, m.created_at, v.plate
		FROM vehicle_maintenance m
		JOIN vehicles v ON v.id = m.vehicle_id
		WHERE m.vehicle_id = ?
		ORDER BY m.date DESC, m.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query maintenance records: %w", err)
	}
	defer rows.Close()

	var records []models.VehicleMaintenance
	for rows.Next() {
		var m models.VehicleMaintenance
		var odometer, createdBy sql.NullInt64
		var cost sql.NullFloat64
		var workshop, notes, plate sql.NullString

		err := rows.Scan(
			&m.ID,
			&m.VehicleID,
			&m.Date,
			&m.Description,
			&odometer,
			&cost,
			&workshop,
			&notes,
			&createdBy,
			&m.CreatedAt,
			&plate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan maintenance record: %w", err)
		}

		if odometer.Valid {
			km := int(odometer.Int64)
			m.Odometer = &km
		}
		if cost.Valid {
			m.Cost = &cost.Float64
		}
		if createdBy.Valid {
			id := int(createdBy.Int64)
			m.CreatedBy = &id
		}
		m.Workshop = workshop.String
		m.Notes = notes.String
		m.VehiclePlate = plate.String

		records = append(records, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating maintenance records: %w", err)
	}

	return records, nil
}

// CreateTravelLog inserts a new travel log record
func (r *vehicleRepository) CreateTravelLog(ctx context.Context, log *models.VehicleTravelLog) error {
	query := `
		INSERT INTO vehicle_travel_logs (vehicle_id, driver_id, purpose, destination,
			start_date, start_km, end_date, end_km, status, notes, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	if log.Status == "" {
		log.Status = models.TravelInProgress
	}

	result, err := r.db.ExecContext(ctx, query,
		log.VehicleID,
		log.DriverID,
		log.Purpose,
		log.Destination,
		log.StartDate,
		log.StartKM,
		log.EndDate,
		log.EndKM,
		string(log.Status),
		log.Notes,
		log.CreatedBy,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create travel log: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		log.ID = id
	}
	log.CreatedAt = now
	return nil
}

// GetTravelLogsByVehicle retrieves a vehicle's travel logs, newest first
func (r *vehicleRepository) GetTravelLogsByVehicle(ctx context.Context, vehicleID int) ([]models.VehicleTravelLog, error) {
	query := `
		SELECT id, vehicle_id, driver_id, purpose, destination, start_date, start_km,
		       end_date, end_km, status, notes, created_by, created_at
		FROM vehicle_travel_logs
		WHERE vehicle_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query travel logs: %w", err)
	}
	defer rows.Close()

	var logs []models.VehicleTravelLog
	for rows.Next() {
		var log models.VehicleTravelLog
		var driverID, startKM, endKM, createdBy sql.NullInt64
		var purpose, destination, notes, status sql.NullString
		var startDate, endDate sql.NullTime

		err := rows.Scan(
			&log.ID,
			&log.VehicleID,
			&driverID,
			&purpose,
			&destination,
			&startDate,
			&startKM,
			&endDate,
			&endKM,
			&status,
			&notes,
			&createdBy,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan travel log: %w", err)
		}

		if driverID.Valid {
			id := int(driverID.Int64)
			log.DriverID = &id
		}
		if startKM.Valid {
			km := int(startKM.Int64)
			log.StartKM = &km
		}
		if endKM.Valid {
			km := int(endKM.Int64)
			log.EndKM = &km
		}
		if createdBy.Valid {
			id := int(createdBy.Int64)
			log.CreatedBy = &id
		}
		if startDate.Valid {
			log.StartDate = &startDate.Time
		}
		if endDate.Valid {
			log.EndDate = &endDate.Time
		}
		log.Purpose = purpose.String
		log.Destination = destination.String
		log.Notes = notes.String
		log.Status = models.TravelLogStatus(status.String)

		logs = append(logs, log)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating travel logs: %w", err)
	}

	return logs, nil
}

// UpdateTravelLog updates a travel log (completion or cancellation)
func (r *vehicleRepository) UpdateTravelLog(ctx context.Context, log *models.VehicleTravelLog) error {
	query := `
		UPDATE vehicle_travel_logs
		SET driver_id = ?, purpose = ?, destination = ?, start_date = ?, start_km = ?,
		    end_date = ?, end_km = ?, status = ?, notes = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		log.DriverID,
		log.Purpose,
		log.Destination,
		log.StartDate,
		log.StartKM,
		log.EndDate,
		log.EndKM,
		string(log.Status),
		log.Notes,
		log.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update travel log: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("travel log with ID %d: %w", log.ID, ErrNotFound)
	}

	return nil
}
