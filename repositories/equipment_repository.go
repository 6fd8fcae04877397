package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samape/samape/models"
)

// EquipmentRepository interface defines equipment database operations
type EquipmentRepository interface {
	GetAll(ctx context.Context) ([]models.Equipment, error)
	GetByID(ctx context.Context, id int) (*models.Equipment, error)
	GetByClient(ctx context.Context, clientID int) ([]models.Equipment, error)
	Create(ctx context.Context, equipment *models.Equipment) error
	Update(ctx context.Context, equipment *models.Equipment) error
	Delete(ctx context.Context, id int) error
	CountByClient(ctx context.Context, clientID int) (int, error)
	TouchLastMaintenance(ctx context.Context, id int, at time.Time) error
}

// equipmentRepository implements EquipmentRepository interface
type equipmentRepository struct {
	db *sql.DB
}

// NewEquipmentRepository creates a new equipment repository
func NewEquipmentRepository(db *sql.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

const equipmentColumns = `e.id, e.client_id, e.type, e.brand, e.model, e.serial_number,
	e.year, e.last_maintenance, e.created_at, e.updated_at, c.name`

func scanEquipment(scanner interface{ Scan(...interface{}) error }) (*models.Equipment, error) {
	var eq models.Equipment
	var brand, model, serialNumber, clientName sql.NullString
	var year sql.NullInt64
	var lastMaintenance sql.NullTime

	err := scanner.Scan(
		&eq.ID,
		&eq.ClientID,
		&eq.Type,
		&brand,
		&model,
		&serialNumber,
		&year,
		&lastMaintenance,
		&eq.CreatedAt,
		&eq.UpdatedAt,
		&clientName,
	)
	if err != nil {
		return nil, err
	}

	eq.Brand = brand.String
	eq.Model = model.String
	eq.SerialNumber = serialNumber.String
	eq.ClientName = clientName.String
	if year.Valid {
		y := int(year.Int64)
		eq.Year = &y
	}
	if lastMaintenance.Valid {
		eq.LastMaintenance = &lastMaintenance.Time
	}

	return &eq, nil
}

// GetAll retrieves all equipment with the owning client's name
func (r *equipmentRepository) GetAll(ctx context.Context) ([]models.Equipment, error) {
	query := `
		SELECT ` + equipmentColumns + `
		FROM equipment e
		JOIN clients c ON c.id = e.client_id
		ORDER BY c.name ASC, e.type ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query equipment: %w", err)
	}
	defer rows.Close()

	var items []models.Equipment
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		items = append(items, *eq)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating equipment: %w", err)
	}

	return items, nil
}

// GetByID retrieves one piece of equipment by ID
func (r *equipmentRepository) GetByID(ctx context.Context, id int) (*models.Equipment, error) {
	query := `
		SELECT ` + equipmentColumns + `
		FROM equipment e
		JOIN clients c ON c.id = e.client_id
		WHERE e.id = ?
	`

	eq, err := scanEquipment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("equipment with ID %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}

	return eq, nil
}

// GetByClient retrieves all equipment owned by a client
func (r *equipmentRepository) GetByClient(ctx context.Context, clientID int) ([]models.Equipment, error) {
	query := `
		SELECT ` + equipmentColumns + `
		FROM equipment e
		JOIN clients c ON c.id = e.client_id
		WHERE e.client_id = ?
		ORDER BY e.type ASC
	`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query client equipment: %w", err)
	}
	defer rows.Close()

	var items []models.Equipment
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		items = append(items, *eq)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating equipment: %w", err)
	}

	return items, nil
}

// Create inserts a new equipment row
func (r *equipmentRepository) Create(ctx context.Context, equipment *models.Equipment) error {
	query := `
		INSERT INTO equipment (client_id, type, brand, model, serial_number, year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var serialNumber sql.NullString
	if equipment.SerialNumber != "" {
		serialNumber = sql.NullString{String: equipment.SerialNumber, Valid: true}
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		equipment.ClientID,
		equipment.Type,
		equipment.Brand,
		equipment.Model,
		serialNumber,
		equipment.Year,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create equipment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get created equipment ID: %w", err)
	}

	equipment.ID = int(id)
	equipment.CreatedAt = now
	equipment.UpdatedAt = now
	return nil
}

// Update updates an existing equipment row
func (r *equipmentRepository) Update(ctx context.Context, equipment *models.Equipment) error {
	query := `
		UPDATE equipment
		SET client_id = ?, type = ?, brand = ?, model = ?, serial_number = ?, year = ?, updated_at = ?
		WHERE id = ?
	`

	var serialNumber sql.NullString
	if equipment.SerialNumber != "" {
		serialNumber = sql.NullString{String: equipment.SerialNumber, Valid: true}
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		equipment.ClientID,
		equipment.Type,
		equipment.Brand,
		equipment.Model,
		serialNumber,
		equipment.Year,
		now,
		equipment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("equipment with ID %d: %w", equipment.ID, ErrNotFound)
	}

	equipment.UpdatedAt = now
	return nil
}

// Delete removes an equipment row
func (r *equipmentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM equipment WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete equipment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("equipment with ID %d: %w", id, ErrNotFound)
	}

	return nil
}

// CountByClient counts equipment owned by a client
func (r *equipmentRepository) CountByClient(ctx context.Context, clientID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM equipment WHERE client_id = ?", clientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count client equipment: %w", err)
	}
	return count, nil
}

// TouchLastMaintenance stamps the last-maintenance time on a piece of equipment
func (r *equipmentRepository) TouchLastMaintenance(ctx context.Context, id int, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE equipment SET last_maintenance = ?, updated_at = ? WHERE id = ?",
		at, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update last maintenance: %w", err)
	}
	return nil
}
