package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samape/samape/models"
)

// ServiceOrderRepository interface defines service order database operations
type ServiceOrderRepository interface {
	GetAll(ctx context.Context, status models.ServiceOrderStatus) ([]models.ServiceOrder, error)
	GetByID(ctx context.Context, id int) (*models.ServiceOrder, error)
	Create(ctx context.Context, order *models.ServiceOrder) error
	Update(ctx context.Context, order *models.ServiceOrder) error
	LinkEquipment(ctx context.Context, orderID int, equipmentIDs []int) error
	GetEquipment(ctx context.Context, orderID int) ([]models.Equipment, error)
	GetStats(ctx context.Context) (*models.ServiceOrderStats, error)
	CountByClient(ctx context.Context, clientID int) (int, error)
	MaxNumericInvoiceNumber(ctx context.Context) (int64, error)
}

// serviceOrderRepository implements ServiceOrderRepository interface
type serviceOrderRepository struct {
	db *sql.DB
}

// NewServiceOrderRepository creates a new service order repository
func NewServiceOrderRepository(db *sql.DB) ServiceOrderRepository {
	return &serviceOrderRepository{db: db}
}

const orderColumns = `o.id, o.client_id, o.responsible_id, o.description, o.estimated_value,
	o.status, o.created_at, o.updated_at, o.closed_at,
	o.invoice_number, o.invoice_date, o.invoice_amount, o.service_details,
	c.name, u.name`

func scanServiceOrder(scanner interface{ Scan(...interface{}) error }) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	var responsibleID sql.NullInt64
	var estimatedValue, invoiceAmount sql.NullFloat64
	var status string
	var closedAt, invoiceDate sql.NullTime
	var invoiceNumber, serviceDetails, clientName, responsibleName sql.NullString

	err := scanner.Scan(
		&order.ID,
		&order.ClientID,
		&responsibleID,
		&order.Description,
		&estimatedValue,
		&status,
		&order.CreatedAt,
		&order.UpdatedAt,
		&closedAt,
		&invoiceNumber,
		&invoiceDate,
		&invoiceAmount,
		&serviceDetails,
		&clientName,
		&responsibleName,
	)
	if err != nil {
		return nil, err
	}

	parsed, ok := models.ParseServiceOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("unknown service order status: %q", status)
	}
	order.Status = parsed

	if responsibleID.Valid {
		id := int(responsibleID.Int64)
		order.ResponsibleID = &id
	}
	if estimatedValue.Valid {
		order.EstimatedValue = &estimatedValue.Float64
	}
	if closedAt.Valid {
		order.ClosedAt = &closedAt.Time
	}
	if invoiceDate.Valid {
		order.InvoiceDate = &invoiceDate.Time
	}
	if invoiceAmount.Valid {
		order.InvoiceAmount = &invoiceAmount.Float64
	}
	order.InvoiceNumber = invoiceNumber.String
	order.ServiceDetails = serviceDetails.String
	order.ClientName = clientName.String
	order.ResponsibleName = responsibleName.String

	return &order, nil
}

// GetAll retrieves service orders, optionally filtered by status, newest first
func (r *serviceOrderRepository) GetAll(ctx context.Context, status models.ServiceOrderStatus) ([]models.ServiceOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM service_orders o
		JOIN clients c ON c.id = o.client_id
		LEFT JOIN users u ON u.id = o.responsible_id
	`
	var args []interface{}
	if status != "" {
		query += " WHERE o.status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY o.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query service orders: %w", err)
	}
	defer rows.Close()

	var orders []models.ServiceOrder
	for rows.Next() {
		order, err := scanServiceOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service orders: %w", err)
	}

	return orders, nil
}

// GetByID retrieves a service order by ID
func (r *serviceOrderRepository) GetByID(ctx context.Context, id int) (*models.ServiceOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM service_orders o
		JOIN clients c ON c.id = o.client_id
		LEFT JOIN users u ON u.id = o.responsible_id
		WHERE o.id = ?
	`

	order, err := scanServiceOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("service order with ID %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service order: %w", err)
	}

	return order, nil
}

// Create inserts a new service order
func (r *serviceOrderRepository) Create(ctx context.Context, order *models.ServiceOrder) error {
	query := `
		INSERT INTO service_orders (client_id, responsible_id, description, estimated_value, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	if order.Status == "" {
		order.Status = models.StatusOpen
	}

	result, err := r.db.ExecContext(ctx, query,
		order.ClientID,
		order.ResponsibleID,
		order.Description,
		order.EstimatedValue,
		string(order.Status),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create service order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get created service order ID: %w", err)
	}

	order.ID = int(id)
	order.CreatedAt = now
	order.UpdatedAt = now
	return nil
}

// Update updates an existing service order, including invoice fields
func (r *serviceOrderRepository) Update(ctx context.Context, order *models.ServiceOrder) error {
	query := `
		UPDATE service_orders
		SET client_id = ?, responsible_id = ?, description = ?, estimated_value = ?,
		    status = ?, updated_at = ?, closed_at = ?,
		    invoice_number = ?, invoice_date = ?, invoice_amount = ?, service_details = ?
		WHERE id = ?
	`

	var invoiceNumber sql.NullString
	if order.InvoiceNumber != "" {
		invoiceNumber = sql.NullString{String: order.InvoiceNumber, Valid: true}
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		order.ClientID,
		order.ResponsibleID,
		order.Description,
		order.EstimatedValue,
		string(order.Status),
		now,
		order.ClosedAt,
		invoiceNumber,
		order.InvoiceDate,
		order.InvoiceAmount,
		order.ServiceDetails,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("service order with ID %d: %w", order.ID, ErrNotFound)
	}

	order.UpdatedAt = now
	return nil
}

// LinkEquipment replaces the equipment linked to a service order
func (r *serviceOrderRepository) LinkEquipment(ctx context.Context, orderID int, equipmentIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM equipment_service_orders WHERE service_order_id = ?", orderID); err != nil {
		return fmt.Errorf("failed to clear equipment links: %w", err)
	}

	for _, equipmentID := range equipmentIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO equipment_service_orders (equipment_id, service_order_id) VALUES (?, ?)",
			equipmentID, orderID,
		)
		if err != nil {
			return fmt.Errorf("failed to link equipment %d: %w", equipmentID, err)
		}
	}

	return tx.Commit()
}

// GetEquipment retrieves the equipment linked to a service order
func (r *serviceOrderRepository) GetEquipment(ctx context.Context, orderID int) ([]models.Equipment, error) {
	query := `
		SELECT ` + equipmentColumns + `
		FROM equipment_service_orders eso
		JOIN equipment e ON e.id = eso.equipment_id
		JOIN clients c ON c.id = e.client_id
		WHERE eso.service_order_id = ?
		ORDER BY e.type ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order equipment: %w", err)
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
		return nil, fmt.Errorf("error iterating order equipment: %w", err)
	}

	return items, nil
}

// GetStats returns per-status order counts for the dashboard
func (r *serviceOrderRepository) GetStats(ctx context.Context) (*models.ServiceOrderStats, error) {
	query := `
		SELECT
			COUNT(CASE WHEN status = 'aberta' THEN 1 END),
			COUNT(CASE WHEN status = 'em_andamento' THEN 1 END),
			COUNT(CASE WHEN status = 'fechada' THEN 1 END)
		FROM service_orders
	`

	var stats models.ServiceOrderStats
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.Open, &stats.InProgress, &stats.Closed)
	if err != nil {
		return nil, fmt.Errorf("failed to get service order stats: %w", err)
	}

	return &stats, nil
}

// CountByClient counts service orders belonging to a client
func (r *serviceOrderRepository) CountByClient(ctx context.Context, clientID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM service_orders WHERE client_id = ?", clientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count client service orders: %w", err)
	}
	return count, nil
}

// MaxNumericInvoiceNumber returns the highest purely numeric invoice number
// issued so far, or zero when none exist. Used to suggest the next number.
func (r *serviceOrderRepository) MaxNumericInvoiceNumber(ctx context.Context) (int64, error) {
	query := `
		SELECT COALESCE(MAX(CAST(invoice_number AS INTEGER)), 0)
		FROM service_orders
		WHERE invoice_number GLOB '[0-9]*'
	`

	var max int64
	err := r.db.QueryRowContext(ctx, query).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max invoice number: %w", err)
	}

	return max, nil
}
