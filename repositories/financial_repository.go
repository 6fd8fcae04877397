package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/samape/samape/models"
)

// FinancialRepository interface defines financial entry database operations
type FinancialRepository interface {
	GetAll(ctx context.Context) ([]models.FinancialEntry, error)
	GetByServiceOrder(ctx context.Context, orderID int) ([]models.FinancialEntry, error)
	Create(ctx context.Context, entry *models.FinancialEntry) error
	GetMonthlySummary(ctx context.Context, year int, month time.Month) (*models.MonthlySummary, error)
}

// financialRepository implements FinancialRepository interface
type financialRepository struct {
	db *sql.DB
}

// NewFinancialRepository creates a new financial repository
func NewFinancialRepository(db *sql.DB) FinancialRepository {
	return &financialRepository{db: db}
}

const financialColumns = `id, service_order_id, description, amount, type, date, created_at, created_by`

func scanFinancialEntry(scanner interface{ Scan(...interface{}) error }) (*models.FinancialEntry, error) {
	var entry models.FinancialEntry
	var serviceOrderID, createdBy sql.NullInt64
	var entryType string

	err := scanner.Scan(
		&entry.ID,
		&serviceOrderID,
		&entry.Description,
		&entry.Amount,
		&entryType,
		&entry.Date,
		&entry.CreatedAt,
		&createdBy,
	)
	if err != nil {
		return nil, err
	}

	parsed, ok := models.ParseFinancialEntryType(entryType)
	if !ok {
		return nil, fmt.Errorf("unknown financial entry type: %q", entryType)
	}
	entry.Type = parsed

	if serviceOrderID.Valid {
		id := int(serviceOrderID.Int64)
		entry.ServiceOrderID = &id
	}
	if createdBy.Valid {
		id := int(createdBy.Int64)
		entry.CreatedBy = &id
	}

	return &entry, nil
}

// GetAll retrieves all financial entries, newest first
func (r *financialRepository) GetAll(ctx context.Context) ([]models.FinancialEntry, error) {
	query := `SELECT ` + financialColumns + ` FROM financial_entries ORDER BY date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial entries: %w", err)
	}
	defer rows.Close()

	var entries []models.FinancialEntry
	for rows.Next() {
		entry, err := scanFinancialEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan financial entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating financial entries: %w", err)
	}

	return entries, nil
}

// GetByServiceOrder retrieves the entries posted against a service order
func (r *financialRepository) GetByServiceOrder(ctx context.Context, orderID int) ([]models.FinancialEntry, error) {
	query := `SELECT ` + financialColumns + ` FROM financial_entries WHERE service_order_id = ? ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order financial entries: %w", err)
	}
	defer rows.Close()

	var entries []models.FinancialEntry
	for rows.Next() {
		entry, err := scanFinancialEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan financial entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating financial entries: %w", err)
	}

	return entries, nil
}

// Create inserts a new financial entry
func (r *financialRepository) Create(ctx context.Context, entry *models.FinancialEntry) error {
	query := `
		INSERT INTO financial_entries (service_order_id, description, amount, type, date, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	if entry.Date.IsZero() {
		entry.Date = now
	}

	result, err := r.db.ExecContext(ctx, query,
		entry.ServiceOrderID,
		entry.Description,
		entry.Amount,
		string(entry.Type),
		entry.Date,
		now,
		entry.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create financial entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get created financial entry ID: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = now
	return nil
}

// GetMonthlySummary aggregates income and expenses for the given month
func (r *financialRepository) GetMonthlySummary(ctx context.Context, year int, month time.Month) (*models.MonthlySummary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'entrada' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN type = 'saida' THEN amount END), 0)
		FROM financial_entries
		WHERE date >= ? AND date < ?
	`

	var summary models.MonthlySummary
	err := r.db.QueryRowContext(ctx, query, start, end).Scan(&summary.Income, &summary.Expenses)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly summary: %w", err)
	}

	summary.Balance = summary.Income - summary.Expenses
	return &summary, nil
}
