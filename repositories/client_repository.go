package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samape/samape/models"
)

// ClientRepository interface defines client database operations
type ClientRepository interface {
	GetAll(ctx context.Context) ([]models.Client, error)
	GetByID(ctx context.Context, id int) (*models.Client, error)
	GetByDocument(ctx context.Context, document string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

// clientRepository implements ClientRepository interface
type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, document, email, phone, address, created_at, updated_at`

func scanClient(scanner interface{ Scan(...interface{}) error }) (*models.Client, error) {
	var client models.Client
	var email, phone, address sql.NullString

	err := scanner.Scan(
		&client.ID,
		&client.Name,
		&client.Document,
		&email,
		&phone,
		&address,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	client.Email = email.String
	client.Phone = phone.String
	client.Address = address.String

	return &client, nil
}

// GetAll retrieves all clients ordered by name
func (r *clientRepository) GetAll(ctx context.Context) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *client)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

// GetByID retrieves a client by ID
func (r *clientRepository) GetByID(ctx context.Context, id int) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ?`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client with ID %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return client, nil
}

// GetByDocument retrieves a client by its CPF/CNPJ
func (r *clientRepository) GetByDocument(ctx context.Context, document string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE document = ?`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, document))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client with document %q: %w", document, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return client, nil
}

// Create inserts a new client
func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (name, document, email, phone, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Document,
		client.Email,
		client.Phone,
		client.Address,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get created client ID: %w", err)
	}

	client.ID = int(id)
	client.CreatedAt = now
	client.UpdatedAt = now
	return nil
}

// Update updates an existing client
func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = ?, document = ?, email = ?, phone = ?, address = ?, updated_at = ?
		WHERE id = ?
	`

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Document,
		client.Email,
		client.Phone,
		client.Address,
		now,
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("client with ID %d: %w", client.ID, ErrNotFound)
	}

	client.UpdatedAt = now
	return nil
}

// Delete removes a client
func (r *clientRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("client with ID %d: %w", id, ErrNotFound)
	}

	return nil
}

// Count returns the total number of clients
func (r *clientRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clients").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return count, nil
}
