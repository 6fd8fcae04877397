package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/samape/samape/models"
	"github.com/samape/samape/repositories"
)

// ClientService interface defines client management business logic
type ClientService interface {
	GetAll(ctx context.Context) ([]models.Client, error)
	GetByID(ctx context.Context, id int) (*models.Client, error)
	Create(ctx context.Context, form *models.ClientForm) (*models.Client, error)
	Update(ctx context.Context, id int, form *models.ClientForm) (*models.Client, error)
	Delete(ctx context.Context, id int) error
}

// clientService implements ClientService interface
type clientService struct {
	clientRepo    repositories.ClientRepository
	equipmentRepo repositories.EquipmentRepository
	orderRepo     repositories.ServiceOrderRepository
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo repositories.ClientRepository,
	equipmentRepo repositories.EquipmentRepository,
	orderRepo repositories.ServiceOrderRepository,
) ClientService {
	return &clientService{
		clientRepo:    clientRepo,
		equipmentRepo: equipmentRepo,
		orderRepo:     orderRepo,
	}
}

// GetAll retrieves all clients
func (s *clientService) GetAll(ctx context.Context) ([]models.Client, error) {
	return s.clientRepo.GetAll(ctx)
}

// GetByID retrieves a client by ID
func (s *clientService) GetByID(ctx context.Context, id int) (*models.Client, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid client ID: %d", id)
	}
	return s.clientRepo.GetByID(ctx, id)
}

// Create creates a new client with validation. The document is stored
// digits-only so CPF/CNPJ lookups are format-insensitive.
func (s *clientService) Create(ctx context.Context, form *models.ClientForm) (*models.Client, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	document := models.DigitsOnly(form.Document)
	if existing, err := s.clientRepo.GetByDocument(ctx, document); err == nil && existing != nil {
		return nil, fmt.Errorf("client with document %s already exists", models.FormatDocument(document))
	}

	client := &models.Client{
		Name:     strings.TrimSpace(form.Name),
		Document: document,
		Email:    strings.TrimSpace(form.Email),
		Phone:    strings.TrimSpace(form.Phone),
		Address:  strings.TrimSpace(form.Address),
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// Update updates an existing client
func (s *clientService) Update(ctx context.Context, id int, form *models.ClientForm) (*models.Client, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid client ID: %d", id)
	}

	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}

	document := models.DigitsOnly(form.Document)
	if document != client.Document {
		if existing, err := s.clientRepo.GetByDocument(ctx, document); err == nil && existing != nil && existing.ID != id {
			return nil, fmt.Errorf("client with document %s already exists", models.FormatDocument(document))
		}
	}

	client.Name = strings.TrimSpace(form.Name)
	client.Document = document
	client.Email = strings.TrimSpace(form.Email)
	client.Phone = strings.TrimSpace(form.Phone)
	client.Address = strings.TrimSpace(form.Address)

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return client, nil
}

// Delete removes a client after checking nothing still references it
func (s *clientService) Delete(ctx context.Context, id int) error {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("client not found: %w", err)
	}

	equipmentCount, err := s.equipmentRepo.CountByClient(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check client equipment: %w", err)
	}
	if equipmentCount > 0 {
		return fmt.Errorf("cannot delete client with registered equipment")
	}

	orderCount, err := s.orderRepo.CountByClient(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check client service orders: %w", err)
	}
	if orderCount > 0 {
		return fmt.Errorf("cannot delete client with service orders")
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	return nil
}
