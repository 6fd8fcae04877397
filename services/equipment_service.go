package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/samape/samape/models"
	"github.com/samape/samape/repositories"
)

// EquipmentService interface defines equipment management business logic
type EquipmentService interface {
	GetAll(ctx context.Context) ([]models.Equipment, error)
	GetByID(ctx context.Context, id int) (*models.Equipment, error)
	GetByClient(ctx context.Context, clientID int) ([]models.Equipment, error)
	Create(ctx context.Context, form *models.EquipmentForm) (*models.Equipment, error)
	Update(ctx context.Context, id int, form *models.EquipmentForm) (*models.Equipment, error)
	Delete(ctx context.Context, id int) error
}

// equipmentService implements EquipmentService interface
type equipmentService struct {
	equipmentRepo repositories.EquipmentRepository
	clientRepo    repositories.ClientRepository
}

// NewEquipmentService creates a new equipment service
func NewEquipmentService(equipmentRepo repositories.EquipmentRepository, clientRepo repositories.ClientRepository) EquipmentService {
	return &equipmentService{
		equipmentRepo: equipmentRepo,
		clientRepo:    clientRepo,
	}
}

// GetAll retrieves all equipment
func (s *equipmentService) GetAll(ctx context.Context) ([]models.Equipment, error) {
	return s.equipmentRepo.GetAll(ctx)
}

// GetByID retrieves one piece of equipment
func (s *equipmentService) GetByID(ctx context.Context, id int) (*models.Equipment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid equipment ID: %d", id)
	}
	return s.equipmentRepo.GetByID(ctx, id)
}

// GetByClient retrieves equipment owned by a client
func (s *equipmentService) GetByClient(ctx context.Context, clientID int) ([]models.Equipment, error) {
	if clientID <= 0 {
		return nil, fmt.Errorf("invalid client ID: %d", clientID)
	}
	return s.equipmentRepo.GetByClient(ctx, clientID)
}

// Create creates a new equipment row with validation
func (s *equipmentService) Create(ctx context.Context, form *models.EquipmentForm) (*models.Equipment, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	if _, err := s.clientRepo.GetByID(ctx, form.ClientID); err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}

	equipment := &models.Equipment{
		ClientID:     form.ClientID,
		Type:         strings.TrimSpace(form.Type),
		Brand:        strings.TrimSpace(form.Brand),
		Model:        strings.TrimSpace(form.Model),
		SerialNumber: strings.TrimSpace(form.SerialNumber),
		Year:         form.Year,
	}

	if err := s.equipmentRepo.Create(ctx, equipment); err != nil {
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}

	return equipment, nil
}

// Update updates an existing equipment row
func (s *equipmentService) Update(ctx context.Context, id int, form *models.EquipmentForm) (*models.Equipment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid equipment ID: %d", id)
	}

	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("equipment not found: %w", err)
	}

	equipment.ClientID = form.ClientID
	equipment.Type = strings.TrimSpace(form.Type)
	equipment.Brand = strings.TrimSpace(form.Brand)
	equipment.Model = strings.TrimSpace(form.Model)
	equipment.SerialNumber = strings.TrimSpace(form.SerialNumber)
	equipment.Year = form.Year

	if err := s.equipmentRepo.Update(ctx, equipment); err != nil {
		return nil, fmt.Errorf("failed to update equipment: %w", err)
	}

	return equipment, nil
}

// Delete removes an equipment row
func (s *equipmentService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid equipment ID: %d", id)
	}

	if err := s.equipmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete equipment: %w", err)
	}

	return nil
}
