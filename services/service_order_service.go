package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samape/samape/models"
	"github.com/samape/samape/repositories"
)

// ServiceOrderService interface defines service order business logic
type ServiceOrderService interface {
	GetAll(ctx context.Context, status models.ServiceOrderStatus) ([]models.ServiceOrder, error)
	GetByID(ctx context.Context, id int) (*models.ServiceOrder, error)
	GetEquipment(ctx context.Context, orderID int) ([]models.Equipment, error)
	Create(ctx context.Context, form *models.ServiceOrderForm) (*models.ServiceOrder, error)
	Update(ctx context.Context, id int, form *models.ServiceOrderForm) (*models.ServiceOrder, error)
	Close(ctx context.Context, id int, form *models.CloseServiceOrderForm, closedBy *int) (*models.ServiceOrder, error)
	GetStats(ctx context.Context) (*models.ServiceOrderStats, error)
	SuggestInvoiceNumber(ctx context.Context) (string, error)
}

// serviceOrderService implements ServiceOrderService interface
type serviceOrderService struct {
	orderRepo     repositories.ServiceOrderRepository
	clientRepo    repositories.ClientRepository
	equipmentRepo repositories.EquipmentRepository
	financialRepo repositories.FinancialRepository

	now func() time.Time
}

// NewServiceOrderService creates a new service order service
func NewServiceOrderService(
	orderRepo repositories.ServiceOrderRepository,
	clientRepo repositories.ClientRepository,
	equipmentRepo repositories.EquipmentRepository,
	financialRepo repositories.FinancialRepository,
) ServiceOrderService {
	return &serviceOrderService{
		orderRepo:     orderRepo,
		clientRepo:    clientRepo,
		equipmentRepo: equipmentRepo,
		financialRepo: financialRepo,
		now:           time.Now,
	}
}

// GetAll retrieves service orders, optionally filtered by status
func (s *serviceOrderService) GetAll(ctx context.Context, status models.ServiceOrderStatus) ([]models.ServiceOrder, error) {
	return s.orderRepo.GetAll(ctx, status)
}

// GetByID retrieves a service order by ID
func (s *serviceOrderService) GetByID(ctx context.Context, id int) (*models.ServiceOrder, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid service order ID: %d", id)
	}
	return s.orderRepo.GetByID(ctx, id)
}

// GetEquipment retrieves the equipment linked to an order
func (s *serviceOrderService) GetEquipment(ctx context.Context, orderID int) ([]models.Equipment, error) {
	return s.orderRepo.GetEquipment(ctx, orderID)
}

// Create opens a new service order
func (s *serviceOrderService) Create(ctx context.Context, form *models.ServiceOrderForm) (*models.ServiceOrder, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	if _, err := s.clientRepo.GetByID(ctx, form.ClientID); err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}

	order := &models.ServiceOrder{
		ClientID:       form.ClientID,
		ResponsibleID:  form.ResponsibleID,
		Description:    strings.TrimSpace(form.Description),
		EstimatedValue: form.EstimatedValue,
		Status:         models.StatusOpen,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create service order: %w", err)
	}

	if len(form.EquipmentIDs) > 0 {
		if err := s.orderRepo.LinkEquipment(ctx, order.ID, form.EquipmentIDs); err != nil {
			return nil, fmt.Errorf("failed to link equipment: %w", err)
		}
	}

	return order, nil
}

// Update updates an open service order. Closed orders are immutable.
func (s *serviceOrderService) Update(ctx context.Context, id int, form *models.ServiceOrderForm) (*models.ServiceOrder, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid service order ID: %d", id)
	}

	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service order not found: %w", err)
	}

	if order.IsClosed() {
		return nil, fmt.Errorf("cannot edit a closed service order")
	}

	order.ClientID = form.ClientID
	order.ResponsibleID = form.ResponsibleID
	order.Description = strings.TrimSpace(form.Description)
	order.EstimatedValue = form.EstimatedValue
	if form.Status != "" {
		status, _ := models.ParseServiceOrderStatus(form.Status)
		if status == models.StatusClosed {
			return nil, fmt.Errorf("use the close flow to close a service order")
		}
		order.Status = status
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update service order: %w", err)
	}

	if form.EquipmentIDs != nil {
		if err := s.orderRepo.LinkEquipment(ctx, order.ID, form.EquipmentIDs); err != nil {
			return nil, fmt.Errorf("failed to link equipment: %w", err)
		}
	}

	return order, nil
}

// Close closes a service order, stamping its invoice and posting the
// matching income entry to the financial ledger
func (s *serviceOrderService) Close(ctx context.Context, id int, form *models.CloseServiceOrderForm, closedBy *int) (*models.ServiceOrder, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service order not found: %w", err)
	}

	if order.IsClosed() {
		return nil, fmt.Errorf("service order is already closed")
	}

	now := s.now().UTC()
	amount := form.InvoiceAmount

	order.Status = models.StatusClosed
	order.ClosedAt = &now
	order.InvoiceNumber = strings.TrimSpace(form.InvoiceNumber)
	order.InvoiceDate = &now
	order.InvoiceAmount = &amount
	order.ServiceDetails = strings.TrimSpace(form.ServiceDetails)

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to close service order: %w", err)
	}

	entry := &models.FinancialEntry{
		ServiceOrderID: &order.ID,
		Description:    fmt.Sprintf("NF-e %s - OS %d", order.InvoiceNumber, order.ID),
		Amount:         amount,
		Type:           models.EntryIncome,
		Date:           now,
		CreatedBy:      closedBy,
	}
	if err := s.financialRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("order closed but failed to post financial entry: %w", err)
	}

	// Servicing the equipment counts as its latest maintenance
	equipment, err := s.orderRepo.GetEquipment(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("order closed but failed to load equipment: %w", err)
	}
	for _, e := range equipment {
		if err := s.equipmentRepo.TouchLastMaintenance(ctx, e.ID, now); err != nil {
			return nil, fmt.Errorf("order closed but failed to update equipment maintenance date: %w", err)
		}
	}

	return order, nil
}

// GetStats returns per-status order counts
func (s *serviceOrderService) GetStats(ctx context.Context) (*models.ServiceOrderStats, error) {
	return s.orderRepo.GetStats(ctx)
}

// SuggestInvoiceNumber proposes the next invoice number: one past the
// highest numeric invoice issued so far
func (s *serviceOrderService) SuggestInvoiceNumber(ctx context.Context) (string, error) {
	max, err := s.orderRepo.MaxNumericInvoiceNumber(ctx)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(max+1, 10), nil
}
