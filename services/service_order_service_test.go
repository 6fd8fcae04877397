package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samape/samape/models"
	"github.com/samape/samape/repositories"
)

type stubOrderRepo struct {
	orders     map[int]*models.ServiceOrder
	equipment  map[int][]models.Equipment
	linked     map[int][]int
	maxInvoice int64
	nextID     int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:    map[int]*models.ServiceOrder{},
		equipment: map[int][]models.Equipment{},
		linked:    map[int][]int{},
		nextID:    1,
	}
}

func (r *stubOrderRepo) GetAll(ctx context.Context, status models.ServiceOrderStatus) ([]models.ServiceOrder, error) {
	var orders []models.ServiceOrder
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (r *stubOrderRepo) GetByID(ctx context.Context, id int) (*models.ServiceOrder, error) {
	if o, ok := r.orders[id]; ok {
		return o, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *stubOrderRepo) Create(ctx context.Context, order *models.ServiceOrder) error {
	order.ID = r.nextID
	r.nextID++
	r.orders[order.ID] = order
	return nil
}

func (r *stubOrderRepo) Update(ctx context.Context, order *models.ServiceOrder) error {
	if _, ok := r.orders[order.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.orders[order.ID] = order
	return nil
}

func (r *stubOrderRepo) LinkEquipment(ctx context.Context, orderID int, equipmentIDs []int) error {
	r.linked[orderID] = equipmentIDs
	return nil
}

func (r *stubOrderRepo) GetEquipment(ctx context.Context, orderID int) ([]models.Equipment, error) {
	return r.equipment[orderID], nil
}

func (r *stubOrderRepo) GetStats(ctx context.Context) (*models.ServiceOrderStats, error) {
	return &models.ServiceOrderStats{}, nil
}

func (r *stubOrderRepo) CountByClient(ctx context.Context, clientID int) (int, error) {
	return 0, nil
}

func (r *stubOrderRepo) MaxNumericInvoiceNumber(ctx context.Context) (int64, error) {
	return r.maxInvoice, nil
}

type stubClientRepo struct {
	clients map[int]*models.Client
}

func (r *stubClientRepo) GetAll(ctx context.Context) ([]models.Client, error) { return nil, nil }
func (r *stubClientRepo) GetByID(ctx context.Context, id int) (*models.Client, error) {
	if c, ok := r.clients[id]; ok {
		return c, nil
	}
	return nil, repositories.ErrNotFound
}
func (r *stubClientRepo) GetByDocument(ctx context.Context, document string) (*models.Client, error) {
	return nil, repositories.ErrNotFound
}
func (r *stubClientRepo) Create(ctx context.Context, client *models.Client) error { return nil }
func (r *stubClientRepo) Update(ctx context.Context, client *models.Client) error { return nil }
func (r *stubClientRepo) Delete(ctx context.Context, id int) error                { return nil }
func (r *stubClientRepo) Count(ctx context.Context) (int, error)                  { return 0, nil }

type stubEquipmentRepo struct {
	touched map[int]time.Time
}

func (r *stubEquipmentRepo) GetAll(ctx context.Context) ([]models.Equipment, error) { return nil, nil }
func (r *stubEquipmentRepo) GetByID(ctx context.Context, id int) (*models.Equipment, error) {
	return nil, repositories.ErrNotFound
}
func (r *stubEquipmentRepo) GetByClient(ctx context.Context, clientID int) ([]models.Equipment, error) {
	return nil, nil
}
func (r *stubEquipmentRepo) Create(ctx context.Context, equipment *models.Equipment) error {
	return nil
}
func (r *stubEquipmentRepo) Update(ctx context.Context, equipment *models.Equipment) error {
	return nil
}
func (r *stubEquipmentRepo) Delete(ctx context.Context, id int) error { return nil }
func (r *stubEquipmentRepo) CountByClient(ctx context.Context, clientID int) (int, error) {
	return 0, nil
}
func (r *stubEquipmentRepo) TouchLastMaintenance(ctx context.Context, id int, at time.Time) error {
	if r.touched == nil {
		r.touched = map[int]time.Time{}
	}
	r.touched[id] = at
	return nil
}

type stubFinancialRepo struct {
	entries []models.FinancialEntry
}

func (r *stubFinancialRepo) GetAll(ctx context.Context) ([]models.FinancialEntry, error) {
	return r.entries, nil
}
func (r *stubFinancialRepo) GetByServiceOrder(ctx context.Context, orderID int) ([]models.FinancialEntry, error) {
	return nil, nil
}
func (r *stubFinancialRepo) Create(ctx context.Context, entry *models.FinancialEntry) error {
	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}
func (r *stubFinancialRepo) GetMonthlySummary(ctx context.Context, year int, month time.Month) (*models.MonthlySummary, error) {
	return &models.MonthlySummary{}, nil
}

func TestCloseServiceOrder(t *testing.T) {
	orderRepo := newStubOrderRepo()
	clientRepo := &stubClientRepo{clients: map[int]*models.Client{1: {ID: 1, Name: "Fazenda Boa Vista"}}}
	equipmentRepo := &stubEquipmentRepo{}
	financialRepo := &stubFinancialRepo{}

	svc := NewServiceOrderService(orderRepo, clientRepo, equipmentRepo, financialRepo).(*serviceOrderService)
	closedAt := time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return closedAt }

	order, err := svc.Create(context.Background(), &models.ServiceOrderForm{
		ClientID:    1,
		Description: "Revisão de colheitadeira",
	})
	require.NoError(t, err)
	orderRepo.equipment[order.ID] = []models.Equipment{{ID: 10}, {ID: 11}}

	actor := 3
	closed, err := svc.Close(context.Background(), order.ID, &models.CloseServiceOrderForm{
		InvoiceNumber: "1042",
		InvoiceAmount: 3500.00,
	}, &actor)
	require.NoError(t, err)

	assert.Equal(t, models.StatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	assert.Equal(t, closedAt, *closed.ClosedAt)
	assert.Equal(t, "1042", closed.InvoiceNumber)

	// The invoice amount landed in the ledger as income
	require.Len(t, financialRepo.entries, 1)
	entry := financialRepo.entries[0]
	assert.Equal(t, models.EntryIncome, entry.Type)
	assert.Equal(t, 3500.00, entry.Amount)
	require.NotNil(t, entry.ServiceOrderID)
	assert.Equal(t, closed.ID, *entry.ServiceOrderID)
	assert.Equal(t, &actor, entry.CreatedBy)

	// Both linked machines got their maintenance date stamped
	assert.Len(t, equipmentRepo.touched, 2)
	assert.Equal(t, closedAt, equipmentRepo.touched[10])
}

func TestCloseServiceOrderAlreadyClosed(t *testing.T) {
	orderRepo := newStubOrderRepo()
	clientRepo := &stubClientRepo{clients: map[int]*models.Client{1: {ID: 1}}}
	svc := NewServiceOrderService(orderRepo, clientRepo, &stubEquipmentRepo{}, &stubFinancialRepo{})

	orderRepo.orders[5] = &models.ServiceOrder{ID: 5, ClientID: 1, Status: models.StatusClosed}

	_, err := svc.Close(context.Background(), 5, &models.CloseServiceOrderForm{
		InvoiceNumber: "1043",
		InvoiceAmount: 100,
	}, nil)
	assert.Error(t, err)
}

func TestUpdateClosedOrderRejected(t *testing.T) {
	orderRepo := newStubOrderRepo()
	clientRepo := &stubClientRepo{clients: map[int]*models.Client{1: {ID: 1}}}
	svc := NewServiceOrderService(orderRepo, clientRepo, &stubEquipmentRepo{}, &stubFinancialRepo{})

	orderRepo.orders[5] = &models.ServiceOrder{ID: 5, ClientID: 1, Status: models.StatusClosed}

	_, err := svc.Update(context.Background(), 5, &models.ServiceOrderForm{
		ClientID:    1,
		Description: "alterando OS fechada",
	})
	assert.Error(t, err)
}

func TestSuggestInvoiceNumber(t *testing.T) {
	orderRepo := newStubOrderRepo()
	orderRepo.maxInvoice = 1041
	svc := NewServiceOrderService(orderRepo, &stubClientRepo{}, &stubEquipmentRepo{}, &stubFinancialRepo{})

	suggested, err := svc.SuggestInvoiceNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1042", suggested)
}
