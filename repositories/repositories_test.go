package repositories

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/samape/samape/database"
	"github.com/samape/samape/models"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	// Create a temporary database for testing
	dbPath := "test_" + time.Now().Format("20060102150405.000000000") + ".db"

	// Clean up function
	t.Cleanup(func() {
		database.CloseDB()
		os.Remove(dbPath)
	})

	// Initialize test database using the actual migration system
	if err := database.InitializeDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	return database.GetDB()
}

func createTestUser(t *testing.T, repo UserRepository, username, email string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Name:     "Test User",
		Email:    email,
		Role:     models.RoleEmployee,
		Active:   true,
	}
	if err := user.SetPassword("password1"); err != nil {
		t.Fatalf("Failed to set password: %v", err)
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, repo, "alice", "alice@example.com")
	if user.ID == 0 {
		t.Error("Expected user ID to be set after creation")
	}

	// Test GetByUsername
	retrieved, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to get user by username: %v", err)
	}
	if retrieved.Email != "alice@example.com" {
		t.Errorf("Expected email alice@example.com, got %s", retrieved.Email)
	}
	if !retrieved.CheckPassword("password1") {
		t.Error("Expected stored password hash to verify")
	}

	// Test GetByEmail
	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Failed to get user by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("Expected ID %d, got %d", user.ID, byEmail.ID)
	}

	// Test Update
	user.Name = "Alice Souza"
	user.Role = models.RoleManager
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}

	updated, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to get updated user: %v", err)
	}
	if updated.Name != "Alice Souza" || updated.Role != models.RoleManager {
		t.Errorf("Expected updated name/role, got %s/%s", updated.Name, updated.Role)
	}

	// Test Count
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected count 1, got %d", count)
	}

	// Unknown username
	if _, err := repo.GetByUsername(ctx, "nobody"); err == nil {
		t.Error("Expected error for unknown username")
	}
}

func TestLoginAttemptRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLoginAttemptRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()

	// Five failures inside the window, one outside, one success
	for i := 0; i < 5; i++ {
		attempt := &models.LoginAttempt{
			Email:     "bob@example.com",
			Success:   false,
			IPAddress: "10.0.0.1",
			Timestamp: now.Add(-time.Duration(i*10) * time.Second),
		}
		if err := repo.Create(ctx, attempt); err != nil {
			t.Fatalf("Failed to create login attempt: %v", err)
		}
	}

	old := &models.LoginAttempt{
		Email:     "bob@example.com",
		Success:   false,
		Timestamp: now.Add(-10 * time.Minute),
	}
	if err := repo.Create(ctx, old); err != nil {
		t.Fatalf("Failed to create old attempt: %v", err)
	}

	ok := &models.LoginAttempt{
		Email:     "bob@example.com",
		Success:   true,
		Timestamp: now,
	}
	if err := repo.Create(ctx, ok); err != nil {
		t.Fatalf("Failed to create success attempt: %v", err)
	}

	// Only the five recent failures count
	count, err := repo.CountRecentFailures(ctx, "bob@example.com", now.Add(-300*time.Second))
	if err != nil {
		t.Fatalf("Failed to count recent failures: %v", err)
	}
	if count != 5 {
		t.Errorf("Expected 5 recent failures, got %d", count)
	}

	// Other identities are unaffected
	count, err = repo.CountRecentFailures(ctx, "carol@example.com", now.Add(-300*time.Second))
	if err != nil {
		t.Fatalf("Failed to count recent failures: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 failures for other identity, got %d", count)
	}

	// GetRecent returns newest first
	attempts, err := repo.GetRecent(ctx, "bob@example.com", 3)
	if err != nil {
		t.Fatalf("Failed to get recent attempts: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("Expected 3 attempts, got %d", len(attempts))
	}
	if !attempts[0].Success {
		t.Error("Expected most recent attempt to be the successful one")
	}
}

func TestActionLogRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActionLogRepository(db)
	userRepo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, userRepo, "admin", "admin@example.com")

	entityID := 42
	entry := &models.ActionLogEntry{
		UserID:     &user.ID,
		Action:     "Login",
		EntityType: "user",
		EntityID:   &entityID,
		IPAddress:  "192.168.0.1",
	}
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("Failed to create action log entry: %v", err)
	}
	if entry.ID == 0 {
		t.Error("Expected entry ID to be set after creation")
	}
	if entry.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set at write time")
	}

	entries, err := repo.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to get recent entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].UserName != user.Name {
		t.Errorf("Expected joined user name %s, got %s", user.Name, entries[0].UserName)
	}
	if entries[0].EntityID == nil || *entries[0].EntityID != 42 {
		t.Error("Expected entity ID 42")
	}
}

func TestClientRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	client := &models.Client{
		Name:     "Fazenda Boa Vista",
		Document: "12345678909",
		Email:    "contato@boavista.com.br",
		Phone:    "11 99999-0000",
	}
	if err := repo.Create(ctx, client); err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	retrieved, err := repo.GetByDocument(ctx, "12345678909")
	if err != nil {
		t.Fatalf("Failed to get client by document: %v", err)
	}
	if retrieved.Name != client.Name {
		t.Errorf("Expected name %s, got %s", client.Name, retrieved.Name)
	}

	client.Phone = "11 98888-7777"
	if err := repo.Update(ctx, client); err != nil {
		t.Fatalf("Failed to update client: %v", err)
	}

	clients, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("Failed to get all clients: %v", err)
	}
	if len(clients) != 1 {
		t.Errorf("Expected 1 client, got %d", len(clients))
	}

	if err := repo.Delete(ctx, client.ID); err != nil {
		t.Fatalf("Failed to delete client: %v", err)
	}
	if _, err := repo.GetByID(ctx, client.ID); err == nil {
		t.Error("Expected error when getting deleted client")
	}
}

func TestServiceOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	orderRepo := NewServiceOrderRepository(db)
	clientRepo := NewClientRepository(db)
	equipmentRepo := NewEquipmentRepository(db)
	ctx := context.Background()

	client := &models.Client{Name: "Cliente Teste", Document: "12345678909"}
	if err := clientRepo.Create(ctx, client); err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	eq := &models.Equipment{ClientID: client.ID, Type: "Trator", Brand: "Valtra"}
	if err := equipmentRepo.Create(ctx, eq); err != nil {
		t.Fatalf("Failed to create equipment: %v", err)
	}

	order := &models.ServiceOrder{
		ClientID:    client.ID,
		Description: "Revisão do motor",
	}
	if err := orderRepo.Create(ctx, order); err != nil {
		t.Fatalf("Failed to create service order: %v", err)
	}
	if order.Status != models.StatusOpen {
		t.Errorf("Expected new order to be open, got %s", order.Status)
	}

	// Link equipment
	if err := orderRepo.LinkEquipment(ctx, order.ID, []int{eq.ID}); err != nil {
		t.Fatalf("Failed to link equipment: %v", err)
	}
	linked, err := orderRepo.GetEquipment(ctx, order.ID)
	if err != nil {
		t.Fatalf("Failed to get linked equipment: %v", err)
	}
	if len(linked) != 1 || linked[0].ID != eq.ID {
		t.Error("Expected linked equipment to match")
	}

	// Close with invoice
	now := time.Now().UTC()
	amount := 1500.0
	order.Status = models.StatusClosed
	order.ClosedAt = &now
	order.InvoiceNumber = "1042"
	order.InvoiceDate = &now
	order.InvoiceAmount = &amount
	if err := orderRepo.Update(ctx, order); err != nil {
		t.Fatalf("Failed to close service order: %v", err)
	}

	closed, err := orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("Failed to get closed order: %v", err)
	}
	if !closed.IsClosed() || closed.InvoiceNumber != "1042" {
		t.Error("Expected order to be closed with invoice 1042")
	}
	if closed.ClientName != client.Name {
		t.Errorf("Expected joined client name %s, got %s", client.Name, closed.ClientName)
	}

	// Stats
	stats, err := orderRepo.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.Closed != 1 || stats.Open != 0 {
		t.Errorf("Expected 1 closed / 0 open, got %d/%d", stats.Closed, stats.Open)
	}

	// Max numeric invoice number
	max, err := orderRepo.MaxNumericInvoiceNumber(ctx)
	if err != nil {
		t.Fatalf("Failed to get max invoice number: %v", err)
	}
	if max != 1042 {
		t.Errorf("Expected max invoice number 1042, got %d", max)
	}
}

func TestFinancialRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFinancialRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()

	income := &models.FinancialEntry{
		Description: "NF-e 1042",
		Amount:      1500,
		Type:        models.EntryIncome,
		Date:        now,
	}
	if err := repo.Create(ctx, income); err != nil {
		t.Fatalf("Failed to create income entry: %v", err)
	}

	expense := &models.FinancialEntry{
		Description: "Peças",
		Amount:      400,
		Type:        models.EntryExpense,
		Date:        now,
	}
	if err := repo.Create(ctx, expense); err != nil {
		t.Fatalf("Failed to create expense entry: %v", err)
	}

	// Entry from a previous month must not count
	oldEntry := &models.FinancialEntry{
		Description: "Antiga",
		Amount:      999,
		Type:        models.EntryIncome,
		Date:        now.AddDate(0, -2, 0),
	}
	if err := repo.Create(ctx, oldEntry); err != nil {
		t.Fatalf("Failed to create old entry: %v", err)
	}

	summary, err := repo.GetMonthlySummary(ctx, now.Year(), now.Month())
	if err != nil {
		t.Fatalf("Failed to get monthly summary: %v", err)
	}
	if summary.Income != 1500 {
		t.Errorf("Expected income 1500, got %f", summary.Income)
	}
	if summary.Expenses != 400 {
		t.Errorf("Expected expenses 400, got %f", summary.Expenses)
	}
	if summary.Balance != 1100 {
		t.Errorf("Expected balance 1100, got %f", summary.Balance)
	}
}

func TestVehicleRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVehicleRepository(db)
	ctx := context.Background()

	vehicle := &models.Vehicle{
		Plate:     "ABC1D23",
		Brand:     "Ford",
		Model:     "Ranger",
		CurrentKM: 50000,
	}
	if err := repo.Create(ctx, vehicle); err != nil {
		t.Fatalf("Failed to create vehicle: %v", err)
	}
	if vehicle.Status != models.VehicleStatusActive {
		t.Errorf("Expected new vehicle to be ativo, got %s", vehicle.Status)
	}

	retrieved, err := repo.GetByPlate(ctx, "ABC1D23")
	if err != nil {
		t.Fatalf("Failed to get vehicle by plate: %v", err)
	}
	if retrieved.Model != "Ranger" {
		t.Errorf("Expected model Ranger, got %s", retrieved.Model)
	}

	// Refueling rolls forward via UpdateOdometer
	refueling := &models.Refueling{
		VehicleID:     vehicle.ID,
		Date:          time.Now().UTC(),
		Odometer:      50500,
		Liters:        60,
		PricePerLiter: 5.89,
		TotalCost:     353.40,
	}
	if err := repo.CreateRefueling(ctx, refueling); err != nil {
		t.Fatalf("Failed to create refueling: %v", err)
	}
	if err := repo.UpdateOdometer(ctx, vehicle.ID, refueling.Odometer); err != nil {
		t.Fatalf("Failed to update odometer: %v", err)
	}

	updated, err := repo.GetByID(ctx, vehicle.ID)
	if err != nil {
		t.Fatalf("Failed to get updated vehicle: %v", err)
	}
	if updated.CurrentKM != 50500 {
		t.Errorf("Expected odometer 50500, got %d", updated.CurrentKM)
	}

	refuelings, err := repo.GetRefuelingsByVehicle(ctx, vehicle.ID)
	if err != nil {
		t.Fatalf("Failed to get refuelings: %v", err)
	}
	if len(refuelings) != 1 || refuelings[0].VehiclePlate != "ABC1D23" {
		t.Error("Expected 1 refueling with joined plate")
	}

	// Maintenance
	maintenance := &models.VehicleMaintenance{
		VehicleID:   vehicle.ID,
		Date:        time.Now().UTC(),
		Description: "Troca de óleo",
	}
	if err := repo.CreateMaintenance(ctx, maintenance); err != nil {
		t.Fatalf("Failed to create maintenance: %v", err)
	}
	records, err := repo.GetMaintenanceByVehicle(ctx, vehicle.ID)
	if err != nil {
		t.Fatalf("Failed to get maintenance records: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 maintenance record, got %d", len(records))
	}

	// Stats
	stats, err := repo.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get vehicle stats: %v", err)
	}
	if stats.Active != 1 {
		t.Errorf("Expected 1 active vehicle, got %d", stats.Active)
	}
}
