package repositories

import (
	"database/sql"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	User         UserRepository
	Client       ClientRepository
	Equipment    EquipmentRepository
	ServiceOrder ServiceOrderRepository
	Financial    FinancialRepository
	Vehicle      VehicleRepository
	LoginAttempt LoginAttemptRepository
	ActionLog    ActionLogRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Client:       NewClientRepository(db),
		Equipment:    NewEquipmentRepository(db),
		ServiceOrder: NewServiceOrderRepository(db),
		Financial:    NewFinancialRepository(db),
		Vehicle:      NewVehicleRepository(db),
		LoginAttempt: NewLoginAttemptRepository(db),
		ActionLog:    NewActionLogRepository(db),
	}
}
