package services

import (
	"time"

	"github.com/samape/samape/config"
	"github.com/samape/samape/repositories"
)

// Services holds all service instances
type Services struct {
	Auth         AuthService
	Audit        AuditService
	User         UserService
	Client       ClientService
	Equipment    EquipmentService
	ServiceOrder ServiceOrderService
	Financial    FinancialService
	Vehicle      VehicleService
}

// NewServices creates all services wired to the given repositories
func NewServices(repos *repositories.Repositories, cfg *config.Config) *Services {
	audit := NewAuditService(repos.ActionLog)

	return &Services{
		Auth: NewAuthService(
			repos.User,
			repos.LoginAttempt,
			audit,
			cfg.LoginRateLimit,
			time.Duration(cfg.LoginRateLimitWindow)*time.Second,
		),
		Audit:        audit,
		User:         NewUserService(repos.User),
		Client:       NewClientService(repos.Client, repos.Equipment, repos.ServiceOrder),
		Equipment:    NewEquipmentService(repos.Equipment, repos.Client),
		ServiceOrder: NewServiceOrderService(repos.ServiceOrder, repos.Client, repos.Equipment, repos.Financial),
		Financial:    NewFinancialService(repos.Financial),
		Vehicle:      NewVehicleService(repos.Vehicle, repos.Financial),
	}
}
