package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/samape/samape/config"
	"github.com/samape/samape/controllers"
	"github.com/samape/samape/database"
	"github.com/samape/samape/logging"
	authmiddleware "github.com/samape/samape/middleware"
	"github.com/samape/samape/models"
	"github.com/samape/samape/repositories"
	"github.com/samape/samape/services"
)

func main() {
	// Load environment variables from .env file, when present
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.Env, os.Getenv("LOG_LEVEL"))
	defer logging.Sync()

	// Initialize database
	if err := database.InitializeDatabase(cfg.DatabasePath); err != nil {
		logging.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.CloseDB()

	db := database.GetDB()

	// Initialize repositories
	repos := repositories.NewRepositories(db)

	// Initialize services
	srvs := services.NewServices(repos, cfg)

	// Bootstrap the administrator account when configured
	if username := os.Getenv("ADMIN_USERNAME"); username != "" {
		err := srvs.User.EnsureAdmin(context.Background(),
			username,
			os.Getenv("ADMIN_EMAIL"),
			os.Getenv("ADMIN_PASSWORD"),
		)
		if err != nil {
			logging.Fatal("failed to bootstrap admin account", zap.Error(err))
		}
	}

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs, cfg)

	// Set up router
	r, err := setupRouter(ctrl, cfg)
	if err != nil {
		logging.Fatal("failed to setup router", zap.Error(err))
	}

	logging.Info("SAMAPE starting",
		zap.String("port", cfg.Port),
		zap.String("database", cfg.DatabasePath),
	)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logging.Fatal("server stopped", zap.Error(err))
	}
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, cfg *config.Config) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     config.SessionCookieName,
		Secure:         cfg.UseHTTPS,
		Gclifetime:     cfg.SessionLifetimeSeconds,
		Maxlifetime:    cfg.SessionLifetimeSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// Static files
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static/"))))

	// PUBLIC ROUTES (no authentication required)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, services.DefaultLandingPath, http.StatusSeeOther)
	})
	r.Get("/login", ctrl.Auth.LoginPage)
	r.Post("/login", ctrl.Auth.Login)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "samape"}`)
	})

	// PROTECTED ROUTES (authentication required)
	r.Group(func(r chi.Router) {
		r.Use(authmiddleware.RequireAuth)

		r.Post("/logout", ctrl.Auth.Logout)
		r.Get("/dashboard", ctrl.Dashboard.Index)

		r.Get("/perfil", ctrl.User.Profile)
		r.Post("/perfil", ctrl.User.UpdateProfile)

		// Client management routes
		r.Route("/clientes", func(r chi.Router) {
			r.Get("/", ctrl.Client.Index)
			r.Post("/", ctrl.Client.Create)
			r.Get("/{id}/editar", ctrl.Client.Edit)
			r.Post("/{id}", ctrl.Client.Update)

			// Deleting clients is restricted to administrators
			r.With(authmiddleware.RequireRole(models.RoleAdmin)).
				Post("/{id}/excluir", ctrl.Client.Delete)
		})

		// Equipment routes
		r.Route("/equipamentos", func(r chi.Router) {
			r.Get("/", ctrl.Equipment.Index)
			r.Post("/", ctrl.Equipment.Create)
			r.Get("/{id}/editar", ctrl.Equipment.Edit)
			r.Post("/{id}", ctrl.Equipment.Update)

			r.With(authmiddleware.RequireRole(models.RoleAdmin)).
				Post("/{id}/excluir", ctrl.Equipment.Delete)
		})

		// Service order routes
		r.Route("/os", func(r chi.Router) {
			r.Get("/", ctrl.ServiceOrder.Index)
			r.Get("/nova", ctrl.ServiceOrder.New)
			r.Post("/", ctrl.ServiceOrder.Create)
			r.Get("/{id}", ctrl.ServiceOrder.Show)
			r.Post("/{id}", ctrl.ServiceOrder.Update)

			// Closing an order issues its invoice
			r.With(authmiddleware.RequireRole(models.RoleAdmin, models.RoleManager)).
				Get("/{id}/fechar", ctrl.ServiceOrder.CloseForm)
			r.With(authmiddleware.RequireRole(models.RoleAdmin, models.RoleManager)).
				Post("/{id}/fechar", ctrl.ServiceOrder.Close)
		})

		// Financial routes, managers and administrators only
		r.Route("/financeiro", func(r chi.Router) {
			r.Use(authmiddleware.RequireRole(models.RoleAdmin, models.RoleManager))

			r.Get("/", ctrl.Financial.Index)
			r.Post("/", ctrl.Financial.Create)
			r.Get("/exportar", ctrl.Financial.ExportCSV)
		})

		// Fleet routes
		r.Route("/frota", func(r chi.Router) {
			r.Get("/", ctrl.Vehicle.Index)
			r.Get("/abastecimentos", ctrl.Vehicle.Refuelings)
			r.Post("/abastecimentos", ctrl.Vehicle.CreateRefueling)
			r.Get("/{id}", ctrl.Vehicle.Show)
			r.Post("/{id}/manutencoes", ctrl.Vehicle.CreateMaintenance)

			r.With(authmiddleware.RequireRole(models.RoleAdmin, models.RoleManager)).
				Post("/", ctrl.Vehicle.Create)
			r.With(authmiddleware.RequireRole(models.RoleAdmin, models.RoleManager)).
				Post("/{id}", ctrl.Vehicle.Update)
		})

		// User administration, administrators only
		r.Route("/usuarios", func(r chi.Router) {
			r.Use(authmiddleware.RequireRole(models.RoleAdmin))

			r.Get("/", ctrl.User.Index)
			r.Post("/", ctrl.User.Create)
			r.Get("/{id}/editar", ctrl.User.Edit)
			r.Post("/{id}", ctrl.User.Update)
			r.Post("/{id}/ativo", ctrl.User.SetActive)
		})

		// Activity log, administrators only
		r.With(authmiddleware.RequireRole(models.RoleAdmin)).
			Get("/logs", ctrl.Logs.Index)
	})

	return r, nil
}
