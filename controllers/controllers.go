package controllers

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/samape/samape/config"
	"github.com/samape/samape/models"
	"github.com/samape/samape/services"
)

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, templateName string, pageTemplate string, data interface{}) error {
	return renderTemplateWithStatus(w, http.StatusOK, templateName, pageTemplate, data)
}

// renderTemplateWithStatus creates a template set and renders it with the provided data and status code
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, templateName string, pageTemplate string, data interface{}) error {
	// Create a new template set with only the templates we need
	tmpl := template.New(templateName)
	tmpl.Funcs(template.FuncMap{
		"add":            func(a, b int) int { return a + b },
		"sub":            func(a, b int) int { return a - b },
		"eq":             func(a, b interface{}) bool { return a == b },
		"formatCurrency": models.FormatCurrency,
		"formatDate":     models.FormatDate,
		"formatDocument": models.FormatDocument,
	})

	// Parse layout and page template
	_, err := tmpl.ParseFiles("templates/layout.html", pageTemplate)
	if err != nil {
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	// Set status code if not OK
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	return nil
}

// formCheckbox reads a checkbox that ships with a hidden fallback field:
// the last value wins
func formCheckbox(r *http.Request, name string) bool {
	values := r.Form[name]
	return len(values) > 0 && values[len(values)-1] == "on"
}

// formIntPtr reads an optional integer form field, nil when empty or invalid
func formIntPtr(r *http.Request, name string) *int {
	value := r.FormValue(name)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

// formFloat reads a float form field, zero when empty or invalid
func formFloat(r *http.Request, name string) float64 {
	f, err := strconv.ParseFloat(r.FormValue(name), 64)
	if err != nil {
		return 0
	}
	return f
}

// formInt reads an integer form field, zero when empty or invalid
func formInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.FormValue(name))
	if err != nil {
		return 0
	}
	return n
}

// Controllers holds all controller instances
type Controllers struct {
	Auth         *AuthController
	Dashboard    *DashboardController
	Client       *ClientController
	Equipment    *EquipmentController
	ServiceOrder *ServiceOrderController
	Financial    *FinancialController
	Vehicle      *VehicleController
	User         *UserController
	Logs         *LogsController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, cfg *config.Config) *Controllers {
	return &Controllers{
		Auth:         NewAuthController(services, cfg),
		Dashboard:    NewDashboardController(services),
		Client:       NewClientController(services),
		Equipment:    NewEquipmentController(services),
		ServiceOrder: NewServiceOrderController(services),
		Financial:    NewFinancialController(services),
		Vehicle:      NewVehicleController(services),
		User:         NewUserController(services),
		Logs:         NewLogsController(services),
	}
}
