package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/samape/samape/middleware"
	"github.com/samape/samape/models"
	"github.com/samape/samape/services"
	"github.com/samape/samape/userctx"
)

// VehicleController handles fleet management requests
type VehicleController struct {
	services *services.Services
}

// NewVehicleController creates a new vehicle controller
func NewVehicleController(services *services.Services) *VehicleController {
	return &VehicleController{
		services: services,
	}
}

// Index handles GET /frota
func (c *VehicleController) Index(w http.ResponseWriter, r *http.Request) {
	vehicles, err := c.services.Vehicle.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load vehicles: "+err.Error(), http.StatusInternalServerError)
		return
	}

	stats, err := c.services.Vehicle.GetStats(r.Context())
	if err != nil {
		http.Error(w, "Failed to load fleet stats: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Error       string
		Success     string
		Vehicles    []models.Vehicle
		Stats       *models.VehicleStats
		Form        *models.VehicleForm
	}{
		Title:       "Frota - SAMAPE",
		CurrentPage: "fleet",
		Error:       r.URL.Query().Get("error"),
		Success:     r.URL.Query().Get("success"),
		Vehicles:    vehicles,
		Stats:       stats,
		Form:        &models.VehicleForm{},
	}

	renderTemplate(w, "fleet", "templates/fleet.html", templateData)
}

// Show handles GET /frota/{id}
func (c *VehicleController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}

	vehicle, err := c.services.Vehicle.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Vehicle not found: "+err.Error(), http.StatusNotFound)
		return
	}

	refuelings, err := c.services.Vehicle.GetRefuelingsByVehicle(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load refuelings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	maintenance, err := c.services.Vehicle.GetMaintenanceByVehicle(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load maintenance history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	travelLogs, err := c.services.Vehicle.GetTravelLogsByVehicle(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load travel logs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Error       string
		Success     string
		Vehicle     *models.Vehicle
		Refuelings  []models.Refueling
		Maintenance []models.VehicleMaintenance
		TravelLogs  []models.VehicleTravelLog
	}{
		Title:       vehicle.Plate + " - SAMAPE",
		CurrentPage: "fleet",
		Error:       r.URL.Query().Get("error"),
		Vehicle:     vehicle,
		Refuelings:  refuelings,
		Maintenance: maintenance,
		TravelLogs:  travelLogs,
	}

	renderTemplate(w, "vehicle_show", "templates/vehicle_show.html", templateData)
}

// Create handles POST /frota
func (c *VehicleController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.VehicleForm{
		Plate:         r.FormValue("plate"),
		Brand:         r.FormValue("brand"),
		Model:         r.FormValue("model"),
		Year:          formIntPtr(r, "year"),
		Color:         r.FormValue("color"),
		FuelType:      r.FormValue("fuel_type"),
		Status:        r.FormValue("status"),
		CurrentKM:     formInt(r, "current_km"),
		ResponsibleID: formIntPtr(r, "responsible_id"),
		Notes:         r.FormValue("notes"),
	}

	vehicle, err := c.services.Vehicle.Create(r.Context(), form)
	if err != nil {
		http.Redirect(w, r, "/frota?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		"Cadastro de veículo", "vehicle", &vehicle.ID, vehicle.Plate, middleware.RemoteIP(r))

	http.Redirect(w, r, "/frota/"+strconv.Itoa(vehicle.ID), http.StatusSeeOther)
}

// Update handles POST /frota/{id}
func (c *VehicleController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.VehicleForm{
		Plate:         r.FormValue("plate"),
		Brand:         r.FormValue("brand"),
		Model:         r.FormValue("model"),
		Year:          formIntPtr(r, "year"),
		Color:         r.FormValue("color"),
		FuelType:      r.FormValue("fuel_type"),
		Status:        r.FormValue("status"),
		CurrentKM:     formInt(r, "current_km"),
		ResponsibleID: formIntPtr(r, "responsible_id"),
		Notes:         r.FormValue("notes"),
	}

	vehicle, err := c.services.Vehicle.Update(r.Context(), id, form)
	if err != nil {
		http.Redirect(w, r, "/frota/"+strconv.Itoa(id)+"?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		"Atualização de veículo", "vehicle", &vehicle.ID, vehicle.Plate, middleware.RemoteIP(r))

	http.Redirect(w, r, "/frota/"+strconv.Itoa(vehicle.ID), http.StatusSeeOther)
}

// Refuelings handles GET /frota/abastecimentos
func (c *VehicleController) Refuelings(w http.ResponseWriter, r *http.Request) {
	refuelings, err := c.services.Vehicle.GetRefuelings(r.Context())
	if err != nil {
		http.Error(w, "Failed to load refuelings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	vehicles, err := c.services.Vehicle.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load vehicles: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Error       string
		Success     string
		Refuelings  []models.Refueling
		Vehicles    []models.Vehicle
		Form        *models.RefuelingForm
	}{
		Title:       "Abastecimentos - SAMAPE",
		CurrentPage: "fleet",
		Error:       r.URL.Query().Get("error"),
		Refuelings:  refuelings,
		Vehicles:    vehicles,
		Form:        &models.RefuelingForm{},
	}

	renderTemplate(w, "refuelings", "templates/refuelings.html", templateData)
}

// CreateRefueling handles POST /frota/abastecimentos
func (c *VehicleController) CreateRefueling(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.RefuelingForm{
		VehicleID:     formInt(r, "vehicle_id"),
		Date:          r.FormValue("date"),
		Odometer:      formInt(r, "odometer"),
		FuelType:      r.FormValue("fuel_type"),
		Liters:        formFloat(r, "liters"),
		PricePerLiter: formFloat(r, "price_per_liter"),
		TotalCost:     formFloat(r, "total_cost"),
		FullTank:      formCheckbox(r, "full_tank"),
		GasStation:    r.FormValue("gas_station"),
		DriverID:      formIntPtr(r, "driver_id"),
		Notes:         r.FormValue("notes"),
	}

	actorID := userctx.UserIDPtr(r.Context())
	refueling, err := c.services.Vehicle.RegisterRefueling(r.Context(), form, actorID)
	if err != nil {
		http.Redirect(w, r, "/frota/abastecimentos?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), actorID,
		"Registro de abastecimento", "refueling", &refueling.VehicleID, "", middleware.RemoteIP(r))

	http.Redirect(w, r, "/frota/"+strconv.Itoa(refueling.VehicleID), http.StatusSeeOther)
}

// CreateMaintenance handles POST /frota/{id}/manutencoes
func (c *VehicleController) CreateMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.VehicleMaintenanceForm{
		VehicleID:   id,
		Date:        r.FormValue("date"),
		Description: r.FormValue("description"),
		Odometer:    formIntPtr(r, "odometer"),
		Workshop:    r.FormValue("workshop"),
		Notes:       r.FormValue("notes"),
	}
	if v := r.FormValue("cost"); v != "" {
		cost := formFloat(r, "cost")
		form.Cost = &cost
	}

	actorID := userctx.UserIDPtr(r.Context())
	maintenance, err := c.services.Vehicle.RegisterMaintenance(r.Context(), form, actorID)
	if err != nil {
		http.Redirect(w, r, "/frota/"+strconv.Itoa(id)+"?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), actorID,
		"Registro de manutenção", "vehicle_maintenance", &maintenance.VehicleID, maintenance.Description, middleware.RemoteIP(r))

	http.Redirect(w, r, "/frota/"+strconv.Itoa(id), http.StatusSeeOther)
}
