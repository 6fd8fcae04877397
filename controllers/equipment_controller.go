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

// EquipmentController handles equipment management requests
type EquipmentController struct {
	services *services.Services
}

// NewEquipmentController creates a new equipment controller
func NewEquipmentController(services *services.Services) *EquipmentController {
	return &EquipmentController{
		services: services,
	}
}

type equipmentListData struct {
	Title       string
	CurrentPage string
	Error       string
	Success     string
	Equipment   []models.Equipment
	Clients     []models.Client
	Form        *models.EquipmentForm
}

// Index handles GET /equipamentos
func (c *EquipmentController) Index(w http.ResponseWriter, r *http.Request) {
	equipment, err := c.services.Equipment.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load equipment: "+err.Error(), http.StatusInternalServerError)
		return
	}

	clients, err := c.services.Client.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load clients: "+err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, "equipment", "templates/equipment.html", equipmentListData{
		Title:       "Equipamentos - SAMAPE",
		CurrentPage: "equipment",
		Error:       r.URL.Query().Get("error"),
		Success:     r.URL.Query().Get("success"),
		Equipment:   equipment,
		Clients:     clients,
		Form:        &models.EquipmentForm{},
	})
}

// Create handles POST /equipamentos
func (c *EquipmentController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.EquipmentForm{
		ClientID:     formInt(r, "client_id"),
		Type:         r.FormValue("type"),
		Brand:        r.FormValue("brand"),
		Model:        r.FormValue("model"),
		SerialNumber: r.FormValue("serial_number"),
		Year:         formIntPtr(r, "year"),
	}

	equipment, err := c.services.Equipment.Create(r.Context(), form)
	if err != nil {
		http.Redirect(w, r, "/equipamentos?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		"Cadastro de equipamento", "equipment", &equipment.ID, equipment.Type, middleware.RemoteIP(r))

	http.Redirect(w, r, "/equipamentos", http.StatusSeeOther)
}

// Edit handles GET /equipamentos/{id}/editar
func (c *EquipmentController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid equipment ID", http.StatusBadRequest)
		return
	}

	equipment, err := c.services.Equipment.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Equipment not found: "+err.Error(), http.StatusNotFound)
		return
	}

	clients, err := c.services.Client.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load clients: "+err.Error(), http.StatusInternalServerError)
		return
	}

	form := &models.EquipmentForm{
		ClientID:     equipment.ClientID,
		Type:         equipment.Type,
		Brand:        equipment.Brand,
		Model:        equipment.Model,
		SerialNumber: equipment.SerialNumber,
		Year:         equipment.Year,
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Error       string
		Success     string
		Equipment   *models.Equipment
		Clients     []models.Client
		Form        *models.EquipmentForm
	}{
		Title:       "Editar Equipamento - SAMAPE",
		CurrentPage: "equipment",
		Equipment:   equipment,
		Clients:     clients,
		Form:        form,
	}

	renderTemplate(w, "equipment_edit", "templates/equipment_edit.html", templateData)
}

// Update handles POST /equipamentos/{id}
func (c *EquipmentController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid equipment ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.EquipmentForm{
		ClientID:     formInt(r, "client_id"),
		Type:         r.FormValue("type"),
		Brand:        r.FormValue("brand"),
		Model:        r.FormValue("model"),
		SerialNumber: r.FormValue("serial_number"),
		Year:         formIntPtr(r, "year"),
	}

	equipment, err := c.services.Equipment.Update(r.Context(), id, form)
	if err != nil {
		http.Redirect(w, r, "/equipamentos?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		"Atualização de equipamento", "equipment", &equipment.ID, equipment.Type, middleware.RemoteIP(r))

	http.Redirect(w, r, "/equipamentos", http.StatusSeeOther)
}

// Delete handles POST /equipamentos/{id}/excluir
func (c *EquipmentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid equipment ID", http.StatusBadRequest)
		return
	}

	if err := c.services.Equipment.Delete(r.Context(), id); err != nil {
		http.Redirect(w, r, "/equipamentos?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		"Exclusão de equipamento", "equipment", &id, "", middleware.RemoteIP(r))

	http.Redirect(w, r, "/equipamentos", http.StatusSeeOther)
}
