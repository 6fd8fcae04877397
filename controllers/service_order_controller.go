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

// ServiceOrderController handles service order requests
type ServiceOrderController struct {
	services *services.Services
}

// NewServiceOrderController creates a new service order controller
func NewServiceOrderController(services *services.Services) *ServiceOrderController {
	return &ServiceOrderController{
		services: services,
	}
}

// Index handles GET /os, optionally filtered with ?status=
func (c *ServiceOrderController) Index(w http.ResponseWriter, r *http.Request) {
	var status models.ServiceOrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := models.ParseServiceOrderStatus(raw)
		if !ok {
			http.Error(w, "Invalid status filter", http.StatusBadRequest)
			return
		}
		status = parsed
	}

	orders, err := c.services.ServiceOrder.GetAll(r.Context(), status)
	if err != nil {
		http.Error(w, "Failed to load service orders: "+err.Error(), http.StatusInternalServerError)
		return
	}

	stats, err := c.services.ServiceOrder.GetStats(r.Context())
	if err != nil {
		http.Error(w, "Failed to load order stats: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Error       string
		Success     string
		Orders      []models.ServiceOrder
		Stats       *models.ServiceOrderStats
		Filter      string
	}{
		Title:       "Ordens de Serviço - SAMAPE",
		CurrentPage: "orders",
		Error:       r.URL.Query().Get("error"),
		Success:     r.URL.Query().Get("success"),
		Orders:      orders,
		Stats:       stats,
		Filter:      string(status),
	}

	renderTemplate(w, "orders", "templates/orders.html", templateData)
}

// Show handles GET /os/{id}
func (c *ServiceOrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid service order ID", http.StatusBadRequest)
		return
	}

	order, err := c.services.ServiceOrder.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Service order not found: "+err.Error(), http.StatusNotFound)
		return
	}

	equipment, err := c.services.ServiceOrder.GetEquipment(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load order equipment: "+err.Error(), http.StatusInternalServerError)
		return
	}

	entries, err := c.services.Financial.GetByServiceOrder(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load order entries: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Error       string
		Success     string
		Order       *models.ServiceOrder
		Equipment   []models.Equipment
		Entries     []models.FinancialEntry
	}{
		Title:       "OS " + strconv.Itoa(order.ID) + " - SAMAPE",
		CurrentPage: "orders",
		Error:       r.URL.Query().Get("error"),
		Order:       order,
		Equipment:   equipment,
		Entries:     entries,
	}

	renderTemplate(w, "order_show", "templates/order_show.html", templateData)
}

// New handles GET /os/nova
func (c *ServiceOrderController) New(w http.ResponseWriter, r *http.Request) {
	clients, err := c.services.Client.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load clients: "+err.Error(), http.StatusInternalServerError)
		return
	}

	users, err := c.services.User.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load users: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Error       string
		Success     string
		Clients     []models.Client
		Users       []models.User
		Form        *models.ServiceOrderForm
	}{
		Title:       "Nova OS - SAMAPE",
		CurrentPage: "orders",
		Clients:     clients,
		Users:       users,
		Form:        &models.ServiceOrderForm{},
	}

	renderTemplate(w, "order_new", "templates/order_new.html", templateData)
}

// Create handles POST /os
func (c *ServiceOrderController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.ServiceOrderForm{
		ClientID:      formInt(r, "client_id"),
		ResponsibleID: formIntPtr(r, "responsible_id"),
		Description:   r.FormValue("description"),
		EquipmentIDs:  formIntList(r, "equipment_ids"),
	}
	if v := r.FormValue("estimated_value"); v != "" {
		value := formFloat(r, "estimated_value")
		form.EstimatedValue = &value
	}

	order, err := c.services.ServiceOrder.Create(r.Context(), form)
	if err != nil {
		http.Redirect(w, r, "/os?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		"Abertura de OS", "service_order", &order.ID, order.Description, middleware.RemoteIP(r))

	http.Redirect(w, r, "/os/"+strconv.Itoa(order.ID), http.StatusSeeOther)
}

// Update handles POST /os/{id}
func (c *ServiceOrderController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid service order ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.ServiceOrderForm{
		ClientID:      formInt(r, "client_id"),
		ResponsibleID: formIntPtr(r, "responsible_id"),
		Description:   r.FormValue("description"),
		Status:        r.FormValue("status"),
		EquipmentIDs:  formIntList(r, "equipment_ids"),
	}
	if v := r.FormValue("estimated_value"); v != "" {
		value := formFloat(r, "estimated_value")
		form.EstimatedValue = &value
	}

	order, err := c.services.ServiceOrder.Update(r.Context(), id, form)
	if err != nil {
		http.Redirect(w, r, "/os/"+strconv.Itoa(id)+"?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		"Atualização de OS", "service_order", &order.ID, "", middleware.RemoteIP(r))

	http.Redirect(w, r, "/os/"+strconv.Itoa(order.ID), http.StatusSeeOther)
}

// CloseForm handles GET /os/{id}/fechar
func (c *ServiceOrderController) CloseForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid service order ID", http.StatusBadRequest)
		return
	}

	order, err := c.services.ServiceOrder.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Service order not found: "+err.Error(), http.StatusNotFound)
		return
	}

	suggested, err := c.services.ServiceOrder.SuggestInvoiceNumber(r.Context())
	if err != nil {
		http.Error(w, "Failed to suggest invoice number: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title            string
		CurrentPage      string
		Error            string
		Success          string
		Order            *models.ServiceOrder
		SuggestedInvoice string
	}{
		Title:            "Fechar OS - SAMAPE",
		CurrentPage:      "orders",
		Order:            order,
		SuggestedInvoice: suggested,
	}

	renderTemplate(w, "order_close", "templates/order_close.html", templateData)
}

// Close handles POST /os/{id}/fechar
func (c *ServiceOrderController) Close(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid service order ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.CloseServiceOrderForm{
		InvoiceNumber:  r.FormValue("invoice_number"),
		InvoiceAmount:  formFloat(r, "invoice_amount"),
		ServiceDetails: r.FormValue("service_details"),
	}

	actorID := userctx.UserIDPtr(r.Context())
	order, err := c.services.ServiceOrder.Close(r.Context(), id, form, actorID)
	if err != nil {
		http.Redirect(w, r, "/os/"+strconv.Itoa(id)+"?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), actorID,
		"Fechamento de OS", "service_order", &order.ID, "NF-e "+order.InvoiceNumber, middleware.RemoteIP(r))

	http.Redirect(w, r, "/os/"+strconv.Itoa(order.ID), http.StatusSeeOther)
}

// formIntList reads a repeated integer form field, skipping invalid values
func formIntList(r *http.Request, name string) []int {
	var ids []int
	for _, raw := range r.Form[name] {
		if id, err := strconv.Atoi(raw); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
