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

// ClientController handles client management requests
type ClientController struct {
	services *services.Services
}

// NewClientController creates a new client controller
func NewClientController(services *services.Services) *ClientController {
	return &ClientController{
		services: services,
	}
}

type clientListData struct {
	Title       string
	CurrentPage string
	Error       string
	Success     string
	Clients     []models.Client
	Form        *models.ClientForm
}

// Index handles GET /clientes
func (c *ClientController) Index(w http.ResponseWriter, r *http.Request) {
	clients, err := c.services.Client.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load clients: "+err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, "clients", "templates/clients.html", clientListData{
		Title:       "Clientes - SAMAPE",
		CurrentPage: "clients",
		Error:       r.URL.Query().Get("error"),
		Success:     r.URL.Query().Get("success"),
		Clients:     clients,
		Form:        &models.ClientForm{},
	})
}

// Create handles POST /clientes
func (c *ClientController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.ClientForm{
		Name:     r.FormValue("name"),
		Document: r.FormValue("document"),
		Email:    r.FormValue("email"),
		Phone:    r.FormValue("phone"),
		Address:  r.FormValue("address"),
	}

	client, err := c.services.Client.Create(r.Context(), form)
	if err != nil {
		// Reload page with form data and error
		clients, loadErr := c.services.Client.GetAll(r.Context())
		if loadErr != nil {
			http.Error(w, "Failed to load clients: "+loadErr.Error(), http.StatusInternalServerError)
			return
		}

		renderTemplateWithStatus(w, http.StatusBadRequest, "client_create_error", "templates/clients.html", clientListData{
			Title:       "Clientes - SAMAPE",
			CurrentPage: "clients",
			Error:       err.Error(),
			Clients:     clients,
			Form:        form,
		})
		return
	}

	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		"Cadastro de cliente", "client", &client.ID, client.Name, middleware.RemoteIP(r))

	http.Redirect(w, r, "/clientes", http.StatusSeeOther)
}

// Edit handles GET /clientes/{id}/editar
func (c *ClientController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}

	client, err := c.services.Client.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Client not found: "+err.Error(), http.StatusNotFound)
		return
	}

	form := &models.ClientForm{
		Name:     client.Name,
		Document: models.FormatDocument(client.Document),
		Email:    client.Email,
		Phone:    client.Phone,
		Address:  client.Address,
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Error       string
		Success     string
		Client      *models.Client
		Form        *models.ClientForm
	}{
		Title:       "Editar Cliente - SAMAPE",
		CurrentPage: "clients",
		Client:      client,
		Form:        form,
	}

	renderTemplate(w, "client_edit", "templates/client_edit.html", templateData)
}

// Update handles POST /clientes/{id}
func (c *ClientController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.ClientForm{
		Name:     r.FormValue("name"),
		Document: r.FormValue("document"),
		Email:    r.FormValue("email"),
		Phone:    r.FormValue("phone"),
		Address:  r.FormValue("address"),
	}

	client, err := c.services.Client.Update(r.Context(), id, form)
	if err != nil {
		http.Redirect(w, r, "/clientes?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		"Atualização de cliente", "client", &client.ID, client.Name, middleware.RemoteIP(r))

	http.Redirect(w, r, "/clientes", http.StatusSeeOther)
}

// Delete handles POST /clientes/{id}/excluir
func (c *ClientController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}

	if err := c.services.Client.Delete(r.Context(), id); err != nil {
		http.Redirect(w, r, "/clientes?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		"Exclusão de cliente", "client", &id, "", middleware.RemoteIP(r))

	http.Redirect(w, r, "/clientes", http.StatusSeeOther)
}
