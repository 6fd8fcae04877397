package controllers

import (
	"net/http"
	"time"

	"github.com/samape/samape/middleware"
	"github.com/samape/samape/models"
	"github.com/samape/samape/services"
	"github.com/samape/samape/userctx"
)

// FinancialController handles financial ledger requests
type FinancialController struct {
	services *services.Services
}

// NewFinancialController creates a new financial controller
func NewFinancialController(services *services.Services) *FinancialController {
	return &FinancialController{
		services: services,
	}
}

// Index handles GET /financeiro
func (c *FinancialController) Index(w http.ResponseWriter, r *http.Request) {
	entries, err := c.services.Financial.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load financial entries: "+err.Error(), http.StatusInternalServerError)
		return
	}

	now := time.Now()
	summary, err := c.services.Financial.GetMonthlySummary(r.Context(), now.Year(), now.Month())
	if err != nil {
		http.Error(w, "Failed to load monthly summary: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Error       string
		Success     string
		Entries     []models.FinancialEntry
		Summary     *models.MonthlySummary
		Form        *models.FinancialEntryForm
	}{
		Title:       "Financeiro - SAMAPE",
		CurrentPage: "financial",
		Error:       r.URL.Query().Get("error"),
		Success:     r.URL.Query().Get("success"),
		Entries:     entries,
		Summary:     summary,
		Form:        &models.FinancialEntryForm{},
	}

	renderTemplate(w, "financial", "templates/financial.html", templateData)
}

// Create handles POST /financeiro
func (c *FinancialController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.FinancialEntryForm{
		ServiceOrderID: formIntPtr(r, "service_order_id"),
		Description:    r.FormValue("description"),
		Amount:         formFloat(r, "amount"),
		Type:           r.FormValue("type"),
		Date:           r.FormValue("date"),
	}

	actorID := userctx.UserIDPtr(r.Context())
	entry, err := c.services.Financial.Create(r.Context(), form, actorID)
	if err != nil {
		http.Redirect(w, r, "/financeiro?error="+err.Error(), http.StatusSeeOther)
		return
	}

	entryID := int(entry.ID)
	c.services.Audit.Record(r.Context(), actorID,
		"Lançamento financeiro", "financial_entry", &entryID, entry.Description, middleware.RemoteIP(r))

	http.Redirect(w, r, "/financeiro", http.StatusSeeOther)
}

// ExportCSV handles GET /financeiro/exportar
func (c *FinancialController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="financeiro.csv"`)

	if err := c.services.Financial.ExportCSV(r.Context(), w); err != nil {
		http.Error(w, "Failed to export entries: "+err.Error(), http.StatusInternalServerError)
		return
	}
}
