package controllers

import (
	"net/http"
	"strconv"

	"github.com/samape/samape/models"
	"github.com/samape/samape/services"
)

// LogsController serves the audit activity feed
type LogsController struct {
	services *services.Services
}

// NewLogsController creates a new logs controller
func NewLogsController(services *services.Services) *LogsController {
	return &LogsController{
		services: services,
	}
}

// Index handles GET /logs
func (c *LogsController) Index(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	entries, err := c.services.Audit.GetRecent(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to load activity log: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Error       string
		Success     string
		Entries     []models.ActionLogEntry
	}{
		Title:       "Registro de Atividades - SAMAPE",
		CurrentPage: "logs",
		Entries:     entries,
	}

	renderTemplate(w, "logs", "templates/logs.html", templateData)
}
