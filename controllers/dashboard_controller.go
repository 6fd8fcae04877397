package controllers

import (
	"net/http"
	"time"

	"github.com/samape/samape/models"
	"github.com/samape/samape/services"
)

// DashboardController handles dashboard-related requests
type DashboardController struct {
	services *services.Services
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(services *services.Services) *DashboardController {
	return &DashboardController{
		services: services,
	}
}

// Index handles GET /dashboard
func (c *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderStats, err := c.services.ServiceOrder.GetStats(ctx)
	if err != nil {
		http.Error(w, "Failed to load order stats: "+err.Error(), http.StatusInternalServerError)
		return
	}

	now := time.Now()
	summary, err := c.services.Financial.GetMonthlySummary(ctx, now.Year(), now.Month())
	if err != nil {
		http.Error(w, "Failed to load financial summary: "+err.Error(), http.StatusInternalServerError)
		return
	}

	openOrders, err := c.services.ServiceOrder.GetAll(ctx, models.StatusOpen)
	if err != nil {
		http.Error(w, "Failed to load open orders: "+err.Error(), http.StatusInternalServerError)
		return
	}

	recentActivity, err := c.services.Audit.GetRecent(ctx, 10)
	if err != nil {
		http.Error(w, "Failed to load recent activity: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title          string
		CurrentPage    string
		Error          string
		Success        string
		OrderStats     *models.ServiceOrderStats
		Summary        *models.MonthlySummary
		OpenOrders     []models.ServiceOrder
		RecentActivity []models.ActionLogEntry
	}{
		Title:          "Painel - SAMAPE",
		CurrentPage:    "dashboard",
		Error:          "",
		Success:        "",
		OrderStats:     orderStats,
		Summary:        summary,
		OpenOrders:     openOrders,
		RecentActivity: recentActivity,
	}

	renderTemplate(w, "dashboard", "templates/dashboard.html", templateData)
}
