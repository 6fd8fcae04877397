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

// UserController handles user administration and profile requests
type UserController struct {
	services *services.Services
}

// NewUserController creates a new user controller
func NewUserController(services *services.Services) *UserController {
	return &UserController{
		services: services,
	}
}

// Index handles GET /usuarios
func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
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
		Users       []models.User
		Form        *models.UserForm
	}{
		Title:       "Usuários - SAMAPE",
		CurrentPage: "users",
		Error:       r.URL.Query().Get("error"),
		Success:     r.URL.Query().Get("success"),
		Users:       users,
		Form:        &models.UserForm{Active: true},
	}

	renderTemplate(w, "users", "templates/users.html", templateData)
}

// Create handles POST /usuarios
func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.UserForm{
		Username: r.FormValue("username"),
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
		Active:   formCheckbox(r, "active"),
	}

	user, err := c.services.User.Create(r.Context(), form)
	if err != nil {
		http.Redirect(w, r, "/usuarios?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		"Cadastro de usuário", "user", &user.ID, user.Username, middleware.RemoteIP(r))

	http.Redirect(w, r, "/usuarios", http.StatusSeeOther)
}

// Edit handles GET /usuarios/{id}/editar
func (c *UserController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := c.services.User.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "User not found: "+err.Error(), http.StatusNotFound)
		return
	}

	form := &models.UserForm{
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Role:     string(user.Role),
		Active:   user.Active,
	}

	attempts, err := c.services.Auth.RecentAttempts(r.Context(), user.Username, 10)
	if err != nil {
		http.Error(w, "Failed to load login attempts: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title         string
		CurrentPage   string
		Error         string
		Success       string
		User          *models.User
		Form          *models.UserForm
		LoginAttempts []models.LoginAttempt
	}{
		Title:         "Editar Usuário - SAMAPE",
		CurrentPage:   "users",
		User:          user,
		Form:          form,
		LoginAttempts: attempts,
	}

	renderTemplate(w, "user_edit", "templates/user_edit.html", templateData)
}

// Update handles POST /usuarios/{id}
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.UserForm{
		Username: r.FormValue("username"),
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
		Active:   formCheckbox(r, "active"),
	}

	user, err := c.services.User.Update(r.Context(), id, form)
	if err != nil {
		http.Redirect(w, r, "/usuarios?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		"Atualização de usuário", "user", &user.ID, user.Username, middleware.RemoteIP(r))

	http.Redirect(w, r, "/usuarios", http.StatusSeeOther)
}

// SetActive handles POST /usuarios/{id}/ativo
func (c *UserController) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	active := r.FormValue("active") == "true"

	user, err := c.services.User.SetActive(r.Context(), id, active)
	if err != nil {
		http.Redirect(w, r, "/usuarios?error="+err.Error(), http.StatusSeeOther)
		return
	}

	action := "Desativação de usuário"
	if active {
		action = "Ativação de usuário"
	}
	c.services.Audit.Record(r.Context(), userctx.UserIDPtr(r.Context()),
		action, "user", &user.ID, user.Username, middleware.RemoteIP(r))

	http.Redirect(w, r, "/usuarios", http.StatusSeeOther)
}

// Profile handles GET /perfil
func (c *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := c.services.User.GetByID(r.Context(), userctx.UserID(r.Context()))
	if err != nil {
		http.Error(w, "User not found: "+err.Error(), http.StatusNotFound)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Error       string
		Success     string
		User        *models.User
		Form        *models.ProfileForm
	}{
		Title:       "Meu Perfil - SAMAPE",
		CurrentPage: "profile",
		Error:       r.URL.Query().Get("error"),
		Success:     r.URL.Query().Get("success"),
		User:        user,
		Form:        &models.ProfileForm{Name: user.Name, Email: user.Email},
	}

	renderTemplate(w, "profile", "templates/profile.html", templateData)
}

// UpdateProfile handles POST /perfil
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.ProfileForm{
		Name:            r.FormValue("name"),
		Email:           r.FormValue("email"),
		CurrentPassword: r.FormValue("current_password"),
		NewPassword:     r.FormValue("new_password"),
	}

	actorID := userctx.UserIDPtr(r.Context())
	user, err := c.services.User.UpdateProfile(r.Context(), userctx.UserID(r.Context()), form)
	if err != nil {
		http.Redirect(w, r, "/perfil?error="+err.Error(), http.StatusSeeOther)
		return
	}

	c.services.Audit.Record(r.Context(), actorID,
		"Atualização de perfil", "user", &user.ID, "", middleware.RemoteIP(r))

	http.Redirect(w, r, "/perfil?success=Perfil atualizado", http.StatusSeeOther)
}
