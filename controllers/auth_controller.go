package controllers

import (
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/samape/samape/config"
	"github.com/samape/samape/middleware"
	"github.com/samape/samape/services"
	"github.com/samape/samape/userctx"
)

// AuthController handles login and logout
type AuthController struct {
	services *services.Services
	cfg      *config.Config
}

// NewAuthController creates a new auth controller
func NewAuthController(services *services.Services, cfg *config.Config) *AuthController {
	return &AuthController{
		services: services,
		cfg:      cfg,
	}
}

type loginPageData struct {
	Title       string
	CurrentPage string
	Error       string
	Success     string
	Username    string
	NextPath    string
}

// LoginPage handles GET /login
func (c *AuthController) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	if userID, ok := sess.Get("user_id").(int); ok && userID > 0 {
		http.Redirect(w, r, services.DefaultLandingPath, http.StatusSeeOther)
		return
	}

	renderTemplate(w, "login", "templates/login.html", loginPageData{
		Title:       "Entrar - SAMAPE",
		CurrentPage: "login",
		NextPath:    r.URL.Query().Get("next"),
	})
}

// Login handles POST /login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	rememberMe := formCheckbox(r, "remember_me")

	sess := session.GetSession(r)

	nextPath := r.FormValue("next")
	if nextPath == "" {
		if stored, ok := sess.Get("redirect_after_login").(string); ok {
			nextPath = stored
		}
	}

	result := c.services.Auth.AttemptLogin(r.Context(), username, password, rememberMe, middleware.RemoteIP(r), nextPath)

	if result.Status != services.LoginAuthenticated {
		renderTemplateWithStatus(w, http.StatusUnauthorized, "login_error", "templates/login.html", loginPageData{
			Title:       "Entrar - SAMAPE",
			CurrentPage: "login",
			Error:       result.Message,
			Username:    username,
			NextPath:    nextPath,
		})
		return
	}

	sess.Set("user_id", result.User.ID)
	sess.Set("user_name", result.User.Name)
	sess.Set("user_role", string(result.User.Role))
	sess.Delete("redirect_after_login")

	// "Lembrar-me" re-issues the session cookie with an expiry so it
	// survives browser restarts; without it the cookie is session-scoped
	if rememberMe {
		http.SetCookie(w, &http.Cookie{
			Name:     config.SessionCookieName,
			Value:    sess.ID(),
			Path:     "/",
			MaxAge:   c.cfg.RememberMeLifetimeSeconds,
			HttpOnly: true,
			Secure:   c.cfg.UseHTTPS,
		})
	}

	http.Redirect(w, r, result.RedirectPath, http.StatusSeeOther)
}

// Logout handles POST /logout
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	actorID := userctx.UserIDPtr(r.Context())
	c.services.Audit.Record(r.Context(), actorID, "Logout", "user", actorID, "", middleware.RemoteIP(r))

	sess := session.GetSession(r)
	sess.Delete("user_id")
	sess.Delete("user_name")
	sess.Delete("user_role")

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
